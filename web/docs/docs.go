// Package docs serves the interactive API reference page.
package docs

import (
	"bytes"
	_ "embed"
	"html"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

var specPlaceholder = []byte("{{SPEC_URL}}")

// Handler serves the reference page bound to the OpenAPI document at specURL.
func Handler(specURL string) http.HandlerFunc {
	page := bytes.ReplaceAll(indexHTML, specPlaceholder, []byte(html.EscapeString(specURL)))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	}
}
