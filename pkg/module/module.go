// Package module mounts independently configured HTTP handlers under
// single-segment path prefixes.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/flowdeck/pkg/middleware"
)

// Module is a handler with its own middleware stack, served beneath Prefix.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware middleware.System
}

// New creates a module. prefix must be a single segment such as "/api";
// anything else panics since it indicates a wiring bug.
func New(prefix string, handler http.Handler) *Module {
	if err := ValidatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		handler:    handler,
		middleware: middleware.New(),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the module handler wrapped in its middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.handler)
}

// Serve strips the module prefix from the request path and dispatches.
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	req := r.Clone(r.Context())
	req.URL.Path = path
	req.URL.RawPath = ""

	m.Handler().ServeHTTP(w, req)
}

// ValidatePrefix reports whether prefix can be mounted: one non-empty segment
// starting with a slash.
func ValidatePrefix(prefix string) error {
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix %q must start with /", prefix)
	}
	if prefix == "/" {
		return fmt.Errorf("module prefix %q must name a segment", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
