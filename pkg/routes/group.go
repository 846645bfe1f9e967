// Package routes declares HTTP route groups and registers them on a ServeMux
// alongside their OpenAPI operations.
package routes

import (
	"net/http"

	"github.com/JaimeStill/flowdeck/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Route represents an HTTP route with method, pattern, and handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// AddToSpec documents every route with an OpenAPI operation under basePath.
// Operations without tags inherit the group's tags.
func (g Group) AddToSpec(basePath string, spec *openapi.Spec) {
	prefix := basePath + g.Prefix

	for _, route := range g.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = g.Tags
		}
		spec.AddOperation(prefix+route.Pattern, route.Method, op)
	}

	if len(g.Schemas) > 0 {
		spec.Components.AddSchemas(g.Schemas)
	}

	for _, child := range g.Children {
		child.AddToSpec(prefix, spec)
	}
}

// Register mounts groups on mux and documents them in spec.
// Mux patterns are relative; basePath appears only in the spec because the
// owning module strips its prefix before dispatch.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, g := range groups {
		register(mux, "", g)
		g.AddToSpec(basePath, spec)
	}
}

func register(mux *http.ServeMux, parent string, g Group) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range g.Children {
		register(mux, prefix, child)
	}
}
