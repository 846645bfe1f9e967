// Package api assembles the workflow JSON API module: domain systems, routes,
// the OpenAPI document, and the middleware stack.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/flowdeck/internal/config"
	"github.com/JaimeStill/flowdeck/internal/infrastructure"
	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/middleware"
	"github.com/JaimeStill/flowdeck/pkg/module"
	"github.com/JaimeStill/flowdeck/pkg/openapi"
)

// Module is the mounted API plus the rendered OpenAPI document, which the
// docs page also serves.
type Module struct {
	*module.Module
	Spec []byte
}

// NewModule builds the API module. Every route except the OpenAPI document
// requires a bearer token.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	verifier, err := cfg.Auth.NewVerifier(runtime.Lifecycle.Context())
	if err != nil {
		return nil, fmt.Errorf("auth verifier: %w", err)
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Domain)

	protected := http.NewServeMux()
	registerRoutes(protected, spec, runtime, domain, cfg.API.BasePath)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))
	mux.Handle("/", auth.RequireAuth(verifier, runtime.Logger)(protected))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Tracing())
	m.Use(middleware.Metrics())
	m.Use(middleware.Logger(runtime.Logger))

	return &Module{Module: m, Spec: specBytes}, nil
}
