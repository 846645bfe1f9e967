package api

import (
	"net/http"

	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/openapi"
	"github.com/JaimeStill/flowdeck/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, spec *openapi.Spec, runtime *Runtime, domain *Domain, basePath string) {
	workflowsHandler := workflows.NewHandler(domain.Workflows, runtime.Logger, runtime.Pagination, runtime.MaxBodySize)

	routes.Register(
		mux,
		basePath,
		spec,
		workflowsHandler.Routes(),
	)
}
