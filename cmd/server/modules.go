package main

import (
	"net/http"

	"github.com/JaimeStill/flowdeck/internal/api"
	"github.com/JaimeStill/flowdeck/internal/config"
	"github.com/JaimeStill/flowdeck/internal/infrastructure"
	"github.com/JaimeStill/flowdeck/pkg/module"
	"github.com/JaimeStill/flowdeck/web/docs"
)

type Modules struct {
	API *api.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API.Module)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready(r, infra) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	router.HandleNative("GET /docs", docs.Handler(cfg.API.BasePath+"/openapi.json"))

	return router
}

func ready(r *http.Request, infra *infrastructure.Infrastructure) bool {
	if !infra.Lifecycle.Ready() {
		return false
	}
	if infra.Database != nil {
		return infra.Database.Ping(r.Context()) == nil
	}
	return true
}
