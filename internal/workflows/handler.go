package workflows

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/handlers"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/JaimeStill/flowdeck/pkg/routes"
	"github.com/google/uuid"
)

// Handler provides HTTP handlers for workflow endpoints. Every handler expects
// a principal placed in the request context by auth.RequireAuth.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	maxBodySize int64
}

// NewHandler creates a workflows HTTP handler. maxBodySize caps JSON request bodies.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "workflows"),
		pagination:  pagination,
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group configuration for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/workflows",
		Tags:        []string{"Workflows"},
		Description: "Owner-scoped workflow records and canvas graphs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: Spec.Search},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "PUT", Pattern: "/{id}/graph", Handler: h.SaveGraph, OpenAPI: Spec.SaveGraph},
			{Method: "POST", Pattern: "/{id}/duplicate", Handler: h.Duplicate, OpenAPI: Spec.Duplicate},
		},
		Schemas: Spec.Schemas(),
	}
}

// List handles GET /workflows.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), p, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search handles POST /workflows/search with the page request in the body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	page, err := handlers.DecodeJSON[pagination.PageRequest](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), p, page, FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create handles POST /workflows.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[CreateCommand](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Create(r.Context(), p, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Find handles GET /workflows/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.target(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Find(r.Context(), p, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update handles PATCH /workflows/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.target(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[UpdateCommand](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Update(r.Context(), p, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /workflows/{id} and responds with the removed record.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.target(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Delete(r.Context(), p, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SaveGraph handles PUT /workflows/{id}/graph.
func (h *Handler) SaveGraph(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.target(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[GraphCommand](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.SaveGraph(r.Context(), p, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Duplicate handles POST /workflows/{id}/duplicate.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.target(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[DuplicateCommand](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Duplicate(r.Context(), p, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrUnauthorized)
	}
	return p, ok
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request) (auth.Principal, uuid.UUID, bool) {
	p, ok := h.principal(w, r)
	if !ok {
		return p, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return p, uuid.Nil, false
	}
	return p, id, true
}
