package projects

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/pagination"
	"github.com/digital-directions/stagegate/pkg/routes"
)

// Handler provides HTTP endpoints for project operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "projects"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for project endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/projects",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/stage/advance", Handler: h.AdvanceStage},
			{Method: "POST", Pattern: "/{id}/stage/revert", Handler: h.RevertStage},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of projects. Client actors only see their own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	scopeToActor(r, &filters)

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single project by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	project, err := h.authorize(w, r)
	if err != nil {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, project)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	scopeToActor(r, &req.Filters)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create registers a new project. Delivery team only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireDelivery(w, r) {
		return
	}

	var cmd CreateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	project, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, project)
}

// AdvanceStage moves a project to the next lifecycle stage. Delivery team only.
func (h *Handler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	if !h.requireDelivery(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	project, err := h.sys.AdvanceStage(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, project)
}

// RevertStage moves a project back to an earlier lifecycle stage. Delivery team only.
func (h *Handler) RevertStage(w http.ResponseWriter, r *http.Request) {
	if !h.requireDelivery(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Target *string `json:"target,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &body); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	var target *Stage
	if body.Target != nil {
		stage, err := ParseStage(*body.Target)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		target = &stage
	}

	project, err := h.sys.RevertStage(r.Context(), id, target)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, project)
}

// Delete removes a project and all of its stage data. Delivery team only.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireDelivery(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authorize loads the project and verifies the actor may access it.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (*Project, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, err
	}

	project, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, err
	}

	actor, ok := identity.ActorFrom(r.Context())
	if !ok || !actor.CanAccessClient(project.ClientID) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return nil, identity.ErrForbidden
	}

	return project, nil
}

func (h *Handler) requireDelivery(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok || !actor.IsDelivery() {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return false
	}
	return true
}

func scopeToActor(r *http.Request, f *Filters) {
	if actor, ok := identity.ActorFrom(r.Context()); ok && !actor.IsDelivery() {
		clientID := actor.ClientID
		f.ClientID = &clientID
	}
}
