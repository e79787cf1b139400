package mapping

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/routes"
)

// Handler provides HTTP endpoints for mapping reconciliation.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "mapping"),
	}
}

// Routes returns the route group definition for mapping endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/mapping",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/project/{projectId}", Handler: h.Find},
			{Method: "GET", Pattern: "/project/{projectId}/entries", Handler: h.Entries},
			{Method: "GET", Pattern: "/project/{projectId}/progress", Handler: h.Progress},
			{Method: "GET", Pattern: "/project/{projectId}/suggestions", Handler: h.Suggest},
			{Method: "POST", Pattern: "/project/{projectId}", Handler: h.Initialize},
			{Method: "PUT", Pattern: "/project/{projectId}/entries", Handler: h.SetEntry},
			{Method: "POST", Pattern: "/project/{projectId}/entries/batch", Handler: h.ApplyEntries},
			{Method: "DELETE", Pattern: "/project/{projectId}/entries", Handler: h.RemoveEntry},
			{Method: "PUT", Pattern: "/project/{projectId}/values", Handler: h.UpdateValues},
			{Method: "POST", Pattern: "/project/{projectId}/pull", Handler: h.PullFromSource},
			{Method: "POST", Pattern: "/project/{projectId}/submit", Handler: h.Submit},
			{Method: "POST", Pattern: "/project/{projectId}/review", Handler: h.Review},
			{Method: "POST", Pattern: "/project/{projectId}/export", Handler: h.Export},
		},
	}
}

// Find returns the mapping configuration for a project.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	config, _, _, ok := h.load(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, config)
}

// Entries returns all mapping entries for a project.
func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	entries, err := h.sys.Entries(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, entries)
}

// Progress returns per-category mapping completeness.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	progress, err := h.sys.Progress(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, progress)
}

// Suggest returns advisory matches for unmapped source values. An optional
// category query parameter narrows the scope.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	suggestions, err := h.sys.Suggest(r.Context(), projectID, Category(r.URL.Query().Get("category")))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, suggestions)
}

// Initialize seeds the mapping configuration. Delivery team only.
func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("projectId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	actor, _ := identity.ActorFrom(r.Context())
	if err := identity.RequireParty(actor, identity.PartyDelivery); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}

	config, err := h.sys.Initialize(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, config)
}

// SetEntry upserts one mapping entry.
func (h *Handler) SetEntry(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	var cmd SetEntryCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.UpdatedBy = actor.UserID

	entry, err := h.sys.SetEntry(r.Context(), projectID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, entry)
}

// ApplyEntries upserts a batch of entries, typically an accepted
// suggestion set.
func (h *Handler) ApplyEntries(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	var cmds []SetEntryCommand
	if err := handlers.DecodeJSON(r, &cmds); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	for i := range cmds {
		cmds[i].UpdatedBy = actor.UserID
	}

	entries, err := h.sys.ApplyEntries(r.Context(), projectID, cmds)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, entries)
}

// RemoveEntry deletes one mapping entry, identified by query parameters.
func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	category := r.URL.Query().Get("category")
	sourceValue := r.URL.Query().Get("source_value")

	err := h.sys.RemoveEntry(r.Context(), projectID, Category(category), sourceValue)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// UpdateValues replaces one category's value lists.
func (h *Handler) UpdateValues(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	var cmd UpdateValuesCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	config, err := h.sys.UpdateValues(r.Context(), projectID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, config)
}

// PullFromSource merges fresh source values from the external system.
// Delivery team only.
func (h *Handler) PullFromSource(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := identity.RequireParty(actor, identity.PartyDelivery); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.PullFromSource(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Submit freezes the configuration for review.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	config, err := h.sys.Submit(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, config)
}

// Review records a reviewer's verdict. Delivery team only.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := identity.RequireParty(actor, identity.PartyDelivery); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}

	var cmd ReviewCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.Reviewer = actor.UserID

	config, err := h.sys.Review(r.Context(), projectID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, config)
}

// Export downloads the approved mapping as CSV. Delivery team only.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := identity.RequireParty(actor, identity.PartyDelivery); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}

	data, err := h.sys.Export(r.Context(), projectID, actor.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="mapping-%s.csv"`, projectID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*MappingConfig, uuid.UUID, identity.Actor, bool) {
	projectID, err := uuid.Parse(r.PathValue("projectId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, uuid.Nil, identity.Actor{}, false
	}

	config, err := h.sys.Find(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, uuid.Nil, identity.Actor{}, false
	}

	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return nil, uuid.Nil, identity.Actor{}, false
	}
	if !actor.CanAccessClient(config.ClientID) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return nil, uuid.Nil, identity.Actor{}, false
	}

	return config, projectID, actor, true
}
