package golive

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/routes"
)

// Handler provides HTTP endpoints for the go-live checklist and event.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "golive"),
	}
}

// Routes returns the route group definition for go-live endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/golive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/project/{projectId}", Handler: h.Find},
			{Method: "GET", Pattern: "/project/{projectId}/status", Handler: h.Status},
			{Method: "GET", Pattern: "/project/{projectId}/event", Handler: h.FindEvent},
			{Method: "POST", Pattern: "/project/{projectId}", Handler: h.Initialize},
			{Method: "POST", Pattern: "/project/{projectId}/items", Handler: h.ToggleItem},
			{Method: "POST", Pattern: "/project/{projectId}/trigger", Handler: h.Trigger},
			{Method: "POST", Pattern: "/events/{id}/acknowledge", Handler: h.Acknowledge},
		},
	}
}

// Find returns the checklist pair for a project.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	pair, _, _, ok := h.load(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, pair)
}

// Status reports whether the go-live gate is satisfied.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	pair, _, _, ok := h.load(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{
		"delivery_complete": pair.SideComplete(SideDelivery),
		"client_complete":   pair.SideComplete(SideClient),
		"can_trigger":       pair.CanTrigger(),
	})
}

// FindEvent returns the go-live event for a project, if triggered.
func (h *Handler) FindEvent(w http.ResponseWriter, r *http.Request) {
	_, projectID, _, ok := h.load(w, r)
	if !ok {
		return
	}

	event, err := h.sys.FindEvent(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, event)
}

// Initialize seeds the default checklist pair. Delivery team only.
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

	pair, err := h.sys.Initialize(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, pair)
}

// ToggleItem marks one checklist item complete or incomplete. Each party may
// only touch its own side.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	var cmd ToggleCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if _, err := ParseSide(string(cmd.Side)); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if cmd.Side != SideFor(actor.Party) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return
	}
	cmd.UserID = actor.UserID

	pair, err := h.sys.ToggleItem(r.Context(), projectID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, pair)
}

// Trigger fires the go-live event. Delivery team only.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	_, projectID, actor, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := identity.RequireParty(actor, identity.PartyDelivery); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}

	event, err := h.sys.Trigger(r.Context(), projectID, actor.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, event)
}

// Acknowledge records that the caller has seen the go-live event.
func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	event, err := h.sys.Acknowledge(r.Context(), id, actor.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, event)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*ChecklistPair, uuid.UUID, identity.Actor, bool) {
	projectID, err := uuid.Parse(r.PathValue("projectId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, uuid.Nil, identity.Actor{}, false
	}

	pair, err := h.sys.Find(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, uuid.Nil, identity.Actor{}, false
	}

	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return nil, uuid.Nil, identity.Actor{}, false
	}
	if !actor.CanAccessClient(pair.ClientID) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return nil, uuid.Nil, identity.Actor{}, false
	}

	return pair, projectID, actor, true
}
