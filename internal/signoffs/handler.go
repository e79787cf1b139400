package signoffs

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/routes"
)

// Handler provides HTTP endpoints for signoff operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "signoffs"),
	}
}

// Routes returns the route group definition for signoff endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/signoffs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/project/{projectId}", Handler: h.ListByProject},
			{Method: "POST", Pattern: "", Handler: h.Publish},
			{Method: "POST", Pattern: "/{id}/sign", Handler: h.ClientSign},
			{Method: "POST", Pattern: "/{id}/counter-sign", Handler: h.CounterSign},
		},
	}
}

// Find returns a single signoff by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	signoff, _, ok := h.load(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, signoff)
}

// ListByProject returns all signoffs for a project.
func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("projectId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	items, err := h.sys.ListByProject(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}
	for _, item := range items {
		if !actor.CanAccessClient(item.ClientID) {
			handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Publish creates or updates the document to be certified. Delivery team only.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok || !actor.IsDelivery() {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return
	}

	var cmd PublishCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	signoff, err := h.sys.Publish(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, signoff)
}

// ClientSign applies the client signature. Client party only.
func (h *Handler) ClientSign(w http.ResponseWriter, r *http.Request) {
	signoff, id, ok := h.load(w, r)
	if !ok {
		return
	}

	actor, _ := identity.ActorFrom(r.Context())
	if err := identity.RequireParty(actor, identity.PartyClient); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}
	if !actor.CanAccessClient(signoff.ClientID) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return
	}

	var cmd ClientSignCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.SignedBy = actor.UserID

	signed, err := h.sys.ClientSign(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, signed)
}

// CounterSign applies the delivery team signature. Delivery team only.
func (h *Handler) CounterSign(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.load(w, r)
	if !ok {
		return
	}

	actor, _ := identity.ActorFrom(r.Context())
	if err := identity.RequireParty(actor, identity.PartyDelivery); err != nil {
		handlers.RespondError(w, h.logger, identity.MapHTTPStatus(err), err)
		return
	}

	signed, err := h.sys.CounterSign(r.Context(), id, actor.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, signed)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Signoff, uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, uuid.Nil, false
	}

	signoff, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, uuid.Nil, false
	}

	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return nil, uuid.Nil, false
	}
	if !actor.CanAccessClient(signoff.ClientID) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return nil, uuid.Nil, false
	}

	return signoff, id, true
}
