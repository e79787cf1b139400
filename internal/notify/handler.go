package notify

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/pagination"
	"github.com/digital-directions/stagegate/pkg/routes"
)

// Handler provides HTTP endpoints for the notification feed.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "notify"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for notification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/notifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/{id}/read", Handler: h.MarkRead},
			{Method: "POST", Pattern: "/read-all", Handler: h.MarkAllRead},
		},
	}
}

// List returns the calling user's notification feed, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	result, err := h.sys.List(r.Context(), actor.UserID, page, unreadOnly)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// MarkRead marks a single notification as read for the calling user.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.MarkRead(r.Context(), id, actor.UserID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead marks every unread notification as read for the calling user.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	if err := h.sys.MarkAllRead(r.Context(), actor.UserID); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
