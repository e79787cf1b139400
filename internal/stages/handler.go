package stages

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/routes"
)

// Handler provides HTTP endpoints for stage artifact operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "stages"),
	}
}

// Routes returns the route group definition for stage artifact endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/artifacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/project/{projectId}", Handler: h.ListByProject},
			{Method: "GET", Pattern: "/project/{projectId}/{stageType}", Handler: h.FindByStage},
			{Method: "POST", Pattern: "", Handler: h.Initialize},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Save},
			{Method: "POST", Pattern: "/{id}/submit", Handler: h.Submit},
			{Method: "POST", Pattern: "/{id}/review", Handler: h.Review},
		},
	}
}

// Find returns a single stage artifact by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	artifact, _, ok := h.load(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// FindByStage returns the artifact for a (project, stage type) pair.
func (h *Handler) FindByStage(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("projectId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	stageType, err := ParseStageType(r.PathValue("stageType"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	artifact, err := h.sys.FindByStage(r.Context(), projectID, stageType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !h.authorize(w, r, artifact) {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// ListByProject returns all stage artifacts for a project.
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

// Initialize creates a stage artifact seeded from the stage template.
// Delivery team only.
func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok || !actor.IsDelivery() {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return
	}

	var cmd InitializeCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if _, err := ParseStageType(string(cmd.StageType)); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	artifact, err := h.sys.Initialize(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, artifact)
}

// Save stores a payload revision without changing status (autosave).
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.load(w, r)
	if !ok {
		return
	}

	var body struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	artifact, err := h.sys.Save(r.Context(), id, body.Payload)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// Submit moves an artifact from active to in_review.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.load(w, r)
	if !ok {
		return
	}

	artifact, err := h.sys.Submit(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// Review applies a reviewer decision to a submitted artifact.
// Delivery team only.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok || !actor.IsDelivery() {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd ReviewCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.Reviewer = actor.UserID

	artifact, err := h.sys.Review(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// load parses the id, fetches the artifact, and verifies party access.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*StageArtifact, uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, uuid.Nil, false
	}

	artifact, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, uuid.Nil, false
	}

	if !h.authorize(w, r, artifact) {
		return nil, uuid.Nil, false
	}

	return artifact, id, true
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, artifact *StageArtifact) bool {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return false
	}
	if !actor.CanAccessClient(artifact.ClientID) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, identity.ErrForbidden)
		return false
	}
	return true
}
