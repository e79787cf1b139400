package stages

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// System defines the public contract for the review cycle engine.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, id uuid.UUID) (*StageArtifact, error)
	FindByStage(ctx context.Context, projectID uuid.UUID, stageType StageType) (*StageArtifact, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]StageArtifact, error)

	Initialize(ctx context.Context, cmd InitializeCommand) (*StageArtifact, error)
	Save(ctx context.Context, id uuid.UUID, payload json.RawMessage) (*StageArtifact, error)
	Submit(ctx context.Context, id uuid.UUID) (*StageArtifact, error)
	Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*StageArtifact, error)
}
