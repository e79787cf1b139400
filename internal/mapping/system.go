package mapping

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for mapping reconciliation.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, projectID uuid.UUID) (*MappingConfig, error)
	Entries(ctx context.Context, projectID uuid.UUID) ([]Entry, error)
	Progress(ctx context.Context, projectID uuid.UUID) ([]CategoryProgress, error)

	Initialize(ctx context.Context, projectID uuid.UUID) (*MappingConfig, error)
	SetEntry(ctx context.Context, projectID uuid.UUID, cmd SetEntryCommand) (*Entry, error)
	ApplyEntries(ctx context.Context, projectID uuid.UUID, cmds []SetEntryCommand) ([]Entry, error)
	RemoveEntry(ctx context.Context, projectID uuid.UUID, category Category, sourceValue string) error
	UpdateValues(ctx context.Context, projectID uuid.UUID, cmd UpdateValuesCommand) (*MappingConfig, error)

	Suggest(ctx context.Context, projectID uuid.UUID, category Category) ([]Suggestion, error)
	PullFromSource(ctx context.Context, projectID uuid.UUID) (*PullResult, error)

	Submit(ctx context.Context, projectID uuid.UUID) (*MappingConfig, error)
	Review(ctx context.Context, projectID uuid.UUID, cmd ReviewCommand) (*MappingConfig, error)
	Export(ctx context.Context, projectID uuid.UUID, requestedBy string) ([]byte, error)
}
