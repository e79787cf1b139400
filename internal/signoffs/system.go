package signoffs

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for signoff operations.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, id uuid.UUID) (*Signoff, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Signoff, error)

	Publish(ctx context.Context, cmd PublishCommand) (*Signoff, error)
	ClientSign(ctx context.Context, id uuid.UUID, cmd ClientSignCommand) (*Signoff, error)
	CounterSign(ctx context.Context, id uuid.UUID, signedBy string) (*Signoff, error)
}
