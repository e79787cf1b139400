package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/pkg/pagination"
)

// System defines the public contract for project domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Project], error)

	Find(ctx context.Context, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, cmd CreateCommand) (*Project, error)
	AdvanceStage(ctx context.Context, id uuid.UUID) (*Project, error)
	RevertStage(ctx context.Context, id uuid.UUID, target *Stage) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
