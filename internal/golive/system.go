package golive

import (
	"context"

	"github.com/google/uuid"
)

// ToggleCommand mutates one checklist item.
type ToggleCommand struct {
	Side      Side   `json:"side"`
	ItemID    string `json:"item_id"`
	Completed bool   `json:"completed"`
	UserID    string `json:"-"`
}

// System defines the public contract for the go-live gate.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, projectID uuid.UUID) (*ChecklistPair, error)
	FindEvent(ctx context.Context, projectID uuid.UUID) (*GoLiveEvent, error)

	Initialize(ctx context.Context, projectID uuid.UUID) (*ChecklistPair, error)
	ToggleItem(ctx context.Context, projectID uuid.UUID, cmd ToggleCommand) (*ChecklistPair, error)
	CanTrigger(ctx context.Context, projectID uuid.UUID) (bool, error)
	Trigger(ctx context.Context, projectID uuid.UUID, userID string) (*GoLiveEvent, error)
	Acknowledge(ctx context.Context, eventID uuid.UUID, userID string) (*GoLiveEvent, error)
}
