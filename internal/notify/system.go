package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/pkg/pagination"
)

// Dispatcher is the contract domain systems use to announce transitions.
// Implementations must be fire-and-forget: Dispatch never returns an error
// and must not block the caller beyond recipient resolution and insert.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// System defines the public contract for notification operations.
type System interface {
	Dispatcher

	Handler() *Handler

	List(
		ctx context.Context,
		subject string,
		page pagination.PageRequest,
		unreadOnly bool,
	) (*pagination.PageResult[Notification], error)

	MarkRead(ctx context.Context, id uuid.UUID, subject string) error
	MarkAllRead(ctx context.Context, subject string) error
}
