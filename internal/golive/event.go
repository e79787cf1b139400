package golive

import (
	"time"

	"github.com/google/uuid"
)

// SyncStats is the point-in-time snapshot captured when go-live fires.
type SyncStats struct {
	MappingEntries         int `json:"mapping_entries"`
	DeliveryItemsCompleted int `json:"delivery_items_completed"`
	ClientItemsCompleted   int `json:"client_items_completed"`
}

// GoLiveEvent records the one-way go-live trigger for a project. Created
// exactly once; the acknowledged set only ever grows.
type GoLiveEvent struct {
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
	Stats          SyncStats `json:"stats"`
	TriggeredBy    string    `json:"triggered_by"`
	TriggeredAt    time.Time `json:"triggered_at"`
	AcknowledgedBy []string  `json:"acknowledged_by"`
}

// Acknowledged reports whether the user has already seen the event.
func (e *GoLiveEvent) Acknowledged(userID string) bool {
	for _, id := range e.AcknowledgedBy {
		if id == userID {
			return true
		}
	}
	return false
}
