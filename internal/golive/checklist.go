// Package golive implements the go-live readiness gate: two independently
// progressing checklists (delivery team and client) whose joint completion
// authorizes the one-way go-live trigger.
package golive

import (
	"time"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
)

// Side identifies which party owns a checklist.
type Side string

const (
	SideDelivery Side = "delivery"
	SideClient   Side = "client"
)

// ParseSide validates a checklist side value.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideDelivery, SideClient:
		return Side(s), nil
	default:
		return "", ErrUnknownSide
	}
}

// SideFor returns the checklist side owned by a party.
func SideFor(party identity.Party) Side {
	if party == identity.PartyDelivery {
		return SideDelivery
	}
	return SideClient
}

// Item is one checklist entry. CompletedAt is non-nil iff the item has
// been explicitly completed.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *string    `json:"completed_by,omitempty"`
}

// Complete reports whether the item has been completed.
func (i Item) Complete() bool {
	return i.CompletedAt != nil
}

// ChecklistPair holds both parties' go-live checklists for one project.
type ChecklistPair struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	DeliveryItems []Item    `json:"delivery_items"`
	ClientItems   []Item    `json:"client_items"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// ClientID is the owning project's client organization, joined in for
	// party scoping.
	ClientID string `json:"client_id"`
}

// Items returns the list owned by the given side.
func (p *ChecklistPair) Items(side Side) []Item {
	if side == SideDelivery {
		return p.DeliveryItems
	}
	return p.ClientItems
}

// SideComplete reports whether every item on the side is complete and the
// list is non-empty.
func (p *ChecklistPair) SideComplete(side Side) bool {
	return allComplete(p.Items(side))
}

// CanTrigger is the gate predicate: both lists non-empty and every item on
// both sides complete. Computed fresh from the lists, never from counters.
func (p *ChecklistPair) CanTrigger() bool {
	return allComplete(p.DeliveryItems) && allComplete(p.ClientItems)
}

// Toggle sets or clears completion on one item of one side. Returns
// ErrItemNotFound when the id is not on that side's list.
func (p *ChecklistPair) Toggle(side Side, itemID string, completed bool, userID string) error {
	items := p.DeliveryItems
	if side == SideClient {
		items = p.ClientItems
	}

	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		if completed {
			now := time.Now().UTC()
			items[i].CompletedAt = &now
			items[i].CompletedBy = &userID
		} else {
			items[i].CompletedAt = nil
			items[i].CompletedBy = nil
		}
		return nil
	}

	return ErrItemNotFound
}

func allComplete(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Complete() {
			return false
		}
	}
	return true
}
