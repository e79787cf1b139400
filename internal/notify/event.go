// Package notify dispatches workflow transition notifications and serves
// the in-app notification feed. Dispatch is fire-and-forget: delivery
// failures are logged and never affect the transition that produced them.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
)

// Kind identifies the workflow transition a notification reports.
type Kind string

const (
	KindArtifactSubmitted  Kind = "artifact_submitted"
	KindArtifactApproved   Kind = "artifact_approved"
	KindChangesRequested   Kind = "changes_requested"
	KindSignoffPublished   Kind = "signoff_published"
	KindClientSigned       Kind = "client_signed"
	KindCounterSigned      Kind = "counter_signed"
	KindChecklistComplete  Kind = "checklist_side_complete"
	KindGoLiveTriggered    Kind = "golive_triggered"
	KindMappingSubmitted   Kind = "mapping_submitted"
	KindMappingApproved    Kind = "mapping_approved"
	KindMappingChanges     Kind = "mapping_changes_requested"
	KindMappingExported    Kind = "mapping_exported"
	KindStageAdvanced      Kind = "stage_advanced"
)

// Event describes a workflow transition to notify a party about.
type Event struct {
	ProjectID      uuid.UUID
	Kind           Kind
	RecipientParty identity.Party
	Title          string
	Message        string
	LinkURL        string
}

// Notification is one delivered feed entry for a single user.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id"`
	Kind      Kind       `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	LinkURL   string     `json:"link_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
