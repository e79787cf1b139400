// Package stages implements the review cycle engine: one reviewable
// artifact per (project, stage), moving through active → in_review →
// approved, or back to active with feedback when changes are requested.
package stages

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StageArtifact is the single authoritative document for one lifecycle
// stage of one project.
type StageArtifact struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	StageType   StageType       `json:"stage_type"`
	Status      Status          `json:"status"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy  *string         `json:"reviewed_by,omitempty"`
	ReviewNotes *string         `json:"review_notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// ClientID is the owning project's client organization, joined in for
	// party scoping. Not a column of the artifact itself.
	ClientID string `json:"client_id"`
}

// InitializeCommand creates a stage artifact. When Payload is nil the
// stage's stock template is seeded.
type InitializeCommand struct {
	ProjectID uuid.UUID       `json:"project_id"`
	StageType StageType       `json:"stage_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ReviewCommand carries a reviewer's verdict on a submitted artifact.
type ReviewCommand struct {
	Decision Decision `json:"decision"`
	Notes    *string  `json:"notes,omitempty"`
	Reviewer string   `json:"-"`
}
