package mapping

import (
	"time"

	"github.com/google/uuid"
)

// MappingConfig is the per-project reconciliation workspace: the source and
// target value lists plus the review-cycle state governing the entries.
type MappingConfig struct {
	ID            uuid.UUID             `json:"id"`
	ProjectID     uuid.UUID             `json:"project_id"`
	PayrollSystem string                `json:"payroll_system"`
	Status        Status                `json:"status"`
	SourceValues  map[Category][]string `json:"source_values"`
	TargetValues  map[Category][]string `json:"target_values"`
	SubmittedAt   *time.Time            `json:"submitted_at"`
	ReviewNotes   *string               `json:"review_notes"`
	ReviewedAt    *time.Time            `json:"reviewed_at"`
	ReviewedBy    *string               `json:"reviewed_by"`
	ExportedAt    *time.Time            `json:"exported_at"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`

	ClientID string `json:"client_id"`
}

// Entry maps one source value onto one target value within a category.
type Entry struct {
	Category    Category  `json:"category"`
	SourceValue string    `json:"source_value"`
	TargetValue string    `json:"target_value"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryProgress reports mapping completeness for one category.
type CategoryProgress struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Mapped   int      `json:"mapped"`
	Total    int      `json:"total"`
}

// Complete reports whether every source value in the category is mapped.
func (p CategoryProgress) Complete() bool {
	return p.Mapped >= p.Total
}

// SetEntryCommand upserts one entry. Last write wins per
// (category, source value).
type SetEntryCommand struct {
	Category    Category `json:"category"`
	SourceValue string   `json:"source_value"`
	TargetValue string   `json:"target_value"`
	UpdatedBy   string   `json:"-"`
}

// Validate checks the command against the config's value lists.
func (c SetEntryCommand) Validate() error {
	if _, err := ParseCategory(string(c.Category)); err != nil {
		return err
	}
	if c.SourceValue == "" {
		return ErrSourceValueRequired
	}
	if c.TargetValue == "" {
		return ErrTargetValueRequired
	}
	return nil
}

// UpdateValuesCommand replaces one category's value lists. A nil list
// leaves that side untouched.
type UpdateValuesCommand struct {
	Category     Category `json:"category"`
	SourceValues []string `json:"source_values"`
	TargetValues []string `json:"target_values"`
}

// ReviewCommand records a reviewer's verdict on a submitted configuration.
type ReviewCommand struct {
	Decision Decision `json:"decision"`
	Notes    *string  `json:"notes"`
	Reviewer string   `json:"-"`
}

// PullResult reports the outcome of a pull from the source system.
type PullResult struct {
	Config   *MappingConfig `json:"config"`
	Replaced []Category     `json:"replaced"`
	Warnings []string       `json:"warnings"`
}
