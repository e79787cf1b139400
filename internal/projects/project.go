// Package projects implements the project domain for Stagegate.
// A project tracks one client integration through the fixed delivery
// lifecycle, from pre-sales through post-go-live support.
package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project represents one client integration engagement.
type Project struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	ClientID           string     `json:"client_id"`
	PayrollSystem      string     `json:"payroll_system"`
	CurrentStage       Stage      `json:"current_stage"`
	GoLiveDate         *time.Time `json:"go_live_date"`
	SupportActivatedAt *time.Time `json:"support_activated_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new project.
type CreateCommand struct {
	Name          string `json:"name"`
	ClientID      string `json:"client_id"`
	PayrollSystem string `json:"payroll_system"`
}

// Validate checks required fields and the payroll system value.
func (c CreateCommand) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.ClientID == "" {
		return ErrClientRequired
	}
	if !ValidPayrollSystem(c.PayrollSystem) {
		return ErrInvalidPayrollSystem
	}
	return nil
}

// PayrollSystems enumerates the payroll platforms a project can target.
var PayrollSystems = []string{"keypay", "myob", "deputy"}

// ValidPayrollSystem reports whether s names a supported payroll platform.
func ValidPayrollSystem(s string) bool {
	for _, known := range PayrollSystems {
		if s == known {
			return true
		}
	}
	return false
}
