// Package signoffs implements the dual-party certification protocol: the
// client signs first against a frozen document snapshot, then the delivery
// team counter-signs, after which the record is terminal and immutable.
package signoffs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type identifies what a signoff certifies.
type Type string

const (
	// TypeBuildSpec certifies the integration build specification.
	TypeBuildSpec Type = "build_spec"
	// TypeUAT certifies the accepted acceptance test results.
	TypeUAT Type = "uat"
	// TypeGoLive certifies readiness for production cutover.
	TypeGoLive Type = "go_live"
)

// ParseType validates a signoff type value.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBuildSpec, TypeUAT, TypeGoLive:
		return Type(s), nil
	default:
		return "", ErrUnknownType
	}
}

// Signoff is a two-signature certification record for one project.
type Signoff struct {
	ID                uuid.UUID       `json:"id"`
	ProjectID         uuid.UUID       `json:"project_id"`
	Type              Type            `json:"signoff_type"`
	Document          json.RawMessage `json:"document,omitempty"`
	SignedByClient    *string         `json:"signed_by_client,omitempty"`
	SignedAt          *time.Time      `json:"signed_at,omitempty"`
	ClientConfirmText *string         `json:"client_confirm_text,omitempty"`
	CounterSignedBy   *string         `json:"counter_signed_by,omitempty"`
	CounterSignedAt   *time.Time      `json:"counter_signed_at,omitempty"`
	DocumentSnapshot  json.RawMessage `json:"document_snapshot,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// ClientID is the owning project's client organization, joined in for
	// party scoping.
	ClientID string `json:"client_id"`
}

// ClientSigned reports whether the client signature is present.
func (s *Signoff) ClientSigned() bool {
	return s.SignedAt != nil
}

// CounterSigned reports whether the delivery team counter-signature is present.
func (s *Signoff) CounterSigned() bool {
	return s.CounterSignedAt != nil
}

// Terminal reports whether both signatures are present, making the record
// immutable.
func (s *Signoff) Terminal() bool {
	return s.ClientSigned() && s.CounterSigned()
}

// CanPublish reports whether the certified document may still be updated.
// Publication is refused once the client has signed against it.
func (s *Signoff) CanPublish() error {
	if s.ClientSigned() || s.CounterSigned() {
		return ErrAlreadySigned
	}
	return nil
}

// CanClientSign checks the preconditions for the client signature: a
// published document, no prior client signature, and no counter-signature.
func (s *Signoff) CanClientSign() error {
	if s.ClientSigned() {
		return ErrAlreadySigned
	}
	if s.CounterSigned() {
		return ErrInvalidState
	}
	if len(s.Document) == 0 {
		return ErrNotPublished
	}
	return nil
}

// CanCounterSign checks the preconditions for the counter-signature: the
// client must have signed first, and only once.
func (s *Signoff) CanCounterSign() error {
	if s.CounterSigned() {
		return ErrAlreadySigned
	}
	if !s.ClientSigned() {
		return ErrInvalidState
	}
	return nil
}

// PublishCommand creates or updates the document to be certified.
type PublishCommand struct {
	ProjectID uuid.UUID       `json:"project_id"`
	Type      Type            `json:"signoff_type"`
	Document  json.RawMessage `json:"document"`
}

// ClientSignCommand carries the client signature.
type ClientSignCommand struct {
	ConfirmText string `json:"confirm_text"`
	SignedBy    string `json:"-"`
}
