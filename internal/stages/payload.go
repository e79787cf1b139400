package stages

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StageType identifies which lifecycle stage an artifact documents.
// Only stages with a reviewable artifact appear here; the mapping stage
// has its own engine and the remaining stages carry no document.
type StageType string

const (
	StageDiscovery StageType = "discovery"
	StageBobConfig StageType = "bob_config"
	StageUAT       StageType = "uat"
)

// ParseStageType validates an artifact stage type value.
func ParseStageType(s string) (StageType, error) {
	switch StageType(s) {
	case StageDiscovery, StageBobConfig, StageUAT:
		return StageType(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStageType, s)
	}
}

// Payload is a stage-specific artifact document. Each stage has exactly one
// payload shape; payloads are validated at the service boundary rather than
// stored as opaque blobs.
type Payload interface {
	// StageType names the stage this payload belongs to.
	StageType() StageType
	// Validate checks structural integrity (ids present, known enum values).
	Validate() error
	// CheckComplete reports whether the payload satisfies the stage's
	// submission requirements. Returns a descriptive error when it does not.
	CheckComplete() error
}

// DecodePayload parses raw JSON into the typed payload for the stage.
func DecodePayload(stageType StageType, raw json.RawMessage) (Payload, error) {
	var p Payload
	switch stageType {
	case StageDiscovery:
		p = &DiscoveryPayload{}
	case StageBobConfig:
		p = &BobConfigPayload{}
	case StageUAT:
		p = &UATPayload{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStageType, stageType)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// DiscoveryPayload holds the client questionnaire answered during discovery.
type DiscoveryPayload struct {
	Sections []DiscoverySection `json:"sections"`
}

// DiscoverySection groups related questionnaire questions.
type DiscoverySection struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Questions []DiscoveryQuestion `json:"questions"`
}

// DiscoveryQuestion is one questionnaire prompt with its answer.
type DiscoveryQuestion struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Answer   *string  `json:"answer,omitempty"`
}

func (p *DiscoveryPayload) StageType() StageType { return StageDiscovery }

func (p *DiscoveryPayload) Validate() error {
	seen := make(map[string]bool)
	for _, section := range p.Sections {
		if section.ID == "" {
			return fmt.Errorf("%w: section missing id", ErrValidation)
		}
		for _, q := range section.Questions {
			if q.ID == "" {
				return fmt.Errorf("%w: question missing id in section %s", ErrValidation, section.ID)
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: duplicate question id %s", ErrValidation, q.ID)
			}
			seen[q.ID] = true

			switch q.Kind {
			case "text", "select", "boolean":
			default:
				return fmt.Errorf("%w: unknown question kind %q", ErrValidation, q.Kind)
			}
		}
	}
	return nil
}

func (p *DiscoveryPayload) CheckComplete() error {
	var missing []string
	for _, section := range p.Sections {
		for _, q := range section.Questions {
			if q.Required && (q.Answer == nil || strings.TrimSpace(*q.Answer) == "") {
				missing = append(missing, q.ID)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: unanswered required questions: %s",
			ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// BobConfigPayload holds the HR system configuration checklist worked
// through during the configuration stage.
type BobConfigPayload struct {
	Items []ConfigTask `json:"items"`
}

// ConfigTask is one configuration checklist entry.
type ConfigTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedBy *string    `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (p *BobConfigPayload) StageType() StageType { return StageBobConfig }

func (p *BobConfigPayload) Validate() error {
	seen := make(map[string]bool)
	for _, item := range p.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: config task missing id", ErrValidation)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate config task id %s", ErrValidation, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

func (p *BobConfigPayload) CheckComplete() error {
	var incomplete []string
	for _, item := range p.Items {
		if !item.Completed {
			incomplete = append(incomplete, item.ID)
		}
	}
	if len(incomplete) > 0 {
		return fmt.Errorf("%w: incomplete configuration tasks: %s",
			ErrValidation, strings.Join(incomplete, ", "))
	}
	return nil
}

// Reset clears completion state on every task. Applied when a reviewer
// requests changes, so the client re-verifies each task on resubmission.
func (p *BobConfigPayload) Reset() {
	for i := range p.Items {
		p.Items[i].Completed = false
		p.Items[i].CompletedBy = nil
		p.Items[i].CompletedAt = nil
	}
}

// UAT scenario results.
const (
	ResultPass    = "pass"
	ResultFail    = "fail"
	ResultBlocked = "blocked"
)

// UATPayload holds the acceptance test scenarios and their recorded results.
type UATPayload struct {
	Scenarios []UATScenario `json:"scenarios"`
}

// UATScenario is one acceptance test case.
type UATScenario struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Result      *string `json:"result,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (p *UATPayload) StageType() StageType { return StageUAT }

func (p *UATPayload) Validate() error {
	seen := make(map[string]bool)
	for _, sc := range p.Scenarios {
		if sc.ID == "" {
			return fmt.Errorf("%w: scenario missing id", ErrValidation)
		}
		if seen[sc.ID] {
			return fmt.Errorf("%w: duplicate scenario id %s", ErrValidation, sc.ID)
		}
		seen[sc.ID] = true

		if sc.Result != nil {
			switch *sc.Result {
			case ResultPass, ResultFail, ResultBlocked:
			default:
				return fmt.Errorf("%w: unknown result %q for scenario %s",
					ErrValidation, *sc.Result, sc.ID)
			}
		}
	}
	return nil
}

func (p *UATPayload) CheckComplete() error {
	var unresolved []string
	for _, sc := range p.Scenarios {
		if sc.Result == nil {
			unresolved = append(unresolved, sc.ID)
		}
	}
	if len(unresolved) > 0 {
		return fmt.Errorf("%w: scenarios without a result: %s",
			ErrValidation, strings.Join(unresolved, ", "))
	}
	return nil
}
