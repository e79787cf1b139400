package mapping

// Status is the review cycle state of a mapping configuration.
type Status string

const (
	// StatusActive means entries and value lists are editable.
	StatusActive Status = "active"
	// StatusInReview means the configuration is frozen pending review.
	StatusInReview Status = "in_review"
	// StatusApproved means the review accepted the configuration; entries
	// stay frozen and the flattened mapping becomes exportable.
	StatusApproved Status = "approved"
)

// Decision is a reviewer's verdict on a submitted configuration.
type Decision string

const (
	DecisionApprove        Decision = "approve"
	DecisionRequestChanges Decision = "request_changes"
)

// ParseDecision validates a review decision value.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionApprove, DecisionRequestChanges:
		return Decision(s), nil
	default:
		return "", ErrInvalidDecision
	}
}

const defaultChangeNotes = "Changes requested by the delivery team."
