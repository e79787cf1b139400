package stages

// Status is the review cycle state of a stage artifact.
type Status string

const (
	// StatusActive means the artifact payload is editable by its author.
	StatusActive Status = "active"
	// StatusInReview means the artifact has been submitted and is frozen
	// pending a review decision.
	StatusInReview Status = "in_review"
	// StatusApproved means the review accepted the artifact. Terminal for
	// most stages.
	StatusApproved Status = "approved"
	// StatusComplete marks an approved artifact whose stage has been
	// certified and left behind (set when the UAT signoff counter-signs).
	StatusComplete Status = "complete"
)

// Decision is a reviewer's verdict on a submitted artifact.
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

// CanSave reports whether the artifact payload may still be edited.
// Submission freezes the payload until a reviewer sends it back.
func CanSave(status Status) error {
	if status != StatusActive {
		return ErrInvalidState
	}
	return nil
}

// CanSubmit reports whether the artifact may enter review.
func CanSubmit(status Status) error {
	if status != StatusActive {
		return ErrInvalidState
	}
	return nil
}

// CanReview reports whether a review decision may be recorded. An artifact
// that already left in_review, approved or otherwise, cannot be reviewed
// again.
func CanReview(status Status) error {
	if status != StatusInReview {
		return ErrInvalidState
	}
	return nil
}

// changeNotes picks the feedback text stored with a request_changes
// verdict.
func changeNotes(notes *string) string {
	if notes != nil && *notes != "" {
		return *notes
	}
	return defaultChangeNotes
}

// defaultChangeNotes is attached when a reviewer requests changes without
// providing feedback text.
const defaultChangeNotes = "Changes requested by the delivery team."
