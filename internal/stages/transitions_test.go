package stages_test

import (
	"errors"
	"testing"

	"github.com/digital-directions/stagegate/internal/stages"
)

func TestCanSave(t *testing.T) {
	tests := []struct {
		status  stages.Status
		wantErr error
	}{
		{stages.StatusActive, nil},
		{stages.StatusInReview, stages.ErrInvalidState},
		{stages.StatusApproved, stages.ErrInvalidState},
		{stages.StatusComplete, stages.ErrInvalidState},
	}
	for _, tt := range tests {
		if err := stages.CanSave(tt.status); !errors.Is(err, tt.wantErr) {
			t.Errorf("CanSave(%s) = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestCanSubmitOnlyFromActive(t *testing.T) {
	tests := []struct {
		status  stages.Status
		wantErr error
	}{
		{stages.StatusActive, nil},
		{stages.StatusInReview, stages.ErrInvalidState},
		{stages.StatusApproved, stages.ErrInvalidState},
		{stages.StatusComplete, stages.ErrInvalidState},
	}
	for _, tt := range tests {
		if err := stages.CanSubmit(tt.status); !errors.Is(err, tt.wantErr) {
			t.Errorf("CanSubmit(%s) = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}

// A second review of an artifact that already left in_review must fail,
// whichever way the first verdict went.
func TestCanReviewOnlyWhileInReview(t *testing.T) {
	tests := []struct {
		status  stages.Status
		wantErr error
	}{
		{stages.StatusInReview, nil},
		{stages.StatusActive, stages.ErrInvalidState},
		{stages.StatusApproved, stages.ErrInvalidState},
		{stages.StatusComplete, stages.ErrInvalidState},
	}
	for _, tt := range tests {
		if err := stages.CanReview(tt.status); !errors.Is(err, tt.wantErr) {
			t.Errorf("CanReview(%s) = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}
