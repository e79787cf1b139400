package stages

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type execCall struct {
	query string
	args  []any
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeExecutor struct {
	calls []execCall
}

func (e *fakeExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	e.calls = append(e.calls, execCall{query: query, args: args})
	return fakeResult{}, nil
}

const reviewTestDiscovery = `{"sections": [{"id": "org", "title": "Organization", "questions": [
	{"id": "headcount", "prompt": "Employee count?", "kind": "text", "required": true}
]}]}`

const reviewTestConfig = `{"items": [
	{"id": "t1", "title": "Create leave policies", "completed": true, "completed_by": "dana"},
	{"id": "t2", "title": "Load org chart", "completed": false}
]}`

func TestRequestChangesClearsSubmission(t *testing.T) {
	ex := &fakeExecutor{}
	locked := lockedArtifact{
		stageType: StageDiscovery,
		status:    StatusInReview,
		payload:   json.RawMessage(reviewTestDiscovery),
	}

	r := &repo{}
	if err := r.requestChanges(context.Background(), ex, uuid.New(), locked, nil); err != nil {
		t.Fatalf("requestChanges: %v", err)
	}
	if len(ex.calls) != 1 {
		t.Fatalf("expected 1 update, got %d", len(ex.calls))
	}

	call := ex.calls[0]
	if !strings.Contains(call.query, "submitted_at = NULL") {
		t.Error("update does not clear submitted_at")
	}
	if !strings.Contains(call.query, "status = 'in_review'") {
		t.Error("update is not conditioned on in_review")
	}
	if got := call.args[0]; got != defaultChangeNotes {
		t.Errorf("notes = %v, want default change notes", got)
	}
	if got := string(call.args[1].([]byte)); got != reviewTestDiscovery {
		t.Errorf("discovery payload was altered: %s", got)
	}
}

func TestRequestChangesStoresProvidedNotes(t *testing.T) {
	ex := &fakeExecutor{}
	locked := lockedArtifact{
		stageType: StageDiscovery,
		status:    StatusInReview,
		payload:   json.RawMessage(reviewTestDiscovery),
	}
	notes := "Section 2 needs the award breakdown."

	r := &repo{}
	if err := r.requestChanges(context.Background(), ex, uuid.New(), locked, &notes); err != nil {
		t.Fatalf("requestChanges: %v", err)
	}
	if got := ex.calls[0].args[0]; got != notes {
		t.Errorf("notes = %v, want %q", got, notes)
	}
}

func TestRequestChangesResetsConfigChecklist(t *testing.T) {
	ex := &fakeExecutor{}
	locked := lockedArtifact{
		stageType: StageBobConfig,
		status:    StatusInReview,
		payload:   json.RawMessage(reviewTestConfig),
	}

	r := &repo{}
	if err := r.requestChanges(context.Background(), ex, uuid.New(), locked, nil); err != nil {
		t.Fatalf("requestChanges: %v", err)
	}

	var stored BobConfigPayload
	if err := json.Unmarshal(ex.calls[0].args[1].([]byte), &stored); err != nil {
		t.Fatalf("unmarshal stored payload: %v", err)
	}
	for _, item := range stored.Items {
		if item.Completed || item.CompletedBy != nil || item.CompletedAt != nil {
			t.Errorf("task %s not reset: %+v", item.ID, item)
		}
	}
}

func TestApproveConditionedOnInReview(t *testing.T) {
	ex := &fakeExecutor{}
	locked := lockedArtifact{
		stageType: StageDiscovery,
		status:    StatusInReview,
		payload:   json.RawMessage(reviewTestDiscovery),
	}

	r := &repo{}
	if err := r.approve(context.Background(), ex, uuid.New(), locked, "dana"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(ex.calls) != 1 {
		t.Fatalf("expected 1 statement for a non-uat approval, got %d", len(ex.calls))
	}
	if !strings.Contains(ex.calls[0].query, "status = 'in_review'") {
		t.Error("approval is not conditioned on in_review")
	}
}

func TestApproveUATSeedsSignoff(t *testing.T) {
	ex := &fakeExecutor{}
	projectID := uuid.New()
	locked := lockedArtifact{
		projectID: projectID,
		stageType: StageUAT,
		status:    StatusInReview,
		payload:   json.RawMessage(`{"scenarios": []}`),
	}

	r := &repo{}
	if err := r.approve(context.Background(), ex, uuid.New(), locked, "dana"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(ex.calls) != 2 {
		t.Fatalf("expected approval + signoff insert, got %d statements", len(ex.calls))
	}

	insert := ex.calls[1]
	if !strings.Contains(insert.query, "INSERT INTO signoffs") {
		t.Fatalf("second statement is not the signoff insert: %s", insert.query)
	}
	if !strings.Contains(insert.query, "ON CONFLICT (project_id, signoff_type) DO NOTHING") {
		t.Error("signoff insert is not idempotent")
	}
	if insert.args[1] != projectID {
		t.Errorf("signoff project = %v, want %v", insert.args[1], projectID)
	}
}

func TestPayloadForChangesKeepsOtherStages(t *testing.T) {
	got, err := payloadForChanges(StageDiscovery, json.RawMessage(reviewTestDiscovery))
	if err != nil {
		t.Fatalf("payloadForChanges: %v", err)
	}
	if string(got) != reviewTestDiscovery {
		t.Errorf("payload altered: %s", got)
	}
}
