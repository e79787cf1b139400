package stages

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/internal/notify"
	"github.com/digital-directions/stagegate/pkg/pagination"
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

type repo struct {
	db         *sql.DB
	notifier   notify.Dispatcher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a stage artifact repository implementing the System interface.
func New(
	db *sql.DB,
	notifier notify.Dispatcher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		notifier:   notifier,
		logger:     logger.With("system", "stages"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*StageArtifact, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}
	return &a, nil
}

func (r *repo) FindByStage(ctx context.Context, projectID uuid.UUID, stageType StageType) (*StageArtifact, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("ProjectID", projectID).
		WhereEquals("StageType", string(stageType)).
		BuildSingleOrNull()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}
	return &a, nil
}

func (r *repo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]StageArtifact, error) {
	q, args := query.NewBuilder(projection, defaultSort).
		WhereEquals("ProjectID", projectID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query stage artifacts: %w", err)
	}
	return items, nil
}

func (r *repo) Initialize(ctx context.Context, cmd InitializeCommand) (*StageArtifact, error) {
	payload := cmd.Payload
	if payload == nil {
		template, err := TemplatePayload(cmd.StageType)
		if err != nil {
			return nil, err
		}
		payload = template
	} else if _, err := DecodePayload(cmd.StageType, payload); err != nil {
		return nil, err
	}

	id := uuid.New()
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stage_artifacts(id, project_id, stage_type, status, payload)
			VALUES ($1, $2, $3, 'active', $4)`,
			id, cmd.ProjectID, cmd.StageType, []byte(payload),
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("stage artifact initialized",
		"id", id,
		"project_id", cmd.ProjectID,
		"stage_type", cmd.StageType,
	)
	return r.Find(ctx, id)
}

// Save stores a new payload revision. Allowed only while the artifact is
// active; the conditional update makes a save racing a submit lose cleanly.
func (r *repo) Save(ctx context.Context, id uuid.UUID, payload json.RawMessage) (*StageArtifact, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CanSave(current.Status); err != nil {
		return nil, err
	}
	if _, err := DecodePayload(current.StageType, payload); err != nil {
		return nil, err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, `
			UPDATE stage_artifacts
			SET payload = $1, updated_at = NOW()
			WHERE id = $2 AND status = 'active'`,
			[]byte(payload), id,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidState, ErrAlreadyExists)
	}

	return r.Find(ctx, id)
}

func (r *repo) Submit(ctx context.Context, id uuid.UUID) (*StageArtifact, error) {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := lockArtifact(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		if err := CanSubmit(locked.status); err != nil {
			return struct{}{}, err
		}

		payload, err := DecodePayload(locked.stageType, locked.payload)
		if err != nil {
			return struct{}{}, err
		}
		if err := payload.CheckComplete(); err != nil {
			return struct{}{}, err
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE stage_artifacts
			SET status = 'in_review', submitted_at = NOW(), review_notes = NULL, updated_at = NOW()
			WHERE id = $1 AND status = 'active'`,
			id,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidState, ErrAlreadyExists)
	}

	artifact, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("stage artifact submitted", "id", id, "stage_type", artifact.StageType)
	r.notifier.Dispatch(ctx, notify.Event{
		ProjectID:      artifact.ProjectID,
		Kind:           notify.KindArtifactSubmitted,
		RecipientParty: identity.PartyDelivery,
		Title:          fmt.Sprintf("%s submitted for review", artifact.StageType),
		Message:        "A stage document has been submitted and is awaiting review.",
		LinkURL:        artifactLink(artifact),
	})

	return artifact, nil
}

func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*StageArtifact, error) {
	if _, err := ParseDecision(string(cmd.Decision)); err != nil {
		return nil, err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := lockArtifact(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		if err := CanReview(locked.status); err != nil {
			return struct{}{}, err
		}

		if cmd.Decision == DecisionApprove {
			return struct{}{}, r.approve(ctx, tx, id, locked, cmd.Reviewer)
		}
		return struct{}{}, r.requestChanges(ctx, tx, id, locked, cmd.Notes)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidState, ErrAlreadyExists)
	}

	artifact, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("stage artifact reviewed",
		"id", id,
		"stage_type", artifact.StageType,
		"decision", cmd.Decision,
	)
	r.notifyReview(ctx, artifact, cmd.Decision)

	return artifact, nil
}

// approve moves the artifact to approved. Approving the UAT artifact also
// seeds the uat signoff with a snapshot of the accepted results, so the
// certified content cannot drift afterwards.
func (r *repo) approve(ctx context.Context, ex repository.Executor, id uuid.UUID, locked lockedArtifact, reviewer string) error {
	if err := repository.ExecExpectOne(ctx, ex, `
		UPDATE stage_artifacts
		SET status = 'approved', reviewed_at = NOW(), reviewed_by = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'in_review'`,
		reviewer, id,
	); err != nil {
		return err
	}

	if locked.stageType == StageUAT {
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO signoffs(id, project_id, signoff_type, document)
			VALUES ($1, $2, 'uat', $3)
			ON CONFLICT (project_id, signoff_type) DO NOTHING`,
			uuid.New(), locked.projectID, []byte(locked.payload),
		); err != nil {
			return fmt.Errorf("seed uat signoff: %w", err)
		}
	}

	return nil
}

func (r *repo) requestChanges(ctx context.Context, ex repository.Executor, id uuid.UUID, locked lockedArtifact, notes *string) error {
	payload, err := payloadForChanges(locked.stageType, locked.payload)
	if err != nil {
		return err
	}

	return repository.ExecExpectOne(ctx, ex, `
		UPDATE stage_artifacts
		SET status = 'active', review_notes = $1, submitted_at = NULL,
			reviewed_at = NULL, reviewed_by = NULL, payload = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'in_review'`,
		changeNotes(notes), payload, id,
	)
}

// payloadForChanges returns the payload to store when changes are
// requested. Configuration checklists go back unchecked so each task is
// re-verified on resubmission; other payloads are kept as submitted.
func payloadForChanges(stageType StageType, raw json.RawMessage) ([]byte, error) {
	if stageType != StageBobConfig {
		return []byte(raw), nil
	}
	decoded, err := DecodePayload(StageBobConfig, raw)
	if err != nil {
		return nil, err
	}
	decoded.(*BobConfigPayload).Reset()
	reset, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("marshal reset payload: %w", err)
	}
	return reset, nil
}

func (r *repo) notifyReview(ctx context.Context, artifact *StageArtifact, decision Decision) {
	event := notify.Event{
		ProjectID:      artifact.ProjectID,
		RecipientParty: identity.PartyClient,
		LinkURL:        artifactLink(artifact),
	}

	if decision == DecisionApprove {
		event.Kind = notify.KindArtifactApproved
		event.Title = fmt.Sprintf("%s approved", artifact.StageType)
		event.Message = "Your stage document has been approved."
	} else {
		event.Kind = notify.KindChangesRequested
		event.Title = fmt.Sprintf("Changes requested on %s", artifact.StageType)
		if artifact.ReviewNotes != nil {
			event.Message = *artifact.ReviewNotes
		}
	}

	r.notifier.Dispatch(ctx, event)
}

type lockedArtifact struct {
	projectID uuid.UUID
	stageType StageType
	status    Status
	payload   json.RawMessage
}

// lockArtifact reads the artifact's mutable state under a row lock,
// serializing concurrent submit/review calls on the same artifact.
func lockArtifact(ctx context.Context, tx *sql.Tx, id uuid.UUID) (lockedArtifact, error) {
	var locked lockedArtifact
	err := tx.QueryRowContext(ctx, `
		SELECT project_id, stage_type, status, payload
		FROM stage_artifacts
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(&locked.projectID, &locked.stageType, &locked.status, &locked.payload)
	if err != nil {
		return lockedArtifact{}, err
	}
	return locked, nil
}

func artifactLink(a *StageArtifact) string {
	return fmt.Sprintf("/projects/%s/stages/%s", a.ProjectID, a.StageType)
}
