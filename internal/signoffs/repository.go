package signoffs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/internal/notify"
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
	"github.com/digital-directions/stagegate/pkg/storage"
)

type repo struct {
	db       *sql.DB
	storage  storage.System
	notifier notify.Dispatcher
	logger   *slog.Logger
}

// New creates a signoff repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	notifier notify.Dispatcher,
	logger *slog.Logger,
) System {
	return &repo{
		db:       db,
		storage:  store,
		notifier: notifier,
		logger:   logger.With("system", "signoffs"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Signoff, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSignoff)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Signoff, error) {
	q, args := query.NewBuilder(projection, defaultSort).
		WhereEquals("ProjectID", projectID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSignoff)
	if err != nil {
		return nil, fmt.Errorf("query signoffs: %w", err)
	}
	return items, nil
}

// Publish creates the signoff record for a (project, type) or replaces its
// document. Refused once the client has signed: the signed content is frozen.
func (r *repo) Publish(ctx context.Context, cmd PublishCommand) (*Signoff, error) {
	if _, err := ParseType(string(cmd.Type)); err != nil {
		return nil, err
	}
	if len(cmd.Document) == 0 {
		return nil, ErrNotPublished
	}

	var id uuid.UUID
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO signoffs(id, project_id, signoff_type, document)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (project_id, signoff_type) DO UPDATE
				SET document = EXCLUDED.document, updated_at = NOW()
				WHERE signoffs.signed_at IS NULL
			RETURNING id`,
			uuid.New(), cmd.ProjectID, cmd.Type, []byte(cmd.Document),
		).Scan(&id)
		if err != nil {
			// the conflict branch matched a signed record: no row returned
			return struct{}{}, repository.MapError(err, ErrAlreadySigned, ErrDuplicate)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("signoff published", "id", id, "project_id", cmd.ProjectID, "type", cmd.Type)
	r.notifier.Dispatch(ctx, notify.Event{
		ProjectID:      cmd.ProjectID,
		Kind:           notify.KindSignoffPublished,
		RecipientParty: identity.PartyClient,
		Title:          fmt.Sprintf("%s ready for signature", cmd.Type),
		Message:        "A document has been published for your review and signature.",
		LinkURL:        signoffLink(cmd.ProjectID, cmd.Type),
	})

	return r.Find(ctx, id)
}

// ClientSign applies the client signature, freezing the document into the
// snapshot at this moment. The row lock plus guard makes concurrent sign
// attempts serialize; the loser observes the signature and fails.
func (r *repo) ClientSign(ctx context.Context, id uuid.UUID, cmd ClientSignCommand) (*Signoff, error) {
	if cmd.ConfirmText == "" {
		return nil, ErrConfirmText
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := r.lock(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		if err := locked.CanClientSign(); err != nil {
			return struct{}{}, err
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE signoffs
			SET signed_by_client = $1, signed_at = NOW(), client_confirm_text = $2,
				document_snapshot = document, updated_at = NOW()
			WHERE id = $3 AND signed_at IS NULL AND counter_signed_at IS NULL`,
			cmd.SignedBy, cmd.ConfirmText, id,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrAlreadySigned, ErrDuplicate)
	}

	signoff, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("signoff client-signed", "id", id, "type", signoff.Type)
	r.archiveSnapshot(ctx, signoff)
	r.notifier.Dispatch(ctx, notify.Event{
		ProjectID:      signoff.ProjectID,
		Kind:           notify.KindClientSigned,
		RecipientParty: identity.PartyDelivery,
		Title:          fmt.Sprintf("%s signed by client", signoff.Type),
		Message:        "The client has signed; counter-signature required.",
		LinkURL:        signoffLink(signoff.ProjectID, signoff.Type),
	})

	return signoff, nil
}

// CounterSign applies the delivery team signature, making the record
// terminal. Counter-signing the UAT signoff advances the project into
// go-live and retires the UAT artifact.
func (r *repo) CounterSign(ctx context.Context, id uuid.UUID, signedBy string) (*Signoff, error) {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := r.lock(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		if err := locked.CanCounterSign(); err != nil {
			return struct{}{}, err
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE signoffs
			SET counter_signed_by = $1, counter_signed_at = NOW(), updated_at = NOW()
			WHERE id = $2 AND signed_at IS NOT NULL AND counter_signed_at IS NULL`,
			signedBy, id,
		); err != nil {
			return struct{}{}, err
		}

		if locked.Type == TypeUAT {
			if err := r.completeUATStage(ctx, tx, locked.ProjectID); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrAlreadySigned, ErrDuplicate)
	}

	signoff, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("signoff counter-signed", "id", id, "type", signoff.Type)
	r.notifier.Dispatch(ctx, notify.Event{
		ProjectID:      signoff.ProjectID,
		Kind:           notify.KindCounterSigned,
		RecipientParty: identity.PartyClient,
		Title:          fmt.Sprintf("%s fully signed", signoff.Type),
		Message:        "Both parties have signed; the next stage is unlocked.",
		LinkURL:        signoffLink(signoff.ProjectID, signoff.Type),
	})

	return signoff, nil
}

// completeUATStage moves the project out of testing once UAT is certified.
// Both statements are conditional: if the project was already advanced by
// hand, the certification still stands.
func (r *repo) completeUATStage(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET current_stage = 'go_live', updated_at = NOW()
		WHERE id = $1 AND current_stage = 'uat'`,
		projectID,
	); err != nil {
		return fmt.Errorf("advance project stage: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE stage_artifacts
		SET status = 'complete', updated_at = NOW()
		WHERE project_id = $1 AND stage_type = 'uat' AND status = 'approved'`,
		projectID,
	); err != nil {
		return fmt.Errorf("complete uat artifact: %w", err)
	}

	return nil
}

// archiveSnapshot writes an audit copy of the signed snapshot to blob
// storage. Best-effort: the signature has already committed.
func (r *repo) archiveSnapshot(ctx context.Context, s *Signoff) {
	if len(s.DocumentSnapshot) == 0 {
		return
	}

	data, err := json.Marshal(map[string]any{
		"signoff_id":   s.ID,
		"project_id":   s.ProjectID,
		"signoff_type": s.Type,
		"signed_at":    s.SignedAt,
		"signed_by":    s.SignedByClient,
		"snapshot":     s.DocumentSnapshot,
	})
	if err != nil {
		r.logger.Warn("snapshot archive marshal failed", "id", s.ID, "error", err)
		return
	}

	key := fmt.Sprintf("signoffs/%s/%s.json", s.ProjectID, s.Type)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		r.logger.Warn("snapshot archive upload failed", "key", key, "error", err)
	}
}

func (r *repo) lock(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Signoff, error) {
	var s Signoff
	err := tx.QueryRowContext(ctx, `
		SELECT id, project_id, signoff_type, document, signed_at, counter_signed_at
		FROM signoffs
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(&s.ID, &s.ProjectID, &s.Type, &s.Document, &s.SignedAt, &s.CounterSignedAt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func signoffLink(projectID uuid.UUID, t Type) string {
	return fmt.Sprintf("/projects/%s/signoffs/%s", projectID, t)
}
