package golive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/internal/notify"
	"github.com/digital-directions/stagegate/pkg/repository"
)

type repo struct {
	db       *sql.DB
	notifier notify.Dispatcher
	logger   *slog.Logger
}

// New creates a go-live repository implementing the System interface.
func New(db *sql.DB, notifier notify.Dispatcher, logger *slog.Logger) System {
	return &repo{
		db:       db,
		notifier: notifier,
		logger:   logger.With("system", "golive"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const pairQuery = `
	SELECT c.id, c.project_id, c.delivery_items, c.client_items,
		c.created_at, c.updated_at, p.client_id
	FROM golive_checklists c
	JOIN projects p ON c.project_id = p.id
	WHERE c.project_id = $1`

func (r *repo) Find(ctx context.Context, projectID uuid.UUID) (*ChecklistPair, error) {
	pair, err := repository.QueryOne(ctx, r.db, pairQuery, []any{projectID}, scanPair)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}
	return &pair, nil
}

const eventQuery = `
	SELECT id, project_id, stats, triggered_by, triggered_at, acknowledged_by
	FROM golive_events
	WHERE %s = $1`

func (r *repo) FindEvent(ctx context.Context, projectID uuid.UUID) (*GoLiveEvent, error) {
	q := fmt.Sprintf(eventQuery, "project_id")
	event, err := repository.QueryOne(ctx, r.db, q, []any{projectID}, scanEvent)
	if err != nil {
		return nil, repository.MapError(err, ErrEventNotFound, ErrAlreadyTriggered)
	}
	return &event, nil
}

func (r *repo) Initialize(ctx context.Context, projectID uuid.UUID) (*ChecklistPair, error) {
	id := uuid.New()
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO golive_checklists(id, project_id, delivery_items, client_items)
			VALUES ($1, $2, $3, $4)`,
			id, projectID,
			repository.JSON(DefaultDeliveryItems()),
			repository.JSON(DefaultClientItems()),
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("go-live checklist initialized", "project_id", projectID)
	return r.Find(ctx, projectID)
}

// ToggleItem mutates one item under a row lock. The checklist freezes once
// the go-live event exists. Completing the last item of a side notifies the
// other party that the gate moved.
func (r *repo) ToggleItem(ctx context.Context, projectID uuid.UUID, cmd ToggleCommand) (*ChecklistPair, error) {
	sideCompleted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		pair, err := r.lockPair(ctx, tx, projectID)
		if err != nil {
			return false, err
		}

		if err := r.ensureNotTriggered(ctx, tx, projectID); err != nil {
			return false, err
		}

		wasComplete := pair.SideComplete(cmd.Side)
		if err := pair.Toggle(cmd.Side, cmd.ItemID, cmd.Completed, cmd.UserID); err != nil {
			return false, err
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE golive_checklists
			SET delivery_items = $1, client_items = $2, updated_at = NOW()
			WHERE project_id = $3`,
			repository.JSON(pair.DeliveryItems),
			repository.JSON(pair.ClientItems),
			projectID,
		); err != nil {
			return false, err
		}

		return !wasComplete && pair.SideComplete(cmd.Side), nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	if sideCompleted {
		other := identity.PartyClient
		if cmd.Side == SideClient {
			other = identity.PartyDelivery
		}
		r.notifier.Dispatch(ctx, notify.Event{
			ProjectID:      projectID,
			Kind:           notify.KindChecklistComplete,
			RecipientParty: other,
			Title:          "Go-live checklist side complete",
			Message:        fmt.Sprintf("The %s checklist is fully complete.", cmd.Side),
			LinkURL:        goliveLink(projectID),
		})
	}

	return r.Find(ctx, projectID)
}

func (r *repo) CanTrigger(ctx context.Context, projectID uuid.UUID) (bool, error) {
	pair, err := r.Find(ctx, projectID)
	if err != nil {
		return false, err
	}
	return pair.CanTrigger(), nil
}

// Trigger fires go-live exactly once. The unique constraint on
// golive_events(project_id) makes concurrent triggers race to a single
// event; the loser surfaces ErrAlreadyTriggered.
func (r *repo) Trigger(ctx context.Context, projectID uuid.UUID, userID string) (*GoLiveEvent, error) {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		pair, err := r.lockPair(ctx, tx, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if !pair.CanTrigger() {
			return struct{}{}, ErrPreconditionFailed
		}

		stats, err := r.collectStats(ctx, tx, projectID, pair)
		if err != nil {
			return struct{}{}, err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO golive_events(id, project_id, stats, triggered_by, acknowledged_by)
			VALUES ($1, $2, $3, $4, '[]'::jsonb)`,
			uuid.New(), projectID, repository.JSON(stats), userID,
		); err != nil {
			return struct{}{}, err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET go_live_date = NOW(), current_stage = 'support',
				support_activated_at = NOW(), updated_at = NOW()
			WHERE id = $1`,
			projectID,
		); err != nil {
			return struct{}{}, fmt.Errorf("activate support stage: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyTriggered)
	}

	event, err := r.FindEvent(ctx, projectID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("go-live triggered", "project_id", projectID, "triggered_by", userID)
	for _, party := range []identity.Party{identity.PartyDelivery, identity.PartyClient} {
		r.notifier.Dispatch(ctx, notify.Event{
			ProjectID:      projectID,
			Kind:           notify.KindGoLiveTriggered,
			RecipientParty: party,
			Title:          "Project is live",
			Message:        "Go-live has been triggered; the project has entered support.",
			LinkURL:        goliveLink(projectID),
		})
	}

	return event, nil
}

// Acknowledge appends the user to the event's seen-set. Idempotent: a
// repeat call is a no-op.
func (r *repo) Acknowledge(ctx context.Context, eventID uuid.UUID, userID string) (*GoLiveEvent, error) {
	event, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (GoLiveEvent, error) {
		q := fmt.Sprintf(eventQuery, "id") + " FOR UPDATE"
		event, err := repository.QueryOne(ctx, tx, q, []any{eventID}, scanEvent)
		if err != nil {
			return GoLiveEvent{}, err
		}

		if event.Acknowledged(userID) {
			return event, nil
		}

		event.AcknowledgedBy = append(event.AcknowledgedBy, userID)
		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE golive_events
			SET acknowledged_by = $1
			WHERE id = $2`,
			repository.JSON(event.AcknowledgedBy), eventID,
		); err != nil {
			return GoLiveEvent{}, err
		}

		return event, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrEventNotFound, ErrAlreadyTriggered)
	}

	return &event, nil
}

func (r *repo) lockPair(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) (*ChecklistPair, error) {
	pair, err := repository.QueryOne(ctx, tx, pairQuery+" FOR UPDATE OF c", []any{projectID}, scanPair)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}
	return &pair, nil
}

func (r *repo) ensureNotTriggered(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) error {
	var exists bool
	err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM golive_events WHERE project_id = $1)",
		projectID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrChecklistFrozen
	}
	return nil
}

func (r *repo) collectStats(ctx context.Context, tx *sql.Tx, projectID uuid.UUID, pair *ChecklistPair) (SyncStats, error) {
	stats := SyncStats{
		DeliveryItemsCompleted: len(pair.DeliveryItems),
		ClientItemsCompleted:   len(pair.ClientItems),
	}

	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM mapping_entries e
		JOIN mapping_configs c ON e.config_id = c.id
		WHERE c.project_id = $1`,
		projectID,
	).Scan(&stats.MappingEntries)
	if err != nil {
		return SyncStats{}, fmt.Errorf("collect sync stats: %w", err)
	}

	return stats, nil
}

func scanPair(s repository.Scanner) (ChecklistPair, error) {
	var (
		pair     ChecklistPair
		delivery repository.JSONColumn[[]Item]
		client   repository.JSONColumn[[]Item]
	)
	err := s.Scan(
		&pair.ID,
		&pair.ProjectID,
		&delivery,
		&client,
		&pair.CreatedAt,
		&pair.UpdatedAt,
		&pair.ClientID,
	)
	pair.DeliveryItems = delivery.V
	pair.ClientItems = client.V
	return pair, err
}

func scanEvent(s repository.Scanner) (GoLiveEvent, error) {
	var (
		event GoLiveEvent
		stats repository.JSONColumn[SyncStats]
		acks  repository.JSONColumn[[]string]
	)
	err := s.Scan(
		&event.ID,
		&event.ProjectID,
		&stats,
		&event.TriggeredBy,
		&event.TriggeredAt,
		&acks,
	)
	event.Stats = stats.V
	event.AcknowledgedBy = acks.V
	if event.AcknowledgedBy == nil {
		event.AcknowledgedBy = []string{}
	}
	return event, err
}

func goliveLink(projectID uuid.UUID) string {
	return fmt.Sprintf("/projects/%s/go-live", projectID)
}
