package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/pkg/pagination"
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

// maxConcurrentInserts bounds the dispatch fan-out per event.
const maxConcurrentInserts = 8

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a notification repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "notify"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Dispatch resolves the event's recipient users and writes one feed entry
// per user. Failures are logged and swallowed: the workflow transition that
// produced the event has already committed and must not be affected.
func (r *repo) Dispatch(ctx context.Context, event Event) {
	recipients, err := r.resolveRecipients(ctx, event)
	if err != nil {
		r.logger.Warn("notification recipient lookup failed",
			"project_id", event.ProjectID,
			"kind", event.Kind,
			"error", err,
		)
		return
	}

	if len(recipients) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentInserts)

	for _, userID := range recipients {
		g.Go(func() error {
			_, err := r.db.ExecContext(gctx, `
				INSERT INTO notifications(id, recipient_id, project_id, kind, title, message, link_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.New(), userID, event.ProjectID, event.Kind,
				event.Title, event.Message, event.LinkURL,
			)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Warn("notification dispatch incomplete",
			"project_id", event.ProjectID,
			"kind", event.Kind,
			"error", err,
		)
		return
	}

	r.logger.Info("notification dispatched",
		"project_id", event.ProjectID,
		"kind", event.Kind,
		"party", event.RecipientParty,
		"recipients", len(recipients),
	)
}

// resolveRecipients returns the user ids belonging to the recipient party.
// Client recipients are scoped to the project's owning organization.
func (r *repo) resolveRecipients(ctx context.Context, event Event) ([]uuid.UUID, error) {
	var (
		q    string
		args []any
	)

	if event.RecipientParty == identity.PartyDelivery {
		q = "SELECT id FROM users WHERE party = 'delivery'"
	} else {
		q = `
			SELECT u.id FROM users u
			JOIN projects p ON p.client_id = u.client_id
			WHERE u.party = 'client' AND p.id = $1`
		args = []any{event.ProjectID}
	}

	return repository.QueryMany(ctx, r.db, q, args, func(s repository.Scanner) (uuid.UUID, error) {
		var id uuid.UUID
		err := s.Scan(&id)
		return id, err
	})
}

func (r *repo) List(
	ctx context.Context,
	subject string,
	page pagination.PageRequest,
	unreadOnly bool,
) (*pagination.PageResult[Notification], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereEquals("Subject", subject)

	if unreadOnly {
		qb.WhereNullable("ReadAt", nil)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) MarkRead(ctx context.Context, id uuid.UUID, subject string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, `
			UPDATE notifications n
			SET read_at = NOW()
			FROM users u
			WHERE n.id = $1 AND n.recipient_id = u.id AND u.subject = $2 AND n.read_at IS NULL`,
			id, subject,
		)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) MarkAllRead(ctx context.Context, subject string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications n
		SET read_at = NOW()
		FROM users u
		WHERE n.recipient_id = u.id AND u.subject = $1 AND n.read_at IS NULL`,
		subject,
	)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
