package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/internal/notify"
	"github.com/digital-directions/stagegate/pkg/pagination"
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

const projectColumns = `id, name, client_id, payroll_system, current_stage,
		go_live_date, support_activated_at, created_at, updated_at`

type repo struct {
	db         *sql.DB
	notifier   notify.Dispatcher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(db *sql.DB, notifier notify.Dispatcher, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		notifier:   notifier,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "ClientID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Project, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO projects(id, name, client_id, payroll_system, current_stage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, projectColumns)

	insertArgs := []any{uuid.New(), cmd.Name, cmd.ClientID, cmd.PayrollSystem, StagePreSales}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanProject)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project created", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) AdvanceStage(ctx context.Context, id uuid.UUID) (*Project, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	next := current.CurrentStage.Next()
	if next == "" {
		return nil, ErrStageBoundary
	}

	return r.moveStage(ctx, id, current.CurrentStage, next)
}

func (r *repo) RevertStage(ctx context.Context, id uuid.UUID, target *Stage) (*Project, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	dest := current.CurrentStage.Previous()
	if target != nil {
		if !target.Before(current.CurrentStage) {
			return nil, ErrStageBoundary
		}
		dest = *target
	}
	if dest == "" {
		return nil, ErrStageBoundary
	}

	return r.moveStage(ctx, id, current.CurrentStage, dest)
}

// moveStage performs a compare-and-swap on current_stage so concurrent stage
// changes serialize; the loser observes zero rows and surfaces a conflict.
func (r *repo) moveStage(ctx context.Context, id uuid.UUID, from, to Stage) (*Project, error) {
	q := fmt.Sprintf(`
		UPDATE projects
		SET current_stage = $1,
			support_activated_at = CASE WHEN $1 = 'support' THEN NOW() ELSE support_activated_at END,
			updated_at = NOW()
		WHERE id = $2 AND current_stage = $3
		RETURNING %s`, projectColumns)

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, []any{to, id, from}, scanProject)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrStageConflict, ErrDuplicate)
	}

	r.logger.Info("project stage changed", "id", id, "from", from, "to", to)
	if to.After(from) {
		r.notifier.Dispatch(ctx, notify.Event{
			ProjectID:      id,
			Kind:           notify.KindStageAdvanced,
			RecipientParty: identity.PartyClient,
			Title:          fmt.Sprintf("Project advanced to %s", to.Label()),
			Message:        fmt.Sprintf("%s has moved into the %s stage.", p.Name, to.Label()),
			LinkURL:        fmt.Sprintf("/projects/%s", id),
		})
	}
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM projects WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project deleted", "id", id)
	return nil
}
