package mapping

import (
	"bytes"
	"context"
	"database/sql"
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
	source   Source
	storage  storage.System
	notifier notify.Dispatcher
	logger   *slog.Logger
}

// New creates a mapping repository implementing the System interface.
// source may be nil when no external system is configured; pulls then
// report the source as unavailable.
func New(
	db *sql.DB,
	source Source,
	store storage.System,
	notifier notify.Dispatcher,
	logger *slog.Logger,
) System {
	return &repo{
		db:       db,
		source:   source,
		storage:  store,
		notifier: notifier,
		logger:   logger.With("system", "mapping"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, projectID uuid.UUID) (*MappingConfig, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ProjectID", projectID)

	config, err := repository.QueryOne(ctx, r.db, q, args, scanConfig)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}
	return &config, nil
}

const entriesQuery = `
	SELECT e.category, e.source_value, e.target_value, e.updated_by, e.updated_at
	FROM mapping_entries e
	JOIN mapping_configs m ON e.config_id = m.id
	WHERE m.project_id = $1
	ORDER BY e.category, e.source_value`

func (r *repo) Entries(ctx context.Context, projectID uuid.UUID) ([]Entry, error) {
	entries, err := repository.QueryMany(ctx, r.db, entriesQuery, []any{projectID}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query mapping entries: %w", err)
	}
	return entries, nil
}

func (r *repo) Progress(ctx context.Context, projectID uuid.UUID) ([]CategoryProgress, error) {
	config, err := r.Find(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries, err := r.Entries(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return progressFor(config, entries), nil
}

func (r *repo) Initialize(ctx context.Context, projectID uuid.UUID) (*MappingConfig, error) {
	var payrollSystem string
	err := r.db.QueryRowContext(ctx,
		"SELECT payroll_system FROM projects WHERE id = $1",
		projectID,
	).Scan(&payrollSystem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mapping_configs(id, project_id, payroll_system, status, source_values, target_values)
			VALUES ($1, $2, $3, 'active', $4, $5)`,
			uuid.New(), projectID, payrollSystem,
			repository.JSON(DefaultSourceValues()),
			repository.JSON(DefaultTargetValues(payrollSystem)),
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("mapping configuration initialized",
		"project_id", projectID,
		"payroll_system", payrollSystem,
	)
	return r.Find(ctx, projectID)
}

// SetEntry upserts one (category, source value) pairing. Last write wins.
// Entries freeze once the configuration leaves active.
func (r *repo) SetEntry(ctx context.Context, projectID uuid.UUID, cmd SetEntryCommand) (*Entry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	entry, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return Entry{}, err
		}
		if locked.Status != StatusActive {
			return Entry{}, ErrInvalidState
		}

		return repository.QueryOne(ctx, tx, `
			INSERT INTO mapping_entries(id, config_id, category, source_value, target_value, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (config_id, category, source_value)
			DO UPDATE SET target_value = EXCLUDED.target_value,
				updated_by = EXCLUDED.updated_by, updated_at = NOW()
			RETURNING category, source_value, target_value, updated_by, updated_at`,
			[]any{uuid.New(), locked.ID, cmd.Category, cmd.SourceValue, cmd.TargetValue, cmd.UpdatedBy},
			scanEntry,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	return &entry, nil
}

// ApplyEntries upserts a batch of entries in one transaction. This is the
// path for accepting suggestions: either the whole batch lands or none of
// it does.
func (r *repo) ApplyEntries(ctx context.Context, projectID uuid.UUID, cmds []SetEntryCommand) ([]Entry, error) {
	for _, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			return nil, err
		}
	}

	entries, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Entry, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return nil, err
		}
		if locked.Status != StatusActive {
			return nil, ErrInvalidState
		}

		applied := make([]Entry, 0, len(cmds))
		for _, cmd := range cmds {
			entry, err := repository.QueryOne(ctx, tx, `
				INSERT INTO mapping_entries(id, config_id, category, source_value, target_value, updated_by)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (config_id, category, source_value)
				DO UPDATE SET target_value = EXCLUDED.target_value,
					updated_by = EXCLUDED.updated_by, updated_at = NOW()
				RETURNING category, source_value, target_value, updated_by, updated_at`,
				[]any{uuid.New(), locked.ID, cmd.Category, cmd.SourceValue, cmd.TargetValue, cmd.UpdatedBy},
				scanEntry,
			)
			if err != nil {
				return nil, err
			}
			applied = append(applied, entry)
		}
		return applied, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("mapping entries applied", "project_id", projectID, "count", len(entries))
	return entries, nil
}

func (r *repo) RemoveEntry(ctx context.Context, projectID uuid.UUID, category Category, sourceValue string) error {
	if _, err := ParseCategory(string(category)); err != nil {
		return err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if locked.Status != StatusActive {
			return struct{}{}, ErrInvalidState
		}

		if err := deleteEntry(ctx, tx, locked.ID, category, sourceValue); err != nil {
			return struct{}{}, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
		}
		return struct{}{}, nil
	})
	return err
}

// deleteEntry removes one entry. A missing entry is a no-op, so the
// affected count is not checked.
func deleteEntry(ctx context.Context, ex repository.Executor, configID uuid.UUID, category Category, sourceValue string) error {
	_, err := ex.ExecContext(ctx, `
		DELETE FROM mapping_entries
		WHERE config_id = $1 AND category = $2 AND source_value = $3`,
		configID, category, sourceValue,
	)
	return err
}

// UpdateValues replaces one category's value lists. Nil lists leave that
// side untouched; passed lists are deduplicated in order.
func (r *repo) UpdateValues(ctx context.Context, projectID uuid.UUID, cmd UpdateValuesCommand) (*MappingConfig, error) {
	if _, err := ParseCategory(string(cmd.Category)); err != nil {
		return nil, err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if locked.Status != StatusActive {
			return struct{}{}, ErrInvalidState
		}

		if cmd.SourceValues != nil {
			locked.SourceValues[cmd.Category] = dedup(cmd.SourceValues)
		}
		if cmd.TargetValues != nil {
			locked.TargetValues[cmd.Category] = dedup(cmd.TargetValues)
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE mapping_configs
			SET source_values = $1, target_values = $2, updated_at = NOW()
			WHERE id = $3`,
			repository.JSON(locked.SourceValues),
			repository.JSON(locked.TargetValues),
			locked.ID,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	return r.Find(ctx, projectID)
}

// Suggest computes advisory pairings for source values that have no entry
// yet. Existing entries are never overwritten.
func (r *repo) Suggest(ctx context.Context, projectID uuid.UUID, category Category) ([]Suggestion, error) {
	config, err := r.Find(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries, err := r.Entries(ctx, projectID)
	if err != nil {
		return nil, err
	}

	mapped := make(map[Category]map[string]struct{})
	for _, entry := range entries {
		if mapped[entry.Category] == nil {
			mapped[entry.Category] = make(map[string]struct{})
		}
		mapped[entry.Category][entry.SourceValue] = struct{}{}
	}

	categories := CategoryOrder
	if category != "" {
		if _, err := ParseCategory(string(category)); err != nil {
			return nil, err
		}
		categories = []Category{category}
	}

	suggestions := make([]Suggestion, 0)
	for _, c := range categories {
		unmapped := make([]string, 0, len(config.SourceValues[c]))
		for _, source := range config.SourceValues[c] {
			if _, ok := mapped[c][source]; !ok {
				unmapped = append(unmapped, source)
			}
		}
		suggestions = append(suggestions, SuggestMatches(c, unmapped, config.TargetValues[c])...)
	}

	return suggestions, nil
}

// PullFromSource fetches source-side values from the external system and
// merges them in. The pull happens before the transaction so the network
// call never holds a row lock.
func (r *repo) PullFromSource(ctx context.Context, projectID uuid.UUID) (*PullResult, error) {
	if r.source == nil {
		return nil, ErrSourceUnavailable
	}

	raw, warnings, err := r.source.PullValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	pulled := make(map[Category][]string, len(raw))
	for slug, values := range raw {
		category, err := ParseCategory(slug)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("source returned unknown category %q", slug))
			continue
		}
		pulled[category] = values
	}

	replaced, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Category, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return nil, err
		}
		if locked.Status != StatusActive {
			return nil, ErrInvalidState
		}

		merged, replaced := MergeValues(locked.SourceValues, pulled)
		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE mapping_configs
			SET source_values = $1, updated_at = NOW()
			WHERE id = $2`,
			repository.JSON(merged), locked.ID,
		)
		return replaced, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	config, err := r.Find(ctx, projectID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("mapping values pulled from source",
		"project_id", projectID,
		"replaced", len(replaced),
		"warnings", len(warnings),
	)
	return &PullResult{Config: config, Replaced: replaced, Warnings: warnings}, nil
}

func (r *repo) Submit(ctx context.Context, projectID uuid.UUID) (*MappingConfig, error) {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if locked.Status != StatusActive {
			return struct{}{}, ErrInvalidState
		}

		// Unmapped source values do not block submission; one-to-many and
		// partial mappings are legal. An empty configuration is not.
		entries, err := repository.QueryMany(ctx, tx, entriesQuery, []any{projectID}, scanEntry)
		if err != nil {
			return struct{}{}, err
		}
		if len(entries) == 0 {
			return struct{}{}, fmt.Errorf("%w: no entries mapped", ErrIncomplete)
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE mapping_configs
			SET status = 'in_review', submitted_at = NOW(), review_notes = NULL, updated_at = NOW()
			WHERE id = $1 AND status = 'active'`,
			locked.ID,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidState, ErrAlreadyExists)
	}

	config, err := r.Find(ctx, projectID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("mapping configuration submitted", "project_id", projectID)
	r.notifier.Dispatch(ctx, notify.Event{
		ProjectID:      projectID,
		Kind:           notify.KindMappingSubmitted,
		RecipientParty: identity.PartyDelivery,
		Title:          "Value mapping submitted for review",
		Message:        "The value mapping configuration is awaiting review.",
		LinkURL:        mappingLink(projectID),
	})

	return config, nil
}

func (r *repo) Review(ctx context.Context, projectID uuid.UUID, cmd ReviewCommand) (*MappingConfig, error) {
	if _, err := ParseDecision(string(cmd.Decision)); err != nil {
		return nil, err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		locked, err := r.lock(ctx, tx, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if locked.Status != StatusInReview {
			return struct{}{}, ErrInvalidState
		}

		if cmd.Decision == DecisionApprove {
			err = repository.ExecExpectOne(ctx, tx, `
				UPDATE mapping_configs
				SET status = 'approved', reviewed_at = NOW(), reviewed_by = $1, updated_at = NOW()
				WHERE id = $2 AND status = 'in_review'`,
				cmd.Reviewer, locked.ID,
			)
			return struct{}{}, err
		}

		text := defaultChangeNotes
		if cmd.Notes != nil && *cmd.Notes != "" {
			text = *cmd.Notes
		}
		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE mapping_configs
			SET status = 'active', review_notes = $1, submitted_at = NULL,
				reviewed_at = NULL, reviewed_by = NULL, updated_at = NOW()
			WHERE id = $2 AND status = 'in_review'`,
			text, locked.ID,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidState, ErrAlreadyExists)
	}

	config, err := r.Find(ctx, projectID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("mapping configuration reviewed",
		"project_id", projectID,
		"decision", cmd.Decision,
	)
	r.notifyReview(ctx, config, cmd.Decision)

	return config, nil
}

// Export flattens the approved mapping to CSV, stamps exported_at, and
// archives a copy to blob storage. The conditional update re-verifies
// approval at export time.
func (r *repo) Export(ctx context.Context, projectID uuid.UUID, requestedBy string) ([]byte, error) {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, `
			UPDATE mapping_configs
			SET exported_at = NOW(), updated_at = NOW()
			WHERE project_id = $1 AND status = 'approved'`,
			projectID,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotApproved, ErrAlreadyExists)
	}

	config, err := r.Find(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries, err := r.Entries(ctx, projectID)
	if err != nil {
		return nil, err
	}

	data, err := BuildExport(config, entries)
	if err != nil {
		return nil, err
	}

	r.logger.Info("mapping configuration exported",
		"project_id", projectID,
		"requested_by", requestedBy,
		"rows", len(entries),
	)
	r.archiveExport(ctx, projectID, data)
	r.notifier.Dispatch(ctx, notify.Event{
		ProjectID:      projectID,
		Kind:           notify.KindMappingExported,
		RecipientParty: identity.PartyClient,
		Title:          "Value mapping exported",
		Message:        "The approved value mapping has been exported for migration.",
		LinkURL:        mappingLink(projectID),
	})

	return data, nil
}

// lock reads the config's mutable state under a row lock, serializing
// concurrent writes on the same project.
func (r *repo) lock(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) (*MappingConfig, error) {
	var (
		config MappingConfig
		source repository.JSONColumn[map[Category][]string]
		target repository.JSONColumn[map[Category][]string]
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, status, source_values, target_values
		FROM mapping_configs
		WHERE project_id = $1
		FOR UPDATE`,
		projectID,
	).Scan(&config.ID, &config.Status, &source, &target)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	config.ProjectID = projectID
	config.SourceValues = source.V
	config.TargetValues = target.V
	if config.SourceValues == nil {
		config.SourceValues = make(map[Category][]string)
	}
	if config.TargetValues == nil {
		config.TargetValues = make(map[Category][]string)
	}
	return &config, nil
}

func (r *repo) notifyReview(ctx context.Context, config *MappingConfig, decision Decision) {
	event := notify.Event{
		ProjectID:      config.ProjectID,
		RecipientParty: identity.PartyClient,
		LinkURL:        mappingLink(config.ProjectID),
	}

	if decision == DecisionApprove {
		event.Kind = notify.KindMappingApproved
		event.Title = "Value mapping approved"
		event.Message = "The value mapping configuration has been approved."
	} else {
		event.Kind = notify.KindMappingChanges
		event.Title = "Changes requested on value mapping"
		if config.ReviewNotes != nil {
			event.Message = *config.ReviewNotes
		}
	}

	r.notifier.Dispatch(ctx, event)
}

// archiveExport writes the CSV to blob storage. Best-effort: the export
// stamp has already committed and the caller still gets the bytes.
func (r *repo) archiveExport(ctx context.Context, projectID uuid.UUID, data []byte) {
	key := fmt.Sprintf("mappings/%s/mapping.csv", projectID)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), "text/csv"); err != nil {
		r.logger.Warn("export archive upload failed", "key", key, "error", err)
	}
}

func progressFor(config *MappingConfig, entries []Entry) []CategoryProgress {
	mapped := make(map[Category]map[string]struct{})
	for _, entry := range entries {
		if mapped[entry.Category] == nil {
			mapped[entry.Category] = make(map[string]struct{})
		}
		mapped[entry.Category][entry.SourceValue] = struct{}{}
	}

	progress := make([]CategoryProgress, 0, len(CategoryOrder))
	for _, category := range CategoryOrder {
		sources := config.SourceValues[category]
		p := CategoryProgress{
			Category: category,
			Label:    category.Label(),
			Total:    len(sources),
		}
		for _, source := range sources {
			if _, ok := mapped[category][source]; ok {
				p.Mapped++
			}
		}
		progress = append(progress, p)
	}

	return progress
}

func mappingLink(projectID uuid.UUID) string {
	return fmt.Sprintf("/projects/%s/mapping", projectID)
}
