package mapping

import (
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "mapping_configs", "m").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("payroll_system", "PayrollSystem").
	Project("status", "Status").
	Project("source_values", "SourceValues").
	Project("target_values", "TargetValues").
	Project("submitted_at", "SubmittedAt").
	Project("review_notes", "ReviewNotes").
	Project("reviewed_at", "ReviewedAt").
	Project("reviewed_by", "ReviewedBy").
	Project("exported_at", "ExportedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "projects", "p", "JOIN", "m.project_id = p.id").
	Project("client_id", "ClientID")

func scanConfig(s repository.Scanner) (MappingConfig, error) {
	var (
		config MappingConfig
		source repository.JSONColumn[map[Category][]string]
		target repository.JSONColumn[map[Category][]string]
	)
	err := s.Scan(
		&config.ID,
		&config.ProjectID,
		&config.PayrollSystem,
		&config.Status,
		&source,
		&target,
		&config.SubmittedAt,
		&config.ReviewNotes,
		&config.ReviewedAt,
		&config.ReviewedBy,
		&config.ExportedAt,
		&config.CreatedAt,
		&config.UpdatedAt,
		&config.ClientID,
	)
	config.SourceValues = source.V
	config.TargetValues = target.V
	return config, err
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.Category,
		&e.SourceValue,
		&e.TargetValue,
		&e.UpdatedBy,
		&e.UpdatedAt,
	)
	return e, err
}
