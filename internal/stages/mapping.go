package stages

import (
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "stage_artifacts", "a").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("stage_type", "StageType").
	Project("status", "Status").
	Project("payload", "Payload").
	Project("submitted_at", "SubmittedAt").
	Project("reviewed_at", "ReviewedAt").
	Project("reviewed_by", "ReviewedBy").
	Project("review_notes", "ReviewNotes").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "projects", "p", "JOIN", "a.project_id = p.id").
	Project("client_id", "ClientID")

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

func scanArtifact(s repository.Scanner) (StageArtifact, error) {
	var a StageArtifact
	err := s.Scan(
		&a.ID,
		&a.ProjectID,
		&a.StageType,
		&a.Status,
		&a.Payload,
		&a.SubmittedAt,
		&a.ReviewedAt,
		&a.ReviewedBy,
		&a.ReviewNotes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.ClientID,
	)
	return a, err
}
