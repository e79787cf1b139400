package signoffs

import (
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "signoffs", "s").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("signoff_type", "Type").
	Project("document", "Document").
	Project("signed_by_client", "SignedByClient").
	Project("signed_at", "SignedAt").
	Project("client_confirm_text", "ClientConfirmText").
	Project("counter_signed_by", "CounterSignedBy").
	Project("counter_signed_at", "CounterSignedAt").
	Project("document_snapshot", "DocumentSnapshot").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "projects", "p", "JOIN", "s.project_id = p.id").
	Project("client_id", "ClientID")

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

func scanSignoff(s repository.Scanner) (Signoff, error) {
	var so Signoff
	err := s.Scan(
		&so.ID,
		&so.ProjectID,
		&so.Type,
		&so.Document,
		&so.SignedByClient,
		&so.SignedAt,
		&so.ClientConfirmText,
		&so.CounterSignedBy,
		&so.CounterSignedAt,
		&so.DocumentSnapshot,
		&so.CreatedAt,
		&so.UpdatedAt,
		&so.ClientID,
	)
	return so, err
}
