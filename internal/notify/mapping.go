package notify

import (
	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "notifications", "n").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("kind", "Kind").
	Project("title", "Title").
	Project("message", "Message").
	Project("link_url", "LinkURL").
	Project("created_at", "CreatedAt").
	Project("read_at", "ReadAt").
	Join("public", "users", "u", "JOIN", "n.recipient_id = u.id").
	Project("subject", "Subject")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanNotification(s repository.Scanner) (Notification, error) {
	var (
		n       Notification
		subject string
	)
	err := s.Scan(
		&n.ID,
		&n.ProjectID,
		&n.Kind,
		&n.Title,
		&n.Message,
		&n.LinkURL,
		&n.CreatedAt,
		&n.ReadAt,
		&subject,
	)
	return n, err
}
