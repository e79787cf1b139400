package projects

import (
	"net/url"

	"github.com/digital-directions/stagegate/pkg/query"
	"github.com/digital-directions/stagegate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("client_id", "ClientID").
	Project("payroll_system", "PayrollSystem").
	Project("current_stage", "CurrentStage").
	Project("go_live_date", "GoLiveDate").
	Project("support_activated_at", "SupportActivatedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for project queries.
// Nil fields are ignored.
type Filters struct {
	ClientID      *string `json:"client_id,omitempty"`
	PayrollSystem *string `json:"payroll_system,omitempty"`
	CurrentStage  *string `json:"current_stage,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ClientID", f.ClientID).
		WhereEquals("PayrollSystem", f.PayrollSystem).
		WhereEquals("CurrentStage", f.CurrentStage)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("client_id"); c != "" {
		f.ClientID = &c
	}
	if ps := values.Get("payroll_system"); ps != "" {
		f.PayrollSystem = &ps
	}
	if cs := values.Get("current_stage"); cs != "" {
		f.CurrentStage = &cs
	}

	return f
}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.ClientID,
		&p.PayrollSystem,
		&p.CurrentStage,
		&p.GoLiveDate,
		&p.SupportActivatedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
