// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

type join struct {
	kind      string
	schema    string
	table     string
	alias     string
	condition string
}

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the table, alias, joins, and column mappings for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	joins      []join
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns added after a Join are qualified with the joined table's alias.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.currentAlias(), column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a joined table. Subsequent Project calls map against its alias.
func (p *ProjectionMap) Join(schema, table, alias, kind, condition string) *ProjectionMap {
	p.joins = append(p.joins, join{
		kind:      kind,
		schema:    schema,
		table:     table,
		alias:     alias,
		condition: condition,
	})
	return p
}

// Alias returns the root table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the FROM clause contents: the qualified root table with alias
// followed by any join clauses.
func (p *ProjectionMap) From() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	for _, j := range p.joins {
		from += fmt.Sprintf(" %s %s.%s %s ON %s", j.kind, j.schema, j.table, j.alias, j.condition)
	}
	return from
}

func (p *ProjectionMap) currentAlias() string {
	if len(p.joins) > 0 {
		return p.joins[len(p.joins)-1].alias
	}
	return p.alias
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
