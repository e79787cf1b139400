package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn wraps a value for use as a jsonb column with database/sql.
// It implements driver.Valuer and sql.Scanner so typed payloads round-trip
// through jsonb columns without per-call marshal boilerplate.
type JSONColumn[T any] struct {
	V T
}

// JSON wraps a value for binding to a jsonb parameter.
func JSON[T any](v T) JSONColumn[T] {
	return JSONColumn[T]{V: v}
}

func (c JSONColumn[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(c.V)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb column: %w", err)
	}
	return data, nil
}

func (c *JSONColumn[T]) Scan(src any) error {
	if src == nil {
		var zero T
		c.V = zero
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan jsonb column: unsupported source type %T", src)
	}

	if err := json.Unmarshal(data, &c.V); err != nil {
		return fmt.Errorf("unmarshal jsonb column: %w", err)
	}
	return nil
}
