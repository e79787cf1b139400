package mapping

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
)

// exportColumns fixes the flattened export layout. Consumers key off the
// header row, so the order never changes.
var exportColumns = []string{"category", "source_value", "target_value"}

// BuildExport flattens the entries into CSV, ordered by category then by
// the position of each source value in the config's value list. Entries
// whose source value was removed from the list sort after the known ones,
// alphabetically.
func BuildExport(config *MappingConfig, entries []Entry) ([]byte, error) {
	byCategory := make(map[Category][]Entry)
	for _, entry := range entries {
		byCategory[entry.Category] = append(byCategory[entry.Category], entry)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}

	for _, category := range CategoryOrder {
		rows := byCategory[category]
		if len(rows) == 0 {
			continue
		}

		position := make(map[string]int, len(config.SourceValues[category]))
		for i, v := range config.SourceValues[category] {
			position[v] = i
		}
		sort.SliceStable(rows, func(i, j int) bool {
			pi, iok := position[rows[i].SourceValue]
			pj, jok := position[rows[j].SourceValue]
			switch {
			case iok && jok:
				return pi < pj
			case iok != jok:
				return iok
			default:
				return rows[i].SourceValue < rows[j].SourceValue
			}
		})

		for _, entry := range rows {
			record := []string{string(entry.Category), entry.SourceValue, entry.TargetValue}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("write export row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush export: %w", err)
	}
	return buf.Bytes(), nil
}
