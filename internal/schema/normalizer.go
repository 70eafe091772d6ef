// Package schema maps variant source column names onto the canonical
// per-dataset schemas the rest of the system relies on.
package schema

import (
	"strconv"
	"strings"

	"github.com/propline/estatedesk/internal/domain"
)

// Normalize converts a raw snapshot into canonical records. For each
// canonical field the first alias (case-sensitive, on trimmed column
// names) that appears in the snapshot wins; a column feeds at most one
// canonical field. Declared-numeric fields are coerced to float64, with
// unparseable or blank values left unset. Columns that match no alias
// are carried through verbatim. Row order is preserved.
func Normalize(snapshot domain.TableSnapshot, dt domain.DatasetType) []domain.Record {
	specs := FieldsFor(dt)

	trimmed := make([]string, len(snapshot.Columns))
	for i, column := range snapshot.Columns {
		trimmed[i] = strings.TrimSpace(column)
	}

	// Resolve each canonical field to the source column backing it.
	consumed := make(map[string]bool, len(specs))
	resolved := make([]struct {
		spec   FieldSpec
		column string // original column name, "" when absent
	}, 0, len(specs))

	for _, spec := range specs {
		source := ""
		for _, alias := range spec.Aliases {
			for i, name := range trimmed {
				if name == alias && !consumed[snapshot.Columns[i]] {
					source = snapshot.Columns[i]
					break
				}
			}
			if source != "" {
				break
			}
		}
		if source != "" {
			consumed[source] = true
		}
		resolved = append(resolved, struct {
			spec   FieldSpec
			column string
		}{spec, source})
	}

	records := make([]domain.Record, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		record := make(domain.Record, len(specs))

		for _, binding := range resolved {
			if binding.column == "" {
				continue
			}
			raw := row[binding.column]
			if binding.spec.Numeric {
				if number, ok := parseNumber(raw); ok {
					record[binding.spec.Name] = number
				}
				continue
			}
			record[binding.spec.Name] = raw
		}

		// Unmapped columns pass through so forward-compatible extra
		// data is not dropped.
		for i, column := range snapshot.Columns {
			if consumed[column] {
				continue
			}
			record[trimmed[i]] = row[column]
		}

		records = append(records, record)
	}
	return records
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return number, true
}
