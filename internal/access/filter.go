// Package access applies the row-level visibility rule for client
// records. It is the only authorization rule in the system.
package access

import (
	"strings"

	"github.com/propline/estatedesk/internal/domain"
)

// FilterClients narrows client records to those the caller may see.
// Sales staff only see clients whose assigned_to contains their
// username as a case-insensitive substring; every other role sees all
// records. Identity and role arrive as explicit arguments, never as
// ambient state.
func FilterClients(records []domain.Record, role domain.Role, username string) []domain.Record {
	if role != domain.RoleSales {
		return records
	}

	needle := strings.ToLower(username)
	filtered := make([]domain.Record, 0, len(records))
	for _, record := range records {
		assigned := strings.ToLower(record.String("assigned_to"))
		if needle != "" && strings.Contains(assigned, needle) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
