// Package metrics computes derived statistics over normalized dataset
// snapshots. Unset numeric fields are excluded from sums and means, and
// every aggregate is defined over an empty record set.
package metrics

import (
	"strings"

	"github.com/propline/estatedesk/internal/domain"
)

// Predicate selects records for CountWhere.
type Predicate func(domain.Record) bool

// Count returns the number of records.
func Count(records []domain.Record) int {
	return len(records)
}

// CountWhere returns the number of records matching pred.
func CountWhere(records []domain.Record, pred Predicate) int {
	count := 0
	for _, record := range records {
		if pred(record) {
			count++
		}
	}
	return count
}

// Sum totals the set numeric values of field. Unset values contribute
// nothing; they are not zeros.
func Sum(records []domain.Record, field string) float64 {
	total := 0.0
	for _, record := range records {
		if value, ok := record.Number(field); ok {
			total += value
		}
	}
	return total
}

// Mean averages the set numeric values of field. It returns 0 when no
// record has the field set.
func Mean(records []domain.Record, field string) float64 {
	total := 0.0
	count := 0
	for _, record := range records {
		if value, ok := record.Number(field); ok {
			total += value
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// GroupCount maps each distinct value of field to its occurrence count.
// Records without the field set are grouped under "Unknown".
func GroupCount(records []domain.Record, field string) map[string]int {
	groups := make(map[string]int)
	for _, record := range records {
		key := record.String(field)
		if key == "" {
			key = "Unknown"
		}
		groups[key]++
	}
	return groups
}

// ClientSummary holds the lead-pipeline statistics shown on dashboards.
type ClientSummary struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	TotalValue float64        `json:"total_value"`
	ByStage    map[string]int `json:"by_stage"`
	BySource   map[string]int `json:"by_source"`
}

// SummarizeClients aggregates a client record set.
func SummarizeClients(records []domain.Record) ClientSummary {
	summary := ClientSummary{
		Total:      Count(records),
		TotalValue: Sum(records, "value"),
		ByStage:    GroupCount(records, "conversion_stage"),
		BySource:   GroupCount(records, "source"),
	}
	summary.Active = CountWhere(records, func(r domain.Record) bool {
		return r.String("status") == "Active"
	})
	if summary.Total == 0 {
		summary.ByStage = map[string]int{}
		summary.BySource = map[string]int{}
	}
	return summary
}

// InventorySummary holds the property-portfolio statistics.
type InventorySummary struct {
	TotalUnits     int     `json:"total_units"`
	AvailableUnits int     `json:"available_units"`
	SoldUnits      int     `json:"sold_units"`
	TotalValue     float64 `json:"total_value"`
	AvgPrice       float64 `json:"avg_price"`
}

// SummarizeInventory aggregates a property record set. Availability is
// judged by case-insensitive substring match on status, mirroring the
// loose status vocabulary found in the sheets.
func SummarizeInventory(records []domain.Record) InventorySummary {
	summary := InventorySummary{
		TotalUnits: Count(records),
		TotalValue: Sum(records, "price_total"),
		AvgPrice:   Mean(records, "price_total"),
	}
	summary.AvailableUnits = CountWhere(records, func(r domain.Record) bool {
		return statusContains(r, "available")
	})
	summary.SoldUnits = CountWhere(records, func(r domain.Record) bool {
		return statusContains(r, "sold") || statusContains(r, "rented")
	})
	return summary
}

func statusContains(record domain.Record, needle string) bool {
	return strings.Contains(strings.ToLower(record.String("status")), needle)
}
