package metrics

import (
	"testing"

	"github.com/propline/estatedesk/internal/domain"
)

func TestSumAndMeanExcludeUnsetValues(t *testing.T) {
	records := []domain.Record{
		{"price_total": 100.0},
		{"price_total": 300.0},
		{"unit_id": "no-price"},
	}

	if got := Sum(records, "price_total"); got != 400 {
		t.Fatalf("expected sum 400, got %v", got)
	}
	// Mean over the two set values, not three.
	if got := Mean(records, "price_total"); got != 200 {
		t.Fatalf("expected mean 200, got %v", got)
	}
}

func TestAggregatesOverEmptyInput(t *testing.T) {
	var records []domain.Record

	if Count(records) != 0 {
		t.Fatalf("count over empty input should be 0")
	}
	if Sum(records, "value") != 0 {
		t.Fatalf("sum over empty input should be 0")
	}
	if Mean(records, "value") != 0 {
		t.Fatalf("mean over empty input should be 0")
	}
	if groups := GroupCount(records, "status"); len(groups) != 0 {
		t.Fatalf("group count over empty input should be empty, got %v", groups)
	}
}

func TestGroupCount(t *testing.T) {
	records := []domain.Record{
		{"source": "Website"},
		{"source": "Website"},
		{"source": "Referral"},
		{},
	}

	groups := GroupCount(records, "source")
	if groups["Website"] != 2 || groups["Referral"] != 1 || groups["Unknown"] != 1 {
		t.Fatalf("unexpected groups: %v", groups)
	}
}

func TestCountWhere(t *testing.T) {
	records := []domain.Record{
		{"status": "Active"},
		{"status": "Inactive"},
		{"status": "Active"},
	}
	got := CountWhere(records, func(r domain.Record) bool { return r.String("status") == "Active" })
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSummarizeClients(t *testing.T) {
	records := []domain.Record{
		{"status": "Active", "value": 5000.0, "conversion_stage": "Lead", "source": "Website"},
		{"status": "Closed", "value": 12000.0, "conversion_stage": "Negotiation", "source": "Website"},
		{"status": "Active", "conversion_stage": "Lead", "source": "Referral"},
	}

	summary := SummarizeClients(records)
	if summary.Total != 3 || summary.Active != 2 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.TotalValue != 17000 {
		t.Fatalf("expected total value 17000, got %v", summary.TotalValue)
	}
	if summary.ByStage["Lead"] != 2 || summary.BySource["Website"] != 2 {
		t.Fatalf("unexpected groupings: %+v", summary)
	}
}

func TestSummarizeInventory(t *testing.T) {
	records := []domain.Record{
		{"status": "Available", "price_total": 100000.0},
		{"status": "SOLD", "price_total": 200000.0},
		{"status": "Rented out"},
	}

	summary := SummarizeInventory(records)
	if summary.TotalUnits != 3 {
		t.Fatalf("expected 3 units, got %d", summary.TotalUnits)
	}
	if summary.AvailableUnits != 1 {
		t.Fatalf("expected 1 available, got %d", summary.AvailableUnits)
	}
	if summary.SoldUnits != 2 {
		t.Fatalf("expected 2 sold/rented, got %d", summary.SoldUnits)
	}
	if summary.TotalValue != 300000 || summary.AvgPrice != 150000 {
		t.Fatalf("unexpected value stats: %+v", summary)
	}
}

func TestSummariesOverEmptyInput(t *testing.T) {
	clients := SummarizeClients(nil)
	if clients.Total != 0 || clients.TotalValue != 0 || len(clients.ByStage) != 0 {
		t.Fatalf("unexpected empty client summary: %+v", clients)
	}
	inventory := SummarizeInventory(nil)
	if inventory.TotalUnits != 0 || inventory.AvgPrice != 0 {
		t.Fatalf("unexpected empty inventory summary: %+v", inventory)
	}
}
