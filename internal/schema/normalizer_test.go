package schema

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/propline/estatedesk/internal/domain"
)

func TestNormalizeMapsAliasesToCanonicalFields(t *testing.T) {
	snapshot := domain.TableSnapshot{
		Columns: []string{"property_id", "property_type", " region ", "price"},
		Rows: []map[string]string{
			{"property_id": "U-7", "property_type": "villa", " region ": "North Coast", "price": "950000"},
		},
	}

	records := Normalize(snapshot, domain.DatasetProperties)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.String("unit_id") != "U-7" {
		t.Fatalf("expected property_id to map to unit_id, got %v", record)
	}
	if record.String("unit_type") != "villa" {
		t.Fatalf("expected property_type to map to unit_type, got %v", record)
	}
	if record.String("area") != "North Coast" {
		t.Fatalf("expected trimmed region header to map to area, got %v", record)
	}
	price, ok := record.Number("price_total")
	if !ok || price != 950000 {
		t.Fatalf("expected price to map to numeric price_total, got %v", record)
	}
}

func TestNormalizeFirstAliasWins(t *testing.T) {
	// Both price_total and price are present; price_total is the
	// earlier alias so price stays behind under its own name.
	snapshot := domain.TableSnapshot{
		Columns: []string{"price_total", "price"},
		Rows: []map[string]string{
			{"price_total": "100", "price": "999"},
		},
	}

	records := Normalize(snapshot, domain.DatasetProperties)
	value, ok := records[0].Number("price_total")
	if !ok || value != 100 {
		t.Fatalf("expected price_total column to win, got %v", records[0])
	}
	if records[0].String("price") != "999" {
		t.Fatalf("expected losing alias column preserved verbatim, got %v", records[0])
	}
}

func TestNormalizeCoercesNumericFields(t *testing.T) {
	snapshot := domain.TableSnapshot{
		Columns: []string{"unit_id", "rooms", "price_total"},
		Rows: []map[string]string{
			{"unit_id": "U-1", "rooms": "3", "price_total": "250000.5"},
			{"unit_id": "U-2", "rooms": "studio", "price_total": ""},
		},
	}

	records := Normalize(snapshot, domain.DatasetProperties)

	rooms, ok := records[0].Number("rooms")
	if !ok || rooms != 3 {
		t.Fatalf("expected rooms=3, got %v", records[0])
	}
	if _, ok := records[1].Number("rooms"); ok {
		t.Fatalf("non-numeric rooms value should be unset, got %v", records[1])
	}
	if _, ok := records[1].Number("price_total"); ok {
		t.Fatalf("blank price should be unset, got %v", records[1])
	}
}

func TestNormalizePreservesUnknownColumns(t *testing.T) {
	snapshot := domain.TableSnapshot{
		Columns: []string{"name", "phone", "sea_view"},
		Rows: []map[string]string{
			{"name": "Jane Doe", "phone": "555-1234", "sea_view": "yes"},
		},
	}

	records := Normalize(snapshot, domain.DatasetClients)
	if records[0].String("sea_view") != "yes" {
		t.Fatalf("expected unmapped column preserved, got %v", records[0])
	}
}

func TestNormalizePreservesRowOrderAndIsDeterministic(t *testing.T) {
	snapshot := domain.TableSnapshot{Columns: []string{"name"}}
	for i := 0; i < 20; i++ {
		snapshot.Rows = append(snapshot.Rows, map[string]string{"name": fmt.Sprintf("client-%02d", i)})
	}

	first := Normalize(snapshot, domain.DatasetClients)
	second := Normalize(snapshot, domain.DatasetClients)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize is not deterministic")
	}
	for i, record := range first {
		if record.String("name") != fmt.Sprintf("client-%02d", i) {
			t.Fatalf("row order not preserved at index %d: %v", i, record)
		}
	}
}

func TestNormalizeToleratesMissingColumns(t *testing.T) {
	snapshot := domain.TableSnapshot{
		Columns: []string{"name"},
		Rows:    []map[string]string{{"name": "Solo"}},
	}

	records := Normalize(snapshot, domain.DatasetClients)
	record := records[0]
	if record.String("name") != "Solo" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, present := record["phone"]; present {
		t.Fatalf("absent source column should leave canonical field unset")
	}
}

func TestNumericFieldsFor(t *testing.T) {
	got := NumericFieldsFor(domain.DatasetProperties)
	want := []string{"price_total", "area_sqm", "rooms", "bathrooms", "floor_number"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected numeric fields: %v", got)
	}
}
