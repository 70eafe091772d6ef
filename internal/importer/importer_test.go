package importer

import (
	"errors"
	"testing"

	"github.com/propline/estatedesk/internal/domain"
)

func TestImportCSV(t *testing.T) {
	data := []byte("property_id,property_type,price\nU-1,apartment,250000\nU-2,villa,900000\n")

	summary, err := Import("upload.csv", data, domain.DatasetProperties)
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if summary.TotalRows != 2 {
		t.Fatalf("expected 2 rows, got %d", summary.TotalRows)
	}
	if summary.Records[0].String("unit_id") != "U-1" {
		t.Fatalf("expected alias mapping applied, got %v", summary.Records[0])
	}
	if price, ok := summary.Records[1].Number("price_total"); !ok || price != 900000 {
		t.Fatalf("expected numeric coercion, got %v", summary.Records[1])
	}
}

func TestImportCSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,phone\nJane,555\n")...)

	summary, err := Import("leads.csv", data, domain.DatasetClients)
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if summary.Records[0].String("name") != "Jane" {
		t.Fatalf("BOM not stripped from header row: %v", summary.Columns)
	}
}

func TestImportRejectsUnsupportedFormat(t *testing.T) {
	_, err := Import("data.pdf", []byte("x"), domain.DatasetProperties)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportRejectsEmptyPayload(t *testing.T) {
	if _, err := Import("data.csv", nil, domain.DatasetProperties); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestImportEmptyTable(t *testing.T) {
	_, err := Import("data.csv", []byte("name,phone\n"), domain.DatasetClients)
	if !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult for header-only file, got %v", err)
	}
}
