// Package export renders record sets as downloadable xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/schema"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Workbook writes records to a single-sheet xlsx workbook. Canonical
// fields come first in schema order; any extra fields follow
// alphabetically so output is deterministic.
func Workbook(records []domain.Record, dt domain.DatasetType) ([]byte, error) {
	columns := columnOrder(records, dt)

	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()
	sheet := workbook.GetSheetName(0)

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for rowIdx, record := range records {
		cells := make([]any, len(columns))
		for i, column := range columns {
			if value, ok := record.Number(column); ok {
				cells[i] = value
				continue
			}
			cells[i] = record.String(column)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", rowIdx+2, err)
		}
		if err := workbook.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName builds a download name like clients_20260301_1a2b3c4d.xlsx.
func FileName(dt domain.DatasetType, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", dt, now.Format("20060102"), uuid.NewString()[:8])
}

func columnOrder(records []domain.Record, dt domain.DatasetType) []string {
	var columns []string
	known := make(map[string]bool)
	for _, spec := range schema.FieldsFor(dt) {
		columns = append(columns, spec.Name)
		known[spec.Name] = true
	}

	extraSet := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			if !known[key] && !extraSet[key] {
				extraSet[key] = true
			}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extras = append(extras, key)
	}
	sort.Strings(extras)
	return append(columns, extras...)
}
