// Package importer turns uploaded CSV or XLSX files into normalized
// dataset records for the data-entry flow.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/schema"
	"github.com/propline/estatedesk/internal/sheets"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Summary describes an import: the source columns seen and the
// normalized records produced.
type Summary struct {
	TotalRows int             `json:"totalRows"`
	Columns   []string        `json:"columns"`
	Records   []domain.Record `json:"records"`
}

// Import parses payload according to the file extension and normalizes
// it against the dataset's canonical schema.
func Import(fileName string, payload []byte, dt domain.DatasetType) (Summary, error) {
	if len(payload) == 0 {
		return Summary{}, errors.New("file is empty")
	}

	var snapshot domain.TableSnapshot
	var err error
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		snapshot, err = parseCSV(payload)
	case ".xlsx":
		snapshot, err = sheets.ParseWorkbook(payload)
	default:
		return Summary{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Summary{}, err
	}

	records := schema.Normalize(snapshot, dt)
	return Summary{
		TotalRows: len(records),
		Columns:   snapshot.Columns,
		Records:   records,
	}, nil
}

func parseCSV(payload []byte) (domain.TableSnapshot, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}

	return sheets.SnapshotFromRows(rows)
}
