// Package sheets retrieves tabular snapshots from shared Google Sheets.
// A sheet is addressed by any URL carrying its document ID; the fetcher
// downloads the xlsx export of the first worksheet.
package sheets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/propline/estatedesk/internal/domain"

	"github.com/xuri/excelize/v2"
)

var sheetIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
}

const defaultExportBase = "https://docs.google.com/spreadsheets/d"

// Fetcher downloads and parses remote sheet snapshots. It is stateless
// and safe for concurrent use; memoization lives in the cache layer.
type Fetcher struct {
	client     *http.Client
	exportBase string
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithExportBase overrides the export endpoint base, used by tests to
// point at a local server.
func WithExportBase(base string) Option {
	return func(f *Fetcher) {
		if strings.TrimSpace(base) != "" {
			f.exportBase = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient overrides the transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// New creates a fetcher whose requests time out after the given duration.
func New(timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: timeout},
		exportBase: defaultExportBase,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ExtractSheetID pulls the document ID out of a sheet URL. Both the
// /spreadsheets/d/<id> path shape and the id=<id> query shape are
// accepted.
func ExtractSheetID(rawURL string) (string, bool) {
	for _, pattern := range sheetIDPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// Fetch downloads the sheet behind rawURL and returns its first
// worksheet as a snapshot. All failures map onto the typed fetch
// errors; no error escapes this boundary untyped.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.TableSnapshot, error) {
	id, ok := ExtractSheetID(rawURL)
	if !ok {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %q", domain.ErrInvalidLocation, rawURL)
	}

	exportURL := fmt.Sprintf("%s/%s/export?format=xlsx", f.exportBase, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidLocation, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.TableSnapshot{}, fmt.Errorf("%w: status %d", domain.ErrUnreachable, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}

	return ParseWorkbook(payload)
}

// ParseWorkbook reads the first worksheet of an xlsx payload into a
// snapshot. The first non-empty row is the header; blank data rows are
// skipped; short rows are padded so every row carries the full column
// set. Zero data rows is a failure so fallback logic activates.
func ParseWorkbook(payload []byte) (domain.TableSnapshot, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	defer func() { _ = workbook.Close() }()

	names := workbook.GetSheetList()
	if len(names) == 0 {
		return domain.TableSnapshot{}, fmt.Errorf("%w: workbook has no sheets", domain.ErrParseFailure)
	}

	rows, err := workbook.GetRows(names[0])
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}

	return SnapshotFromRows(rows)
}

// SnapshotFromRows converts raw cell rows into a snapshot.
func SnapshotFromRows(rows [][]string) (domain.TableSnapshot, error) {
	var headerRow []string
	var dataRows [][]string
	for _, row := range rows {
		if rowIsEmpty(row) {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}

	if headerRow == nil || len(dataRows) == 0 {
		return domain.TableSnapshot{}, domain.ErrEmptyResult
	}

	columns := headerNames(headerRow)
	snapshot := domain.TableSnapshot{
		Columns: columns,
		Rows:    make([]map[string]string, 0, len(dataRows)),
	}
	for _, row := range dataRows {
		cells := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(row) {
				cells[column] = row[i]
			} else {
				cells[column] = ""
			}
		}
		snapshot.Rows = append(snapshot.Rows, cells)
	}
	return snapshot, nil
}

// headerNames trims header cells and guarantees a unique, non-empty
// name per column.
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int)
	for i, cell := range raw {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		if count := seen[base]; count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base]++
		names[i] = name
	}
	return names
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
