// Package source obtains the unprocessed job table as rows with named
// columns. Two interchangeable strategies are provided: FileSource reads a
// local workbook, GraphSource downloads one from the remote document store
// with a bearer token. CachedSource adds a time-boxed staleness window in
// front of either.
package source

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/midiaops/painel/internal/errors"
)

// RawTable is the unprocessed tabular data of one workbook sheet.
// The first workbook row becomes Headers; every data row is padded or
// truncated to the header width so positional access is always safe.
type RawTable struct {
	// Headers are the trimmed column names from the first row.
	Headers []string
	// Rows holds the data rows, each exactly len(Headers) cells wide.
	Rows [][]string
	// Sheet is the name of the sheet actually read.
	Sheet string
	// Warnings holds recovered problems (e.g. named-sheet fallback) that the
	// caller should surface without failing the fetch.
	Warnings []string
}

// ColumnIndex returns the position of the named header, or -1 if the
// dataset has no such column.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column index), or "" when the index is -1.
func (t *RawTable) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Source obtains the raw table. Fetch blocks on I/O and honors ctx
// cancellation; it never mutates shared state.
type Source interface {
	Fetch(ctx context.Context) (*RawTable, error)
}

// DecodeWorkbook parses workbook bytes into a RawTable, reading the named
// sheet. When the named sheet is absent the first sheet is read instead and
// a warning is recorded on the table: showing something beats showing
// nothing. An empty sheet name always selects the first sheet.
func DecodeWorkbook(r io.Reader, sheet string) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewSourceError("workbook is not readable", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewSourceError("workbook has no sheets", errors.ErrWorkbookEmpty)
	}

	selected := sheets[0]
	var warnings []string
	if sheet != "" {
		found := false
		for _, s := range sheets {
			if s == sheet {
				selected = s
				found = true
				break
			}
		}
		if !found {
			warnings = append(warnings,
				errors.NewSourceError("named sheet missing, reading first sheet instead", errors.ErrSheetNotFound).
					WithSheet(sheet).
					WithSeverity(errors.SeverityWarning).
					Error())
		}
	}

	rows, err := f.GetRows(selected)
	if err != nil {
		return nil, errors.NewSourceError("failed to read sheet rows", err).WithSheet(selected)
	}
	if len(rows) == 0 {
		return &RawTable{Sheet: selected, Warnings: warnings}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, len(headers))
		copy(padded, row)
		data = append(data, padded)
	}

	return &RawTable{
		Headers:  headers,
		Rows:     data,
		Sheet:    selected,
		Warnings: warnings,
	}, nil
}

// decodeBytes is a convenience wrapper over DecodeWorkbook.
func decodeBytes(b []byte, sheet string) (*RawTable, error) {
	return DecodeWorkbook(bytes.NewReader(b), sheet)
}
