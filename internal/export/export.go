// Package export serializes the filtered record subset to CSV, JSON and
// xlsx. The exported table is the original columns in sheet order plus the
// derived deadline columns, so a saved file carries the same information
// the dashboard shows.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/midiaops/painel/internal/errors"
	"github.com/midiaops/painel/internal/logging"
	"github.com/midiaops/painel/internal/pipeline"
)

// Derived column headers appended after the original columns.
const (
	headerState    = "Situação do Prazo"
	headerSeverity = "Severidade"
	headerBucket   = "Faixa de Prazo"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{"csv", "json", "xlsx"}
}

// Exporter writes record subsets in the supported formats.
type Exporter struct {
	classifier *pipeline.Classifier
	log        *logging.Logger
}

// NewExporter creates an exporter. The classifier supplies bucket labels
// for the derived band column.
func NewExporter(classifier *pipeline.Classifier, log *logging.Logger) *Exporter {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Exporter{
		classifier: classifier,
		log:        log.WithComponent("export"),
	}
}

// headers returns the output column set: the sheet's columns in original
// order, empty header cells skipped, plus the derived columns.
func (e *Exporter) headers(table *pipeline.Table) []string {
	out := make([]string, 0, len(table.Headers)+3)
	for _, h := range table.Headers {
		if h != "" {
			out = append(out, h)
		}
	}
	return append(out, headerState, headerSeverity, headerBucket)
}

// rowValues flattens one record into the output column order.
func (e *Exporter) rowValues(headers []string, rec *pipeline.Record) []string {
	values := make([]string, len(headers))
	for i, h := range headers[:len(headers)-3] {
		values[i] = rec.Field(h)
	}
	values[len(headers)-3] = rec.State.String()
	values[len(headers)-2] = rec.Severity.String()
	values[len(headers)-1] = e.classifier.BucketLabel(rec.Bucket)
	return values
}

// Write serializes records in the named format.
func (e *Exporter) Write(w io.Writer, format string, table *pipeline.Table, records []pipeline.Record) error {
	switch format {
	case "csv":
		return e.WriteCSV(w, table, records)
	case "json":
		return e.WriteJSON(w, table, records)
	case "xlsx":
		return e.WriteXLSX(w, table, records)
	default:
		return errors.NewExportError("unsupported export format", errors.ErrInvalidInput).
			WithFormat(format)
	}
}

// WriteCSV writes a header row followed by one row per record.
func (e *Exporter) WriteCSV(w io.Writer, table *pipeline.Table, records []pipeline.Record) error {
	headers := e.headers(table)
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return errors.NewExportError("write csv header", err).WithFormat("csv")
	}
	for i := range records {
		if err := cw.Write(e.rowValues(headers, &records[i])); err != nil {
			return errors.NewExportError("write csv row", err).WithFormat("csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewExportError("flush csv", err).WithFormat("csv")
	}
	return nil
}

// WriteJSON writes a record-oriented JSON array: one object per record
// keyed by column header.
func (e *Exporter) WriteJSON(w io.Writer, table *pipeline.Table, records []pipeline.Record) error {
	headers := e.headers(table)

	out := make([]map[string]string, 0, len(records))
	for i := range records {
		values := e.rowValues(headers, &records[i])
		obj := make(map[string]string, len(headers))
		for j, h := range headers {
			obj[h] = values[j]
		}
		out = append(out, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.NewExportError("encode json", err).WithFormat("json")
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook.
func (e *Exporter) WriteXLSX(w io.Writer, table *pipeline.Table, records []pipeline.Record) error {
	headers := e.headers(table)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := table.Sheet
	if sheet == "" {
		sheet = "Demandas"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.NewExportError("name sheet", err).WithFormat("xlsx")
	}

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, headers); err != nil {
		return errors.NewExportError("write xlsx header", err).WithFormat("xlsx")
	}
	for i := range records {
		if err := writeRow(i+2, e.rowValues(headers, &records[i])); err != nil {
			return errors.NewExportError("write xlsx row", err).WithFormat("xlsx")
		}
	}

	if err := f.Write(w); err != nil {
		return errors.NewExportError("write xlsx workbook", err).WithFormat("xlsx")
	}
	return nil
}

// ExportFile writes records to a timestamped file under dir and returns
// the path.
func (e *Exporter) ExportFile(dir, format string, table *pipeline.Table, records []pipeline.Record) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewExportError("create export directory", err).WithPath(dir)
	}

	name := fmt.Sprintf("painel-%s.%s", time.Now().Format("20060102-150405"), format)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewExportError("create export file", err).WithFormat(format).WithPath(path)
	}
	defer func() { _ = f.Close() }()

	if err := e.Write(f, format, table, records); err != nil {
		return "", err
	}

	e.log.Info("export written", "path", path, "format", format, "rows", len(records))
	return path, nil
}
