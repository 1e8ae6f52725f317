// Package internal contains integration tests that verify the packages work
// together: workbook decoding through normalization, classification,
// aggregation, filtering and export over one shared session.
package internal

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/dash"
	"github.com/midiaops/painel/internal/export"
	"github.com/midiaops/painel/internal/pipeline"
	"github.com/midiaops/painel/internal/report"
	"github.com/midiaops/painel/internal/source"
)

// writeDemoWorkbook creates an xlsx file with a realistic demand sheet.
func writeDemoWorkbook(t *testing.T, dir string) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Demandas ID"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName error: %v", err)
	}

	rows := [][]interface{}{
		{"Campanha ou Ação", "Status Operacional", "Prazo em dias", "Prioridade", "Solicitante", "Data de Solicitação"},
		{"Lançamento Verão", "Aprovado", "3", "Alta", "Ana", "2026-08-10"},
		{"Lançamento Verão", "Em Produção", "12", "Alta", "Ana", "2026-08-12"},
		{"Black Friday", "Em Produção", "Prazo encerrado", "Alta", "Bruno", "2026-07-01"},
		{"Institucional", "Aprovado", "", "Baixa", "Carla", "2026-08-20"},
		{"", "Aprovado", "5", "Média", "Davi", "2026-08-21"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName error: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow error: %v", err)
		}
	}

	path := filepath.Join(dir, "demandas.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

func newSession(t *testing.T, path string) (*dash.Session, *pipeline.Builder) {
	t.Helper()

	cfg := config.Default()
	src := source.NewFileSource(path, "Demandas ID", nil)
	builder := pipeline.NewBuilder(cfg.Columns, cfg.Classify, nil)
	engine := report.NewEngine(cfg.Columns)
	return dash.NewSession(src, builder, engine, nil), builder
}

// TestWorkbookToSummary drives the whole pipeline from an xlsx on disk to
// the campaign rollup.
func TestWorkbookToSummary(t *testing.T) {
	path := writeDemoWorkbook(t, t.TempDir())
	session, _ := newSession(t, path)

	if err := session.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	table := session.Table()
	if got, want := len(table.Records), 4; got != want {
		t.Fatalf("len(Records) = %d, want %d (row without campaign dropped)", got, want)
	}
	if table.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", table.Dropped)
	}

	summary := session.Summary()
	if got, want := len(summary.Rows), 3; got != want {
		t.Fatalf("summary rows = %d, want %d", got, want)
	}
	// Black Friday is overdue and must lead despite the smaller total.
	if summary.Rows[0].Campaign != "Black Friday" {
		t.Errorf("Rows[0].Campaign = %q, want the overdue campaign first", summary.Rows[0].Campaign)
	}
	if !summary.Rows[0].HasOverdue {
		t.Error("Rows[0].HasOverdue = false, want true")
	}
	if summary.Rows[1].Campaign != "Lançamento Verão" || summary.Rows[1].Total != 2 {
		t.Errorf("Rows[1] = %q/%d, want Lançamento Verão with total 2",
			summary.Rows[1].Campaign, summary.Rows[1].Total)
	}
}

// TestFilterAndExportRoundTrip filters the session view and exports it,
// then reads the CSV back.
func TestFilterAndExportRoundTrip(t *testing.T) {
	path := writeDemoWorkbook(t, t.TempDir())
	session, builder := newSession(t, path)

	if err := session.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	session.Filters().Select("Status Operacional", "Aprovado")
	records := session.Filtered()
	if got, want := len(records), 2; got != want {
		t.Fatalf("Filtered() = %d records, want %d", got, want)
	}

	var buf bytes.Buffer
	exporter := export.NewExporter(builder.Classifier(), nil)
	if err := exporter.WriteCSV(&buf, session.Table(), records); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading export back: %v", err)
	}
	if got, want := len(rows), 3; got != want {
		t.Fatalf("csv rows = %d, want header plus %d records", got, want-1)
	}
	// Derived columns ride along with the original ones.
	header := rows[0]
	if header[len(header)-2] != "Severidade" {
		t.Errorf("penultimate header = %q, want Severidade", header[len(header)-2])
	}
}

// TestLocalEditShowsUpAfterInvalidation overwrites the workbook and checks
// that a cache-invalidated refresh sees the new rows.
func TestLocalEditShowsUpAfterInvalidation(t *testing.T) {
	dir := t.TempDir()
	path := writeDemoWorkbook(t, dir)

	cfg := config.Default()
	cache := source.NewCachedSource(source.NewFileSource(path, "Demandas ID", nil), 0, nil)
	builder := pipeline.NewBuilder(cfg.Columns, cfg.Classify, nil)
	session := dash.NewSession(cache, builder, report.NewEngine(cfg.Columns), nil)

	if err := session.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	before := len(session.Table().Records)

	// Replace the workbook with a single-row sheet.
	f := excelize.NewFile()
	_ = f.SetSheetName("Sheet1", "Demandas ID")
	header := []interface{}{"Campanha ou Ação", "Status Operacional", "Prazo em dias"}
	row := []interface{}{"Campanha Nova", "Aprovado", "9"}
	_ = f.SetSheetRow("Demandas ID", "A1", &header)
	_ = f.SetSheetRow("Demandas ID", "A2", &row)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	_ = f.Close()

	if err := session.Refresh(context.Background(), true); err != nil {
		t.Fatalf("forced Refresh() error: %v", err)
	}
	after := len(session.Table().Records)

	if before == after {
		t.Errorf("record count unchanged (%d) after workbook replacement", after)
	}
	if after != 1 {
		t.Errorf("len(Records) = %d after edit, want 1", after)
	}
}

// TestMissingWorkbookKeepsNothing verifies a hard failure yields no table.
func TestMissingWorkbookKeepsNothing(t *testing.T) {
	session, _ := newSession(t, filepath.Join(t.TempDir(), "nope.xlsx"))

	if err := session.Refresh(context.Background(), false); err == nil {
		t.Fatal("Refresh() on a missing workbook should fail")
	}
	if session.Table() != nil {
		t.Error("no table should be fabricated on a failed first fetch")
	}
	if session.LastError() == nil {
		t.Error("LastError() should report the failure")
	}
}
