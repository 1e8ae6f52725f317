package report

import (
	"strings"
	"time"

	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/pipeline"
)

// FilterState holds the active predicates. The zero-value-plus-defaults
// state (from NewFilterState) passes every record. Predicates combine with
// logical AND.
type FilterState struct {
	// Selected maps a column header to its selected value set. A column
	// with no entry is unfiltered ("all values"). An entry with an empty
	// set selects nothing, which is a valid state distinct from "all".
	Selected map[string]map[string]bool

	// DeadlineMin and DeadlineMax bound the numeric deadline range when
	// set. Records with no numeric deadline always pass the range: an
	// unknown deadline is never grounds for exclusion.
	DeadlineMin *int
	DeadlineMax *int
	// IncludeClosed controls whether closed-marker records pass an active
	// numeric range even though they carry no numeric value. Default true.
	IncludeClosed bool

	// Query is a free-text needle matched case-insensitively against every
	// column of a record.
	Query string

	// DateFrom and DateTo bound the submission date, inclusive. Unlike the
	// numeric range, records without a parseable date are excluded while a
	// date range is active, since the range gates the reporting period.
	DateFrom *time.Time
	DateTo   *time.Time
}

// NewFilterState creates the identity filter: nothing selected away, no
// ranges, no query.
func NewFilterState() *FilterState {
	return &FilterState{
		Selected:      make(map[string]map[string]bool),
		IncludeClosed: true,
	}
}

// Select replaces the selected set for a column. Passing an empty values
// slice selects nothing; use Clear to remove the filter entirely.
func (f *FilterState) Select(column string, values ...string) {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	f.Selected[column] = set
}

// Clear removes the categorical filter on a column, restoring "all values".
func (f *FilterState) Clear(column string) {
	delete(f.Selected, column)
}

// SetDeadlineRange bounds the numeric deadline filter.
func (f *FilterState) SetDeadlineRange(lo, hi int) {
	f.DeadlineMin = &lo
	f.DeadlineMax = &hi
}

// ClearDeadlineRange removes the numeric deadline filter.
func (f *FilterState) ClearDeadlineRange() {
	f.DeadlineMin = nil
	f.DeadlineMax = nil
}

// SetDateRange bounds the submission date filter, inclusive on both ends.
func (f *FilterState) SetDateRange(from, to time.Time) {
	f.DateFrom = &from
	f.DateTo = &to
}

// Reset restores the identity filter.
func (f *FilterState) Reset() {
	f.Selected = make(map[string]map[string]bool)
	f.DeadlineMin = nil
	f.DeadlineMax = nil
	f.IncludeClosed = true
	f.Query = ""
	f.DateFrom = nil
	f.DateTo = nil
}

// Engine applies a FilterState to the canonical table. It needs the column
// configuration to locate the deadline and submission date columns.
type Engine struct {
	cols config.ColumnConfig
}

// NewEngine creates a filter engine for the configured column names.
func NewEngine(cols config.ColumnConfig) *Engine {
	return &Engine{cols: cols}
}

// Apply returns the records passing every active predicate, preserving
// table order. The table itself is never modified. A predicate whose
// column does not exist in the dataset is a no-op, never an error.
func (e *Engine) Apply(table *pipeline.Table, state *FilterState) []pipeline.Record {
	if state == nil {
		out := make([]pipeline.Record, len(table.Records))
		copy(out, table.Records)
		return out
	}

	query := strings.ToLower(strings.TrimSpace(state.Query))

	out := make([]pipeline.Record, 0, len(table.Records))
	for i := range table.Records {
		rec := &table.Records[i]
		if !e.passCategorical(table, rec, state) {
			continue
		}
		if !e.passDeadlineRange(table, rec, state) {
			continue
		}
		if !passQuery(rec, query) {
			continue
		}
		if !e.passDateRange(table, rec, state) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func (e *Engine) passCategorical(table *pipeline.Table, rec *pipeline.Record, state *FilterState) bool {
	for column, set := range state.Selected {
		if !table.HasColumn(column) {
			continue
		}
		if !set[rec.Field(column)] {
			return false
		}
	}
	return true
}

func (e *Engine) passDeadlineRange(table *pipeline.Table, rec *pipeline.Record, state *FilterState) bool {
	if state.DeadlineMin == nil && state.DeadlineMax == nil {
		return true
	}
	if !table.HasColumn(e.cols.Deadline) {
		return true
	}
	if rec.ClosedMarker {
		return state.IncludeClosed
	}
	if !rec.HasDeadline {
		return true
	}
	if state.DeadlineMin != nil && rec.DeadlineDays < *state.DeadlineMin {
		return false
	}
	if state.DeadlineMax != nil && rec.DeadlineDays > *state.DeadlineMax {
		return false
	}
	return true
}

func passQuery(rec *pipeline.Record, query string) bool {
	if query == "" {
		return true
	}
	for _, v := range rec.Fields {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

func (e *Engine) passDateRange(table *pipeline.Table, rec *pipeline.Record, state *FilterState) bool {
	if state.DateFrom == nil && state.DateTo == nil {
		return true
	}
	if !table.HasColumn(e.cols.Submitted) {
		return true
	}
	if !rec.HasSubmitted {
		return false
	}
	if state.DateFrom != nil && rec.Submitted.Before(*state.DateFrom) {
		return false
	}
	if state.DateTo != nil && rec.Submitted.After(*state.DateTo) {
		return false
	}
	return true
}
