// Package pipeline turns raw workbook rows into the canonical in-memory
// table: trimmed identity columns, a normalized deadline value, and the
// derived state, severity and bucket fields the views are built on. One
// Build pass is a pure function of the raw table plus configuration; the
// resulting Table is never mutated afterwards.
package pipeline

import (
	"fmt"
	"time"
)

// DeadlineState is the coarse open/closed classification of a record.
type DeadlineState int

const (
	// StateOpen means the job still has time on the clock.
	StateOpen DeadlineState = iota
	// StateClosed means the deadline carried the closed marker or the
	// remaining days are zero or negative.
	StateClosed
)

// String returns the display label for the state.
func (s DeadlineState) String() string {
	if s == StateClosed {
		return "Encerrado"
	}
	return "Aberto"
}

// Severity is the urgency tier driving visual emphasis.
type Severity int

const (
	// SeverityOnTrack means the deadline is far off or absent.
	SeverityOnTrack Severity = iota
	// SeverityWarning means the deadline is inside the warning window.
	SeverityWarning
	// SeverityOverdue means the job is closed or past due.
	SeverityOverdue
)

// String returns the display label for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Atenção"
	case SeverityOverdue:
		return "Atrasada"
	default:
		return "No prazo"
	}
}

// Bucket is the finer-grained deadline band used for bucketed filtering
// and the legend.
type Bucket int

const (
	// BucketClosed covers closed-marker rows and days <= 0.
	BucketClosed Bucket = iota
	// BucketNear covers 1 up to the warning threshold.
	BucketNear
	// BucketMid covers the warning threshold up to the mid threshold.
	BucketMid
	// BucketFar covers everything beyond the mid threshold, including
	// rows with no numeric deadline at all.
	BucketFar
)

// Label returns the legend text for the bucket given the configured
// thresholds.
func (b Bucket) Label(warningDays, midDays int) string {
	switch b {
	case BucketClosed:
		return "Encerrado"
	case BucketNear:
		return labelRange(1, warningDays)
	case BucketMid:
		return labelRange(warningDays+1, midDays)
	default:
		return labelBeyond(midDays)
	}
}

func labelRange(lo, hi int) string {
	return fmt.Sprintf("%d a %d dias", lo, hi)
}

func labelBeyond(n int) string {
	return fmt.Sprintf("Mais de %d dias", n)
}

// Record is one row of the canonical table with its derived fields.
type Record struct {
	// Campaign and Status are required; rows missing either never make it
	// into the table.
	Campaign string
	Status   string

	Priority   string
	Production string
	Requester  string

	// Submitted is the parsed submission date; HasSubmitted reports whether
	// the raw cell parsed at all.
	Submitted    time.Time
	HasSubmitted bool

	// DeadlineRaw is the original deadline cell, untouched.
	DeadlineRaw string
	// DeadlineDays is the normalized days-remaining value, floored to a
	// whole day. Only meaningful when HasDeadline is true.
	DeadlineDays int
	HasDeadline  bool
	// ClosedMarker reports whether the raw text contained the closed
	// marker, regardless of any numeric content.
	ClosedMarker bool

	State    DeadlineState
	Severity Severity
	Bucket   Bucket

	// Fields holds every original column by header name, identity columns
	// included, so filters and exports can address columns the pipeline
	// itself does not interpret.
	Fields map[string]string
}

// Field returns the original cell under the given header, or "" when the
// dataset has no such column.
func (r *Record) Field(header string) string {
	return r.Fields[header]
}

// Table is the canonical record set produced by one Build pass.
type Table struct {
	Records []Record
	// Headers preserves the original column order of the source sheet.
	Headers []string
	// Sheet is the workbook sheet the rows came from.
	Sheet string
	// Warnings carries recovered source problems for display.
	Warnings []string
	// Dropped counts rows discarded for a missing campaign or status.
	Dropped int
	// BuiltAt stamps when this pass ran.
	BuiltAt time.Time
}

// Distinct returns the distinct non-empty values of the given column in
// first-seen order. Used to seed categorical filters with every value
// pre-selected.
func (t *Table) Distinct(header string) []string {
	seen := make(map[string]bool)
	var values []string
	for i := range t.Records {
		v := t.Records[i].Field(header)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// OverdueCount returns the number of overdue records in the table.
func (t *Table) OverdueCount() int {
	n := 0
	for i := range t.Records {
		if t.Records[i].Severity == SeverityOverdue {
			n++
		}
	}
	return n
}

// HasColumn reports whether the source sheet had the named column.
func (t *Table) HasColumn(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}
