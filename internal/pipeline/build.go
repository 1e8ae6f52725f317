package pipeline

import (
	"strings"
	"time"

	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/logging"
	"github.com/midiaops/painel/internal/source"
)

// dateLayouts are the submission date formats accepted, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	time.RFC3339,
}

// ParseDate parses a submission date cell. It reports ok=false for empty
// cells and anything no layout accepts.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Builder runs one normalization and classification pass over a raw table.
type Builder struct {
	cols       config.ColumnConfig
	classifier *Classifier
	log        *logging.Logger
}

// NewBuilder creates a builder for the configured column names and
// classification thresholds.
func NewBuilder(cols config.ColumnConfig, classify config.ClassifyConfig, log *logging.Logger) *Builder {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Builder{
		cols:       cols,
		classifier: NewClassifier(classify),
		log:        log.WithComponent("pipeline"),
	}
}

// Classifier exposes the builder's classifier for legend rendering.
func (b *Builder) Classifier() *Classifier {
	return b.classifier
}

// Build turns raw rows into the canonical table. Rows missing the campaign
// or status cell are dropped; every other column passes through untouched.
// Only the deadline column is coerced.
func (b *Builder) Build(raw *source.RawTable) *Table {
	table := &Table{
		Headers:  raw.Headers,
		Sheet:    raw.Sheet,
		Warnings: raw.Warnings,
		BuiltAt:  time.Now(),
	}

	campaignIdx := raw.ColumnIndex(b.cols.Campaign)
	statusIdx := raw.ColumnIndex(b.cols.Status)
	deadlineIdx := raw.ColumnIndex(b.cols.Deadline)
	priorityIdx := raw.ColumnIndex(b.cols.Priority)
	productionIdx := raw.ColumnIndex(b.cols.Production)
	requesterIdx := raw.ColumnIndex(b.cols.Requester)
	submittedIdx := raw.ColumnIndex(b.cols.Submitted)

	table.Records = make([]Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		campaign := strings.TrimSpace(raw.Cell(row, campaignIdx))
		status := strings.TrimSpace(raw.Cell(row, statusIdx))
		if campaign == "" || status == "" {
			table.Dropped++
			continue
		}

		rec := Record{
			Campaign:   campaign,
			Status:     status,
			Priority:   strings.TrimSpace(raw.Cell(row, priorityIdx)),
			Production: strings.TrimSpace(raw.Cell(row, productionIdx)),
			Requester:  strings.TrimSpace(raw.Cell(row, requesterIdx)),
			Fields:     make(map[string]string, len(raw.Headers)),
		}

		for i, header := range raw.Headers {
			if header == "" {
				continue
			}
			rec.Fields[header] = strings.TrimSpace(raw.Cell(row, i))
		}
		// Trimmed identity values win over the raw cells.
		rec.Fields[b.cols.Campaign] = campaign
		rec.Fields[b.cols.Status] = status

		rec.DeadlineRaw = raw.Cell(row, deadlineIdx)
		days, present, marker := b.classifier.Normalize(rec.DeadlineRaw)
		rec.DeadlineDays = days
		rec.HasDeadline = present
		rec.ClosedMarker = marker
		rec.State, rec.Severity = b.classifier.Classify(marker, days, present)
		rec.Bucket = b.classifier.BucketOf(marker, days, present)

		if submittedIdx >= 0 {
			rec.Submitted, rec.HasSubmitted = ParseDate(raw.Cell(row, submittedIdx))
		}

		table.Records = append(table.Records, rec)
	}

	if table.Dropped > 0 {
		b.log.Warn("dropped rows missing campaign or status", "dropped", table.Dropped)
	}
	b.log.Debug("canonical table built",
		"rows", len(table.Records),
		"dropped", table.Dropped,
		"overdue", table.OverdueCount(),
		"sheet", table.Sheet)

	return table
}
