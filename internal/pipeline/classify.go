package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/midiaops/painel/internal/config"
)

// Classifier derives deadline state, severity and bucket from the raw
// deadline cell. All methods are pure functions of their inputs plus the
// configured thresholds.
type Classifier struct {
	marker      string
	warningDays int
	midDays     int
}

// NewClassifier creates a classifier with the given thresholds. Zero or
// negative thresholds fall back to the defaults.
func NewClassifier(cfg config.ClassifyConfig) *Classifier {
	defaults := config.Default().Classify
	if cfg.WarningDays <= 0 {
		cfg.WarningDays = defaults.WarningDays
	}
	if cfg.BucketMidDays <= cfg.WarningDays {
		cfg.BucketMidDays = defaults.BucketMidDays
	}
	if cfg.ClosedMarker == "" {
		cfg.ClosedMarker = defaults.ClosedMarker
	}
	return &Classifier{
		marker:      strings.ToLower(cfg.ClosedMarker),
		warningDays: cfg.WarningDays,
		midDays:     cfg.BucketMidDays,
	}
}

// HasMarker reports whether raw contains the closed marker, matched as a
// case-insensitive substring so "Prazo Encerrado" and "ENCERRADO" both hit.
func (c *Classifier) HasMarker(raw string) bool {
	return strings.Contains(strings.ToLower(raw), c.marker)
}

// Normalize resolves the raw deadline cell into (days, present, marker).
// The marker wins over any numeric content. Empty cells, the literal "nan"
// and free text that fails a numeric parse all resolve to absent rather
// than an error. Fractional values are floored to whole days.
func (c *Classifier) Normalize(raw string) (days int, present bool, marker bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false, false
	}
	if c.HasMarker(trimmed) {
		return 0, false, true
	}
	if strings.EqualFold(trimmed, "nan") {
		return 0, false, false
	}

	// Workbook cells sometimes carry a decimal comma.
	numeric := strings.ReplaceAll(trimmed, ",", ".")
	f, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, false, false
	}
	return int(math.Floor(f)), true, false
}

// Classify maps the normalized deadline tuple to (state, severity). The
// function is total: every input combination yields exactly one pair, and
// Overdue always implies Closed.
func (c *Classifier) Classify(marker bool, days int, present bool) (DeadlineState, Severity) {
	switch {
	case marker:
		return StateClosed, SeverityOverdue
	case present && days <= 0:
		return StateClosed, SeverityOverdue
	case present && days <= c.warningDays:
		return StateOpen, SeverityWarning
	default:
		// Beyond the warning window, or no numeric deadline at all. The
		// absence of a deadline is not treated as urgency.
		return StateOpen, SeverityOnTrack
	}
}

// BucketOf maps the same normalized tuple to the finer legend band.
func (c *Classifier) BucketOf(marker bool, days int, present bool) Bucket {
	switch {
	case marker:
		return BucketClosed
	case present && days <= 0:
		return BucketClosed
	case present && days <= c.warningDays:
		return BucketNear
	case present && days <= c.midDays:
		return BucketMid
	default:
		return BucketFar
	}
}

// Buckets returns the legend entries in display order.
func (c *Classifier) Buckets() []Bucket {
	return []Bucket{BucketClosed, BucketNear, BucketMid, BucketFar}
}

// BucketLabel returns the legend text for b under this classifier's
// thresholds.
func (c *Classifier) BucketLabel(b Bucket) string {
	return b.Label(c.warningDays, c.midDays)
}
