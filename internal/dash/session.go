// Package dash holds the dashboard session: the last good canonical table,
// the active filter state and the refresh loop tying source, pipeline and
// report together. A refresh that fails hard keeps the previous table as
// the last good state with an explicit error indicator; partial data is
// never presented as complete.
package dash

import (
	"context"
	"sync"
	"time"

	"github.com/midiaops/painel/internal/errors"
	"github.com/midiaops/painel/internal/logging"
	"github.com/midiaops/painel/internal/pipeline"
	"github.com/midiaops/painel/internal/report"
	"github.com/midiaops/painel/internal/source"
)

// forceRefresher is implemented by sources with a cache bypass.
type forceRefresher interface {
	ForceRefresh(ctx context.Context) (*source.RawTable, error)
}

// Session is the dashboard state holder. Safe for use from a single
// goroutine plus the read accessors; one recomputation pass never runs
// concurrently with itself.
type Session struct {
	src     source.Source
	builder *pipeline.Builder
	engine  *report.Engine
	log     *logging.Logger

	mu          sync.RWMutex
	table       *pipeline.Table
	filters     *report.FilterState
	lastErr     error
	lastRefresh time.Time
}

// NewSession creates a session over the given source and pipeline.
func NewSession(src source.Source, builder *pipeline.Builder, engine *report.Engine, log *logging.Logger) *Session {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Session{
		src:     src,
		builder: builder,
		engine:  engine,
		filters: report.NewFilterState(),
		log:     log.WithComponent("dash"),
	}
}

// Refresh fetches the source and rebuilds the canonical table. With force
// set, any staleness cache is bypassed. A hard failure leaves the previous
// table in place and is both recorded and returned; the caller decides how
// to surface it.
func (s *Session) Refresh(ctx context.Context, force bool) error {
	var raw *source.RawTable
	var err error

	if fr, ok := s.src.(forceRefresher); ok && force {
		raw, err = fr.ForceRefresh(ctx)
	} else {
		raw, err = s.src.Fetch(ctx)
	}

	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		if errors.IsHardFailure(err) {
			s.log.Error("refresh failed, keeping last good table", "error", err.Error())
		} else {
			s.log.Warn("refresh failed", "error", err.Error())
		}
		return err
	}

	table := s.builder.Build(raw)

	s.mu.Lock()
	s.table = table
	s.lastErr = nil
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	s.log.Info("dashboard refreshed",
		"rows", len(table.Records),
		"dropped", table.Dropped,
		"overdue", table.OverdueCount(),
		"forced", force)
	return nil
}

// Table returns the last good canonical table, or nil before the first
// successful refresh.
func (s *Session) Table() *pipeline.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Filters returns the active filter state for mutation by the UI.
func (s *Session) Filters() *report.FilterState {
	return s.filters
}

// Filtered returns the records passing the active filters, in table order.
func (s *Session) Filtered() []pipeline.Record {
	table := s.Table()
	if table == nil {
		return nil
	}
	return s.engine.Apply(table, s.filters)
}

// Summary returns the campaign rollup over the currently filtered subset.
func (s *Session) Summary() *report.Summary {
	return report.Summarize(s.Filtered())
}

// OverdueCount returns the overdue records in the filtered subset.
func (s *Session) OverdueCount() int {
	n := 0
	for _, rec := range s.Filtered() {
		if rec.Severity == pipeline.SeverityOverdue {
			n++
		}
	}
	return n
}

// LastError returns the error of the most recent failed refresh, or nil
// after a successful one.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LastRefresh returns when the table was last rebuilt successfully.
func (s *Session) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Classifier exposes the pipeline classifier for legend rendering.
func (s *Session) Classifier() *pipeline.Classifier {
	return s.builder.Classifier()
}
