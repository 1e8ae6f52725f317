package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/pipeline"
	"github.com/midiaops/painel/internal/report"
)

// filterFlags is the flag set shared by the listing and export commands.
type filterFlags struct {
	status     []string
	campaign   []string
	priority   []string
	production []string
	requester  []string

	minDays       int
	maxDays       int
	excludeClosed bool

	search string
	from   string
	to     string
}

// register adds the filter flags to cmd.
func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.status, "status", nil, "keep only these operational statuses")
	flags.StringSliceVar(&f.campaign, "campaign", nil, "keep only these campaigns")
	flags.StringSliceVar(&f.priority, "priority", nil, "keep only these priorities")
	flags.StringSliceVar(&f.production, "production", nil, "keep only these production channels")
	flags.StringSliceVar(&f.requester, "requester", nil, "keep only these requesters")
	flags.IntVar(&f.minDays, "min-days", 0, "minimum days remaining")
	flags.IntVar(&f.maxDays, "max-days", 0, "maximum days remaining")
	flags.BoolVar(&f.excludeClosed, "exclude-closed", false, "drop closed-deadline jobs from a days range")
	flags.StringVar(&f.search, "search", "", "case-insensitive text search across all columns")
	flags.StringVar(&f.from, "from", "", "earliest submission date (e.g. 2026-08-01)")
	flags.StringVar(&f.to, "to", "", "latest submission date, inclusive")
}

// state translates the flags into a FilterState. Unset flags leave their
// predicate inactive.
func (f *filterFlags) state(cmd *cobra.Command, cols config.ColumnConfig) (*report.FilterState, error) {
	state := report.NewFilterState()

	categorical := []struct {
		column string
		values []string
	}{
		{cols.Status, f.status},
		{cols.Campaign, f.campaign},
		{cols.Priority, f.priority},
		{cols.Production, f.production},
		{cols.Requester, f.requester},
	}
	for _, c := range categorical {
		if len(c.values) > 0 {
			state.Select(c.column, c.values...)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("min-days") || flags.Changed("max-days") {
		lo, hi := f.minDays, f.maxDays
		if !flags.Changed("max-days") {
			hi = int(^uint(0) >> 1)
		}
		state.SetDeadlineRange(lo, hi)
	}
	state.IncludeClosed = !f.excludeClosed
	state.Query = f.search

	if f.from != "" || f.to != "" {
		from, ok := pipeline.ParseDate(f.from)
		if f.from != "" && !ok {
			return nil, fmt.Errorf("invalid --from date %q", f.from)
		}
		to, ok := pipeline.ParseDate(f.to)
		if f.to != "" && !ok {
			return nil, fmt.Errorf("invalid --to date %q", f.to)
		}
		if f.from != "" {
			state.DateFrom = &from
		}
		if f.to != "" {
			state.DateTo = &to
		}
	}

	return state, nil
}
