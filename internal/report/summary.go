// Package report derives the presentation views from the canonical table:
// per-campaign rollups and the filtered detail subset. Both are recomputed
// in full on every pass and never mutate the table they read.
package report

import (
	"sort"

	"github.com/midiaops/painel/internal/pipeline"
)

// CampaignSummary is one rollup row: status counts for a single campaign,
// zero-filled over the status vocabulary observed across the whole table.
type CampaignSummary struct {
	Campaign string
	// Counts holds one entry per status in Summary.Statuses, including
	// zeroes for statuses this campaign never shows.
	Counts map[string]int
	// Total is the sum of all status counts.
	Total int
	// HasOverdue reports whether any record of the campaign is overdue.
	HasOverdue bool
}

// Summary is the full rollup over one record set.
type Summary struct {
	// Statuses is the observed status vocabulary in first-seen order. Every
	// row's Counts map carries exactly these keys.
	Statuses []string
	Rows     []CampaignSummary
}

// Summarize groups records by campaign and tallies per-status counts.
// Grouping and summing are order-independent; the sort is a total order
// (overdue first, then larger totals, then first-seen campaign order) so
// the same record set always produces the same output.
func Summarize(records []pipeline.Record) *Summary {
	type group struct {
		counts    map[string]int
		total     int
		overdue   bool
		firstSeen int
	}

	groups := make(map[string]*group)
	var campaigns []string
	var statuses []string
	statusSeen := make(map[string]bool)

	for i := range records {
		rec := &records[i]

		g, ok := groups[rec.Campaign]
		if !ok {
			g = &group{counts: make(map[string]int), firstSeen: len(campaigns)}
			groups[rec.Campaign] = g
			campaigns = append(campaigns, rec.Campaign)
		}

		g.counts[rec.Status]++
		g.total++
		if rec.Severity == pipeline.SeverityOverdue {
			g.overdue = true
		}
		if !statusSeen[rec.Status] {
			statusSeen[rec.Status] = true
			statuses = append(statuses, rec.Status)
		}
	}

	rows := make([]CampaignSummary, 0, len(campaigns))
	for _, campaign := range campaigns {
		g := groups[campaign]
		counts := make(map[string]int, len(statuses))
		for _, status := range statuses {
			counts[status] = g.counts[status]
		}
		rows = append(rows, CampaignSummary{
			Campaign:   campaign,
			Counts:     counts,
			Total:      g.total,
			HasOverdue: g.overdue,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.HasOverdue != b.HasOverdue {
			return a.HasOverdue
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return groups[a.Campaign].firstSeen < groups[b.Campaign].firstSeen
	})

	return &Summary{Statuses: statuses, Rows: rows}
}

// OverdueCampaigns returns the number of campaigns with at least one
// overdue record.
func (s *Summary) OverdueCampaigns() int {
	n := 0
	for i := range s.Rows {
		if s.Rows[i].HasOverdue {
			n++
		}
	}
	return n
}
