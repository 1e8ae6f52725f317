package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-campaign rollup of job counts by status",
	Long: `Fetch the sheet and print one row per campaign: job counts broken down
by operational status, the campaign total, and whether any job is
overdue. Campaigns with overdue jobs sort first.`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the rollup as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.session.Refresh(cmd.Context(), false); err != nil {
		return err
	}
	printWarnings(rt)

	summary := rt.session.Summary()

	if summaryJSON {
		type row struct {
			Campaign   string         `json:"campaign"`
			Counts     map[string]int `json:"counts"`
			Total      int            `json:"total"`
			HasOverdue bool           `json:"has_overdue"`
		}
		out := make([]row, 0, len(summary.Rows))
		for _, r := range summary.Rows {
			out = append(out, row{r.Campaign, r.Counts, r.Total, r.HasOverdue})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)

	fmt.Fprint(w, "Campanha")
	for _, status := range summary.Statuses {
		fmt.Fprintf(w, "\t%s", status)
	}
	fmt.Fprint(w, "\tTotal\tAtrasada\n")

	for _, r := range summary.Rows {
		fmt.Fprint(w, r.Campaign)
		for _, status := range summary.Statuses {
			fmt.Fprintf(w, "\t%d", r.Counts[status])
		}
		overdue := ""
		if r.HasOverdue {
			overdue = "sim"
		}
		fmt.Fprintf(w, "\t%d\t%s\n", r.Total, overdue)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if n := rt.session.OverdueCount(); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d job(s) overdue\n", n)
	}
	return nil
}

// printWarnings surfaces recovered source problems on stderr.
func printWarnings(rt *runtime) {
	table := rt.session.Table()
	if table == nil {
		return
	}
	for _, w := range table.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if table.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d row(s) dropped for missing campaign or status\n", table.Dropped)
	}
}
