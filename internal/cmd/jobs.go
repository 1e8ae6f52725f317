package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	jobsFilters filterFlags
	jobsJSON    bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs passing the given filters",
	Long: `Fetch the sheet and list the jobs that pass the given filters, with
their derived deadline status.

Examples:
  # Everything still open with five days or less on the clock
  painel jobs --max-days 5 --exclude-closed

  # One requester's approved jobs
  painel jobs --status Aprovado --requester Ana

  # Free-text search across every column
  painel jobs --search "black friday"`,
	RunE: runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsFilters.register(jobsCmd)
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "print records as JSON")
}

func runJobs(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	state, err := jobsFilters.state(cmd, rt.cfg.Columns)
	if err != nil {
		return err
	}

	if err := rt.session.Refresh(cmd.Context(), false); err != nil {
		return err
	}
	printWarnings(rt)

	*rt.session.Filters() = *state
	records := rt.session.Filtered()

	if jobsJSON {
		return rt.exporter.WriteJSON(cmd.OutOrStdout(), rt.session.Table(), records)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Campanha\tStatus\tPrazo\tSeveridade")
	for i := range records {
		rec := &records[i]
		deadline := rec.DeadlineRaw
		if deadline == "" {
			deadline = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Campaign, rec.Status, deadline, rec.Severity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d job(s)\n",
		len(records), len(rt.session.Table().Records))
	return nil
}
