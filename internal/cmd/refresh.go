package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the sheet, bypassing any cache, and report what loaded",
	Long: `Force a fetch of the demand sheet and report how many rows loaded,
how many were dropped, and how many jobs are overdue. Useful to verify
source and credential settings.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.session.Refresh(cmd.Context(), true); err != nil {
		return err
	}
	printWarnings(rt)

	table := rt.session.Table()
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d job(s) from sheet %q (%d dropped, %d overdue)\n",
		len(table.Records), table.Sheet, table.Dropped, table.OverdueCount())
	return nil
}
