package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportFilters filterFlags
	exportFormat  string
	exportDir     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered job list to a file",
	Long: `Fetch the sheet, apply the given filters and write the result to a
timestamped file. Supported formats: csv, json, xlsx. The export carries
the original columns plus the derived deadline columns.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "export format: csv, json or xlsx (default from config)")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "output directory (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	state, err := exportFilters.state(cmd, rt.cfg.Columns)
	if err != nil {
		return err
	}

	format := exportFormat
	if format == "" {
		format = rt.cfg.Export.Format
	}
	dir := exportDir
	if dir == "" {
		dir = rt.cfg.Export.Dir
	}

	if err := rt.session.Refresh(cmd.Context(), false); err != nil {
		return err
	}
	printWarnings(rt)

	*rt.session.Filters() = *state
	records := rt.session.Filtered()

	path, err := rt.exporter.ExportFile(dir, format, rt.session.Table(), records)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d job(s) to %s\n", len(records), path)
	return nil
}
