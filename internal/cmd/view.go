package cmd

import (
	"github.com/spf13/cobra"

	"github.com/midiaops/painel/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive terminal dashboard: a per-campaign rollup tab and
a filterable job detail tab. Press ? inside the dashboard for key
bindings.`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	return tui.Run(rt.session, rt.cfg.TUI)
}
