package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/midiaops/painel/internal/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	want := []string{"view", "summary", "jobs", "export", "refresh", "config"}

	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

// parseFilters runs the flag set against args and translates it.
func parseFilters(t *testing.T, args ...string) (*filterFlags, *cobra.Command) {
	t.Helper()

	flags := &filterFlags{}
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.register(cmd)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("parsing %v: %v", args, err)
	}
	return flags, cmd
}

func TestFilterFlagsCategorical(t *testing.T) {
	flags, cmd := parseFilters(t, "--status", "Aprovado", "--status", "Em Produção")

	state, err := flags.state(cmd, config.Default().Columns)
	if err != nil {
		t.Fatalf("state() error: %v", err)
	}

	set := state.Selected[config.Default().Columns.Status]
	if set == nil {
		t.Fatal("status filter should be active")
	}
	if !set["Aprovado"] || !set["Em Produção"] {
		t.Errorf("selected set = %v, want both statuses", set)
	}
	if _, active := state.Selected[config.Default().Columns.Campaign]; active {
		t.Error("campaign filter should stay inactive")
	}
}

func TestFilterFlagsDeadlineRange(t *testing.T) {
	flags, cmd := parseFilters(t, "--min-days", "2", "--max-days", "10")

	state, err := flags.state(cmd, config.Default().Columns)
	if err != nil {
		t.Fatalf("state() error: %v", err)
	}

	if state.DeadlineMin == nil || *state.DeadlineMin != 2 {
		t.Errorf("DeadlineMin = %v, want 2", state.DeadlineMin)
	}
	if state.DeadlineMax == nil || *state.DeadlineMax != 10 {
		t.Errorf("DeadlineMax = %v, want 10", state.DeadlineMax)
	}
	if !state.IncludeClosed {
		t.Error("IncludeClosed should default to true")
	}
}

func TestFilterFlagsMaxOnlyRange(t *testing.T) {
	flags, cmd := parseFilters(t, "--max-days", "5", "--exclude-closed")

	state, err := flags.state(cmd, config.Default().Columns)
	if err != nil {
		t.Fatalf("state() error: %v", err)
	}

	if state.DeadlineMin == nil || *state.DeadlineMin != 0 {
		t.Errorf("DeadlineMin = %v, want 0", state.DeadlineMin)
	}
	if state.IncludeClosed {
		t.Error("--exclude-closed should clear IncludeClosed")
	}
}

func TestFilterFlagsUnsetRangeIsInactive(t *testing.T) {
	flags, cmd := parseFilters(t)

	state, err := flags.state(cmd, config.Default().Columns)
	if err != nil {
		t.Fatalf("state() error: %v", err)
	}

	if state.DeadlineMin != nil || state.DeadlineMax != nil {
		t.Error("deadline range should stay inactive without flags")
	}
	if len(state.Selected) != 0 {
		t.Errorf("Selected = %v, want no active categorical filters", state.Selected)
	}
}

func TestFilterFlagsDates(t *testing.T) {
	flags, cmd := parseFilters(t, "--from", "2026-08-01", "--to", "2026-08-31")

	state, err := flags.state(cmd, config.Default().Columns)
	if err != nil {
		t.Fatalf("state() error: %v", err)
	}

	if state.DateFrom == nil || state.DateTo == nil {
		t.Fatal("date range should be active")
	}
	if state.DateFrom.After(*state.DateTo) {
		t.Error("DateFrom should not be after DateTo")
	}
}

func TestFilterFlagsBadDate(t *testing.T) {
	flags, cmd := parseFilters(t, "--from", "ontem")

	if _, err := flags.state(cmd, config.Default().Columns); err == nil {
		t.Error("invalid --from date should fail")
	}
}
