package report

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/pipeline"
	"github.com/midiaops/painel/internal/source"
)

// buildTable runs the pipeline over literal rows with the default column
// layout: campaign, status, deadline, requester, submission date.
func buildTable(t *testing.T, rows ...[]string) *pipeline.Table {
	t.Helper()

	cfg := config.Default()
	headers := []string{
		cfg.Columns.Campaign,
		cfg.Columns.Status,
		cfg.Columns.Deadline,
		cfg.Columns.Requester,
		cfg.Columns.Submitted,
	}
	padded := make([][]string, len(rows))
	for i, row := range rows {
		p := make([]string, len(headers))
		copy(p, row)
		padded[i] = p
	}
	raw := &source.RawTable{Headers: headers, Rows: padded, Sheet: "Demandas ID"}
	return pipeline.NewBuilder(cfg.Columns, cfg.Classify, nil).Build(raw)
}

func TestSummarizeScenario(t *testing.T) {
	table := buildTable(t,
		[]string{"Campanha X", "Aprovado", "3"},
	)

	summary := Summarize(table.Records)

	if got, want := len(summary.Rows), 1; got != want {
		t.Fatalf("len(Rows) = %d, want %d", got, want)
	}
	row := summary.Rows[0]
	if row.Campaign != "Campanha X" {
		t.Errorf("Campaign = %q, want %q", row.Campaign, "Campanha X")
	}
	if row.Total != 1 {
		t.Errorf("Total = %d, want 1", row.Total)
	}
	if row.HasOverdue {
		t.Error("HasOverdue = true, want false")
	}
	if got := row.Counts["Aprovado"]; got != 1 {
		t.Errorf("Counts[Aprovado] = %d, want 1", got)
	}
}

func TestSummarizeOverdueSortsFirst(t *testing.T) {
	// X has more records but Y is overdue; Y must sort first regardless.
	table := buildTable(t,
		[]string{"Campanha X", "Aprovado", "30"},
		[]string{"Campanha X", "Aprovado", "30"},
		[]string{"Campanha X", "Em Produção", "30"},
		[]string{"Campanha X", "Em Produção", "30"},
		[]string{"Campanha X", "Aprovado", "30"},
		[]string{"Campanha Y", "Em Produção", "Prazo encerrado"},
		[]string{"Campanha Y", "Aprovado", "30"},
	)

	summary := Summarize(table.Records)

	if got, want := len(summary.Rows), 2; got != want {
		t.Fatalf("len(Rows) = %d, want %d", got, want)
	}
	if summary.Rows[0].Campaign != "Campanha Y" {
		t.Errorf("Rows[0].Campaign = %q, want overdue campaign first", summary.Rows[0].Campaign)
	}
	if !summary.Rows[0].HasOverdue {
		t.Error("Rows[0].HasOverdue = false, want true")
	}
	if summary.Rows[1].Total != 5 {
		t.Errorf("Rows[1].Total = %d, want 5", summary.Rows[1].Total)
	}
}

func TestSummarizeZeroFillsStatusVocabulary(t *testing.T) {
	table := buildTable(t,
		[]string{"Campanha X", "Aprovado", "10"},
		[]string{"Campanha Y", "Em Produção", "10"},
	)

	summary := Summarize(table.Records)

	if got, want := len(summary.Statuses), 2; got != want {
		t.Fatalf("len(Statuses) = %d, want %d", got, want)
	}
	for _, row := range summary.Rows {
		for _, status := range summary.Statuses {
			if _, ok := row.Counts[status]; !ok {
				t.Errorf("campaign %q missing zero-filled status %q", row.Campaign, status)
			}
		}
	}
	for _, row := range summary.Rows {
		if row.Campaign == "Campanha X" && row.Counts["Em Produção"] != 0 {
			t.Errorf("Counts[Em Produção] for X = %d, want 0", row.Counts["Em Produção"])
		}
	}
}

func TestSummarizeSortsByTotalDescending(t *testing.T) {
	table := buildTable(t,
		[]string{"Campanha A", "Aprovado", "10"},
		[]string{"Campanha B", "Aprovado", "10"},
		[]string{"Campanha B", "Aprovado", "10"},
		[]string{"Campanha B", "Aprovado", "10"},
		[]string{"Campanha C", "Aprovado", "10"},
		[]string{"Campanha C", "Aprovado", "10"},
	)

	summary := Summarize(table.Records)

	want := []string{"Campanha B", "Campanha C", "Campanha A"}
	for i, campaign := range want {
		if summary.Rows[i].Campaign != campaign {
			t.Errorf("Rows[%d].Campaign = %q, want %q", i, summary.Rows[i].Campaign, campaign)
		}
	}
}

func TestSummarizeTieBreaksByFirstSeenOrder(t *testing.T) {
	table := buildTable(t,
		[]string{"Campanha B", "Aprovado", "10"},
		[]string{"Campanha A", "Aprovado", "10"},
	)

	summary := Summarize(table.Records)

	if summary.Rows[0].Campaign != "Campanha B" {
		t.Errorf("Rows[0].Campaign = %q, want first-seen campaign on a total tie", summary.Rows[0].Campaign)
	}
}

func TestSummarizePermutationInvariant(t *testing.T) {
	table := buildTable(t,
		[]string{"Campanha X", "Aprovado", "3"},
		[]string{"Campanha X", "Em Produção", "10"},
		[]string{"Campanha Y", "Em Produção", "Prazo encerrado"},
		[]string{"Campanha Z", "Aprovado", "0"},
		[]string{"Campanha Z", "Aprovado", "7"},
		[]string{"Campanha Z", "Finalizado", "20"},
	)

	baseline := Summarize(table.Records)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]pipeline.Record, len(table.Records))
		copy(shuffled, table.Records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Summarize(shuffled)
		if len(got.Rows) != len(baseline.Rows) {
			t.Fatalf("trial %d: len(Rows) = %d, want %d", trial, len(got.Rows), len(baseline.Rows))
		}
		for i := range baseline.Rows {
			if got.Rows[i].Campaign != baseline.Rows[i].Campaign {
				t.Errorf("trial %d: Rows[%d] = %q, want %q",
					trial, i, got.Rows[i].Campaign, baseline.Rows[i].Campaign)
			}
			if !reflect.DeepEqual(got.Rows[i].Counts, baseline.Rows[i].Counts) {
				t.Errorf("trial %d: Counts for %q differ under permutation",
					trial, baseline.Rows[i].Campaign)
			}
		}
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil)

	if len(summary.Rows) != 0 {
		t.Errorf("len(Rows) = %d, want 0", len(summary.Rows))
	}
	if len(summary.Statuses) != 0 {
		t.Errorf("len(Statuses) = %d, want 0", len(summary.Statuses))
	}
}

func TestOverdueCampaigns(t *testing.T) {
	table := buildTable(t,
		[]string{"Campanha X", "Aprovado", "3"},
		[]string{"Campanha Y", "Em Produção", "Prazo encerrado"},
		[]string{"Campanha Z", "Aprovado", "-1"},
	)

	if got := Summarize(table.Records).OverdueCampaigns(); got != 2 {
		t.Errorf("OverdueCampaigns() = %d, want 2", got)
	}
}

func TestDroppedRowsNeverReachSummaries(t *testing.T) {
	table := buildTable(t,
		[]string{"", "Aprovado", "3"},
		[]string{"Campanha X", "", "3"},
		[]string{"Campanha X", "Aprovado", "3"},
	)

	summary := Summarize(table.Records)

	if got, want := len(summary.Rows), 1; got != want {
		t.Fatalf("len(Rows) = %d, want %d", got, want)
	}
	if summary.Rows[0].Total != 1 {
		t.Errorf("Total = %d, want only the complete row counted", summary.Rows[0].Total)
	}
}
