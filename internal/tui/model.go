// Package tui renders the interactive dashboard: a campaign rollup tab and
// a filterable job detail tab over the session's canonical table.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/dash"
	"github.com/midiaops/painel/internal/pipeline"
)

// tab identifies the active view.
type tab int

const (
	tabSummary tab = iota
	tabDetail
)

// refreshedMsg reports the outcome of a background refresh.
type refreshedMsg struct {
	err error
}

// Model is the dashboard bubbletea model.
type Model struct {
	session *dash.Session
	cfg     config.TUIConfig

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model

	summaryTable table.Model
	detailTable  table.Model

	activeTab tab
	searching bool
	loading   bool
	width     int
	height    int
}

// New creates the dashboard model over an assembled session.
func New(session *dash.Session, cfg config.TUIConfig) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	search := textinput.New()
	search.Placeholder = "buscar..."
	search.Prompt = "/ "
	search.CharLimit = 80

	return Model{
		session: session,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		search:  search,
		loading: true,
	}
}

// Init kicks off the spinner and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh(false))
}

// refresh fetches and rebuilds the table off the update loop.
func (m Model) refresh(force bool) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return refreshedMsg{err: session.Refresh(context.Background(), force)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuildTables()
		return m, nil

	case refreshedMsg:
		m.loading = false
		m.rebuildTables()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateSearch routes keys to the search input until enter or esc.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.session.Filters().Query = ""
		m.rebuildTables()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.session.Filters().Query = m.search.Value()
	m.rebuildTables()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.SwitchTab):
		if m.activeTab == tabSummary {
			m.activeTab = tabDetail
		} else {
			m.activeTab = tabSummary
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.refresh(true))

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.ToggleClosed):
		filters := m.session.Filters()
		filters.IncludeClosed = !filters.IncludeClosed
		m.rebuildTables()
		return m, nil

	case key.Matches(msg, keys.ClearFilters):
		m.session.Filters().Reset()
		m.search.SetValue("")
		m.rebuildTables()
		return m, nil

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	if m.activeTab == tabSummary {
		m.summaryTable, cmd = m.summaryTable.Update(msg)
	} else {
		m.detailTable, cmd = m.detailTable.Update(msg)
	}
	return m, cmd
}

// rebuildTables recomputes both views from the session state.
func (m *Model) rebuildTables() {
	if m.session.Table() == nil {
		return
	}

	tableHeight := m.height - 12
	if tableHeight < 3 {
		tableHeight = 3
	}

	m.rebuildSummary(tableHeight)
	m.rebuildDetail(tableHeight)
}

func (m *Model) rebuildSummary(height int) {
	summary := m.session.Summary()

	columns := []table.Column{{Title: "Campanha", Width: 28}}
	for _, status := range summary.Statuses {
		columns = append(columns, table.Column{Title: status, Width: len(status) + 2})
	}
	columns = append(columns,
		table.Column{Title: "Total", Width: 7},
		table.Column{Title: "Atrasada", Width: 9},
	)

	rows := make([]table.Row, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		row := table.Row{r.Campaign}
		for _, status := range summary.Statuses {
			row = append(row, strconv.Itoa(r.Counts[status]))
		}
		overdue := ""
		if r.HasOverdue {
			overdue = "sim"
		}
		row = append(row, strconv.Itoa(r.Total), overdue)
		rows = append(rows, row)
	}

	m.summaryTable = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(m.activeTab == tabSummary),
	)
}

func (m *Model) rebuildDetail(height int) {
	records := m.session.Filtered()
	if limit := m.cfg.MaxDetailRows; limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	columns := []table.Column{
		{Title: "Campanha", Width: 28},
		{Title: "Status", Width: 18},
		{Title: "Prazo", Width: 16},
		{Title: "Severidade", Width: 12},
		{Title: "Solicitante", Width: 16},
	}

	rows := make([]table.Row, 0, len(records))
	for i := range records {
		rec := &records[i]
		deadline := rec.DeadlineRaw
		if deadline == "" {
			deadline = "-"
		}
		rows = append(rows, table.Row{
			rec.Campaign,
			rec.Status,
			deadline,
			rec.Severity.String(),
			rec.Requester,
		})
	}

	m.detailTable = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(m.activeTab == tabDetail),
	)
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("painel"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render("acompanhamento de demandas"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("\n %s carregando planilha...\n", m.spinner.View()))
		return b.String()
	}

	if err := m.session.LastError(); err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))
		b.WriteString("\n")
	}

	tbl := m.session.Table()
	if tbl == nil {
		b.WriteString(subtitleStyle.Render("sem dados"))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	for _, w := range tbl.Warnings {
		b.WriteString(warnStyle.Render("! " + w))
		b.WriteString("\n")
	}
	if n := m.session.OverdueCount(); n > 0 {
		b.WriteString(alertStyle.Render(fmt.Sprintf("%d demanda(s) com prazo estourado", n)))
		b.WriteString("\n")
	}

	if m.activeTab == tabSummary {
		b.WriteString(tableStyle.Render(m.summaryTable.View()))
	} else {
		if m.cfg.ShowLegend {
			b.WriteString(m.renderLegend())
			b.WriteString("\n")
		}
		b.WriteString(tableStyle.Render(m.detailTable.View()))
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if q := m.search.Value(); q != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("busca: %q", q)))
		b.WriteString("\n")
	}

	if !m.session.LastRefresh().IsZero() {
		b.WriteString(subtitleStyle.Render(
			fmt.Sprintf("%d demanda(s) · atualizado %s",
				len(m.session.Filtered()),
				m.session.LastRefresh().Format("15:04:05"))))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTabs() string {
	summary := tabInactiveStyle.Render("Resumo")
	detail := tabInactiveStyle.Render("Demandas")
	if m.activeTab == tabSummary {
		summary = tabActiveStyle.Render("Resumo")
	} else {
		detail = tabActiveStyle.Render("Demandas")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, summary, detail)
}

// renderLegend shows the deadline bands with their colors.
func (m Model) renderLegend() string {
	c := m.session.Classifier()
	parts := []string{
		legendClosedStyle.Render("■ " + c.BucketLabel(pipeline.BucketClosed)),
		legendNearStyle.Render("■ " + c.BucketLabel(pipeline.BucketNear)),
		legendMidStyle.Render("■ " + c.BucketLabel(pipeline.BucketMid)),
		legendFarStyle.Render("■ " + c.BucketLabel(pipeline.BucketFar)),
	}
	return legendStyle.Render("prazo: ") + strings.Join(parts, "  ")
}

// Run starts the dashboard program.
func Run(session *dash.Session, cfg config.TUIConfig) error {
	p := tea.NewProgram(New(session, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
