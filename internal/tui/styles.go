package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	onTrackColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	overdueColor = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	textColor    = lipgloss.Color("#F9FAFB") // Light text
	borderColor  = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Padding(0, 2)

	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(overdueColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(overdueColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	legendStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	legendClosedStyle = lipgloss.NewStyle().Foreground(overdueColor)
	legendNearStyle   = lipgloss.NewStyle().Foreground(warningColor)
	legendMidStyle    = lipgloss.NewStyle().Foreground(primaryColor)
	legendFarStyle    = lipgloss.NewStyle().Foreground(onTrackColor)
)
