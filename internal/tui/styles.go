package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorPrimary = lipgloss.Color("#67B246")
	colorMuted   = lipgloss.Color("#7A8593")
	colorBorder  = lipgloss.Color("#3A4556")
	colorError   = lipgloss.Color("#E53935")
	colorText    = lipgloss.Color("#F2F2F2")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Card        lipgloss.Style
	Name        lipgloss.Style
	Detail      lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Placeholder lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the dark theme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		Tab:       lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorText).Background(colorBorder),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(34),
		Name:        lipgloss.NewStyle().Bold(true).Foreground(colorText),
		Detail:      lipgloss.NewStyle().Foreground(colorText),
		Muted:       lipgloss.NewStyle().Foreground(colorMuted),
		Error:       lipgloss.NewStyle().Foreground(colorError),
		Placeholder: lipgloss.NewStyle().Foreground(colorBorder).Italic(true),
		Help:        lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}
