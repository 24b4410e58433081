package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by the wizard views.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Status   lipgloss.Style
	Key      lipgloss.Style
	KeyDesc  lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the standard wizard palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81")),
		KeyDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
