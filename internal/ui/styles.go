package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Title renders a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// RollbackBanner renders the banner printed when a failed run starts
// undoing its work.
func RollbackBanner() string {
	return errorStyle.Render("Installation failed, rolling back changes")
}

// KV renders an aligned key/value line for the final summary.
func KV(key, value string) string {
	return keyStyle.Render(key+": ") + valueStyle.Render(value)
}
