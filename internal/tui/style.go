package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#8B5CF6")
	secondaryColor = lipgloss.Color("#22D3EE")
	accentColor    = lipgloss.Color("#34D399")
	errorColor     = lipgloss.Color("#F87171")

	textPrimary = lipgloss.Color("#F8FAFC")
	textMuted   = lipgloss.Color("#94A3B8")
	bgLight     = lipgloss.Color("#334155")
)

var (
	appStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Foreground(textPrimary).
			Padding(0, 1)

	caretStyle = lipgloss.NewStyle().
			Reverse(true)

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(bgLight).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)
