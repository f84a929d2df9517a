package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (Cyan) reads well on dark and light terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for arguments and usage
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Bright Black) keeps descriptions in the background
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// QuoteStyle for chunks previewed before posting
	QuoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	// ChunkStyle ANSI 5 (Magenta) for the "chunk k/n" headers in previews
	ChunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	// AnswerStyle for raw answers printed by the console
	AnswerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	// ErrorStyle ANSI 1 (Red)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
