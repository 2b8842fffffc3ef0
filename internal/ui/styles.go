package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nhath/ferrumdb/internal/config"
)

var (
	textPrimary    lipgloss.Color
	textSecondary  lipgloss.Color
	textFaint      lipgloss.Color
	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	bgSecondary    lipgloss.Color

	StatusBarStyle      lipgloss.Style
	NavigationModeStyle lipgloss.Style
	EditingModeStyle    lipgloss.Style
	ConnectionStyle     lipgloss.Style
	DisconnectedStyle   lipgloss.Style
	MetaStyle           lipgloss.Style
	InputStyle          lipgloss.Style
	PromptStyle         lipgloss.Style
	CursorStyle         lipgloss.Style
	SuccessStyle        lipgloss.Style
	ErrorStyle          lipgloss.Style
	ErrorBoxStyle       lipgloss.Style
	TableBaseStyle      lipgloss.Style
	TableHeaderStyle    lipgloss.Style
	NullCellStyle       lipgloss.Style
)

func init() {
	InitStyles(config.DefaultConfig().Theme)
}

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)
	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	bgSecondary = lipgloss.Color(theme.BgSecondary)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	NavigationModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgSecondary)

	EditingModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgSecondary)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(bgSecondary).
		Foreground(textSecondary)

	DisconnectedStyle = ConnectionStyle.
		Foreground(errorColor)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(textFaint)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		MarginRight(1)

	CursorStyle = lipgloss.NewStyle().
		Reverse(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	ErrorBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(errorColor).
		Foreground(errorColor).
		Padding(0, 1)

	TableBaseStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		BorderForeground(textFaint)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)

	NullCellStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)
}
