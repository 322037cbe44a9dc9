package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/tablero/internal/model"
)

// Color palette
var (
	// Priority colors
	PriorityHighColor   = lipgloss.Color("#FF6B6B") // Alta - Red
	PriorityMediumColor = lipgloss.Color("#FFE66D") // Media - Yellow
	PriorityLowColor    = lipgloss.Color("#4ECDC4") // Baja - Blue

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Carried   = lipgloss.Color("#FFB347") // task in flight during a move
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	ColumnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	ColumnFocusStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Primary).
				Padding(0, 1)

	ColumnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskCarriedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(Carried).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// FormatPriority returns a colored priority badge
func FormatPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(PriorityHighColor).Bold(true).Render("Alta")
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(PriorityMediumColor).Render("Media")
	default:
		return lipgloss.NewStyle().Foreground(PriorityLowColor).Render("Baja")
	}
}
