package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/QuestWing/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")
	ColorBlue      = lipgloss.Color("75")
	ColorGold      = lipgloss.Color("220")

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)
	StyleGold    = lipgloss.NewStyle().Foreground(ColorGold).Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Board column frame
	StyleColumn = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// StatusColor is the accent of a board column.
func StatusColor(s models.QuestStatus) lipgloss.Color {
	switch s {
	case models.StatusActive:
		return ColorBlue
	case models.StatusInProgress:
		return ColorWarning
	case models.StatusCompleted:
		return ColorSuccess
	default:
		return ColorSecondary
	}
}

// PriorityStyle colors a priority label.
func PriorityStyle(p models.QuestPriority) lipgloss.Style {
	switch p {
	case models.PriorityCritical:
		return StyleError.Bold(true)
	case models.PriorityHigh:
		return StyleWarning
	case models.PriorityMedium:
		return StyleText
	default:
		return StyleSubtle
	}
}

// TierStyle colors a tier label; higher tiers are brighter.
func TierStyle(tier int) lipgloss.Style {
	switch {
	case tier >= 4:
		return StyleGold
	case tier == 3:
		return StylePrimary.Bold(true)
	case tier == 2:
		return lipgloss.NewStyle().Foreground(ColorCyan)
	default:
		return StyleText
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
