package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/obra-tracker/internal/schedule"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help and the command palette.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// CardStyle frames one project on the dashboard.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedCardStyle frames the project holding the cursor.
var FocusedCardStyle = CardStyle.BorderForeground(ColorBlue)

// SelectedRowStyle highlights the stage row under the cursor.
var SelectedRowStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// BadgeStyle renders the year and segment badges of a project card.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// WarningStyle is used for source warnings in the status area.
var WarningStyle = lipgloss.NewStyle().
	Foreground(ColorOrange)

// AttentionStyle and OnTrackStyle color the impact matrix headline.
var (
	AttentionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	OnTrackStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
)

// StatusStyle returns a color-coded style for a stage classification.
func StatusStyle(c schedule.Classification) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch c.Status {
	case schedule.StatusCompleteOnTime:
		return base.Foreground(ColorGreen)
	case schedule.StatusCompleteLate, schedule.StatusPendingOverdue:
		return base.Foreground(ColorRed)
	}
	if c.Reason == schedule.ReasonAwaiting {
		return base.Foreground(ColorYellow)
	}
	return base.Foreground(ColorGray)
}

// StatusIcon returns the glyph shown next to a stage label.
func StatusIcon(c schedule.Classification) string {
	switch c.Status {
	case schedule.StatusCompleteOnTime:
		return "✓"
	case schedule.StatusCompleteLate:
		return "!"
	case schedule.StatusPendingOverdue:
		return "✗"
	}
	if c.Reason == schedule.ReasonAwaiting {
		return "…"
	}
	return "?"
}
