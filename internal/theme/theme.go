package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorCyan   = lipgloss.AdaptiveColor{Dark: "#66D9EF", Light: "#0987A0"}
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// HeaderStyle is used for the application title banner.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 2)

// SubtitleStyle sits under the banner.
var SubtitleStyle = lipgloss.NewStyle().
	Foreground(ColorCyan)

// TableBorderStyle colors the preview table frame.
var TableBorderStyle = lipgloss.NewStyle().
	Foreground(ColorCyan)

// TableHeaderStyle is used for the preview table header row.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow).
	Padding(0, 1).
	Align(lipgloss.Center)

// TableCellStyle is the base style for preview table cells.
var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

// HelpStyle is used for hints and follow-up instructions.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// WarningStyle is used for cancellations and soft failures.
var WarningStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// HighlightStyle marks user-specific values inside prose.
var HighlightStyle = lipgloss.NewStyle().
	Foreground(ColorCyan).
	Bold(true)

// PanelStyle returns a rounded panel bordered in the given color.
func PanelStyle(color lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2)
}

// FlagStyle colors a yes/no value: enabled settings green, disabled red.
func FlagStyle(enabled bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if enabled {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorRed)
}
