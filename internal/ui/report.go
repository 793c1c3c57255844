package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clerk/internal/theme"
)

// Banner renders the application title.
func Banner() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.HeaderStyle.Render("Clerk"),
		theme.SubtitleStyle.Render("Outlook POP3 Profile Creator"),
	)
}

func panel(title, body string, color lipgloss.AdaptiveColor) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(color).Render(title)
	return theme.PanelStyle(color).Render(heading + "\n" + body)
}

// RenderSuccess renders the success panel and the follow-up steps.
func RenderSuccess(profileName string) string {
	var b strings.Builder

	b.WriteString(panel("Success",
		lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("Profile created successfully!"),
		theme.ColorGreen,
	))
	b.WriteString("\n\n")
	b.WriteString(theme.WarningStyle.Render("Next steps:"))
	b.WriteString("\n")
	b.WriteString("1. Open Outlook\n")
	b.WriteString(fmt.Sprintf("2. Select the '%s' profile if prompted\n", theme.HighlightStyle.Render(profileName)))
	b.WriteString("3. Enter your password when requested\n")

	return b.String()
}

// RenderError renders a failure panel carrying err's message.
func RenderError(err error) string {
	return panel("Error",
		lipgloss.NewStyle().Foreground(theme.ColorRed).Render(err.Error()),
		theme.ColorRed,
	)
}

// RenderCancelled renders the message shown when the user declines.
func RenderCancelled() string {
	return theme.WarningStyle.Render("Operation cancelled.")
}
