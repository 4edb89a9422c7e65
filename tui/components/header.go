package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/tui/styles"
)

// RenderHeader renders the top header bar with app name, profile name,
// data source, live/stopped status and version.
func RenderHeader(theme styles.Theme, profile, source string, isLive bool, width int, ver string) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("shadow")

	displayName := profile
	if displayName == "" {
		displayName = "(default)"
	}
	center := lipgloss.NewStyle().
		Foreground(theme.Base05).
		Background(theme.Base01).
		Render(displayName)

	status := "STOPPED"
	statusColor := theme.Base08
	if isLive {
		status = "LIVE"
		statusColor = theme.Base0B
	}
	right := lipgloss.NewStyle().
		Foreground(statusColor).
		Background(theme.Base01).
		Render(status)

	if source == "" {
		source = "-"
	}
	src := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render("source: " + source)

	versionSeg := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render("v" + ver)

	content := fmt.Sprintf(" %s  |  %s  |  %s  |  %s  |  %s ", left, center, right, src, versionSeg)

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
