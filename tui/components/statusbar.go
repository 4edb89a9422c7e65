package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/tui/styles"
)

// maxErrorWidth bounds the poll error shown in the status bar.
const maxErrorWidth = 60

// RenderStatusBar renders the two-line status/footer bar showing poll info,
// health status, a transient message and key bindings.
func RenderStatusBar(theme styles.Theme, interval time.Duration, lastPoll time.Time, pollErr error, errorCount int, message string, width int) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	sep := lipgloss.NewStyle().Foreground(theme.Base03).Background(bg).Render(" | ")

	pollSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).Render(fmt.Sprintf("poll: %s", interval))
	lastStr := "never"
	if !lastPoll.IsZero() {
		lastStr = lastPoll.Local().Format("15:04:05")
	}
	lastSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).Render(fmt.Sprintf("last: %s", lastStr))

	healthColor := theme.Base0B
	healthStr := "OK"
	if pollErr != nil {
		healthColor = theme.Base08
		healthStr = truncate("ERR "+pollErr.Error(), maxErrorWidth)
	} else if errorCount > 0 {
		healthColor = theme.Base0A
		healthStr = fmt.Sprintf("OK (%d errors)", errorCount)
	}
	healthSeg := lipgloss.NewStyle().Foreground(healthColor).Background(bg).Render(healthStr)

	topContent := bgStyle.Render(" ") + pollSeg + sep + lastSeg + sep + healthSeg
	if message != "" {
		topContent += sep + lipgloss.NewStyle().Foreground(theme.Base0E).Background(bg).Render(message)
	}
	topWidth := lipgloss.Width(topContent)
	if topWidth < width {
		topContent += bgStyle.Render(strings.Repeat(" ", width-topWidth))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")

	keys := bgStyle.Render(" ") +
		keyStyle.Render("enter") + descStyle.Render(":detail") + spacer +
		keyStyle.Render("o") + descStyle.Render(":sort") + spacer +
		keyStyle.Render("p") + descStyle.Render(":rescore") + spacer +
		keyStyle.Render("c") + descStyle.Render(":churn") + spacer +
		keyStyle.Render("d") + descStyle.Render(":profiles") + spacer +
		keyStyle.Render("s") + descStyle.Render(":settings") + spacer +
		keyStyle.Render("?") + descStyle.Render(":help") + spacer +
		keyStyle.Render("q") + descStyle.Render(":quit")

	keysWidth := lipgloss.Width(keys)
	if keysWidth < width {
		keys += bgStyle.Render(strings.Repeat(" ", width-keysWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, topContent, keys)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
