package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/tui/styles"
)

// padRight pads s with spaces on the right to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:max(width, 0)])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// padLeft pads s with spaces on the left to the given width.
func padLeft(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:max(width, 0)])
	}
	return strings.Repeat(" ", width-len(r)) + s
}

// truncate shortens s to maxLen characters, adding an ellipsis if needed.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// modalWidth picks a modal width between lo and hi, about half the screen.
func modalWidth(screen, lo, hi int) int {
	w := lo
	if screen > 60 {
		w = min(screen/2, hi)
	}
	return max(w, lo)
}

// renderModal draws content in a rounded box with title embedded in the top
// border, centered in width x height.
func renderModal(theme styles.Theme, sty *styles.Styles, title, content string, innerWidth, width, height int) string {
	noTopBorder := sty.ModalBorder.BorderTop(false)
	modalBody := noTopBorder.Width(innerWidth).Render(content)

	borderFg := lipgloss.NewStyle().Foreground(theme.Base0D).Background(theme.Base00)
	titleText := " " + title + " "
	titleRendered := sty.ModalTitle.Render(titleText)

	fullWidth := lipgloss.Width(modalBody)
	rightDashes := fullWidth - 2 - 1 - lipgloss.Width(titleText) // corners(2) + one dash + title
	if rightDashes < 0 {
		rightDashes = 0
	}
	topBorder := borderFg.Render("╭─") + titleRendered + borderFg.Render(strings.Repeat("─", rightDashes)+"╮")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, topBorder+"\n"+modalBody)
}
