package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/tui/styles"
)

// HelpView renders a modal overlay showing all keyboard shortcuts.
type HelpView struct {
	theme   styles.Theme
	sty     *styles.Styles
	width   int
	height  int
	visible bool
}

// NewHelpView creates a new HelpView with the given theme.
func NewHelpView(theme styles.Theme) HelpView {
	return HelpView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Toggle flips the help overlay visibility.
func (v *HelpView) Toggle() {
	v.visible = !v.visible
}

// IsVisible returns whether the help overlay is currently shown.
func (v HelpView) IsVisible() bool {
	return v.visible
}

// SetSize updates the available dimensions for the overlay.
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the help overlay as a centered modal box.
func (v HelpView) View() string {
	innerWidth := modalWidth(v.width, 40, 56) - 6

	sectionStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0E).
		Bold(true)
	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	dimStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04)

	bindingLine := func(keys, desc string) string {
		return fmt.Sprintf("  %s  %s",
			keyStyle.Render(padRight(keys, 14)),
			descStyle.Render(desc),
		)
	}

	var lines []string

	lines = append(lines, sectionStyle.Render("Global"))
	lines = append(lines, bindingLine("Ctrl+C", "Quit"))
	lines = append(lines, bindingLine("?", "Toggle this help"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("Dashboard"))
	lines = append(lines, bindingLine("q", "Quit"))
	lines = append(lines, bindingLine("Up / Down", "Move selection"))
	lines = append(lines, bindingLine("Tab", "Switch panel"))
	lines = append(lines, bindingLine("Enter", "User detail"))
	lines = append(lines, bindingLine("o", "Cycle sort order"))
	lines = append(lines, bindingLine("f", "Pin / unpin user"))
	lines = append(lines, bindingLine("p", "Rescore user"))
	lines = append(lines, bindingLine("c", "Churn risk list"))
	lines = append(lines, bindingLine("x", "Export users to CSV"))
	lines = append(lines, bindingLine("d", "Profile switcher"))
	lines = append(lines, bindingLine("s", "Settings"))
	lines = append(lines, bindingLine("r", "Force refresh"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("Detail View"))
	lines = append(lines, bindingLine("p", "Rescore"))
	lines = append(lines, bindingLine("Esc", "Back to dashboard"))
	lines = append(lines, "")

	lines = append(lines, dimStyle.Render("[?] close"))

	return renderModal(v.theme, v.sty, "Keyboard Shortcuts", strings.Join(lines, "\n"), innerWidth, v.width, v.height)
}
