package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/tui/keys"
	"github.com/tonhe/shadow/tui/styles"
)

// SwitcherAction describes what the app should do after a switcher key press.
type SwitcherAction int

const (
	// ActionNone means no action needed.
	ActionNone SwitcherAction = iota
	// ActionClose means the user wants to dismiss the switcher.
	ActionClose
	// ActionSwitch means the user selected a profile to switch to.
	ActionSwitch
)

// SwitcherItem represents a single profile entry in the switcher list.
type SwitcherItem struct {
	Name    string
	Profile *dashboard.Profile
	Active  bool
	Err     error
}

// SwitcherView is a modal overlay that lists saved profiles and lets the
// user switch between them.
type SwitcherView struct {
	theme  styles.Theme
	sty    *styles.Styles
	items  []SwitcherItem
	cursor int
	width  int
	height int
}

// NewSwitcherView creates a new SwitcherView with the given theme.
func NewSwitcherView(theme styles.Theme) SwitcherView {
	return SwitcherView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Refresh scans the profiles directory. The built-in default profile is
// always listed first unless a saved profile shadows it.
func (v *SwitcherView) Refresh(dir, active string) {
	v.items = nil

	names, _ := dashboard.ListProfiles(dir)
	hasDefault := false
	for _, name := range names {
		if name == dashboard.DefaultProfile().Name {
			hasDefault = true
		}
	}
	if !hasDefault {
		v.items = append(v.items, SwitcherItem{
			Name:    dashboard.DefaultProfile().Name,
			Profile: dashboard.DefaultProfile(),
		})
	}
	for _, name := range names {
		item := SwitcherItem{Name: name}
		item.Profile, item.Err = dashboard.LoadNamed(dir, name)
		v.items = append(v.items, item)
	}

	for i := range v.items {
		if v.items[i].Name == active {
			v.items[i].Active = true
			v.cursor = i
		}
	}
	if v.cursor >= len(v.items) {
		v.cursor = len(v.items) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// SetSize updates the available dimensions for the overlay.
func (v *SwitcherView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SelectedItem returns the currently highlighted item, or nil if the list is
// empty.
func (v *SwitcherView) SelectedItem() *SwitcherItem {
	if len(v.items) == 0 {
		return nil
	}
	return &v.items[v.cursor]
}

// Update handles key messages for the switcher overlay.
func (v SwitcherView) Update(msg tea.Msg) (SwitcherView, tea.Cmd, SwitcherAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, ActionClose

		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}

		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}

		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if item := v.SelectedItem(); item != nil && item.Err == nil {
				return v, nil, ActionSwitch
			}
		}
	}
	return v, nil, ActionNone
}

// View renders the switcher as a centered modal box.
func (v SwitcherView) View() string {
	innerWidth := modalWidth(v.width, 36, 60) - 6

	var lines []string
	for i, item := range v.items {
		lines = append(lines, v.renderItem(item, i == v.cursor, innerWidth))
	}

	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	helpKeyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	help := fmt.Sprintf("%s:switch  %s:close",
		helpKeyStyle.Render("enter"),
		helpKeyStyle.Render("esc"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		"",
		helpStyle.Render(help),
	)
	return renderModal(v.theme, v.sty, "Profiles", content, innerWidth, v.width, v.height)
}

// renderItem renders a single profile line.
func (v SwitcherView) renderItem(item SwitcherItem, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	cursorStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)

	nameStyle := lipgloss.NewStyle().Foreground(v.theme.Base05)
	if selected {
		nameStyle = nameStyle.Foreground(v.theme.Base06).Bold(true)
	}

	var status string
	var statusStyle lipgloss.Style
	switch {
	case item.Err != nil:
		status = "invalid"
		statusStyle = v.sty.StatusDown
	case item.Active:
		status = "* active"
		statusStyle = v.sty.StatusUp
	default:
		status = fmt.Sprintf("%s, %d", item.Profile.Sort, item.Profile.Limit)
		if item.Profile.Limit <= 0 {
			status = fmt.Sprintf("%s, all", item.Profile.Sort)
		}
		statusStyle = v.sty.TableCellDim
	}

	padLen := width - len(cursor) - len([]rune(item.Name)) - len([]rune(status))
	if padLen < 2 {
		padLen = 2
	}
	return cursorStyle.Render(cursor) + nameStyle.Render(item.Name) +
		strings.Repeat(" ", padLen) + statusStyle.Render(status)
}
