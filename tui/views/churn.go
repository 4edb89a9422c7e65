package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/tui/keys"
	"github.com/tonhe/shadow/tui/styles"
)

// ChurnAction describes what the app should do after a churn view key press.
type ChurnAction int

const (
	// ChurnNone means stay in the churn view.
	ChurnNone ChurnAction = iota
	// ChurnClose means return to the dashboard.
	ChurnClose
	// ChurnOpen means open the detail view for the selected user.
	ChurnOpen
)

// ChurnView is a modal listing the users most at risk of churning.
type ChurnView struct {
	theme  styles.Theme
	sty    *styles.Styles
	users  []metrics.User
	cursor int
	width  int
	height int
}

// NewChurnView creates a new ChurnView with the given theme.
func NewChurnView(theme styles.Theme) ChurnView {
	return ChurnView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetUsers replaces the listed users, keeping at most n.
func (v *ChurnView) SetUsers(users []metrics.User, n int) {
	if n > 0 && len(users) > n {
		users = users[:n]
	}
	v.users = users
	if v.cursor >= len(v.users) {
		v.cursor = max(len(v.users)-1, 0)
	}
}

// SetSize updates the available dimensions for the overlay.
func (v *ChurnView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SelectedUser returns the highlighted user.
func (v ChurnView) SelectedUser() (metrics.User, bool) {
	if v.cursor < 0 || v.cursor >= len(v.users) {
		return metrics.User{}, false
	}
	return v.users[v.cursor], true
}

// Update handles key messages for the churn overlay.
func (v ChurnView) Update(msg tea.Msg) (ChurnView, tea.Cmd, ChurnAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape), key.Matches(msg, keys.DefaultKeyMap.Churn):
			return v, nil, ChurnClose
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.users)-1 {
				v.cursor++
			}
		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if len(v.users) > 0 {
				return v, nil, ChurnOpen
			}
		}
	}
	return v, nil, ChurnNone
}

// View renders the churn list as a centered modal box.
func (v ChurnView) View() string {
	innerWidth := modalWidth(v.width, 44, 64) - 6

	var lines []string
	if len(v.users) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(v.theme.Base04).Render("No users at risk."))
	} else {
		emailWidth := max(innerWidth-2-8-8, 10)
		lines = append(lines, v.sty.TableHeader.Render(
			"  "+padRight("Email", emailWidth)+padLeft("Risk", 8)+padLeft("Idle", 8)))
		for i, u := range v.users {
			cursor := "  "
			if i == v.cursor {
				cursor = "> "
			}
			idle := "-"
			if !u.LastSeen.IsZero() {
				idle = u.LastSeen.Local().Format("01-02")
			}
			rowStyle := v.sty.TableRow
			if i == v.cursor {
				rowStyle = v.sty.TableRowSel
			}
			lines = append(lines, fmt.Sprintf("%s%s%s%s",
				lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true).Render(cursor),
				rowStyle.Render(padRight(truncate(u.Email, emailWidth-1), emailWidth)),
				v.sty.ChurnStyle(u.ChurnRisk).Render(padLeft(fmt.Sprintf("%.2f", u.ChurnRisk), 8)),
				v.sty.TableCellDim.Render(padLeft(idle, 8)),
			))
		}
	}

	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	helpKeyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	help := fmt.Sprintf("%s:detail  %s:close",
		helpKeyStyle.Render("enter"),
		helpKeyStyle.Render("esc"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		"",
		helpStyle.Render(help),
	)
	return renderModal(v.theme, v.sty, "Churn Risk", content, innerWidth, v.width, v.height)
}
