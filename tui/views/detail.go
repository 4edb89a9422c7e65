package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/tui/components"
	"github.com/tonhe/shadow/tui/keys"
	"github.com/tonhe/shadow/tui/styles"
)

// DetailView is a split-screen view showing user information at the top and
// daily event charts at the bottom.
type DetailView struct {
	theme   styles.Theme
	sty     *styles.Styles
	detail  *metrics.UserDetail
	daily   []float64
	days    int
	end     time.Time
	rescore *metrics.RescoreResult
	err     error
	width   int
	height  int
}

// NewDetailView creates a new DetailView with the given theme.
func NewDetailView(theme styles.Theme) DetailView {
	return DetailView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetDetail updates the view with a user's detail and buckets their events
// into days daily counts ending at now.
func (v *DetailView) SetDetail(detail *metrics.UserDetail, days int, now time.Time) {
	if v.detail == nil || detail == nil || v.detail.User.ID != detail.User.ID {
		v.rescore = nil
	}
	v.detail = detail
	v.days = days
	v.end = now
	v.err = nil
	v.daily = nil
	if detail != nil {
		v.daily = metrics.DailyCounts(detail.Events, days, now)
	}
}

// SetRescore records the outcome of a rescore.
func (v *DetailView) SetRescore(res *metrics.RescoreResult) {
	v.rescore = res
	if res != nil && v.detail != nil && v.detail.User.ID == res.User.ID {
		v.detail.User = res.User
	}
}

// SetError records a failure loading or rescoring the user.
func (v *DetailView) SetError(err error) {
	v.err = err
}

// UserID returns the ID of the displayed user, or 0.
func (v DetailView) UserID() int {
	if v.detail == nil {
		return 0
	}
	return v.detail.User.ID
}

// SetSize updates the available dimensions for the view.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key messages for the detail view. The third return value
// indicates whether the user wants to go back (Esc pressed).
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		}
	}
	return v, nil, false
}

// View renders the detail view with an info panel and event charts.
func (v DetailView) View() string {
	if v.detail == nil {
		return v.renderEmpty()
	}
	return v.renderDetail()
}

// renderEmpty shows a placeholder when no user is loaded.
func (v DetailView) renderEmpty() string {
	text := "Loading user..."
	if v.err != nil {
		text = "Error: " + v.err.Error()
	}
	msg := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center).
		Render(text)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderDetail renders the full split-screen detail view.
func (v DetailView) renderDetail() string {
	infoPanel := v.renderInfoPanel()

	infoPanelHeight := lipgloss.Height(infoPanel)
	chartHeight := v.height - infoPanelHeight - 4 // blank, rescore, help
	if chartHeight < 6 {
		chartHeight = 6
	}
	chartWidth := (v.width - 3) / 2 // 3 chars for separator and padding
	if chartWidth < 15 {
		chartWidth = 15
	}

	bars := components.RenderDailyChart(v.daily, v.end, chartWidth, chartHeight,
		fmt.Sprintf("Events per day (%dd)", v.days))
	barsStyled := lipgloss.NewStyle().
		Foreground(v.theme.Base0B).
		Render(bars)

	sparkRows := chartHeight - 1
	smooth := components.BrailleSparkline(v.daily, chartWidth, sparkRows)
	smoothStyled := lipgloss.JoinVertical(lipgloss.Left,
		centerTitle("Trend", chartWidth),
		lipgloss.NewStyle().Foreground(v.theme.Base0C).Render(smooth),
	)

	sep := lipgloss.NewStyle().
		Foreground(v.theme.Base03).
		Render(strings.TrimSuffix(strings.Repeat(" | \n", chartHeight), "\n"))
	chartsSection := lipgloss.JoinHorizontal(lipgloss.Top, barsStyled, sep, smoothStyled)

	return lipgloss.JoinVertical(lipgloss.Left, infoPanel, "", chartsSection, v.renderRescore(), v.renderHelp())
}

// renderInfoPanel renders the user information section at the top.
func (v DetailView) renderInfoPanel() string {
	u := v.detail.User
	labelStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Width(18)
	valueStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	highlightStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	lastSeen := "never"
	if !u.LastSeen.IsZero() {
		lastSeen = u.LastSeen.Local().Format("2006-01-02 15:04")
	}
	unlock := v.detail.PredictedUnlock
	if unlock == "" {
		unlock = "none yet"
	}
	segments := "-"
	if len(u.Segments) > 0 {
		tags := make([]string, len(u.Segments))
		for i, seg := range u.Segments {
			tags[i] = v.sty.SegmentStyle(seg).Render(seg)
		}
		segments = strings.Join(tags, ", ")
	}

	row := func(label, value string, st lipgloss.Style) string {
		return fmt.Sprintf("  %s%s", labelStyle.Render(label), st.Render(value))
	}
	rows := []string{
		"",
		row("User:", u.Email, highlightStyle),
		row("ID:", fmt.Sprintf("%d", u.ID), valueStyle),
		row("Rank:", fmt.Sprintf("%d", u.CurrentRank), valueStyle),
		row("Streak:", fmt.Sprintf("%d days", u.StreakDays), valueStyle),
		row("Last seen:", lastSeen, valueStyle),
		row("Activity:", fmt.Sprintf("%.2f", u.ActivityScore), valueStyle),
		row("Churn risk:", fmt.Sprintf("%.2f (%s)", u.ChurnRisk, metrics.ChurnLabel(u.ChurnRisk)), v.sty.ChurnStyle(u.ChurnRisk)),
		row("Segments:", segments, lipgloss.NewStyle()),
		row("Predicted unlock:", unlock, highlightStyle),
		row("Events:", fmt.Sprintf("%d", len(v.detail.Events)), valueStyle),
	}

	return strings.Join(rows, "\n")
}

// renderRescore renders the last rescore outcome or error.
func (v DetailView) renderRescore() string {
	if v.err != nil {
		return "  " + v.sty.StatusDown.Render("Error: "+v.err.Error())
	}
	if v.rescore == nil {
		return ""
	}
	note := v.sty.StatusUp.Render(v.rescore.Note)
	hook := v.rescore.Webhook
	var hookStr string
	switch {
	case hook.Sent:
		hookStr = v.sty.StatusUp.Render(fmt.Sprintf("webhook sent (%d)", hook.Status))
	case hook.Reason != "":
		hookStr = v.sty.TableCellDim.Render("webhook not sent: " + hook.Reason)
	default:
		hookStr = v.sty.StatusWarn.Render(fmt.Sprintf("webhook failed (%d)", hook.Status))
	}
	return fmt.Sprintf("  %s  %s", note, hookStr)
}

// renderHelp renders a help line at the bottom of the detail view.
func (v DetailView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	return helpStyle.Render(fmt.Sprintf("  %s rescore  %s refresh  %s back",
		keyStyle.Render("[p]"), keyStyle.Render("[r]"), keyStyle.Render("[esc]")))
}

// centerTitle centers s within the given width, padding with spaces.
func centerTitle(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return truncate(s, width)
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-n-pad)
}
