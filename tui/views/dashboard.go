package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/internal/engine"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/tui/components"
	"github.com/tonhe/shadow/tui/keys"
	"github.com/tonhe/shadow/tui/styles"
)

// Column width constants (minimum widths).
const (
	colPos      = 4
	colEmail    = 24
	colRank     = 6
	colStreak   = 8
	colActivity = 10
	colChurn    = 8
	colSegments = 18
	colTrendMin = 12

	colEventName  = 10
	colEventCount = 9
	colEventDelta = 8
	eventSparkMax = 40
)

// AtRiskThreshold is the churn risk counted as at risk on the stat cards.
const AtRiskThreshold = 0.6

const timePerFrame = time.Second / components.AnimationFPS

// Panel identifies which dashboard panel has focus.
type Panel int

const (
	PanelLeaderboard Panel = iota
	PanelEvents
)

// Stat card indices.
const (
	cardUsers = iota
	cardEvents
	cardActivity
	cardAtRisk
	cardCount
)

// AnimTickMsg advances the stat card count-up animation by one frame.
type AnimTickMsg struct{}

// ProfileChangedMsg reports that the user edited the active profile in place.
type ProfileChangedMsg struct {
	Profile *dashboard.Profile
}

// DashboardView shows stat cards, event totals and the user leaderboard.
type DashboardView struct {
	theme     styles.Theme
	sty       *styles.Styles
	snapshot  *engine.Snapshot
	profile   *dashboard.Profile
	sortKey   dashboard.SortKey
	rows      []metrics.User
	cards     [cardCount]components.CountUp
	animating bool
	focus     Panel
	cursor    int
	eventIdx  int
	width     int
	height    int
	offset    int // scroll offset for vertical scrolling
}

// NewDashboardView creates a new DashboardView with the given theme and profile.
func NewDashboardView(theme styles.Theme, profile *dashboard.Profile) DashboardView {
	if profile == nil {
		profile = dashboard.DefaultProfile()
	}
	v := DashboardView{
		theme:   theme,
		sty:     styles.NewStyles(theme),
		profile: profile,
		sortKey: profile.Sort,
	}
	for i := range v.cards {
		v.cards[i] = components.NewCountUp()
	}
	return v
}

// Update handles key messages for navigation, sorting and pinning.
func (v DashboardView) Update(msg tea.Msg) (DashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case AnimTickMsg:
		return v, v.stepAnimation()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Tab):
			if v.focus == PanelLeaderboard {
				v.focus = PanelEvents
			} else {
				v.focus = PanelLeaderboard
			}
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.focus == PanelEvents {
				if v.eventIdx > 0 {
					v.eventIdx--
				}
			} else if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.focus == PanelEvents {
				if v.eventIdx < len(metrics.AllEventTypes) {
					v.eventIdx++
				}
			} else if v.cursor < len(v.rows)-1 {
				v.cursor++
				v.ensureVisible()
			}
		case key.Matches(msg, keys.DefaultKeyMap.Sort):
			v.sortKey = v.sortKey.Next()
			v.applyProfile()
		case key.Matches(msg, keys.DefaultKeyMap.Pin):
			if u, ok := v.SelectedUser(); ok {
				v.profile.TogglePin(u.ID)
				v.applyProfile()
				prof := v.profile
				return v, func() tea.Msg { return ProfileChangedMsg{Profile: prof} }
			}
		}
	}
	return v, nil
}

// SetSnapshot updates the dashboard data, re-applies the profile and retargets
// the stat card animation.
func (v *DashboardView) SetSnapshot(snap *engine.Snapshot) tea.Cmd {
	v.snapshot = snap
	v.applyProfile()
	if snap == nil {
		return nil
	}

	targets := [cardCount]float64{
		cardUsers:    float64(len(snap.Users)),
		cardEvents:   float64(snap.Insights.Total()),
		cardActivity: snap.AverageActivity(),
		cardAtRisk:   float64(snap.AtRisk(AtRiskThreshold)),
	}
	for i := range v.cards {
		v.cards[i].SetTarget(targets[i])
	}
	return v.startAnimation()
}

// SetProfile switches the active profile.
func (v *DashboardView) SetProfile(p *dashboard.Profile) {
	if p == nil {
		p = dashboard.DefaultProfile()
	}
	v.profile = p
	v.sortKey = p.Sort
	v.cursor = 0
	v.offset = 0
	v.applyProfile()
}

// Profile returns the active profile.
func (v DashboardView) Profile() *dashboard.Profile {
	return v.profile
}

// SortKey returns the current leaderboard ordering.
func (v DashboardView) SortKey() dashboard.SortKey {
	return v.sortKey
}

// Rows returns the users currently listed.
func (v DashboardView) Rows() []metrics.User {
	return v.rows
}

// SelectedUser returns the user under the cursor.
func (v DashboardView) SelectedUser() (metrics.User, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return metrics.User{}, false
	}
	return v.rows[v.cursor], true
}

// SetSize updates the available dimensions for the view.
func (v *DashboardView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ensureVisible()
}

// applyProfile recomputes the listed rows and clamps the cursor.
func (v *DashboardView) applyProfile() {
	if v.snapshot == nil {
		v.rows = nil
		v.cursor = 0
		return
	}
	p := *v.profile
	p.Sort = v.sortKey
	v.rows = p.Apply(v.snapshot.Users)
	if v.cursor >= len(v.rows) {
		v.cursor = max(len(v.rows)-1, 0)
	}
	v.ensureVisible()
}

func (v *DashboardView) startAnimation() tea.Cmd {
	if v.animating {
		return nil
	}
	for _, c := range v.cards {
		if !c.Settled() {
			v.animating = true
			return animTick()
		}
	}
	return nil
}

func (v *DashboardView) stepAnimation() tea.Cmd {
	settled := true
	for i := range v.cards {
		v.cards[i].Step()
		if !v.cards[i].Settled() {
			settled = false
		}
	}
	if settled {
		v.animating = false
		return nil
	}
	return animTick()
}

func animTick() tea.Cmd {
	return tea.Tick(timePerFrame, func(_ time.Time) tea.Msg { return AnimTickMsg{} })
}

// View renders the dashboard view.
func (v DashboardView) View() string {
	if v.snapshot == nil || (len(v.snapshot.Users) == 0 && v.snapshot.PollCount == 0) {
		return v.renderEmpty()
	}
	cards := v.renderCards()
	events := v.renderEvents()
	used := lipgloss.Height(cards) + lipgloss.Height(events) + 1
	table := v.renderTable(v.height - used)
	return lipgloss.JoinVertical(lipgloss.Left, cards, events, "", table)
}

// fixedSections is the number of lines above the leaderboard rows.
func (v DashboardView) fixedSections() int {
	// cards (3) + events title, rows and "all" + blank + table title and header
	return 3 + 1 + len(metrics.AllEventTypes) + 1 + 1 + 2
}

// ensureVisible adjusts the scroll offset so the cursor row is visible.
func (v *DashboardView) ensureVisible() {
	visible := v.height - v.fixedSections()
	if visible < 1 {
		visible = 1
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}

// renderCards renders the animated stat cards in a row.
func (v DashboardView) renderCards() string {
	type card struct {
		label, value, extra string
	}
	delta := ""
	if d := v.snapshot.Delta; d.Total > 0 {
		delta = fmt.Sprintf(" +%d", d.Total)
	}
	cs := []card{
		{"Users", fmt.Sprintf("%.0f", v.cards[cardUsers].Value()), ""},
		{"Events", fmt.Sprintf("%.0f", v.cards[cardEvents].Value()), delta},
		{"Avg Activity", fmt.Sprintf("%.2f", v.cards[cardActivity].Value()), ""},
		{"At Risk", fmt.Sprintf("%.0f", v.cards[cardAtRisk].Value()), ""},
	}

	cardWidth := max((v.width-2)/len(cs)-2, 14)
	rendered := make([]string, len(cs))
	for i, c := range cs {
		body := v.sty.StatLabel.Render(c.label+": ") + v.sty.StatValue.Render(c.value)
		if c.extra != "" {
			body += v.sty.StatDelta.Render(c.extra)
		}
		rendered[i] = v.sty.StatCard.Width(cardWidth).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderEvents renders per-type event totals with a braille sparkline of
// their history.
func (v DashboardView) renderEvents() string {
	sparkWidth := min(max(v.width-colEventName-colEventCount-colEventDelta-4, colTrendMin), eventSparkMax)

	title := "Events"
	if v.focus == PanelEvents {
		title = "> Events"
	}
	lines := []string{v.sty.PanelHeader.Render(title)}

	type eventRow struct {
		name   string
		count  int
		delta  int
		series []float64
		spark  lipgloss.Style
	}
	rows := make([]eventRow, 0, len(metrics.AllEventTypes)+1)
	for _, t := range metrics.AllEventTypes {
		rows = append(rows, eventRow{
			name:   string(t),
			count:  v.snapshot.Insights.Events[t],
			delta:  v.snapshot.Delta.Counts[t],
			series: v.snapshot.TotalSeries(t),
			spark:  v.sty.EventStyle(t),
		})
	}
	rows = append(rows, eventRow{
		name:   "all",
		count:  v.snapshot.Insights.Total(),
		delta:  v.snapshot.Delta.Total,
		series: v.snapshot.GrandTotalSeries(),
		spark:  v.sty.SparklineStyle,
	})

	for i, r := range rows {
		style := v.sty.TableRow
		if v.focus == PanelEvents && i == v.eventIdx {
			style = v.sty.TableRowSel
		}
		delta := ""
		if r.delta > 0 {
			delta = fmt.Sprintf("+%d", r.delta)
		}
		spark := r.spark.Render(components.BrailleSparkline(r.series, sparkWidth, 1))
		lines = append(lines, fmt.Sprintf("%s%s%s %s",
			style.Render(padRight(r.name, colEventName)),
			style.Render(padLeft(components.FormatCount(float64(r.count)), colEventCount)),
			v.sty.StatDelta.Render(padLeft(delta, colEventDelta)),
			spark,
		))
	}
	return strings.Join(lines, "\n")
}

// columnWidths calculates responsive column widths based on terminal width.
// The trend column gets all remaining space.
func (v DashboardView) columnWidths() (pos, email, rank, streak, activity, churn, segments, trend int) {
	pos = colPos
	email = colEmail
	rank = colRank
	streak = colStreak
	activity = colActivity
	churn = colChurn
	segments = colSegments

	fixed := pos + email + rank + streak + activity + churn + segments
	trend = v.width - fixed
	if trend < colTrendMin {
		trend = colTrendMin
	}
	return
}

// renderTable renders the leaderboard header and the visible user rows.
func (v DashboardView) renderTable(visible int) string {
	wPos, wEmail, wRank, wStreak, wAct, wChurn, wSeg, wTrend := v.columnWidths()

	var lines []string

	headerStyle := v.sty.TableHeader
	title := fmt.Sprintf("Leaderboard (%s, sort: %s)", v.profile.Name, v.sortKey)
	if v.focus == PanelLeaderboard {
		title = "> " + title
	}
	lines = append(lines, v.sty.PanelHeader.Render(title))
	header := fmt.Sprintf(
		"%s%s%s%s%s%s%s%s",
		headerStyle.Render(padRight("#", wPos)),
		headerStyle.Render(padRight("Email", wEmail)),
		headerStyle.Render(padLeft("Rank", wRank)),
		headerStyle.Render(padLeft("Streak", wStreak)),
		headerStyle.Render(padLeft("Activity", wAct)),
		headerStyle.Render(padLeft("Churn", wChurn)),
		headerStyle.Render(padRight("  Segments", wSeg)),
		headerStyle.Render(padRight("Trend", wTrend)),
	)
	lines = append(lines, header)

	if len(v.rows) == 0 {
		lines = append(lines, v.sty.TableCellDim.Render("  no users"))
		return strings.Join(lines, "\n")
	}

	visible -= 2
	if visible < 1 {
		visible = 1
	}
	start := v.offset
	end := min(start+visible, len(v.rows))
	for i := start; i < end; i++ {
		lines = append(lines, v.renderUserRow(i, v.rows[i], wPos, wEmail, wRank, wStreak, wAct, wChurn, wSeg, wTrend))
	}
	return strings.Join(lines, "\n")
}

// renderUserRow renders a single leaderboard row.
func (v DashboardView) renderUserRow(idx int, u metrics.User, wPos, wEmail, wRank, wStreak, wAct, wChurn, wSeg, wTrend int) string {
	selected := v.focus == PanelLeaderboard && idx == v.cursor
	rowStyle := v.sty.TableRow
	if selected {
		rowStyle = v.sty.TableRowSel
	}
	withSel := func(st lipgloss.Style) lipgloss.Style {
		if selected {
			return st.Background(v.theme.Base02)
		}
		return st
	}

	marker := fmt.Sprintf("%d", idx+1)
	posStyle := rowStyle
	if v.profile.IsPinned(u.ID) {
		marker = "*"
		posStyle = withSel(v.sty.Pinned)
	}

	churnText := fmt.Sprintf("%.2f", u.ChurnRisk)
	segs := "  " + strings.Join(u.Segments, ",")
	trend := components.BrailleSparkline(v.snapshot.Trends[u.ID], wTrend-1, 1)

	return fmt.Sprintf("%s%s%s%s%s%s%s%s",
		posStyle.Render(padRight(marker, wPos)),
		rowStyle.Render(padRight(truncate(u.Email, wEmail-1), wEmail)),
		rowStyle.Render(padLeft(fmt.Sprintf("%d", u.CurrentRank), wRank)),
		rowStyle.Render(padLeft(fmt.Sprintf("%d", u.StreakDays), wStreak)),
		rowStyle.Render(padLeft(fmt.Sprintf("%.2f", u.ActivityScore), wAct)),
		withSel(v.sty.ChurnStyle(u.ChurnRisk)).Render(padLeft(churnText, wChurn)),
		withSel(v.sty.Segment).Render(padRight(truncate(segs, wSeg-1), wSeg)),
		withSel(v.sty.SparklineStyle).Render(" "+trend),
	)
}

// renderEmpty renders a centered message before the first poll completes.
func (v DashboardView) renderEmpty() string {
	msgStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center)

	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	msg := lipgloss.JoinVertical(lipgloss.Center,
		"",
		msgStyle.Render("Waiting for data"),
		"",
		msgStyle.Render(fmt.Sprintf(
			"Press %s to refresh now",
			keyStyle.Render("[r]"),
		)),
		msgStyle.Render(fmt.Sprintf(
			"or %s to configure a backend",
			keyStyle.Render("[s]"),
		)),
		"",
	)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}
