package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/internal/engine"
	"github.com/tonhe/shadow/internal/export"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/tui/components"
	"github.com/tonhe/shadow/tui/keys"
	"github.com/tonhe/shadow/tui/styles"
	"github.com/tonhe/shadow/tui/views"
	"go.uber.org/zap"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateDashboard AppState = iota
	StateSwitcher
	StateDetail
	StateChurn
	StateSettings
)

// requestTimeout bounds one-off source calls made from the UI.
const requestTimeout = 10 * time.Second

// SnapshotMsg carries a snapshot published by the poller.
type SnapshotMsg struct {
	Snapshot *engine.Snapshot
}

// DetailMsg carries a loaded user detail, or the error loading it.
type DetailMsg struct {
	ID     int
	Detail *metrics.UserDetail
	Err    error
}

// RescoreMsg carries the outcome of a rescore request.
type RescoreMsg struct {
	ID     int
	Result *metrics.RescoreResult
	Err    error
}

// ExportMsg reports where an export was written.
type ExportMsg struct {
	Path string
	Err  error
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	state       AppState
	theme       styles.Theme
	config      *config.Config
	cfgPath     string
	poller      *engine.Poller
	events      <-chan engine.Event
	snapshot    *engine.Snapshot
	profilesDir string
	version     string
	log         *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc

	dashboard views.DashboardView
	detail    views.DetailView
	churn     views.ChurnView
	help      views.HelpView
	switcher  views.SwitcherView
	settings  views.SettingsView

	message string
	width   int
	height  int
}

// NewAppModel creates the root model. The caller runs the poller; the model
// only subscribes to it and issues one-off requests.
func NewAppModel(cfg *config.Config, cfgPath string, poller *engine.Poller, profile *dashboard.Profile, profilesDir, version string, log *zap.Logger) AppModel {
	theme := styles.ResolveTheme(cfg.Theme)
	if profile == nil {
		profile = dashboard.DefaultProfile()
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return AppModel{
		state:       StateDashboard,
		theme:       theme,
		config:      cfg,
		cfgPath:     cfgPath,
		poller:      poller,
		events:      poller.Subscribe(),
		snapshot:    poller.Snapshot(),
		profilesDir: profilesDir,
		version:     version,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		dashboard:   views.NewDashboardView(theme, profile),
		detail:      views.NewDetailView(theme),
		churn:       views.NewChurnView(theme),
		help:        views.NewHelpView(theme),
		switcher:    views.NewSwitcherView(theme),
	}
}

// Init starts listening for poller events.
func (m AppModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the next poller event.
func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: ev.Snapshot}
	}
}

// loadDetail fetches a user's detail in the background.
func (m AppModel) loadDetail(id int) tea.Cmd {
	ctx, poller := m.ctx, m.poller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		d, err := poller.User(ctx, id)
		return DetailMsg{ID: id, Detail: d, Err: err}
	}
}

// rescore asks the source to rescore a user in the background.
func (m AppModel) rescore(id int) tea.Cmd {
	ctx, poller := m.ctx, m.poller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		res, err := poller.Rescore(ctx, id)
		return RescoreMsg{ID: id, Result: res, Err: err}
	}
}

// exportUsers writes the current leaderboard to a CSV file.
func (m AppModel) exportUsers() tea.Cmd {
	var users []metrics.User
	if m.snapshot != nil {
		users = m.snapshot.Leaderboard
	}
	return func() tea.Msg {
		dir, err := config.GetExportsDir()
		if err != nil {
			return ExportMsg{Err: err}
		}
		path := filepath.Join(dir, export.FileName(export.FormatCSV, time.Now()))
		if err := export.Write(export.FormatCSV, path, users); err != nil {
			return ExportMsg{Err: err}
		}
		return ExportMsg{Path: path}
	}
}

// churnUsers returns the highest churn risks for the active profile.
func (m AppModel) churnUsers() []metrics.User {
	if m.snapshot == nil {
		return nil
	}
	n := m.dashboard.Profile().ChurnTop
	if len(m.snapshot.Insights.ChurnTop) >= n {
		return m.snapshot.Insights.ChurnTop
	}
	return metrics.TopChurn(m.snapshot.Users, n)
}

// trendDays returns the detail chart span for the active profile.
func (m AppModel) trendDays() int {
	if d := m.dashboard.Profile().TrendDays; d > 0 {
		return d
	}
	return dashboard.DefaultTrendDays
}

// openDetail switches to the detail view for id and starts loading it.
func (m AppModel) openDetail(id int) (AppModel, tea.Cmd) {
	m.state = StateDetail
	m.detail.SetDetail(nil, m.trendDays(), time.Now())
	return m, m.loadDetail(id)
}

// applyTheme rebuilds every view with a new theme. The returned command
// restarts the stat card animation.
func (m *AppModel) applyTheme(slug string) tea.Cmd {
	t := styles.GetThemeByName(slug)
	if t == nil {
		return nil
	}
	m.theme = *t
	styles.SetTheme(*t)

	profile := m.dashboard.Profile()
	m.dashboard = views.NewDashboardView(m.theme, profile)
	m.dashboard.SetSize(m.width, m.bodyHeight())
	cmd := m.dashboard.SetSnapshot(m.snapshot)
	m.detail = views.NewDetailView(m.theme)
	m.detail.SetSize(m.width, m.bodyHeight())
	m.churn = views.NewChurnView(m.theme)
	m.churn.SetSize(m.width, m.bodyHeight())
	m.help = views.NewHelpView(m.theme)
	m.help.SetSize(m.width, m.bodyHeight())
	m.switcher = views.NewSwitcherView(m.theme)
	m.switcher.SetSize(m.width, m.bodyHeight())
	return cmd
}

// bodyHeight is the space between the header and the status bar.
func (m AppModel) bodyHeight() int {
	return max(m.height-3, 1) // 1 header line, 2 status bar lines
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.bodyHeight()
		m.dashboard.SetSize(msg.Width, h)
		m.detail.SetSize(msg.Width, h)
		m.churn.SetSize(msg.Width, h)
		m.help.SetSize(msg.Width, h)
		m.switcher.SetSize(msg.Width, h)
		m.settings.SetSize(msg.Width, h)
		return m, nil

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		cmd := m.dashboard.SetSnapshot(msg.Snapshot)
		if m.state == StateChurn {
			m.churn.SetUsers(m.churnUsers(), m.dashboard.Profile().ChurnTop)
		}
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case views.AnimTickMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd

	case views.ProfileChangedMsg:
		path := dashboard.ProfilePath(m.profilesDir, msg.Profile.Name)
		if names, _ := dashboard.ListProfiles(m.profilesDir); slices.Contains(names, msg.Profile.Name) {
			if err := dashboard.SaveProfile(msg.Profile, path); err != nil {
				m.message = "Save profile failed: " + err.Error()
				m.log.Warn("save profile", zap.String("path", path), zap.Error(err))
			}
		}
		return m, nil

	case DetailMsg:
		if m.state != StateDetail {
			return m, nil
		}
		if msg.Err != nil {
			m.detail.SetError(msg.Err)
			return m, nil
		}
		m.detail.SetDetail(msg.Detail, m.trendDays(), time.Now())
		return m, nil

	case RescoreMsg:
		if msg.Err != nil {
			m.message = fmt.Sprintf("Rescore %d failed: %v", msg.ID, msg.Err)
			if m.state == StateDetail && m.detail.UserID() == msg.ID {
				m.detail.SetError(msg.Err)
			}
			return m, nil
		}
		m.message = msg.Result.Note
		if m.state == StateDetail && m.detail.UserID() == msg.ID {
			m.detail.SetRescore(msg.Result)
			return m, m.loadDetail(msg.ID)
		}
		return m, nil

	case ExportMsg:
		if msg.Err != nil {
			m.message = "Export failed: " + msg.Err.Error()
			m.log.Warn("export", zap.Error(msg.Err))
		} else {
			m.message = "Exported " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}

		if m.help.IsVisible() {
			if key.Matches(msg, keys.DefaultKeyMap.Help) || key.Matches(msg, keys.DefaultKeyMap.Escape) {
				m.help.Toggle()
			}
			return m, nil
		}

		switch m.state {
		case StateDashboard:
			return m.updateDashboard(msg)

		case StateDetail:
			if key.Matches(msg, keys.DefaultKeyMap.Rescore) {
				if id := m.detail.UserID(); id != 0 {
					return m, m.rescore(id)
				}
				return m, nil
			}
			if key.Matches(msg, keys.DefaultKeyMap.Refresh) {
				if id := m.detail.UserID(); id != 0 {
					return m, m.loadDetail(id)
				}
				return m, nil
			}
			if key.Matches(msg, keys.DefaultKeyMap.Help) {
				m.help.Toggle()
				return m, nil
			}
			var back bool
			var cmd tea.Cmd
			m.detail, cmd, back = m.detail.Update(msg)
			if back {
				m.state = StateDashboard
			}
			return m, cmd

		case StateChurn:
			var cmd tea.Cmd
			var action views.ChurnAction
			m.churn, cmd, action = m.churn.Update(msg)
			switch action {
			case views.ChurnClose:
				m.state = StateDashboard
			case views.ChurnOpen:
				if u, ok := m.churn.SelectedUser(); ok {
					return m.openDetail(u.ID)
				}
			}
			return m, cmd

		case StateSwitcher:
			var cmd tea.Cmd
			var action views.SwitcherAction
			m.switcher, cmd, action = m.switcher.Update(msg)
			switch action {
			case views.ActionClose:
				m.state = StateDashboard
			case views.ActionSwitch:
				if item := m.switcher.SelectedItem(); item != nil {
					m.dashboard.SetProfile(item.Profile)
					m.message = "Switched to profile " + item.Name
					m.log.Info("profile switched", zap.String("profile", item.Name))
				}
				m.state = StateDashboard
			}
			return m, cmd

		case StateSettings:
			var cmd tea.Cmd
			var action views.SettingsAction
			m.settings, cmd, action = m.settings.Update(msg)
			switch action {
			case views.SettingsClose:
				m.state = StateDashboard
			case views.SettingsSaved:
				cmd = tea.Batch(cmd, m.applyTheme(m.settings.SavedTheme))
				m.message = "Settings saved; backend and interval apply on restart"
				m.state = StateDashboard
			}
			return m, cmd
		}
	}
	return m, nil
}

// updateDashboard handles keys on the main screen.
func (m AppModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.DefaultKeyMap.Help):
		m.help.Toggle()
		return m, nil

	case key.Matches(msg, keys.DefaultKeyMap.Enter):
		if u, ok := m.dashboard.SelectedUser(); ok {
			return m.openDetail(u.ID)
		}
		return m, nil

	case key.Matches(msg, keys.DefaultKeyMap.Rescore):
		if u, ok := m.dashboard.SelectedUser(); ok {
			m.message = "Rescoring " + u.Email + "..."
			return m, m.rescore(u.ID)
		}
		return m, nil

	case key.Matches(msg, keys.DefaultKeyMap.Refresh):
		m.poller.Refresh()
		m.message = "Refreshing..."
		return m, nil

	case key.Matches(msg, keys.DefaultKeyMap.Export):
		return m, m.exportUsers()

	case key.Matches(msg, keys.DefaultKeyMap.Churn):
		m.churn.SetUsers(m.churnUsers(), m.dashboard.Profile().ChurnTop)
		m.state = StateChurn
		return m, nil

	case key.Matches(msg, keys.DefaultKeyMap.Profiles):
		m.switcher.Refresh(m.profilesDir, m.dashboard.Profile().Name)
		m.state = StateSwitcher
		return m, nil

	case key.Matches(msg, keys.DefaultKeyMap.Settings):
		m.settings = views.NewSettingsView(m.theme, m.config, m.cfgPath)
		m.settings.SetSize(m.width, m.bodyHeight())
		m.state = StateSettings
		return m, nil
	}

	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	return m, cmd
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sourceName := m.poller.Source().Name()
	running := m.snapshot != nil && m.snapshot.Running
	header := components.RenderHeader(
		m.theme,
		m.dashboard.Profile().Name,
		sourceName,
		running,
		m.width,
		m.version,
	)

	var body string
	switch m.state {
	case StateDashboard:
		body = m.dashboard.View()
	case StateDetail:
		body = m.detail.View()
	case StateChurn:
		body = m.churn.View()
	case StateSwitcher:
		body = m.switcher.View()
	case StateSettings:
		body = m.settings.View()
	}
	if m.help.IsVisible() {
		body = m.help.View()
	}

	var (
		lastPoll   time.Time
		pollErr    error
		errorCount int
	)
	if m.snapshot != nil {
		lastPoll = m.snapshot.LastPoll
		pollErr = m.snapshot.PollError
		errorCount = m.snapshot.ErrorCount
	}
	statusBar := components.RenderStatusBar(m.theme, m.config.PollInterval, lastPoll, pollErr, errorCount, m.message, m.width)

	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}
