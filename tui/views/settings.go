package views

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/tui/keys"
	"github.com/tonhe/shadow/tui/styles"
)

// SettingsAction describes what the app should do after a settings update.
type SettingsAction int

const (
	// SettingsNone means continue in the settings view.
	SettingsNone SettingsAction = iota
	// SettingsClose means the user cancelled without saving.
	SettingsClose
	// SettingsSaved means the config was saved; the app should apply changes.
	SettingsSaved
)

// Settings field indices.
const (
	settingsFieldTheme    = 0
	settingsFieldInterval = 1
	settingsFieldHistory  = 2
	settingsFieldBackend  = 3
	settingsFieldWebhook  = 4
	settingsFieldCount    = 5
)

// SettingsView is a full-screen settings editor with a live theme preview.
type SettingsView struct {
	theme   styles.Theme
	sty     *styles.Styles
	config  *config.Config
	cfgPath string

	themeIndex int // index into styles.ListThemes()
	cursor     int // which setting row is focused

	width  int
	height int

	intervalInput textinput.Model
	historyInput  textinput.Model
	backendInput  textinput.Model
	webhookInput  textinput.Model

	err        string
	SavedTheme string // theme slug after save, so the app can apply it
}

func newSettingsInput(placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	in.SetValue(value)
	return in
}

// NewSettingsView creates a SettingsView populated from cfg. Saving writes
// the config to cfgPath.
func NewSettingsView(theme styles.Theme, cfg *config.Config, cfgPath string) SettingsView {
	themeIdx := styles.GetThemeIndex(cfg.Theme)
	if themeIdx < 0 {
		themeIdx = 0
	}

	return SettingsView{
		theme:         theme,
		sty:           styles.NewStyles(theme),
		config:        cfg,
		cfgPath:       cfgPath,
		themeIndex:    themeIdx,
		intervalInput: newSettingsInput("10s", cfg.PollInterval.String(), 16),
		historyInput:  newSettingsInput("60", strconv.Itoa(cfg.MaxHistory), 8),
		backendInput:  newSettingsInput("http://localhost:8000 (empty for mock)", cfg.BackendURL, 256),
		webhookInput:  newSettingsInput("empty uses $WEBHOOK_URL", cfg.WebhookURL, 256),
	}
}

// SetSize updates the available dimensions for the settings view.
func (s *SettingsView) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Err returns the last validation or save error shown to the user.
func (s SettingsView) Err() string {
	return s.err
}

// selectedThemeSlug returns the slug of the currently selected theme.
func (s SettingsView) selectedThemeSlug() string {
	themes := styles.ListThemes()
	if s.themeIndex >= 0 && s.themeIndex < len(themes) {
		return themes[s.themeIndex]
	}
	return ""
}

// selectedTheme returns the Theme struct for the currently selected theme.
func (s SettingsView) selectedTheme() styles.Theme {
	if t := styles.GetThemeByIndex(s.themeIndex); t != nil {
		return *t
	}
	return styles.DefaultTheme
}

// focusInput blurs all inputs and focuses the one at the cursor position.
func (s *SettingsView) focusInput() {
	s.intervalInput.Blur()
	s.historyInput.Blur()
	s.backendInput.Blur()
	s.webhookInput.Blur()

	switch s.cursor {
	case settingsFieldInterval:
		s.intervalInput.Focus()
	case settingsFieldHistory:
		s.historyInput.Focus()
	case settingsFieldBackend:
		s.backendInput.Focus()
	case settingsFieldWebhook:
		s.webhookInput.Focus()
	}
}

// cycleTheme moves the theme selection by delta, wrapping around.
func (s *SettingsView) cycleTheme(delta int) {
	n := styles.GetThemeCount()
	s.themeIndex = ((s.themeIndex+delta)%n + n) % n
	s.theme = s.selectedTheme()
	s.sty = styles.NewStyles(s.theme)
}

// Update handles messages for the settings view. Only the arrow keys move
// between rows so that letters can be typed into the URL fields.
func (s SettingsView) Update(msg tea.Msg) (SettingsView, tea.Cmd, SettingsAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return s, nil, SettingsClose

		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			return s.save()

		case msg.Type == tea.KeyUp:
			if s.cursor > 0 {
				s.cursor--
				s.focusInput()
			}
			return s, nil, SettingsNone

		case msg.Type == tea.KeyDown:
			if s.cursor < settingsFieldCount-1 {
				s.cursor++
				s.focusInput()
			}
			return s, nil, SettingsNone

		case msg.Type == tea.KeyTab:
			s.cursor = (s.cursor + 1) % settingsFieldCount
			s.focusInput()
			return s, nil, SettingsNone

		case msg.Type == tea.KeyShiftTab:
			s.cursor = (s.cursor + settingsFieldCount - 1) % settingsFieldCount
			s.focusInput()
			return s, nil, SettingsNone

		case s.cursor == settingsFieldTheme && (msg.Type == tea.KeyLeft || msg.String() == "h"):
			s.cycleTheme(-1)
			return s, nil, SettingsNone

		case s.cursor == settingsFieldTheme && (msg.Type == tea.KeyRight || msg.String() == "l"):
			s.cycleTheme(1)
			return s, nil, SettingsNone

		default:
			return s.updateTextInput(msg)
		}
	}
	return s, nil, SettingsNone
}

// updateTextInput dispatches a key message to the currently focused text input.
func (s SettingsView) updateTextInput(msg tea.Msg) (SettingsView, tea.Cmd, SettingsAction) {
	var cmd tea.Cmd
	switch s.cursor {
	case settingsFieldInterval:
		s.intervalInput, cmd = s.intervalInput.Update(msg)
	case settingsFieldHistory:
		s.historyInput, cmd = s.historyInput.Update(msg)
	case settingsFieldBackend:
		s.backendInput, cmd = s.backendInput.Update(msg)
	case settingsFieldWebhook:
		s.webhookInput, cmd = s.webhookInput.Update(msg)
	}
	return s, cmd, SettingsNone
}

// validURL accepts an empty string or an absolute http(s) URL.
func validURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// save validates and persists the config to disk.
func (s SettingsView) save() (SettingsView, tea.Cmd, SettingsAction) {
	intervalStr := strings.TrimSpace(s.intervalInput.Value())
	if intervalStr == "" {
		intervalStr = "10s"
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		s.err = fmt.Sprintf("Invalid poll interval: %v", err)
		return s, nil, SettingsNone
	}
	if interval < time.Second {
		s.err = "Poll interval must be at least 1s"
		return s, nil, SettingsNone
	}

	historyStr := strings.TrimSpace(s.historyInput.Value())
	if historyStr == "" {
		historyStr = "60"
	}
	maxHistory, err := strconv.Atoi(historyStr)
	if err != nil || maxHistory < 2 {
		s.err = "Max history must be an integer of at least 2"
		return s, nil, SettingsNone
	}

	backend := strings.TrimRight(strings.TrimSpace(s.backendInput.Value()), "/")
	if !validURL(backend) {
		s.err = "Backend URL must be an http(s) URL"
		return s, nil, SettingsNone
	}
	webhook := strings.TrimSpace(s.webhookInput.Value())
	if !validURL(webhook) {
		s.err = "Webhook URL must be an http(s) URL"
		return s, nil, SettingsNone
	}

	s.config.Theme = s.selectedThemeSlug()
	s.config.PollInterval = interval
	s.config.MaxHistory = maxHistory
	s.config.BackendURL = backend
	s.config.WebhookURL = webhook

	if err := os.MkdirAll(filepath.Dir(s.cfgPath), 0o755); err != nil {
		s.err = fmt.Sprintf("Failed to create directories: %v", err)
		return s, nil, SettingsNone
	}
	if err := config.SaveConfig(s.config, s.cfgPath); err != nil {
		s.err = fmt.Sprintf("Failed to save config: %v", err)
		return s, nil, SettingsNone
	}

	s.SavedTheme = s.config.Theme
	s.err = ""
	return s, nil, SettingsSaved
}

// View renders the settings screen.
func (s SettingsView) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(s.theme.Base0D).
		Bold(true)
	labelStyle := s.sty.FormLabel
	activeLabelStyle := lipgloss.NewStyle().
		Foreground(s.theme.Base0D).
		Bold(true)
	valStyle := lipgloss.NewStyle().
		Foreground(s.theme.Base06)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Settings") + "\n")
	b.WriteString("\n")

	if s.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(s.theme.Base08)
		b.WriteString("  " + errStyle.Render(s.err) + "\n\n")
	}

	themeSlug := s.selectedThemeSlug()
	themeName := themeSlug
	if t := styles.GetThemeByName(themeSlug); t != nil {
		themeName = t.Name
	}
	themeDisplay := fmt.Sprintf("< %s >  (%d/%d)", themeName, s.themeIndex+1, styles.GetThemeCount())

	rows := []struct {
		label string
		value string
	}{
		{"Theme", valStyle.Render(themeDisplay)},
		{"Poll Interval", s.intervalInput.View()},
		{"Max History", s.historyInput.View()},
		{"Backend URL", s.backendInput.View()},
		{"Webhook URL", s.webhookInput.View()},
	}

	for i, row := range rows {
		indicator := "  "
		lbl := labelStyle
		if i == s.cursor {
			indicator = lipgloss.NewStyle().Foreground(s.theme.Base0D).Bold(true).Render("> ")
			lbl = activeLabelStyle
		}
		b.WriteString(fmt.Sprintf("  %s%s%s\n", indicator, lbl.Render(padRight(row.label+":", 18)), row.value))
	}

	b.WriteString("\n")
	b.WriteString(s.renderThemePreview())

	b.WriteString("\n")
	b.WriteString("  " + s.renderHelp() + "\n")

	return b.String()
}

// renderThemePreview renders a small preview panel showing the selected theme's colors.
func (s SettingsView) renderThemePreview() string {
	previewTheme := s.selectedTheme()
	sty := styles.NewStyles(previewTheme)

	sepStyle := lipgloss.NewStyle().Foreground(previewTheme.Base03)
	titleStyle := lipgloss.NewStyle().Foreground(previewTheme.Base0D).Bold(true)

	previewWidth := 56
	if s.width > 0 && s.width-6 < previewWidth {
		previewWidth = s.width - 6
	}
	if previewWidth < 30 {
		previewWidth = 30
	}

	var b strings.Builder

	label := " Theme Preview "
	dashCount := max(previewWidth-len(label), 2)
	leftDash := dashCount / 2
	rightDash := dashCount - leftDash
	b.WriteString("  " + sepStyle.Render(strings.Repeat("-", leftDash)) + titleStyle.Render(label) + sepStyle.Render(strings.Repeat("-", rightDash)) + "\n")

	headerBg := lipgloss.NewStyle().
		Background(previewTheme.Base01).
		Foreground(previewTheme.Base05).
		Bold(true).
		Padding(0, 1)
	headerTitle := lipgloss.NewStyle().
		Background(previewTheme.Base01).
		Foreground(previewTheme.Base0D).
		Bold(true)
	b.WriteString("  " + headerBg.Render(headerTitle.Render("shadow")+" - Sample Profile"+strings.Repeat(" ", max(0, previewWidth-27))) + "\n")

	thStyle := lipgloss.NewStyle().
		Foreground(previewTheme.Base0D).
		Bold(true)
	b.WriteString("  " + fmt.Sprintf("  %s%s%s",
		thStyle.Render(padRight("User", 22)),
		thStyle.Render(padLeft("Activity", 10)),
		thStyle.Render(padLeft("Churn", 8)),
	) + "\n")

	rowStyle := lipgloss.NewStyle().Foreground(previewTheme.Base05)
	sampleRows := []struct {
		email    string
		activity float64
		churn    float64
	}{
		{"ada@example.com", 92.5, 0.08},
		{"grace@example.com", 61.25, 0.34},
		{"linus@example.com", 12.0, 0.71},
	}
	for _, r := range sampleRows {
		b.WriteString("  " + fmt.Sprintf("  %s%s%s",
			rowStyle.Render(padRight(r.email, 22)),
			rowStyle.Render(padLeft(fmt.Sprintf("%.2f", r.activity), 10)),
			sty.ChurnStyle(r.churn).Render(padLeft(fmt.Sprintf("%.2f", r.churn), 8)),
		) + "\n")
	}

	b.WriteString("\n")
	swatchLabel := lipgloss.NewStyle().Foreground(previewTheme.Base04)
	b.WriteString("  " + swatchLabel.Render("Colors: "))

	colorPairs := []struct {
		name  string
		color lipgloss.Color
	}{
		{"red", previewTheme.Base08},
		{"org", previewTheme.Base09},
		{"yel", previewTheme.Base0A},
		{"grn", previewTheme.Base0B},
		{"cyn", previewTheme.Base0C},
		{"blu", previewTheme.Base0D},
		{"mag", previewTheme.Base0E},
	}
	for _, cp := range colorPairs {
		b.WriteString(lipgloss.NewStyle().Foreground(cp.color).Render(cp.name) + " ")
	}
	b.WriteString("\n")

	b.WriteString("  " + sepStyle.Render(strings.Repeat("-", previewWidth)) + "\n")

	return b.String()
}

// renderHelp renders the help line for the settings view.
func (s SettingsView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(s.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(s.theme.Base0D).Bold(true)

	nav := fmt.Sprintf("%s/%s navigate  %s save  %s cancel",
		keyStyle.Render("[up]"),
		keyStyle.Render("[down]"),
		keyStyle.Render("[enter]"),
		keyStyle.Render("[esc]"),
	)
	if s.cursor == settingsFieldTheme {
		nav = fmt.Sprintf("%s/%s cycle theme  ", keyStyle.Render("[left]"), keyStyle.Render("[right]")) + nav
	}
	return helpStyle.Render(nav)
}
