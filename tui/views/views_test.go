package views

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/internal/engine"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/tui/styles"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testUsers() []metrics.User {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return []metrics.User{
		{ID: 1, Email: "ada@example.com", StreakDays: 9, LastSeen: now, CurrentRank: 1, ActivityScore: 80, ChurnRisk: 0.1},
		{ID: 2, Email: "grace@example.com", StreakDays: 2, LastSeen: now, CurrentRank: 2, ActivityScore: 40, ChurnRisk: 0.7},
		{ID: 3, Email: "linus@example.com", StreakDays: 0, LastSeen: now, CurrentRank: 3, ActivityScore: 10, ChurnRisk: 0.4},
	}
}

func testSnapshot() *engine.Snapshot {
	users := testUsers()
	return &engine.Snapshot{
		Source:      "mock",
		Running:     true,
		Users:       users,
		Leaderboard: metrics.Leaderboard(users),
		Insights: metrics.Insights{
			Events:   map[metrics.EventType]int{metrics.EventLogin: 5, metrics.EventView: 3},
			ChurnTop: metrics.TopChurn(users, 10),
		},
		Trends:    map[int][]float64{1: {1, 3, 2}, 2: {0, 0, 1}},
		PollCount: 1,
	}
}

func TestDashboardRowsFollowProfile(t *testing.T) {
	v := NewDashboardView(styles.DefaultTheme, nil)
	v.SetSize(160, 40)
	if cmd := v.SetSnapshot(testSnapshot()); cmd == nil {
		t.Error("expected an animation command after a snapshot")
	}
	rows := v.Rows()
	if len(rows) != 3 || rows[0].ID != 1 {
		t.Fatalf("expected activity order starting with user 1, got %+v", rows)
	}

	v, _ = v.Update(runes("o"))
	if v.SortKey() != dashboard.SortChurn {
		t.Fatalf("expected sort churn, got %s", v.SortKey())
	}
	if v.Rows()[0].ID != 2 {
		t.Errorf("expected highest churn first, got user %d", v.Rows()[0].ID)
	}
	if v.Profile().Sort != dashboard.SortActivity {
		t.Error("cycling the sort should not modify the profile")
	}
}

func TestDashboardPinEmitsProfileChanged(t *testing.T) {
	v := NewDashboardView(styles.DefaultTheme, dashboard.DefaultProfile())
	v.SetSize(160, 40)
	v.SetSnapshot(testSnapshot())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	u, ok := v.SelectedUser()
	if !ok || u.ID != 2 {
		t.Fatalf("expected user 2 selected, got %+v", u)
	}
	v, cmd := v.Update(runes("f"))
	if cmd == nil {
		t.Fatal("expected a profile changed command")
	}
	msg, ok := cmd().(ProfileChangedMsg)
	if !ok {
		t.Fatalf("expected ProfileChangedMsg, got %T", cmd())
	}
	if !msg.Profile.IsPinned(2) {
		t.Error("expected user 2 pinned")
	}
	if v.Rows()[0].ID != 2 {
		t.Errorf("expected pinned user first, got %d", v.Rows()[0].ID)
	}
}

func TestDashboardView(t *testing.T) {
	v := NewDashboardView(styles.DefaultTheme, nil)
	v.SetSize(160, 40)
	if !strings.Contains(v.View(), "Waiting for data") {
		t.Error("expected waiting message before the first snapshot")
	}
	v.SetSnapshot(testSnapshot())
	out := v.View()
	for _, want := range []string{"ada@example.com", "grace@example.com", "login"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestDetailView(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	v := NewDetailView(styles.DefaultTheme)
	v.SetSize(120, 40)
	if v.UserID() != 0 {
		t.Error("expected no user before SetDetail")
	}

	d := &metrics.UserDetail{
		User:            testUsers()[0],
		PredictedUnlock: "Gold badge",
		Events: []metrics.Event{
			{ID: 1, UserID: 1, Type: metrics.EventLogin, TS: now.Add(-time.Hour)},
			{ID: 2, UserID: 1, Type: metrics.EventView, TS: now.Add(-26 * time.Hour)},
		},
	}
	v.SetDetail(d, 7, now)
	v.SetRescore(&metrics.RescoreResult{
		User:    d.User,
		Note:    "Rescored ada@example.com",
		Webhook: metrics.WebhookResult{Reason: "no webhook url set"},
	})

	out := v.View()
	for _, want := range []string{"ada@example.com", "Gold badge", "Events per day (7d)", "webhook not sent: no webhook url set"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected detail view to contain %q", want)
		}
	}

	_, _, back := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !back {
		t.Error("expected esc to go back")
	}
}

func TestDetailViewError(t *testing.T) {
	v := NewDetailView(styles.DefaultTheme)
	v.SetSize(80, 20)
	v.SetError(errors.New("boom"))
	if !strings.Contains(v.View(), "Error: boom") {
		t.Error("expected error in empty detail view")
	}
}

func TestChurnView(t *testing.T) {
	v := NewChurnView(styles.DefaultTheme)
	v.SetSize(100, 30)
	v.SetUsers(metrics.TopChurn(testUsers(), 10), 2)

	u, ok := v.SelectedUser()
	if !ok || u.ID != 2 {
		t.Fatalf("expected riskiest user first, got %+v", u)
	}
	if strings.Contains(v.View(), "ada@example.com") {
		t.Error("expected list cut to two users")
	}

	v, _, action := v.Update(tea.KeyMsg{Type: tea.KeyDown})
	if action != ChurnNone {
		t.Errorf("expected no action, got %v", action)
	}
	if u, _ := v.SelectedUser(); u.ID != 3 {
		t.Errorf("expected user 3 after down, got %d", u.ID)
	}
	if _, _, action = v.Update(tea.KeyMsg{Type: tea.KeyEnter}); action != ChurnOpen {
		t.Errorf("expected ChurnOpen, got %v", action)
	}
	if _, _, action = v.Update(tea.KeyMsg{Type: tea.KeyEsc}); action != ChurnClose {
		t.Errorf("expected ChurnClose, got %v", action)
	}
}

func TestSwitcherListsProfiles(t *testing.T) {
	dir := t.TempDir()
	weekly := &dashboard.Profile{Name: "weekly", Limit: 5, ChurnTop: 3, Sort: dashboard.SortStreak, TrendDays: 7}
	if err := dashboard.SaveProfile(weekly, dashboard.ProfilePath(dir, "weekly")); err != nil {
		t.Fatal(err)
	}

	v := NewSwitcherView(styles.DefaultTheme)
	v.SetSize(100, 30)
	v.Refresh(dir, "weekly")

	item := v.SelectedItem()
	if item == nil || item.Name != "weekly" || !item.Active {
		t.Fatalf("expected active weekly profile selected, got %+v", item)
	}
	if item.Profile.Sort != dashboard.SortStreak {
		t.Errorf("expected streak sort, got %s", item.Profile.Sort)
	}

	v, _, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	if v.SelectedItem().Name != "default" {
		t.Errorf("expected built-in default listed first, got %s", v.SelectedItem().Name)
	}
	if _, _, action := v.Update(tea.KeyMsg{Type: tea.KeyEnter}); action != ActionSwitch {
		t.Errorf("expected ActionSwitch, got %v", action)
	}
	if !strings.Contains(v.View(), "weekly") {
		t.Error("expected view to list weekly")
	}
}

func TestSettingsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.DefaultConfig()
	v := NewSettingsView(styles.DefaultTheme, cfg, path)

	v, _, _ = v.Update(tea.KeyMsg{Type: tea.KeyRight})
	for i := 0; i < settingsFieldBackend; i++ {
		v, _, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	// j and k must reach the text field instead of moving the cursor.
	v, _, _ = v.Update(runes("http://jk.example:8000"))
	v, _, action := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != SettingsSaved {
		t.Fatalf("expected SettingsSaved, got %v (err %q)", action, v.Err())
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.BackendURL != "http://jk.example:8000" {
		t.Errorf("expected backend saved, got %q", loaded.BackendURL)
	}
	if loaded.Theme == "solarized-dark" || loaded.Theme != v.SavedTheme {
		t.Errorf("expected the next theme saved, got %q (saved %q)", loaded.Theme, v.SavedTheme)
	}
}

func TestSettingsRejectsInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	v := NewSettingsView(styles.DefaultTheme, config.DefaultConfig(), path)

	v, _, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v, _, _ = v.Update(runes("x"))
	v, _, action := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != SettingsNone || v.Err() == "" {
		t.Errorf("expected validation error, got action %v err %q", action, v.Err())
	}

	if _, _, action = v.Update(tea.KeyMsg{Type: tea.KeyEsc}); action != SettingsClose {
		t.Errorf("expected SettingsClose, got %v", action)
	}
}

func TestHelpToggle(t *testing.T) {
	v := NewHelpView(styles.DefaultTheme)
	v.SetSize(100, 40)
	v.Toggle()
	if !v.IsVisible() {
		t.Fatal("expected help visible")
	}
	if !strings.Contains(v.View(), "Keyboard Shortcuts") {
		t.Error("expected title in help view")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"longer text", 8, "longe..."},
		{"héllo wörld", 6, "hél..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
