package dashboard

import (
	"testing"

	"github.com/tonhe/shadow/internal/metrics"
)

func testUsers() []metrics.User {
	return []metrics.User{
		{ID: 1, ActivityScore: 2, ChurnRisk: 0.9, CurrentRank: 1, StreakDays: 0},
		{ID: 2, ActivityScore: 9, ChurnRisk: 0.1, CurrentRank: 3, StreakDays: 6},
		{ID: 3, ActivityScore: 9, ChurnRisk: 0.4, CurrentRank: 2, StreakDays: 2},
		{ID: 4, ActivityScore: 5, ChurnRisk: 0.9, CurrentRank: 1, StreakDays: 9},
	}
}

func ids(users []metrics.User) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortUsers(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int
	}{
		{SortActivity, []int{2, 3, 4, 1}},
		{SortChurn, []int{1, 4, 3, 2}},
		{SortRank, []int{2, 3, 1, 4}},
		{SortStreak, []int{4, 2, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			users := testUsers()
			SortUsers(users, tt.key)
			if got := ids(users); !equalInts(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestApplyPinnedThenSortThenLimit(t *testing.T) {
	users := testUsers()
	prof := &Profile{Limit: 3, Sort: SortActivity, Pinned: []int{1, 99, 1}}

	got := ids(prof.Apply(users))
	if want := []int{1, 2, 3}; !equalInts(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if users[0].ID != 1 || users[1].ID != 2 {
		t.Error("Apply should not reorder its input")
	}
}

func TestApplyNoLimit(t *testing.T) {
	prof := &Profile{Limit: -1, Sort: SortStreak}
	if got := prof.Apply(testUsers()); len(got) != 4 {
		t.Errorf("expected all 4 users, got %d", len(got))
	}
}

func TestSortKeyCycle(t *testing.T) {
	k := SortActivity
	for i := 0; i < len(SortKeys); i++ {
		k = k.Next()
	}
	if k != SortActivity {
		t.Errorf("expected cycle back to activity, got %q", k)
	}
	if _, err := ParseSortKey("rank"); err != nil {
		t.Errorf("ParseSortKey(rank) error: %v", err)
	}
}

func TestTogglePin(t *testing.T) {
	prof := DefaultProfile()
	prof.TogglePin(5)
	if !prof.IsPinned(5) {
		t.Fatal("expected 5 pinned")
	}
	prof.TogglePin(5)
	if prof.IsPinned(5) {
		t.Error("expected 5 unpinned")
	}
}
