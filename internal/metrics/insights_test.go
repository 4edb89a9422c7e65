package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeInsights(t *testing.T) {
	users := []User{
		{ID: 1, ChurnRisk: 0.2},
		{ID: 2, ChurnRisk: 0.9},
		{ID: 3, ChurnRisk: 0.5},
	}
	events := []Event{
		ev(EventLogin, 0), ev(EventLogin, 1), ev(EventPurchase, 3), ev("refund", 1),
	}
	in := ComputeInsights(users, events, 2)
	assert.Equal(t, map[EventType]int{EventLogin: 2, EventView: 0, EventShare: 0, EventPurchase: 1}, in.Events)
	require.Len(t, in.ChurnTop, 2)
	assert.Equal(t, 2, in.ChurnTop[0].ID)
	assert.Equal(t, 3, in.ChurnTop[1].ID)
	assert.Equal(t, 3, in.Total())
}

func TestTopChurnStableTies(t *testing.T) {
	users := []User{{ID: 5, ChurnRisk: 0.4}, {ID: 2, ChurnRisk: 0.4}, {ID: 9, ChurnRisk: 0.1}}
	top := TopChurn(users, 10)
	require.Len(t, top, 3)
	assert.Equal(t, []int{2, 5, 9}, []int{top[0].ID, top[1].ID, top[2].ID})
	assert.Equal(t, 5, users[0].ID, "input order preserved")
}

func TestLeaderboard(t *testing.T) {
	users := []User{
		{ID: 1, ActivityScore: 4, CurrentRank: 1},
		{ID: 2, ActivityScore: 9, CurrentRank: 1},
		{ID: 3, ActivityScore: 4, CurrentRank: 2},
		{ID: 4, ActivityScore: 4, CurrentRank: 1},
	}
	board := Leaderboard(users)
	ids := make([]int, len(board))
	for i, u := range board {
		ids[i] = u.ID
	}
	assert.Equal(t, []int{2, 3, 1, 4}, ids)
}

func TestDailyCounts(t *testing.T) {
	events := []Event{
		ev(EventLogin, 0), ev(EventView, 0), ev(EventShare, 2), ev(EventLogin, 5), ev(EventLogin, -1),
	}
	assert.Equal(t, []float64{0, 1, 0, 2}, DailyCounts(events, 4, now))
	assert.Nil(t, DailyCounts(events, 0, now))
}

func TestSegments(t *testing.T) {
	u := User{ActivityScore: 25, StreakDays: 6, ChurnRisk: 0.7, LastSeen: daysAgo(8)}
	assert.Equal(t, []string{SegmentPower, SegmentStreaker, SegmentAtRisk, SegmentDormant}, Segments(u, now))
	assert.Empty(t, Segments(User{LastSeen: now}, now))
}
