package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func ev(t EventType, age int) Event {
	return Event{Type: t, TS: daysAgo(age)}
}

func TestActivityScore(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   float64
	}{
		{"none", nil, 0},
		{"old login", []Event{ev(EventLogin, 30)}, 1.0},
		{"recent purchase", []Event{ev(EventPurchase, 2)}, 3.5},
		{"unknown type", []Event{ev("refund", 20)}, 0.2},
		{"boundary week", []Event{ev(EventView, 7), ev(EventShare, 8)}, 2.5},
		{"mixed", []Event{ev(EventLogin, 0), ev(EventView, 1), ev(EventShare, 10), ev(EventPurchase, 12)}, 7.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ActivityScore(tt.events, now), 1e-9)
		})
	}
}

func TestChurnRisk(t *testing.T) {
	idle := User{LastSeen: daysAgo(10)}
	assert.InDelta(t, 0.8, ChurnRisk(idle, nil, now), 1e-9)

	gone := User{LastSeen: daysAgo(40)}
	assert.InDelta(t, 1.0, ChurnRisk(gone, nil, now), 1e-9)

	busy := User{LastSeen: now}
	var events []Event
	for i := 0; i < 10; i++ {
		events = append(events, ev(EventPurchase, 1))
	}
	// activity 35 caps protection at 0.6, so 0 + 0.3 - 0.6 clamps to 0.
	assert.InDelta(t, 0.0, ChurnRisk(busy, events, now), 1e-9)

	mild := User{LastSeen: daysAgo(2)}
	// 0.1 idle + 0.3 baseline - 0.105 protection sits on a rounding edge.
	got := ChurnRisk(mild, []Event{ev(EventPurchase, 1)}, now)
	assert.InDelta(t, 0.295, got, 0.0051)
}

func TestShouldPromote(t *testing.T) {
	ok := User{StreakDays: 5, ActivityScore: 8, ChurnRisk: 0.4}
	assert.True(t, ShouldPromote(ok))

	for _, u := range []User{
		{StreakDays: 4, ActivityScore: 8, ChurnRisk: 0.4},
		{StreakDays: 5, ActivityScore: 7.99, ChurnRisk: 0.4},
		{StreakDays: 5, ActivityScore: 8, ChurnRisk: 0.41},
	} {
		assert.False(t, ShouldPromote(u), "%+v", u)
	}
}

func TestPredictedUnlock(t *testing.T) {
	assert.Equal(t, "Challenge-R3-OnRamp", PredictedUnlock(User{StreakDays: 3, ChurnRisk: 0.5, CurrentRank: 2}))
	assert.Equal(t, "", PredictedUnlock(User{StreakDays: 2, ChurnRisk: 0.1, CurrentRank: 2}))
	assert.Equal(t, "", PredictedUnlock(User{StreakDays: 6, ChurnRisk: 0.51, CurrentRank: 2}))
}

func TestRescorePromotes(t *testing.T) {
	u := User{ID: 1, Email: "a@example.com", StreakDays: 6, CurrentRank: 1, LastSeen: now}
	var events []Event
	for i := 0; i < 4; i++ {
		events = append(events, ev(EventPurchase, 1))
	}
	res := Rescore(u, events, now)
	require.True(t, res.Promoted)
	assert.Equal(t, 2, res.User.CurrentRank)
	assert.Equal(t, 0, res.User.StreakDays)
	assert.Equal(t, "Challenge-R2-OnRamp", res.Unlock, "unlock is predicted before promotion")
	assert.Equal(t, "User a@example.com: PROMOTED; unlock=Challenge-R2-OnRamp", res.Note)
	assert.Equal(t, 1, u.CurrentRank, "input is not mutated")
}

func TestRescoreWithoutPromotion(t *testing.T) {
	u := User{Email: "b@example.com", StreakDays: 1, CurrentRank: 4, LastSeen: daysAgo(9)}
	res := Rescore(u, nil, now)
	assert.False(t, res.Promoted)
	assert.Equal(t, 4, res.User.CurrentRank)
	assert.Equal(t, "", res.Unlock)
	assert.Equal(t, "User b@example.com: rescored; unlock=None", res.Note)
	assert.InDelta(t, 0.75, res.User.ChurnRisk, 1e-9)
}

func TestChurnLabel(t *testing.T) {
	assert.Equal(t, "low", ChurnLabel(0.1))
	assert.Equal(t, "medium", ChurnLabel(0.3))
	assert.Equal(t, "high", ChurnLabel(0.95))
}
