package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/internal/webhook"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestMock(t *testing.T, opts MockOptions) *Mock {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	opts.Now = func() time.Time { return fixedNow }
	return NewMock(opts)
}

func TestMockSeedShape(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 12, Days: 5})
	ctx := context.Background()

	users, err := m.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 12)
	for i, u := range users {
		assert.Equal(t, i+1, u.ID)
		assert.Equal(t, 1, u.CurrentRank)
		assert.LessOrEqual(t, u.StreakDays, 7)
		assert.GreaterOrEqual(t, u.ChurnRisk, 0.0)
		assert.LessOrEqual(t, u.ChurnRisk, 1.0)
		assert.False(t, u.LastSeen.After(fixedNow))
		assert.False(t, u.LastSeen.Before(fixedNow.Add(-10*24*time.Hour)))
	}
	assert.Equal(t, "user0@example.com", users[0].Email)

	detail, err := m.User(ctx, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(detail.Events), 5*3)
	assert.InDelta(t, metrics.ActivityScore(detail.Events, fixedNow), detail.User.ActivityScore, 1e-9)
}

func TestMockDeterministic(t *testing.T) {
	a := newTestMock(t, MockOptions{Users: 8, Days: 7, Seed: 99})
	b := newTestMock(t, MockOptions{Users: 8, Days: 7, Seed: 99})
	ua, _ := a.Users(context.Background())
	ub, _ := b.Users(context.Background())
	assert.Equal(t, ua, ub)
}

func TestMockUserNotFound(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 2, Days: 1})
	_, err := m.User(context.Background(), 3)
	assert.True(t, errors.Is(err, metrics.ErrUserNotFound))
	_, err = m.Rescore(context.Background(), 0)
	assert.True(t, errors.Is(err, metrics.ErrUserNotFound))
}

func TestMockInsightsAndTrends(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 20, Days: 6})
	ctx := context.Background()

	in, err := m.Insights(ctx)
	require.NoError(t, err)
	assert.Len(t, in.ChurnTop, metrics.DefaultChurnTop)
	for i := 1; i < len(in.ChurnTop); i++ {
		assert.GreaterOrEqual(t, in.ChurnTop[i-1].ChurnRisk, in.ChurnTop[i].ChurnRisk)
	}

	trends, err := m.Trends(ctx, 6)
	require.NoError(t, err)
	require.Len(t, trends, 20)
	sum := 0.0
	for _, series := range trends {
		require.Len(t, series, 6)
		for _, v := range series {
			sum += v
		}
	}
	assert.Equal(t, float64(in.Total()), sum)
}

func TestMockAdvanceAddsEvents(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 10, Days: 3})
	ctx := context.Background()
	before, _ := m.Insights(ctx)
	m.Advance(fixedNow)
	after, _ := m.Insights(ctx)
	assert.Greater(t, after.Total(), before.Total())
}

func TestMockReseed(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 10, Days: 3})
	require.NoError(t, m.Reseed(context.Background(), 4, 2))
	users, _ := m.Users(context.Background())
	assert.Len(t, users, 4)
	assert.Error(t, m.Reseed(context.Background(), 0, 2))
}

func TestMockRescoreNotifies(t *testing.T) {
	var content string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		content = body["content"]
	}))
	defer srv.Close()

	m := newTestMock(t, MockOptions{Users: 5, Days: 4, Notifier: webhook.New(srv.URL, nil)})
	res, err := m.Rescore(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, res.Webhook.Sent)
	assert.Equal(t, res.Note, content)
	assert.Contains(t, content, "user1@example.com")

	detail, err := m.User(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, res.User.CurrentRank, detail.User.CurrentRank)
}

func TestMockRescoreWithoutWebhook(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 3, Days: 2})
	res, err := m.Rescore(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, res.Webhook.Sent)
	assert.Equal(t, "no webhook url set", res.Webhook.Reason)
}

func TestMockReturnsCopies(t *testing.T) {
	m := newTestMock(t, MockOptions{Users: 3, Days: 2})
	users, _ := m.Users(context.Background())
	users[0].Email = "changed"
	again, _ := m.Users(context.Background())
	assert.Equal(t, "user0@example.com", again[0].Email)
}
