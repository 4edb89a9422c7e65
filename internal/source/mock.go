package source

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/internal/webhook"
	"go.uber.org/zap"
)

// Mock data set defaults.
const (
	DefaultMockUsers = 50
	DefaultMockDays  = 21

	maxIdleDays      = 10
	maxEventsPerDay  = 3
	maxSeededStreak  = 7
	maxBurstPerUser  = 3
	burstUserDivisor = 5
)

// MockOptions configures the generator.
type MockOptions struct {
	Users    int
	Days     int
	Seed     int64
	Now      func() time.Time
	Notifier *webhook.Notifier
	Log      *zap.Logger
}

// Mock fabricates a plausible user base in memory. It is deterministic for a
// given seed and clock, and safe for concurrent use.
type Mock struct {
	mu       sync.RWMutex
	rng      *rand.Rand
	now      func() time.Time
	users    []metrics.User
	events   map[int][]metrics.Event
	nextID   int
	notifier *webhook.Notifier
	log      *zap.Logger
}

// NewMock creates and seeds a Mock.
func NewMock(opts MockOptions) *Mock {
	if opts.Users <= 0 {
		opts.Users = DefaultMockUsers
	}
	if opts.Days <= 0 {
		opts.Days = DefaultMockDays
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	m := &Mock{
		rng:      rand.New(rand.NewSource(opts.Seed)),
		now:      opts.Now,
		notifier: opts.Notifier,
		log:      opts.Log,
	}
	m.seed(opts.Users, opts.Days)
	return m
}

// Name identifies the source in the UI.
func (m *Mock) Name() string { return "mock" }

// Reseed discards all data and generates a fresh data set.
func (m *Mock) Reseed(_ context.Context, users, days int) error {
	if users <= 0 || days <= 0 {
		return fmt.Errorf("reseed: users and days must be positive, got %d and %d", users, days)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seed(users, days)
	return nil
}

// seed must be called with mu held (or before m is shared).
func (m *Mock) seed(nUsers, days int) {
	now := m.now()
	m.users = make([]metrics.User, 0, nUsers)
	m.events = make(map[int][]metrics.Event, nUsers)
	m.nextID = 1

	for i := 0; i < nUsers; i++ {
		u := metrics.User{
			ID:          i + 1,
			Email:       fmt.Sprintf("user%d@example.com", i),
			CurrentRank: 1,
			LastSeen:    now.Add(-time.Duration(m.rng.Intn(maxIdleDays+1)) * 24 * time.Hour),
		}
		for d := 0; d < days; d++ {
			ts := now.Add(-time.Duration(d) * 24 * time.Hour)
			for k := m.rng.Intn(maxEventsPerDay + 1); k > 0; k-- {
				m.addEvent(u.ID, m.randomType(), ts)
			}
		}
		u.StreakDays = m.rng.Intn(maxSeededStreak + 1)
		m.users = append(m.users, m.rescored(u, now))
	}
	m.log.Debug("mock data seeded", zap.Int("users", nUsers), zap.Int("days", days))
}

func (m *Mock) randomType() metrics.EventType {
	return metrics.AllEventTypes[m.rng.Intn(len(metrics.AllEventTypes))]
}

func (m *Mock) addEvent(userID int, t metrics.EventType, ts time.Time) {
	m.events[userID] = append(m.events[userID], metrics.Event{
		ID:      m.nextID,
		UserID:  userID,
		Type:    t,
		Payload: "{}",
		TS:      ts,
	})
	m.nextID++
}

// rescored recomputes the derived fields without promotion.
func (m *Mock) rescored(u metrics.User, now time.Time) metrics.User {
	events := m.events[u.ID]
	u.ActivityScore = metrics.ActivityScore(events, now)
	u.ChurnRisk = metrics.ChurnRisk(u, events, now)
	u.Segments = metrics.Segments(u, now)
	return u
}

// Advance simulates a burst of live activity: a handful of users log a few
// events at now and have their metrics refreshed.
func (m *Mock) Advance(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.users) == 0 {
		return
	}
	active := 1 + m.rng.Intn(max(1, len(m.users)/burstUserDivisor))
	for i := 0; i < active; i++ {
		idx := m.rng.Intn(len(m.users))
		u := m.users[idx]
		for k := 1 + m.rng.Intn(maxBurstPerUser); k > 0; k-- {
			m.addEvent(u.ID, m.randomType(), now)
		}
		u.LastSeen = now
		m.users[idx] = m.rescored(u, now)
	}
}

// Users returns a copy of all users in ID order.
func (m *Mock) Users(_ context.Context) ([]metrics.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]metrics.User, len(m.users))
	for i, u := range m.users {
		out[i] = cloneUser(u)
	}
	return out, nil
}

// User returns a user with its events and predicted unlock.
func (m *Mock) User(_ context.Context, id int) (*metrics.UserDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, metrics.ErrUserNotFound)
	}
	return &metrics.UserDetail{
		User:            cloneUser(u),
		Events:          append([]metrics.Event(nil), m.events[id]...),
		PredictedUnlock: metrics.PredictedUnlock(u),
	}, nil
}

// Insights totals all events and lists the top churn risks.
func (m *Mock) Insights(_ context.Context) (*metrics.Insights, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []metrics.Event
	for _, evs := range m.events {
		all = append(all, evs...)
	}
	in := metrics.ComputeInsights(m.users, all, metrics.DefaultChurnTop)
	for i := range in.ChurnTop {
		in.ChurnTop[i] = cloneUser(in.ChurnTop[i])
	}
	return &in, nil
}

// Trends buckets each user's events by day.
func (m *Mock) Trends(_ context.Context, days int) (map[int][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	out := make(map[int][]float64, len(m.users))
	for _, u := range m.users {
		out[u.ID] = metrics.DailyCounts(m.events[u.ID], days, now)
	}
	return out, nil
}

// Rescore recomputes a user's scores, promotes when eligible, and notifies
// the webhook.
func (m *Mock) Rescore(ctx context.Context, id int) (*metrics.RescoreResult, error) {
	m.mu.Lock()
	u, ok := m.lookup(id)
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("user %d: %w", id, metrics.ErrUserNotFound)
	}
	now := m.now()
	res := metrics.Rescore(u, m.events[id], now)
	res.User.Segments = metrics.Segments(res.User, now)
	m.users[id-1] = res.User
	res.User = cloneUser(res.User)
	m.mu.Unlock()

	m.log.Info("user rescored",
		zap.Int("user", id),
		zap.Bool("promoted", res.Promoted),
		zap.String("unlock", res.Unlock))
	res.Webhook = m.notifier.Notify(ctx, res.Note)
	return &res, nil
}

// lookup relies on IDs being dense and 1-based.
func (m *Mock) lookup(id int) (metrics.User, bool) {
	if id < 1 || id > len(m.users) {
		return metrics.User{}, false
	}
	return m.users[id-1], true
}

func cloneUser(u metrics.User) metrics.User {
	u.Segments = append([]string(nil), u.Segments...)
	return u
}
