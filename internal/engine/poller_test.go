package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/internal/source"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stepClock advances one minute per call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestPoller(t *testing.T) (*Poller, *source.Mock) {
	t.Helper()
	clock := &stepClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	mock := source.NewMock(source.MockOptions{Users: 8, Days: 5, Seed: 7, Now: clock.Now})
	p := NewPoller(mock, Options{Interval: time.Hour, MaxHistory: 4, TrendDays: 5, Now: clock.Now})
	return p, mock
}

func TestPollOnce(t *testing.T) {
	p, _ := newTestPoller(t)
	ctx := context.Background()

	if err := p.PollOnce(ctx); err != nil {
		t.Fatalf("PollOnce() error: %v", err)
	}
	snap := p.Snapshot()
	if snap.Source != "mock" {
		t.Errorf("expected source mock, got %q", snap.Source)
	}
	if len(snap.Users) != 8 || len(snap.Leaderboard) != 8 {
		t.Fatalf("expected 8 users, got %d/%d", len(snap.Users), len(snap.Leaderboard))
	}
	if len(snap.Trends[1]) != 5 {
		t.Errorf("expected 5 trend buckets, got %d", len(snap.Trends[1]))
	}
	if len(snap.Totals) != 1 {
		t.Errorf("expected 1 totals sample, got %d", len(snap.Totals))
	}
	if snap.PollCount != 1 {
		t.Errorf("expected poll count 1, got %d", snap.PollCount)
	}

	if err := p.PollOnce(ctx); err != nil {
		t.Fatalf("second PollOnce() error: %v", err)
	}
	snap = p.Snapshot()
	if snap.Delta.Total <= 0 {
		t.Errorf("expected new events between polls, got delta %d", snap.Delta.Total)
	}
	series := snap.GrandTotalSeries()
	if len(series) != 2 || series[1] <= series[0] {
		t.Errorf("expected increasing totals, got %v", series)
	}
}

func TestPollHistoryBounded(t *testing.T) {
	p, _ := newTestPoller(t)
	for i := 0; i < 10; i++ {
		if err := p.PollOnce(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(p.Snapshot().Totals); n != 4 {
		t.Errorf("expected history capped at 4, got %d", n)
	}
}

func TestReseedClearsHistory(t *testing.T) {
	p, _ := newTestPoller(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = p.PollOnce(ctx)
	}
	if err := p.Reseed(ctx, 3, 2); err != nil {
		t.Fatalf("Reseed() error: %v", err)
	}
	if err := p.PollOnce(ctx); err != nil {
		t.Fatal(err)
	}
	snap := p.Snapshot()
	if len(snap.Totals) != 1 {
		t.Errorf("expected history reset to 1 sample, got %d", len(snap.Totals))
	}
	if len(snap.Users) != 3 {
		t.Errorf("expected 3 users after reseed, got %d", len(snap.Users))
	}
}

type failingSource struct{ *source.Mock }

func (failingSource) Users(context.Context) ([]metrics.User, error) {
	return nil, errors.New("boom")
}

func TestPollErrorCounted(t *testing.T) {
	mock := source.NewMock(source.MockOptions{Users: 2, Days: 2, Seed: 1})
	p := NewPoller(failingSource{mock}, Options{})
	if err := p.PollOnce(context.Background()); err == nil {
		t.Fatal("expected poll error")
	}
	snap := p.Snapshot()
	if snap.ErrorCount != 1 || snap.PollError == nil {
		t.Errorf("expected error recorded, got count=%d err=%v", snap.ErrorCount, snap.PollError)
	}
	if err := p.Reseed(context.Background(), 1, 1); err != nil {
		t.Errorf("Reseed() error: %v", err)
	}
}

func TestRescoreUnknownUser(t *testing.T) {
	p, _ := newTestPoller(t)
	_, err := p.Rescore(context.Background(), 999)
	if !errors.Is(err, metrics.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRunSubscribeAndStop(t *testing.T) {
	p, _ := newTestPoller(t)
	events := p.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Snapshot.PollCount == 0 {
				continue
			}
			p.Refresh()
			cancel()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Run did not return after cancel")
			}
			if p.Snapshot().Running {
				t.Error("poller should report stopped")
			}
			return
		case <-deadline:
			cancel()
			<-done
			t.Fatal("no poll event received")
		}
	}
}

func TestNewPollerDefaults(t *testing.T) {
	mock := source.NewMock(source.MockOptions{Users: 1, Days: 1, Seed: 1})
	p := NewPoller(mock, Options{Interval: time.Millisecond})
	if p.opts.Interval != MinInterval {
		t.Errorf("expected interval raised to %v, got %v", MinInterval, p.opts.Interval)
	}
	if p.history.Cap() != DefaultMaxHistory {
		t.Errorf("expected history %d, got %d", DefaultMaxHistory, p.history.Cap())
	}
	if p.opts.TrendDays != DefaultTrendDays {
		t.Errorf("expected trend days %d, got %d", DefaultTrendDays, p.opts.TrendDays)
	}
}
