package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/internal/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Poller defaults.
const (
	DefaultInterval   = 10 * time.Second
	DefaultMaxHistory = 60
	DefaultTrendDays  = 14
	MinInterval       = time.Second
)

// ErrReseedUnsupported is returned by Reseed when the source cannot
// regenerate its data.
var ErrReseedUnsupported = errors.New("source does not support reseeding")

// Options configures a Poller.
type Options struct {
	Interval   time.Duration
	MaxHistory int
	TrendDays  int
	Log        *zap.Logger
	Now        func() time.Time
}

// Poller periodically queries a Source and caches the results so the UI can
// render from memory. Subscribers receive a fresh Snapshot after each poll.
type Poller struct {
	mu          sync.RWMutex
	src         source.Source
	opts        Options
	log         *zap.Logger
	history     *RingBuffer[TotalsSample]
	users       []metrics.User
	leaderboard []metrics.User
	insights    metrics.Insights
	trends      map[int][]float64
	delta       DeltaSample
	running     bool
	pollCount   int
	errorCount  int
	lastPoll    time.Time
	pollErr     error
	subscribers []chan Event
	refreshCh   chan struct{}
}

// NewPoller creates a Poller over src. Zero options take their defaults.
func NewPoller(src source.Source, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Interval < MinInterval {
		opts.Interval = MinInterval
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.TrendDays <= 0 {
		opts.TrendDays = DefaultTrendDays
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Poller{
		src:       src,
		opts:      opts,
		log:       opts.Log.With(zap.String("source", src.Name())),
		history:   NewRingBuffer[TotalsSample](opts.MaxHistory),
		trends:    map[int][]float64{},
		insights:  metrics.Insights{Events: map[metrics.EventType]int{}},
		refreshCh: make(chan struct{}, 1),
	}
}

// Source returns the underlying data source.
func (p *Poller) Source() source.Source {
	return p.src
}

// Run polls immediately and then on every tick until ctx is cancelled.
// Refresh requests trigger an extra poll.
func (p *Poller) Run(ctx context.Context) {
	p.mu.Lock()
	p.running = true
	p.notifyLocked()
	p.mu.Unlock()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.log.Info("poller started", zap.Duration("interval", p.opts.Interval))
	_ = p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.running = false
			p.notifyLocked()
			p.mu.Unlock()
			p.log.Info("poller stopped")
			return
		case <-ticker.C:
			_ = p.PollOnce(ctx)
		case <-p.refreshCh:
			_ = p.PollOnce(ctx)
		}
	}
}

// Refresh asks a running poller to poll now. It never blocks.
func (p *Poller) Refresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// PollOnce executes a single poll cycle. Fetches run concurrently and
// outside the lock so readers are never blocked on the network.
func (p *Poller) PollOnce(ctx context.Context) error {
	if adv, ok := p.src.(source.Advancer); ok {
		adv.Advance(p.opts.Now())
	}

	var (
		users  []metrics.User
		in     *metrics.Insights
		trends map[int][]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = p.src.Users(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in, err = p.src.Insights(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		trends, err = p.src.Trends(gctx, p.opts.TrendDays)
		return err
	})
	err := g.Wait()
	now := p.opts.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPoll = now
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.errorCount++
		p.pollErr = fmt.Errorf("poll %s: %w", p.src.Name(), err)
		p.log.Warn("poll failed", zap.Error(err), zap.Int("errors", p.errorCount))
		p.notifyLocked()
		return p.pollErr
	}

	sample := NewTotalsSample(*in, now)
	p.delta = DeltaSample{}
	if prev, ok := p.history.Last(); ok {
		d, derr := CalculateDelta(prev, sample)
		switch {
		case errors.Is(derr, ErrCounterReset):
			p.log.Info("event totals decreased, clearing history")
			p.history.Reset()
		case derr == nil:
			p.delta = d
		}
	}
	p.history.Add(sample)

	p.users = users
	p.leaderboard = metrics.Leaderboard(users)
	p.insights = *in
	p.trends = trends
	p.pollErr = nil
	p.pollCount++
	p.log.Debug("poll complete",
		zap.Int("users", len(users)),
		zap.Int("events", sample.Total),
		zap.Int("new_events", p.delta.Total))
	p.notifyLocked()
	return nil
}

// User fetches one user's detail straight from the source.
func (p *Poller) User(ctx context.Context, id int) (*metrics.UserDetail, error) {
	return p.src.User(ctx, id)
}

// Rescore recomputes a user's scores and schedules a refresh so the cached
// leaderboard reflects the change.
func (p *Poller) Rescore(ctx context.Context, id int) (*metrics.RescoreResult, error) {
	res, err := p.src.Rescore(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Refresh()
	return res, nil
}

// Reseed regenerates the source's data set and clears the totals history.
func (p *Poller) Reseed(ctx context.Context, users, days int) error {
	rs, ok := p.src.(source.Reseeder)
	if !ok {
		return ErrReseedUnsupported
	}
	if err := rs.Reseed(ctx, users, days); err != nil {
		return err
	}
	p.history.Reset()
	p.Refresh()
	return nil
}

// Snapshot returns a point-in-time copy of the cached data.
// This method acquires a read lock and is safe to call from any goroutine.
func (p *Poller) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// snapshotLocked builds a Snapshot without acquiring any lock.
// The caller must hold at least a read lock on p.mu. Cached slices are
// replaced wholesale on each poll, so sharing them is safe.
func (p *Poller) snapshotLocked() *Snapshot {
	return &Snapshot{
		Source:      p.src.Name(),
		Running:     p.running,
		Users:       p.users,
		Leaderboard: p.leaderboard,
		Insights:    p.insights,
		Trends:      p.trends,
		Totals:      p.history.All(),
		Delta:       p.delta,
		LastPoll:    p.lastPoll,
		PollCount:   p.pollCount,
		ErrorCount:  p.errorCount,
		PollError:   p.pollErr,
	}
}

// Subscribe returns a channel that receives an event after each poll cycle.
func (p *Poller) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, ch)
	return ch
}

// notifyLocked sends the current snapshot to all subscribers (non-blocking).
// Must be called while holding the write lock on p.mu.
func (p *Poller) notifyLocked() {
	event := Event{Snapshot: p.snapshotLocked()}
	for _, ch := range p.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
