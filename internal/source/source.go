// Package source supplies dashboard data, either from a REST backend or from
// a seeded in-process generator when no backend is reachable.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
	"go.uber.org/zap"
)

// ErrBackendUnavailable wraps transport failures talking to the backend.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Source is a provider of users, events and derived metrics.
type Source interface {
	Name() string
	Users(ctx context.Context) ([]metrics.User, error)
	User(ctx context.Context, id int) (*metrics.UserDetail, error)
	Insights(ctx context.Context) (*metrics.Insights, error)
	// Trends returns per-user daily event counts for the last days days,
	// oldest first, keyed by user ID.
	Trends(ctx context.Context, days int) (map[int][]float64, error)
	Rescore(ctx context.Context, id int) (*metrics.RescoreResult, error)
}

// Advancer is implemented by sources that simulate activity between polls.
type Advancer interface {
	Advance(now time.Time)
}

// Reseeder is implemented by sources that can regenerate their data set.
type Reseeder interface {
	Reseed(ctx context.Context, users, days int) error
}

// healthTimeout bounds the backend probe in Resolve.
const healthTimeout = 2 * time.Second

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	BackendURL string
	Mock       MockOptions
	Log        *zap.Logger
}

// Resolve picks the data source: the REST backend when one is configured and
// healthy, otherwise the mock generator.
func Resolve(ctx context.Context, opts ResolveOptions) Source {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Mock.Log == nil {
		opts.Mock.Log = log
	}
	if opts.BackendURL == "" {
		log.Info("no backend configured, using mock data")
		return NewMock(opts.Mock)
	}

	rest := NewREST(opts.BackendURL, log)
	probeCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := rest.Health(probeCtx); err != nil {
		log.Warn("backend unhealthy, falling back to mock data",
			zap.String("backend", opts.BackendURL), zap.Error(err))
		return NewMock(opts.Mock)
	}
	log.Info("using backend", zap.String("backend", opts.BackendURL))
	return rest
}
