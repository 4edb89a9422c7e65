package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	restTimeout = 10 * time.Second
	// trendFanout limits concurrent per-user requests in Trends.
	trendFanout = 8
)

// REST reads dashboard data from the Shadow System HTTP backend.
type REST struct {
	base   string
	client *http.Client
	log    *zap.Logger
	now    func() time.Time
}

// NewREST creates a client for the backend at baseURL.
func NewREST(baseURL string, log *zap.Logger) *REST {
	if log == nil {
		log = zap.NewNop()
	}
	return &REST{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: restTimeout},
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Name identifies the source in the UI.
func (r *REST) Name() string { return "rest" }

// Health checks GET /health.
func (r *REST) Health(ctx context.Context) error {
	var body struct {
		OK bool `json:"ok"`
	}
	if err := r.do(ctx, http.MethodGet, "/health", &body); err != nil {
		return err
	}
	if !body.OK {
		return fmt.Errorf("%w: health check reported not ok", ErrBackendUnavailable)
	}
	return nil
}

// Users fetches GET /users.
func (r *REST) Users(ctx context.Context) ([]metrics.User, error) {
	var wire []wireUser
	if err := r.do(ctx, http.MethodGet, "/users", &wire); err != nil {
		return nil, err
	}
	users := make([]metrics.User, len(wire))
	for i, w := range wire {
		users[i] = w.toUser()
	}
	return users, nil
}

// User fetches GET /users/{id}.
func (r *REST) User(ctx context.Context, id int) (*metrics.UserDetail, error) {
	var body struct {
		User            wireUser    `json:"user"`
		Events          []wireEvent `json:"events"`
		PredictedUnlock *string     `json:"predicted_unlock"`
	}
	if err := r.do(ctx, http.MethodGet, "/users/"+strconv.Itoa(id), &body); err != nil {
		return nil, err
	}
	detail := &metrics.UserDetail{
		User:   body.User.toUser(),
		Events: make([]metrics.Event, len(body.Events)),
	}
	for i, e := range body.Events {
		detail.Events[i] = e.toEvent()
	}
	if body.PredictedUnlock != nil {
		detail.PredictedUnlock = *body.PredictedUnlock
	}
	return detail, nil
}

// Insights fetches GET /insights.
func (r *REST) Insights(ctx context.Context) (*metrics.Insights, error) {
	var body struct {
		Events       map[string]int `json:"events"`
		ChurnRiskTop []wireUser     `json:"churn_risk_top"`
	}
	if err := r.do(ctx, http.MethodGet, "/insights", &body); err != nil {
		return nil, err
	}
	in := &metrics.Insights{Events: make(map[metrics.EventType]int, len(body.Events))}
	for _, t := range metrics.AllEventTypes {
		in.Events[t] = body.Events[string(t)]
	}
	for _, w := range body.ChurnRiskTop {
		in.ChurnTop = append(in.ChurnTop, w.toUser())
	}
	return in, nil
}

// Trends fetches every user's events and buckets them by day. Requests run
// concurrently, bounded by trendFanout.
func (r *REST) Trends(ctx context.Context, days int) (map[int][]float64, error) {
	users, err := r.Users(ctx)
	if err != nil {
		return nil, err
	}
	var mu sync.Mutex
	out := make(map[int][]float64, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(trendFanout)
	for _, u := range users {
		id := u.ID
		g.Go(func() error {
			detail, err := r.User(gctx, id)
			if err != nil {
				return fmt.Errorf("trend for user %d: %w", id, err)
			}
			counts := metrics.DailyCounts(detail.Events, days, r.now())
			mu.Lock()
			out[id] = counts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rescore calls POST /score/{id}. The backend fires its own webhook.
func (r *REST) Rescore(ctx context.Context, id int) (*metrics.RescoreResult, error) {
	var body struct {
		User     wireUser              `json:"user"`
		Promoted bool                  `json:"promoted"`
		Unlock   *string               `json:"unlock"`
		Webhook  metrics.WebhookResult `json:"webhook"`
	}
	if err := r.do(ctx, http.MethodPost, "/score/"+strconv.Itoa(id), &body); err != nil {
		return nil, err
	}
	res := &metrics.RescoreResult{
		User:     body.User.toUser(),
		Promoted: body.Promoted,
		Webhook:  body.Webhook,
	}
	if body.Unlock != nil {
		res.Unlock = *body.Unlock
	}
	res.Note = metrics.RescoreNote(res.User.Email, res.Promoted, res.Unlock)
	return res, nil
}

// Reseed calls POST /seed, replacing all backend data.
func (r *REST) Reseed(ctx context.Context, users, days int) error {
	q := url.Values{}
	q.Set("n_users", strconv.Itoa(users))
	q.Set("days", strconv.Itoa(days))
	var body struct {
		Seeded int `json:"seeded"`
	}
	return r.do(ctx, http.MethodPost, "/seed?"+q.Encode(), &body)
}

// do performs a request and decodes a JSON response into out. A 404 on a
// per-user route maps to metrics.ErrUserNotFound. Transport failures and a
// 404 anywhere else, usually a wrong base URL, wrap ErrBackendUnavailable.
func (r *REST) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound && userRoute(path):
		return fmt.Errorf("%s %s: %w", method, path, metrics.ErrUserNotFound)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w: not found at %s", method, path, ErrBackendUnavailable, r.base)
	case resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	r.log.Debug("backend request", zap.String("method", method), zap.String("path", path))
	return nil
}

// userRoute reports whether path addresses a single user.
func userRoute(path string) bool {
	return strings.HasPrefix(path, "/users/") || strings.HasPrefix(path, "/score/")
}
