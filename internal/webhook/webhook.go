// Package webhook posts short notifications to a chat-style webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 5 * time.Second

// Notifier delivers messages to a webhook URL. A Notifier with an empty URL
// is valid and reports every message as not sent.
type Notifier struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// New creates a Notifier for url.
func New(url string, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
		log:    log,
	}
}

// Notify posts {"content": msg}. Delivery failures are reported in the
// result rather than returned, so a broken webhook never fails the caller.
func (n *Notifier) Notify(ctx context.Context, msg string) metrics.WebhookResult {
	if n == nil || n.url == "" {
		return metrics.WebhookResult{Sent: false, Reason: "no webhook url set"}
	}

	body, err := json.Marshal(map[string]string{"content": msg})
	if err != nil {
		return metrics.WebhookResult{Reason: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return metrics.WebhookResult{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn("webhook delivery failed", zap.Error(err))
		return metrics.WebhookResult{Reason: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	sent := resp.StatusCode < 300
	if !sent {
		n.log.Warn("webhook rejected", zap.Int("status", resp.StatusCode))
	}
	return metrics.WebhookResult{Sent: sent, Status: resp.StatusCode}
}
