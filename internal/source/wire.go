package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
)

// wireUser mirrors the backend's user row. Segments arrive as a
// JSON-encoded string ("[]") rather than an array.
type wireUser struct {
	ID            int             `json:"id"`
	Email         string          `json:"email"`
	StreakDays    int             `json:"streak_days"`
	LastSeen      wireTime        `json:"last_seen"`
	CurrentRank   int             `json:"current_rank"`
	Segments      json.RawMessage `json:"segments"`
	ActivityScore float64         `json:"activity_score"`
	ChurnRisk     float64         `json:"churn_risk"`
}

func (w wireUser) toUser() metrics.User {
	return metrics.User{
		ID:            w.ID,
		Email:         w.Email,
		StreakDays:    w.StreakDays,
		LastSeen:      w.LastSeen.Time,
		CurrentRank:   w.CurrentRank,
		Segments:      decodeSegments(w.Segments),
		ActivityScore: w.ActivityScore,
		ChurnRisk:     w.ChurnRisk,
	}
}

type wireEvent struct {
	ID      int      `json:"id"`
	UserID  int      `json:"user_id"`
	Type    string   `json:"type"`
	Payload string   `json:"payload"`
	TS      wireTime `json:"ts"`
}

func (w wireEvent) toEvent() metrics.Event {
	return metrics.Event{
		ID:      w.ID,
		UserID:  w.UserID,
		Type:    metrics.EventType(w.Type),
		Payload: w.Payload,
		TS:      w.TS.Time,
	}
}

// decodeSegments accepts either an array or a string holding an array.
// Anything unparseable yields no segments.
func decodeSegments(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		raw = []byte(inner)
	}
	var segs []string
	if err := json.Unmarshal(raw, &segs); err != nil {
		return nil
	}
	return segs
}

// wireTime parses the backend's timestamps, which may lack a zone. Naive
// timestamps are UTC.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
