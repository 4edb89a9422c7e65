package metrics

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when a user ID does not exist in the source.
var ErrUserNotFound = errors.New("user not found")

// EventType classifies a user event.
type EventType string

const (
	EventLogin    EventType = "login"
	EventView     EventType = "view"
	EventShare    EventType = "share"
	EventPurchase EventType = "purchase"
)

// AllEventTypes lists the tracked event types in display order.
var AllEventTypes = []EventType{EventLogin, EventView, EventShare, EventPurchase}

// User is a tracked account with its derived growth metrics.
type User struct {
	ID            int       `json:"id"`
	Email         string    `json:"email"`
	StreakDays    int       `json:"streak_days"`
	LastSeen      time.Time `json:"last_seen"`
	CurrentRank   int       `json:"current_rank"`
	Segments      []string  `json:"segments"`
	ActivityScore float64   `json:"activity_score"`
	ChurnRisk     float64   `json:"churn_risk"`
}

// Event is a single user action.
type Event struct {
	ID      int       `json:"id"`
	UserID  int       `json:"user_id"`
	Type    EventType `json:"type"`
	Payload string    `json:"payload"`
	TS      time.Time `json:"ts"`
}

// UserDetail bundles a user with its events and the next predicted unlock.
type UserDetail struct {
	User            User
	Events          []Event
	PredictedUnlock string
}

// RescoreResult is the outcome of recomputing a user's scores.
type RescoreResult struct {
	User     User
	Promoted bool
	Unlock   string
	Note     string
	Webhook  WebhookResult
}

// WebhookResult reports whether a notification was delivered.
type WebhookResult struct {
	Sent   bool   `json:"sent"`
	Status int    `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Insights aggregates event totals and the users most at risk of churning.
type Insights struct {
	Events   map[EventType]int
	ChurnTop []User
}

// Total returns the sum of all event counts.
func (in Insights) Total() int {
	total := 0
	for _, n := range in.Events {
		total += n
	}
	return total
}
