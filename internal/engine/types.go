package engine

import (
	"time"

	"github.com/tonhe/shadow/internal/metrics"
)

// TotalsSample records the event totals observed by one poll.
type TotalsSample struct {
	Timestamp time.Time
	Counts    map[metrics.EventType]int
	Total     int
}

// Snapshot is a point-in-time view of the dashboard data. Slices and maps
// in a Snapshot are never mutated after it is published.
type Snapshot struct {
	Source      string
	Running     bool
	Users       []metrics.User
	Leaderboard []metrics.User
	Insights    metrics.Insights
	Trends      map[int][]float64
	Totals      []TotalsSample
	Delta       DeltaSample
	LastPoll    time.Time
	PollCount   int
	ErrorCount  int
	PollError   error
}

// User looks up a user by ID.
func (s *Snapshot) User(id int) (metrics.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return metrics.User{}, false
}

// TotalSeries returns the history of one event type's total, oldest first.
func (s *Snapshot) TotalSeries(t metrics.EventType) []float64 {
	out := make([]float64, len(s.Totals))
	for i, sample := range s.Totals {
		out[i] = float64(sample.Counts[t])
	}
	return out
}

// GrandTotalSeries returns the history of the all-types total.
func (s *Snapshot) GrandTotalSeries() []float64 {
	out := make([]float64, len(s.Totals))
	for i, sample := range s.Totals {
		out[i] = float64(sample.Total)
	}
	return out
}

// AverageActivity is the mean activity score across users.
func (s *Snapshot) AverageActivity() float64 {
	if len(s.Users) == 0 {
		return 0
	}
	sum := 0.0
	for _, u := range s.Users {
		sum += u.ActivityScore
	}
	return sum / float64(len(s.Users))
}

// AtRisk counts users whose churn risk is at or above threshold.
func (s *Snapshot) AtRisk(threshold float64) int {
	n := 0
	for _, u := range s.Users {
		if u.ChurnRisk >= threshold {
			n++
		}
	}
	return n
}

// Event is emitted to subscribers after each poll cycle.
type Event struct {
	Snapshot *Snapshot
}
