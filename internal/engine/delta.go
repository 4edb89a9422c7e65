package engine

import (
	"errors"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
)

// ErrCounterReset indicates that an event total went down between polls,
// which happens when the source is reseeded.
var ErrCounterReset = errors.New("event counter reset detected")

// DeltaSample holds event growth between two polls.
type DeltaSample struct {
	Timestamp time.Time
	Elapsed   time.Duration
	Counts    map[metrics.EventType]int
	Total     int
	PerMinute float64
}

// NewTotalsSample builds a TotalsSample from insights.
func NewTotalsSample(in metrics.Insights, at time.Time) TotalsSample {
	counts := make(map[metrics.EventType]int, len(in.Events))
	for t, n := range in.Events {
		counts[t] = n
	}
	return TotalsSample{Timestamp: at, Counts: counts, Total: in.Total()}
}

// CalculateDelta computes the per-type growth between two samples.
// Returns ErrCounterReset if any total decreased.
func CalculateDelta(prev, curr TotalsSample) (DeltaSample, error) {
	elapsed := curr.Timestamp.Sub(prev.Timestamp)
	if elapsed <= 0 {
		return DeltaSample{}, errors.New("zero or negative elapsed time")
	}

	counts := make(map[metrics.EventType]int, len(curr.Counts))
	total := 0
	for t, n := range curr.Counts {
		d := n - prev.Counts[t]
		if d < 0 {
			return DeltaSample{}, ErrCounterReset
		}
		counts[t] = d
		total += d
	}
	for t := range prev.Counts {
		if _, ok := curr.Counts[t]; !ok && prev.Counts[t] > 0 {
			return DeltaSample{}, ErrCounterReset
		}
	}

	return DeltaSample{
		Timestamp: curr.Timestamp,
		Elapsed:   elapsed,
		Counts:    counts,
		Total:     total,
		PerMinute: float64(total) / elapsed.Minutes(),
	}, nil
}
