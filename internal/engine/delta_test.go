package engine

import (
	"testing"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
)

func sample(at time.Time, login, view int) TotalsSample {
	return TotalsSample{
		Timestamp: at,
		Counts:    map[metrics.EventType]int{metrics.EventLogin: login, metrics.EventView: view},
		Total:     login + view,
	}
}

func TestCalculateDelta(t *testing.T) {
	t0 := time.Now()
	prev := sample(t0.Add(-2*time.Minute), 10, 4)
	curr := sample(t0, 16, 6)

	d, err := CalculateDelta(prev, curr)
	if err != nil {
		t.Fatalf("CalculateDelta() error: %v", err)
	}
	if d.Counts[metrics.EventLogin] != 6 {
		t.Errorf("expected login delta 6, got %d", d.Counts[metrics.EventLogin])
	}
	if d.Total != 8 {
		t.Errorf("expected total delta 8, got %d", d.Total)
	}
	if d.PerMinute < 3.99 || d.PerMinute > 4.01 {
		t.Errorf("expected ~4 events/min, got %f", d.PerMinute)
	}
}

func TestCalculateDeltaReset(t *testing.T) {
	t0 := time.Now()
	_, err := CalculateDelta(sample(t0.Add(-time.Minute), 50, 5), sample(t0, 3, 9))
	if err != ErrCounterReset {
		t.Errorf("expected ErrCounterReset, got %v", err)
	}
}

func TestCalculateDeltaElapsed(t *testing.T) {
	t0 := time.Now()
	if _, err := CalculateDelta(sample(t0, 1, 1), sample(t0, 2, 2)); err == nil {
		t.Error("expected error for zero elapsed time")
	}
}

func TestNewTotalsSample(t *testing.T) {
	in := metrics.Insights{Events: map[metrics.EventType]int{metrics.EventShare: 3, metrics.EventPurchase: 2}}
	s := NewTotalsSample(in, time.Unix(100, 0))
	if s.Total != 5 {
		t.Errorf("expected total 5, got %d", s.Total)
	}
	in.Events[metrics.EventShare] = 99
	if s.Counts[metrics.EventShare] != 3 {
		t.Error("sample should not alias the insights map")
	}
}
