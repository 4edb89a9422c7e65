package metrics

import (
	"sort"
	"time"
)

// DefaultChurnTop is how many at-risk users Insights reports.
const DefaultChurnTop = 10

// ComputeInsights totals events by type and picks the n users with the
// highest churn risk.
func ComputeInsights(users []User, events []Event, n int) Insights {
	totals := make(map[EventType]int, len(AllEventTypes))
	for _, t := range AllEventTypes {
		totals[t] = 0
	}
	for _, e := range events {
		if _, tracked := totals[e.Type]; tracked {
			totals[e.Type]++
		}
	}
	return Insights{Events: totals, ChurnTop: TopChurn(users, n)}
}

// TopChurn returns up to n users ordered by churn risk, highest first.
// Ties keep ID order so the result is stable.
func TopChurn(users []User, n int) []User {
	sorted := append([]User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ChurnRisk != sorted[j].ChurnRisk {
			return sorted[i].ChurnRisk > sorted[j].ChurnRisk
		}
		return sorted[i].ID < sorted[j].ID
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Leaderboard ranks users by activity, then rank, then ID.
func Leaderboard(users []User) []User {
	sorted := append([]User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ActivityScore != b.ActivityScore {
			return a.ActivityScore > b.ActivityScore
		}
		if a.CurrentRank != b.CurrentRank {
			return a.CurrentRank > b.CurrentRank
		}
		return a.ID < b.ID
	})
	return sorted
}

// DailyCounts buckets events into per-day counts for the last days days,
// oldest first. Events outside the window are ignored.
func DailyCounts(events []Event, days int, now time.Time) []float64 {
	if days <= 0 {
		return nil
	}
	counts := make([]float64, days)
	for _, e := range events {
		age := wholeDays(now.Sub(e.TS))
		if age < 0 || age >= days {
			continue
		}
		counts[days-1-age]++
	}
	return counts
}

// Segment labels derived from a user's metrics.
const (
	SegmentPower    = "power"
	SegmentStreaker = "streaker"
	SegmentAtRisk   = "at-risk"
	SegmentDormant  = "dormant"
)

// Segments classifies a user into display segments.
func Segments(u User, now time.Time) []string {
	segs := []string{}
	if u.ActivityScore >= 20 {
		segs = append(segs, SegmentPower)
	}
	if u.StreakDays >= promoteStreak {
		segs = append(segs, SegmentStreaker)
	}
	if u.ChurnRisk >= 0.6 {
		segs = append(segs, SegmentAtRisk)
	}
	if wholeDays(now.Sub(u.LastSeen)) >= recentDays {
		segs = append(segs, SegmentDormant)
	}
	return segs
}
