// Package metrics holds the growth model: users, events, and the rules that
// derive activity, churn risk, promotions and unlocks from them.
package metrics

import (
	"fmt"
	"math"
	"time"
)

// Scoring weights per event type. Unknown types score unknownWeight.
var eventWeights = map[EventType]float64{
	EventLogin:    1.0,
	EventView:     0.5,
	EventShare:    1.5,
	EventPurchase: 3.0,
}

const (
	unknownWeight = 0.2
	recentDays    = 7
	recentBonus   = 0.5

	churnPerIdleDay = 0.05
	churnBaseline   = 0.3
	protectPerPoint = 0.03
	protectCap      = 0.6

	promoteStreak   = 5
	promoteActivity = 8
	promoteChurn    = 0.4

	unlockStreak = 3
	unlockChurn  = 0.5
)

// ActivityScore weights each event by type and adds a bonus for every event
// from the last week. The result is rounded to two decimals.
func ActivityScore(events []Event, now time.Time) float64 {
	score := 0.0
	recent := 0
	for _, e := range events {
		w, ok := eventWeights[e.Type]
		if !ok {
			w = unknownWeight
		}
		score += w
		if wholeDays(now.Sub(e.TS)) <= recentDays {
			recent++
		}
	}
	score += float64(recent) * recentBonus
	return round2(score)
}

// ChurnRisk estimates the probability a user lapses, in [0, 1]. Idle days
// raise it; activity protects against it up to a cap.
func ChurnRisk(u User, events []Event, now time.Time) float64 {
	idle := float64(wholeDays(now.Sub(u.LastSeen)))
	base := math.Min(1.0, churnPerIdleDay*idle)
	protected := math.Min(protectCap, ActivityScore(events, now)*protectPerPoint)
	return round2(clamp(base+churnBaseline-protected, 0, 1))
}

// ShouldPromote reports whether the user qualifies for the next rank.
func ShouldPromote(u User) bool {
	return u.StreakDays >= promoteStreak &&
		u.ActivityScore >= promoteActivity &&
		u.ChurnRisk <= promoteChurn
}

// PredictedUnlock names the challenge the user is on track to unlock, or ""
// when none is predicted.
func PredictedUnlock(u User) string {
	if u.StreakDays >= unlockStreak && u.ChurnRisk <= unlockChurn {
		return fmt.Sprintf("Challenge-R%d-OnRamp", u.CurrentRank+1)
	}
	return ""
}

// Rescore recomputes activity and churn for u, then promotes it when
// eligible. The unlock is predicted before any promotion is applied.
func Rescore(u User, events []Event, now time.Time) RescoreResult {
	u.ActivityScore = ActivityScore(events, now)
	u.ChurnRisk = ChurnRisk(u, events, now)

	unlock := PredictedUnlock(u)
	promoted := false
	if ShouldPromote(u) {
		u.CurrentRank++
		u.StreakDays = 0
		promoted = true
	}
	return RescoreResult{
		User:     u,
		Promoted: promoted,
		Unlock:   unlock,
		Note:     RescoreNote(u.Email, promoted, unlock),
	}
}

// RescoreNote formats the notification text sent after a rescore.
func RescoreNote(email string, promoted bool, unlock string) string {
	verb := "rescored"
	if promoted {
		verb = "PROMOTED"
	}
	if unlock == "" {
		unlock = "None"
	}
	return fmt.Sprintf("User %s: %s; unlock=%s", email, verb, unlock)
}

// ChurnLabel buckets a churn risk for display.
func ChurnLabel(risk float64) string {
	switch {
	case risk >= 0.6:
		return "high"
	case risk >= 0.3:
		return "medium"
	default:
		return "low"
	}
}

// wholeDays truncates a duration toward negative infinity in days.
func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
