package dashboard

import (
	"fmt"
	"sort"

	"github.com/tonhe/shadow/internal/metrics"
)

// Profile defaults.
const (
	DefaultLimit     = 20
	DefaultChurnTop  = 10
	DefaultTrendDays = 14
)

// SortKey orders the leaderboard.
type SortKey string

const (
	SortActivity SortKey = "activity"
	SortChurn    SortKey = "churn"
	SortRank     SortKey = "rank"
	SortStreak   SortKey = "streak"
)

// SortKeys lists the sort keys in cycling order.
var SortKeys = []SortKey{SortActivity, SortChurn, SortRank, SortStreak}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want activity, churn, rank or streak)", s)
}

// Next returns the sort key after k, wrapping around.
func (k SortKey) Next() SortKey {
	for i, s := range SortKeys {
		if s == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortActivity
}

// Profile is a saved leaderboard view loaded from TOML.
type Profile struct {
	Name      string  `toml:"name"`
	Limit     int     `toml:"limit"`
	ChurnTop  int     `toml:"churn_top"`
	Sort      SortKey `toml:"sort"`
	Pinned    []int   `toml:"pinned"`
	TrendDays int     `toml:"trend_days"`
}

// DefaultProfile returns the profile used when none is selected.
func DefaultProfile() *Profile {
	return &Profile{
		Name:      "default",
		Limit:     DefaultLimit,
		ChurnTop:  DefaultChurnTop,
		Sort:      SortActivity,
		TrendDays: DefaultTrendDays,
	}
}

// Apply returns the users this profile shows: pinned users first in pinned
// order, then the rest sorted by the profile's key, cut to Limit. A Limit of
// zero or less shows everyone. users is not modified.
func (p *Profile) Apply(users []metrics.User) []metrics.User {
	byID := make(map[int]metrics.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]metrics.User, 0, len(users))
	seen := make(map[int]bool, len(p.Pinned))
	for _, id := range p.Pinned {
		if u, ok := byID[id]; ok && !seen[id] {
			out = append(out, u)
			seen[id] = true
		}
	}

	rest := make([]metrics.User, 0, len(users))
	for _, u := range users {
		if !seen[u.ID] {
			rest = append(rest, u)
		}
	}
	SortUsers(rest, p.Sort)
	out = append(out, rest...)

	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out
}

// IsPinned reports whether id is pinned.
func (p *Profile) IsPinned(id int) bool {
	for _, pid := range p.Pinned {
		if pid == id {
			return true
		}
	}
	return false
}

// TogglePin pins or unpins a user.
func (p *Profile) TogglePin(id int) {
	for i, pid := range p.Pinned {
		if pid == id {
			p.Pinned = append(p.Pinned[:i], p.Pinned[i+1:]...)
			return
		}
	}
	p.Pinned = append(p.Pinned, id)
}

// SortUsers sorts users in place, highest first, ties broken by ascending ID.
func SortUsers(users []metrics.User, key SortKey) {
	less := func(a, b metrics.User) (bool, bool) {
		switch key {
		case SortChurn:
			return a.ChurnRisk > b.ChurnRisk, a.ChurnRisk == b.ChurnRisk
		case SortRank:
			return a.CurrentRank > b.CurrentRank, a.CurrentRank == b.CurrentRank
		case SortStreak:
			return a.StreakDays > b.StreakDays, a.StreakDays == b.StreakDays
		default:
			return a.ActivityScore > b.ActivityScore, a.ActivityScore == b.ActivityScore
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		gt, eq := less(users[i], users[j])
		if eq {
			return users[i].ID < users[j].ID
		}
		return gt
	})
}
