package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tonhe/shadow/internal/metrics"
)

var usersHeader = []string{
	"id", "email", "streak_days", "last_seen", "current_rank",
	"segments", "activity_score", "churn_risk", "churn_label",
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteUsersCSV writes one row per user. Segments are joined with ';'.
func WriteUsersCSV(w io.Writer, users []metrics.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(usersHeader); err != nil {
		return err
	}
	for _, u := range users {
		rec := []string{
			strconv.Itoa(u.ID),
			u.Email,
			strconv.Itoa(u.StreakDays),
			u.LastSeen.UTC().Format(time.RFC3339),
			strconv.Itoa(u.CurrentRank),
			strings.Join(u.Segments, ";"),
			fmtFloat(u.ActivityScore),
			fmtFloat(u.ChurnRisk),
			metrics.ChurnLabel(u.ChurnRisk),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInsightsCSV writes event totals by type followed by the churn list.
func WriteInsightsCSV(w io.Writer, in metrics.Insights) error {
	records := [][]string{{"section", "key", "value"}}
	for _, t := range metrics.AllEventTypes {
		records = append(records, []string{"events", string(t), strconv.Itoa(in.Events[t])})
	}
	records = append(records, []string{"events", "total", strconv.Itoa(in.Total())})
	for _, u := range in.ChurnTop {
		records = append(records, []string{"churn_risk_top", u.Email, fmtFloat(u.ChurnRisk)})
	}

	cw := csv.NewWriter(w)
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
