package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/tonhe/shadow/internal/metrics"
)

// UserRow is the Parquet schema for an exported user.
type UserRow struct {
	ID            int64     `parquet:"id,snappy"`
	Email         string    `parquet:"email,snappy"`
	StreakDays    int32     `parquet:"streak_days,snappy"`
	LastSeen      time.Time `parquet:"last_seen,snappy"`
	CurrentRank   int32     `parquet:"current_rank,snappy"`
	Segments      string    `parquet:"segments,snappy"`
	ActivityScore float64   `parquet:"activity_score,snappy"`
	ChurnRisk     float64   `parquet:"churn_risk,snappy"`
}

// NewUserRow converts a user to its Parquet row.
func NewUserRow(u metrics.User) UserRow {
	return UserRow{
		ID:            int64(u.ID),
		Email:         u.Email,
		StreakDays:    int32(u.StreakDays),
		LastSeen:      u.LastSeen.UTC(),
		CurrentRank:   int32(u.CurrentRank),
		Segments:      strings.Join(u.Segments, ";"),
		ActivityScore: u.ActivityScore,
		ChurnRisk:     u.ChurnRisk,
	}
}

// WriteUsersParquet writes users as snappy-compressed Parquet.
func WriteUsersParquet(w io.Writer, users []metrics.User) error {
	rows := make([]UserRow, len(users))
	for i, u := range users {
		rows[i] = NewUserRow(u)
	}

	writer := parquet.NewGenericWriter[UserRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
