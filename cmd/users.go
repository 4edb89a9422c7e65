package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/tui/components"
)

// trendColumnWidth is the width of the --trend sparkline column.
const trendColumnWidth = 14

// usersCmd prints the leaderboard as the active profile shows it.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Print the user leaderboard.",
	Long: `Print users ordered the way the active profile shows them: pinned users
first, then sorted by the profile's key, cut to its row limit.

Examples:
  # Top 10 by churn risk
  shadow users --sort churn -n 10

  # Everyone, with a 14 day activity sparkline
  shadow users -n 0 --trend`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sortKey, _ := cmd.Flags().GetString("sort")
		trend, _ := cmd.Flags().GetBool("trend")
		return runUsers(cmd, limit, sortKey, trend)
	},
}

// insightsCmd prints event totals and the churn top list.
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print event totals and the users most at risk of churning.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newCLIEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = env.log.Sync() }()
		prof, _, err := loadProfile(env.cfg)
		if err != nil {
			return err
		}

		in, err := env.src.Insights(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var events [][]string
		for _, t := range metrics.AllEventTypes {
			events = append(events, []string{string(t), strconv.Itoa(in.Events[t])})
		}
		events = append(events, []string{"total", strconv.Itoa(in.Total())})
		if err := renderTable(out, []string{"Event", "Count"}, events); err != nil {
			return err
		}

		top := in.ChurnTop
		if len(top) > prof.ChurnTop {
			top = top[:prof.ChurnTop]
		}
		var churn [][]string
		for i, u := range top {
			churn = append(churn, []string{
				strconv.Itoa(i + 1),
				u.Email,
				fmt.Sprintf("%.2f", u.ChurnRisk),
				churnLabel(u.ChurnRisk),
			})
		}
		_, _ = fmt.Fprintln(out)
		return renderTable(out, []string{"#", "Email", "Risk", "Label"}, churn)
	},
}

// runUsers prints the leaderboard. A negative limit or empty sortKey keeps
// the profile's value.
func runUsers(cmd *cobra.Command, limit int, sortKey string, trend bool) error {
	ctx := cmd.Context()
	env, err := newCLIEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()
	prof, _, err := loadProfile(env.cfg)
	if err != nil {
		return err
	}
	view := *prof
	if limit >= 0 {
		view.Limit = limit
	}
	if sortKey != "" {
		k, err := dashboard.ParseSortKey(sortKey)
		if err != nil {
			return err
		}
		view.Sort = k
	}

	users, err := env.src.Users(ctx)
	if err != nil {
		return err
	}
	rows := view.Apply(users)

	var trends map[int][]float64
	if trend {
		trends, err = env.src.Trends(ctx, view.TrendDays)
		if err != nil {
			return err
		}
	}

	headers := []string{"Rank", "Email", "Streak", "Activity", "Churn", "Label", "Segments"}
	if trend {
		headers = append(headers, "Trend")
	}
	var data [][]string
	for _, u := range rows {
		email := u.Email
		if view.IsPinned(u.ID) {
			email = "* " + email
		}
		row := []string{
			strconv.Itoa(u.CurrentRank),
			email,
			strconv.Itoa(u.StreakDays),
			fmt.Sprintf("%.2f", u.ActivityScore),
			fmt.Sprintf("%.2f", u.ChurnRisk),
			churnLabel(u.ChurnRisk),
			strings.Join(u.Segments, ","),
		}
		if trend {
			row = append(row, components.Sparkline(trends[u.ID], trendColumnWidth))
		}
		data = append(data, row)
	}
	return renderTable(cmd.OutOrStdout(), headers, data)
}
