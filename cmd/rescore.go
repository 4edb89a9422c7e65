package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tonhe/shadow/internal/engine"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/internal/source"
)

// rescoreCmd recomputes one user's scores.
var rescoreCmd = &cobra.Command{
	Use:   "rescore ID",
	Short: "Recompute a user's scores and notify the webhook on promotion.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		env, err := newCLIEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = env.log.Sync() }()

		res, err := env.src.Rescore(cmd.Context(), id)
		if errors.Is(err, metrics.ErrUserNotFound) {
			return fmt.Errorf("user %d not found", id)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, res.Note)
		_, _ = fmt.Fprintf(out, "activity %.2f  churn %.2f (%s)  streak %d\n",
			res.User.ActivityScore, res.User.ChurnRisk, churnLabel(res.User.ChurnRisk), res.User.StreakDays)
		switch hook := res.Webhook; {
		case hook.Sent:
			_, _ = fmt.Fprintln(out, okColor.Sprintf("webhook sent (%d)", hook.Status))
		case hook.Reason != "":
			_, _ = fmt.Fprintf(out, "webhook not sent: %s\n", hook.Reason)
		default:
			warnf("webhook failed with status %d", hook.Status)
		}
		return nil
	},
}

// seedCmd regenerates the source's data set.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Regenerate the backend's demo data set.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		users, _ := cmd.Flags().GetInt("users")
		days, _ := cmd.Flags().GetInt("days")
		if users <= 0 || days <= 0 {
			return fmt.Errorf("--users and --days must be positive")
		}
		env, err := newCLIEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = env.log.Sync() }()

		rs, ok := env.src.(source.Reseeder)
		if !ok {
			return engine.ErrReseedUnsupported
		}
		if _, isMock := env.src.(*source.Mock); isMock {
			warnf("no backend configured; mock data is regenerated on every run")
		}
		if err := rs.Reseed(cmd.Context(), users, days); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users over %d days (%s)\n", users, days, env.src.Name())
		return err
	},
}
