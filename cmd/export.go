package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/export"
	"github.com/tonhe/shadow/internal/metrics"
)

// exportCmd writes the leaderboard (or insights) to a file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export users to CSV, JSON or Parquet.",
	Long: `Write every user, in leaderboard order, to a file. Without --out the file
is created in the exports directory with a timestamped name.

Examples:
  shadow export
  shadow export -f parquet -o users.parquet
  shadow export --insights -o insights.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		formatStr, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		insights, _ := cmd.Flags().GetBool("insights")

		format, err := export.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		if insights && format != export.FormatCSV {
			return fmt.Errorf("--insights only supports csv, got %s", format)
		}

		env, err := newCLIEnv(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = env.log.Sync() }()

		if out == "" {
			dir, err := config.GetExportsDir()
			if err != nil {
				return err
			}
			name := export.FileName(format, time.Now())
			if insights {
				name = "insights-" + name[len("users-"):]
			}
			out = filepath.Join(dir, name)
		}

		if insights {
			in, err := env.src.Insights(ctx)
			if err != nil {
				return err
			}
			if err := writeInsights(out, in); err != nil {
				return err
			}
		} else {
			users, err := env.src.Users(ctx)
			if err != nil {
				return err
			}
			if err := export.Write(format, out, metrics.Leaderboard(users)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func writeInsights(path string, in *metrics.Insights) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	err = export.WriteInsightsCSV(f, *in)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
