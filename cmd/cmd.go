// Package cmd defines the command-line interface for shadow.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/internal/export"
	"github.com/tonhe/shadow/internal/source"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(sparkCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(rescoreCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(versionCmd)

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileNewCmd)

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configThemeCmd)
	configCmd.AddCommand(configBackendCmd)
	configCmd.AddCommand(configWebhookCmd)
	configCmd.AddCommand(configProfileCmd)

	// Persistent flags are bound to Viper so SHADOW_* variables override them.
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("backend-url", "", "Backend base URL (empty uses mock data)")
	rootCmd.PersistentFlags().String("webhook-url", "", "Webhook notified on promotion")
	rootCmd.PersistentFlags().String("theme", "", "Theme override for this run")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "View profile to use")
	rootCmd.PersistentFlags().Int64("mock-seed", 0, "Seed for the mock data set")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fatal("Error binding root flags", err)
	}

	sparkCmd.SetFlagErrorFunc(sparkFlagError)
	sparkCmd.Flags().Float64("width", 0, "Canvas width (default from config)")
	sparkCmd.Flags().Float64("height", 0, "Canvas height (default from config)")
	sparkCmd.Flags().Bool("svg", false, "Print a standalone SVG document instead of the path")
	sparkCmd.Flags().String("stroke", "currentColor", "SVG stroke colour")
	sparkCmd.Flags().String("title", "", "SVG title")

	usersCmd.Flags().IntP("limit", "n", -1, "Rows to show (default from profile, 0 for all)")
	usersCmd.Flags().String("sort", "", "Sort key: activity, churn, rank or streak")
	usersCmd.Flags().Bool("trend", false, "Add a daily activity sparkline column")

	exportCmd.Flags().StringP("format", "f", string(export.FormatCSV), "Export format: csv, json or parquet")
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: timestamped file in the exports dir)")
	exportCmd.Flags().Bool("insights", false, "Export event totals and churn top as CSV instead of users")

	seedCmd.Flags().Int("users", source.DefaultMockUsers, "Number of users to generate")
	seedCmd.Flags().Int("days", source.DefaultMockDays, "Days of history to generate")

	profileNewCmd.Flags().Int("limit", dashboard.DefaultLimit, "Rows shown (0 for all)")
	profileNewCmd.Flags().Int("churn-top", dashboard.DefaultChurnTop, "Users in the churn list")
	profileNewCmd.Flags().String("sort", string(dashboard.SortActivity), "Sort key: activity, churn, rank or streak")
	profileNewCmd.Flags().Int("trend-days", dashboard.DefaultTrendDays, "Days in the detail chart")
	profileNewCmd.Flags().IntSlice("pin", nil, "User IDs pinned to the top")
	profileNewCmd.Flags().Bool("force", false, "Overwrite an existing profile")
}
