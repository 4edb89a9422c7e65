package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/tui/styles"
)

// configCmd groups persisted preference changes.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change persisted settings.",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var configThemeCmd = &cobra.Command{
	Use:   "theme NAME",
	Short: "Set the default theme.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if styles.GetThemeByName(name) == nil {
			return fmt.Errorf("unknown theme %q (run 'shadow themes' to list them)", name)
		}
		return updateConfig(cmd, func(cfg *config.Config) string {
			cfg.Theme = name
			return fmt.Sprintf("Default theme set to %q.", name)
		})
	},
}

var configBackendCmd = &cobra.Command{
	Use:   "backend URL",
	Short: "Set the backend base URL (\"\" for mock data).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[0]
		if err := checkURL(raw); err != nil {
			return err
		}
		return updateConfig(cmd, func(cfg *config.Config) string {
			cfg.BackendURL = raw
			if raw == "" {
				return "Backend cleared; mock data will be used."
			}
			return fmt.Sprintf("Backend set to %s.", raw)
		})
	},
}

var configWebhookCmd = &cobra.Command{
	Use:   "webhook URL",
	Short: "Set the promotion webhook URL (\"\" to fall back to $WEBHOOK_URL).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[0]
		if err := checkURL(raw); err != nil {
			return err
		}
		return updateConfig(cmd, func(cfg *config.Config) string {
			cfg.WebhookURL = raw
			if raw == "" {
				return "Webhook cleared."
			}
			return fmt.Sprintf("Webhook set to %s.", raw)
		})
	},
}

var configProfileCmd = &cobra.Command{
	Use:   "profile NAME",
	Short: "Set the profile used at startup.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir, err := config.GetProfilesDir()
		if err != nil {
			return err
		}
		if name != dashboard.DefaultProfile().Name {
			if _, err := dashboard.LoadNamed(dir, name); err != nil {
				return err
			}
		}
		return updateConfig(cmd, func(cfg *config.Config) string {
			cfg.DefaultProfile = name
			return fmt.Sprintf("Default profile set to %q.", name)
		})
	},
}

// themesCmd lists theme slugs.
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range styles.ListThemes() {
			cmd.Println(name)
		}
	},
}

// checkURL accepts "" or an absolute http(s) URL.
func checkURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q: want http(s)://host[:port]", raw)
	}
	return nil
}

// updateConfig loads the file config (without flag or environment
// overrides), applies change and saves it back.
func updateConfig(cmd *cobra.Command, change func(*config.Config) string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	msg := change(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}
