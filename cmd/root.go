package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/dashboard"
	"github.com/tonhe/shadow/internal/logging"
	"github.com/tonhe/shadow/internal/source"
	"github.com/tonhe/shadow/internal/webhook"
	"github.com/tonhe/shadow/tui/styles"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Linker flags set at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd launches the dashboard, or prints the leaderboard when stdout is
// not a terminal.
var rootCmd = &cobra.Command{
	Use:   "shadow",
	Short: "Terminal dashboard for user growth metrics.",
	Long: `shadow polls a growth-metrics backend (or a built-in mock data set) and
shows streaks, activity scores, churn risk and event trends in the terminal.

With no subcommand it starts the interactive dashboard. When stdout is not a
terminal it prints the leaderboard instead.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runTUI(cmd.Context())
		}
		return runUsers(cmd, -1, "", false)
	},
}

// initConfig makes every persistent flag overridable from SHADOW_* variables.
func initConfig() {
	viper.SetEnvPrefix("SHADOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// configPath returns --config or the default config.toml location.
func configPath() (string, error) {
	if p := viper.GetString("config"); p != "" {
		return p, nil
	}
	return config.GetConfigPath()
}

// loadSettings reads config.toml and layers flags and environment on top.
func loadSettings() (*config.Config, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	if v := viper.GetString("backend-url"); v != "" {
		cfg.BackendURL = v
	}
	if v := viper.GetString("webhook-url"); v != "" {
		cfg.WebhookURL = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("theme"); v != "" {
		if styles.GetThemeByName(v) == nil {
			warnf("unknown theme %q, keeping %q", v, cfg.Theme)
		} else {
			cfg.Theme = v
		}
	}
	if viper.IsSet("mock-seed") {
		cfg.MockSeed = viper.GetInt64("mock-seed")
	}
	return cfg, path, nil
}

// loadProfile resolves the profile named by --profile, falling back to the
// config's default profile and then to the built-in one.
func loadProfile(cfg *config.Config) (*dashboard.Profile, string, error) {
	dir, err := config.GetProfilesDir()
	if err != nil {
		return nil, "", err
	}
	name := viper.GetString("profile")
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name == "" {
		return dashboard.DefaultProfile(), dir, nil
	}
	prof, err := dashboard.LoadNamed(dir, name)
	if errors.Is(err, dashboard.ErrProfileNotFound) && name == dashboard.DefaultProfile().Name {
		return dashboard.DefaultProfile(), dir, nil
	}
	if err != nil {
		return nil, "", err
	}
	return prof, dir, nil
}

// openSource picks the REST backend or the mock generator.
func openSource(ctx context.Context, cfg *config.Config, log *zap.Logger) source.Source {
	return source.Resolve(ctx, source.ResolveOptions{
		BackendURL: cfg.BackendURL,
		Mock: source.MockOptions{
			Users:    cfg.MockUsers,
			Days:     cfg.MockDays,
			Seed:     cfg.MockSeed,
			Notifier: webhook.New(cfg.ResolvedWebhookURL(), log),
		},
		Log: log,
	})
}

// cliEnv is what most subcommands need: settings, a stderr logger and a source.
type cliEnv struct {
	cfg *config.Config
	log *zap.Logger
	src source.Source
}

func newCLIEnv(ctx context.Context) (*cliEnv, error) {
	cfg, _, err := loadSettings()
	if err != nil {
		return nil, err
	}
	log, err := logging.NewConsole(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &cliEnv{cfg: cfg, log: log, src: openSource(ctx, cfg, log)}, nil
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
