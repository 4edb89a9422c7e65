package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/engine"
	"github.com/tonhe/shadow/internal/logging"
	"github.com/tonhe/shadow/tui"
	"github.com/tonhe/shadow/tui/styles"
	"go.uber.org/zap"
)

// runTUI starts the poller and the interactive dashboard. Logs go to a file
// because the terminal belongs to the UI.
func runTUI(ctx context.Context) error {
	cfg, cfgPath, err := loadSettings()
	if err != nil {
		return err
	}
	if err := config.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	logPath, err := config.GetLogPath()
	if err != nil {
		return err
	}
	log, err := logging.NewFile(logPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	prof, profilesDir, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	styles.SetTheme(styles.ResolveTheme(cfg.Theme))

	src := openSource(ctx, cfg, log)
	poller := engine.NewPoller(src, engine.Options{
		Interval:   cfg.PollInterval,
		MaxHistory: cfg.MaxHistory,
		TrendDays:  prof.TrendDays,
		Log:        log,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()

	log.Info("starting dashboard",
		zap.String("version", version),
		zap.String("source", src.Name()),
		zap.String("profile", prof.Name))

	model := tui.NewAppModel(cfg, cfgPath, poller, prof, profilesDir, version, log)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	cancel()
	<-done
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
