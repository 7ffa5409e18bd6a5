package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"inkquest/internal/engine"
	"inkquest/internal/scheduler"
	"inkquest/internal/storage"
	"inkquest/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inkquest failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := update.LoadRuntimeConfig(os.Getenv("INKQUEST_CONFIG"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	if os.Getenv("INKQUEST_CONFIG") == "" {
		// Pick up a config.yaml dropped into the data dir without requiring
		// the env var.
		cfg, err = update.LoadRuntimeConfig(filepath.Join(cfg.DataDir, "config.yaml"))
		if err != nil {
			return err
		}
	}

	// The TUI owns stdout, so logs go to a file in the data dir.
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{cfg.LogPath()}
	logCfg.ErrorOutputPaths = []string{cfg.LogPath()}
	logger, err := logCfg.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := storage.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer store.Close()

	clock := engine.SystemClock{}
	repo := storage.NewQuestRepository(store)
	completion := engine.NewCompletion(store, clock, logger)

	sched := scheduler.NewEngine(cfg.SchedulerBuffer, logger)
	reminders, err := storage.LoadReminders(context.Background(), store)
	if err != nil {
		return err
	}
	if err := sched.Sync(reminders); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	var watcher *update.Watcher
	if cfg.WatchDataDir {
		watcher, err = update.StartWatcher(cfg.DatabasePath(), logger)
		if err != nil {
			logger.Warn("data dir watch unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	m := update.NewModelWithConfig(update.Deps{
		Store:      store,
		Repository: repo,
		Completion: completion,
		Clock:      clock,
		Scheduler:  sched,
		Watcher:    watcher,
		Notifier:   notifier,
		Logger:     logger,
	}, cfg)

	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
