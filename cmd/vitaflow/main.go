package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vitaflowd/vitaflow/internal/extract"
	"github.com/vitaflowd/vitaflow/internal/lifecycle"
	"github.com/vitaflowd/vitaflow/internal/logger"
	"github.com/vitaflowd/vitaflow/internal/notify"
	"github.com/vitaflowd/vitaflow/internal/repository"
	"github.com/vitaflowd/vitaflow/internal/scheduler"
	"github.com/vitaflowd/vitaflow/internal/storage"
	"github.com/vitaflowd/vitaflow/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vitaflow failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := update.FromEnv()

	log, err := logger.New(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync()

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	res, err := lifecycle.Initialize(store, time.Now())
	if err != nil {
		return fmt.Errorf("initialize day: %w", err)
	}
	log.Info("collection initialized",
		zap.Int("items", len(res.Items)),
		zap.Bool("seeded", res.Seeded),
		zap.Bool("reset", res.Reset))

	repo := repository.New(store)
	repo.ReplaceAll(res.Items)

	engine := scheduler.NewEngine(repo.Snapshot, cfg.EventBuffer,
		scheduler.WithInterval(cfg.PollInterval))
	engine.Start()
	defer engine.Stop()
	if cfg.NotificationsEnabled {
		engine.Arm()
	}

	// The n key can enable notifications mid-session, so the real notifier is
	// always wired; the model gates sends on the runtime toggle.
	notifier := notify.ExecNotifier{}

	var extractor update.Extractor
	if cfg.GeminiAPIKey != "" {
		extractor = extract.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	}

	m := update.NewModel(repo, engine, notifier, extractor, log, cfg.NotificationsEnabled)
	m.SetStartupNotices(res)

	program := tea.NewProgram(m, tea.WithAltScreen())

	watcher, err := lifecycle.StartRolloverWatcher(func() {
		items, err := lifecycle.Rollover(store, repo, time.Now())
		if err != nil {
			log.Error("midnight rollover failed", zap.Error(err))
			return
		}
		log.Info("day rolled over", zap.Int("items", len(items)))
		program.Send(update.DayRolledOverMsg{})
	})
	if err != nil {
		return fmt.Errorf("start rollover watcher: %w", err)
	}
	defer watcher.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
