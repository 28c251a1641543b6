package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/logging"
	"dispatch-engine/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := os.Getenv("DISPATCH_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".dispatch-engine")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// One process per data dir. Concurrent runs would fight over the
	// sqlite file and double-send outreach.
	lock := flock.New(filepath.Join(dataDir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	cfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("bootstrap config: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	cfg, check := config.NormalizeAndValidate(cfg)
	logging.Init(cfg.App.LogLevel, cfg.App.LogFormat)
	for _, w := range check.Warnings {
		slog.Warn(w)
	}
	if !check.OK() {
		for _, e := range check.Errors {
			slog.Error(e)
		}
		return fmt.Errorf("invalid config in %s", cfgPath)
	}
	cfg.App.DataDir = dataDir

	db, err := store.Open(filepath.Join(dataDir, "dispatch.db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return Execute(db, cfg)
}
