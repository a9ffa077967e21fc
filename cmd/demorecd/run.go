// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/api"
	"github.com/ManuGH/demorec/internal/config"
	"github.com/ManuGH/demorec/internal/daemon"
	"github.com/ManuGH/demorec/internal/dispatch"
	"github.com/ManuGH/demorec/internal/domain/capture/controller"
	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	"github.com/ManuGH/demorec/internal/domain/capture/store"
	"github.com/ManuGH/demorec/internal/infra/console"
	"github.com/ManuGH/demorec/internal/infra/hostfs"
	xglog "github.com/ManuGH/demorec/internal/log"
	"github.com/ManuGH/demorec/internal/persistence/sqlite"
	"github.com/ManuGH/demorec/internal/version"
)

type options struct {
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer // engine commands
	Stderr     io.Writer // user messages and logs
	Console    bool
	Color      bool
}

// run wires the daemon and blocks until ctx is cancelled or the console ends.
func run(ctx context.Context, opts options) error {
	loader := config.NewLoader(opts.ConfigPath)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	xglog.Reconfigure(xglog.Config{
		Level:   cfg.LogLevel,
		Output:  opts.Stderr,
		Service: cfg.LogService,
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	if opts.ConfigPath != "" {
		logger.Info().Str("event", "config.loaded").Str("source", "file").Str("path", opts.ConfigPath).Msg("loaded configuration from file")
	} else {
		logger.Info().Str("event", "config.loaded").Str("source", "env+defaults").Msg("loaded configuration from environment and defaults")
	}

	gameFS, err := hostfs.New(cfg.GameDir)
	if err != nil {
		return fmt.Errorf("game directory: %w", err)
	}

	holder := config.NewConfigHolder(cfg, loader)
	discoverFirstMap(holder, gameFS, logger)

	journal, closeJournal := openJournal(resolveJournalPath(cfg.GameDir, cfg.JournalPath))
	defer closeJournal()

	host := console.NewHost(opts.Stdout, xglog.WithComponent("host"))

	ctrl, err := controller.New(controller.Deps{
		FS:       gameFS,
		Host:     host,
		Journal:  journal,
		Settings: holder.Settings,
		Logger:   xglog.WithComponent("controller"),
	})
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	dispatcher, err := dispatch.New(dispatch.Deps{
		Controller: ctrl,
		Vars:       holder,
		Logger:     xglog.WithComponent("dispatch"),
	})
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	appDeps := daemon.AppDeps{
		Logger:     logger,
		Dispatcher: dispatcher,
		Config:     holder,
		Background: []daemon.Runner{newLevelFollower(holder, logger)},
	}

	if opts.Console {
		appDeps.Console = &console.Bridge{
			In:       opts.Stdin,
			Host:     host,
			Dispatch: dispatcher,
			Printer:  console.NewPrinter(opts.Stderr, opts.Color),
			Logger:   xglog.WithComponent("console"),
		}
	}

	if cfg.ListenAddr != "" {
		handler, err := api.NewRouter(api.Deps{
			Dispatcher: dispatcher,
			Journal:    journal,
			Logger:     xglog.WithComponent("api"),
		})
		if err != nil {
			return fmt.Errorf("create api: %w", err)
		}
		mgr, err := daemon.NewManager(daemon.DefaultServerConfig(cfg.ListenAddr), daemon.Deps{
			Logger:     logger,
			APIHandler: handler,
		})
		if err != nil {
			return fmt.Errorf("create daemon manager: %w", err)
		}
		appDeps.Manager = mgr
	}

	if appDeps.Console == nil && appDeps.Manager == nil {
		return errors.New("nothing to serve: console disabled and no listenAddr configured")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version.Version).
		Str("game_dir", cfg.GameDir).
		Str("base_dir", cfg.BaseDirectory).
		Str("map", cfg.MapTarget).
		Str("addr", cfg.ListenAddr).
		Bool("journal", journal != nil).
		Msg("starting demorecd")

	app, err := daemon.NewApp(appDeps)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// discoverFirstMap fills an empty map target from the chapter config and
// persists it.
func discoverFirstMap(holder *config.ConfigHolder, gameFS ports.Filesystem, logger zerolog.Logger) {
	cfg := holder.Get()
	if cfg.MapTarget != "" {
		return
	}
	name, ok := controller.DiscoverFirstMap(gameFS, cfg.ChapterConfig)
	if !ok {
		logger.Info().Str("path", cfg.ChapterConfig).Msg("no first map found in chapter config")
		return
	}
	if err := holder.SetVar("map", name); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldMap, name).Msg("failed to persist discovered first map")
		return
	}
	logger.Info().Str(xglog.FieldMap, name).Str("event", "config.first_map").Msg("discovered first map")
}

// resolveJournalPath resolves a relative journal path under the game
// directory, like every other configured path.
func resolveJournalPath(gameDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(gameDir, p)
}

// openJournal opens the capture journal when configured. An existing file
// that fails the quick integrity check is left alone and the journal stays
// disabled.
func openJournal(path string) (ports.Journal, func()) {
	noop := func() {}
	if path == "" {
		return nil, noop
	}
	logger := xglog.WithComponent("journal")

	if _, err := os.Stat(path); err == nil {
		issues, err := sqlite.VerifyIntegrity(path, sqlite.CheckQuick)
		if err != nil || len(issues) > 0 {
			logger.Error().Err(err).Strs("issues", issues).Str(xglog.FieldPath, path).
				Msg("capture journal failed integrity check, journal disabled")
			return nil, noop
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Error().Err(err).Str(xglog.FieldPath, path).Msg("capture journal not accessible, journal disabled")
		return nil, noop
	}

	j, err := store.NewSqliteJournal(path)
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldPath, path).Msg("failed to open capture journal, journal disabled")
		return nil, noop
	}
	return j, func() {
		if err := j.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close capture journal")
		}
	}
}
