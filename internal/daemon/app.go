// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon owns the runtime lifecycle of demorecd: the dispatch loop,
// the console bridge, the control API and configuration reloads.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AppDeps are the subsystems an App runs. Only Dispatcher is required.
type AppDeps struct {
	Logger     zerolog.Logger
	Dispatcher Runner
	Console    Server       // optional; the app stops when its input ends
	Manager    Manager      // optional; control API
	Config     ConfigSource // optional; file watcher and SIGHUP reload
	Background []Runner     // optional; run until the app stops
}

// App owns the long-lived runtime lifecycle.
type App struct {
	logger     zerolog.Logger
	dispatcher Runner
	console    Server
	manager    Manager
	config     ConfigSource
	background []Runner

	reloadSignal os.Signal
	subscribe    func(os.Signal) (<-chan os.Signal, func())
}

// NewApp creates a new App orchestrator.
func NewApp(deps AppDeps) (*App, error) {
	if deps.Dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	return &App{
		logger:       deps.Logger,
		dispatcher:   deps.Dispatcher,
		console:      deps.Console,
		manager:      deps.Manager,
		config:       deps.Config,
		background:   deps.Background,
		reloadSignal: syscall.SIGHUP,
		subscribe:    notifySignal,
	}, nil
}

func notifySignal(sig os.Signal) (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	return ch, func() { signal.Stop(ch) }
}

// Run starts all owned subsystems and blocks until ctx is cancelled, the
// console input ends or a subsystem fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.dispatcher.Run(ctx)
	})

	if a.console != nil {
		g.Go(func() error {
			defer cancel()
			return a.console.Serve(ctx)
		})
	}

	// Config watcher is best-effort: a missing watcher must not stop recording.
	if a.config != nil {
		g.Go(func() error {
			if err := a.config.Watch(ctx); err != nil {
				a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
			}
			return nil
		})
	}

	// SIGHUP trigger for manual reload.
	if a.config != nil && a.reloadSignal != nil {
		hupChan, stop := a.subscribe(a.reloadSignal)
		g.Go(func() error {
			defer stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str("event", "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")

					if err := a.config.Reload(ctx); err != nil {
						a.logger.Warn().
							Err(err).
							Str("event", "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	for _, r := range a.background {
		g.Go(func() error {
			return r.Run(ctx)
		})
	}

	if a.manager != nil {
		g.Go(func() error {
			return a.manager.Start(ctx)
		})
	}

	return g.Wait()
}
