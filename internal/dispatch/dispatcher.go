// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package dispatch runs every host event and user command on one goroutine,
// the only goroutine that touches the capture controller.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/domain/capture/controller"
	"github.com/ManuGH/demorec/internal/domain/capture/model"
	xglog "github.com/ManuGH/demorec/internal/log"
)

var (
	// ErrStopped is returned when the loop is not running any more.
	ErrStopped = errors.New("dispatcher stopped")
	// ErrUnknownCommand is returned for command names outside the command table.
	ErrUnknownCommand = errors.New("unknown command")

	ErrMissingController = errors.New("dispatcher requires a controller")
)

// Vars reads and writes the console variables (dir, map, save).
type Vars interface {
	Var(name string) (string, error)
	SetVar(name, value string) error
}

// Deps configures a Dispatcher.
type Deps struct {
	Controller *controller.Controller
	Vars       Vars // optional
	Logger     zerolog.Logger
}

// Dispatcher serializes access to the controller.
type Dispatcher struct {
	ctrl   *controller.Controller
	vars   Vars
	logger zerolog.Logger

	jobs    chan job
	stopped chan struct{}
}

type job struct {
	ctx  context.Context
	fn   func(context.Context, *controller.Controller)
	done chan struct{}
}

func New(deps Deps) (*Dispatcher, error) {
	if deps.Controller == nil {
		return nil, ErrMissingController
	}
	return &Dispatcher{
		ctrl:    deps.Controller,
		vars:    deps.Vars,
		logger:  deps.Logger,
		jobs:    make(chan job),
		stopped: make(chan struct{}),
	}, nil
}

// Run processes submitted work until ctx is cancelled. It must be called once.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.stopped)
	d.logger.Info().Str(xglog.FieldEvent, "dispatch.started").Msg("dispatcher running")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Str(xglog.FieldEvent, "dispatch.stopped").Msg("dispatcher stopped")
			return nil
		case j := <-d.jobs:
			j.fn(j.ctx, d.ctrl)
			close(j.done)
		}
	}
}

// do runs fn on the loop and waits for it.
func (d *Dispatcher) do(ctx context.Context, fn func(context.Context, *controller.Controller)) error {
	j := job{ctx: ctx, fn: fn, done: make(chan struct{})}
	select {
	case d.jobs <- j:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-j.done
	return nil
}

// Snapshot returns the session state as seen by the loop.
func (d *Dispatcher) Snapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	err := d.do(ctx, func(_ context.Context, c *controller.Controller) {
		snap = c.Snapshot()
	})
	return snap, err
}
