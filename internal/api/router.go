// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes the capture session over HTTP. Every request goes
// through the dispatcher, so HTTP and console input never interleave.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/api/middleware"
	"github.com/ManuGH/demorec/internal/dispatch"
	"github.com/ManuGH/demorec/internal/domain/capture/model"
	"github.com/ManuGH/demorec/internal/domain/capture/ports"
)

var ErrMissingDispatcher = errors.New("api requires a dispatcher")

// Dispatcher is the part of dispatch.Dispatcher the API uses.
type Dispatcher interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
	Command(ctx context.Context, name string, args []string) (dispatch.Reply, error)
}

// Deps are the API's collaborators.
type Deps struct {
	Dispatcher Dispatcher
	Journal    ports.Journal // optional; captures endpoint answers 404 without it
	Metrics    http.Handler  // optional; defaults to promhttp.Handler()
	Logger     zerolog.Logger
}

type server struct {
	dispatcher Dispatcher
	journal    ports.Journal
	logger     zerolog.Logger
}

// NewRouter builds the control API router.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	s := &server{
		dispatcher: deps.Dispatcher,
		journal:    deps.Journal,
		logger:     deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.SecurityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		r.Get("/captures", s.handleCaptures)
		r.With(middleware.CommandRateLimit()).Post("/commands/{name}", s.handleCommand)
	})
	return r, nil
}
