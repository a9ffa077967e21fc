// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/config"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// levelFollower applies logLevel from reloaded configurations.
type levelFollower struct {
	updates <-chan config.AppConfig
	level   string
	logger  zerolog.Logger
}

func newLevelFollower(holder *config.ConfigHolder, logger zerolog.Logger) *levelFollower {
	updates := make(chan config.AppConfig, 1)
	holder.RegisterListener(updates)
	return &levelFollower{updates: updates, level: holder.Get().LogLevel, logger: logger}
}

func (f *levelFollower) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-f.updates:
			if cfg.LogLevel == f.level {
				continue
			}
			if err := xglog.SetLevel(cfg.LogLevel); err != nil {
				f.logger.Warn().Err(err).Str("level", cfg.LogLevel).Msg("ignoring reloaded log level")
				continue
			}
			f.logger.Info().Str("event", "log.level_changed").Str("old", f.level).Str("new", cfg.LogLevel).Msg("log level changed")
			f.level = cfg.LogLevel
		}
	}
}
