// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package controller

import (
	"context"
	"fmt"
	"path"

	"github.com/ManuGH/demorec/internal/domain/capture/model"
	"github.com/ManuGH/demorec/internal/domain/capture/naming"
	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// OnLevelLoaded records the map that just loaded. Naming waits for the client
// join, which is when the host is ready to record.
func (c *Controller) OnLevelLoaded(_ context.Context, mapID string) {
	if c.session.Mode.Active() {
		c.session.CurrentMap = mapID
	}
}

// OnClientJoinAttempt names the next artifact and begins capturing it.
func (c *Controller) OnClientJoinAttempt(ctx context.Context) error {
	if !c.session.Mode.Active() || c.host.IsPlayingBack() {
		return nil
	}

	cur := c.session.CurrentMap
	if model.IsBackgroundMap(cur) {
		return nil
	}

	logger := c.log(ctx)
	capturePath := "retry"
	if cur == c.session.LastMap && c.session.Mode == model.ModeStandard {
		c.session.RetryCount++
	} else {
		capturePath = "new_map"
		start := 0
		switch c.session.Mode {
		case model.ModeStandard:
			namingProbesTotal.Inc()
			n, err := naming.CountExisting(c.fs, c.session.SessionDirectory, cur)
			if err != nil {
				logger.Warn().
					Err(err).
					Str(xglog.FieldEvent, "capture.naming_probe_failed").
					Str(xglog.FieldMap, cur).
					Msg("could not scan session directory, assuming no prior artifacts")
			}
			start = n
		case model.ModeSegmented, model.ModeDisabled:
			start = 0
		}
		c.session.RetryCount = start
		c.session.LastMap = cur
	}
	c.session.CurrentArtifactName = naming.ArtifactName(cur, c.session.RetryCount)

	target := path.Join(c.session.SessionDirectory, c.session.CurrentArtifactName)
	if err := c.host.BeginCapture(target); err != nil {
		return fmt.Errorf("begin capture %s: %w", target, err)
	}
	capturesStartedTotal.WithLabelValues(c.session.Mode.String(), capturePath).Inc()

	logger.Info().
		Str(xglog.FieldEvent, "capture.begin").
		Str(xglog.FieldMap, cur).
		Str(xglog.FieldArtifact, c.session.CurrentArtifactName).
		Int(xglog.FieldRetry, c.session.RetryCount).
		Str(xglog.FieldSessionDir, c.session.SessionDirectory).
		Msg("capture started")

	c.journalCapture(ctx)
	return nil
}

// OnLevelShutdown ends the per-map capture of a Standard session and advances
// an active playback list. The host may fire it several times per map change.
func (c *Controller) OnLevelShutdown(ctx context.Context) {
	switch c.session.Mode {
	case model.ModeStandard:
		if !c.host.IsPlayingBack() && c.host.IsRecording() {
			if err := c.host.EndCapture(); err != nil {
				logger := c.log(ctx)
				logger.Warn().Err(err).Str(xglog.FieldEvent, "capture.end_failed").Msg("failed to end capture on level shutdown")
			}
		}
	case model.ModeSegmented, model.ModeDisabled:
	}

	if c.playback.active {
		c.advancePlayback(ctx)
	}
}

func (c *Controller) journalCapture(ctx context.Context) {
	if c.journal == nil {
		return
	}
	entry := ports.CaptureEntry{
		SessionID:        c.session.ID,
		Mode:             c.session.Mode.String(),
		Map:              c.session.CurrentMap,
		Artifact:         c.session.CurrentArtifactName,
		SessionDirectory: c.session.SessionDirectory,
		Retry:            c.session.RetryCount,
		StartedAt:        c.clock(),
	}
	if err := c.journal.RecordCapture(ctx, entry); err != nil {
		persistenceFailuresTotal.WithLabelValues("journal").Inc()
		logger := c.log(ctx)
		logger.Warn().Err(err).Str(xglog.FieldEvent, "journal.write_failed").Msg("failed to journal capture")
	}
}
