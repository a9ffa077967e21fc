// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package controller

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	xglog "github.com/ManuGH/demorec/internal/log"
	"github.com/ManuGH/demorec/internal/version"
)

// MaxPlaybackList caps the artifacts accepted by one playback-list command.
const MaxPlaybackList = 8

const (
	bookmarkStampLayout = "2006/01/02 15:04"
	crlf                = "\r\n"
)

// Bookmark appends the current capture and its position to the bookmarks file.
func (c *Controller) Bookmark(ctx context.Context) error {
	if !c.session.Mode.Active() || !c.host.IsRecording() {
		return c.reject(ctx, "bookmark", ErrBookmarkUnavailable)
	}
	positioner, ok := c.host.(ports.CapturePositioner)
	if !ok {
		return c.reject(ctx, "bookmark", ErrBookmarkUnsupported)
	}
	position, ok := positioner.CurrentCapturePosition()
	if !ok {
		return c.reject(ctx, "bookmark", ErrBookmarkUnsupported)
	}

	var b strings.Builder
	b.WriteString(crlf)
	fmt.Fprintf(&b, "[%s] demo: %s%s",
		c.clock().Format(bookmarkStampLayout),
		path.Join(c.session.SessionDirectory, c.session.CurrentArtifactName), crlf)
	fmt.Fprintf(&b, "\t\t   tick: %d%s", position, crlf)

	bookmarks := c.settings().BookmarksPath()
	if err := c.fs.AppendAll(bookmarks, []byte(b.String())); err != nil {
		persistenceFailuresTotal.WithLabelValues("bookmark").Inc()
		return fmt.Errorf("%w: append %s: %w", ErrPersistenceWriteFailed, bookmarks, err)
	}

	logger := c.log(ctx)
	logger.Info().
		Str(xglog.FieldEvent, "capture.bookmark").
		Str(xglog.FieldArtifact, c.session.CurrentArtifactName).
		Int("tick", position).
		Msg("bookmarked")
	return nil
}

// PlaybackList queues artifacts for sequential playback and plays the first.
// Each level shutdown advances to the next; names beyond MaxPlaybackList are dropped.
func (c *Controller) PlaybackList(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return ErrEmptyPlaybackList
	}
	if len(names) > MaxPlaybackList {
		logger := c.log(ctx)
		logger.Warn().
			Str(xglog.FieldEvent, "playback.truncated").
			Int("requested", len(names)).
			Int("max", MaxPlaybackList).
			Msgf("max %d demos in demo playback", MaxPlaybackList)
		names = names[:MaxPlaybackList]
	}
	c.playback = playbackQueue{
		names:  append([]string(nil), names...),
		active: true,
	}
	c.advancePlayback(ctx)
	return nil
}

// PlaybackRemaining returns the queued names not yet played.
func (c *Controller) PlaybackRemaining() []string {
	if !c.playback.active {
		return nil
	}
	return append([]string(nil), c.playback.names[c.playback.next:]...)
}

func (c *Controller) advancePlayback(ctx context.Context) {
	name, ok := c.playback.pop()
	if !ok {
		return
	}
	if err := c.host.PlayCapture(name); err != nil {
		logger := c.log(ctx)
		logger.Warn().Err(err).Str(xglog.FieldEvent, "playback.failed").Str(xglog.FieldArtifact, name).Msg("failed to start playback")
	}
}

// Version returns the static version line.
func (c *Controller) Version() string {
	return version.String()
}

type playbackQueue struct {
	names  []string
	next   int
	active bool
}

func (q *playbackQueue) pop() (string, bool) {
	if !q.active {
		return "", false
	}
	if q.next >= len(q.names) {
		q.active = false
		q.names = nil
		q.next = 0
		return "", false
	}
	name := q.names[q.next]
	q.next++
	return name, true
}
