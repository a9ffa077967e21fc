// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package controller owns the recording session state machine.
//
// A Controller is not safe for concurrent use. Every operation must run to
// completion before the next one starts; internal/dispatch provides that
// serial event loop.
package controller

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/domain/capture/model"
	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	"github.com/ManuGH/demorec/internal/domain/capture/resume"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// SessionDirLayout names timestamped Standard session directories.
const SessionDirLayout = "2006.01.02-15.04.05"

// Settings are the configured values the controller reads at command time.
type Settings struct {
	BaseDirectory string
	MapTarget     string
	SaveTarget    string
	SaveDirectory string
	ResumeFile    string
	BookmarksFile string
}

// ResumePath is the resume marker location.
func (s Settings) ResumePath() string {
	return path.Join(s.BaseDirectory, s.ResumeFile)
}

// BookmarksPath is the bookmarks file location.
func (s Settings) BookmarksPath() string {
	return path.Join(s.BaseDirectory, s.BookmarksFile)
}

// SavePath is where the configured save must exist for start to load it.
func (s Settings) SavePath() string {
	return path.Join(s.SaveDirectory, s.SaveTarget+".sav")
}

// Deps are the controller's collaborators.
type Deps struct {
	FS       ports.Filesystem
	Host     ports.Host
	Journal  ports.Journal // optional
	Settings func() Settings
	Clock    func() time.Time // defaults to time.Now
	NewID    func() string    // defaults to uuid.NewString
	Logger   zerolog.Logger
}

// Controller is the SessionController. It exclusively owns the Session.
type Controller struct {
	fs       ports.Filesystem
	host     ports.Host
	journal  ports.Journal
	markers  *resume.Store
	settings func() Settings
	clock    func() time.Time
	newID    func() string
	logger   zerolog.Logger

	session  *model.Session
	playback playbackQueue
}

// New creates a Controller in the Disabled state.
func New(deps Deps) (*Controller, error) {
	if deps.FS == nil {
		return nil, ErrMissingFilesystem
	}
	if deps.Host == nil {
		return nil, ErrMissingHost
	}
	if deps.Settings == nil {
		return nil, ErrMissingSettings
	}
	c := &Controller{
		fs:       deps.FS,
		host:     deps.Host,
		journal:  deps.Journal,
		markers:  resume.NewStore(deps.FS),
		settings: deps.Settings,
		clock:    deps.Clock,
		newID:    deps.NewID,
		logger:   deps.Logger,
		session:  model.NewSession(),
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c, nil
}

// Snapshot returns a copy of the live session.
func (c *Controller) Snapshot() model.Snapshot {
	return c.session.Snapshot()
}

func (c *Controller) log(ctx context.Context) zerolog.Logger {
	l := c.logger.With().Str(xglog.FieldMode, c.session.Mode.String())
	if c.session.ID != "" {
		l = l.Str(xglog.FieldSessionID, c.session.ID)
	}
	return xglog.WithContext(ctx, l.Logger())
}

func (c *Controller) transition(ctx context.Context, to model.Mode) {
	from := c.session.Mode
	c.session.Mode = to
	transitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
	logger := c.log(ctx)
	logger.Info().
		Str(xglog.FieldEvent, "capture.transition").
		Str(xglog.FieldOldState, from.String()).
		Str(xglog.FieldNewState, to.String()).
		Str(xglog.FieldSessionDir, c.session.SessionDirectory).
		Msg("session mode changed")
}

func (c *Controller) reject(ctx context.Context, command string, err error) error {
	reason := "error"
	switch {
	case errors.Is(err, ErrConflictingSessionActive):
		reason = "conflict"
	case errors.Is(err, ErrNoResumeState):
		reason = "no_resume_state"
	case errors.Is(err, ErrNoStartTarget):
		reason = "no_target"
	case errors.Is(err, ErrBookmarkUnavailable), errors.Is(err, ErrBookmarkUnsupported):
		reason = "bookmark_unavailable"
	}
	rejectionsTotal.WithLabelValues(command, reason).Inc()
	logger := c.log(ctx)
	logger.Warn().
		Err(err).
		Str(xglog.FieldEvent, "capture.rejected").
		Str(xglog.FieldCommand, command).
		Msg("command rejected")
	return err
}

func (c *Controller) requireDisabled(ctx context.Context, command string) error {
	if c.session.Mode != model.ModeDisabled {
		return c.reject(ctx, command, fmt.Errorf("%w: %s session in progress", ErrConflictingSessionActive, c.session.Mode))
	}
	return nil
}

// Start begins a Standard session in a fresh timestamped directory and loads
// the configured save (when it exists) or map.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.requireDisabled(ctx, "start"); err != nil {
		return err
	}

	st := c.settings()
	loadSave := st.SaveTarget != "" && c.fs.Exists(st.SavePath())
	if !loadSave && st.MapTarget == "" {
		return c.reject(ctx, "start", ErrNoStartTarget)
	}

	dir := path.Join(st.BaseDirectory, c.clock().Format(SessionDirLayout))
	if err := c.fs.CreateDirectoryTree(dir); err != nil {
		return c.reject(ctx, "start", fmt.Errorf("create session directory %s: %w", dir, err))
	}

	c.session.ID = c.newID()
	c.session.SessionDirectory = dir
	c.session.RetryCount = 0
	c.session.LastMap = ""
	c.session.CurrentArtifactName = ""
	c.session.StartedAt = c.clock()

	c.writeMarker(ctx, st.ResumePath(), dir)
	c.transition(ctx, model.ModeStandard)

	// The session is active from here on. A failed load is logged and the
	// user can load the map by hand; stop still ends the session cleanly.
	logger := c.log(ctx)
	if loadSave {
		logger.Info().Str(xglog.FieldEvent, "capture.load_save").Str("save", st.SaveTarget).Msg("loading from save")
		if err := c.host.LoadSave(st.SaveTarget); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "capture.load_failed").Str("save", st.SaveTarget).Msg("host failed to load save")
		}
		return nil
	}
	logger.Info().Str(xglog.FieldEvent, "capture.load_map").Str(xglog.FieldMap, st.MapTarget).Msg("loading map")
	if err := c.host.LoadMap(st.MapTarget); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "capture.load_failed").Str(xglog.FieldMap, st.MapTarget).Msg("host failed to load map")
	}
	return nil
}

// Segment begins a Segmented session that writes straight into the base directory.
// Segmented sessions leave no resume marker and cannot be resumed.
func (c *Controller) Segment(ctx context.Context) error {
	if err := c.requireDisabled(ctx, "segment"); err != nil {
		return err
	}

	st := c.settings()
	if !c.fs.IsDirectory(st.BaseDirectory) {
		if err := c.fs.CreateDirectoryTree(st.BaseDirectory); err != nil {
			return c.reject(ctx, "segment", fmt.Errorf("create base directory %s: %w", st.BaseDirectory, err))
		}
	}

	c.session.ID = c.newID()
	c.session.SessionDirectory = st.BaseDirectory
	c.session.StartedAt = c.clock()
	c.transition(ctx, model.ModeSegmented)
	return nil
}

// Resume restores the directory of a crashed Standard session. Loading the
// right save afterwards is up to the user.
func (c *Controller) Resume(ctx context.Context) error {
	if err := c.requireDisabled(ctx, "resume"); err != nil {
		return err
	}

	dir, err := c.markers.Read(c.settings().ResumePath())
	if err != nil {
		return c.reject(ctx, "resume", fmt.Errorf("%w: %w", ErrNoResumeState, err))
	}

	c.session.ID = c.newID()
	c.session.SessionDirectory = dir
	c.session.RetryCount = 0
	c.session.LastMap = ""
	c.session.CurrentArtifactName = ""
	c.session.StartedAt = c.clock()
	c.transition(ctx, model.ModeStandard)
	return nil
}

// Stop ends the active session. With nothing running it returns
// ErrNoActiveSession and changes nothing.
func (c *Controller) Stop(ctx context.Context) error {
	mode := c.session.Mode
	if mode == model.ModeDisabled {
		return ErrNoActiveSession
	}

	c.session.LastMap = c.session.CurrentMap

	if c.host.IsRecording() {
		if err := c.host.EndCapture(); err != nil {
			logger := c.log(ctx)
			logger.Warn().Err(err).Str(xglog.FieldEvent, "capture.end_failed").Msg("failed to end capture")
		}
	}

	switch mode {
	case model.ModeStandard:
		c.deleteMarker(ctx, c.settings().ResumePath())
	case model.ModeSegmented, model.ModeDisabled:
	}

	c.transition(ctx, model.ModeDisabled)
	c.session.ID = ""
	c.session.SessionDirectory = ""
	return nil
}

func (c *Controller) writeMarker(ctx context.Context, markerPath, dir string) {
	if err := c.markers.Write(markerPath, dir); err != nil {
		persistenceFailuresTotal.WithLabelValues("write").Inc()
		logger := c.log(ctx)
		logger.Warn().
			Err(fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)).
			Str(xglog.FieldEvent, "resume.write_failed").
			Str(xglog.FieldPath, markerPath).
			Msg("resume marker not written, this run cannot be resumed after a crash")
	}
}

func (c *Controller) deleteMarker(ctx context.Context, markerPath string) {
	if err := c.markers.Delete(markerPath); err != nil {
		persistenceFailuresTotal.WithLabelValues("delete").Inc()
		logger := c.log(ctx)
		logger.Warn().
			Err(fmt.Errorf("%w: %w", ErrPersistenceDeleteFailed, err)).
			Str(xglog.FieldEvent, "resume.delete_failed").
			Str(xglog.FieldPath, markerPath).
			Msg("failed to delete resume marker")
	}
}
