// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package controller

import "errors"

var (
	// ErrConflictingSessionActive is returned by start/segment/resume while a session is active.
	ErrConflictingSessionActive = errors.New("conflicting session active")
	// ErrNoResumeState is returned by resume when no usable resume marker exists.
	ErrNoResumeState = errors.New("no resume state")
	// ErrNoActiveSession is informational: stop was called with nothing running.
	ErrNoActiveSession = errors.New("no active session")
	// ErrPersistenceWriteFailed classifies swallowed marker/bookmark write failures.
	ErrPersistenceWriteFailed = errors.New("persistence write failed")
	// ErrPersistenceDeleteFailed classifies swallowed marker delete failures.
	ErrPersistenceDeleteFailed = errors.New("persistence delete failed")
	// ErrNoStartTarget is returned by start when neither a map nor an existing save is configured.
	ErrNoStartTarget = errors.New("no map or save configured")
	// ErrBookmarkUnavailable is returned by bookmark outside an active, recording session.
	ErrBookmarkUnavailable = errors.New("bookmark requires an active session and capture")
	// ErrBookmarkUnsupported is returned when the host cannot report the capture position.
	ErrBookmarkUnsupported = errors.New("host does not report capture position")
	// ErrEmptyPlaybackList is returned by playback-list without artifact names.
	ErrEmptyPlaybackList = errors.New("playback list is empty")

	// ErrMissingFilesystem is returned by New without a filesystem.
	ErrMissingFilesystem = errors.New("filesystem capability is required")
	// ErrMissingHost is returned by New without a host.
	ErrMissingHost = errors.New("host capability is required")
	// ErrMissingSettings is returned by New without a settings source.
	ErrMissingSettings = errors.New("settings source is required")
)
