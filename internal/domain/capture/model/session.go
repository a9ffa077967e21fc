// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"strings"
	"time"
)

// UnknownMap is the map identifier before any level has loaded.
const UnknownMap = "UNKNOWN_MAP"

// backgroundMarker identifies menu/background maps that are never recorded.
const backgroundMarker = "background"

// Session is the live recording session. It is owned by the controller; other
// components only ever see a Snapshot.
type Session struct {
	ID                  string
	Mode                Mode
	SessionDirectory    string
	CurrentMap          string
	LastMap             string
	RetryCount          int
	CurrentArtifactName string
	StartedAt           time.Time
}

// NewSession returns the initial Disabled session.
func NewSession() *Session {
	return &Session{
		Mode:       ModeDisabled,
		CurrentMap: UnknownMap,
		LastMap:    UnknownMap,
	}
}

// Snapshot is a read-only copy of the session for status surfaces.
type Snapshot struct {
	SessionID           string    `json:"sessionId,omitempty"`
	Mode                Mode      `json:"mode"`
	SessionDirectory    string    `json:"sessionDirectory,omitempty"`
	CurrentMap          string    `json:"currentMap"`
	LastMap             string    `json:"lastMap"`
	RetryCount          int       `json:"retryCount"`
	CurrentArtifactName string    `json:"currentArtifactName,omitempty"`
	StartedAt           time.Time `json:"startedAt,omitzero"`
}

// Snapshot copies the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID:           s.ID,
		Mode:                s.Mode,
		SessionDirectory:    s.SessionDirectory,
		CurrentMap:          s.CurrentMap,
		LastMap:             s.LastMap,
		RetryCount:          s.RetryCount,
		CurrentArtifactName: s.CurrentArtifactName,
		StartedAt:           s.StartedAt,
	}
}

// IsBackgroundMap reports whether the map is a menu/background map.
func IsBackgroundMap(mapID string) bool {
	return strings.Contains(mapID, backgroundMarker)
}
