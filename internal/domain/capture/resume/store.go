// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package resume persists the single-line marker that lets a Standard session
// continue after the process dies.
package resume

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
)

// ErrNoMarker is returned by Read when no usable marker exists.
// Missing, unreadable and empty files all wrap it.
var ErrNoMarker = errors.New("no resume marker")

// Store reads and writes the resume marker through the host filesystem.
type Store struct {
	fs ports.Filesystem
}

// NewStore creates a marker store on fs.
func NewStore(fs ports.Filesystem) *Store {
	return &Store{fs: fs}
}

// Write replaces the marker at path with sessionDir.
func (s *Store) Write(path, sessionDir string) error {
	if err := s.fs.WriteAll(path, []byte(sessionDir)); err != nil {
		return fmt.Errorf("write resume marker %s: %w", path, err)
	}
	return nil
}

// Read returns the session directory stored at path.
func (s *Store) Read(path string) (string, error) {
	line, err := s.fs.ReadLine(path)
	if err != nil {
		if errors.Is(err, ports.ErrNotExist) {
			return "", ErrNoMarker
		}
		return "", fmt.Errorf("%w: read %s: %v", ErrNoMarker, path, err)
	}
	dir := strings.TrimSpace(line)
	if dir == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoMarker, path)
	}
	return dir, nil
}

// Delete removes the marker at path. A missing marker is not an error.
func (s *Store) Delete(path string) error {
	if !s.fs.Exists(path) {
		return nil
	}
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("delete resume marker %s: %w", path, err)
	}
	return nil
}
