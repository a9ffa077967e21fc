// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package console bridges the capture core to a game host over a line
// protocol: status and lifecycle events come in, engine commands go out.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// Host writes engine commands to Out and tracks the recording/playback status
// the engine reports back.
type Host struct {
	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger

	recording bool
	playing   bool
	tick      int
	tickKnown bool
}

var (
	_ ports.Host              = (*Host)(nil)
	_ ports.CapturePositioner = (*Host)(nil)
)

func NewHost(out io.Writer, logger zerolog.Logger) *Host {
	return &Host{out: out, logger: logger}
}

func (h *Host) send(command string) error {
	h.logger.Debug().Str(xglog.FieldEvent, "console.send").Str(xglog.FieldCommand, command).Msg("engine command")
	if _, err := io.WriteString(h.out, command+"\n"); err != nil {
		return fmt.Errorf("console write %q: %w", command, err)
	}
	return nil
}

func (h *Host) IsPlayingBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *Host) IsRecording() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recording
}

// BeginCapture asks the engine to record to path. The host counts as
// recording right away; a later "event recording 0" corrects it.
func (h *Host) BeginCapture(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.send(shellquote.Join("record", path)); err != nil {
		return err
	}
	h.recording = true
	h.tick = 0
	h.tickKnown = false
	return nil
}

func (h *Host) EndCapture() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.send("stop"); err != nil {
		return err
	}
	h.recording = false
	h.tickKnown = false
	return nil
}

func (h *Host) LoadMap(mapID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(`map "` + strings.ReplaceAll(mapID, `"`, "") + `"`)
}

func (h *Host) LoadSave(saveID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(shellquote.Join("load", saveID+".sav"))
}

func (h *Host) PlayCapture(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.send(shellquote.Join("playdemo", name)); err != nil {
		return err
	}
	h.playing = true
	return nil
}

// CurrentCapturePosition returns the last tick the engine reported for the
// running capture.
func (h *Host) CurrentCapturePosition() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.recording || !h.tickKnown {
		return 0, false
	}
	return h.tick, true
}

// ApplyStatus updates the engine status from a status line.
func (h *Host) ApplyStatus(s Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch s.Kind {
	case StatusRecording:
		h.recording = s.Value != 0
		if !h.recording {
			h.tickKnown = false
		}
	case StatusPlaying:
		h.playing = s.Value != 0
	case StatusTick:
		h.tick = s.Value
		h.tickKnown = true
	}
}
