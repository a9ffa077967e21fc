// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import "sync"

// FakeHost records every call the controller makes. Recording and playback
// flags follow the calls the way a real host would.
type FakeHost struct {
	mu sync.Mutex

	Playing   bool
	Recording bool
	Position  int
	// NoPosition hides the CapturePositioner capability result.
	NoPosition bool
	// LoadErr is returned by LoadMap and LoadSave after the call is recorded.
	LoadErr error

	Calls []string
}

func NewFakeHost() *FakeHost {
	return &FakeHost{}
}

func (h *FakeHost) record(call string) {
	h.Calls = append(h.Calls, call)
}

func (h *FakeHost) IsPlayingBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Playing
}

func (h *FakeHost) IsRecording() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Recording
}

func (h *FakeHost) BeginCapture(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Recording = true
	h.record("record " + path)
	return nil
}

func (h *FakeHost) EndCapture() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Recording = false
	h.record("stop")
	return nil
}

func (h *FakeHost) LoadMap(mapID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("map " + mapID)
	return h.LoadErr
}

func (h *FakeHost) LoadSave(saveID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("load " + saveID)
	return h.LoadErr
}

func (h *FakeHost) PlayCapture(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Playing = true
	h.record("playdemo " + name)
	return nil
}

func (h *FakeHost) CurrentCapturePosition() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.NoPosition {
		return 0, false
	}
	return h.Position, true
}

// CallLog returns a copy of the recorded calls.
func (h *FakeHost) CallLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.Calls...)
}

// Reset clears recorded calls.
func (h *FakeHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = nil
}

// BareHost exposes only the ports.Host methods of a FakeHost, for hosts
// without the CapturePositioner capability.
type BareHost struct {
	h *FakeHost
}

// Bare wraps the host without its optional capabilities.
func (h *FakeHost) Bare() BareHost {
	return BareHost{h: h}
}

func (b BareHost) IsPlayingBack() bool { return b.h.IsPlayingBack() }
func (b BareHost) IsRecording() bool { return b.h.IsRecording() }
func (b BareHost) BeginCapture(path string) error { return b.h.BeginCapture(path) }
func (b BareHost) EndCapture() error { return b.h.EndCapture() }
func (b BareHost) LoadMap(mapID string) error { return b.h.LoadMap(mapID) }
func (b BareHost) LoadSave(saveID string) error { return b.h.LoadSave(saveID) }
func (b BareHost) PlayCapture(name string) error { return b.h.PlayCapture(name) }
