// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// Mode is the recording mode of the live capture session.
type Mode int

const (
	// ModeDisabled means no session is active and lifecycle events are ignored.
	ModeDisabled Mode = iota
	// ModeStandard restarts capture per map attempt and tracks retries.
	ModeStandard
	// ModeSegmented keeps capturing across map changes without collision scans.
	ModeSegmented
)

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeStandard:
		return "standard"
	case ModeSegmented:
		return "segmented"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Active reports whether the mode records on lifecycle events.
func (m Mode) Active() bool {
	switch m {
	case ModeStandard, ModeSegmented:
		return true
	case ModeDisabled:
		return false
	default:
		return false
	}
}

// MarshalText renders the mode for JSON/YAML snapshots.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
