// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldCommand   = "command"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Capture fields
	FieldMode     = "mode"
	FieldMap      = "map"
	FieldArtifact = "artifact"
	FieldRetry    = "retry"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Path fields
	FieldPath       = "path"
	FieldSessionDir = "session_dir"
)
