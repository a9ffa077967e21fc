package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/ManuGH/demorec/internal/dispatch"
)

var ErrMalformedLine = errors.New("malformed console line")

// StatusKind enumerates engine status updates.
type StatusKind int

const (
	StatusRecording StatusKind = iota
	StatusPlaying
	StatusTick
)

// Status is an engine status update.
type Status struct {
	Kind  StatusKind
	Value int
}

// LineKind says how a parsed line is routed.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineEvent
	LineStatus
	LineCommand
)

// Line is one parsed input line.
type Line struct {
	Kind    LineKind
	Event   dispatch.Event
	Status  Status
	Command string
	Args    []string
}

// ParseLine tokenizes a line with shell quoting rules. Lines starting with
// "event" are host notifications; anything else is a user command.
func ParseLine(raw string) (Line, error) {
	words, err := shellquote.Split(strings.TrimSpace(raw))
	if err != nil {
		return Line{}, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	if len(words) == 0 || strings.HasPrefix(words[0], "//") {
		return Line{Kind: LineEmpty}, nil
	}
	if words[0] != "event" {
		return Line{Kind: LineCommand, Command: words[0], Args: words[1:]}, nil
	}
	if len(words) < 2 {
		return Line{}, fmt.Errorf("%w: event without name", ErrMalformedLine)
	}

	name, rest := words[1], words[2:]
	switch name {
	case "level_init":
		if len(rest) != 1 {
			return Line{}, fmt.Errorf("%w: level_init wants one map", ErrMalformedLine)
		}
		return Line{Kind: LineEvent, Event: dispatch.Event{Kind: dispatch.EventLevelInit, Map: rest[0]}}, nil
	case "client_connect":
		return Line{Kind: LineEvent, Event: dispatch.Event{Kind: dispatch.EventClientConnect}}, nil
	case "level_shutdown":
		return Line{Kind: LineEvent, Event: dispatch.Event{Kind: dispatch.EventLevelShutdown}}, nil
	case "recording", "playing", "tick":
		if len(rest) != 1 {
			return Line{}, fmt.Errorf("%w: %s wants one value", ErrMalformedLine, name)
		}
		v, err := strconv.Atoi(rest[0])
		if err != nil || v < 0 {
			return Line{}, fmt.Errorf("%w: %s value %q", ErrMalformedLine, name, rest[0])
		}
		kind := StatusTick
		switch name {
		case "recording":
			kind = StatusRecording
		case "playing":
			kind = StatusPlaying
		}
		return Line{Kind: LineStatus, Status: Status{Kind: kind, Value: v}}, nil
	default:
		return Line{}, fmt.Errorf("%w: unknown event %q", ErrMalformedLine, name)
	}
}
