// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/demorec/internal/domain/capture/controller"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// Tone tells the console how to present a reply.
type Tone int

const (
	ToneInfo Tone = iota
	ToneError
	ToneHighlight
)

func (t Tone) String() string {
	switch t {
	case ToneError:
		return "error"
	case ToneHighlight:
		return "highlight"
	default:
		return "info"
	}
}

// Reply is the user-facing outcome of a command.
type Reply struct {
	Message string
	Tone    Tone
}

const msgPrefix = "[Speedrun] "

func info(msg string) Reply      { return Reply{Message: msgPrefix + msg, Tone: ToneInfo} }
func failure(msg string) Reply   { return Reply{Message: msgPrefix + msg, Tone: ToneError} }
func highlight(msg string) Reply { return Reply{Message: msgPrefix + msg, Tone: ToneHighlight} }

type commandFunc func(ctx context.Context, d *Dispatcher, c *controller.Controller, args []string) (Reply, error)

var commands = map[string]commandFunc{
	"start":         cmdStart,
	"segment":       cmdSegment,
	"resume":        cmdResume,
	"stop":          cmdStop,
	"bookmark":      cmdBookmark,
	"playback-list": cmdPlaybackList,
	"version":       cmdVersion,
	"dir":           varCommand("dir"),
	"map":           varCommand("map"),
	"save":          varCommand("save"),
}

var aliases = map[string]string{
	"demo-playback": "playback-list",
}

// CanonicalName maps "speedrun_demo_playback", "Playback_List" and friends
// onto command table keys.
func CanonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "speedrun_")
	n = strings.ReplaceAll(n, "_", "-")
	if target, ok := aliases[n]; ok {
		return target
	}
	return n
}

// Commands lists the canonical command names.
func Commands() []string {
	out := make([]string, 0, len(commands))
	for name := range commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Command runs a user command on the loop. Rejections come back both as a
// Reply for the user and as the controller's error for callers that classify.
func (d *Dispatcher) Command(ctx context.Context, name string, args []string) (Reply, error) {
	canonical := CanonicalName(name)
	fn, ok := commands[canonical]
	if !ok {
		commandsTotal.WithLabelValues("unknown", "rejected").Inc()
		return failure(fmt.Sprintf("Unknown command %q.", name)), fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	ctx = xglog.ContextWithCommand(ctx, canonical)
	var (
		reply  Reply
		cmdErr error
	)
	if err := d.do(ctx, func(ctx context.Context, c *controller.Controller) {
		reply, cmdErr = fn(ctx, d, c, args)
	}); err != nil {
		return Reply{}, err
	}

	result := "ok"
	if cmdErr != nil {
		result = "rejected"
	}
	commandsTotal.WithLabelValues(canonical, result).Inc()
	return reply, cmdErr
}

func cmdStart(ctx context.Context, _ *Dispatcher, c *controller.Controller, _ []string) (Reply, error) {
	err := c.Start(ctx)
	switch {
	case err == nil:
		return info("Speedrun starting now..."), nil
	case errors.Is(err, controller.ErrConflictingSessionActive):
		return failure("Please stop all other speedruns with speedrun_stop."), err
	case errors.Is(err, controller.ErrNoStartTarget):
		return failure("Please set a map with speedrun_map or save with speedrun_save first."), err
	default:
		return failure("Speedrun could not start: " + err.Error()), err
	}
}

func cmdSegment(ctx context.Context, _ *Dispatcher, c *controller.Controller, _ []string) (Reply, error) {
	err := c.Segment(ctx)
	switch {
	case err == nil:
		return info("Segment demo record activated, please reload/load a map to start recording..."), nil
	case errors.Is(err, controller.ErrConflictingSessionActive):
		return failure("Please stop all other speedruns with speedrun_stop."), err
	default:
		return failure("Segmented recording could not start: " + err.Error()), err
	}
}

func cmdResume(ctx context.Context, _ *Dispatcher, c *controller.Controller, _ []string) (Reply, error) {
	err := c.Resume(ctx)
	switch {
	case err == nil:
		return info("Past speedrun successfully loaded, please load your last save now."), nil
	case errors.Is(err, controller.ErrConflictingSessionActive):
		return failure("Please stop all other speedruns with speedrun_stop before resuming a speedrun."), err
	case errors.Is(err, controller.ErrNoResumeState):
		return failure("No resume information found, cannot resume speedrun!"), err
	default:
		return failure("Speedrun could not resume: " + err.Error()), err
	}
}

func cmdStop(ctx context.Context, _ *Dispatcher, c *controller.Controller, _ []string) (Reply, error) {
	if err := c.Stop(ctx); err != nil {
		if errors.Is(err, controller.ErrNoActiveSession) {
			return info("No speedrun in progress."), nil
		}
		return failure("Speedrun could not stop: " + err.Error()), err
	}
	return info("Speedrun stopped."), nil
}

func cmdBookmark(ctx context.Context, _ *Dispatcher, c *controller.Controller, _ []string) (Reply, error) {
	err := c.Bookmark(ctx)
	switch {
	case err == nil:
		return highlight("Bookmarked!"), nil
	case errors.Is(err, controller.ErrBookmarkUnavailable):
		return info("Please start a speedrun and be ingame."), err
	case errors.Is(err, controller.ErrBookmarkUnsupported):
		return failure("This game does not report the demo tick, bookmarks are unavailable."), err
	default:
		return failure("Bookmark failed: " + err.Error()), err
	}
}

func cmdPlaybackList(ctx context.Context, _ *Dispatcher, c *controller.Controller, args []string) (Reply, error) {
	if err := c.PlaybackList(ctx, args); err != nil {
		return failure("Usage: speedrun_demo_playback <demo> [demo ...]"), err
	}
	if len(args) > controller.MaxPlaybackList {
		return info(fmt.Sprintf("Max %d demos in demo playback, playing the first %d.", controller.MaxPlaybackList, controller.MaxPlaybackList)), nil
	}
	return info(fmt.Sprintf("Playing %d demo(s).", len(args))), nil
}

func cmdVersion(_ context.Context, _ *Dispatcher, c *controller.Controller, _ []string) (Reply, error) {
	return Reply{Message: c.Version(), Tone: ToneInfo}, nil
}

// varCommand reads the variable without arguments and sets it with one.
func varCommand(name string) commandFunc {
	return func(_ context.Context, d *Dispatcher, _ *controller.Controller, args []string) (Reply, error) {
		if d.vars == nil {
			return failure("Console variables are not available."), fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		}
		if len(args) == 0 {
			v, err := d.vars.Var(name)
			if err != nil {
				return failure(err.Error()), err
			}
			return Reply{Message: fmt.Sprintf("speedrun_%s = %q", name, v), Tone: ToneInfo}, nil
		}
		value := strings.Join(args, " ")
		if err := d.vars.SetVar(name, value); err != nil {
			return failure(fmt.Sprintf("Cannot set speedrun_%s: %v", name, err)), err
		}
		return Reply{Message: fmt.Sprintf("speedrun_%s set to %q", name, value), Tone: ToneInfo}, nil
	}
}
