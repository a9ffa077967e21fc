package dispatch

import (
	"context"
	"fmt"

	"github.com/ManuGH/demorec/internal/domain/capture/controller"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// EventKind enumerates host lifecycle notifications.
type EventKind int

const (
	EventLevelInit EventKind = iota
	EventClientConnect
	EventLevelShutdown
)

func (k EventKind) String() string {
	switch k {
	case EventLevelInit:
		return "level_init"
	case EventClientConnect:
		return "client_connect"
	case EventLevelShutdown:
		return "level_shutdown"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one host notification. Map is set for EventLevelInit only.
type Event struct {
	Kind EventKind
	Map  string
}

// Event delivers a host notification to the controller.
func (d *Dispatcher) Event(ctx context.Context, ev Event) error {
	var hookErr error
	err := d.do(ctx, func(ctx context.Context, c *controller.Controller) {
		eventsTotal.WithLabelValues(ev.Kind.String()).Inc()
		switch ev.Kind {
		case EventLevelInit:
			c.OnLevelLoaded(ctx, ev.Map)
		case EventClientConnect:
			hookErr = c.OnClientJoinAttempt(ctx)
		case EventLevelShutdown:
			c.OnLevelShutdown(ctx)
		}
	})
	if err != nil {
		return err
	}
	if hookErr != nil {
		logger := xglog.WithContext(ctx, d.logger)
		logger.Warn().Err(hookErr).Str(xglog.FieldEvent, "dispatch.hook_failed").Str("hook", ev.Kind.String()).Msg("host event failed")
	}
	return hookErr
}
