package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "demorec_dispatch_commands_total",
		Help: "User commands handled by the dispatcher",
	}, []string{"command", "result"})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "demorec_dispatch_events_total",
		Help: "Host lifecycle events handled by the dispatcher",
	}, []string{"event"})
)
