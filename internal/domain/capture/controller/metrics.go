package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demorec_session_transitions_total",
			Help: "Session mode transitions.",
		},
		[]string{"from", "to"},
	)

	capturesStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demorec_captures_started_total",
			Help: "Captures begun by session mode and naming path (new map or retry).",
		},
		[]string{"mode", "path"},
	)

	namingProbesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demorec_naming_probes_total",
			Help: "Session directory scans performed on first encounter of a map.",
		},
	)

	persistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demorec_persistence_failures_total",
			Help: "Swallowed persistence failures by operation.",
		},
		[]string{"op"},
	)

	rejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demorec_command_rejections_total",
			Help: "Commands rejected by the session state machine.",
		},
		[]string{"command", "reason"},
	)
)
