// ABOUTME: Prometheus metrics for polling and track events
// ABOUTME: Registered on the default registry and served on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveInput = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nowplaying_active_input",
		Help: "Input id reported on the last poll",
	})
)

// Counters
var (
	PollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nowplaying_polls_total",
		Help: "Total polling ticks",
	})
	PollErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nowplaying_poll_errors_total",
		Help: "Failed updates by observer",
	}, []string{"observer"})
	TrackEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nowplaying_track_events_total",
		Help: "Track events by kind",
	}, []string{"event"})
)
