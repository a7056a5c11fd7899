package session

import "github.com/prometheus/client_golang/prometheus"

var (
	clockUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "choreo_clock_updates_total",
			Help: "Total number of clock operations applied to session timelines.",
		},
		[]string{"op"},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "choreo_events_total",
			Help: "Total number of timeline events dispatched.",
		},
		[]string{"type"},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "choreo_sessions_active",
			Help: "Number of live timeline sessions.",
		},
	)
)

func init() {
	prometheus.MustRegister(clockUpdatesTotal)
	prometheus.MustRegister(eventsTotal)
	prometheus.MustRegister(sessionsActive)
}
