package room

import "github.com/prometheus/client_golang/prometheus"

var (
	roomsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collab_app_rooms",
			Help: "Current number of live rooms.",
		},
	)
	participantsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collab_app_participants",
			Help: "Current number of tracked sessions across all rooms.",
		},
	)
	droppedSignals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collab_app_signals_dropped_total",
			Help: "Signals addressed to sessions that were not connected.",
		},
	)
	evictedSessions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collab_app_sessions_evicted_total",
			Help: "Sessions evicted by the stale-session sweep.",
		},
	)
)

func init() {
	prometheus.MustRegister(roomsGauge, participantsGauge, droppedSignals, evictedSessions)
}

func setRooms(count int) {
	roomsGauge.Set(float64(count))
}

func setParticipants(count int) {
	participantsGauge.Set(float64(count))
}

func incDroppedSignals() {
	droppedSignals.Inc()
}

func incEvicted() {
	evictedSessions.Inc()
}
