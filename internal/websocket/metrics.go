package websocket

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collab_app_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collab_app_ws_events_total",
			Help: "Inbound websocket events by type.",
		},
		[]string{"event"},
	)
	wsMalformed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collab_app_ws_malformed_total",
			Help: "Inbound messages rejected as malformed or unknown.",
		},
	)
	wsSendDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collab_app_ws_send_dropped_total",
			Help: "Outbound events dropped because a client buffer was full.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsEvents, wsMalformed, wsSendDropped)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func incEvent(event string) {
	wsEvents.WithLabelValues(event).Inc()
}

func incMalformed() {
	wsMalformed.Inc()
}

func incSendDropped() {
	wsSendDropped.Inc()
}
