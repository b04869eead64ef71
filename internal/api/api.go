package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"collab-app-backend/internal/queue"
	"collab-app-backend/internal/room"
	"collab-app-backend/internal/websocket"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.Manager
	registry            *room.Registry
	wsHandler           *websocket.Handler
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
}

func NewAPIServer(listenAddr string, q *queue.Manager, registry *room.Registry, wsHandler *websocket.Handler, registrars ...RouteRegistrar) *APIServer {
	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: q,
		registry:            registry,
		wsHandler:           wsHandler,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, q),
	}
}

func (s *APIServer) Run() error {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	fmt.Printf("Server listening on http://localhost%s\n", s.listenAddr)

	return http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux))
}

func (s *APIServer) Registry() *room.Registry {
	return s.registry
}

func (s *APIServer) WSHandler() *websocket.Handler {
	return s.wsHandler
}
