package main

import (
	"log"
	"time"

	"collab-app-backend/internal/api"
	"collab-app-backend/internal/api/router"
	"collab-app-backend/internal/env"
	"collab-app-backend/internal/outbox"
	"collab-app-backend/internal/queue"
	"collab-app-backend/internal/room"
	"collab-app-backend/internal/websocket"
)

func main() {
	queueManager := queue.NewManager(64, 10)

	var auditOutbox room.Outbox
	if addr := env.Get(env.OutboxRedisURL); addr != "" {
		auditOutbox = outbox.NewPublisher(addr, env.Get(env.OutboxRedisPass), queueManager)
		log.Printf("outbox enabled, mirroring room events to redis at %s", addr)
	}

	registry := room.NewRegistry(room.Config{
		AutoCreateRooms: env.GetBool(env.RoomAutoCreate, true),
	}, auditOutbox)

	if ttl := env.GetDuration(env.SessionTTL, 5*time.Minute); ttl > 0 {
		go func() {
			ticker := time.NewTicker(ttl / 2)
			defer ticker.Stop()
			for range ticker.C {
				if evicted := registry.SweepStale(ttl); evicted > 0 {
					log.Printf("stale sweep evicted %d sessions", evicted)
				}
			}
		}()
	}

	coordinator := websocket.NewCoordinator(registry)
	wsHandler := websocket.NewHandler(coordinator)

	server := api.NewAPIServer(
		env.GetOrDefault(env.ListenAddr, ":5000"),
		queueManager,
		registry,
		wsHandler,
		router.UtilsRoutes("/api"),
		router.RoomRoutes("/api"),
		router.WebsocketRoutes("/api"),
	)

	if err := server.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
