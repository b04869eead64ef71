package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests into coordinator-managed sessions.
type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// ServeWS upgrades the connection, assigns a fresh session id and starts the
// client pumps. The session joins no room until it sends create-room or
// join-room.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	cl := newClient(conn, uuid.NewString())
	incConnections()
	log.Printf("session %s connected from %s", cl.ID, conn.RemoteAddr())

	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage(h.coordinator)
	return nil
}
