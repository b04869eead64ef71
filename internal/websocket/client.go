package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 75 * time.Second
	maxMessageSize = 512 * 1024
	sendBuffer     = 64
)

// WSClient is one long-lived connection: a session in the protocol sense. A
// person reconnecting gets a fresh client and a fresh session id.
type WSClient struct {
	Conn    *websocket.Conn
	Message chan outbound
	ID      string

	// roomID and userName mirror the session's current membership. They are
	// written only from the read pump goroutine.
	roomID   string
	userName string

	done     chan struct{} // Signal for coordinating goroutine shutdown
	mu       sync.Mutex    // Mutex for connection access
	isClosed bool          // Flag to track connection state
}

func newClient(conn *websocket.Conn, id string) *WSClient {
	return &WSClient{
		Conn:    conn,
		Message: make(chan outbound, sendBuffer),
		ID:      id,
		done:    make(chan struct{}),
	}
}

// Send queues an event for the write pump without ever blocking. A full
// buffer or a finished client refuses the send; the event is simply lost,
// which is the delivery contract for everything this server fans out.
func (cl *WSClient) Send(event string, data any) bool {
	select {
	case <-cl.done:
		return false
	default:
	}

	select {
	case cl.Message <- outbound{Event: event, Data: data}:
		return true
	default:
		incSendDropped()
		return false
	}
}

func (cl *WSClient) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteMessage(websocket.PingMessage, nil)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("ping error for session %s: %v", cl.ID, err)
				return
			}
		}
	}
}

func (cl *WSClient) writeMessage() {
	defer func() {
		cl.mu.Lock()
		cl.isClosed = true
		cl.Conn.Close()
		cl.mu.Unlock()
	}()

	for {
		select {
		case <-cl.done:
			return
		case msg := <-cl.Message:
			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteJSON(msg)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("error sending %s to session %s: %v", msg.Event, cl.ID, err)
				return
			}
		}
	}
}

// readMessage pumps inbound events through the coordinator one at a time,
// which is what gives every sender in-order processing of its own events.
// Any exit funnels into the same disconnect path as an explicit leave.
func (cl *WSClient) readMessage(c *Coordinator) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in readMessage: %v", r)
		}

		close(cl.done)
		c.disconnect(cl)
		log.Printf("session %s disconnected", cl.ID)
	}()

	cl.Conn.SetReadLimit(maxMessageSize)
	cl.Conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.Conn.SetPongHandler(func(string) error {
		cl.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.registry.Touch(cl.ID)
		return nil
	})

	for {
		_, raw, err := cl.Conn.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					break
				}
			}
			log.Printf("error reading from session %s: %v", cl.ID, err)
			break
		}

		c.dispatch(cl, raw)
	}
}
