package websocket

import (
	"encoding/json"
	"errors"
	"log"

	"collab-app-backend/internal/room"
)

type eventHandler func(cl *WSClient, data json.RawMessage) error

// Coordinator dispatches decoded events to the room registry. The handler
// table is the complete inbound surface; anything outside it is answered
// with a room-error instead of being silently ignored.
type Coordinator struct {
	registry *room.Registry
	handlers map[string]eventHandler
}

func NewCoordinator(registry *room.Registry) *Coordinator {
	c := &Coordinator{registry: registry}
	c.handlers = map[string]eventHandler{
		room.EventCreateRoom:         c.handleCreateRoom,
		room.EventJoinRoom:           c.handleJoinRoom,
		room.EventLeaveRoom:          c.handleLeaveRoom,
		room.EventSignal:             c.handleSignal,
		room.EventToggleAudio:        c.handleToggleAudio,
		room.EventToggleVideo:        c.handleToggleVideo,
		room.EventScreenShareStarted: c.handleScreenShareStarted,
		room.EventScreenShareStopped: c.handleScreenShareStopped,
		room.EventWhiteboardDraw:     c.handleWhiteboardDraw,
		room.EventWhiteboardClear:    c.handleWhiteboardClear,
		room.EventChatMessage:        c.handleChatMessage,
		room.EventFileShared:         c.handleFileShared,
	}
	return c
}

// dispatch decodes one envelope and runs its handler to completion before
// the read pump picks up the next event from the same connection.
func (c *Coordinator) dispatch(cl *WSClient, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		incMalformed()
		c.sendError(cl, "invalid message format")
		return
	}

	handler, ok := c.handlers[env.Event]
	if !ok {
		incMalformed()
		log.Printf("session %s sent unknown event %q", cl.ID, env.Event)
		c.sendError(cl, "unknown event: "+env.Event)
		return
	}

	incEvent(env.Event)
	if err := handler(cl, env.Data); err != nil {
		c.sendError(cl, errorMessage(err))
	}
}

// disconnect is invoked by the read pump on any transport loss. The registry
// runs the same cleanup as an explicit leave.
func (c *Coordinator) disconnect(cl *WSClient) {
	c.registry.Disconnect(cl.ID)
	cl.roomID = ""
	decConnections()
}

func (c *Coordinator) sendError(cl *WSClient, msg string) {
	cl.Send(room.EventRoomError, room.ErrorPayload{Message: msg})
}

// errorMessage maps registry errors to client-facing text. The client is
// expected to leave the room view on any of these.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, room.ErrNotInRoom):
		return "you are not in this room"
	case errors.Is(err, errMissingField), errors.Is(err, errMalformedPayload):
		return "invalid payload"
	default:
		return "room operation failed"
	}
}

func (c *Coordinator) handleCreateRoom(cl *WSClient, _ json.RawMessage) error {
	id := c.registry.CreateRoom()
	cl.Send(room.EventRoomCreated, room.RoomCreatedPayload{RoomID: id})
	return nil
}

func (c *Coordinator) handleJoinRoom(cl *WSClient, data json.RawMessage) error {
	var req JoinRoomReq
	if err := decode(data, &req); err != nil {
		return err
	}
	if req.RoomID == "" || req.UserName == "" {
		return errMissingField
	}

	if err := c.registry.Join(req.RoomID, cl.ID, req.UserName, cl); err != nil {
		return err
	}
	cl.roomID = req.RoomID
	cl.userName = req.UserName
	return nil
}

func (c *Coordinator) handleLeaveRoom(cl *WSClient, data json.RawMessage) error {
	var req RoomScopedReq
	if err := decode(data, &req); err != nil {
		return err
	}
	// Tolerates rooms the session never joined; duplicate leaves are no-ops.
	c.registry.Leave(req.RoomID, cl.ID)
	cl.roomID = ""
	return nil
}

func (c *Coordinator) handleSignal(cl *WSClient, data json.RawMessage) error {
	var req SignalReq
	if err := decode(data, &req); err != nil {
		return err
	}
	if req.To == "" {
		return errMissingField
	}
	// Best effort, point-to-point. A missing target drops the signal with
	// no feedback to the sender.
	c.registry.Relay(cl.ID, cl.userName, req.To, req.Signal)
	return nil
}

func (c *Coordinator) handleToggleAudio(cl *WSClient, data json.RawMessage) error {
	var req ToggleReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.SetAudio(req.RoomID, cl.ID, req.Enabled)
}

func (c *Coordinator) handleToggleVideo(cl *WSClient, data json.RawMessage) error {
	var req ToggleReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.SetVideo(req.RoomID, cl.ID, req.Enabled)
}

func (c *Coordinator) handleScreenShareStarted(cl *WSClient, data json.RawMessage) error {
	var req RoomScopedReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.SetScreenShare(req.RoomID, cl.ID, true)
}

func (c *Coordinator) handleScreenShareStopped(cl *WSClient, data json.RawMessage) error {
	var req RoomScopedReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.SetScreenShare(req.RoomID, cl.ID, false)
}

func (c *Coordinator) handleWhiteboardDraw(cl *WSClient, data json.RawMessage) error {
	var req DrawReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.AppendStroke(req.RoomID, cl.ID, req.Data)
}

func (c *Coordinator) handleWhiteboardClear(cl *WSClient, data json.RawMessage) error {
	var req RoomScopedReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.ClearBoard(req.RoomID, cl.ID)
}

func (c *Coordinator) handleChatMessage(cl *WSClient, data json.RawMessage) error {
	var req ChatReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.Chat(req.RoomID, cl.ID, req.Message)
}

func (c *Coordinator) handleFileShared(cl *WSClient, data json.RawMessage) error {
	var req FileSharedReq
	if err := decode(data, &req); err != nil {
		return err
	}
	return c.registry.ShareFile(req.RoomID, cl.ID, req.File)
}

var errMissingField = errors.New("websocket: required field missing")

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errMissingField
	}
	if err := json.Unmarshal(data, v); err != nil {
		incMalformed()
		return errMalformedPayload
	}
	return nil
}

var errMalformedPayload = errors.New("websocket: malformed payload")
