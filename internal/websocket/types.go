package websocket

import (
	"encoding/json"

	"collab-app-backend/internal/room"
)

// Envelope is the single wire format in both directions. Inbound data stays
// raw until the per-event handler decodes it; outbound data is marshalled by
// the write pump.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outbound pairs an event name with its payload for the client write pump.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type JoinRoomReq struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type SignalReq struct {
	To     string          `json:"to"`
	Signal json.RawMessage `json:"signal"`
}

type ToggleReq struct {
	RoomID  string `json:"roomId"`
	Enabled bool   `json:"enabled"`
}

type RoomScopedReq struct {
	RoomID string `json:"roomId"`
}

type DrawReq struct {
	RoomID string      `json:"roomId"`
	Data   room.Stroke `json:"data"`
}

type ChatReq struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type FileSharedReq struct {
	RoomID string          `json:"roomId"`
	File   room.SharedFile `json:"file"`
}
