package room

import "encoding/json"

// Event names shared by the websocket protocol and the broadcast side.
// Inbound and outbound names live together so the dispatch table and the
// fan-out code agree on a single vocabulary.
const (
	EventCreateRoom         = "create-room"
	EventJoinRoom           = "join-room"
	EventLeaveRoom          = "leave-room"
	EventSignal             = "signal"
	EventToggleAudio        = "toggle-audio"
	EventToggleVideo        = "toggle-video"
	EventScreenShareStarted = "screen-share-started"
	EventScreenShareStopped = "screen-share-stopped"
	EventWhiteboardDraw     = "whiteboard-draw"
	EventWhiteboardClear    = "whiteboard-clear"
	EventChatMessage        = "chat-message"
	EventFileShared         = "file-shared"

	EventRoomCreated            = "room-created"
	EventExistingUsers          = "existing-users"
	EventWhiteboardState        = "whiteboard-state"
	EventUserJoined             = "user-joined"
	EventUserLeft               = "user-left"
	EventParticipantsUpdated    = "participants-updated"
	EventUserToggleAudio        = "user-toggle-audio"
	EventUserToggleVideo        = "user-toggle-video"
	EventUserScreenShareStarted = "user-screen-share-started"
	EventUserScreenShareStopped = "user-screen-share-stopped"
	EventRoomError              = "room-error"
)

// PeerInfo identifies one peer to the others in a room.
type PeerInfo struct {
	PeerID   string `json:"peerId"`
	UserName string `json:"userName"`
}

// ParticipantInfo is the participants-updated snapshot entry, including the
// current media state so late observers do not need to replay toggles.
type ParticipantInfo struct {
	PeerID          string `json:"peerId"`
	UserName        string `json:"userName"`
	AudioEnabled    bool   `json:"audioEnabled"`
	VideoEnabled    bool   `json:"videoEnabled"`
	IsScreenSharing bool   `json:"isScreenSharing"`
	JoinedAt        int64  `json:"joinedAt"`
}

// RoomCreatedPayload answers a create-room request.
type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

// SignalPayload wraps a relayed negotiation payload with the sender identity.
// The signal itself is never inspected.
type SignalPayload struct {
	From     string          `json:"from"`
	Signal   json.RawMessage `json:"signal"`
	UserName string          `json:"userName"`
}

// TogglePayload reports a remote audio or video mute state change.
type TogglePayload struct {
	PeerID  string `json:"peerId"`
	Enabled bool   `json:"enabled"`
}

// ScreenSharePayload reports screen share start. Stop events carry only the
// peer id, mirroring the started/stopped asymmetry of the wire protocol.
type ScreenSharePayload struct {
	PeerID   string `json:"peerId"`
	UserName string `json:"userName,omitempty"`
}

// ChatPayload is a fully server-stamped chat message. Clients never supply
// the id or the timestamp.
type ChatPayload struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// FileSharedPayload is shared-file metadata stamped with the uploader and
// share time. File bytes never pass through this service.
type FileSharedPayload struct {
	SharedFile
	SharedBy string `json:"sharedBy"`
	SharedAt int64  `json:"sharedAt"`
}

// ErrorPayload carries a human-readable room-error message.
type ErrorPayload struct {
	Message string `json:"message"`
}
