package room

import (
	"sync"
	"time"
)

// Sender is one participant's transport. Send must never block; it reports
// whether the event was accepted for delivery. Implemented by the websocket
// client with a buffered channel push.
type Sender interface {
	Send(event string, data any) bool
}

// Stroke is one whiteboard line segment. Coordinates reference the client
// canvas resolution and are carried untouched.
type Stroke struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Tool  string  `json:"tool"`
}

// SharedFile is upload metadata announced to a room. The binary lives in an
// external store and is fetched by filename.
type SharedFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype,omitempty"`
}

// Participant is one connected session inside a room.
type Participant struct {
	SessionID       string
	Name            string
	AudioEnabled    bool
	VideoEnabled    bool
	IsScreenSharing bool
	JoinedAt        time.Time

	sender   Sender
	lastSeen time.Time
}

// Room holds the shared ephemeral state of one collaboration session.
// mu serializes every event touching this room; rooms are independent
// partitions, so events for different rooms proceed in parallel. Lock order
// is always Registry.mu before Room.mu.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu sync.Mutex
	// participants keeps insertion order; order only matters for display.
	participants []*Participant
	strokes      []Stroke
	files        []FileSharedPayload
}

func newRoom(id string) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

func (rm *Room) participant(sessionID string) (*Participant, int) {
	for i, p := range rm.participants {
		if p.SessionID == sessionID {
			return p, i
		}
	}
	return nil, -1
}

func (rm *Room) removeParticipant(idx int) {
	rm.participants = append(rm.participants[:idx], rm.participants[idx+1:]...)
}

// snapshot returns the participants-updated view of the room.
func (rm *Room) snapshot() []ParticipantInfo {
	out := make([]ParticipantInfo, 0, len(rm.participants))
	for _, p := range rm.participants {
		out = append(out, ParticipantInfo{
			PeerID:          p.SessionID,
			UserName:        p.Name,
			AudioEnabled:    p.AudioEnabled,
			VideoEnabled:    p.VideoEnabled,
			IsScreenSharing: p.IsScreenSharing,
			JoinedAt:        p.JoinedAt.UnixMilli(),
		})
	}
	return out
}

// strokeLog copies the append-only log so the caller can hand it out after
// the lock is released.
func (rm *Room) strokeLog() []Stroke {
	out := make([]Stroke, len(rm.strokes))
	copy(out, rm.strokes)
	return out
}

// broadcast fans out to every participant, optionally excluding one session.
// Sends are fire-and-forget; a refused send means the recipient's transport
// is saturated or gone and is the transport layer's problem.
func (rm *Room) broadcast(exceptSessionID, event string, data any) int {
	delivered := 0
	for _, p := range rm.participants {
		if p.SessionID == exceptSessionID {
			continue
		}
		if p.sender.Send(event, data) {
			delivered++
		}
	}
	return delivered
}
