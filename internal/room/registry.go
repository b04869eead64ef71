package room

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

var (
	ErrRoomNotFound = errors.New("room: room not found")
	ErrNotInRoom    = errors.New("room: session is not a participant of the room")
)

const roomIDLength = 8

// Outbox mirrors selected room events to an external audit stream. Publish
// must not block the caller.
type Outbox interface {
	Publish(roomID, event string, payload any)
}

// Config controls registry policy.
type Config struct {
	// AutoCreateRooms makes a join to an unknown room id create the room
	// instead of failing. This matches the reference behaviour; disable it
	// to require an explicit create-room first.
	AutoCreateRooms bool
}

// Registry owns the room map and the session index. It is an injectable
// object, not a package global, so tests run against isolated instances and
// rooms can later shard across processes.
//
// Registry.mu guards the two maps; each Room carries its own mutex for the
// state behind it. Membership changes (join, leave, disconnect, sweep) take
// the write lock because they may create or delete rooms; room-scoped events
// take the read lock for the lookup and serialize on the room mutex.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions map[string]string // sessionID -> roomID

	cfg    Config
	outbox Outbox
	newID  func() string
}

func NewRegistry(cfg Config, outbox Outbox) *Registry {
	gen, err := nanoid.Standard(roomIDLength)
	if err != nil {
		// Only reachable with an invalid constant length.
		panic(err)
	}
	return &Registry{
		rooms:    make(map[string]*Room),
		sessions: make(map[string]string),
		cfg:      cfg,
		outbox:   outbox,
		newID:    gen,
	}
}

// CreateRoom allocates an empty room and returns its id.
func (r *Registry) CreateRoom() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, exists := r.rooms[id]; exists; _, exists = r.rooms[id] {
		id = r.newID()
	}
	r.rooms[id] = newRoom(id)
	setRooms(len(r.rooms))
	log.Printf("room %s created", id)
	return id
}

// Join adds a session to a room and performs the join fan-out: the joiner
// alone receives the existing peer list and the whiteboard snapshot, the
// rest of the room is notified, and everyone gets a fresh participant list.
// A duplicate sessionID is a reconnect and replaces the prior entry; a
// session joining from another room is first removed there.
func (r *Registry) Join(roomID, sessionID, userName string, sender Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		if !r.cfg.AutoCreateRooms {
			return ErrRoomNotFound
		}
		rm = newRoom(roomID)
		r.rooms[roomID] = rm
		setRooms(len(r.rooms))
		log.Printf("room %s auto-created on join", roomID)
	}

	if prevRoomID, tracked := r.sessions[sessionID]; tracked && prevRoomID != roomID {
		r.removeLocked(prevRoomID, sessionID, true)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, idx := rm.participant(sessionID); idx >= 0 {
		// Reconnect: the old transport is stale, drop the entry in place.
		rm.removeParticipant(idx)
	}

	now := time.Now()
	p := &Participant{
		SessionID:    sessionID,
		Name:         userName,
		AudioEnabled: true,
		VideoEnabled: true,
		JoinedAt:     now,
		sender:       sender,
		lastSeen:     now,
	}

	peers := make([]PeerInfo, 0, len(rm.participants))
	for _, other := range rm.participants {
		peers = append(peers, PeerInfo{PeerID: other.SessionID, UserName: other.Name})
	}

	rm.participants = append(rm.participants, p)
	r.sessions[sessionID] = roomID
	setParticipants(len(r.sessions))

	rm.broadcast(sessionID, EventUserJoined, PeerInfo{PeerID: sessionID, UserName: userName})
	sender.Send(EventExistingUsers, peers)
	sender.Send(EventWhiteboardState, rm.strokeLog())
	rm.broadcast("", EventParticipantsUpdated, rm.snapshot())

	log.Printf("session %s (%s) joined room %s", sessionID, userName, roomID)
	return nil
}

// Leave removes the session from the given room. Unknown rooms and sessions
// are tolerated silently; duplicate or late leave events are no-ops.
func (r *Registry) Leave(roomID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(roomID, sessionID, true)
}

// Disconnect is the transport-loss path. It resolves the session's room and
// runs exactly the same cleanup as an explicit leave.
func (r *Registry) Disconnect(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	r.removeLocked(roomID, sessionID, true)
}

// removeLocked removes a session from a room, notifies the remaining members
// and deletes the room the moment it empties. Caller holds r.mu.
func (r *Registry) removeLocked(roomID, sessionID string, notify bool) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	p, idx := rm.participant(sessionID)
	if idx < 0 {
		return
	}
	rm.removeParticipant(idx)
	delete(r.sessions, sessionID)
	setParticipants(len(r.sessions))

	if notify {
		rm.broadcast("", EventUserLeft, PeerInfo{PeerID: sessionID, UserName: p.Name})
		rm.broadcast("", EventParticipantsUpdated, rm.snapshot())
	}

	if len(rm.participants) == 0 {
		// Total teardown: stroke log, transcript state and file metadata
		// all go with the room.
		delete(r.rooms, roomID)
		setRooms(len(r.rooms))
		log.Printf("room %s deleted", roomID)
	}
	log.Printf("session %s left room %s", sessionID, roomID)
}

// Relay forwards an opaque negotiation payload to exactly one session. The
// payload is never parsed. A missing target is dropped silently; the sender
// learns nothing and retries by rejoining if its negotiation stalls.
func (r *Registry) Relay(fromSessionID, fromName, toSessionID string, signal json.RawMessage) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.sessions[toSessionID]
	if !ok {
		incDroppedSignals()
		return
	}
	rm := r.rooms[roomID]

	rm.mu.Lock()
	defer rm.mu.Unlock()

	target, idx := rm.participant(toSessionID)
	if idx < 0 {
		incDroppedSignals()
		return
	}
	if !target.sender.Send(EventSignal, SignalPayload{From: fromSessionID, Signal: signal, UserName: fromName}) {
		incDroppedSignals()
	}
}

// SetAudio records and rebroadcasts an audio mute toggle to the rest of the
// room. Per-sender ordering holds because each connection dispatches its
// events sequentially.
func (r *Registry) SetAudio(roomID, sessionID string, enabled bool) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, p *Participant) {
		p.AudioEnabled = enabled
		rm.broadcast(sessionID, EventUserToggleAudio, TogglePayload{PeerID: sessionID, Enabled: enabled})
	})
}

// SetVideo records and rebroadcasts a video mute toggle.
func (r *Registry) SetVideo(roomID, sessionID string, enabled bool) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, p *Participant) {
		p.VideoEnabled = enabled
		rm.broadcast(sessionID, EventUserToggleVideo, TogglePayload{PeerID: sessionID, Enabled: enabled})
	})
}

// SetScreenShare records and rebroadcasts screen share start or stop. The
// stop event carries no user name on the wire.
func (r *Registry) SetScreenShare(roomID, sessionID string, active bool) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, p *Participant) {
		p.IsScreenSharing = active
		if active {
			rm.broadcast(sessionID, EventUserScreenShareStarted, ScreenSharePayload{PeerID: sessionID, UserName: p.Name})
		} else {
			rm.broadcast(sessionID, EventUserScreenShareStopped, ScreenSharePayload{PeerID: sessionID})
		}
	})
}

// AppendStroke appends to the room's whiteboard log and forwards the single
// stroke to everyone else for incremental rendering.
func (r *Registry) AppendStroke(roomID, sessionID string, s Stroke) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, _ *Participant) {
		rm.strokes = append(rm.strokes, s)
		rm.broadcast(sessionID, EventWhiteboardDraw, s)
	})
}

// ClearBoard truncates the whiteboard log. Replay after a clear starts from
// an empty canvas; cleared strokes are gone, not tombstoned.
func (r *Registry) ClearBoard(roomID, sessionID string) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, _ *Participant) {
		rm.strokes = nil
		rm.broadcast(sessionID, EventWhiteboardClear, nil)
	})
}

// Chat stamps a message with a server id and timestamp and broadcasts it to
// the entire room, sender included, so every transcript is a pure function
// of the broadcast stream.
func (r *Registry) Chat(roomID, sessionID, text string) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, p *Participant) {
		msg := ChatPayload{
			ID:        uuid.NewString(),
			Sender:    p.Name,
			SenderID:  sessionID,
			Message:   text,
			Timestamp: time.Now().UnixMilli(),
		}
		rm.broadcast("", EventChatMessage, msg)
		if r.outbox != nil {
			r.outbox.Publish(roomID, EventChatMessage, msg)
		}
	})
}

// ShareFile records shared-file metadata on the room and announces it to
// every participant. Only metadata moves here; bytes live in the external
// upload store.
func (r *Registry) ShareFile(roomID, sessionID string, f SharedFile) error {
	return r.withParticipant(roomID, sessionID, func(rm *Room, p *Participant) {
		payload := FileSharedPayload{
			SharedFile: f,
			SharedBy:   p.Name,
			SharedAt:   time.Now().UnixMilli(),
		}
		rm.files = append(rm.files, payload)
		rm.broadcast("", EventFileShared, payload)
		if r.outbox != nil {
			r.outbox.Publish(roomID, EventFileShared, payload)
		}
	})
}

// Touch refreshes the session's liveness mark. Called on every inbound event
// and on transport pongs.
func (r *Registry) Touch(sessionID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	rm := r.rooms[roomID]
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if p, idx := rm.participant(sessionID); idx >= 0 {
		p.lastSeen = time.Now()
	}
}

// SweepStale evicts sessions that have shown no liveness within ttl. This
// covers the crashed or partitioned peer whose disconnect never arrived;
// eviction follows the normal leave path so the remaining members see a
// plain user-left.
func (r *Registry) SweepStale(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	type victim struct{ roomID, sessionID string }
	var victims []victim

	for roomID, rm := range r.rooms {
		rm.mu.Lock()
		// A created room whose creator never joined has no participant to
		// leave and delete it; expire it here.
		if len(rm.participants) == 0 && rm.CreatedAt.Before(cutoff) {
			delete(r.rooms, roomID)
			setRooms(len(r.rooms))
			log.Printf("room %s expired unused", roomID)
			rm.mu.Unlock()
			continue
		}
		for _, p := range rm.participants {
			if p.lastSeen.Before(cutoff) {
				victims = append(victims, victim{roomID, p.SessionID})
			}
		}
		rm.mu.Unlock()
	}

	for _, v := range victims {
		log.Printf("evicting stale session %s from room %s", v.sessionID, v.roomID)
		r.removeLocked(v.roomID, v.sessionID, true)
		incEvicted()
	}
	return len(victims)
}

// RoomInfo reports whether a room exists and how many participants it has.
func (r *Registry) RoomInfo(roomID string) (participants int, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return 0, false
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.participants), true
}

// RoomFiles lists the file metadata shared in a room so far.
func (r *Registry) RoomFiles(roomID string) ([]FileSharedPayload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	out := make([]FileSharedPayload, len(rm.files))
	copy(out, rm.files)
	return out, nil
}

// RoomCount reports the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// withParticipant resolves the room and the acting participant, refreshes
// liveness and runs fn under the room lock. It is the shared entry for every
// room-scoped event.
func (r *Registry) withParticipant(roomID, sessionID string, fn func(*Room, *Participant)) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	p, idx := rm.participant(sessionID)
	if idx < 0 {
		return ErrNotInRoom
	}
	p.lastSeen = time.Now()
	fn(rm, p)
	return nil
}
