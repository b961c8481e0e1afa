package room

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRoomFull is returned by Join when both slots are already taken.
var ErrRoomFull = errors.New("room: both slots are occupied")

// ErrRoomNotFound is returned when a code does not name a live room.
var ErrRoomNotFound = errors.New("room: not found")

// ErrNotAMember is returned by Rebind when playerID does not occupy
// either slot.
var ErrNotAMember = errors.New("room: player is not a member of this room")

// Registry tracks every live room, keyed by its short code, plus the
// transient socket -> room binding used to authorize inbound events:
// socketID resolves to a room, playerID resolves to a slot within it.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	sockets map[string]string // socketID -> room code
}

// NewRegistry returns an empty room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		sockets: make(map[string]string),
	}
}

// Create generates a fresh code, registers a new room with creator in
// the Gold slot, and returns it.
func (reg *Registry) Create(creator PlayerConnection) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		if _, exists := reg.rooms[c]; !exists {
			code = c
			break
		}
	}

	r := New(code, creator)
	reg.rooms[code] = r
	reg.sockets[creator.SocketID] = code
	return r, nil
}

// Get looks up a room by code.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	return r, ok
}

// Join fills the Red slot of the room named by code with conn.
func (reg *Registry) Join(code string, conn PlayerConnection) (*Room, error) {
	reg.mu.Lock()
	r, ok := reg.rooms[code]
	if !ok {
		reg.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	reg.mu.Unlock()

	var err error
	r.Submit(func(room *Room) {
		if room.IsFull() {
			err = ErrRoomFull
			return
		}
		room.Red = &conn
	})
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	reg.sockets[conn.SocketID] = code
	reg.mu.Unlock()
	return r, nil
}

// FindBySocketID returns the room socketID currently belongs to.
func (reg *Registry) FindBySocketID(socketID string) (*Room, bool) {
	reg.mu.RLock()
	code, ok := reg.sockets[socketID]
	reg.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return reg.Get(code)
}

// Leave clears socketID's slot in its room, removing and closing the
// room if both slots end up empty.
func (reg *Registry) Leave(socketID string) (room *Room, deleted bool) {
	reg.mu.Lock()
	code, ok := reg.sockets[socketID]
	if !ok {
		reg.mu.Unlock()
		return nil, false
	}
	delete(reg.sockets, socketID)
	r, ok := reg.rooms[code]
	reg.mu.Unlock()
	if !ok {
		return nil, false
	}

	var empty bool
	r.Submit(func(room *Room) {
		if room.Gold != nil && room.Gold.SocketID == socketID {
			room.Gold = nil
		}
		if room.Red != nil && room.Red.SocketID == socketID {
			room.Red = nil
		}
		empty = room.IsEmpty()
	})

	if empty {
		reg.mu.Lock()
		delete(reg.rooms, code)
		reg.mu.Unlock()
		r.Close()
		return r, true
	}
	return r, false
}

// Rebind updates the slot belonging to playerID with a new socket,
// without changing its role. Used on reconnect.
func (reg *Registry) Rebind(code string, playerID uuid.UUID, newSocketID string) (*Room, error) {
	r, ok := reg.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	var oldSocket string
	var err error
	r.Submit(func(room *Room) {
		switch room.RoleOfPlayer(playerID) {
		case RoleGold:
			oldSocket = room.Gold.SocketID
			room.Gold.SocketID = newSocketID
			room.DisconnectedSince[RoleGold] = zeroTime
		case RoleRed:
			oldSocket = room.Red.SocketID
			room.Red.SocketID = newSocketID
			room.DisconnectedSince[RoleRed] = zeroTime
		default:
			err = ErrNotAMember
		}
	})
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	delete(reg.sockets, oldSocket)
	reg.sockets[newSocketID] = code
	reg.mu.Unlock()
	return r, nil
}

// WaitingRooms lists every room with exactly one slot filled, used to
// serve list-rooms.
func (reg *Registry) WaitingRooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	var out []*Room
	for _, r := range reg.rooms {
		gold, red := r.Gold != nil, r.Red != nil
		if gold != red {
			out = append(out, r)
		}
	}
	return out
}
