// Package room implements room lifecycle, player role assignment, and
// reconnect rebinding. Each room serializes all state mutation
// through a single goroutine draining a mailbox channel, the way
// ludo-king-go's Room.Run drains its messages channel — so game state
// is never touched by two goroutines at once without resorting to a
// shared mutex around every access.
package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bgserver/pkg/engine"
)

// Role identifies a room slot.
type Role int

const (
	RoleNone Role = iota
	RoleGold
	RoleRed
)

// zeroTime is the sentinel meaning "not currently disconnected" for
// Room.DisconnectedSince.
var zeroTime time.Time

// PlayerConnection binds a socket to the stable player identity
// occupying a room slot.
type PlayerConnection struct {
	SocketID    string
	PlayerID    uuid.UUID
	DisplayName string
}

// Room is one backgammon match in progress or awaiting its second
// player. Role assignment (Gold/Red) is stable for the room's
// lifetime, even across socket changes of the same player.
type Room struct {
	Code      string
	Gold      *PlayerConnection
	Red       *PlayerConnection
	Game      *engine.GameState
	CreatedAt time.Time

	// DisconnectedSince tracks when a slot's own player went offline,
	// per role, for display purposes only: the slot stays bound to the
	// player indefinitely, there is no timer-driven forfeit. Zero
	// means not currently disconnected.
	DisconnectedSince [3]time.Time // indexed by Role; index 0 unused

	mailbox chan func(*Room)
	done    chan struct{}
}

// New creates a room with Gold filled by creator and an empty Red slot.
func New(code string, creator PlayerConnection) *Room {
	r := &Room{
		Code:      code,
		Gold:      &creator,
		Game:      engine.NewGame(0),
		CreatedAt: time.Now(),
		mailbox:   make(chan func(*Room), 16),
		done:      make(chan struct{}),
	}
	go r.run()
	return r
}

// run drains the mailbox until Close is called, guaranteeing every
// submitted mutation is applied atomically with respect to every
// other.
func (r *Room) run() {
	for {
		select {
		case fn := <-r.mailbox:
			fn(r)
		case <-r.done:
			return
		}
	}
}

// Submit enqueues fn to run on the room's own goroutine and blocks
// until it has. Handlers must go through Submit rather than touching
// Game or the slots directly.
func (r *Room) Submit(fn func(*Room)) {
	done := make(chan struct{})
	r.mailbox <- func(room *Room) {
		fn(room)
		close(done)
	}
	<-done
}

// Close stops the room's goroutine. Call once, when the room is
// removed from the registry.
func (r *Room) Close() {
	close(r.done)
}

// SlotFor returns the connection and role occupying socketID, or
// (nil, RoleNone) if socketID belongs to neither slot.
func (r *Room) SlotFor(socketID string) (*PlayerConnection, Role) {
	if r.Gold != nil && r.Gold.SocketID == socketID {
		return r.Gold, RoleGold
	}
	if r.Red != nil && r.Red.SocketID == socketID {
		return r.Red, RoleRed
	}
	return nil, RoleNone
}

// RoleOfPlayer returns the role playerID occupies, or RoleNone.
func (r *Room) RoleOfPlayer(playerID uuid.UUID) Role {
	if r.Gold != nil && r.Gold.PlayerID == playerID {
		return RoleGold
	}
	if r.Red != nil && r.Red.PlayerID == playerID {
		return RoleRed
	}
	return RoleNone
}

// IsFull reports whether both slots are occupied.
func (r *Room) IsFull() bool {
	return r.Gold != nil && r.Red != nil
}

// IsEmpty reports whether neither slot is occupied.
func (r *Room) IsEmpty() bool {
	return r.Gold == nil && r.Red == nil
}

// Side converts a Role to the engine's Side. Callers must not call
// this with RoleNone.
func (role Role) Side() engine.Side {
	if role == RoleGold {
		return engine.Gold
	}
	return engine.Red
}
