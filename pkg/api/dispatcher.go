package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/yourusername/bgserver/internal/config"
	"github.com/yourusername/bgserver/internal/identity"
	"github.com/yourusername/bgserver/internal/room"
	"github.com/yourusername/bgserver/internal/storage"
)

// Dispatcher binds the transport layer to the room registry, identity
// store, and rules engine, performing the same sequence for every
// inbound event: resolve session -> lookup room -> authorize -> gate by
// phase -> call rules engine -> broadcast result(s).
type Dispatcher struct {
	cfg       config.Config
	upgrader  websocket.Upgrader
	identity  identity.Store
	db        *storage.DB
	pool      *WorkerPool
	registry  *room.Registry
	queue     *room.MatchQueue

	mu       sync.RWMutex
	sessions map[string]*Session // socketID -> session
}

// NewDispatcher wires together the identity store, persistence layer,
// and room registry behind a single dispatcher.
func NewDispatcher(cfg config.Config, idStore identity.Store, db *storage.DB, pool *WorkerPool) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		upgrader: newUpgrader(cfg.AllowedOrigin),
		identity: idStore,
		db:       db,
		pool:     pool,
		registry: room.NewRegistry(),
		queue:    room.NewMatchQueue(),
		sessions: make(map[string]*Session),
	}
}

func newSocketID() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

func (d *Dispatcher) addSession(s *Session) {
	d.mu.Lock()
	d.sessions[s.socketID] = s
	d.mu.Unlock()
}

func (d *Dispatcher) removeSession(socketID string) {
	d.mu.Lock()
	delete(d.sessions, socketID)
	d.mu.Unlock()
}

func (d *Dispatcher) sessionFor(socketID string) (*Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[socketID]
	return s, ok
}

// dispatch routes one decoded inbound envelope to its handler.
func (d *Dispatcher) dispatch(s *Session, env Envelope) {
	switch env.Type {
	case "register":
		d.handleRegister(s, env)
	case "claim-username":
		d.handleClaimUsername(s, env)
	case "create-room":
		d.handleCreateRoom(s, env)
	case "join-room":
		d.handleJoinRoom(s, env)
	case "quick-match":
		d.handleQuickMatch(s)
	case "leave-queue":
		d.handleLeaveQueue(s)
	case "list-rooms":
		d.handleListRooms(s)
	case "roll-dice":
		d.handleRollDice(s)
	case "make-move":
		d.handleMakeMove(s, env)
	case "end-turn":
		d.handleEndTurn(s)
	case "offer-double":
		d.handleOfferDouble(s)
	case "respond-double":
		d.handleRespondDouble(s, env)
	case "reconnect-to-game":
		d.handleReconnect(s, env)
	case "leave-room":
		d.handleLeaveRoom(s, env)
	case "list-players":
		d.handleListPlayers(s)
	default:
		s.emitError("unknown event type")
	}
}

// onDisconnect notifies the peer and starts the reconnect grace
// period. The slot stays populated with the same playerId; there is
// no timer-driven forfeit.
func (d *Dispatcher) onDisconnect(s *Session) {
	d.removeSession(s.socketID)
	d.queue.LeaveBySocketID(s.socketID)

	r, ok := d.registry.FindBySocketID(s.socketID)
	if !ok {
		return
	}
	var peer *room.PlayerConnection
	var role room.Role
	r.Submit(func(rm *room.Room) {
		_, role = rm.SlotFor(s.socketID)
		switch role {
		case room.RoleGold:
			peer = rm.Red
		case room.RoleRed:
			peer = rm.Gold
		}
		if role != room.RoleNone {
			rm.DisconnectedSince[role] = time.Now()
		}
	})
	if role != room.RoleNone {
		log.Printf("api: socket %s disconnected from room %s, grace period %ds", s.socketID, r.Code, d.cfg.ReconnectGraceSeconds)
	}
	if peer != nil {
		if peerSess, ok := d.sessionFor(peer.SocketID); ok {
			peerSess.emit("opponent-disconnected", opponentDisconnectedPayload{GraceSeconds: d.cfg.ReconnectGraceSeconds})
		}
	}
}

// guestDisplayUsername returns a *string suitable for the `registered`
// and `room-joined` payloads.
func guestDisplayUsername(g *identity.Guest) *string {
	return g.Username
}

func newMatchID() uuid.UUID { return uuid.New() }

func logAsyncErr(op string, err error) {
	if err != nil {
		log.Printf("api: %s: %v", op, err)
	}
}

func backgroundCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
