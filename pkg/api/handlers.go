package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bgserver/internal/identity"
	"github.com/yourusername/bgserver/internal/room"
	"github.com/yourusername/bgserver/internal/storage"
	"github.com/yourusername/bgserver/pkg/engine"
)

func decodePayload(env Envelope, v interface{}) bool {
	if len(env.Payload) == 0 {
		return true
	}
	return json.Unmarshal(env.Payload, v) == nil
}

// handleRegister restores a session from a token or creates a fresh
// guest, replying `registered` to the sender only.
func (d *Dispatcher) handleRegister(s *Session, env Envelope) {
	var req registerPayload
	if !decodePayload(env, &req) {
		s.emitError("invalid register payload")
		return
	}

	ctx, cancel := backgroundCtx()
	defer cancel()

	var g *identity.Guest
	if req.Token != "" {
		found, err := d.identity.GuestByToken(ctx, req.Token)
		if err == nil {
			g = found
		} else if !errors.Is(err, identity.ErrNotFound) {
			s.emitError("registration failed")
			return
		}
	}

	if g == nil {
		token, err := identity.NewToken()
		if err != nil {
			s.emitError("registration failed")
			return
		}
		suffix, _ := rand.Int(rand.Reader, big.NewInt(10000))
		guest := identity.NewGuest(identity.NewDisplayName(int(suffix.Int64())), token, time.Now())
		if err := d.identity.CreateGuest(ctx, guest); err != nil {
			s.emitError("registration failed")
			return
		}
		g = &guest
	}

	s.mu.Lock()
	s.playerID = g.ID.String()
	s.displayName = g.DisplayName
	s.username = g.Username
	s.mu.Unlock()

	s.emit("registered", registeredPayload{
		PlayerID:    g.ID.String(),
		DisplayName: g.DisplayName,
		Username:    guestDisplayUsername(g),
		Token:       g.Token,
	})
}

// handleClaimUsername enforces the format and uniqueness rules and
// replies `username-claimed` or `username-error`.
func (d *Dispatcher) handleClaimUsername(s *Session, env Envelope) {
	if !s.isRegistered() {
		s.emitError("not registered")
		return
	}
	var req claimUsernamePayload
	if !decodePayload(env, &req) {
		s.emitError("invalid claim-username payload")
		return
	}
	if err := identity.ValidateUsername(req.Username); err != nil {
		s.emit("username-error", messagePayload{Message: err.Error()})
		return
	}

	ctx, cancel := backgroundCtx()
	defer cancel()
	id, _ := uuid.Parse(s.playerID)
	if err := d.identity.ClaimUsername(ctx, id, req.Username); err != nil {
		s.emit("username-error", messagePayload{Message: err.Error()})
		return
	}

	s.mu.Lock()
	name := req.Username
	s.username = &name
	s.mu.Unlock()
	s.emit("username-claimed", usernameClaimedPayload{Username: req.Username})
}

func (s *Session) isRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerID != ""
}

func (s *Session) conn2() room.PlayerConnection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return room.PlayerConnection{SocketID: s.socketID, PlayerID: mustParse(s.playerID), DisplayName: s.displayName}
}

func mustParse(id string) uuid.UUID {
	u, _ := uuid.Parse(id)
	return u
}

// handleCreateRoom allocates a new room with the sender as Gold.
func (d *Dispatcher) handleCreateRoom(s *Session, env Envelope) {
	if !s.isRegistered() {
		s.emitError("not registered")
		return
	}
	r, err := d.registry.Create(s.conn2())
	if err != nil {
		s.emitError("could not create room")
		return
	}
	s.emit("room-created", roomCreatedPayload{RoomID: r.Code})
	d.broadcastRoomList()
}

// handleJoinRoom fills the Red slot, then emits room-joined to both
// sides followed by game-start.
func (d *Dispatcher) handleJoinRoom(s *Session, env Envelope) {
	if !s.isRegistered() {
		s.emitError("not registered")
		return
	}
	var req joinRoomPayload
	if !decodePayload(env, &req) {
		s.emitError("invalid join-room payload")
		return
	}

	r, ok := d.registry.Get(req.RoomID)
	if !ok {
		s.emitError("room not found")
		return
	}
	if r.Gold != nil && r.Gold.PlayerID == mustParse(s.playerID) {
		s.emitError("cannot join your own room")
		return
	}

	joined, err := d.registry.Join(req.RoomID, s.conn2())
	if err != nil {
		s.emitError("could not join room")
		return
	}
	d.completeJoin(joined)
}

// handleQuickMatch enqueues the sender and, once paired, behaves
// exactly like create+join.
func (d *Dispatcher) handleQuickMatch(s *Session) {
	if !s.isRegistered() {
		s.emitError("not registered")
		return
	}
	matched, gold, red := d.queue.Enqueue(s.conn2())
	if !matched {
		return
	}

	r, err := d.registry.Create(gold)
	if err != nil {
		s.emitError("could not create match")
		return
	}
	if _, err := d.registry.Join(r.Code, red); err != nil {
		s.emitError("could not create match")
		return
	}

	for _, conn := range []room.PlayerConnection{gold, red} {
		if sess, ok := d.sessionFor(conn.SocketID); ok {
			sess.emit("match-found", matchFoundPayload{RoomID: r.Code})
		}
	}
	d.completeJoin(r)
}

// completeJoin sends room-joined to each occupied slot followed by
// game-start, preserving the ordering guarantee that game-start is
// observable strictly after both room-joined messages.
func (d *Dispatcher) completeJoin(r *room.Room) {
	var goldConn, redConn *room.PlayerConnection
	var state WireGameState
	r.Submit(func(rm *room.Room) {
		goldConn, redConn = rm.Gold, rm.Red
		state = toWireGameState(rm.Game)
	})

	if goldConn != nil {
		if sess, ok := d.sessionFor(goldConn.SocketID); ok {
			var opp *opponentBrief
			if redConn != nil {
				opp = &opponentBrief{DisplayName: redConn.DisplayName}
			}
			sess.emit("room-joined", roomJoinedPayload{RoomID: r.Code, Player: "gold", State: state, Opponent: opp})
		}
	}
	if redConn != nil {
		if sess, ok := d.sessionFor(redConn.SocketID); ok {
			var opp *opponentBrief
			if goldConn != nil {
				opp = &opponentBrief{DisplayName: goldConn.DisplayName}
			}
			sess.emit("room-joined", roomJoinedPayload{RoomID: r.Code, Player: "red", State: state, Opponent: opp})
		}
	}

	if goldConn != nil && redConn != nil {
		for _, conn := range []*room.PlayerConnection{goldConn, redConn} {
			if sess, ok := d.sessionFor(conn.SocketID); ok {
				sess.emit("game-start", gameStartPayload{State: state})
			}
		}
	}
	d.broadcastRoomList()
}

// handleLeaveQueue removes the sender from the matchmaking queue.
func (d *Dispatcher) handleLeaveQueue(s *Session) {
	if !s.isRegistered() {
		return
	}
	d.queue.LeaveByPlayerID(mustParse(s.playerID))
}

// handleListRooms replies with a snapshot of waiting rooms.
func (d *Dispatcher) handleListRooms(s *Session) {
	s.emit("room-list", roomListPayload{Rooms: d.roomSummaries()})
}

func (d *Dispatcher) roomSummaries() []roomSummary {
	waiting := d.registry.WaitingRooms()
	out := make([]roomSummary, 0, len(waiting))
	for _, r := range waiting {
		var host string
		var createdAt time.Time
		r.Submit(func(rm *room.Room) {
			createdAt = rm.CreatedAt
			if rm.Gold != nil {
				host = rm.Gold.DisplayName
			} else if rm.Red != nil {
				host = rm.Red.DisplayName
			}
		})
		out = append(out, roomSummary{ID: r.Code, CreatedAt: createdAt.Unix(), Host: hostBrief{DisplayName: host}})
	}
	return out
}

func (d *Dispatcher) broadcastRoomList() {
	d.mu.RLock()
	sessions := make([]*Session, 0, len(d.sessions))
	for _, sess := range d.sessions {
		sessions = append(sessions, sess)
	}
	d.mu.RUnlock()

	payload := roomListPayload{Rooms: d.roomSummaries()}
	for _, sess := range sessions {
		sess.emit("room-list", payload)
	}
}

// findRoomForSession resolves the room the sender currently occupies
// via the socket -> room lookup, the sole authorization path for
// in-game events.
func (d *Dispatcher) findRoomForSession(s *Session) (*room.Room, room.Role, bool) {
	r, ok := d.registry.FindBySocketID(s.socketID)
	if !ok {
		return nil, room.RoleNone, false
	}
	var role room.Role
	r.Submit(func(rm *room.Room) {
		_, role = rm.SlotFor(s.socketID)
	})
	return r, role, role != room.RoleNone
}

// handleRollDice resolves either the opening roll or a normal roll for
// the mover.
func (d *Dispatcher) handleRollDice(s *Session) {
	r, role, ok := d.findRoomForSession(s)
	if !ok {
		s.emitError("not in a room")
		return
	}

	var (
		authErr     string
		wasOpening  bool
		opening     engine.RollOpeningResult
		dice        engine.RolledDice
		goldSock    string
		redSock     string
		autoEnded   bool
		state       WireGameState
		mover       string
	)

	r.Submit(func(rm *room.Room) {
		if rm.Gold != nil {
			goldSock = rm.Gold.SocketID
		}
		if rm.Red != nil {
			redSock = rm.Red.SocketID
		}

		gs := rm.Game
		switch gs.Phase {
		case engine.PhaseOpeningRoll:
			wasOpening = true
			ns, res := engine.RollOpening(gs, nil, nil)
			rm.Game = ns
			opening = res
		case engine.PhaseRolling:
			if role.Side() != gs.ToMove {
				authErr = "not your turn"
				return
			}
			ns, rolled, err := engine.RollTurnDice(gs, nil)
			if err != nil {
				authErr = "cannot roll now"
				return
			}
			autoEnded = ns.Phase == engine.PhaseRolling
			rm.Game = ns
			dice = rolled
		default:
			authErr = "cannot roll now"
			return
		}
		state = toWireGameState(rm.Game)
		mover = rm.Game.ToMove.String()
	})

	if authErr != "" {
		s.emitError(authErr)
		return
	}

	if wasOpening {
		if opening.Tied {
			d.emitTo(goldSock, redSock, "opening-roll-tied", openingRollTiedPayload{GoldDie: opening.GoldDie, RedDie: opening.RedDie})
			return
		}
		d.emitTo(goldSock, redSock, "opening-roll-result", openingRollResultPayload{
			GoldDie: opening.GoldDie, RedDie: opening.RedDie,
			FirstPlayer: opening.FirstMover.String(),
			Dice:        [2]int{opening.GoldDie, opening.RedDie},
		})
		return
	}

	d.emitTo(goldSock, redSock, "dice-rolled", diceRolledPayload{Dice: [2]int{dice.Die1, dice.Die2}})
	if autoEnded {
		d.emitTo(goldSock, redSock, "turn-ended", turnEndedPayload{State: state, CurrentPlayer: mover})
	}
}

// emitTo delivers a message to both room slots, silently skipping a
// slot whose socket has disconnected (the reconnecting peer catches up
// via reconnect-to-game's room-joined reply instead).
func (d *Dispatcher) emitTo(goldSock, redSock, msgType string, payload interface{}) {
	if sess, ok := d.sessionFor(goldSock); ok {
		sess.emit(msgType, payload)
	}
	if redSock != goldSock {
		if sess, ok := d.sessionFor(redSock); ok {
			sess.emit(msgType, payload)
		}
	}
}

// handleMakeMove applies a single move and broadcasts the result,
// recording a finished match off the hot path.
func (d *Dispatcher) handleMakeMove(s *Session, env Envelope) {
	var req makeMovePayload
	if !decodePayload(env, &req) {
		s.emitError("invalid make-move payload")
		return
	}

	r, role, ok := d.findRoomForSession(s)
	if !ok {
		s.emitError("not in a room")
		return
	}

	var (
		authErr  string
		state    WireGameState
		move     = req.Move.toEngine()
		goldSock string
		redSock  string
		over     bool
		winner   engine.Side
		winType  engine.WinType
		points   int
		goldID   uuid.UUID
		redID    uuid.UUID
	)

	r.Submit(func(rm *room.Room) {
		if rm.Gold != nil {
			goldSock, goldID = rm.Gold.SocketID, rm.Gold.PlayerID
		}
		if rm.Red != nil {
			redSock, redID = rm.Red.SocketID, rm.Red.PlayerID
		}

		gs := rm.Game
		if gs.Phase != engine.PhaseMoving || role.Side() != gs.ToMove {
			authErr = "not your move"
			return
		}
		legal := false
		for _, m := range engine.ConstrainedMoves(gs) {
			if m == move {
				legal = true
				break
			}
		}
		if !legal {
			authErr = "illegal move"
			return
		}
		ns, err := engine.MakeMove(gs, move)
		if err != nil {
			authErr = "illegal move"
			return
		}
		rm.Game = ns
		state = toWireGameState(ns)
		if ns.Phase == engine.PhaseGameOver {
			over = true
			winner = *ns.Winner
			winType = *ns.WinType
			points = engine.PointsWon(winType, ns.Cube.Value)
		}
	})

	if authErr != "" {
		s.emitError(authErr)
		return
	}

	d.emitTo(goldSock, redSock, "move-made", moveMadePayload{Move: req.Move, State: state})

	if !over {
		return
	}
	winnerID := goldID
	if winner == engine.Red {
		winnerID = redID
	}
	d.emitTo(goldSock, redSock, "game-over", gameOverPayload{Winner: winner.String(), WinType: winType.String(), PointsWon: points})
	d.recordFinishedMatch(goldID, redID, winnerID, winType, points)
}

// recordFinishedMatch persists the result through the worker pool so
// the write never delays the game-over broadcast; failures are logged
// only.
func (d *Dispatcher) recordFinishedMatch(goldID, redID, winnerID uuid.UUID, wt engine.WinType, points int) {
	go func() {
		ctx, cancel := backgroundCtx()
		defer cancel()
		if err := d.pool.AcquireFast(ctx); err != nil {
			return
		}
		defer d.pool.ReleaseFast()

		now := time.Now()
		err := d.db.RecordMatch(ctx, storage.MatchResult{
			ID: newMatchID(), GoldPlayerID: goldID, RedPlayerID: redID,
			WinnerID: winnerID, WinType: wt.String(), PointsWon: points,
			CreatedAt: now, CompletedAt: now,
		})
		logAsyncErr("recording match", err)
	}()
}

// handleEndTurn advances the turn when the mover has no playable dice
// left.
func (d *Dispatcher) handleEndTurn(s *Session) {
	r, role, ok := d.findRoomForSession(s)
	if !ok {
		s.emitError("not in a room")
		return
	}
	var authErr string
	var state WireGameState
	var goldSock, redSock, mover string
	r.Submit(func(rm *room.Room) {
		if rm.Gold != nil {
			goldSock = rm.Gold.SocketID
		}
		if rm.Red != nil {
			redSock = rm.Red.SocketID
		}
		gs := rm.Game
		if gs.Phase != engine.PhaseMoving || role.Side() != gs.ToMove || engine.CanMove(gs) {
			authErr = "cannot end turn now"
			return
		}
		ns, err := engine.EndTurn(gs)
		if err != nil {
			authErr = "cannot end turn now"
			return
		}
		rm.Game = ns
		state = toWireGameState(ns)
		mover = ns.ToMove.String()
	})
	if authErr != "" {
		s.emitError(authErr)
		return
	}
	d.emitTo(goldSock, redSock, "turn-ended", turnEndedPayload{State: state, CurrentPlayer: mover})
}

// handleOfferDouble transitions to DOUBLING and notifies the opponent
// only.
func (d *Dispatcher) handleOfferDouble(s *Session) {
	r, role, ok := d.findRoomForSession(s)
	if !ok {
		s.emitError("not in a room")
		return
	}
	var authErr string
	var opponentSocket string
	var cubeValue int
	r.Submit(func(rm *room.Room) {
		gs := rm.Game
		if role.Side() != gs.ToMove || !engine.CanOffer(gs) {
			authErr = "cannot offer a double now"
			return
		}
		ns, err := engine.OfferDouble(gs)
		if err != nil {
			authErr = "cannot offer a double now"
			return
		}
		rm.Game = ns
		cubeValue = ns.Cube.Value
		if role == room.RoleGold && rm.Red != nil {
			opponentSocket = rm.Red.SocketID
		} else if role == room.RoleRed && rm.Gold != nil {
			opponentSocket = rm.Gold.SocketID
		}
	})
	if authErr != "" {
		s.emitError(authErr)
		return
	}
	if sess, ok := d.sessionFor(opponentSocket); ok {
		sess.emit("double-offered", doubleOfferedPayload{CurrentCubeValue: cubeValue})
	}
}

// handleRespondDouble applies accept or decline and broadcasts the
// result, ending the game on decline.
func (d *Dispatcher) handleRespondDouble(s *Session, env Envelope) {
	var req respondDoublePayload
	if !decodePayload(env, &req) {
		s.emitError("invalid respond-double payload")
		return
	}

	r, role, ok := d.findRoomForSession(s)
	if !ok {
		s.emitError("not in a room")
		return
	}

	var (
		authErr                string
		state                  WireGameState
		goldSock, redSock      string
		goldID, redID          uuid.UUID
		over                   bool
		winner                 engine.Side
		winType                engine.WinType
		points                 int
	)
	r.Submit(func(rm *room.Room) {
		if rm.Gold != nil {
			goldSock, goldID = rm.Gold.SocketID, rm.Gold.PlayerID
		}
		if rm.Red != nil {
			redSock, redID = rm.Red.SocketID, rm.Red.PlayerID
		}
		gs := rm.Game
		if gs.Phase != engine.PhaseDoubling || role.Side() == gs.ToMove {
			authErr = "cannot respond now"
			return
		}
		var ns *engine.GameState
		var err error
		if req.Accept {
			ns, err = engine.AcceptDouble(gs)
		} else {
			ns, err = engine.DeclineDouble(gs)
		}
		if err != nil {
			authErr = "cannot respond now"
			return
		}
		rm.Game = ns
		state = toWireGameState(ns)
		if ns.Phase == engine.PhaseGameOver {
			over = true
			winner = *ns.Winner
			winType = *ns.WinType
			points = engine.PointsWon(winType, ns.Cube.Value)
		}
	})
	if authErr != "" {
		s.emitError(authErr)
		return
	}

	d.emitTo(goldSock, redSock, "double-response", doubleResponsePayload{Accepted: req.Accept, State: state})
	if !over {
		return
	}
	winnerID := goldID
	if winner == engine.Red {
		winnerID = redID
	}
	d.emitTo(goldSock, redSock, "game-over", gameOverPayload{Winner: winner.String(), WinType: winType.String(), PointsWon: points})
	d.recordFinishedMatch(goldID, redID, winnerID, winType, points)
}

// handleReconnect rebinds a socket to its room slot and cancels the
// disconnect grace.
func (d *Dispatcher) handleReconnect(s *Session, env Envelope) {
	var req reconnectPayload
	if !decodePayload(env, &req) {
		s.emitError("invalid reconnect-to-game payload")
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		s.emitError("invalid playerId")
		return
	}

	r, err := d.registry.Rebind(req.RoomID, playerID, s.socketID)
	if err != nil {
		s.emitError("could not reconnect")
		return
	}

	var role room.Role
	var state WireGameState
	var opp *room.PlayerConnection
	r.Submit(func(rm *room.Room) {
		role = rm.RoleOfPlayer(playerID)
		state = toWireGameState(rm.Game)
		if role == room.RoleGold {
			opp = rm.Red
		} else if role == room.RoleRed {
			opp = rm.Gold
		}
	})

	player := "gold"
	if role == room.RoleRed {
		player = "red"
	}
	var oppBrief *opponentBrief
	if opp != nil {
		oppBrief = &opponentBrief{DisplayName: opp.DisplayName}
	}
	s.emit("room-joined", roomJoinedPayload{RoomID: r.Code, Player: player, State: state, Opponent: oppBrief})

	if opp != nil {
		if peerSess, ok := d.sessionFor(opp.SocketID); ok {
			peerSess.emit("opponent-reconnected", struct{}{})
		}
	}
}

// handleLeaveRoom clears the sender's slot, deleting the room if it
// becomes empty.
func (d *Dispatcher) handleLeaveRoom(s *Session, env Envelope) {
	r, _, ok := d.findRoomForSession(s)
	if !ok {
		s.emitError("not in a room")
		return
	}
	var peerSocket string
	r.Submit(func(rm *room.Room) {
		if rm.Gold != nil && rm.Gold.SocketID != s.socketID {
			peerSocket = rm.Gold.SocketID
		}
		if rm.Red != nil && rm.Red.SocketID != s.socketID {
			peerSocket = rm.Red.SocketID
		}
	})
	d.registry.Leave(s.socketID)
	if sess, ok := d.sessionFor(peerSocket); ok {
		sess.emit("opponent-left", struct{}{})
	}
	d.broadcastRoomList()
}

// handleListPlayers serves the read-only roster projection.
func (d *Dispatcher) handleListPlayers(s *Session) {
	ctx, cancel := backgroundCtx()
	defer cancel()
	if err := d.pool.AcquireSlow(ctx); err != nil {
		s.emitError("roster unavailable")
		return
	}
	defer d.pool.ReleaseSlow()

	entries, err := d.db.Roster(ctx)
	if err != nil {
		s.emitError("roster unavailable")
		return
	}
	players := make([]playerBrief, len(entries))
	for i, e := range entries {
		players[i] = playerBrief{
			Username:     e.Username,
			CreatedAt:    e.CreatedAt.Unix(),
			Wins:         e.Wins,
			Losses:       e.Losses,
			AvgPointsWon: e.AvgPointsWon,
		}
	}
	s.emit("player-list", playerListPayload{Players: players})
}
