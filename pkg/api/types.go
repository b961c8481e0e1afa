// Package api implements the realtime WebSocket dispatcher: the wire
// envelope, session bookkeeping, and the per-event handlers binding
// the rules engine to room state.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yourusername/bgserver/pkg/engine"
)

// Envelope is the `{type, payload}` shape every inbound and outbound
// message uses.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WireEndpoint marshals an engine.Endpoint as either a 0-based point
// index or the literal string "bar"/"off".
type WireEndpoint engine.Endpoint

func (e WireEndpoint) MarshalJSON() ([]byte, error) {
	switch engine.Endpoint(e) {
	case engine.EndBar:
		return []byte(`"bar"`), nil
	case engine.EndOff:
		return []byte(`"off"`), nil
	default:
		return json.Marshal(int(e))
	}
}

func (e *WireEndpoint) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	switch string(data) {
	case "bar":
		*e = WireEndpoint(engine.EndBar)
		return nil
	case "off":
		*e = WireEndpoint(engine.EndOff)
		return nil
	default:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("api: invalid endpoint %q: %w", data, err)
		}
		*e = WireEndpoint(engine.Pt(n))
		return nil
	}
}

// WireMove is the wire representation of engine.Move.
type WireMove struct {
	From WireEndpoint `json:"from"`
	To   WireEndpoint `json:"to"`
}

func toWireMove(m engine.Move) WireMove {
	return WireMove{From: WireEndpoint(m.From), To: WireEndpoint(m.To)}
}

func (m WireMove) toEngine() engine.Move {
	return engine.Move{From: engine.Endpoint(m.From), To: engine.Endpoint(m.To)}
}

// WireDice is the dice half of a wire GameState.
type WireDice struct {
	Die1      int   `json:"die1"`
	Die2      int   `json:"die2"`
	Remaining []int `json:"remaining"`
}

// WireCube is the doubling cube half of a wire GameState.
type WireCube struct {
	Value int          `json:"value"`
	Owner *engine.Side `json:"owner"`
}

// WireGameState is the full board-and-turn snapshot sent to clients
// as the `state` field of several outbound payloads.
type WireGameState struct {
	Board    [24]WirePoint `json:"board"`
	Bar      [2]int        `json:"bar"`
	BorneOff [2]int        `json:"borneOff"`
	ToMove   engine.Side   `json:"toMove"`
	Phase    engine.Phase  `json:"phase"`
	Dice     *WireDice     `json:"dice"`
	Cube     WireCube      `json:"cube"`
	Score    [2]int        `json:"score"`
}

// WirePoint is one board point on the wire: nil owner for an empty
// point, otherwise the occupying side and checker count.
type WirePoint struct {
	Owner *engine.Side `json:"owner"`
	Count int          `json:"count"`
}

func toWireGameState(gs *engine.GameState) WireGameState {
	w := WireGameState{
		Bar:      gs.Bar,
		BorneOff: gs.BorneOff,
		ToMove:   gs.ToMove,
		Phase:    gs.Phase,
		Cube:     WireCube{Value: gs.Cube.Value, Owner: gs.Cube.Owner},
		Score:    gs.Match.Score,
	}
	for i, p := range gs.Board {
		if p.Empty() {
			continue
		}
		owner := p.Owner
		w.Board[i] = WirePoint{Owner: &owner, Count: p.Count}
	}
	if gs.Dice != nil {
		w.Dice = &WireDice{Die1: gs.Dice.Die1, Die2: gs.Dice.Die2, Remaining: gs.Dice.Remaining}
	}
	return w
}

// Inbound payloads.

type registerPayload struct {
	Token string `json:"token,omitempty"`
}

type claimUsernamePayload struct {
	Username string `json:"username"`
}

type createRoomPayload struct {
	RoomName string `json:"roomName,omitempty"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type makeMovePayload struct {
	Move WireMove `json:"move"`
}

type respondDoublePayload struct {
	Accept bool `json:"accept"`
}

type reconnectPayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
}

type leaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

// Outbound payloads.

type registeredPayload struct {
	PlayerID    string  `json:"playerId"`
	DisplayName string  `json:"displayName"`
	Username    *string `json:"username"`
	Token       string  `json:"token"`
}

type usernameClaimedPayload struct {
	Username string `json:"username"`
}

type messagePayload struct {
	Message string `json:"message"`
}

type roomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type roomSummary struct {
	ID        string    `json:"id"`
	CreatedAt int64     `json:"createdAt"`
	Host      hostBrief `json:"host"`
}

type hostBrief struct {
	DisplayName string `json:"displayName"`
}

type roomListPayload struct {
	Rooms []roomSummary `json:"rooms"`
}

type opponentBrief struct {
	DisplayName string `json:"displayName"`
}

type opponentDisconnectedPayload struct {
	GraceSeconds int `json:"graceSeconds"`
}

type roomJoinedPayload struct {
	RoomID   string         `json:"roomId"`
	Player   string         `json:"player"`
	State    WireGameState  `json:"state"`
	Opponent *opponentBrief `json:"opponent"`
}

type gameStartPayload struct {
	State WireGameState `json:"state"`
}

type matchFoundPayload struct {
	RoomID string `json:"roomId"`
}

type openingRollTiedPayload struct {
	GoldDie int `json:"goldDie"`
	RedDie  int `json:"redDie"`
}

type openingRollResultPayload struct {
	GoldDie     int    `json:"goldDie"`
	RedDie      int    `json:"redDie"`
	FirstPlayer string `json:"firstPlayer"`
	Dice        [2]int `json:"dice"`
}

type diceRolledPayload struct {
	Dice [2]int `json:"dice"`
}

type moveMadePayload struct {
	Move  WireMove      `json:"move"`
	State WireGameState `json:"state"`
}

type turnEndedPayload struct {
	State         WireGameState `json:"state"`
	CurrentPlayer string        `json:"currentPlayer"`
}

type doubleOfferedPayload struct {
	CurrentCubeValue int `json:"currentCubeValue"`
}

type doubleResponsePayload struct {
	Accepted bool          `json:"accepted"`
	State    WireGameState `json:"state"`
}

type gameOverPayload struct {
	Winner    string `json:"winner"`
	WinType   string `json:"winType"`
	PointsWon int    `json:"pointsWon"`
}

type playerBrief struct {
	Username     string  `json:"username"`
	CreatedAt    int64   `json:"createdAt"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	AvgPointsWon float64 `json:"avgPointsWon"`
}

type playerListPayload struct {
	Players []playerBrief `json:"players"`
}
