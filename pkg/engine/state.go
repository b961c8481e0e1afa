package engine

// Phase enumerates the game's coarse-grained state machine.
type Phase string

const (
	PhaseOpeningRoll Phase = "OPENING_ROLL"
	PhaseRolling     Phase = "ROLLING"
	PhaseMoving      Phase = "MOVING"
	PhaseDoubling    Phase = "DOUBLING"
	PhaseGameOver    Phase = "GAME_OVER"
)

// WinType classifies how a game ended.
type WinType int

const (
	WinSingle WinType = iota
	WinGammon
	WinBackgammon
)

func (w WinType) String() string {
	switch w {
	case WinGammon:
		return "big_ya_mon"
	case WinBackgammon:
		return "massive_ya_mon"
	default:
		return "ya_mon"
	}
}

// MarshalJSON emits the wire vocabulary for the win type.
func (w WinType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + w.String() + `"`), nil
}

// Multiplier returns the cube multiplier associated with a win type:
// 1 for ya_mon, 2 for big_ya_mon, 3 for massive_ya_mon.
func (w WinType) Multiplier() int {
	switch w {
	case WinGammon:
		return 2
	case WinBackgammon:
		return 3
	default:
		return 1
	}
}

// DoublingCube is the stake multiplier.
type DoublingCube struct {
	Value int   // power of two, starting at 1
	Owner *Side // nil means centered (no owner)
}

func (c DoublingCube) clone() DoublingCube {
	cp := DoublingCube{Value: c.Value}
	if c.Owner != nil {
		o := *c.Owner
		cp.Owner = &o
	}
	return cp
}

// MatchScore tracks the running match.
type MatchScore struct {
	Score       [2]int // indexed by Side
	MatchLength int
	Crawford    bool
}

// GameState aggregates the full state of one game.
type GameState struct {
	Board    Board
	Bar      [2]int // indexed by Side
	BorneOff [2]int // indexed by Side
	ToMove   Side
	Phase    Phase
	Dice     *Dice // nil before the turn's dice are rolled
	Cube     DoublingCube
	Match    MatchScore
	Winner   *Side
	WinType  *WinType
}

// NewGame returns a fresh GameState in the standard starting position,
// awaiting the opening roll. matchLength of 0 denotes a money game but is
// still represented with MatchLength 0 (length is never treated as
// "1" implicitly).
func NewGame(matchLength int) *GameState {
	return &GameState{
		Board:  StartingBoard(),
		ToMove: Gold,
		Phase:  PhaseOpeningRoll,
		Cube:   DoublingCube{Value: 1},
		Match:  MatchScore{MatchLength: matchLength},
	}
}

// Clone returns a deep copy of gs; mutating the result never affects gs.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Dice = gs.Dice.clone()
	cp.Cube = gs.Cube.clone()
	if gs.Winner != nil {
		w := *gs.Winner
		cp.Winner = &w
	}
	if gs.WinType != nil {
		t := *gs.WinType
		cp.WinType = &t
	}
	return &cp
}

// Equal reports whether two states are structurally identical, used by
// the cloneState(s) == s invariant test.
func (gs *GameState) Equal(other *GameState) bool {
	if gs.Board != other.Board || gs.Bar != other.Bar || gs.BorneOff != other.BorneOff {
		return false
	}
	if gs.ToMove != other.ToMove || gs.Phase != other.Phase || gs.Match != other.Match {
		return false
	}
	if gs.Cube.Value != other.Cube.Value {
		return false
	}
	if (gs.Cube.Owner == nil) != (other.Cube.Owner == nil) {
		return false
	}
	if gs.Cube.Owner != nil && *gs.Cube.Owner != *other.Cube.Owner {
		return false
	}
	if (gs.Winner == nil) != (other.Winner == nil) {
		return false
	}
	if gs.Winner != nil && *gs.Winner != *other.Winner {
		return false
	}
	if (gs.WinType == nil) != (other.WinType == nil) {
		return false
	}
	if gs.WinType != nil && *gs.WinType != *other.WinType {
		return false
	}
	if (gs.Dice == nil) != (other.Dice == nil) {
		return false
	}
	if gs.Dice != nil {
		if gs.Dice.Die1 != other.Dice.Die1 || gs.Dice.Die2 != other.Dice.Die2 {
			return false
		}
		if len(gs.Dice.Remaining) != len(other.Dice.Remaining) {
			return false
		}
		for i := range gs.Dice.Remaining {
			if gs.Dice.Remaining[i] != other.Dice.Remaining[i] {
				return false
			}
		}
	}
	return true
}

// checkersOf returns sum(point counts) + bar + borneOff for side s,
// which the checker-count invariant holds at 15.
func (gs *GameState) checkersOf(s Side) int {
	total := gs.Bar[s] + gs.BorneOff[s]
	for _, p := range gs.Board {
		if !p.Empty() && p.Owner == s {
			total += p.Count
		}
	}
	return total
}
