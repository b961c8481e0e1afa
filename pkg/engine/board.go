// Package engine implements the backgammon rules: board and dice model,
// legal move generation, move application, the doubling cube, and turn
// and phase transitions. Every function here is pure — it takes a
// GameState and returns a new one — so the same engine can back both the
// authoritative server and a client-side simulation.
package engine

// Side identifies which player is on move or owns a point.
type Side int8

const (
	Gold Side = iota
	Red
)

func (s Side) String() string {
	if s == Gold {
		return "gold"
	}
	return "red"
}

// MarshalJSON emits the wire vocabulary ("gold"/"red").
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Gold {
		return Red
	}
	return Gold
}

// Point is an occupied or empty point on the board. A Point with Count
// == 0 is empty; Owner is meaningless in that case. Whenever Count > 0,
// Count >= 1 holds by construction.
type Point struct {
	Owner Side
	Count int
}

// Empty reports whether the point holds no checkers.
func (p Point) Empty() bool { return p.Count == 0 }

// Board is the 24 points of a backgammon board, indexed 0..23. Gold
// moves in the ascending direction and bears off past index 23; Red
// moves in the descending direction and bears off past index 0.
type Board [24]Point

// goldHomeStart..goldHomeEnd and redHomeStart..redHomeEnd are the
// inclusive point-index ranges of each side's home board.
const (
	goldHomeStart = 18
	goldHomeEnd   = 23
	redHomeStart  = 0
	redHomeEnd    = 5
)

// StartingBoard returns the standard backgammon starting position.
func StartingBoard() Board {
	var b Board
	b[0] = Point{Gold, 2}
	b[5] = Point{Red, 5}
	b[7] = Point{Red, 3}
	b[11] = Point{Gold, 5}
	b[12] = Point{Red, 5}
	b[16] = Point{Gold, 3}
	b[18] = Point{Gold, 5}
	b[23] = Point{Red, 2}
	return b
}

// direction returns +1 for Gold (ascending) and -1 for Red (descending).
func direction(s Side) int {
	if s == Gold {
		return 1
	}
	return -1
}

// inHomeRange reports whether point index idx lies within side s's home
// board, irrespective of occupancy.
func inHomeRange(s Side, idx int) bool {
	if s == Gold {
		return idx >= goldHomeStart && idx <= goldHomeEnd
	}
	return idx >= redHomeStart && idx <= redHomeEnd
}

// distanceToOff returns the exact pip distance for side s to bear off a
// checker sitting on point idx.
func distanceToOff(s Side, idx int) int {
	if s == Gold {
		return 24 - idx
	}
	return idx + 1
}

// PipCount returns the total pips side s needs to bear off every
// checker it still has on the board or the bar.
func (gs *GameState) PipCount(s Side) int {
	total := gs.Bar[s] * 25
	for idx, p := range gs.Board {
		if p.Empty() || p.Owner != s {
			continue
		}
		total += p.Count * distanceToOff(s, idx)
	}
	return total
}

// allCheckersInHome reports whether side s has every checker either
// borne off or within its own home board, with none on the bar — the
// precondition for bearing off.
func allCheckersInHome(gs *GameState, s Side) bool {
	if gs.Bar[s] > 0 {
		return false
	}
	for idx, p := range gs.Board {
		if p.Empty() || p.Owner != s {
			continue
		}
		if !inHomeRange(s, idx) {
			return false
		}
	}
	return true
}

// farthestHomeDistance returns the largest distanceToOff among side s's
// occupied home points, used for the "farthest piece, overshoot allowed"
// bear-off rule. Callers must only use this once allCheckersInHome holds.
func farthestHomeDistance(gs *GameState, s Side) int {
	farthest := -1
	for idx, p := range gs.Board {
		if p.Empty() || p.Owner != s || !inHomeRange(s, idx) {
			continue
		}
		if d := distanceToOff(s, idx); d > farthest {
			farthest = d
		}
	}
	return farthest
}
