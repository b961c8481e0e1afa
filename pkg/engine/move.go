package engine

// Endpoint is a tagged variant over a point index, the bar, or off the
// board, not a string union. Non-negative values are point indices
// 0..23; EndBar and EndOff are the two special cases. Serialization to
// the wire encoding ("bar"/"off"/int) happens at the dispatcher
// boundary, never here.
type Endpoint int

const (
	EndOff Endpoint = -2
	EndBar Endpoint = -1
)

// Pt constructs an Endpoint referring to point index i.
func Pt(i int) Endpoint { return Endpoint(i) }

// IsBar reports whether the endpoint is the bar.
func (e Endpoint) IsBar() bool { return e == EndBar }

// IsOff reports whether the endpoint is borne off.
func (e Endpoint) IsOff() bool { return e == EndOff }

// Index returns the point index for a point endpoint. Callers must not
// call this on the bar or off endpoints.
func (e Endpoint) Index() int { return int(e) }

// Move is a single atomic checker move, uniquely determined by its
// endpoints. The die it consumes is derived, never stored.
type Move struct {
	From Endpoint
	To   Endpoint
}

// barEntryIndex returns the point a checker entering from the bar lands
// on for side s using die d.
func barEntryIndex(s Side, d int) int {
	if s == Gold {
		return d - 1
	}
	return 24 - d
}

// legalLanding reports whether side s may land a checker on point idx:
// it must be empty, owned by s, or a single opposing blot.
func legalLanding(gs *GameState, s Side, idx int) bool {
	p := gs.Board[idx]
	if p.Empty() {
		return true
	}
	if p.Owner == s {
		return true
	}
	return p.Count == 1
}

// LegalMoves returns every atomic move playable with some die currently
// in gs.Dice.Remaining.
func LegalMoves(gs *GameState) []Move {
	if gs.Dice == nil || len(gs.Dice.Remaining) == 0 {
		return nil
	}
	mover := gs.ToMove
	dice := distinctValues(gs.Dice.Remaining)

	seen := make(map[Move]bool)
	var moves []Move
	add := func(m Move) {
		if !seen[m] {
			seen[m] = true
			moves = append(moves, m)
		}
	}

	if gs.Bar[mover] > 0 {
		for _, d := range dice {
			entry := barEntryIndex(mover, d)
			if legalLanding(gs, mover, entry) {
				add(Move{From: EndBar, To: Pt(entry)})
			}
		}
		return moves
	}

	allHome := allCheckersInHome(gs, mover)
	farthest := -1
	if allHome {
		farthest = farthestHomeDistance(gs, mover)
	}

	dir := direction(mover)
	for idx, p := range gs.Board {
		if p.Empty() || p.Owner != mover {
			continue
		}
		for _, d := range dice {
			to := idx + d*dir
			if to >= 0 && to <= 23 {
				if legalLanding(gs, mover, to) {
					add(Move{From: Pt(idx), To: Pt(to)})
				}
				continue
			}
			if !allHome {
				continue
			}
			distance := distanceToOff(mover, idx)
			if d == distance || (d > distance && distance == farthest) {
				add(Move{From: Pt(idx), To: EndOff})
			}
		}
	}
	return moves
}

// consumedDie derives which die value a move consumes. Only one die
// matches except in the bear-off overshoot case, where the smallest
// matching die in Remaining is used.
func consumedDie(gs *GameState, m Move) (int, bool) {
	mover := gs.ToMove
	if m.From.IsBar() {
		entry := m.To.Index()
		var d int
		if mover == Gold {
			d = entry + 1
		} else {
			d = 24 - entry
		}
		return d, contains(gs.Dice.Remaining, d)
	}
	if m.To.IsOff() {
		distance := distanceToOff(mover, m.From.Index())
		best, ok := -1, false
		for _, d := range gs.Dice.Remaining {
			if d >= distance && (!ok || d < best) {
				best, ok = d, true
			}
		}
		return best, ok
	}
	d := m.To.Index() - m.From.Index()
	if d < 0 {
		d = -d
	}
	return d, contains(gs.Dice.Remaining, d)
}

func contains(vs []int, v int) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
