package engine

import "errors"

// ErrIllegalMove is returned by Apply when m does not consume a die
// currently available in gs.Dice.Remaining.
var ErrIllegalMove = errors.New("engine: illegal move")

// Apply performs the state transition for a single move. It never
// mutates gs; the returned GameState is an independent copy.
func Apply(gs *GameState, m Move) (*GameState, error) {
	d, ok := consumedDie(gs, m)
	if !ok {
		return nil, ErrIllegalMove
	}

	ns := gs.Clone()
	mover := ns.ToMove

	if m.From.IsBar() {
		ns.Bar[mover]--
	} else {
		idx := m.From.Index()
		ns.Board[idx].Count--
		if ns.Board[idx].Count == 0 {
			ns.Board[idx] = Point{}
		}
	}

	if m.To.IsOff() {
		ns.BorneOff[mover]++
	} else {
		idx := m.To.Index()
		p := &ns.Board[idx]
		if !p.Empty() && p.Owner != mover {
			opp := mover.Opponent()
			ns.Bar[opp]++
			*p = Point{}
		}
		if p.Empty() {
			*p = Point{Owner: mover, Count: 1}
		} else {
			p.Count++
		}
	}

	ns.Dice.Remaining = removeOne(ns.Dice.Remaining, d)
	return ns, nil
}
