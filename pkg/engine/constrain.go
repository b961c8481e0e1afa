package engine

// turnSequence is one complete way of playing out a turn from the
// current state, move by move, until no further die can be used.
type turnSequence []Move

// enumerateTurns depth-first enumerates every maximal sequence of moves
// playable from gs. Recursion depth is bounded by len(gs.Dice.Remaining),
// which only shrinks — at most 4 for doubles — so this always
// terminates.
func enumerateTurns(gs *GameState) []turnSequence {
	legal := LegalMoves(gs)
	if len(legal) == 0 {
		return []turnSequence{{}}
	}

	var out []turnSequence
	for _, mv := range legal {
		next, err := Apply(gs, mv)
		if err != nil {
			continue
		}
		for _, sub := range enumerateTurns(next) {
			seq := make(turnSequence, 0, len(sub)+1)
			seq = append(seq, mv)
			seq = append(seq, sub...)
			out = append(out, seq)
		}
	}
	return out
}

// ConstrainedMoves restricts LegalMoves so that the player is forced to
// play as many dice as possible across the whole turn, and — when only
// one die can be played — to play the higher one.
func ConstrainedMoves(gs *GameState) []Move {
	sequences := enumerateTurns(gs)

	maxLen := 0
	for _, seq := range sequences {
		if len(seq) > maxLen {
			maxLen = len(seq)
		}
	}
	if maxLen == 0 {
		return nil
	}

	seen := make(map[Move]bool)
	var firsts []Move
	for _, seq := range sequences {
		if len(seq) != maxLen {
			continue
		}
		if !seen[seq[0]] {
			seen[seq[0]] = true
			firsts = append(firsts, seq[0])
		}
	}

	if maxLen == 1 {
		distinct := distinctValues(gs.Dice.Remaining)
		if len(distinct) == 2 {
			higher := maxValue(distinct)
			var filtered []Move
			for _, mv := range firsts {
				if d, ok := consumedDie(gs, mv); ok && d == higher {
					filtered = append(filtered, mv)
				}
			}
			return filtered
		}
	}

	return firsts
}

// CanMove reports whether the mover has any die left that can still be
// played, i.e. whether LegalMoves is non-empty.
func CanMove(gs *GameState) bool {
	return len(LegalMoves(gs)) > 0
}
