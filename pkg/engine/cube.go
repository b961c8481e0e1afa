package engine

// CanOffer reports whether the player on move may offer the doubling
// cube: the phase must be ROLLING, the game must not be Crawford, and
// the cube must be centered or owned by the mover.
func CanOffer(gs *GameState) bool {
	if gs.Phase != PhaseRolling {
		return false
	}
	if gs.Match.Crawford {
		return false
	}
	return gs.Cube.Owner == nil || *gs.Cube.Owner == gs.ToMove
}

// OfferDouble transitions to DOUBLING without otherwise mutating state.
func OfferDouble(gs *GameState) (*GameState, error) {
	if !CanOffer(gs) {
		return nil, ErrWrongPhase
	}
	ns := gs.Clone()
	ns.Phase = PhaseDoubling
	return ns, nil
}

// AcceptDouble doubles the cube value, transfers ownership to the
// opponent of the mover who offered, and returns to ROLLING.
func AcceptDouble(gs *GameState) (*GameState, error) {
	if gs.Phase != PhaseDoubling {
		return nil, ErrWrongPhase
	}
	ns := gs.Clone()
	ns.Cube.Value *= 2
	owner := ns.ToMove.Opponent()
	ns.Cube.Owner = &owner
	ns.Phase = PhaseRolling
	return ns, nil
}

// DeclineDouble ends the game with the mover winning a single at the
// pre-proposal cube value; the cube itself is left unchanged.
func DeclineDouble(gs *GameState) (*GameState, error) {
	if gs.Phase != PhaseDoubling {
		return nil, ErrWrongPhase
	}
	ns := gs.Clone()
	winner := ns.ToMove
	wt := WinSingle
	ns.Phase = PhaseGameOver
	ns.Winner = &winner
	ns.WinType = &wt
	return ns, nil
}
