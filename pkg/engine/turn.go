package engine

import "errors"

var (
	ErrWrongPhase = errors.New("engine: action not allowed in current phase")
	ErrNoWinner   = errors.New("engine: no winner to classify")
)

// CheckWinner reports the winning side once one side has borne off all
// 15 checkers, or (_, false) otherwise.
func CheckWinner(gs *GameState) (Side, bool) {
	if gs.BorneOff[Gold] == 15 {
		return Gold, true
	}
	if gs.BorneOff[Red] == 15 {
		return Red, true
	}
	return 0, false
}

// classifyWin determines the win type for winner against the state as it
// stood the instant the winner bore off their last checker.
func classifyWin(gs *GameState, winner Side) WinType {
	loser := winner.Opponent()
	if gs.BorneOff[loser] > 0 {
		return WinSingle
	}
	if gs.Bar[loser] > 0 {
		return WinBackgammon
	}
	for idx, p := range gs.Board {
		if p.Empty() || p.Owner != loser {
			continue
		}
		if inHomeRange(winner, idx) {
			return WinBackgammon
		}
	}
	return WinGammon
}

// PointsWon returns multiplier(winType) * cubeValue.
func PointsWon(w WinType, cubeValue int) int {
	return w.Multiplier() * cubeValue
}

// finishIfWon transitions gs to GAME_OVER when a side has borne off all
// checkers, classifying the win type. MakeMove calls it after every
// applied move.
func finishIfWon(gs *GameState) {
	winner, ok := CheckWinner(gs)
	if !ok {
		return
	}
	wt := classifyWin(gs, winner)
	gs.Phase = PhaseGameOver
	gs.Winner = &winner
	gs.WinType = &wt
}

// endTurn advances to the next player's turn: clears dice, flips the
// mover, and resets to ROLLING. Callers must already
// have determined there is no winner for this turn's final state.
func endTurn(gs *GameState) {
	gs.ToMove = gs.ToMove.Opponent()
	gs.Phase = PhaseRolling
	gs.Dice = nil
}

// RollOpeningResult reports the outcome of an opening-roll attempt.
type RollOpeningResult struct {
	GoldDie, RedDie int
	Tied            bool
	FirstMover      Side // valid only if !Tied
}

// RollOpening resolves the OPENING_ROLL phase: each side rolls a single
// die; a tie rerolls, otherwise the higher roller moves first using that
// pair as their first turn's dice. forcedGold and
// forcedRed optionally force the two single-die values for tests.
func RollOpening(gs *GameState, forcedGold, forcedRed *int) (*GameState, RollOpeningResult) {
	goldDie := rollDie()
	if forcedGold != nil {
		goldDie = *forcedGold
	}
	redDie := rollDie()
	if forcedRed != nil {
		redDie = *forcedRed
	}

	res := RollOpeningResult{GoldDie: goldDie, RedDie: redDie}
	if goldDie == redDie {
		res.Tied = true
		return gs.Clone(), res
	}

	ns := gs.Clone()
	if goldDie > redDie {
		res.FirstMover = Gold
	} else {
		res.FirstMover = Red
	}
	ns.ToMove = res.FirstMover
	ns.Dice = &Dice{Die1: goldDie, Die2: redDie, Remaining: []int{goldDie, redDie}}
	ns.Phase = PhaseMoving

	if !CanMove(ns) {
		endTurn(ns)
	}
	return ns, res
}

// RollTurnDice rolls the dice for the player on move and transitions to
// MOVING, or — if no legal move exists with the roll — auto-ends the
// turn and stays in ROLLING for the next player.
// forced optionally forces the pair for tests. The returned RolledDice
// reports which pair was rolled even when the turn auto-ends and the
// returned state's Dice is nil.
func RollTurnDice(gs *GameState, forced *[2]int) (*GameState, RolledDice, error) {
	if gs.Phase != PhaseRolling {
		return nil, RolledDice{}, ErrWrongPhase
	}
	ns := gs.Clone()
	d := RollDice(forced)
	ns.Dice = d
	rolled := RolledDice{Die1: d.Die1, Die2: d.Die2}

	if CanMove(ns) {
		ns.Phase = PhaseMoving
	} else {
		endTurn(ns)
	}
	return ns, rolled, nil
}

// RolledDice reports the face values produced by RollTurnDice, kept
// available to callers even when the turn auto-ends and GameState.Dice
// is cleared.
type RolledDice struct {
	Die1, Die2 int
}

// MakeMove applies m, the caller having already validated that m is a
// member of ConstrainedMoves(gs). It transitions to GAME_OVER if the
// mover has borne off every checker, back to ROLLING if no further die
// can be played, or stays in MOVING otherwise.
func MakeMove(gs *GameState, m Move) (*GameState, error) {
	if gs.Phase != PhaseMoving {
		return nil, ErrWrongPhase
	}
	ns, err := Apply(gs, m)
	if err != nil {
		return nil, err
	}

	if _, won := CheckWinner(ns); won {
		finishIfWon(ns)
		return ns, nil
	}
	if !CanMove(ns) {
		endTurn(ns)
	}
	return ns, nil
}

// EndTurn advances the turn when the mover has no playable dice left.
// It returns ErrWrongPhase outside MOVING or while CanMove(gs) is
// still true.
func EndTurn(gs *GameState) (*GameState, error) {
	if gs.Phase != PhaseMoving {
		return nil, ErrWrongPhase
	}
	if CanMove(gs) {
		return nil, ErrWrongPhase
	}
	ns := gs.Clone()
	endTurn(ns)
	return ns, nil
}
