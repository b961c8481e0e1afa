package engine

import "testing"

func TestRollOpeningTieRerolls(t *testing.T) {
	gs := NewGame(0)
	g, r := 4, 4
	ns, res := RollOpening(gs, &g, &r)
	if !res.Tied {
		t.Fatal("expected a tie for equal dice")
	}
	if ns.Phase != PhaseOpeningRoll {
		t.Errorf("Phase = %v, want still OPENING_ROLL after a tie", ns.Phase)
	}
}

func TestRollOpeningHigherRollerMovesFirst(t *testing.T) {
	gs := NewGame(0)
	g, r := 5, 2
	ns, res := RollOpening(gs, &g, &r)
	if res.Tied {
		t.Fatal("did not expect a tie")
	}
	if res.FirstMover != Gold {
		t.Errorf("FirstMover = %v, want Gold", res.FirstMover)
	}
	if ns.ToMove != Gold {
		t.Errorf("ToMove = %v, want Gold", ns.ToMove)
	}
	if ns.Phase != PhaseMoving {
		t.Errorf("Phase = %v, want MOVING", ns.Phase)
	}
	if ns.Dice.Die1 != 5 || ns.Dice.Die2 != 2 {
		t.Errorf("Dice = %+v, want the opening pair carried over", ns.Dice)
	}
}

func TestRollDiceNoLegalMoveAutoEndsTurn(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseRolling
	gs.ToMove = Gold
	gs.Bar[Gold] = 1
	gs.Board = Board{}
	for i := 0; i < 6; i++ {
		gs.Board[i] = Point{Owner: Red, Count: 2}
	}

	ns, rolled, err := RollTurnDice(gs, &[2]int{3, 4})
	if err != nil {
		t.Fatalf("RollTurnDice returned error: %v", err)
	}
	if rolled.Die1 != 3 || rolled.Die2 != 4 {
		t.Errorf("RolledDice = %+v, want {3 4}", rolled)
	}
	if ns.Phase != PhaseRolling {
		t.Errorf("Phase = %v, want ROLLING (auto-ended)", ns.Phase)
	}
	if ns.ToMove != Red {
		t.Errorf("ToMove = %v, want Red after auto end-turn", ns.ToMove)
	}
	if ns.Dice != nil {
		t.Errorf("Dice = %+v, want nil after end-turn", ns.Dice)
	}
}

func TestMakeMoveGammonClassification(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Board[23] = Point{Owner: Gold, Count: 1}
	gs.BorneOff[Gold] = 14
	// Red has borne off nothing, no bar checkers, and nothing in Gold's
	// home board (18-23) other than Gold's own checker.
	gs.Board[6] = Point{Owner: Red, Count: 15}
	gs.Dice = &Dice{Die1: 1, Die2: 2, Remaining: []int{1, 2}}

	ns, err := MakeMove(gs, Move{From: Pt(23), To: EndOff})
	if err != nil {
		t.Fatalf("MakeMove returned error: %v", err)
	}
	if ns.Phase != PhaseGameOver {
		t.Fatalf("Phase = %v, want GAME_OVER", ns.Phase)
	}
	if ns.Winner == nil || *ns.Winner != Gold {
		t.Fatalf("Winner = %v, want Gold", ns.Winner)
	}
	if ns.WinType == nil || *ns.WinType != WinGammon {
		t.Fatalf("WinType = %v, want WinGammon", ns.WinType)
	}
	if got := PointsWon(*ns.WinType, ns.Cube.Value); got != 2 {
		t.Errorf("PointsWon = %d, want 2", got)
	}
}

func TestMakeMoveBackgammonClassificationViaBar(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Board[23] = Point{Owner: Gold, Count: 1}
	gs.BorneOff[Gold] = 14
	gs.Bar[Red] = 1
	gs.Board[6] = Point{Owner: Red, Count: 14}
	gs.Dice = &Dice{Die1: 1, Die2: 2, Remaining: []int{1, 2}}

	ns, err := MakeMove(gs, Move{From: Pt(23), To: EndOff})
	if err != nil {
		t.Fatalf("MakeMove returned error: %v", err)
	}
	if ns.WinType == nil || *ns.WinType != WinBackgammon {
		t.Fatalf("WinType = %v, want WinBackgammon", ns.WinType)
	}
	if got := PointsWon(*ns.WinType, ns.Cube.Value); got != 3 {
		t.Errorf("PointsWon = %d, want 3", got)
	}
}

func TestMakeMoveBackgammonClassificationViaWinnersHomeBoard(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Board[23] = Point{Owner: Gold, Count: 1}
	gs.BorneOff[Gold] = 14
	gs.Board[19] = Point{Owner: Red, Count: 1} // sits in Gold's home board (18-23)
	gs.Board[6] = Point{Owner: Red, Count: 14}
	gs.Dice = &Dice{Die1: 1, Die2: 2, Remaining: []int{1, 2}}

	ns, err := MakeMove(gs, Move{From: Pt(23), To: EndOff})
	if err != nil {
		t.Fatalf("MakeMove returned error: %v", err)
	}
	if ns.WinType == nil || *ns.WinType != WinBackgammon {
		t.Fatalf("WinType = %v, want WinBackgammon", ns.WinType)
	}
}

func TestMakeMoveSingleClassification(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Board[23] = Point{Owner: Gold, Count: 1}
	gs.BorneOff[Gold] = 14
	gs.BorneOff[Red] = 3
	gs.Board[6] = Point{Owner: Red, Count: 12}
	gs.Dice = &Dice{Die1: 1, Die2: 2, Remaining: []int{1, 2}}

	ns, err := MakeMove(gs, Move{From: Pt(23), To: EndOff})
	if err != nil {
		t.Fatalf("MakeMove returned error: %v", err)
	}
	if ns.WinType == nil || *ns.WinType != WinSingle {
		t.Fatalf("WinType = %v, want WinSingle", ns.WinType)
	}
	if got := PointsWon(*ns.WinType, ns.Cube.Value); got != 1 {
		t.Errorf("PointsWon = %d, want 1", got)
	}
}

func TestEndTurnRejectedWhileMovesRemain(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Dice = &Dice{Die1: 3, Die2: 1, Remaining: []int{3, 1}}

	if _, err := EndTurn(gs); err != ErrWrongPhase {
		t.Errorf("err = %v, want ErrWrongPhase while CanMove is true", err)
	}
}

func TestEndTurnAdvancesToMoverAndClearsDice(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Dice = &Dice{Die1: 3, Die2: 1, Remaining: []int{}}

	ns, err := EndTurn(gs)
	if err != nil {
		t.Fatalf("EndTurn returned error: %v", err)
	}
	if ns.ToMove != Red {
		t.Errorf("ToMove = %v, want Red", ns.ToMove)
	}
	if ns.Phase != PhaseRolling {
		t.Errorf("Phase = %v, want ROLLING", ns.Phase)
	}
	if ns.Dice != nil {
		t.Error("expected Dice to be cleared")
	}
}
