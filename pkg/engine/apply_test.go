package engine

import "testing"

func TestApplyDoesNotMutateInput(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Dice = &Dice{Die1: 3, Die2: 1, Remaining: []int{3, 1}}
	before := gs.Clone()

	if _, err := Apply(gs, Move{From: Pt(0), To: Pt(3)}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !gs.Equal(before) {
		t.Fatal("Apply mutated its input state")
	}
}

func TestApplyHitSendsBlotToBar(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Board[0] = Point{Owner: Gold, Count: 2}
	gs.Board[4] = Point{Owner: Red, Count: 1}
	gs.Dice = &Dice{Die1: 4, Die2: 1, Remaining: []int{4, 1}}

	ns, err := Apply(gs, Move{From: Pt(0), To: Pt(4)})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if ns.Board[4] != (Point{Owner: Gold, Count: 1}) {
		t.Errorf("point 4 = %+v, want one gold checker", ns.Board[4])
	}
	if ns.Bar[Red] != 1 {
		t.Errorf("Bar[Red] = %d, want 1", ns.Bar[Red])
	}
	if len(ns.Dice.Remaining) != 1 || ns.Dice.Remaining[0] != 1 {
		t.Errorf("Remaining = %v, want [1]", ns.Dice.Remaining)
	}
}

func TestApplyRejectsDieNotAvailable(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Dice = &Dice{Die1: 3, Die2: 1, Remaining: []int{3, 1}}

	if _, err := Apply(gs, Move{From: Pt(0), To: Pt(5)}); err != ErrIllegalMove {
		t.Errorf("err = %v, want ErrIllegalMove", err)
	}
}

func TestApplyPreservesCheckerCount(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Dice = &Dice{Die1: 3, Die2: 1, Remaining: []int{3, 1}}

	ns, err := Apply(gs, Move{From: Pt(0), To: Pt(3)})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	for _, side := range []Side{Gold, Red} {
		if got := ns.checkersOf(side); got != 15 {
			t.Errorf("checkersOf(%s) = %d, want 15", side, got)
		}
	}
}

func TestApplyBearOffIncrementsBorneOff(t *testing.T) {
	gs := NewGame(0)
	gs.Phase = PhaseMoving
	gs.ToMove = Gold
	gs.Board = Board{}
	gs.Board[23] = Point{Owner: Gold, Count: 1}
	gs.Dice = &Dice{Die1: 1, Die2: 2, Remaining: []int{1, 2}}

	ns, err := Apply(gs, Move{From: Pt(23), To: EndOff})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if ns.BorneOff[Gold] != 1 {
		t.Errorf("BorneOff[Gold] = %d, want 1", ns.BorneOff[Gold])
	}
	if !ns.Board[23].Empty() {
		t.Error("point 23 should be empty after bearing off its only checker")
	}
}
