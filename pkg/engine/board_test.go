package engine

import "testing"

func TestStartingBoardChecksumsTo15(t *testing.T) {
	gs := NewGame(0)
	for _, side := range []Side{Gold, Red} {
		if got := gs.checkersOf(side); got != 15 {
			t.Errorf("checkersOf(%s) = %d, want 15", side, got)
		}
	}
}

func TestStartingBoardLayout(t *testing.T) {
	b := StartingBoard()
	want := map[int]Point{
		0:  {Gold, 2},
		5:  {Red, 5},
		7:  {Red, 3},
		11: {Gold, 5},
		12: {Red, 5},
		16: {Gold, 3},
		18: {Gold, 5},
		23: {Red, 2},
	}
	for idx, p := range b {
		if exp, ok := want[idx]; ok {
			if p != exp {
				t.Errorf("point %d = %+v, want %+v", idx, p, exp)
			}
		} else if !p.Empty() {
			t.Errorf("point %d = %+v, want empty", idx, p)
		}
	}
}

func TestPipCountStartingPosition(t *testing.T) {
	gs := NewGame(0)
	// Standard starting pip count is 167 for each side.
	if got := gs.PipCount(Gold); got != 167 {
		t.Errorf("Gold PipCount = %d, want 167", got)
	}
	if got := gs.PipCount(Red); got != 167 {
		t.Errorf("Red PipCount = %d, want 167", got)
	}
}

func TestCloneIsIndependentCopy(t *testing.T) {
	gs := NewGame(0)
	gs.Dice = RollDice(&[2]int{3, 1})

	cp := gs.Clone()
	if cp == gs {
		t.Fatal("Clone returned the same pointer")
	}
	if !cp.Equal(gs) {
		t.Fatal("Clone is not structurally equal to the original")
	}

	cp.Board[0] = Point{}
	cp.Dice.Remaining = cp.Dice.Remaining[:1]
	if gs.Board[0].Empty() {
		t.Error("mutating the clone's board affected the original")
	}
	if len(gs.Dice.Remaining) != 2 {
		t.Error("mutating the clone's dice affected the original")
	}
}
