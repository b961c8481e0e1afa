package engine

import "testing"

func TestRollDiceForcedPairNonDouble(t *testing.T) {
	d := RollDice(&[2]int{3, 5})
	if d.Die1 != 3 || d.Die2 != 5 {
		t.Fatalf("Die1/Die2 = %d/%d, want 3/5", d.Die1, d.Die2)
	}
	if len(d.Remaining) != 2 {
		t.Fatalf("len(Remaining) = %d, want 2", len(d.Remaining))
	}
}

func TestRollDiceDoublesExpandToFour(t *testing.T) {
	d := RollDice(&[2]int{3, 3})
	want := []int{3, 3, 3, 3}
	if len(d.Remaining) != len(want) {
		t.Fatalf("len(Remaining) = %d, want %d", len(d.Remaining), len(want))
	}
	for i, v := range want {
		if d.Remaining[i] != v {
			t.Errorf("Remaining[%d] = %d, want %d", i, d.Remaining[i], v)
		}
	}
}

func TestDiceCloneIndependence(t *testing.T) {
	d := RollDice(&[2]int{2, 6})
	cp := d.clone()
	cp.Remaining = append(cp.Remaining, 9)
	if len(d.Remaining) != 2 {
		t.Error("cloning leaked a mutation back to the original")
	}
}

func TestRemoveOneRemovesSingleOccurrence(t *testing.T) {
	got := removeOne([]int{3, 3, 3, 3}, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestDistinctValuesSortedAscending(t *testing.T) {
	got := distinctValues([]int{5, 2, 5, 2, 6})
	want := []int{2, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
