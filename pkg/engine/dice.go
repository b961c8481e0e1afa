package engine

import (
	"crypto/rand"
	"math/big"
)

// Dice is the pair of face values rolled for a turn plus the multiset of
// die values still available to be consumed. Doubles quadruple
// Remaining; everything else produces exactly two entries.
type Dice struct {
	Die1, Die2 int
	Remaining  []int
}

// rollDie draws a single uniform value in [1, 6] from a cryptographically
// acceptable source.
func rollDie() int {
	n, err := rand.Int(rand.Reader, big.NewInt(6))
	if err != nil {
		// crypto/rand failing is not something callers can usefully
		// recover from; fall back to the middle of the range rather
		// than propagate an error through every dice-consuming call.
		return 4
	}
	return int(n.Int64()) + 1
}

// RollDice produces a new Dice, optionally forcing the pair rather than
// drawing from the PRNG. The forced-pair seam exists for deterministic
// tests.
func RollDice(forced *[2]int) *Dice {
	var d1, d2 int
	if forced != nil {
		d1, d2 = forced[0], forced[1]
	} else {
		d1, d2 = rollDie(), rollDie()
	}

	d := &Dice{Die1: d1, Die2: d2}
	if d1 == d2 {
		d.Remaining = []int{d1, d1, d1, d1}
	} else {
		d.Remaining = []int{d1, d2}
	}
	return d
}

// clone returns a deep copy of d, or nil if d is nil.
func (d *Dice) clone() *Dice {
	if d == nil {
		return nil
	}
	cp := &Dice{Die1: d.Die1, Die2: d.Die2}
	cp.Remaining = append([]int(nil), d.Remaining...)
	return cp
}

// distinctValues returns the set of distinct die values in vs, in
// ascending order.
func distinctValues(vs []int) []int {
	seen := make(map[int]bool, len(vs))
	var out []int
	for _, v := range vs {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// maxValue returns the largest value in vs, or 0 if vs is empty.
func maxValue(vs []int) int {
	m := 0
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

// removeOne returns vs with a single occurrence of v removed.
func removeOne(vs []int, v int) []int {
	out := make([]int, 0, len(vs))
	removed := false
	for _, x := range vs {
		if !removed && x == v {
			removed = true
			continue
		}
		out = append(out, x)
	}
	return out
}
