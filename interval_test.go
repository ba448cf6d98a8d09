package bleichenbacher

import (
	"math/big"
	"testing"
)

func TestNarrowDropsEmptyIntervals(t *testing.T) {
	var (
		n            = big.NewInt(9999991)
		k            = 3
		b            = new(big.Int).Lsh(big.NewInt(1), uint(8*(k-2)))
		twoB         = new(big.Int).Lsh(b, 1)
		threeBminus1 = new(big.Int).Sub(new(big.Int).Mul(b, big.NewInt(3)), big.NewInt(1))
	)

	m := []Interval{{Lo: twoB, Hi: threeBminus1}}

	// s = 1 maps every interval to itself; narrowing by it must reproduce
	// exactly the starting interval.
	next := narrow(m, n, big.NewInt(1), twoB, threeBminus1)
	if len(next) != 1 {
		t.Fatalf("len(next) = %d, want 1", len(next))
	}
	if next[0].Lo.Cmp(twoB) != 0 || next[0].Hi.Cmp(threeBminus1) != 0 {
		t.Errorf("narrow by s=1 changed the interval: got [%s, %s]", next[0].Lo, next[0].Hi)
	}
}

func TestNarrowPreservesTruePlaintext(t *testing.T) {
	var (
		n            = big.NewInt(9999991)
		k            = 3
		b            = new(big.Int).Lsh(big.NewInt(1), uint(8*(k-2)))
		twoB         = new(big.Int).Lsh(b, 1)
		threeBminus1 = new(big.Int).Sub(new(big.Int).Mul(b, big.NewInt(3)), big.NewInt(1))
		trueM        = big.NewInt(600)
	)

	if !(Interval{Lo: twoB, Hi: threeBminus1}).contains(trueM) {
		t.Fatalf("test setup bug: trueM %s not in [%s, %s]", trueM, twoB, threeBminus1)
	}

	// Brute-force an s that makes trueM's ciphertext conformant, mirroring
	// what step 2 would find via the oracle.
	var s *big.Int
	for cand := big.NewInt(1); ; cand = new(big.Int).Add(cand, big.NewInt(1)) {
		t := new(big.Int).Mul(trueM, cand)
		t.Mod(t, n)
		if t.Cmp(twoB) >= 0 && t.Cmp(threeBminus1) <= 0 {
			s = cand
			break
		}
	}

	before := []Interval{{Lo: twoB, Hi: threeBminus1}}
	after := narrow(before, n, s, twoB, threeBminus1)

	if len(after) == 0 {
		t.Fatal("narrow produced no intervals")
	}

	found := false
	for _, iv := range after {
		if iv.Lo.Cmp(iv.Hi) > 0 {
			t.Errorf("invariant violated: interval [%s, %s] has lo > hi", iv.Lo, iv.Hi)
		}
		if iv.Lo.Cmp(twoB) < 0 || iv.Hi.Cmp(threeBminus1) > 0 {
			t.Errorf("invariant violated: interval [%s, %s] escapes [2B, 3B-1]", iv.Lo, iv.Hi)
		}
		if iv.contains(trueM) {
			found = true
		}
	}
	if !found {
		t.Errorf("true plaintext %s dropped by narrow(); result intervals: %+v", trueM, after)
	}
}

func TestIntervalIsSingleton(t *testing.T) {
	single := Interval{Lo: big.NewInt(5), Hi: big.NewInt(5)}
	if !single.isSingleton() {
		t.Error("want [5,5] to be a singleton")
	}

	wide := Interval{Lo: big.NewInt(5), Hi: big.NewInt(6)}
	if wide.isSingleton() {
		t.Error("want [5,6] not to be a singleton")
	}
}
