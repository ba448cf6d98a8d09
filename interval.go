package bleichenbacher

import (
	"math/big"

	"github.com/paddingoracle/bleichenbacher/internal/bbmath"
)

// Interval is a closed integer range [Lo, Hi], Lo <= Hi, both within
// [2B, 3B-1] for the attack's modulus. The engine never stores an empty
// interval; a narrowing step that would produce one drops it instead.
type Interval struct {
	Lo, Hi *big.Int
}

// contains reports whether v lies within the interval, inclusive.
func (iv Interval) contains(v *big.Int) bool {
	return v.Cmp(iv.Lo) >= 0 && v.Cmp(iv.Hi) <= 0
}

// isSingleton reports whether the interval holds exactly one integer.
func (iv Interval) isSingleton() bool {
	return iv.Lo.Cmp(iv.Hi) == 0
}

// narrow implements step 3: given the current interval set M, the
// modulus n, exponent-side constant twoB/threeBminus1, and the just-found
// conformant multiplier s, it produces M's successor.
//
// For each source interval [a, b], r ranges over
//
//	r_lo = floor((a*s - (3B-1)) / n)
//	r_hi = ceil((b*s - 2B) / n)
//
// and for each r in [r_lo, r_hi]:
//
//	new_lo = max(a, ceil((2B + r*n) / s))
//	new_hi = min(b, floor((3B-1 + r*n) / s))
//
// Intervals with new_lo > new_hi are dropped. The result is never merged;
// overlapping output intervals from different (interval, r) pairs are
// legal and left as-is per the spec's narrowing rule.
func narrow(m []Interval, n, s, twoB, threeBminus1 *big.Int) []Interval {
	var next []Interval

	for _, iv := range m {
		rLoNum := new(big.Int).Mul(iv.Lo, s)
		rLoNum.Sub(rLoNum, threeBminus1)
		rLo := bbmath.FloorDiv(rLoNum, n)

		rHiNum := new(big.Int).Mul(iv.Hi, s)
		rHiNum.Sub(rHiNum, twoB)
		rHi := bbmath.CeilDiv(rHiNum, n)

		for r := new(big.Int).Set(rLo); r.Cmp(rHi) <= 0; r.Add(r, big.NewInt(1)) {
			rn := new(big.Int).Mul(r, n)

			loNum := new(big.Int).Add(twoB, rn)
			newLo := bbmath.CeilDiv(loNum, s)
			newLo = bbmath.Max(iv.Lo, newLo)

			hiNum := new(big.Int).Add(threeBminus1, rn)
			newHi := bbmath.FloorDiv(hiNum, s)
			newHi = bbmath.Min(iv.Hi, newHi)

			if newLo.Cmp(newHi) <= 0 {
				next = append(next, Interval{Lo: newLo, Hi: newHi})
			}
		}
	}

	return next
}
