// Package bbmath implements the Euclidean ceil/floor division the
// Bleichenbacher search needs. Every interval bound in the attack is derived
// by composing ceilings and floors of big.Int ratios, and getting the
// rounding direction wrong by even one unit breaks convergence, so this
// package exists to have exactly one, well-tested place that does it.
package bbmath

import "math/big"

// FloorDiv returns floor(x / y) for y > 0, using Euclidean division so the
// result is correct regardless of the sign of x. For y < 0 the Euclidean
// quotient is not the floor, and the result is not floor(x / y).
func FloorDiv(x, y *big.Int) *big.Int {
	q, _ := euclidDivMod(x, y)
	return q
}

// CeilDiv returns ceil(x / y) for y > 0. It's computed as the Euclidean
// floor division plus one whenever there's a non-zero remainder, which is
// correct for any sign of x (not just the non-negative case the naive
// (x+y-1)/y trick requires).
func CeilDiv(x, y *big.Int) *big.Int {
	q, r := euclidDivMod(x, y)
	if r.Sign() != 0 {
		q = new(big.Int).Add(q, big.NewInt(1))
	}
	return q
}

// euclidDivMod returns (q, r) such that x = q*y + r and 0 <= r < |y|.
func euclidDivMod(x, y *big.Int) (q, r *big.Int) {
	q, r = new(big.Int), new(big.Int)
	q.DivMod(x, y, r)
	return q, r
}

// Max returns the larger of a and b.
func Max(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
