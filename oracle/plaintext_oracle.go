package oracle

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
)

// PlaintextOracle is an Oracle that checks conformance directly on the
// integer a query represents, without any RSA operation. It exists so the
// engine can be exercised deterministically and cheaply against a trusted
// reference PKCS#1 v1.5 decoder: the plaintext-oracle mode trades away
// realism for test reproducibility.
type PlaintextOracle struct {
	n, e *big.Int
	k    int

	queries atomic.Uint64
}

// NewPlaintextOracle returns a PlaintextOracle over modulus n, exponent e
// and block size k. A query is conformant iff its integer value v satisfies
// 2B <= v <= 3B-1, where B = 2^(8*(k-2)).
func NewPlaintextOracle(n, e *big.Int, k int) *PlaintextOracle {
	return &PlaintextOracle{n: n, e: e, k: k}
}

func (o *PlaintextOracle) PublicKey() (n, e *big.Int) { return o.n, o.e }

func (o *PlaintextOracle) BlockSize() int { return o.k }

func (o *PlaintextOracle) IsPlaintextOracle() bool { return true }

func (o *PlaintextOracle) QueryCount() uint64 { return o.queries.Load() }

func (o *PlaintextOracle) CheckConformant(ctx context.Context, data []byte) (bool, error) {
	o.queries.Add(1)

	select {
	case <-ctx.Done():
		return false, &OracleError{Cause: fmt.Errorf("%w: %s", ErrCancelled, ctx.Err())}
	default:
	}

	v := new(big.Int).SetBytes(data)
	lo, hi := ConformantBounds(o.k)
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0, nil
}

// ConformantBounds returns [2B, 3B-1] for a k-byte block, B = 2^(8*(k-2)).
// It's exported so tests and cmd/bbattack can pick values inside, or at the
// edges of, the window PlaintextOracle accepts without deriving it again.
func ConformantBounds(k int) (lo, hi *big.Int) {
	b := new(big.Int).Lsh(big.NewInt(1), uint(8*(k-2)))

	lo = new(big.Int).Lsh(b, 1)
	hi = new(big.Int).Mul(b, big.NewInt(3))
	hi.Sub(hi, big.NewInt(1))

	return lo, hi
}
