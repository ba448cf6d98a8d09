package bleichenbacher

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors identifying the engine's fatal failure modes. Use
// errors.Is against these, or errors.As against CancelledError and
// MaxQueriesExceededError for the ones that carry partial state.
var (
	// ErrNoCandidates means step 3 narrowed an interval set to empty. This
	// is fatal and indicates an oracle that answered inconsistently, a
	// wrong target ciphertext, or a modulus/exponent mismatch.
	ErrNoCandidates = errors.New("bleichenbacher: interval narrowing produced no candidates")

	// ErrNotInvertible means s0 shares a factor with n, so s0^-1 mod n
	// does not exist. Near-impossible against a real RSA modulus.
	ErrNotInvertible = errors.New("bleichenbacher: blinding factor is not invertible mod n")

	// ErrInputTooLarge means the initial ciphertext is >= n, or the given
	// block size is inconsistent with n's bit length.
	ErrInputTooLarge = errors.New("bleichenbacher: ciphertext or block size too large for modulus")
)

// OracleError wraps a failure raised by the oracle itself (I/O, protocol).
// The engine's state remains valid after one and Run may be invoked again,
// but Run starts the attack over from step 1 (blinding, or the msgIsPKCS
// shortcut) with a fresh interval set; it does not resume at the query that
// failed.
type OracleError struct {
	Cause error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("bleichenbacher: oracle query failed: %s", e.Cause)
}

func (e *OracleError) Unwrap() error { return e.Cause }

// MaxQueriesExceededError is returned when WithMaxQueries's budget is spent
// before the engine converges. QueryCount equals the configured maximum.
type MaxQueriesExceededError struct {
	Max        uint64
	Iterations uint64
}

func (e *MaxQueriesExceededError) Error() string {
	return fmt.Sprintf("bleichenbacher: exceeded query budget of %d after %d iterations", e.Max, e.Iterations)
}

// CancelledError is returned when the run's context is cancelled. It
// carries the partial state the caller needs for diagnostics: the
// iteration reached, the multiplier under test, and the current interval
// set, which together still satisfy invariants 2-4 of the search.
type CancelledError struct {
	Cause         error
	Iteration     uint64
	OracleQueries uint64
	SI            *big.Int
	Intervals     []Interval
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("bleichenbacher: cancelled at iteration %d after %d oracle queries: %s",
		e.Iteration, e.OracleQueries, e.Cause)
}

func (e *CancelledError) Unwrap() error { return e.Cause }
