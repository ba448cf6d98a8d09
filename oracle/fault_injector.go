package oracle

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrInjectedFailure is the cause wrapped by the *OracleError a
// FaultInjector raises once its query budget (FailAfter) is exhausted.
var ErrInjectedFailure = errors.New("oracle: injected failure")

// FaultInjector wraps an Oracle to simulate the two failure modes an
// external oracle can exhibit mid-attack: an outright query failure, and a
// cancellation signal tripped once a query budget is spent. It's the same
// decorator shape as Go's http.RoundTripper wrapping: it forwards every
// call to the embedded Oracle and only intervenes around the edges.
//
// FaultInjector keeps its own query count, counting a call even when it's
// intercepted before reaching the embedded Oracle, so QueryCount reflects
// every query the engine issued, not just the ones that were forwarded.
type FaultInjector struct {
	Oracle

	// FailAfter, if non-zero, makes the FailAfter-th call (1-indexed)
	// return an *OracleError instead of forwarding to the embedded Oracle.
	FailAfter uint64

	// CancelAfter, if non-zero, invokes Cancel once the CancelAfter-th call
	// completes.
	CancelAfter uint64
	Cancel      context.CancelFunc

	queries atomic.Uint64
}

func (f *FaultInjector) QueryCount() uint64 { return f.queries.Load() }

func (f *FaultInjector) CheckConformant(ctx context.Context, data []byte) (bool, error) {
	count := f.queries.Add(1)

	defer func() {
		if f.CancelAfter != 0 && count == f.CancelAfter && f.Cancel != nil {
			f.Cancel()
		}
	}()

	if f.FailAfter != 0 && count == f.FailAfter {
		return false, &OracleError{Cause: ErrInjectedFailure}
	}

	return f.Oracle.CheckConformant(ctx, data)
}
