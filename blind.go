package bleichenbacher

import (
	"context"
	"math/big"

	"github.com/paddingoracle/bleichenbacher/hexutil"
)

// blind implements step 1: find the smallest s0 >= 1 such that
// prepare(c, s0) is oracle-conformant, then set c0 to that prepared value
// reinterpreted as an integer.
func (eng *Engine) blind(ctx context.Context) error {
	s := big.NewInt(1)

	for {
		if err := eng.checkCancelled(ctx); err != nil {
			return err
		}
		if err := eng.checkBudget(); err != nil {
			return err
		}

		data, err := eng.builder.Prepare(eng.c, s)
		if err != nil {
			return err
		}

		eng.log.Trace("blinding query", "s", s, "query", hexutil.Encode(data))

		ok, err := eng.oracle.CheckConformant(ctx, data)
		if err != nil {
			return &OracleError{Cause: err}
		}
		if ok {
			eng.s0 = new(big.Int).Set(s)
			eng.c0 = new(big.Int).SetBytes(data)
			return nil
		}

		s = new(big.Int).Add(s, big.NewInt(1))
	}
}
