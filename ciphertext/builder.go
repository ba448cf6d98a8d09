// Package ciphertext implements the query builder the Bleichenbacher engine
// uses to turn a candidate multiplier into the fixed-width byte string an
// Oracle expects: prepare the next c = c0 * s^e mod n (or c0 * s mod n, for
// an oracle that speaks plaintext directly) and serialize it as exactly k
// big-endian bytes.
package ciphertext

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDoesNotFit is returned when an integer can't be serialized into the
// requested number of bytes.
var ErrDoesNotFit = errors.New("ciphertext: value does not fit in the requested width")

// Builder prepares oracle queries against a fixed RSA modulus/exponent and
// block size. It is stateless beyond those three values and the oracle mode
// chosen at construction: every call to
// Prepare or PrepareRaw is independent and side-effect free.
type Builder struct {
	n, e *big.Int
	k    int

	// plaintextOracle selects how Prepare combines a base value with a
	// multiplier: raised through the public exponent (a real ciphertext
	// oracle) or applied directly (a plaintext oracle used for testing).
	plaintextOracle bool
}

// New returns a Builder for the given modulus, public exponent and block
// size. plaintextOracle mirrors Oracle.IsPlaintextOracle: when true, Prepare
// multiplies by s directly instead of by s^e mod n.
func New(n, e *big.Int, k int, plaintextOracle bool) *Builder {
	return &Builder{n: n, e: e, k: k, plaintextOracle: plaintextOracle}
}

// Prepare computes the next query for base value m and multiplier s, and
// serializes it as exactly k big-endian bytes.
//
// Against a ciphertext oracle it computes t = m * (s^e mod n) mod n, so that
// interpreting the result as an integer again recovers exactly that value,
// the ciphertext whose underlying plaintext is m's plaintext times s mod n.
// Against a plaintext oracle it computes t = m * s mod n directly.
func (b *Builder) Prepare(m, s *big.Int) ([]byte, error) {
	t := new(big.Int)
	if b.plaintextOracle {
		t.Mul(m, s)
	} else {
		multiplier := new(big.Int).Exp(s, b.e, b.n)
		t.Mul(m, multiplier)
	}
	t.Mod(t, b.n)

	return b.serialize(t)
}

// PrepareRaw serializes v mod n as exactly k big-endian bytes, without any
// multiplication. It's used to re-derive the byte representation of a value
// the engine already holds as an integer, e.g. the blinded ciphertext c0.
func (b *Builder) PrepareRaw(v *big.Int) ([]byte, error) {
	t := new(big.Int).Mod(v, b.n)
	return b.serialize(t)
}

func (b *Builder) serialize(v *big.Int) ([]byte, error) {
	if v.BitLen() > b.k*8 {
		return nil, fmt.Errorf("%w: %d bytes requested, value needs %d bits", ErrDoesNotFit, b.k, v.BitLen())
	}

	buf := make([]byte, b.k)
	v.FillBytes(buf)
	return buf, nil
}
