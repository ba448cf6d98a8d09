package oracle

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/paddingoracle/bleichenbacher/pkcs1"
)

// PrivateKey is the minimal RSA private key material the CiphertextOracle
// needs to decrypt a query: modulus, public exponent and private exponent.
// It deliberately doesn't pull in crypto/rsa.PrivateKey because that type's
// GenerateKey refuses to produce the small (<1024 bit) keys this package's
// test scenarios use.
type PrivateKey struct {
	N, E, D *big.Int
}

// GenerateKey builds an RSA key pair with an n of approximately bits bits,
// generated the way textbook RSA key generation always is: pick two random
// primes, form n = p*q, and invert e modulo (p-1)(q-1). It favors clarity
// over the CRT-optimized path crypto/rsa uses internally.
func GenerateKey(bits int) (*PrivateKey, error) {
	if bits < 16 {
		return nil, fmt.Errorf("oracle: key size must be at least 16 bits, got %d", bits)
	}

	e := big.NewInt(65537)
	for {
		p, err := rand.Prime(rand.Reader, bits/2)
		if err != nil {
			return nil, fmt.Errorf("generating prime p: %w", err)
		}
		q, err := rand.Prime(rand.Reader, bits-bits/2)
		if err != nil {
			return nil, fmt.Errorf("generating prime q: %w", err)
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)

		pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
		qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
		phi := new(big.Int).Mul(pMinus1, qMinus1)

		if new(big.Int).GCD(nil, nil, e, phi).Cmp(big.NewInt(1)) != 0 {
			continue // e isn't invertible mod phi(n) for this p, q; retry
		}

		d := new(big.Int).ModInverse(e, phi)
		return &PrivateKey{N: n, E: e, D: d}, nil
	}
}

// CiphertextOracle is an Oracle backed by a real RSA private key: it
// decrypts each query and reports whether the result is a conformant
// PKCS#1 v1.5 type-2 encoding.
type CiphertextOracle struct {
	priv *PrivateKey
	k    int

	queries atomic.Uint64
}

// NewCiphertextOracle returns a CiphertextOracle over priv, with a block
// size of k bytes (the byte length of priv.N).
func NewCiphertextOracle(priv *PrivateKey, k int) *CiphertextOracle {
	return &CiphertextOracle{priv: priv, k: k}
}

func (o *CiphertextOracle) PublicKey() (n, e *big.Int) { return o.priv.N, o.priv.E }

func (o *CiphertextOracle) BlockSize() int { return o.k }

func (o *CiphertextOracle) IsPlaintextOracle() bool { return false }

func (o *CiphertextOracle) QueryCount() uint64 { return o.queries.Load() }

func (o *CiphertextOracle) CheckConformant(ctx context.Context, data []byte) (bool, error) {
	o.queries.Add(1)

	select {
	case <-ctx.Done():
		return false, &OracleError{Cause: fmt.Errorf("%w: %s", ErrCancelled, ctx.Err())}
	default:
	}

	c := new(big.Int).SetBytes(data)
	m := new(big.Int).Exp(c, o.priv.D, o.priv.N)

	em := make([]byte, o.k)
	m.FillBytes(em)

	return pkcs1.IsConformant(em), nil
}

// EncryptConformant builds a conformant query for msg: it PKCS#1 v1.5
// type-2 encodes msg and RSA-encrypts the result under the oracle's public
// key. It's the fixture-side equivalent of what a TLS client would send as
// an encrypted pre-master secret.
func (o *CiphertextOracle) EncryptConformant(msg []byte) ([]byte, error) {
	em, err := pkcs1.Encode(msg, o.k)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}

	m := new(big.Int).SetBytes(em)
	c := new(big.Int).Exp(m, o.priv.E, o.priv.N)

	buf := make([]byte, o.k)
	c.FillBytes(buf)
	return buf, nil
}
