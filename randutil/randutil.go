// Package randutil provides the small set of secure-random helpers the
// engine's test fixtures need: bounded-length byte slices and bounded
// big.Int values.
package randutil

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Random returns a slice filled with random bytes.
// The slice's length is chosen securely at random between min and max, inclusive.
func Random(min, max uint) ([]byte, error) {
	if min > max {
		return nil, fmt.Errorf("min is greater than max: %d > %d", min, max)
	}

	// Calculate the range (max - min + 1) as a big.Int to avoid overflow issues.
	rangeMax := new(big.Int).SetUint64(uint64(max - min + 1))

	// Generate a secure random number in [0, rangeMax-1].
	nBig, err := rand.Int(rand.Reader, rangeMax)
	if err != nil {
		return nil, fmt.Errorf("generating random slice length: %v", err)
	}

	var (
		// Make the random length fit in the desired [min, max] range.
		n   = min + uint(nBig.Uint64())
		buf = make([]byte, n)
	)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("filling buffer with random bytes: %v", err)
	}

	return buf, nil
}

// Int returns a uniformly random integer in [0, max).
// It is a thin wrapper around crypto/rand.Int, kept here so callers building
// RSA test fixtures don't need to import crypto/rand directly just for this.
func Int(max *big.Int) (*big.Int, error) {
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, fmt.Errorf("generating random integer below %s: %v", max, err)
	}
	return n, nil
}

// IntRange returns a uniformly random integer in [min, max].
func IntRange(min, max *big.Int) (*big.Int, error) {
	if min.Cmp(max) > 0 {
		return nil, fmt.Errorf("min is greater than max: %s > %s", min, max)
	}

	span := new(big.Int).Sub(max, min)
	span.Add(span, big.NewInt(1))

	n, err := Int(span)
	if err != nil {
		return nil, err
	}
	return n.Add(n, min), nil
}
