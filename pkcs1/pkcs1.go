// Package pkcs1 implements the PKCS#1 v1.5 type-2 (encryption) encoding used
// by RSA padding-oracle fixtures: EM = 0x00 || 0x02 || PS || 0x00 || M, where
// PS is a run of non-zero random bytes padding EM out to the modulus' byte
// length.
package pkcs1

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrMessageTooLong is returned by Encode when the message doesn't leave
// enough room for the mandatory minimum padding string and separators.
var ErrMessageTooLong = errors.New("pkcs1: message too long for the given block size")

// ErrInvalidEncoding is returned by Decode when the input isn't a
// well-formed PKCS#1 v1.5 type-2 encoded block.
var ErrInvalidEncoding = errors.New("pkcs1: invalid type-2 encoding")

// minPadLen is PKCS#1 v1.5's mandatory minimum padding string length: at
// least 8 bytes, per RFC 8017 §7.2.1.
const minPadLen = 8

// Encode builds a k-byte PKCS#1 v1.5 type-2 encoded block around msg, using
// cryptographically random non-zero padding bytes.
// For instance, encoding "hi" (2 bytes) to a 13 byte block, the smallest
// that fits it, produces: 0x00 0x02 PS 0x00 'h' 'i', where PS is 8 random
// non-zero bytes.
func Encode(msg []byte, k int) ([]byte, error) {
	if len(msg) > k-3-minPadLen {
		return nil, fmt.Errorf("%w: %d bytes, block size %d", ErrMessageTooLong, len(msg), k)
	}

	var (
		padLen = k - 3 - len(msg)
		em     = make([]byte, k)
	)
	em[0] = 0x00
	em[1] = 0x02

	ps, err := NonZeroBytes(padLen)
	if err != nil {
		return nil, fmt.Errorf("generating padding string: %w", err)
	}
	copy(em[2:], ps)

	em[2+padLen] = 0x00
	copy(em[3+padLen:], msg)

	return em, nil
}

// IsConformant reports whether em's leading two bytes are 0x00 0x02, i.e.
// whether the integer em encodes lies in the PKCS#1 v1.5 conformant interval
// [2B, 3B-1] for em's byte length. This is the weak, interval-level check a
// Bleichenbacher oracle performs; it does not validate the rest of the
// structure (see Decode for that).
func IsConformant(em []byte) bool {
	return len(em) >= 2 && em[0] == 0x00 && em[1] == 0x02
}

// Decode validates a full PKCS#1 v1.5 type-2 encoding and returns the
// embedded message. Unlike IsConformant, it checks the padding string has no
// zero bytes, enforces the minimum padding length, and locates the 0x00
// separator.
func Decode(em []byte) ([]byte, error) {
	if !IsConformant(em) {
		return nil, ErrInvalidEncoding
	}

	sepIdx := -1
	for i := 2; i < len(em); i++ {
		if em[i] == 0x00 {
			sepIdx = i
			break
		}
	}
	if sepIdx == -1 || sepIdx-2 < minPadLen {
		return nil, ErrInvalidEncoding
	}

	return em[sepIdx+1:], nil
}

// NonZeroBytes returns n cryptographically random bytes, none of which are
// zero, as required by PKCS#1 v1.5's padding string PS.
func NonZeroBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := 0; i < n; {
		b := make([]byte, n-i)
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}
		for _, v := range b {
			if v == 0 {
				continue
			}
			buf[i] = v
			i++
		}
	}
	return buf, nil
}
