// Package hexutil decodes fixed-width hex values such as ciphertexts and
// moduli, and encodes byte strings as hex; the engine uses Encode to render
// prepared queries in its log output.
package hexutil

import (
	"encoding/hex"
	"fmt"
)

// DecodeFixedWidth decodes a hex string and checks that the result is
// exactly width bytes long. It exists because a Bleichenbacher oracle
// query (and the seed ciphertext driving it) must always be exactly the
// RSA modulus' byte length; catching a malformed fixture here, rather than
// deep inside the engine, gives a much clearer error.
func DecodeFixedWidth(h string, width int) ([]byte, error) {
	decoded, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("malformed input hex string: %q", h)
	}
	if len(decoded) != width {
		return nil, fmt.Errorf("decoded value is %d bytes, want %d", len(decoded), width)
	}

	return decoded, nil
}

// Encode returns the hex encoding of b.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}
