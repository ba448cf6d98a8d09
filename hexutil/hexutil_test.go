package hexutil

import "testing"

func TestDecodeFixedWidth(t *testing.T) {
	const hexStr = "0102030405060708"

	got, err := DecodeFixedWidth(hexStr, 8)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got[0] != 0x01 || got[7] != 0x08 {
		t.Errorf("got: %x", got)
	}
}

func TestDecodeFixedWidthWrongLength(t *testing.T) {
	if _, err := DecodeFixedWidth("0102", 8); err == nil {
		t.Fatal("want an error for a short value, got nil")
	}
}

func TestDecodeFixedWidthMalformed(t *testing.T) {
	if _, err := DecodeFixedWidth("not-hex", 8); err == nil {
		t.Fatal("want an error for malformed hex, got nil")
	}
}

func TestEncode(t *testing.T) {
	got := Encode([]byte{0xde, 0xad, 0xbe, 0xef})
	const want = "deadbeef"
	if got != want {
		t.Errorf("got: %s, want: %s", got, want)
	}
}
