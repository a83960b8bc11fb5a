package encoding

import (
	"bytes"
	"testing"
)

func TestFixedString(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"null padded", []byte("stand1\x00\x00\x00\x00"), "stand1"},
		{"full field", []byte("run12345"), "run12345"},
		{"garbage after null", []byte("pain\x00xyz"), "pain"},
		{"latin1", []byte{'c', 0xE9, 0}, "cé"},
		{"empty", []byte{0, 0, 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixedString(tt.data); got != tt.want {
				t.Errorf("FixedString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPutFixedString(t *testing.T) {
	got := PutFixedString("frame", 8)
	want := []byte("frame\x00\x00\x00")
	if !bytes.Equal(got, want) {
		t.Errorf("PutFixedString() = %q, want %q", got, want)
	}

	// Truncates without a terminator when the name is too long.
	got = PutFixedString("abcdefghij", 4)
	if !bytes.Equal(got, []byte("abcd")) {
		t.Errorf("PutFixedString() truncation = %q", got)
	}

	if rt := FixedString(PutFixedString("café", 16)); rt != "café" {
		t.Errorf("round trip = %q", rt)
	}
}

func TestTrimNullBytes(t *testing.T) {
	if got := TrimNullBytes([]byte("ab\x00\x00")); !bytes.Equal(got, []byte("ab")) {
		t.Errorf("TrimNullBytes() = %q", got)
	}
}
