// Package encoding provides text encoding utilities for the fixed-length name fields
// found in alias model headers.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts Windows-1252 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Latin1ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 converts a UTF-8 string to Windows-1252 bytes.
// Characters with no Windows-1252 form are replaced by '?'.
func UTF8ToLatin1(s string) []byte {
	enc := charmap.Windows1252.NewEncoder()
	result, _, err := transform.Bytes(enc, []byte(s))
	if err == nil {
		return result
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// FixedString converts a null-padded name field to UTF-8. The field is not
// required to contain a terminator when the name fills it completely.
func FixedString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return Latin1ToUTF8(data)
}

// PutFixedString encodes s into a null-padded field of the given size,
// truncating names that do not fit.
func PutFixedString(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UTF8ToLatin1(s))
	return result
}
