package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/aliasconv/pkg/encoding"
	"github.com/Faultbox/aliasconv/pkg/math"
)

// readStruct decodes a little-endian fixed-size value at offset.
func readStruct(data []byte, offset int, v any) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("%w: %T has no fixed size", ErrCorrupt, v)
	}
	if offset < 0 || offset > len(data) || size > len(data)-offset {
		return fmt.Errorf("%w: %d bytes at offset %d, have %d", ErrTruncated, size, offset, len(data))
	}
	return binary.Read(bytes.NewReader(data[offset:offset+size]), binary.LittleEndian, v)
}

// section decodes count consecutive records of type T at offset. The size is
// checked against the input before anything is allocated.
func section[T any](data []byte, offset, count int) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrCorrupt, count)
	}
	if offset < 0 || offset > len(data) || count > (len(data)-offset)/max(size, 1) {
		return nil, fmt.Errorf("%w: %d records of %d bytes at offset %d, have %d", ErrTruncated, count, size, offset, len(data))
	}
	out := make([]T, count)
	if count == 0 {
		return out, nil
	}
	if err := binary.Read(bytes.NewReader(data[offset:offset+count*size]), binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

// checkBlock reports ErrTruncated unless count records of size bytes starting
// at offset fit inside data. The arithmetic is done in int64 so that header
// counts cannot overflow it.
func checkBlock(data []byte, offset, count, size int32) error {
	end := int64(offset) + int64(count)*int64(size)
	if offset < 0 || count < 0 || size < 0 || end > int64(len(data)) {
		return fmt.Errorf("%w: %d records of %d bytes at offset %d, have %d", ErrTruncated, count, size, offset, len(data))
	}
	return nil
}

// cursor reads consecutive records from a buffer.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) read(v any) error {
	if err := readStruct(c.data, c.off, v); err != nil {
		return err
	}
	c.off += binary.Size(v)
	return nil
}

// bytes returns the next n raw bytes without copying.
func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.off > len(c.data) || n > len(c.data)-c.off {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, have %d", ErrTruncated, n, c.off, len(c.data))
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func readSection[T any](c *cursor, count int) ([]T, error) {
	out, err := section[T](c.data, c.off, count)
	if err != nil {
		return nil, err
	}
	var zero T
	c.off += count * binary.Size(zero)
	return out, nil
}

// writer accumulates little-endian output.
type writer struct {
	bytes.Buffer
}

// put appends v. Writes to a bytes.Buffer cannot fail, so an error here means
// v has no fixed size, which is a programming error.
func (w *writer) put(v any) {
	if err := binary.Write(&w.Buffer, binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("formats: writing %T: %v", v, err))
	}
}

func name16(s string) (out [16]byte) {
	copy(out[:], encoding.PutFixedString(s, len(out)))
	return out
}

func name32(s string) (out [32]byte) {
	copy(out[:], encoding.PutFixedString(s, len(out)))
	return out
}

func name64(s string) (out [64]byte) {
	copy(out[:], encoding.PutFixedString(s, len(out)))
	return out
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
