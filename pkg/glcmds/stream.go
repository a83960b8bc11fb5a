package glcmds

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedStream is returned when a command stream cannot be decoded.
var ErrMalformedStream = errors.New("malformed command stream")

// TexelFunc returns the stream texture coordinates of a corner.
type TexelFunc func(c Corner) (s, t float32)

// Vertex is one decoded stream vertex.
type Vertex struct {
	S, T  float32
	Index int
}

// Command is one decoded strip or fan.
type Command struct {
	Fan      bool
	Vertices []Vertex
}

// Triangles returns the command's triangles as position indices.
func (c Command) Triangles() [][3]int {
	idx := make([]int, len(c.Vertices))
	for i, v := range c.Vertices {
		idx[i] = v.Index
	}
	return expand(idx, c.Fan)
}

// Encode serializes runs as a command stream. Each run starts with its vertex
// count, positive for strips and negative for fans, followed by s, t and the
// position index of every vertex. Floats are stored as their IEEE-754 bits.
// The stream ends with a zero count.
func Encode(runs []Run, texel TexelFunc) []int32 {
	out := make([]int32, 0, StreamLength(runs))
	for _, r := range runs {
		n := int32(len(r.Corners))
		if r.Fan {
			n = -n
		}
		out = append(out, n)
		for _, c := range r.Corners {
			s, t := texel(c)
			out = append(out, int32(math.Float32bits(s)), int32(math.Float32bits(t)), int32(c.Vertex))
		}
	}
	return append(out, 0)
}

// StreamLength returns the number of 32-bit words Encode produces.
func StreamLength(runs []Run) int {
	n := 1
	for _, r := range runs {
		n += 1 + 3*len(r.Corners)
	}
	return n
}

// Decode parses a command stream. Words after the terminating zero are ignored.
func Decode(stream []int32) ([]Command, error) {
	var cmds []Command
	pos := 0
	for {
		if pos >= len(stream) {
			return nil, fmt.Errorf("%w: missing terminator", ErrMalformedStream)
		}
		n := stream[pos]
		pos++
		if n == 0 {
			return cmds, nil
		}

		cmd := Command{Fan: n < 0}
		if n < 0 {
			n = -n
		}
		if n < 3 {
			return nil, fmt.Errorf("%w: run of %d vertices", ErrMalformedStream, n)
		}
		if pos+int(n)*3 > len(stream) {
			return nil, fmt.Errorf("%w: truncated run at word %d", ErrMalformedStream, pos-1)
		}

		cmd.Vertices = make([]Vertex, n)
		for i := range cmd.Vertices {
			cmd.Vertices[i] = Vertex{
				S:     math.Float32frombits(uint32(stream[pos])),
				T:     math.Float32frombits(uint32(stream[pos+1])),
				Index: int(stream[pos+2]),
			}
			pos += 3
		}
		cmds = append(cmds, cmd)
	}
}
