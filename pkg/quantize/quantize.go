// Package quantize maps continuous vertex positions to the 8-bit-per-axis
// fixed point encoding used by MDL and MD2 frames.
//
// A Grid describes one encoding: byte b on an axis decodes to
// Origin + Scale*b. MD2 derives a Grid per frame from that frame's own bounds;
// MDL uses a single Grid for the whole model.
package quantize

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/aliasconv/pkg/math"
)

// MaxValue is the largest encoded axis value.
const MaxValue = 255

// Grid is a per-axis scale and origin.
type Grid struct {
	Scale  math.Vec3
	Origin math.Vec3
}

// Frame is a quantized set of positions together with its grid.
type Frame struct {
	Grid
	Vertices [][3]uint8
}

// Bounds returns the per-axis minimum and maximum of a flat xyz slice.
// An empty slice yields zero bounds.
func Bounds(positions []float32) (min, max math.Vec3) {
	if len(positions) < 3 {
		return math.Vec3{}, math.Vec3{}
	}
	min = math.V3(positions, 0)
	max = min
	for i := 3; i+2 < len(positions); i += 3 {
		p := math.V3(positions, i)
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// NewGrid returns the tightest grid covering [min, max] on every axis.
func NewGrid(min, max math.Vec3) Grid {
	d := max.Sub(min)
	return Grid{
		Scale:  math.Vec3{X: d.X / MaxValue, Y: d.Y / MaxValue, Z: d.Z / MaxValue},
		Origin: min,
	}
}

// Encode quantizes p to the nearest grid point, clamped to [0,255].
func (g Grid) Encode(p math.Vec3) [3]uint8 {
	return [3]uint8{
		encodeAxis(p.X, g.Origin.X, g.Scale.X),
		encodeAxis(p.Y, g.Origin.Y, g.Scale.Y),
		encodeAxis(p.Z, g.Origin.Z, g.Scale.Z),
	}
}

// Decode returns the position of a grid point.
func (g Grid) Decode(v [3]uint8) math.Vec3 {
	return math.Vec3{
		X: g.Origin.X + g.Scale.X*float32(v[0]),
		Y: g.Origin.Y + g.Scale.Y*float32(v[1]),
		Z: g.Origin.Z + g.Scale.Z*float32(v[2]),
	}
}

func encodeAxis(p, origin, scale float32) uint8 {
	if scale == 0 {
		return 0
	}
	v := math32.Floor((p-origin)/scale + 0.5)
	switch {
	case v < 0:
		return 0
	case v > MaxValue:
		return MaxValue
	}
	return uint8(v)
}

// CompressFrame quantizes one frame of flat xyz positions against its own
// bounds.
func CompressFrame(positions []float32) Frame {
	min, max := Bounds(positions)
	return CompressWithGrid(positions, NewGrid(min, max))
}

// CompressWithGrid quantizes flat xyz positions against a given grid.
func CompressWithGrid(positions []float32, g Grid) Frame {
	f := Frame{Grid: g, Vertices: make([][3]uint8, len(positions)/3)}
	for i := range f.Vertices {
		f.Vertices[i] = g.Encode(math.V3(positions, i*3))
	}
	return f
}

// Vertex decodes vertex i.
func (f Frame) Vertex(i int) math.Vec3 {
	return f.Decode(f.Vertices[i])
}

// Decompress decodes every vertex into a flat xyz slice.
func (f Frame) Decompress() []float32 {
	out := make([]float32, len(f.Vertices)*3)
	for i, v := range f.Vertices {
		f.Decode(v).Put(out, i*3)
	}
	return out
}
