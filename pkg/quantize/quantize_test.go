package quantize

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/aliasconv/pkg/math"
)

func TestSpanMinusTenToTen(t *testing.T) {
	positions := []float32{
		-10, 0, 0,
		10, 0, 0,
		0, 0, 0,
	}
	f := CompressFrame(positions)

	if want := float32(20) / 255; f.Scale.X != want {
		t.Errorf("Scale.X = %v, want %v", f.Scale.X, want)
	}
	if f.Origin.X != -10 {
		t.Errorf("Origin.X = %v, want -10", f.Origin.X)
	}
	if f.Vertices[0][0] != 0 || f.Vertices[1][0] != 255 {
		t.Errorf("extremes encoded as %d and %d", f.Vertices[0][0], f.Vertices[1][0])
	}
	if got := f.Decode([3]uint8{0, 0, 0}).X; got != -10 {
		t.Errorf("decode(0) = %v, want -10", got)
	}
	if got := f.Decode([3]uint8{255, 0, 0}).X; math32.Abs(got-10) > 1e-5 {
		t.Errorf("decode(255) = %v, want 10", got)
	}
}

func TestZeroExtent(t *testing.T) {
	f := CompressFrame([]float32{3, 4, 5, 3, 4, 5})
	if f.Scale != (math.Vec3{}) {
		t.Errorf("Scale = %v, want zero", f.Scale)
	}
	for i, v := range f.Vertices {
		if v != [3]uint8{} {
			t.Errorf("vertex %d = %v, want zero bytes", i, v)
		}
		if got := f.Vertex(i); got != (math.Vec3{X: 3, Y: 4, Z: 5}) {
			t.Errorf("vertex %d decodes to %v", i, got)
		}
	}
}

func TestErrorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for frame := 0; frame < 20; frame++ {
		positions := make([]float32, 3*64)
		for i := range positions {
			positions[i] = rng.Float32()*200 - 100
		}

		f := CompressFrame(positions)
		decoded := f.Decompress()

		for i := range positions {
			axis := i % 3
			half := f.Scale.Index(axis)/2 + 1e-4
			if d := math32.Abs(decoded[i] - positions[i]); d > half {
				t.Fatalf("frame %d value %d: error %f exceeds half scale %f", frame, i, d, half)
			}
		}

		// The tightest grid uses both ends of the byte range on every axis.
		for axis := 0; axis < 3; axis++ {
			lo, hi := uint8(255), uint8(0)
			for _, v := range f.Vertices {
				lo = min(lo, v[axis])
				hi = max(hi, v[axis])
			}
			if lo != 0 || hi != 255 {
				t.Errorf("frame %d axis %d uses range [%d,%d]", frame, axis, lo, hi)
			}
		}
	}
}

func TestGridClamps(t *testing.T) {
	g := NewGrid(math.Vec3{X: 0, Y: 0, Z: 0}, math.Vec3{X: 255, Y: 255, Z: 255})
	got := g.Encode(math.Vec3{X: -50, Y: 300, Z: 127.6})
	want := [3]uint8{0, 255, 128}
	if got != want {
		t.Errorf("Encode = %v, want %v", got, want)
	}
}

func TestBoundsEmpty(t *testing.T) {
	lo, hi := Bounds(nil)
	if lo != (math.Vec3{}) || hi != (math.Vec3{}) {
		t.Errorf("Bounds(nil) = %v %v", lo, hi)
	}
}
