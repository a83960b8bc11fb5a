// Package palette quantizes RGB skins to the fixed 256-color palettes used by
// MDL and MD2, and expands indexed skins back to RGBA.
//
// A palette is split into a normal partition and a fullbright partition by a
// 256-bit mask. Fullbright entries are drawn without lighting by the engine,
// so a pixel is only ever matched against the partition it belongs to.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Size is the number of palette entries.
const Size = 256

// ErrSizeMismatch is returned when diffuse and fullbright layers differ in size.
var ErrSizeMismatch = errors.New("diffuse and fullbright layers differ in size")

// Palette is a 256-entry RGB palette with a fullbright mask.
// Bit c of the mask is Fullbright[c>>5] & (1 << (c&31)).
type Palette struct {
	Colors     [Size][3]uint8
	Fullbright [8]uint32
}

// Quake returns the Quake palette, whose last 32 entries are fullbright.
func Quake() Palette {
	return Palette{
		Colors:     quakeColors,
		Fullbright: [8]uint32{0, 0, 0, 0, 0, 0, 0, 0xFFFFFFFF},
	}
}

// Quake2 returns the Quake 2 palette. It has no fullbright entries.
func Quake2() Palette {
	return Palette{Colors: quake2Colors}
}

// FromRGB builds a palette without fullbrights from 768 raw RGB bytes.
func FromRGB(data []byte) (Palette, error) {
	var p Palette
	if len(data) < Size*3 {
		return p, fmt.Errorf("palette needs %d bytes, got %d", Size*3, len(data))
	}
	for i := range p.Colors {
		p.Colors[i] = [3]uint8{data[i*3], data[i*3+1], data[i*3+2]}
	}
	return p, nil
}

// Bytes returns the 768 raw RGB bytes of the palette.
func (p *Palette) Bytes() []byte {
	out := make([]byte, 0, Size*3)
	for _, c := range p.Colors {
		out = append(out, c[0], c[1], c[2])
	}
	return out
}

// IsFullbright reports whether entry c is in the fullbright partition.
func (p *Palette) IsFullbright(c uint8) bool {
	return p.Fullbright[c>>5]&(1<<(c&31)) != 0
}

// HasFullbrights reports whether any entry is fullbright.
func (p *Palette) HasFullbrights() bool {
	for _, m := range p.Fullbright {
		if m != 0 {
			return true
		}
	}
	return false
}

// Nearest returns the entry in the requested partition with the smallest sum
// of absolute channel differences to (r, g, b). Ties go to the lowest index.
// When the partition is empty, Nearest returns 0.
func (p *Palette) Nearest(r, g, b uint8, fullbright bool) uint8 {
	best := -1
	bestDist := 0
	for i := 0; i < Size; i++ {
		if p.IsFullbright(uint8(i)) != fullbright {
			continue
		}
		c := p.Colors[i]
		dist := absDiff(c[0], r) + absDiff(c[1], g) + absDiff(c[2], b)
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if best == -1 {
		return 0
	}
	return uint8(best)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Quantize maps a diffuse layer and an optional fullbright overlay to palette
// indices. A pixel takes the overlay color when any of its RGB channels is
// non-zero and is matched against the fullbright partition; otherwise the
// diffuse color is matched against the normal partition. With a palette that
// has no fullbright entries, overlay pixels map to index 0.
func (p *Palette) Quantize(diffuse, fullbright *image.NRGBA) (*Indexed, error) {
	b := diffuse.Bounds()
	if fullbright != nil && fullbright.Bounds().Size() != b.Size() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, b.Size(), fullbright.Bounds().Size())
	}

	out := NewIndexed(b.Dx(), b.Dy(), *p)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			idx := out.Width*y + x
			if fullbright != nil {
				fb := fullbright.NRGBAAt(fullbright.Rect.Min.X+x, fullbright.Rect.Min.Y+y)
				if fb.R != 0 || fb.G != 0 || fb.B != 0 {
					out.Pix[idx] = p.Nearest(fb.R, fb.G, fb.B, true)
					continue
				}
			}
			c := diffuse.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			out.Pix[idx] = p.Nearest(c.R, c.G, c.B, false)
		}
	}
	return out, nil
}

// Indexed is an 8-bit image together with the palette its indices refer to.
type Indexed struct {
	Width   int
	Height  int
	Pix     []uint8
	Palette Palette
}

// NewIndexed allocates a zero-filled indexed image.
func NewIndexed(width, height int, p Palette) *Indexed {
	return &Indexed{
		Width:   width,
		Height:  height,
		Pix:     make([]uint8, width*height),
		Palette: p,
	}
}

// RGBA expands every pixel to its palette color with full alpha.
func (m *Indexed) RGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, c := range m.Pix {
		rgb := m.Palette.Colors[c]
		img.Pix[i*4+0] = rgb[0]
		img.Pix[i*4+1] = rgb[1]
		img.Pix[i*4+2] = rgb[2]
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

// Split expands the image into a diffuse layer and a fullbright layer.
// Fullbright pixels are black in the diffuse layer and carry their color in
// the fullbright layer; other pixels are the reverse. The fullbright layer is
// nil when no pixel is fullbright.
func (m *Indexed) Split() (diffuse, fullbright *image.NRGBA) {
	rect := image.Rect(0, 0, m.Width, m.Height)
	diffuse = image.NewNRGBA(rect)
	fullbright = image.NewNRGBA(rect)
	hasFullbright := false

	black := color.NRGBA{A: 0xFF}
	for i, c := range m.Pix {
		rgb := m.Palette.Colors[c]
		col := color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}
		x, y := i%m.Width, i/m.Width
		if m.Palette.IsFullbright(c) {
			hasFullbright = true
			diffuse.SetNRGBA(x, y, black)
			fullbright.SetNRGBA(x, y, col)
		} else {
			diffuse.SetNRGBA(x, y, col)
			fullbright.SetNRGBA(x, y, black)
		}
	}
	if !hasFullbright {
		return diffuse, nil
	}
	return diffuse, fullbright
}
