package texture

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Resize scales img to w x h with a Catmull-Rom filter.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	if img.Rect.Dx() == w && img.Rect.Dy() == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Pad grows img to w x h by repeating its last column and row.
func Pad(img *image.NRGBA, w, h int) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot pad an empty image")
	}
	if w < b.Dx() || h < b.Dy() {
		return nil, fmt.Errorf("cannot pad %dx%d image to %dx%d", b.Dx(), b.Dy(), w, h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := min(y, b.Dy()-1)
		for x := 0; x < w; x++ {
			sx := min(x, b.Dx()-1)
			dst.SetNRGBA(x, y, img.NRGBAAt(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst, nil
}
