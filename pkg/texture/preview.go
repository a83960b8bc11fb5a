package texture

import (
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// EncodeWebP writes img as a lossless WebP image.
func EncodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// EncodePNG writes img as a PNG image.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
