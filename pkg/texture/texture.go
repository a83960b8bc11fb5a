// Package texture decodes, resizes and exports the skin images referenced by
// alias models.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrUnknownImageFormat is returned for names with an unsupported extension.
var ErrUnknownImageFormat = errors.New("unknown image format")

// Extensions lists the skin file extensions Decode understands.
var Extensions = []string{".pcx", ".tga", ".bmp", ".png", ".jpg", ".jpeg"}

// Supported reports whether name has an extension Decode understands.
func Supported(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// TGA has no magic number, so codecs are picked by extension rather than
// through image.Decode sniffing.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".tga":  tga.Decode,
	".bmp":  bmp.Decode,
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
}

// Decode decodes an image, choosing the codec from the name's extension.
func Decode(name string, data []byte) (*image.NRGBA, error) {
	ext := strings.ToLower(path.Ext(name))
	if ext == ".pcx" {
		img, err := DecodePCX(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img.RGBA(), nil
	}
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownImageFormat, ext)
	}
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to a zero-origin NRGBA image.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha channel to preserve.
		draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst
}

// Fill returns a w x h image of a single color.
func Fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// Clone returns a zero-origin copy of img that shares no pixel memory.
func Clone(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(dst, dst.Rect, img, img.Rect.Min, draw.Src)
	return dst
}

// ReplaceExt returns name with its extension replaced by ext.
func ReplaceExt(name, ext string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}
