package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/aliasconv/pkg/palette"
)

// PCX format errors.
var (
	ErrInvalidPCXHeader = errors.New("invalid PCX header")
	ErrUnsupportedPCX   = errors.New("unsupported PCX variant")
	ErrTruncatedPCXData = errors.New("truncated PCX data")
)

const (
	pcxHeaderSize    = 128
	pcxManufacturer  = 0x0a
	pcxVersion       = 5
	pcxEncodingRLE   = 1
	pcxPaletteMarker = 0x0c
	pcxRunMask       = 0xc0
	pcxMaxRun        = 0x3f

	// MaxPCXDimension bounds the decoded image size.
	MaxPCXDimension = 4096
)

// pcxHeader mirrors the fields of the 128-byte header that are read or written.
type pcxHeader struct {
	Manufacturer uint8
	Version      uint8
	Encoding     uint8
	BitsPerPixel uint8
	XMin, YMin   uint16
	XMax, YMax   uint16
	HRes, VRes   uint16
	EGAPalette   [48]byte
	Reserved     uint8
	ColorPlanes  uint8
	BytesPerLine uint16
	PaletteType  uint16
	Filler       [58]byte
}

// DecodePCX decodes an 8-bit run-length encoded PCX with a trailing 256-color
// palette.
func DecodePCX(data []byte) (*palette.Indexed, error) {
	if len(data) < pcxHeaderSize+769 {
		return nil, ErrTruncatedPCXData
	}

	var h pcxHeader
	if err := binary.Read(bytes.NewReader(data[:pcxHeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedPCXData, err)
	}

	switch {
	case h.Manufacturer != pcxManufacturer:
		return nil, fmt.Errorf("%w: manufacturer 0x%02x", ErrInvalidPCXHeader, h.Manufacturer)
	case h.Version != pcxVersion:
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedPCX, h.Version)
	case h.Encoding != pcxEncodingRLE:
		return nil, fmt.Errorf("%w: encoding %d", ErrUnsupportedPCX, h.Encoding)
	case h.BitsPerPixel != 8:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedPCX, h.BitsPerPixel)
	case h.ColorPlanes != 1:
		return nil, fmt.Errorf("%w: %d color planes", ErrUnsupportedPCX, h.ColorPlanes)
	case h.XMax < h.XMin || h.YMax < h.YMin:
		return nil, fmt.Errorf("%w: bad extents", ErrInvalidPCXHeader)
	}

	width := int(h.XMax) - int(h.XMin) + 1
	height := int(h.YMax) - int(h.YMin) + 1
	if width > MaxPCXDimension || height > MaxPCXDimension {
		return nil, fmt.Errorf("%w: %dx%d image", ErrUnsupportedPCX, width, height)
	}
	stride := int(h.BytesPerLine)
	if stride < width {
		stride = width
	}

	palStart := len(data) - 768
	if data[palStart-1] != pcxPaletteMarker {
		return nil, fmt.Errorf("%w: missing palette marker", ErrInvalidPCXHeader)
	}
	pal, err := palette.FromRGB(data[palStart:])
	if err != nil {
		return nil, err
	}

	out := palette.NewIndexed(width, height, pal)
	rows, err := unpackRLE(data[pcxHeaderSize:palStart-1], stride, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		copy(out.Pix[y*width:(y+1)*width], rows[y*stride:])
	}
	return out, nil
}

// unpackRLE expands run-length encoded scanlines. A control byte with both
// top bits set holds a run count in its low 6 bits and is followed by the
// value; any other byte is a literal.
func unpackRLE(src []byte, stride, height int) ([]byte, error) {
	out := make([]byte, stride*height)
	pos := 0
	for i := 0; i < len(out); {
		if pos >= len(src) {
			return nil, ErrTruncatedPCXData
		}
		b := src[pos]
		pos++

		run := 1
		if b&pcxRunMask == pcxRunMask {
			run = int(b & pcxMaxRun)
			if pos >= len(src) {
				return nil, ErrTruncatedPCXData
			}
			b = src[pos]
			pos++
		}
		for ; run > 0 && i < len(out); run-- {
			out[i] = b
			i++
		}
	}
	return out, nil
}

// EncodePCX writes img as a run-length encoded PCX followed by a palette
// marker and the 768-byte palette.
func EncodePCX(img *palette.Indexed) ([]byte, error) {
	if img.Width <= 0 || img.Height <= 0 || img.Width > MaxPCXDimension || img.Height > MaxPCXDimension {
		return nil, fmt.Errorf("%w: %dx%d image", ErrUnsupportedPCX, img.Width, img.Height)
	}

	h := pcxHeader{
		Manufacturer: pcxManufacturer,
		Version:      pcxVersion,
		Encoding:     pcxEncodingRLE,
		BitsPerPixel: 8,
		XMax:         uint16(img.Width - 1),
		YMax:         uint16(img.Height - 1),
		HRes:         uint16(img.Width),
		VRes:         uint16(img.Height),
		ColorPlanes:  1,
		BytesPerLine: uint16(img.Width),
		PaletteType:  2,
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	for y := 0; y < img.Height; y++ {
		packRow(&buf, img.Pix[y*img.Width:(y+1)*img.Width])
	}
	buf.WriteByte(pcxPaletteMarker)
	buf.Write(img.Palette.Bytes())
	return buf.Bytes(), nil
}

// packRow encodes one scanline. Runs never cross scanlines.
func packRow(buf *bytes.Buffer, row []byte) {
	for i := 0; i < len(row); {
		b := row[i]
		run := 1
		for i+run < len(row) && row[i+run] == b && run < pcxMaxRun {
			run++
		}
		if run > 1 || b&pcxRunMask == pcxRunMask {
			buf.WriteByte(pcxRunMask | byte(run))
		}
		buf.WriteByte(b)
		i += run
	}
}
