// Package formats decodes and encodes animated alias models.
//
// Supported inputs are Quake MDL, Quake 2 MD2, Quake 3 MD3 and Daikatana DKM.
// Models can be written back as MDL or MD2, dumped as text, or exported as a
// binary glTF for inspection in modern tools.
//
// Every decoder validates the magic and version fields before reading
// anything else, bounds-checks every count and offset against the input, and
// returns either a complete model or an error. Skins referenced by name are
// loaded through Options.Assets; a skin that cannot be loaded is logged and
// left empty.
package formats

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/palette"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

// Shared format errors.
var (
	ErrUnknownFormat = errors.New("unknown model format")
	ErrTruncated     = errors.New("truncated model data")
	ErrCorrupt       = errors.New("corrupt model data")
	ErrCannotEncode  = errors.New("cannot encode model")
)

// DefaultInterval is the playback interval of frames and skins that carry no
// timing of their own.
const DefaultInterval = 0.1

// AssetLoader loads files referenced by a model, such as skin images.
type AssetLoader interface {
	Load(name string) ([]byte, error)
}

// Options configures decoding. The zero value loads no skins and logs nothing.
type Options struct {
	Assets AssetLoader
	Logger *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// loadSkin tries each candidate name in order and returns the first image
// that loads and decodes, with the name it was found under. Failures are
// advisory and only logged.
func (o *Options) loadSkin(candidates ...string) (*image.NRGBA, string) {
	if o == nil || o.Assets == nil || len(candidates) == 0 {
		return nil, ""
	}
	log := o.logger()

	var lastErr error
	for _, name := range candidates {
		data, err := o.Assets.Load(name)
		if err != nil {
			lastErr = err
			continue
		}
		img, err := texture.Decode(name, data)
		if err != nil {
			lastErr = err
			continue
		}
		return img, name
	}
	log.Warn("failed to load skin", zap.Strings("names", candidates), zap.Error(lastErr))
	return nil, ""
}

// EncodeOptions configures encoding.
type EncodeOptions struct {
	// Source names the input in text dumps.
	Source string
	// SkinBase is the file name stem of auxiliary skin files. Defaults to "skin".
	SkinBase string
	// Palette replaces the format's own palette when quantizing skins.
	Palette *palette.Palette
}

func (o EncodeOptions) palette(def palette.Palette) palette.Palette {
	if o.Palette == nil {
		return def
	}
	return *o.Palette
}

func (o EncodeOptions) skinBase() string {
	if o.SkinBase == "" {
		return "skin"
	}
	return o.SkinBase
}

// File is an auxiliary output written next to the encoded model.
type File struct {
	Name string
	Data []byte
}

// EncodeResult is the output of an encoder.
type EncodeResult struct {
	Data     []byte
	Files    []File
	Warnings []string
}

func (r *EncodeResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Decoder reads a model from an in-memory file.
type Decoder func(data []byte, opts *Options) (*model.Model, error)

// Encoder serializes a model. Encoders never modify their input.
type Encoder func(m *model.Model, opts EncodeOptions) (*EncodeResult, error)

// Format describes one registered file type.
type Format struct {
	Name      string
	Extension string
	Decode    Decoder
	Encode    Encoder
}

var registry = []Format{
	{Name: "Quake MDL", Extension: ".mdl", Decode: DecodeMDL, Encode: EncodeMDL},
	{Name: "Quake 2 MD2", Extension: ".md2", Decode: DecodeMD2, Encode: EncodeMD2},
	{Name: "Quake 3 MD3", Extension: ".md3", Decode: DecodeMD3},
	{Name: "Daikatana DKM", Extension: ".dkm", Decode: DecodeDKM},
	{Name: "text dump", Extension: ".txt", Encode: EncodeText},
	{Name: "binary glTF", Extension: ".glb", Encode: EncodeGLB},
}

// Formats returns every registered format.
func Formats() []Format {
	return append([]Format(nil), registry...)
}

// Lookup finds the format for a file name by its extension.
func Lookup(filename string) (Format, bool) {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(filename)))
	for _, f := range registry {
		if f.Extension == ext {
			return f, true
		}
	}
	return Format{}, false
}

// DecoderFor returns the decoder for a file name.
func DecoderFor(filename string) (Decoder, error) {
	f, ok := Lookup(filename)
	if !ok || f.Decode == nil {
		return nil, fmt.Errorf("%w: cannot read %q", ErrUnknownFormat, filepath.Base(filename))
	}
	return f.Decode, nil
}

// EncoderFor returns the encoder for a file name.
func EncoderFor(filename string) (Encoder, error) {
	f, ok := Lookup(filename)
	if !ok || f.Encode == nil {
		return nil, fmt.Errorf("%w: cannot write %q", ErrUnknownFormat, filepath.Base(filename))
	}
	return f.Encode, nil
}

// Decode decodes data using the decoder chosen by filename.
func Decode(filename string, data []byte, opts *Options) (*model.Model, error) {
	dec, err := DecoderFor(filename)
	if err != nil {
		return nil, err
	}
	return dec(data, opts)
}

// DecodeFile reads and decodes a model from disk.
func DecodeFile(path string, opts *Options) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return Decode(path, data, opts)
}
