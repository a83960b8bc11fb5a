// Package convert runs a single model conversion: decode, apply overrides,
// encode and write the result with its auxiliary files.
package convert

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/aliasconv/internal/config"
	"github.com/Faultbox/aliasconv/pkg/formats"
	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/palette"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

// Converter applies one set of conversion settings to any number of models.
// It holds no per-model state and is safe for concurrent use.
type Converter struct {
	cfg     config.ConvertConfig
	assets  formats.AssetLoader
	log     *zap.Logger
	pal     *palette.Palette
	replace *image.NRGBA
}

// Result describes a finished conversion.
type Result struct {
	Input    string   `yaml:"input"`
	Output   string   `yaml:"output"`
	Files    []string `yaml:"files,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
	Meshes   int      `yaml:"meshes"`
	Frames   int      `yaml:"frames"`
	Skins    int      `yaml:"skins"`

	// Model is the converted model after overrides.
	Model *model.Model `yaml:"-"`
}

// New creates a converter. The replacement texture and palette named in cfg
// are read from disk once, here. A nil loader loads no skins and a nil
// logger logs nothing.
func New(cfg config.ConvertConfig, loader formats.AssetLoader, log *zap.Logger) (*Converter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Converter{cfg: cfg, assets: loader, log: log}

	if cfg.Palette != "" {
		data, err := os.ReadFile(cfg.Palette)
		if err != nil {
			return nil, errors.Wrap(err, "reading palette")
		}
		pal, err := palette.FromRGB(data)
		if err != nil {
			return nil, errors.Wrapf(err, "loading palette %s", cfg.Palette)
		}
		c.pal = &pal
	}

	if cfg.Texture != "" {
		data, err := os.ReadFile(cfg.Texture)
		if err != nil {
			return nil, errors.Wrap(err, "reading replacement texture")
		}
		img, err := texture.Decode(cfg.Texture, data)
		if err != nil {
			return nil, errors.Wrap(err, "loading replacement texture")
		}
		c.replace = img
	}
	return c, nil
}

// Load reads and decodes a model file, choosing the decoder by extension.
func (c *Converter) Load(path string) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model")
	}
	m, err := formats.Decode(path, data, &formats.Options{Assets: c.assets, Logger: c.log})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "decoded %s", filepath.Base(path))
	}
	return m, nil
}

// Apply changes m in place according to the converter settings: effect
// flags, sync type, skin replacement and skin resizing, in that order.
func (c *Converter) Apply(m *model.Model) {
	if c.cfg.Flags != config.KeepFlags {
		m.Flags = c.cfg.Flags
	}
	switch c.cfg.SyncType {
	case "sync":
		m.SyncType = model.SyncSync
	case "rand":
		m.SyncType = model.SyncRand
	}

	if c.replace != nil {
		if m.TotalSkins() == 0 {
			m.SingleSkins(formats.DefaultInterval, filepath.Base(c.cfg.Texture))
			for _, mesh := range m.Meshes {
				mesh.Textures = make([]model.Texture, 1)
			}
		}
		for _, mesh := range m.Meshes {
			for i := range mesh.Textures {
				mesh.Textures[i] = model.Texture{Diffuse: texture.Clone(c.replace)}
			}
		}
	}

	if c.cfg.TexWidth > 0 || c.cfg.TexHeight > 0 {
		for _, mesh := range m.Meshes {
			for i := range mesh.Textures {
				t := &mesh.Textures[i]
				t.Diffuse = c.resize(t.Diffuse)
				t.Fullbright = c.resize(t.Fullbright)
			}
		}
	}
}

func (c *Converter) resize(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if c.cfg.TexWidth > 0 {
		w = c.cfg.TexWidth
	}
	if c.cfg.TexHeight > 0 {
		h = c.cfg.TexHeight
	}
	return texture.Resize(img, w, h)
}

// Encode serializes m for the output file name. Auxiliary skin files are
// named after the output's stem.
func (c *Converter) Encode(m *model.Model, input, output string) (*formats.EncodeResult, error) {
	enc, err := formats.EncoderFor(output)
	if err != nil {
		return nil, err
	}
	res, err := enc(m, formats.EncodeOptions{
		Source:   input,
		SkinBase: stem(output),
		Palette:  c.pal,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", filepath.Base(output))
	}
	return res, nil
}

// Convert runs the whole pipeline from input to output. With ExportGLB set,
// a binary glTF preview is written next to the output as well.
func (c *Converter) Convert(input, output string) (*Result, error) {
	if _, err := formats.EncoderFor(output); err != nil {
		return nil, err
	}

	m, err := c.Load(input)
	if err != nil {
		return nil, err
	}
	c.Apply(m)

	res, err := c.Encode(m, input, output)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Input:    input,
		Output:   output,
		Warnings: res.Warnings,
		Meshes:   len(m.Meshes),
		Frames:   m.TotalFrames(),
		Skins:    m.TotalSkins(),
		Model:    m,
	}
	files, err := write(output, res)
	if err != nil {
		return nil, err
	}
	result.Files = files

	if c.cfg.ExportGLB && !strings.EqualFold(filepath.Ext(output), ".glb") {
		glbPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".glb"
		glb, err := c.Encode(m, input, glbPath)
		if err != nil {
			return nil, err
		}
		if _, err := write(glbPath, glb); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, glbPath)
	}

	for _, w := range result.Warnings {
		c.log.Warn("compatibility warning", zap.String("output", output), zap.String("warning", w))
	}
	c.log.Info("converted",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("frames", result.Frames),
		zap.Int("skins", result.Skins))
	return result, nil
}

// write stores the main output and its auxiliary files and returns the
// paths of the auxiliary files.
func write(output string, res *formats.EncodeResult) ([]string, error) {
	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}
	if err := os.WriteFile(output, res.Data, 0644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", output)
	}

	var files []string
	for _, f := range res.Files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return nil, errors.Wrapf(err, "writing %s", path)
		}
		files = append(files, path)
	}
	return files, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
