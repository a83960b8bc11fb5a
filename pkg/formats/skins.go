package formats

import (
	"fmt"
	"image"
	"image/color"
	"path"
	"strings"

	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/palette"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

// defaultSkinSize is used for blank skins when a model carries no images.
const defaultSkinSize = 64

// skinSize returns the common size of every image in the mesh's skin slots.
// Fullbright layers are allowed to differ; they are resampled later.
func skinSize(mesh *model.Mesh) (w, h int, err error) {
	var have bool
	for i, t := range mesh.Textures {
		img := t.Diffuse
		if img == nil {
			img = t.Fullbright
		}
		if img == nil {
			continue
		}
		size := img.Bounds().Size()
		if !have {
			w, h, have = size.X, size.Y, true
			continue
		}
		if size.X != w || size.Y != h {
			return 0, 0, fmt.Errorf("%w: skin %d is %dx%d, previous skins are %dx%d", ErrCannotEncode, i, size.X, size.Y, w, h)
		}
	}
	if !have {
		return defaultSkinSize, defaultSkinSize, nil
	}
	return w, h, nil
}

// indexedSkins converts every skin slot of mesh to 8-bit images on pal. A
// mesh without slots yields a single blank skin. Empty slots become black.
func indexedSkins(mesh *model.Mesh, pal palette.Palette) ([]*palette.Indexed, error) {
	w, h, err := skinSize(mesh)
	if err != nil {
		return nil, err
	}

	slots := mesh.Textures
	if len(slots) == 0 {
		slots = []model.Texture{{}}
	}

	out := make([]*palette.Indexed, len(slots))
	for i, t := range slots {
		diffuse := t.Diffuse
		if diffuse == nil {
			diffuse = texture.Fill(w, h, color.NRGBA{A: 0xFF})
		}
		fullbright := t.Fullbright
		if fullbright != nil && fullbright.Bounds().Size() != image.Pt(w, h) {
			fullbright = texture.Resize(texture.ToNRGBA(fullbright), w, h)
		}
		img, err := pal.Quantize(diffuse, fullbright)
		if err != nil {
			return nil, fmt.Errorf("%w: skin %d: %v", ErrCannotEncode, i, err)
		}
		out[i] = img
	}
	return out, nil
}

// singleMesh returns a merged, validated copy of m suitable for single-mesh
// formats.
func singleMesh(m *model.Model) (*model.Model, *model.Mesh, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCannotEncode, err)
	}
	out := m.Clone()
	if err := out.MergeMeshes(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCannotEncode, err)
	}
	if out.TotalFrames() == 0 {
		return nil, nil, fmt.Errorf("%w: model has no frames", ErrCannotEncode)
	}
	return out, out.Meshes[0], nil
}

// skinCandidates lists the file names tried for a skin reference: the name
// itself, then the same stem with each common image extension.
func skinCandidates(name string, exts ...string) []string {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" {
		return nil
	}
	stem := strings.TrimSuffix(name, path.Ext(name))

	var out []string
	seen := make(map[string]bool)
	add := func(n string) {
		if !seen[strings.ToLower(n)] {
			seen[strings.ToLower(n)] = true
			out = append(out, n)
		}
	}
	if path.Ext(name) != "" {
		add(name)
	}
	for _, ext := range exts {
		add(stem + ext)
	}
	return out
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
