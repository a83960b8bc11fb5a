package model

import (
	"errors"
	"fmt"
)

// ErrInvalidModel is wrapped by every Validate failure.
var ErrInvalidModel = errors.New("invalid model")

// Validate checks that every mesh and tag is sized for the model's frame and
// skin counts and that triangle indices are in range.
func (m *Model) Validate() error {
	frames := m.TotalFrames()
	skins := m.TotalSkins()

	for gi, g := range m.FrameGroups {
		if len(g.Frames) == 0 {
			return fmt.Errorf("%w: frame group %d is empty", ErrInvalidModel, gi)
		}
		for _, f := range g.Frames {
			if f.Offset < 0 || f.Offset >= frames {
				return fmt.Errorf("%w: frame %q offset %d out of range", ErrInvalidModel, f.Name, f.Offset)
			}
		}
	}

	for gi, g := range m.SkinGroups {
		if len(g.Skins) == 0 {
			return fmt.Errorf("%w: skin group %d is empty", ErrInvalidModel, gi)
		}
		for _, sk := range g.Skins {
			if sk.Offset < 0 || sk.Offset >= skins {
				return fmt.Errorf("%w: skin %q offset %d out of range", ErrInvalidModel, sk.Name, sk.Offset)
			}
		}
	}

	for _, t := range m.Tags {
		if len(t.Transforms) != frames {
			return fmt.Errorf("%w: tag %q has %d transforms, want %d", ErrInvalidModel, t.Name, len(t.Transforms), frames)
		}
	}

	for _, mesh := range m.Meshes {
		if err := mesh.validate(frames, skins); err != nil {
			return fmt.Errorf("%w: mesh %q: %v", ErrInvalidModel, mesh.Name, err)
		}
	}
	return nil
}

func (m *Mesh) validate(frames, skins int) error {
	if len(m.TexCoords)%2 != 0 {
		return fmt.Errorf("odd texcoord count %d", len(m.TexCoords))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	nv := m.NumVertices()
	if want := frames * nv * 3; len(m.Positions) != want || len(m.Normals) != want {
		return fmt.Errorf("%d positions and %d normals, want %d", len(m.Positions), len(m.Normals), want)
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= nv {
			return fmt.Errorf("index %d = %d out of range [0,%d)", i, idx, nv)
		}
	}
	if len(m.Textures) != skins {
		return fmt.Errorf("%d texture slots, want %d", len(m.Textures), skins)
	}
	return nil
}
