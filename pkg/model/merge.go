package model

import (
	"errors"
	"fmt"
	"image"
)

// ErrNoMeshes is returned when an operation needs at least one mesh.
var ErrNoMeshes = errors.New("model has no meshes")

// MergeMeshes replaces all meshes with a single mesh holding their
// concatenated vertices and triangles. Triangle indices of later meshes are
// rebased past the vertices of earlier ones. The merged mesh keeps the name
// and textures of the first mesh.
func (m *Model) MergeMeshes() error {
	if len(m.Meshes) == 0 {
		return ErrNoMeshes
	}
	if len(m.Meshes) == 1 {
		return nil
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("merging meshes: %w", err)
	}

	frames := m.TotalFrames()
	numVerts, numTris := 0, 0
	for _, mesh := range m.Meshes {
		numVerts += mesh.NumVertices()
		numTris += mesh.NumTriangles()
	}

	first := m.Meshes[0]
	merged := NewMesh(first.Name, numVerts, numTris, frames, 0)
	merged.Textures = first.Textures

	ofsVerts, ofsTris := 0, 0
	for _, mesh := range m.Meshes {
		nv := mesh.NumVertices()
		copy(merged.TexCoords[ofsVerts*2:], mesh.TexCoords)

		for f := 0; f < frames; f++ {
			dst := (f*numVerts + ofsVerts) * 3
			copy(merged.Positions[dst:dst+nv*3], mesh.FramePositions(f))
			copy(merged.Normals[dst:dst+nv*3], mesh.FrameNormals(f))
		}

		for i, idx := range mesh.Indices {
			merged.Indices[ofsTris*3+i] = ofsVerts + idx
		}

		ofsVerts += nv
		ofsTris += mesh.NumTriangles()
	}

	m.Meshes = []*Mesh{merged}
	return nil
}

// Clone returns a deep copy of the model. Images are copied as well.
func (m *Model) Clone() *Model {
	out := &Model{
		Flags:    m.Flags,
		SyncType: m.SyncType,
		Offset:   m.Offset,
	}
	for _, g := range m.FrameGroups {
		out.FrameGroups = append(out.FrameGroups, FrameGroup{
			Interval: g.Interval,
			Frames:   append([]SubFrame(nil), g.Frames...),
		})
	}
	for _, g := range m.SkinGroups {
		out.SkinGroups = append(out.SkinGroups, SkinGroup{
			Interval: g.Interval,
			Skins:    append([]SubSkin(nil), g.Skins...),
		})
	}
	for _, t := range m.Tags {
		out.Tags = append(out.Tags, Tag{Name: t.Name, Transforms: append(t.Transforms[:0:0], t.Transforms...)})
	}
	for _, mesh := range m.Meshes {
		out.Meshes = append(out.Meshes, mesh.Clone())
	}
	return out
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Name:      m.Name,
		Indices:   append([]int(nil), m.Indices...),
		TexCoords: append([]float32(nil), m.TexCoords...),
		Positions: append([]float32(nil), m.Positions...),
		Normals:   append([]float32(nil), m.Normals...),
		Textures:  make([]Texture, len(m.Textures)),
	}
	for i, t := range m.Textures {
		out.Textures[i] = Texture{Diffuse: cloneImage(t.Diffuse), Fullbright: cloneImage(t.Fullbright)}
	}
	return out
}

func cloneImage(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	r := img.Rect
	out := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := img.PixOffset(r.Min.X, y)
		dst := out.PixOffset(r.Min.X, y)
		copy(out.Pix[dst:dst+r.Dx()*4], img.Pix[src:src+r.Dx()*4])
	}
	return out
}
