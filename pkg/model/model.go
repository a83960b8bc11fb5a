// Package model provides the format-independent representation of an animated
// alias model that every decoder fills in and every encoder reads.
//
// Vertex animation is stored flat: frame f of a mesh with n vertices occupies
// Positions[f*n*3 : (f+1)*n*3], and likewise for Normals. Frame and skin
// groups only name and time slices of those flat arrays.
package model

import (
	"image"

	"github.com/Faultbox/aliasconv/pkg/math"
)

// SyncType selects how an engine phases the animation of multiple instances.
type SyncType int32

// Sync types.
const (
	SyncSync SyncType = 0
	SyncRand SyncType = 1
)

// String returns the name used by command line tools.
func (s SyncType) String() string {
	if s == SyncRand {
		return "rand"
	}
	return "sync"
}

// Model is an animated model with any number of meshes.
type Model struct {
	FrameGroups []FrameGroup
	SkinGroups  []SkinGroup
	Tags        []Tag
	Meshes      []*Mesh

	Flags    int32
	SyncType SyncType
	Offset   math.Vec3
}

// FrameGroup is one or more frames played at a shared interval.
type FrameGroup struct {
	Interval float32
	Frames   []SubFrame
}

// SubFrame names one flattened animation frame.
type SubFrame struct {
	Name   string
	Offset int
}

// SkinGroup is one or more skins cycled at a shared interval.
type SkinGroup struct {
	Interval float32
	Skins    []SubSkin
}

// SubSkin names one flattened skin slot.
type SubSkin struct {
	Name   string
	Offset int
}

// Tag is a named attachment frame with one transform per animation frame.
type Tag struct {
	Name       string
	Transforms []math.Mat3x4
}

// Texture is the image set of one skin slot. Either layer may be nil.
type Texture struct {
	Diffuse    *image.NRGBA
	Fullbright *image.NRGBA
}

// Empty reports whether the slot has no images.
func (t Texture) Empty() bool {
	return t.Diffuse == nil && t.Fullbright == nil
}

// Mesh is a welded triangle mesh with per-frame positions and normals.
type Mesh struct {
	Name      string
	Indices   []int
	TexCoords []float32
	Positions []float32
	Normals   []float32
	Textures  []Texture
}

// NewMesh allocates a mesh for the given vertex, triangle, frame and skin counts.
func NewMesh(name string, vertices, triangles, frames, skins int) *Mesh {
	return &Mesh{
		Name:      name,
		Indices:   make([]int, triangles*3),
		TexCoords: make([]float32, vertices*2),
		Positions: make([]float32, frames*vertices*3),
		Normals:   make([]float32, frames*vertices*3),
		Textures:  make([]Texture, skins),
	}
}

// NumVertices returns the welded vertex count.
func (m *Mesh) NumVertices() int {
	return len(m.TexCoords) / 2
}

// NumTriangles returns the triangle count.
func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]int {
	return [3]int{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// FramePositions returns the flat xyz slice of frame f.
func (m *Mesh) FramePositions(f int) []float32 {
	n := m.NumVertices() * 3
	return m.Positions[f*n : (f+1)*n]
}

// FrameNormals returns the flat normal slice of frame f.
func (m *Mesh) FrameNormals(f int) []float32 {
	n := m.NumVertices() * 3
	return m.Normals[f*n : (f+1)*n]
}

// Position returns vertex v of frame f.
func (m *Mesh) Position(f, v int) math.Vec3 {
	return math.V3(m.Positions, (f*m.NumVertices()+v)*3)
}

// Normal returns the normal of vertex v in frame f.
func (m *Mesh) Normal(f, v int) math.Vec3 {
	return math.V3(m.Normals, (f*m.NumVertices()+v)*3)
}

// TexCoord returns the normalized texture coordinate of vertex v.
func (m *Mesh) TexCoord(v int) (s, t float32) {
	return m.TexCoords[v*2], m.TexCoords[v*2+1]
}

// TotalFrames returns the number of flattened animation frames.
func (m *Model) TotalFrames() int {
	n := 0
	for _, g := range m.FrameGroups {
		n += len(g.Frames)
	}
	return n
}

// TotalSkins returns the number of flattened skin slots.
func (m *Model) TotalSkins() int {
	n := 0
	for _, g := range m.SkinGroups {
		n += len(g.Skins)
	}
	return n
}

// Frames returns every sub-frame in group order.
func (m *Model) Frames() []SubFrame {
	out := make([]SubFrame, 0, m.TotalFrames())
	for _, g := range m.FrameGroups {
		out = append(out, g.Frames...)
	}
	return out
}

// Frame returns the flattened frame i, or false when i is out of range.
func (m *Model) Frame(i int) (SubFrame, bool) {
	if i < 0 {
		return SubFrame{}, false
	}
	for _, g := range m.FrameGroups {
		if i < len(g.Frames) {
			return g.Frames[i], true
		}
		i -= len(g.Frames)
	}
	return SubFrame{}, false
}

// Skins returns every sub-skin in group order.
func (m *Model) Skins() []SubSkin {
	out := make([]SubSkin, 0, m.TotalSkins())
	for _, g := range m.SkinGroups {
		out = append(out, g.Skins...)
	}
	return out
}

// SingleFrames appends one singleton frame group per name, numbering offsets
// from the current total.
func (m *Model) SingleFrames(interval float32, names ...string) {
	base := m.TotalFrames()
	for i, name := range names {
		m.FrameGroups = append(m.FrameGroups, FrameGroup{
			Interval: interval,
			Frames:   []SubFrame{{Name: name, Offset: base + i}},
		})
	}
}

// SingleSkins appends one singleton skin group per name.
func (m *Model) SingleSkins(interval float32, names ...string) {
	base := m.TotalSkins()
	for i, name := range names {
		m.SkinGroups = append(m.SkinGroups, SkinGroup{
			Interval: interval,
			Skins:    []SubSkin{{Name: name, Offset: base + i}},
		})
	}
}
