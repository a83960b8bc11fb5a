package formats

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/aliasconv/pkg/encoding"
	"github.com/Faultbox/aliasconv/pkg/math"
	"github.com/Faultbox/aliasconv/pkg/model"
)

// MD3 format errors.
var (
	ErrInvalidMD3Magic       = errors.New("invalid MD3 magic: expected 'IDP3'")
	ErrUnsupportedMD3Version = errors.New("unsupported MD3 version")
)

const (
	md3Ident   = "IDP3"
	md3Version = 15

	// md3XYZScale converts stored fixed-point coordinates to model units.
	md3XYZScale = 1.0 / 64
)

type md3Header struct {
	Ident     [4]byte
	Version   int32
	Name      [64]byte
	Flags     int32
	NumFrames int32
	NumTags   int32
	NumMeshes int32
	NumSkins  int32
	OfsFrames int32
	OfsTags   int32
	OfsMeshes int32
	OfsEnd    int32
}

type md3FrameInfo struct {
	Mins   [3]float32
	Maxs   [3]float32
	Origin [3]float32
	Radius float32
	Name   [16]byte
}

type md3Tag struct {
	Name   [64]byte
	Origin [3]float32
	Axes   [9]float32
}

// md3MeshHeader offsets are relative to the start of the mesh.
type md3MeshHeader struct {
	Ident        [4]byte
	Name         [64]byte
	Flags        int32
	NumFrames    int32
	NumShaders   int32
	NumVerts     int32
	NumTris      int32
	OfsTris      int32
	OfsShaders   int32
	OfsST        int32
	OfsXYZNormal int32
	OfsEnd       int32
}

type md3Shader struct {
	Name  [64]byte
	Index int32
}

type md3Vertex struct {
	X, Y, Z int16
	Normal  uint16
}

// md3Normal decodes a latitude/longitude packed normal.
func md3Normal(n uint16) math.Vec3 {
	lat := float32(n&0xFF) * 2 * math32.Pi / 256
	lng := float32((n>>8)&0xFF) * 2 * math32.Pi / 256
	return math.Vec3{
		X: math32.Sin(lat) * math32.Cos(lng),
		Y: math32.Sin(lat) * math32.Sin(lng),
		Z: math32.Cos(lat),
	}
}

// DecodeMD3 decodes a Quake 3 MD3 model with all of its meshes and tags.
// Vertices are stored unique per mesh and are not welded again. Shader names
// are resolved to images through opts.Assets; the number of skin slots is the
// largest shader count of any mesh.
func DecodeMD3(data []byte, opts *Options) (*model.Model, error) {
	var h md3Header
	if err := readStruct(data, 0, &h); err != nil {
		if len(data) >= 4 && string(data[:4]) != md3Ident {
			return nil, ErrInvalidMD3Magic
		}
		return nil, err
	}
	if string(h.Ident[:]) != md3Ident {
		return nil, ErrInvalidMD3Magic
	}
	if h.Version != md3Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMD3Version, h.Version)
	}
	if h.NumFrames < 1 || h.NumTags < 0 || h.NumMeshes < 0 {
		return nil, fmt.Errorf("%w: %d frames, %d tags, %d meshes", ErrCorrupt, h.NumFrames, h.NumTags, h.NumMeshes)
	}
	frames := int(h.NumFrames)

	m := &model.Model{Flags: h.Flags}

	infos, err := section[md3FrameInfo](data, int(h.OfsFrames), frames)
	if err != nil {
		return nil, fmt.Errorf("reading frames: %w", err)
	}
	for _, fi := range infos {
		m.SingleFrames(DefaultInterval, encoding.FixedString(fi.Name[:]))
	}

	tags, err := section[md3Tag](data, int(h.OfsTags), frames*int(h.NumTags))
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	m.Tags = make([]model.Tag, h.NumTags)
	for i := range m.Tags {
		m.Tags[i] = model.Tag{
			Name:       encoding.FixedString(tags[i].Name[:]),
			Transforms: make([]math.Mat3x4, frames),
		}
	}
	for f := 0; f < frames; f++ {
		for i := range m.Tags {
			t := tags[f*int(h.NumTags)+i]
			axes := [3]math.Vec3{
				{X: t.Axes[0], Y: t.Axes[1], Z: t.Axes[2]},
				{X: t.Axes[3], Y: t.Axes[4], Z: t.Axes[5]},
				{X: t.Axes[6], Y: t.Axes[7], Z: t.Axes[8]},
			}
			m.Tags[i].Transforms[f] = math.FromAxes(vec3(t.Origin), axes)
		}
	}

	var shaders [][]string
	off := int(h.OfsMeshes)
	for i := 0; i < int(h.NumMeshes); i++ {
		mesh, names, size, err := readMD3Mesh(data, off, frames)
		if err != nil {
			return nil, fmt.Errorf("reading mesh %d: %w", i, err)
		}
		m.Meshes = append(m.Meshes, mesh)
		shaders = append(shaders, names)
		off += size
	}

	slots := 0
	for _, names := range shaders {
		slots = max(slots, len(names))
	}
	for s := 0; s < slots; s++ {
		name := fmt.Sprintf("skin%d", s)
		for _, names := range shaders {
			if s < len(names) && names[s] != "" {
				name = names[s]
				break
			}
		}
		m.SingleSkins(DefaultInterval, name)
	}

	for i, mesh := range m.Meshes {
		mesh.Textures = make([]model.Texture, slots)
		for s, name := range shaders[i] {
			mesh.Textures[s].Diffuse, _ = opts.loadSkin(skinCandidates(name, ".tga", ".jpg", ".png")...)
		}
	}
	return m, nil
}

// readMD3Mesh decodes the mesh at off and returns it with its shader names
// and the offset of the next mesh relative to off.
func readMD3Mesh(data []byte, off, frames int) (*model.Mesh, []string, int, error) {
	var mh md3MeshHeader
	if err := readStruct(data, off, &mh); err != nil {
		return nil, nil, 0, err
	}
	if string(mh.Ident[:]) != md3Ident {
		return nil, nil, 0, ErrInvalidMD3Magic
	}
	if int(mh.NumFrames) != frames {
		return nil, nil, 0, fmt.Errorf("%w: mesh has %d frames, model has %d", ErrCorrupt, mh.NumFrames, frames)
	}
	if mh.OfsEnd < int32(binary.Size(mh)) {
		return nil, nil, 0, fmt.Errorf("%w: mesh end offset %d", ErrCorrupt, mh.OfsEnd)
	}
	if mh.NumVerts < 0 || mh.NumTris < 0 {
		return nil, nil, 0, fmt.Errorf("%w: %d vertices, %d triangles", ErrCorrupt, mh.NumVerts, mh.NumTris)
	}
	nv := int(mh.NumVerts)

	elements, err := section[[3]int32](data, off+int(mh.OfsTris), int(mh.NumTris))
	if err != nil {
		return nil, nil, 0, err
	}
	st, err := section[[2]float32](data, off+int(mh.OfsST), nv)
	if err != nil {
		return nil, nil, 0, err
	}
	verts, err := section[md3Vertex](data, off+int(mh.OfsXYZNormal), frames*nv)
	if err != nil {
		return nil, nil, 0, err
	}
	shaders, err := section[md3Shader](data, off+int(mh.OfsShaders), int(mh.NumShaders))
	if err != nil {
		return nil, nil, 0, err
	}

	mesh := model.NewMesh(encoding.FixedString(mh.Name[:]), nv, len(elements), frames, 0)
	for i, e := range elements {
		for j, v := range e {
			if v < 0 || int(v) >= nv {
				return nil, nil, 0, fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrCorrupt, i, v, nv)
			}
			mesh.Indices[i*3+j] = int(v)
		}
	}
	for i, t := range st {
		mesh.TexCoords[i*2] = t[0]
		mesh.TexCoords[i*2+1] = t[1]
	}
	for i, v := range verts {
		p := math.Vec3{X: float32(v.X) * md3XYZScale, Y: float32(v.Y) * md3XYZScale, Z: float32(v.Z) * md3XYZScale}
		p.Put(mesh.Positions, i*3)
		md3Normal(v.Normal).Put(mesh.Normals, i*3)
	}

	names := make([]string, len(shaders))
	for i, s := range shaders {
		names[i] = encoding.FixedString(s.Name[:])
	}
	return mesh, names, int(mh.OfsEnd), nil
}
