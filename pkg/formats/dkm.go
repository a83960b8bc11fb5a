package formats

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/aliasconv/pkg/anorms"
	"github.com/Faultbox/aliasconv/pkg/encoding"
	"github.com/Faultbox/aliasconv/pkg/math"
	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/weld"
)

// DKM format errors.
var (
	ErrInvalidDKMMagic       = errors.New("invalid DKM magic: expected 'DKMD'")
	ErrUnsupportedDKMVersion = errors.New("unsupported DKM version")
)

const (
	dkmIdent = "DKMD"

	// Version 1 stores byte vertices like MD2; version 2 packs each
	// vertex into 11, 10 and 11 bits.
	dkmVersion1 = 1
	dkmVersion2 = 2
)

type dkmHeader struct {
	Ident       [4]byte
	Version     int32
	Origin      [3]float32
	FrameSize   int32
	NumSkins    int32
	NumXYZ      int32
	NumST       int32
	NumTris     int32
	NumGLCmds   int32
	NumFrames   int32
	NumSurfaces int32
	OfsSkins    int32
	OfsST       int32
	OfsTris     int32
	OfsFrames   int32
	OfsGLCmds   int32
	OfsSurfaces int32
	OfsEnd      int32
}

// dkmTriangleHeader is followed by NumUVFrames sets of three texcoord indices.
type dkmTriangleHeader struct {
	Surface     int16
	NumUVFrames int16
	XYZ         [3]int16
}

type dkmTriangle struct {
	surface int
	xyz     [3]int16
	st      [3]int16
}

type dkmSurface struct {
	Name        [32]byte
	Flags       int32
	SkinIndex   int32
	SkinWidth   int32
	SkinHeight  int32
	NumUVFrames int32
}

type dkmVertex2 struct {
	V      uint32
	Normal uint8
}

// unpack splits a version 2 vertex into its three axis values.
func (v dkmVertex2) unpack() [3]float32 {
	return [3]float32{
		float32(v.V >> 21 & 0x7FF),
		float32(v.V >> 11 & 0x3FF),
		float32(v.V & 0x7FF),
	}
}

// DecodeDKM decodes a Daikatana DKM model. Each surface becomes one mesh and
// every mesh shares every skin. Skins that fail to load under their stored
// name are retried as TGA.
func DecodeDKM(data []byte, opts *Options) (*model.Model, error) {
	var h dkmHeader
	if err := readStruct(data, 0, &h); err != nil {
		if len(data) >= 4 && string(data[:4]) != dkmIdent {
			return nil, ErrInvalidDKMMagic
		}
		return nil, err
	}
	if string(h.Ident[:]) != dkmIdent {
		return nil, ErrInvalidDKMMagic
	}
	if h.Version != dkmVersion1 && h.Version != dkmVersion2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDKMVersion, h.Version)
	}
	if h.NumFrames < 1 || h.NumXYZ < 0 || h.NumTris < 0 || h.NumSurfaces < 0 {
		return nil, fmt.Errorf("%w: %d frames, %d vertices, %d triangles, %d surfaces",
			ErrCorrupt, h.NumFrames, h.NumXYZ, h.NumTris, h.NumSurfaces)
	}

	vertexSize := 4
	if h.Version == dkmVersion2 {
		vertexSize = binary.Size(dkmVertex2{})
	}
	frameHeaderSize := binary.Size(md2FrameHeader{})
	if int64(h.FrameSize) < int64(frameHeaderSize)+int64(vertexSize)*int64(h.NumXYZ) {
		return nil, fmt.Errorf("%w: frame size %d for %d vertices", ErrCorrupt, h.FrameSize, h.NumXYZ)
	}
	if err := checkBlock(data, h.OfsFrames, h.NumFrames, h.FrameSize); err != nil {
		return nil, fmt.Errorf("reading frames: %w", err)
	}

	skinNames, err := section[[64]byte](data, int(h.OfsSkins), int(h.NumSkins))
	if err != nil {
		return nil, fmt.Errorf("reading skins: %w", err)
	}
	st, err := section[md2TexCoord](data, int(h.OfsST), int(h.NumST))
	if err != nil {
		return nil, fmt.Errorf("reading texture coordinates: %w", err)
	}
	surfaces, err := section[dkmSurface](data, int(h.OfsSurfaces), int(h.NumSurfaces))
	if err != nil {
		return nil, fmt.Errorf("reading surfaces: %w", err)
	}
	tris, err := readDKMTriangles(data, &h)
	if err != nil {
		return nil, fmt.Errorf("reading triangles: %w", err)
	}
	for i, tri := range tris {
		if tri.surface < 0 || tri.surface >= len(surfaces) {
			return nil, fmt.Errorf("%w: triangle %d references surface %d of %d", ErrCorrupt, i, tri.surface, len(surfaces))
		}
	}

	// Frames are decoded once into flat positions over the source vertices
	// and then gathered per mesh.
	frames := int(h.NumFrames)
	positions := make([][]math.Vec3, frames)
	normals := make([][]uint8, frames)
	m := &model.Model{Offset: vec3(h.Origin)}
	for f := 0; f < frames; f++ {
		off := int(h.OfsFrames) + f*int(h.FrameSize)
		var fh md2FrameHeader
		if err := readStruct(data, off, &fh); err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", f, err)
		}
		positions[f], normals[f], err = readDKMVertices(data, off+frameHeaderSize, &h, fh)
		if err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", f, err)
		}
		m.SingleFrames(DefaultInterval, encoding.FixedString(fh.Name[:]))
	}

	skins := make([]model.Texture, len(skinNames))
	for i, raw := range skinNames {
		name := encoding.FixedString(raw[:])
		img, found := opts.loadSkin(skinCandidates(name, ".tga")...)
		if found != "" {
			name = found
		}
		skins[i].Diffuse = img
		m.SingleSkins(DefaultInterval, name)
	}

	for si, surf := range surfaces {
		if surf.SkinWidth <= 0 || surf.SkinHeight <= 0 {
			return nil, fmt.Errorf("%w: surface %d skin size %dx%d", ErrCorrupt, si, surf.SkinWidth, surf.SkinHeight)
		}

		var corners []weld.Corner
		for _, tri := range tris {
			if tri.surface != si {
				continue
			}
			for j := 0; j < 3; j++ {
				corners = append(corners, weld.Corner{Vertex: int(tri.xyz[j]), TexCoord: int(tri.st[j])})
			}
		}
		for _, c := range corners {
			if c.Vertex < 0 || c.Vertex >= int(h.NumXYZ) || c.TexCoord < 0 || c.TexCoord >= len(st) {
				return nil, fmt.Errorf("%w: surface %d references vertex %d and texcoord %d", ErrCorrupt, si, c.Vertex, c.TexCoord)
			}
		}
		keys, remap := weld.Weld(corners)

		mesh := model.NewMesh(encoding.FixedString(surf.Name[:]), len(keys), len(corners)/3, frames, 0)
		copy(mesh.Indices, remap)

		w, hgt := float32(surf.SkinWidth), float32(surf.SkinHeight)
		for i, k := range keys {
			mesh.TexCoords[i*2] = (float32(st[k.TexCoord].S) + 0.5) / w
			mesh.TexCoords[i*2+1] = (float32(st[k.TexCoord].T) + 0.5) / hgt
		}
		for f := 0; f < frames; f++ {
			for i, k := range keys {
				positions[f][k.Vertex].Put(mesh.Positions, (f*len(keys)+i)*3)
				anorms.Decompress(normals[f][k.Vertex]).Put(mesh.Normals, (f*len(keys)+i)*3)
			}
		}

		mesh.Textures = make([]model.Texture, len(skins))
		copy(mesh.Textures, skins)
		m.Meshes = append(m.Meshes, mesh)
	}
	return m, nil
}

func readDKMTriangles(data []byte, h *dkmHeader) ([]dkmTriangle, error) {
	c := &cursor{data: data, off: int(h.OfsTris)}
	if c.off < 0 || c.off > len(data) {
		return nil, fmt.Errorf("%w: triangle offset %d", ErrTruncated, c.off)
	}
	if int(h.NumTris) > (len(data)-c.off)/binary.Size(dkmTriangleHeader{}) {
		return nil, fmt.Errorf("%w: %d triangles", ErrTruncated, h.NumTris)
	}

	tris := make([]dkmTriangle, h.NumTris)
	for i := range tris {
		var th dkmTriangleHeader
		if err := c.read(&th); err != nil {
			return nil, err
		}
		if th.NumUVFrames < 1 {
			return nil, fmt.Errorf("%w: triangle %d has %d uv frames", ErrCorrupt, i, th.NumUVFrames)
		}
		uv, err := readSection[[3]int16](c, int(th.NumUVFrames))
		if err != nil {
			return nil, err
		}
		tris[i] = dkmTriangle{surface: int(th.Surface), xyz: th.XYZ, st: uv[0]}
	}
	return tris, nil
}

func readDKMVertices(data []byte, off int, h *dkmHeader, fh md2FrameHeader) ([]math.Vec3, []uint8, error) {
	n := int(h.NumXYZ)
	scale, translate := vec3(fh.Scale), vec3(fh.Translate)
	positions := make([]math.Vec3, n)
	normals := make([]uint8, n)

	decode := func(i int, v [3]float32) {
		positions[i] = math.Vec3{
			X: translate.X + scale.X*v[0],
			Y: translate.Y + scale.Y*v[1],
			Z: translate.Z + scale.Z*v[2],
		}
	}

	if h.Version == dkmVersion1 {
		verts, err := section[md2Vertex](data, off, n)
		if err != nil {
			return nil, nil, err
		}
		for i, v := range verts {
			decode(i, [3]float32{float32(v[0]), float32(v[1]), float32(v[2])})
			normals[i] = v[3]
		}
		return positions, normals, nil
	}

	verts, err := section[dkmVertex2](data, off, n)
	if err != nil {
		return nil, nil, err
	}
	for i, v := range verts {
		decode(i, v.unpack())
		normals[i] = v.Normal
	}
	return positions, normals, nil
}
