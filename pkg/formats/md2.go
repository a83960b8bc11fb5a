package formats

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/aliasconv/pkg/anorms"
	"github.com/Faultbox/aliasconv/pkg/encoding"
	"github.com/Faultbox/aliasconv/pkg/glcmds"
	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/palette"
	"github.com/Faultbox/aliasconv/pkg/quantize"
	"github.com/Faultbox/aliasconv/pkg/texture"
	"github.com/Faultbox/aliasconv/pkg/weld"
)

// MD2 format errors.
var (
	ErrInvalidMD2Magic       = errors.New("invalid MD2 magic: expected 'IDP2'")
	ErrUnsupportedMD2Version = errors.New("unsupported MD2 version")
)

const (
	md2Ident   = "IDP2"
	md2Version = 8
	md2Mesh    = "md2mesh"

	// Engine limits of Quake 2.
	md2MaxVerts     = 2048
	md2MaxTriangles = 4096
	md2MaxFrames    = 512
	md2MaxSkins     = 32
)

type md2Header struct {
	Ident      [4]byte
	Version    int32
	SkinWidth  int32
	SkinHeight int32
	FrameSize  int32
	NumSkins   int32
	NumVerts   int32
	NumST      int32
	NumTris    int32
	NumGLCmds  int32
	NumFrames  int32
	OfsSkins   int32
	OfsST      int32
	OfsTris    int32
	OfsFrames  int32
	OfsGLCmds  int32
	OfsEnd     int32
}

type md2TexCoord struct {
	S, T int16
}

type md2Triangle struct {
	Vertex [3]uint16
	ST     [3]uint16
}

type md2FrameHeader struct {
	Scale     [3]float32
	Translate [3]float32
	Name      [16]byte
}

type md2Vertex [4]uint8

func readMD2Header(data []byte) (*md2Header, error) {
	var h md2Header
	if err := readStruct(data, 0, &h); err != nil {
		if len(data) >= 4 && string(data[:4]) != md2Ident {
			return nil, ErrInvalidMD2Magic
		}
		return nil, err
	}
	if string(h.Ident[:]) != md2Ident {
		return nil, ErrInvalidMD2Magic
	}
	if h.Version != md2Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMD2Version, h.Version)
	}
	return &h, nil
}

// DecodeMD2 decodes a Quake 2 MD2 model. Skins are referenced by name and
// loaded through opts.Assets; a skin that cannot be loaded leaves its slot
// empty.
func DecodeMD2(data []byte, opts *Options) (*model.Model, error) {
	h, err := readMD2Header(data)
	if err != nil {
		return nil, err
	}
	if h.SkinWidth <= 0 || h.SkinHeight <= 0 {
		return nil, fmt.Errorf("%w: skin size %dx%d", ErrCorrupt, h.SkinWidth, h.SkinHeight)
	}
	if h.NumFrames < 1 {
		return nil, fmt.Errorf("%w: %d frames", ErrCorrupt, h.NumFrames)
	}
	if h.NumVerts < 0 || h.FrameSize != int32(binary.Size(md2FrameHeader{}))+4*h.NumVerts {
		return nil, fmt.Errorf("%w: frame size %d for %d vertices", ErrCorrupt, h.FrameSize, h.NumVerts)
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
	tris, err := section[md2Triangle](data, int(h.OfsTris), int(h.NumTris))
	if err != nil {
		return nil, fmt.Errorf("reading triangles: %w", err)
	}

	corners := make([]weld.Corner, 0, len(tris)*3)
	for i, tri := range tris {
		for j := 0; j < 3; j++ {
			v, s := int32(tri.Vertex[j]), int32(tri.ST[j])
			if v >= h.NumVerts || s >= h.NumST {
				return nil, fmt.Errorf("%w: triangle %d references vertex %d and texcoord %d", ErrCorrupt, i, v, s)
			}
			corners = append(corners, weld.Corner{Vertex: int(v), TexCoord: int(s)})
		}
	}
	keys, remap := weld.Weld(corners)

	m := &model.Model{}
	mesh := model.NewMesh(md2Mesh, len(keys), len(tris), int(h.NumFrames), len(skinNames))
	copy(mesh.Indices, remap)

	w, hgt := float32(h.SkinWidth), float32(h.SkinHeight)
	for i, k := range keys {
		mesh.TexCoords[i*2] = (float32(st[k.TexCoord].S) + 0.5) / w
		mesh.TexCoords[i*2+1] = (float32(st[k.TexCoord].T) + 0.5) / hgt
	}

	for f := 0; f < int(h.NumFrames); f++ {
		off := int(h.OfsFrames) + f*int(h.FrameSize)
		var fh md2FrameHeader
		if err := readStruct(data, off, &fh); err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", f, err)
		}
		verts, err := section[md2Vertex](data, off+binary.Size(fh), int(h.NumVerts))
		if err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", f, err)
		}
		grid := quantize.Grid{Scale: vec3(fh.Scale), Origin: vec3(fh.Translate)}
		for i, k := range keys {
			v := verts[k.Vertex]
			grid.Decode([3]uint8{v[0], v[1], v[2]}).Put(mesh.Positions, (f*len(keys)+i)*3)
			anorms.Decompress(v[3]).Put(mesh.Normals, (f*len(keys)+i)*3)
		}
		m.SingleFrames(DefaultInterval, encoding.FixedString(fh.Name[:]))
	}

	for i, raw := range skinNames {
		name := encoding.FixedString(raw[:])
		m.SingleSkins(DefaultInterval, name)
		mesh.Textures[i].Diffuse, _ = opts.loadSkin(skinCandidates(name, ".pcx")...)
	}

	m.Meshes = []*model.Mesh{mesh}
	return m, nil
}

// ReadMD2Commands decodes the strip and fan command stream of an MD2 file.
func ReadMD2Commands(data []byte) ([]glcmds.Command, error) {
	h, err := readMD2Header(data)
	if err != nil {
		return nil, err
	}
	stream, err := section[int32](data, int(h.OfsGLCmds), int(h.NumGLCmds))
	if err != nil {
		return nil, fmt.Errorf("reading commands: %w", err)
	}
	return glcmds.Decode(stream)
}

// EncodeMD2 encodes a model as Quake 2 MD2. Multiple meshes are merged and
// every flattened frame is written with its own quantization grid. Each skin
// is quantized to the Quake 2 palette and returned as an auxiliary PCX file
// that the model references by name.
func EncodeMD2(m *model.Model, opts EncodeOptions) (*EncodeResult, error) {
	m, mesh, err := singleMesh(m)
	if err != nil {
		return nil, err
	}
	nv, nt := mesh.NumVertices(), mesh.NumTriangles()
	if nv > 0xFFFF {
		return nil, fmt.Errorf("%w: %d vertices do not fit 16-bit indices", ErrCannotEncode, nv)
	}
	skins, err := indexedSkins(mesh, opts.palette(palette.Quake2()))
	if err != nil {
		return nil, err
	}
	res := &EncodeResult{}

	skinNames := make([]string, len(skins))
	for i, img := range skins {
		name := opts.skinBase() + ".pcx"
		if len(skins) > 1 {
			name = fmt.Sprintf("%s_%d.pcx", opts.skinBase(), i)
		}
		if len(name) >= 64 {
			return nil, fmt.Errorf("%w: skin name %q is too long", ErrCannotEncode, name)
		}
		pcx, err := texture.EncodePCX(img)
		if err != nil {
			return nil, fmt.Errorf("%w: skin %d: %v", ErrCannotEncode, i, err)
		}
		skinNames[i] = name
		res.Files = append(res.Files, File{Name: name, Data: pcx})
	}

	tris := make([]glcmds.Triangle, nt)
	for i := range tris {
		t := mesh.Triangle(i)
		for j, v := range t {
			tris[i][j] = glcmds.Corner{Vertex: v, TexCoord: v}
		}
	}
	runs := glcmds.Build(tris)
	stream := glcmds.Encode(runs, func(c glcmds.Corner) (float32, float32) {
		return mesh.TexCoord(c.TexCoord)
	})

	frames := m.Frames()
	skinW, skinH := skins[0].Width, skins[0].Height
	frameSize := binary.Size(md2FrameHeader{}) + 4*nv

	h := md2Header{
		Version:    md2Version,
		SkinWidth:  int32(skinW),
		SkinHeight: int32(skinH),
		FrameSize:  int32(frameSize),
		NumSkins:   int32(len(skins)),
		NumVerts:   int32(nv),
		NumST:      int32(nv),
		NumTris:    int32(nt),
		NumGLCmds:  int32(len(stream)),
		NumFrames:  int32(len(frames)),
	}
	copy(h.Ident[:], md2Ident)
	h.OfsSkins = int32(binary.Size(h))
	h.OfsST = h.OfsSkins + 64*h.NumSkins
	h.OfsTris = h.OfsST + 4*h.NumST
	h.OfsFrames = h.OfsTris + 12*h.NumTris
	h.OfsGLCmds = h.OfsFrames + h.FrameSize*h.NumFrames
	h.OfsEnd = h.OfsGLCmds + 4*h.NumGLCmds

	var w writer
	w.put(h)
	for _, name := range skinNames {
		w.put(name64(name))
	}
	for v := 0; v < nv; v++ {
		s, t := mesh.TexCoord(v)
		w.put(md2TexCoord{S: int16(s * float32(skinW)), T: int16(t * float32(skinH))})
	}
	for i := 0; i < nt; i++ {
		t := mesh.Triangle(i)
		var tri md2Triangle
		for j, v := range t {
			tri.Vertex[j] = uint16(v)
			tri.ST[j] = uint16(v)
		}
		w.put(tri)
	}
	verts := make([]md2Vertex, nv)
	for _, f := range frames {
		q := quantize.CompressFrame(mesh.FramePositions(f.Offset))
		for v, p := range q.Vertices {
			verts[v] = md2Vertex{p[0], p[1], p[2], anorms.Compress(mesh.Normal(f.Offset, v))}
		}
		w.put(md2FrameHeader{Scale: q.Scale.Array(), Translate: q.Origin.Array(), Name: name16(f.Name)})
		w.put(verts)
	}
	w.put(stream)
	res.Data = w.Bytes()

	if len(m.FrameGroups) != len(frames) {
		res.warnf("frame groups are not supported; %d groups were flattened to %d frames", len(m.FrameGroups), len(frames))
	}
	if nv > md2MaxVerts {
		res.warnf("%d vertices exceed the %d supported by Quake 2", nv, md2MaxVerts)
	}
	if nt > md2MaxTriangles {
		res.warnf("%d triangles exceed the %d supported by Quake 2", nt, md2MaxTriangles)
	}
	if len(frames) > md2MaxFrames {
		res.warnf("%d frames exceed the %d supported by Quake 2", len(frames), md2MaxFrames)
	}
	if len(skins) > md2MaxSkins {
		res.warnf("%d skins exceed the %d supported by Quake 2", len(skins), md2MaxSkins)
	}
	return res, nil
}
