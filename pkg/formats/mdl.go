package formats

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/aliasconv/pkg/anorms"
	"github.com/Faultbox/aliasconv/pkg/encoding"
	"github.com/Faultbox/aliasconv/pkg/math"
	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/palette"
	"github.com/Faultbox/aliasconv/pkg/quantize"
	"github.com/Faultbox/aliasconv/pkg/weld"
)

// MDL format errors.
var (
	ErrInvalidMDLMagic       = errors.New("invalid MDL magic: expected 'IDPO'")
	ErrUnsupportedMDLVersion = errors.New("unsupported MDL version")
)

const (
	mdlIdent   = "IDPO"
	mdlVersion = 6
	mdlMesh    = "mdlmesh"

	mdlSingle = 0
	mdlGroup  = 1
)

// mdlHeader is the 84-byte file header.
type mdlHeader struct {
	Ident       [4]byte
	Version     int32
	Scale       [3]float32
	Origin      [3]float32
	Radius      float32
	EyePosition [3]float32
	NumSkins    int32
	SkinWidth   int32
	SkinHeight  int32
	NumVerts    int32
	NumTris     int32
	NumFrames   int32
	SyncType    int32
	Flags       int32
	Size        float32
}

type mdlSTVert struct {
	OnSeam int32
	S, T   int32
}

type mdlTriangle struct {
	FacesFront int32
	Vertices   [3]int32
}

// mdlVertex is a packed position plus a normal table index.
type mdlVertex [4]uint8

type mdlFrameHeader struct {
	BBoxMin mdlVertex
	BBoxMax mdlVertex
	Name    [16]byte
}

type mdlGroupHeader struct {
	NumFrames int32
	BBoxMin   mdlVertex
	BBoxMax   mdlVertex
}

type mdlFrame struct {
	name  string
	verts []mdlVertex
}

// DecodeMDL decodes a Quake MDL model. Skins are embedded as 8-bit images on
// the Quake palette and are split into diffuse and fullbright layers.
func DecodeMDL(data []byte, opts *Options) (*model.Model, error) {
	var h mdlHeader
	if err := readStruct(data, 0, &h); err != nil {
		if len(data) >= 4 && string(data[:4]) != mdlIdent {
			return nil, ErrInvalidMDLMagic
		}
		return nil, err
	}
	if string(h.Ident[:]) != mdlIdent {
		return nil, ErrInvalidMDLMagic
	}
	if h.Version != mdlVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMDLVersion, h.Version)
	}
	if h.SkinWidth <= 0 || h.SkinHeight <= 0 || int64(h.SkinWidth)*int64(h.SkinHeight) > int64(len(data)) {
		return nil, fmt.Errorf("%w: skin size %dx%d", ErrCorrupt, h.SkinWidth, h.SkinHeight)
	}
	if h.NumSkins < 0 || h.NumVerts < 0 || h.NumTris < 0 || h.NumFrames < 1 {
		return nil, fmt.Errorf("%w: %d skins, %d vertices, %d triangles, %d frames",
			ErrCorrupt, h.NumSkins, h.NumVerts, h.NumTris, h.NumFrames)
	}

	c := &cursor{data: data, off: binary.Size(h)}
	m := &model.Model{
		Flags:    h.Flags,
		SyncType: model.SyncType(h.SyncType),
	}

	images, err := readMDLSkins(c, &h, m)
	if err != nil {
		return nil, fmt.Errorf("reading skins: %w", err)
	}

	stverts, err := readSection[mdlSTVert](c, int(h.NumVerts))
	if err != nil {
		return nil, fmt.Errorf("reading texture coordinates: %w", err)
	}
	tris, err := readSection[mdlTriangle](c, int(h.NumTris))
	if err != nil {
		return nil, fmt.Errorf("reading triangles: %w", err)
	}

	frames, err := readMDLFrames(c, &h, m)
	if err != nil {
		return nil, fmt.Errorf("reading frames: %w", err)
	}

	corners := make([]weld.SeamCorner, 0, len(tris)*3)
	for i, tri := range tris {
		for _, v := range tri.Vertices {
			if v < 0 || v >= h.NumVerts {
				return nil, fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrCorrupt, i, v, h.NumVerts)
			}
			corners = append(corners, weld.SeamCorner{
				Vertex: int(v),
				Back:   stverts[v].OnSeam != 0 && tri.FacesFront == 0,
			})
		}
	}
	keys, remap := weld.Weld(corners)

	mesh := model.NewMesh(mdlMesh, len(keys), len(tris), len(frames), len(images))
	copy(mesh.Indices, remap)

	w, hgt := float32(h.SkinWidth), float32(h.SkinHeight)
	for i, k := range keys {
		st := stverts[k.Vertex]
		s := st.S
		if k.Back {
			s += h.SkinWidth >> 1
		}
		mesh.TexCoords[i*2] = (float32(s) + 0.5) / w
		mesh.TexCoords[i*2+1] = (float32(st.T) + 0.5) / hgt
	}

	grid := quantize.Grid{Scale: vec3(h.Scale), Origin: vec3(h.Origin)}
	for f, frame := range frames {
		for i, k := range keys {
			v := frame.verts[k.Vertex]
			grid.Decode([3]uint8{v[0], v[1], v[2]}).Put(mesh.Positions, (f*len(keys)+i)*3)
			anorms.Decompress(v[3]).Put(mesh.Normals, (f*len(keys)+i)*3)
		}
	}

	pal := palette.Quake()
	for i, pix := range images {
		img := &palette.Indexed{Width: int(h.SkinWidth), Height: int(h.SkinHeight), Pix: pix, Palette: pal}
		mesh.Textures[i].Diffuse, mesh.Textures[i].Fullbright = img.Split()
	}

	m.Meshes = []*model.Mesh{mesh}
	return m, nil
}

func readMDLSkins(c *cursor, h *mdlHeader, m *model.Model) ([][]byte, error) {
	size := int(h.SkinWidth) * int(h.SkinHeight)
	var images [][]byte

	for i := 0; i < int(h.NumSkins); i++ {
		var kind int32
		if err := c.read(&kind); err != nil {
			return nil, err
		}
		switch kind {
		case mdlSingle:
			pix, err := c.bytes(size)
			if err != nil {
				return nil, err
			}
			m.SingleSkins(DefaultInterval, fmt.Sprintf("skin%d", len(images)))
			images = append(images, pix)

		case mdlGroup:
			var count int32
			if err := c.read(&count); err != nil {
				return nil, err
			}
			if count < 1 {
				return nil, fmt.Errorf("%w: skin group %d has %d skins", ErrCorrupt, i, count)
			}
			intervals, err := readSection[float32](c, int(count))
			if err != nil {
				return nil, err
			}
			group := model.SkinGroup{Interval: intervals[0]}
			for j := 0; j < int(count); j++ {
				pix, err := c.bytes(size)
				if err != nil {
					return nil, err
				}
				group.Skins = append(group.Skins, model.SubSkin{
					Name:   fmt.Sprintf("skin%d_%d", i, j),
					Offset: len(images),
				})
				images = append(images, pix)
			}
			m.SkinGroups = append(m.SkinGroups, group)

		default:
			return nil, fmt.Errorf("%w: skin %d has type %d", ErrCorrupt, i, kind)
		}
	}
	return images, nil
}

func readMDLFrames(c *cursor, h *mdlHeader, m *model.Model) ([]mdlFrame, error) {
	var frames []mdlFrame

	readFrame := func() error {
		var fh mdlFrameHeader
		if err := c.read(&fh); err != nil {
			return err
		}
		verts, err := readSection[mdlVertex](c, int(h.NumVerts))
		if err != nil {
			return err
		}
		frames = append(frames, mdlFrame{name: encoding.FixedString(fh.Name[:]), verts: verts})
		return nil
	}

	for i := 0; i < int(h.NumFrames); i++ {
		var kind int32
		if err := c.read(&kind); err != nil {
			return nil, err
		}
		switch kind {
		case mdlSingle:
			if err := readFrame(); err != nil {
				return nil, err
			}
			last := frames[len(frames)-1]
			m.SingleFrames(DefaultInterval, last.name)

		case mdlGroup:
			var gh mdlGroupHeader
			if err := c.read(&gh); err != nil {
				return nil, err
			}
			if gh.NumFrames < 1 {
				return nil, fmt.Errorf("%w: frame group %d has %d frames", ErrCorrupt, i, gh.NumFrames)
			}
			intervals, err := readSection[float32](c, int(gh.NumFrames))
			if err != nil {
				return nil, err
			}
			group := model.FrameGroup{Interval: intervals[0]}
			for j := 0; j < int(gh.NumFrames); j++ {
				if err := readFrame(); err != nil {
					return nil, err
				}
				group.Frames = append(group.Frames, model.SubFrame{
					Name:   frames[len(frames)-1].name,
					Offset: len(frames) - 1,
				})
			}
			m.FrameGroups = append(m.FrameGroups, group)

		default:
			return nil, fmt.Errorf("%w: frame %d has type %d", ErrCorrupt, i, kind)
		}
	}
	return frames, nil
}

// EncodeMDL encodes a model as Quake MDL. Multiple meshes are merged. Every
// skin is quantized to the Quake palette; all skins must share one size.
// Positions are quantized against one grid spanning every frame and the
// origin.
func EncodeMDL(m *model.Model, opts EncodeOptions) (*EncodeResult, error) {
	m, mesh, err := singleMesh(m)
	if err != nil {
		return nil, err
	}
	skins, err := indexedSkins(mesh, opts.palette(palette.Quake()))
	if err != nil {
		return nil, err
	}
	skinW, skinH := skins[0].Width, skins[0].Height

	// Bounds start at the zero vector, so the grid always spans the origin.
	var lo, hi math.Vec3
	for i := 0; i+2 < len(mesh.Positions); i += 3 {
		p := math.V3(mesh.Positions, i)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	grid := quantize.NewGrid(lo, hi)

	var dist [3]float32
	for i := range dist {
		dist[i] = hi.Index(i)
		if math32.Abs(lo.Index(i)) > math32.Abs(hi.Index(i)) {
			dist[i] = lo.Index(i)
		}
	}

	var size float32
	if n := mesh.NumTriangles(); n > 0 {
		for i := 0; i < n; i++ {
			t := mesh.Triangle(i)
			v0, v1, v2 := mesh.Position(0, t[0]), mesh.Position(0, t[1]), mesh.Position(0, t[2])
			size += v0.Sub(v1).Cross(v2.Sub(v1)).Length() * 0.5
		}
		size /= float32(n)
	}

	nv := mesh.NumVertices()
	packed := make([][]mdlVertex, m.TotalFrames())
	for f := range packed {
		packed[f] = make([]mdlVertex, nv)
		for v := 0; v < nv; v++ {
			p := grid.Encode(mesh.Position(f, v))
			packed[f][v] = mdlVertex{p[0], p[1], p[2], anorms.Compress(mesh.Normal(f, v))}
		}
	}

	skinGroups := m.SkinGroups
	if len(skinGroups) == 0 {
		skinGroups = []model.SkinGroup{{Interval: DefaultInterval, Skins: []model.SubSkin{{Name: "skin0"}}}}
	}

	hdr := mdlHeader{
		Version:    mdlVersion,
		Scale:      grid.Scale.Array(),
		Origin:     grid.Origin.Array(),
		Radius:     vec3(dist).Length(),
		NumSkins:   int32(len(skinGroups)),
		SkinWidth:  int32(skinW),
		SkinHeight: int32(skinH),
		NumVerts:   int32(nv),
		NumTris:    int32(mesh.NumTriangles()),
		NumFrames:  int32(len(m.FrameGroups)),
		SyncType:   int32(m.SyncType),
		Flags:      m.Flags,
		Size:       size,
	}
	copy(hdr.Ident[:], mdlIdent)

	var w writer
	w.put(hdr)

	for _, g := range skinGroups {
		if len(g.Skins) == 1 {
			w.put(int32(mdlSingle))
			w.Write(skins[g.Skins[0].Offset].Pix)
			continue
		}
		w.put(int32(mdlGroup))
		w.put(int32(len(g.Skins)))
		for j := range g.Skins {
			w.put(g.Interval * float32(j+1))
		}
		for _, s := range g.Skins {
			w.Write(skins[s.Offset].Pix)
		}
	}

	for v := 0; v < nv; v++ {
		s, t := mesh.TexCoord(v)
		w.put(mdlSTVert{S: int32(s * float32(skinW)), T: int32(t * float32(skinH))})
	}
	for i := 0; i < mesh.NumTriangles(); i++ {
		t := mesh.Triangle(i)
		w.put(mdlTriangle{FacesFront: 1, Vertices: [3]int32{int32(t[0]), int32(t[1]), int32(t[2])}})
	}

	for _, g := range m.FrameGroups {
		if len(g.Frames) > 1 {
			var all []mdlVertex
			for _, f := range g.Frames {
				all = append(all, packed[f.Offset]...)
			}
			lo, hi := packedBounds(all)
			w.put(int32(mdlGroup))
			w.put(mdlGroupHeader{NumFrames: int32(len(g.Frames)), BBoxMin: lo, BBoxMax: hi})
			for j := range g.Frames {
				w.put(g.Interval * float32(j+1))
			}
		} else {
			w.put(int32(mdlSingle))
		}
		for _, f := range g.Frames {
			lo, hi := packedBounds(packed[f.Offset])
			w.put(mdlFrameHeader{BBoxMin: lo, BBoxMax: hi, Name: name16(f.Name)})
			w.put(packed[f.Offset])
		}
	}

	res := &EncodeResult{Data: w.Bytes()}
	if skinW&3 != 0 {
		res.warnf("skin width %d is not a multiple of 4; most engines will refuse or crash", skinW)
	}
	if skinH > 200 {
		res.warnf("skin height %d is greater than 200 and will not load in DOSQuake", skinH)
	}
	if !isPowerOfTwo(skinW) || !isPowerOfTwo(skinH) {
		res.warnf("skin size %dx%d is not a power of two and will be resampled badly in GLQuake", skinW, skinH)
	}
	if hdr.NumFrames > 256 {
		res.warnf("%d frames exceed the 256 supported by the default network protocol", hdr.NumFrames)
	}
	if nv > 1024 {
		res.warnf("%d vertices exceed the 1024 supported by GLQuake", nv)
	}
	if mesh.NumTriangles() > 2048 {
		res.warnf("%d triangles exceed the 2048 supported by GLQuake", mesh.NumTriangles())
	}
	return res, nil
}

// packedBounds returns the per-axis byte bounds of packed vertices. The
// normal byte of both results is zero.
func packedBounds(verts []mdlVertex) (lo, hi mdlVertex) {
	if len(verts) == 0 {
		return lo, hi
	}
	lo, hi = verts[0], verts[0]
	for _, v := range verts[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	lo[3], hi[3] = 0, 0
	return lo, hi
}
