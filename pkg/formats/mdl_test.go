package formats

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/Faultbox/aliasconv/pkg/math"
	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/palette"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

func mdlSingleSkin(pix []byte) []byte {
	var w writer
	w.put(int32(mdlSingle))
	w.Write(pix)
	return w.Bytes()
}

func mdlSkinGroup(intervals []float32, pix ...[]byte) []byte {
	var w writer
	w.put(int32(mdlGroup))
	w.put(int32(len(pix)))
	w.put(intervals)
	for _, p := range pix {
		w.Write(p)
	}
	return w.Bytes()
}

func mdlSingleFrame(name string, verts []mdlVertex) []byte {
	var w writer
	w.put(int32(mdlSingle))
	w.put(mdlFrameHeader{Name: name16(name)})
	w.put(verts)
	return w.Bytes()
}

// buildMDL assembles an MDL with unit scale from pre-encoded skin and frame
// records.
func buildMDL(skinW, skinH int32, skins [][]byte, st []mdlSTVert, tris []mdlTriangle, frames [][]byte) []byte {
	h := mdlHeader{
		Version:    mdlVersion,
		Scale:      [3]float32{1, 1, 1},
		NumSkins:   int32(len(skins)),
		SkinWidth:  skinW,
		SkinHeight: skinH,
		NumVerts:   int32(len(st)),
		NumTris:    int32(len(tris)),
		NumFrames:  int32(len(frames)),
	}
	copy(h.Ident[:], mdlIdent)

	var w writer
	w.put(h)
	for _, s := range skins {
		w.Write(s)
	}
	w.put(st)
	w.put(tris)
	for _, f := range frames {
		w.Write(f)
	}
	return w.Bytes()
}

// seamMDL is a single triangle drawn twice: once front-facing and once
// back-facing through a seam vertex.
func seamMDL(skins [][]byte, tris []mdlTriangle) []byte {
	return buildMDL(8, 4, skins,
		[]mdlSTVert{{OnSeam: 32, S: 1, T: 0}, {S: 4, T: 0}, {S: 4, T: 3}},
		tris,
		[][]byte{mdlSingleFrame("base", []mdlVertex{{0, 0, 0, 4}, {8, 0, 0, 4}, {8, 8, 0, 4}})},
	)
}

var seamTris = []mdlTriangle{
	{FacesFront: 1, Vertices: [3]int32{0, 1, 2}},
	{FacesFront: 0, Vertices: [3]int32{0, 2, 1}},
}

func TestDecodeMDL_Seam(t *testing.T) {
	pix := make([]byte, 32)
	pix[5] = 250
	m, err := DecodeMDL(seamMDL([][]byte{mdlSingleSkin(pix)}, seamTris), nil)
	if err != nil {
		t.Fatalf("DecodeMDL failed: %v", err)
	}
	mesh := m.Meshes[0]

	if mesh.NumVertices() != 4 {
		t.Fatalf("expected 4 vertices, got %d", mesh.NumVertices())
	}
	want := []int{0, 1, 2, 3, 2, 1}
	for i, idx := range want {
		if mesh.Indices[i] != idx {
			t.Errorf("index %d = %d, want %d", i, mesh.Indices[i], idx)
		}
	}

	if s, _ := mesh.TexCoord(0); s != 1.5/8 {
		t.Errorf("front seam s = %v, want %v", s, 1.5/8)
	}
	if s, _ := mesh.TexCoord(3); s != 5.5/8 {
		t.Errorf("back seam s = %v, want %v", s, 5.5/8)
	}
	if mesh.Position(0, 3) != mesh.Position(0, 0) {
		t.Error("seam copy should share the position of its source vertex")
	}
	if got := mesh.Position(0, 2); got != (math.Vec3{X: 8, Y: 8}) {
		t.Errorf("vertex 2 = %v", got)
	}

	tex := mesh.Textures[0]
	if tex.Fullbright == nil {
		t.Fatal("expected a fullbright layer for index 250")
	}
	if c := tex.Diffuse.NRGBAAt(5, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("fullbright pixel should be black in the diffuse layer, got %v", c)
	}
	if c := tex.Fullbright.NRGBAAt(0, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("normal pixel should be black in the fullbright layer, got %v", c)
	}
	if m.Meshes[0].Name != mdlMesh || m.Skins()[0].Name != "skin0" {
		t.Errorf("unexpected names: mesh %q, skin %q", mesh.Name, m.Skins()[0].Name)
	}
}

func TestDecodeMDL_SkinGroup(t *testing.T) {
	a, b := make([]byte, 32), make([]byte, 32)
	b[0] = 15
	skins := [][]byte{mdlSkinGroup([]float32{0.3, 0.6}, a, b), mdlSingleSkin(a)}

	m, err := DecodeMDL(seamMDL(skins, seamTris), nil)
	if err != nil {
		t.Fatalf("DecodeMDL failed: %v", err)
	}

	if len(m.SkinGroups) != 2 || m.TotalSkins() != 3 {
		t.Fatalf("expected 2 skin groups and 3 skins, got %d and %d", len(m.SkinGroups), m.TotalSkins())
	}
	g := m.SkinGroups[0]
	if g.Interval != 0.3 {
		t.Errorf("expected group interval 0.3, got %v", g.Interval)
	}
	if g.Skins[0].Name != "skin0_0" || g.Skins[1].Name != "skin0_1" || g.Skins[1].Offset != 1 {
		t.Errorf("unexpected group skins: %+v", g.Skins)
	}
	if s := m.SkinGroups[1].Skins[0]; s.Name != "skin2" || s.Offset != 2 {
		t.Errorf("unexpected single skin: %+v", s)
	}
	if len(m.Meshes[0].Textures) != 3 {
		t.Errorf("expected 3 texture slots, got %d", len(m.Meshes[0].Textures))
	}
	if err := m.Validate(); err != nil {
		t.Errorf("decoded model is invalid: %v", err)
	}
}

func TestDecodeMDL_Errors(t *testing.T) {
	skins := [][]byte{mdlSingleSkin(make([]byte, 32))}
	valid := seamMDL(skins, seamTris)

	corrupt := func(offset int, v int32) []byte {
		data := append([]byte(nil), valid...)
		data[offset] = byte(v)
		data[offset+1] = byte(v >> 8)
		data[offset+2] = byte(v >> 16)
		data[offset+3] = byte(v >> 24)
		return data
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", append([]byte("IDP2"), valid[4:]...), ErrInvalidMDLMagic},
		{"bad version", corrupt(4, 7), ErrUnsupportedMDLVersion},
		{"truncated header", valid[:40], ErrTruncated},
		{"truncated frame", valid[:len(valid)-2], ErrTruncated},
		{"zero skin width", corrupt(52, 0), ErrCorrupt},
		{"no frames", corrupt(68, 0), ErrCorrupt},
		{"bad skin type", corrupt(84, 5), ErrCorrupt},
		{"vertex out of range", seamMDL(skins, []mdlTriangle{{FacesFront: 1, Vertices: [3]int32{0, 1, 7}}}), ErrCorrupt},
		{"empty skin group", seamMDL([][]byte{mdlSkinGroup(nil)}, seamTris), ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeMDL(tt.data, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if m != nil {
				t.Error("expected no model on failure")
			}
		})
	}
}

func TestMDLRoundTrip(t *testing.T) {
	pal := palette.Quake()
	rgb := pal.Colors[10]
	skin := texture.Fill(8, 4, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})

	src := quadModel([]float32{0, 3, 6}, skin)
	src.FrameGroups = []model.FrameGroup{
		{Interval: DefaultInterval, Frames: []model.SubFrame{{Name: "frame1", Offset: 0}}},
		{Interval: 0.2, Frames: []model.SubFrame{{Name: "frame2", Offset: 1}, {Name: "frame3", Offset: 2}}},
	}
	src.Flags = 8
	src.SyncType = 1

	res, err := EncodeMDL(src, EncodeOptions{})
	if err != nil {
		t.Fatalf("EncodeMDL failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	var h mdlHeader
	if err := readStruct(res.Data, 0, &h); err != nil {
		t.Fatalf("failed to read header: %v", err)
	}
	if !approx(h.Size, 50, 1e-3) {
		t.Errorf("expected average triangle size 50, got %v", h.Size)
	}
	if h.Origin[2] != 0 {
		t.Errorf("expected grid to include the origin, got Z origin %v", h.Origin[2])
	}

	m, err := DecodeMDL(res.Data, nil)
	if err != nil {
		t.Fatalf("DecodeMDL failed: %v", err)
	}
	if m.Flags != 8 || m.SyncType != 1 {
		t.Errorf("expected flags 8 and synctype 1, got %d and %d", m.Flags, m.SyncType)
	}
	if len(m.FrameGroups) != 2 || m.TotalFrames() != 3 {
		t.Fatalf("expected 2 frame groups and 3 frames, got %d and %d", len(m.FrameGroups), m.TotalFrames())
	}
	g := m.FrameGroups[1]
	if !approx(g.Interval, 0.2, 1e-6) || g.Frames[1].Name != "frame3" || g.Frames[1].Offset != 2 {
		t.Errorf("unexpected frame group: %+v", g)
	}

	mesh := m.Meshes[0]
	if mesh.NumVertices() != 4 {
		t.Fatalf("expected 4 vertices, got %d", mesh.NumVertices())
	}
	tolerance := h.Scale[0]/2 + 1e-4
	for f := 0; f < 3; f++ {
		for v := 0; v < 4; v++ {
			want := src.Meshes[0].Position(f, v)
			if got := mesh.Position(f, v); !approxVec(got, want, tolerance) {
				t.Errorf("frame %d vertex %d = %v, want %v", f, v, got, want)
			}
		}
	}
	for v := 0; v < 4; v++ {
		ws, wt := src.Meshes[0].TexCoord(v)
		s, tc := mesh.TexCoord(v)
		if !approx(s, ws, 1.0/8) || !approx(tc, wt, 1.0/4) {
			t.Errorf("texcoord %d = (%v, %v), want about (%v, %v)", v, s, tc, ws, wt)
		}
	}

	got := mesh.Textures[0].Diffuse.NRGBAAt(3, 2)
	if got.R != rgb[0] || got.G != rgb[1] || got.B != rgb[2] {
		t.Errorf("skin pixel = %v, want %v", got, rgb)
	}
	if mesh.Textures[0].Fullbright != nil {
		t.Error("expected no fullbright layer")
	}
}

func TestEncodeMDL_Warnings(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want []string
	}{
		{"classic", 8, 8, nil},
		{"odd width", 6, 4, []string{"multiple of 4", "power of two"}},
		{"tall", 8, 256, []string{"greater than 200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skin := texture.Fill(tt.w, tt.h, color.NRGBA{A: 255})
			res, err := EncodeMDL(quadModel([]float32{0}, skin), EncodeOptions{})
			if err != nil {
				t.Fatalf("EncodeMDL failed: %v", err)
			}
			if len(res.Warnings) != len(tt.want) {
				t.Fatalf("expected %d warnings, got %v", len(tt.want), res.Warnings)
			}
			for i, w := range tt.want {
				if !strings.Contains(res.Warnings[i], w) {
					t.Errorf("warning %d = %q, want it to mention %q", i, res.Warnings[i], w)
				}
			}
		})
	}
}

func TestEncodeMDL_BlankSkin(t *testing.T) {
	res, err := EncodeMDL(quadModel([]float32{0}, nil), EncodeOptions{})
	if err != nil {
		t.Fatalf("EncodeMDL failed: %v", err)
	}
	m, err := DecodeMDL(res.Data, nil)
	if err != nil {
		t.Fatalf("DecodeMDL failed: %v", err)
	}
	if m.TotalSkins() != 1 {
		t.Fatalf("expected one blank skin, got %d", m.TotalSkins())
	}
	if b := m.Meshes[0].Textures[0].Diffuse.Bounds(); b.Dx() != defaultSkinSize || b.Dy() != defaultSkinSize {
		t.Errorf("expected %dx%d blank skin, got %v", defaultSkinSize, defaultSkinSize, b)
	}
}
