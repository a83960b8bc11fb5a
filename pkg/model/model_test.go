package model

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/Faultbox/aliasconv/pkg/math"
)

// quad builds a one-mesh model with a 4-vertex quad and the given frame count.
func quad(name string, frames int, shift float32) *Mesh {
	mesh := NewMesh(name, 4, 2, frames, 1)
	copy(mesh.Indices, []int{0, 1, 2, 0, 2, 3})
	copy(mesh.TexCoords, []float32{0, 0, 1, 0, 1, 1, 0, 1})
	for f := 0; f < frames; f++ {
		for v := 0; v < 4; v++ {
			math.Vec3{X: float32(v) + shift, Y: float32(f), Z: 0}.Put(mesh.Positions, (f*4+v)*3)
			math.Vec3{Z: 1}.Put(mesh.Normals, (f*4+v)*3)
		}
	}
	return mesh
}

func testModel(frames int, meshes ...*Mesh) *Model {
	m := &Model{Meshes: meshes}
	names := make([]string, frames)
	for i := range names {
		names[i] = "frame"
	}
	m.SingleFrames(0.1, names...)
	m.SingleSkins(0.1, "skin0")
	return m
}

func TestCounts(t *testing.T) {
	m := testModel(3, quad("a", 3, 0))
	m.FrameGroups = append(m.FrameGroups, FrameGroup{
		Interval: 0.2,
		Frames:   []SubFrame{{Name: "run1", Offset: 3}, {Name: "run2", Offset: 4}},
	})

	if got := m.TotalFrames(); got != 5 {
		t.Errorf("TotalFrames() = %d, want 5", got)
	}
	if got := m.TotalSkins(); got != 1 {
		t.Errorf("TotalSkins() = %d, want 1", got)
	}
	frames := m.Frames()
	if frames[4].Name != "run2" || frames[4].Offset != 4 {
		t.Errorf("Frames()[4] = %+v", frames[4])
	}
	if f, ok := m.Frame(3); !ok || f.Name != "run1" {
		t.Errorf("Frame(3) = %+v, %v", f, ok)
	}
	for _, i := range []int{-1, 5} {
		if _, ok := m.Frame(i); ok {
			t.Errorf("Frame(%d) should be out of range", i)
		}
	}

	mesh := m.Meshes[0]
	if mesh.NumVertices() != 4 || mesh.NumTriangles() != 2 {
		t.Errorf("mesh has %d vertices and %d triangles", mesh.NumVertices(), mesh.NumTriangles())
	}
	if got := mesh.Position(2, 1); got != (math.Vec3{X: 1, Y: 2}) {
		t.Errorf("Position(2,1) = %v", got)
	}
	if got := mesh.Triangle(1); got != [3]int{0, 2, 3} {
		t.Errorf("Triangle(1) = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Model)
		wantErr bool
	}{
		{"valid", func(m *Model) {}, false},
		{"index out of range", func(m *Model) { m.Meshes[0].Indices[4] = 4 }, true},
		{"short positions", func(m *Model) { m.Meshes[0].Positions = m.Meshes[0].Positions[:3] }, true},
		{"missing texture slot", func(m *Model) { m.Meshes[0].Textures = nil }, true},
		{"tag without transforms", func(m *Model) { m.Tags = []Tag{{Name: "tag_weapon"}} }, true},
		{"tag per frame", func(m *Model) {
			m.Tags = []Tag{{Name: "tag_weapon", Transforms: []math.Mat3x4{math.Identity3x4(), math.Identity3x4()}}}
		}, false},
		{"empty frame group", func(m *Model) { m.FrameGroups = append(m.FrameGroups, FrameGroup{}) }, true},
		{"frame offset out of range", func(m *Model) { m.FrameGroups[0].Frames[0].Offset = 7 }, true},
		{"empty skin group", func(m *Model) { m.SkinGroups = append(m.SkinGroups, SkinGroup{}) }, true},
		{"skin offset out of range", func(m *Model) { m.SkinGroups[0].Skins[0].Offset = 3 }, true},
		{"negative skin offset", func(m *Model) { m.SkinGroups[0].Skins[0].Offset = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(2, quad("a", 2, 0))
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidModel) {
				t.Errorf("error %v does not wrap ErrInvalidModel", err)
			}
		})
	}
}

func TestMergeMeshes(t *testing.T) {
	a := quad("a", 2, 0)
	b := quad("b", 2, 10)
	a.Textures[0].Diffuse = image.NewNRGBA(image.Rect(0, 0, 8, 8))
	m := testModel(2, a, b)

	if err := m.MergeMeshes(); err != nil {
		t.Fatalf("MergeMeshes: %v", err)
	}
	if len(m.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(m.Meshes))
	}
	merged := m.Meshes[0]
	if merged.NumVertices() != 8 || merged.NumTriangles() != 4 {
		t.Fatalf("merged mesh has %d vertices, %d triangles", merged.NumVertices(), merged.NumTriangles())
	}

	wantIdx := []int{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	if !reflect.DeepEqual(merged.Indices, wantIdx) {
		t.Errorf("Indices = %v, want %v", merged.Indices, wantIdx)
	}

	// Frame-major layout: frame 1 of mesh b follows frame 1 of mesh a.
	for f := 0; f < 2; f++ {
		for v := 0; v < 4; v++ {
			if got, want := merged.Position(f, v), a.Position(f, v); got != want {
				t.Errorf("frame %d vertex %d = %v, want %v", f, v, got, want)
			}
			if got, want := merged.Position(f, 4+v), b.Position(f, v); got != want {
				t.Errorf("frame %d vertex %d = %v, want %v", f, 4+v, got, want)
			}
		}
	}
	if merged.Textures[0].Diffuse == nil {
		t.Error("merged mesh lost the first mesh's texture")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("merged model invalid: %v", err)
	}
}

func TestMergeMeshesEmpty(t *testing.T) {
	m := &Model{}
	if err := m.MergeMeshes(); !errors.Is(err, ErrNoMeshes) {
		t.Errorf("expected ErrNoMeshes, got %v", err)
	}
}

func TestClone(t *testing.T) {
	mesh := quad("a", 1, 0)
	mesh.Textures[0].Diffuse = image.NewNRGBA(image.Rect(0, 0, 2, 2))
	m := testModel(1, mesh)

	c := m.Clone()
	c.Meshes[0].Positions[0] = 99
	c.Meshes[0].Textures[0].Diffuse.Pix[0] = 7
	c.FrameGroups[0].Frames[0].Name = "changed"

	if m.Meshes[0].Positions[0] == 99 {
		t.Error("clone shares positions")
	}
	if m.Meshes[0].Textures[0].Diffuse.Pix[0] == 7 {
		t.Error("clone shares images")
	}
	if m.FrameGroups[0].Frames[0].Name == "changed" {
		t.Error("clone shares frame groups")
	}
}

func TestSyncTypeString(t *testing.T) {
	if SyncRand.String() != "rand" || SyncSync.String() != "sync" {
		t.Errorf("unexpected names %q %q", SyncSync, SyncRand)
	}
}
