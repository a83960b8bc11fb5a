package batch

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/aliasconv/internal/config"
	"github.com/Faultbox/aliasconv/internal/convert"
	"github.com/Faultbox/aliasconv/pkg/formats"
	"github.com/Faultbox/aliasconv/pkg/math"
	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

func triangle() *model.Model {
	m := &model.Model{}
	m.SingleFrames(formats.DefaultInterval, "frame1")
	m.SingleSkins(formats.DefaultInterval, "skin0")

	mesh := model.NewMesh("tri", 3, 1, 1, 1)
	copy(mesh.Indices, []int{0, 1, 2})
	copy(mesh.TexCoords, []float32{0, 0, 1, 0, 1, 1})
	for i, p := range []math.Vec3{{}, {X: 8}, {Y: 8}} {
		p.Put(mesh.Positions, i*3)
		math.Vec3{Z: 1}.Put(mesh.Normals, i*3)
	}
	mesh.Textures[0].Diffuse = texture.Fill(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	mesh.Textures[0].Fullbright = texture.Fill(8, 8, color.NRGBA{R: 255, A: 255})
	m.Meshes = []*model.Mesh{mesh}
	return m
}

// setupInput creates a tree with two valid models, one broken model and one
// unrelated file.
func setupInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	res, err := formats.EncodeMDL(triangle(), formats.EncodeOptions{})
	if err != nil {
		t.Fatalf("EncodeMDL failed: %v", err)
	}

	files := map[string][]byte{
		"a.mdl":          res.Data,
		"sub/b.mdl":      res.Data,
		"sub/broken.mdl": res.Data[:20],
		"readme.txt":     []byte("not a model"),
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	return dir
}

func newConverter(t *testing.T) *convert.Converter {
	t.Helper()
	c, err := convert.New(config.Default().Convert, nil, nil)
	if err != nil {
		t.Fatalf("convert.New failed: %v", err)
	}
	return c
}

func TestFind(t *testing.T) {
	dir := setupInput(t)
	files, err := Find(dir)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	want := []string{"a.mdl", filepath.Join("sub", "b.mdl"), filepath.Join("sub", "broken.mdl")}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], files[i])
		}
	}

	if _, err := Find(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRun(t *testing.T) {
	in := setupInput(t)
	out := t.TempDir()
	files, err := Find(in)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	m := Run(context.Background(), newConverter(t), Config{
		InputDir:         in,
		OutputDir:        out,
		OutputExt:        ".md2",
		Workers:          2,
		ProgressInterval: time.Millisecond,
	}, files)

	if m.RunID == "" {
		t.Error("expected a run id")
	}
	if m.Total != 3 || m.Failed != 1 {
		t.Errorf("expected 3 total and 1 failed, got %d and %d", m.Total, m.Failed)
	}

	for _, r := range m.Results {
		if strings.HasSuffix(r.Input, "broken.mdl") {
			if r.Success || r.Error == "" {
				t.Errorf("expected failure for %s", r.Input)
			}
			continue
		}
		if !r.Success {
			t.Errorf("%s failed: %s", r.Input, r.Error)
			continue
		}
		if _, err := os.Stat(r.Output); err != nil {
			t.Errorf("missing output %s: %v", r.Output, err)
		}
		if len(r.Files) != 1 || filepath.Ext(r.Files[0]) != ".pcx" {
			t.Errorf("expected one pcx skin for %s, got %v", r.Input, r.Files)
		}
	}

	if _, err := os.Stat(filepath.Join(out, "sub", "b.md2")); err != nil {
		t.Errorf("expected directory layout to be preserved: %v", err)
	}
}

func TestRunPreviews(t *testing.T) {
	in := setupInput(t)
	out := t.TempDir()

	m := Run(context.Background(), newConverter(t), Config{
		InputDir:      in,
		OutputDir:     out,
		OutputExt:     ".mdl",
		Workers:       1,
		Previews:      true,
		PreviewFormat: "png",
	}, []string{"a.mdl"})

	r := m.Results[0]
	if !r.Success {
		t.Fatalf("conversion failed: %s", r.Error)
	}
	if len(r.Previews) != 2 {
		t.Fatalf("expected diffuse and fullbright previews, got %v", r.Previews)
	}
	want := filepath.Join(out, "previews", "a_0_0.png")
	if r.Previews[0] != want {
		t.Errorf("expected %s, got %s", want, r.Previews[0])
	}
	if !strings.HasSuffix(r.Previews[1], "a_0_0_fb.png") {
		t.Errorf("unexpected fullbright preview name %s", r.Previews[1])
	}
}

func TestRunCancelled(t *testing.T) {
	in := setupInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := Run(ctx, newConverter(t), Config{
		InputDir:  in,
		OutputDir: t.TempDir(),
		OutputExt: ".md2",
	}, []string{"a.mdl", filepath.Join("sub", "b.mdl")})

	if m.Failed != 2 {
		t.Errorf("expected every file to be skipped, got %d failures", m.Failed)
	}
	for _, r := range m.Results {
		if r.Error != context.Canceled.Error() {
			t.Errorf("%s: expected cancellation error, got %q", r.Input, r.Error)
		}
	}
}

func TestWritePreviews(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"webp", "webp", false},
		{"png", "png", false},
		{"unknown", "bmp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "previews")
			files, err := WritePreviews(triangle(), dir, "tri", tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("WritePreviews failed: %v", err)
			}
			if len(files) != 2 {
				t.Fatalf("expected 2 files, got %v", files)
			}
			for _, f := range files {
				data, err := os.ReadFile(f)
				if err != nil {
					t.Fatalf("failed to read %s: %v", f, err)
				}
				if tt.format == "webp" {
					if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
						t.Errorf("preview %s is not a WebP file", f)
					}
					continue
				}
				if _, err := texture.Decode(f, data); err != nil {
					t.Errorf("preview %s does not decode: %v", f, err)
				}
			}
		})
	}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "manifest.yaml")
	m := &Manifest{
		RunID:    "run-1",
		Started:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration: 1500 * time.Millisecond,
		Total:    2,
		Failed:   1,
		Results: []Result{
			{Input: "a.mdl", Output: "out/a.md2", Success: true, Files: []string{"out/a.pcx"}},
			{Input: "b.mdl", Error: "truncated"},
		},
	}
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if got.RunID != m.RunID || !got.Started.Equal(m.Started) || got.Duration != m.Duration {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Results) != 2 || got.Results[1].Error != "truncated" || got.Results[0].Files[0] != "out/a.pcx" {
		t.Errorf("results mismatch: %+v", got.Results)
	}

	if _, err := ReadManifest(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
