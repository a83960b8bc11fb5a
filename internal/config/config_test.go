package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Convert.Flags != KeepFlags {
		t.Errorf("expected flags %d, got %d", KeepFlags, cfg.Convert.Flags)
	}
	if cfg.Convert.TexWidth != 0 || cfg.Convert.TexHeight != 0 {
		t.Errorf("expected skins to keep their size, got %dx%d", cfg.Convert.TexWidth, cfg.Convert.TexHeight)
	}
	if cfg.Convert.ExportGLB {
		t.Error("expected glb export to be off by default")
	}
	if cfg.Batch.OutputExt != ".md2" {
		t.Errorf("expected output extension .md2, got %s", cfg.Batch.OutputExt)
	}
	if cfg.Batch.PreviewFormat != "webp" {
		t.Errorf("expected preview format webp, got %s", cfg.Batch.PreviewFormat)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "modelconv.yaml")

	yamlContent := `
convert:
  tex_width: 256
  tex_height: 128
  flags: 8
  synctype: rand
  texture: "skins/replacement.tga"
  export_glb: true

assets:
  dirs: ["id1", "baseq2"]
  paks: ["id1/pak0.pak"]

batch:
  workers: 4
  output_ext: ".mdl"
  previews: true
  preview_format: png

logging:
  level: "debug"
  log_file: "convert.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Convert.TexWidth != 256 || cfg.Convert.TexHeight != 128 {
		t.Errorf("expected 256x128, got %dx%d", cfg.Convert.TexWidth, cfg.Convert.TexHeight)
	}
	if cfg.Convert.Flags != 8 {
		t.Errorf("expected flags 8, got %d", cfg.Convert.Flags)
	}
	if cfg.Convert.SyncType != "rand" {
		t.Errorf("expected synctype rand, got %s", cfg.Convert.SyncType)
	}
	if cfg.Convert.Texture != "skins/replacement.tga" {
		t.Errorf("unexpected texture %s", cfg.Convert.Texture)
	}
	if !cfg.Convert.ExportGLB {
		t.Error("expected export_glb to be true")
	}
	if len(cfg.Assets.Dirs) != 2 || cfg.Assets.Paks[0] != "id1/pak0.pak" {
		t.Errorf("unexpected assets: %+v", cfg.Assets)
	}
	if cfg.Batch.Workers != 4 || cfg.Batch.OutputExt != ".mdl" || !cfg.Batch.Previews || cfg.Batch.PreviewFormat != "png" {
		t.Errorf("unexpected batch settings: %+v", cfg.Batch)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "convert.log" {
		t.Errorf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "modelconv.yaml")
	if err := os.WriteFile(configPath, []byte("batch:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.OutputExt != ".md2" || cfg.Convert.Flags != KeepFlags {
		t.Error("values missing from the file should keep their defaults")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "convert:\n  tex_width: not a number\n  invalid syntax here\n"},
		{"unknown key", "convert:\n  texwidht: 64\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err != nil {
		t.Errorf("expected empty file to load, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/modelconv.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"max texture", func(c *Config) { c.Convert.TexWidth = MaxTextureSize }, false},
		{"texture too wide", func(c *Config) { c.Convert.TexWidth = MaxTextureSize + 1 }, true},
		{"negative height", func(c *Config) { c.Convert.TexHeight = -1 }, true},
		{"sync", func(c *Config) { c.Convert.SyncType = "sync" }, false},
		{"unknown synctype", func(c *Config) { c.Convert.SyncType = "random" }, true},
		{"negative workers", func(c *Config) { c.Batch.Workers = -2 }, true},
		{"extension without dot", func(c *Config) { c.Batch.OutputExt = "mdl" }, true},
		{"unknown preview format", func(c *Config) { c.Batch.PreviewFormat = "gif" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, fileName), []byte("batch:\n  workers: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", fileName)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", fileName)

	cfg := Default()
	cfg.Convert.TexWidth = 64
	cfg.Assets.Dirs = []string{"id1"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Convert.TexWidth != 64 || len(loaded.Assets.Dirs) != 1 {
		t.Errorf("saved config did not reload: %+v", loaded)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "texture flags",
			setup: func() {
				*flagTex = "skin.tga"
				*flagTexWidth = 128
				*flagTexHeight = 64
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.Texture != "skin.tga" {
					t.Errorf("expected texture skin.tga, got %s", cfg.Convert.Texture)
				}
				if cfg.Convert.TexWidth != 128 || cfg.Convert.TexHeight != 64 {
					t.Errorf("expected 128x64, got %dx%d", cfg.Convert.TexWidth, cfg.Convert.TexHeight)
				}
			},
			teardown: func() {
				*flagTex = ""
				*flagTexWidth = 0
				*flagTexHeight = 0
			},
		},
		{
			name: "model flags",
			setup: func() {
				*flagFlags = 0
				*flagSyncType = "sync"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.Flags != 0 {
					t.Errorf("expected flags 0, got %d", cfg.Convert.Flags)
				}
				if cfg.Convert.SyncType != "sync" {
					t.Errorf("expected synctype sync, got %s", cfg.Convert.SyncType)
				}
			},
			teardown: func() {
				*flagFlags = KeepFlags
				*flagSyncType = ""
			},
		},
		{
			name: "batch flags",
			setup: func() {
				*flagWorkers = 3
				*flagPreviews = true
				*flagGLB = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 3 || !cfg.Batch.Previews || !cfg.Convert.ExportGLB {
					t.Errorf("unexpected settings: %+v %+v", cfg.Batch, cfg.Convert)
				}
			},
			teardown: func() {
				*flagWorkers = 0
				*flagPreviews = false
				*flagGLB = false
			},
		},
		{
			name:  "asset flags",
			setup: func() { flagAssets = stringList{"id1", "id1/PAK0.PAK"} },
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Assets.Dirs) != 1 || cfg.Assets.Dirs[0] != "id1" {
					t.Errorf("unexpected dirs: %v", cfg.Assets.Dirs)
				}
				if len(cfg.Assets.Paks) != 1 || cfg.Assets.Paks[0] != "id1/PAK0.PAK" {
					t.Errorf("unexpected paks: %v", cfg.Assets.Paks)
				}
			},
			teardown: func() { flagAssets = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "modelconv.yaml")
	yamlContent := `
convert:
  tex_width: 256
  tex_height: 128
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagTexWidth = 512
	defer func() {
		*flagConfig = ""
		*flagTexWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Convert.TexWidth != 512 {
		t.Errorf("expected width 512 from flag, got %d", cfg.Convert.TexWidth)
	}
	if cfg.Convert.TexHeight != 128 {
		t.Errorf("expected height 128 from file, got %d", cfg.Convert.TexHeight)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	*flagSyncType = "sometimes"
	defer func() { *flagSyncType = "" }()

	*flagConfig = filepath.Join(t.TempDir(), "missing-is-not-searched.yaml")
	defer func() { *flagConfig = "" }()
	if _, err := Load(); err == nil {
		t.Error("expected error for missing explicit config")
	}

	*flagConfig = ""
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(); err == nil {
		t.Error("expected validation error for unknown synctype")
	}
}

func TestParseFlags(t *testing.T) {
	defer func() { *flagTexWidth = 0 }()

	args, err := ParseFlags([]string{"-texwidth", "32", "in.mdl", "out.md2"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if *flagTexWidth != 32 {
		t.Errorf("expected texwidth 32, got %d", *flagTexWidth)
	}
	if len(args) != 2 || args[0] != "in.mdl" {
		t.Errorf("unexpected positional args: %v", args)
	}
}
