// Package config handles converter configuration loading and management.
package config

import (
	"fmt"
	"strings"
)

// MaxTextureSize is the largest skin width or height accepted for resizing.
const MaxTextureSize = 4096

// KeepFlags leaves the model's own effect flags untouched.
const KeepFlags = -1

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Assets  AssetsConfig  `yaml:"assets"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds per-model overrides applied between decode and encode.
type ConvertConfig struct {
	TexWidth  int    `yaml:"tex_width"`  // 0 keeps the skin width
	TexHeight int    `yaml:"tex_height"` // 0 keeps the skin height
	Flags     int32  `yaml:"flags"`      // KeepFlags keeps the model flags
	SyncType  string `yaml:"synctype"`   // "", "sync" or "rand"
	Texture   string `yaml:"texture"`    // replaces every skin's diffuse layer
	Palette   string `yaml:"palette"`    // 768-byte RGB palette file
	ExportGLB bool   `yaml:"export_glb"` // also write a .glb preview
}

// AssetsConfig lists where referenced skins are searched for.
type AssetsConfig struct {
	Dirs []string `yaml:"dirs"`
	Paks []string `yaml:"paks"`
}

// BatchConfig holds directory conversion settings.
type BatchConfig struct {
	Workers       int    `yaml:"workers"` // 0 uses one worker per CPU
	OutputExt     string `yaml:"output_ext"`
	Previews      bool   `yaml:"previews"`
	PreviewFormat string `yaml:"preview_format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Flags: KeepFlags,
		},
		Batch: BatchConfig{
			OutputExt:     ".md2",
			PreviewFormat: "webp",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges that the YAML decoder cannot.
func (c *Config) Validate() error {
	if c.Convert.TexWidth < 0 || c.Convert.TexWidth > MaxTextureSize {
		return fmt.Errorf("texture width %d out of range [0, %d]", c.Convert.TexWidth, MaxTextureSize)
	}
	if c.Convert.TexHeight < 0 || c.Convert.TexHeight > MaxTextureSize {
		return fmt.Errorf("texture height %d out of range [0, %d]", c.Convert.TexHeight, MaxTextureSize)
	}
	switch c.Convert.SyncType {
	case "", "sync", "rand":
	default:
		return fmt.Errorf("unknown synctype %q (want sync or rand)", c.Convert.SyncType)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("worker count %d is negative", c.Batch.Workers)
	}
	if !strings.HasPrefix(c.Batch.OutputExt, ".") {
		return fmt.Errorf("output extension %q must start with a dot", c.Batch.OutputExt)
	}
	switch c.Batch.PreviewFormat {
	case "webp", "png":
	default:
		return fmt.Errorf("unknown preview format %q (want webp or png)", c.Batch.PreviewFormat)
	}
	return nil
}
