package config

import (
	"flag"
	"path/filepath"
	"strings"
)

// stringList is a flag that may be given several times.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagTex       = flag.String("tex", "", "Replace every skin with this image")
	flagTexWidth  = flag.Int("texwidth", 0, "Resize skins to this width")
	flagTexHeight = flag.Int("texheight", 0, "Resize skins to this height")
	flagFlags     = flag.Int("flags", KeepFlags, "Set model effect flags")
	flagSyncType  = flag.String("synctype", "", "Set animation sync type (sync or rand)")
	flagPalette   = flag.String("palette", "", "Quantize skins with this 768-byte palette")
	flagGLB       = flag.Bool("glb", false, "Also write a .glb preview next to the output")
	flagWorkers   = flag.Int("workers", 0, "Number of batch workers")
	flagPreviews  = flag.Bool("previews", false, "Export skin previews in batch mode")
	flagAssets    stringList
)

func init() {
	flag.Var(&flagAssets, "assets", "Directory or .pak archive to search for skins (repeatable)")
}

// ParseFlags parses command-line flags from args and returns the remaining
// positional arguments.
func ParseFlags(args []string) ([]string, error) {
	if err := flag.CommandLine.Parse(args); err != nil {
		return nil, err
	}
	return flag.Args(), nil
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTex != "" {
		cfg.Convert.Texture = *flagTex
	}
	if *flagTexWidth > 0 {
		cfg.Convert.TexWidth = *flagTexWidth
	}
	if *flagTexHeight > 0 {
		cfg.Convert.TexHeight = *flagTexHeight
	}
	if *flagFlags != KeepFlags {
		cfg.Convert.Flags = int32(*flagFlags)
	}
	if *flagSyncType != "" {
		cfg.Convert.SyncType = *flagSyncType
	}
	if *flagPalette != "" {
		cfg.Convert.Palette = *flagPalette
	}
	if *flagGLB {
		cfg.Convert.ExportGLB = true
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagPreviews {
		cfg.Batch.Previews = true
	}
	for _, a := range flagAssets {
		if strings.EqualFold(filepath.Ext(a), ".pak") {
			cfg.Assets.Paks = append(cfg.Assets.Paks, a)
		} else {
			cfg.Assets.Dirs = append(cfg.Assets.Dirs, a)
		}
	}
}
