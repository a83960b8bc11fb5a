// modelconv converts animated alias models between Quake MDL, Quake 2 MD2,
// Quake 3 MD3 and Daikatana DKM, and inspects them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/aliasconv/internal/assets"
	"github.com/Faultbox/aliasconv/internal/batch"
	"github.com/Faultbox/aliasconv/internal/config"
	"github.com/Faultbox/aliasconv/internal/convert"
	"github.com/Faultbox/aliasconv/internal/logger"
	"github.com/Faultbox/aliasconv/pkg/formats"
	"github.com/Faultbox/aliasconv/pkg/pak"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "convert", "c":
		err = cmdConvert(args)
	case "info":
		err = cmdInfo(args)
	case "dump":
		err = cmdDump(args)
	case "skins":
		err = cmdSkins(args)
	case "batch":
		err = cmdBatch(args)
	case "pak":
		err = cmdPak(args)
	case "formats":
		cmdFormats()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`modelconv - alias model converter

Usage:
  modelconv <command> [options] <args>

Commands:
  convert <input> <output>        Convert a model; format chosen by extension
  info <model>                    Show model information
  dump <model> [output.txt]       Write a text analysis (stdout by default)
  skins <model> <dir>             Export skins as webp or png previews
  batch <input_dir> <output_dir>  Convert every model in a directory tree
  pak <file.pak> [pattern]        List the contents of a PAK archive
  formats                         List supported formats

Options:
  -config <file>     Config file (default ./modelconv.yaml)
  -assets <path>     Directory or .pak to search for skins (repeatable)
  -tex <image>       Replace every skin with this image
  -texwidth <n>      Resize skins to this width
  -texheight <n>     Resize skins to this height
  -flags <n>         Set model effect flags
  -synctype <s>      Set animation sync type (sync or rand)
  -palette <file>    Quantize skins with this 768-byte palette
  -glb               Also write a .glb preview next to the output
  -workers <n>       Batch worker count (default: CPU count)
  -previews          Export skin previews in batch mode
  -debug             Enable debug logging

Examples:
  modelconv convert progs/player.mdl player.md2
  modelconv convert -assets baseq2 -texwidth 256 tris.md2 tris.mdl
  modelconv batch -workers 8 -previews models/ out/`)
}

// env is the state shared by every command: parsed configuration, the
// positional arguments and the skin search path.
type env struct {
	cfg    *config.Config
	args   []string
	assets *assets.Manager
	log    *zap.Logger
}

func setup(args []string, minArgs int, usage string) (*env, error) {
	rest, err := config.ParseFlags(args)
	if err != nil {
		return nil, err
	}
	if len(rest) < minArgs {
		return nil, fmt.Errorf("usage: modelconv %s", usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}

	mgr := assets.NewManager(logger.Named("assets"))
	for _, dir := range cfg.Assets.Dirs {
		if err := mgr.AddDir(dir); err != nil {
			return nil, err
		}
	}
	for _, p := range cfg.Assets.Paks {
		if err := mgr.AddArchive(p); err != nil {
			return nil, err
		}
	}
	// Skins referenced by relative name are found next to the input as a
	// last resort.
	if len(rest) > 0 {
		if dir := filepath.Dir(rest[0]); dir != "" {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				mgr.AddDir(dir)
			}
		}
	}

	return &env{cfg: cfg, args: rest, assets: mgr, log: logger.Named("modelconv")}, nil
}

func (e *env) converter() (*convert.Converter, error) {
	return convert.New(e.cfg.Convert, e.assets, logger.Named("convert"))
}

func cmdConvert(args []string) error {
	e, err := setup(args, 2, "convert [options] <input> <output>")
	if err != nil {
		return err
	}
	defer e.assets.Close()

	conv, err := e.converter()
	if err != nil {
		return err
	}
	res, err := conv.Convert(e.args[0], e.args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Wrote: %s (%d frames, %d skins)\n", res.Output, res.Frames, res.Skins)
	for _, f := range res.Files {
		fmt.Printf("Wrote: %s\n", f)
	}
	for _, w := range res.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return nil
}

func cmdInfo(args []string) error {
	e, err := setup(args, 1, "info [options] <model>")
	if err != nil {
		return err
	}
	defer e.assets.Close()

	conv, err := e.converter()
	if err != nil {
		return err
	}
	path := e.args[0]
	m, err := conv.Load(path)
	if err != nil {
		return err
	}

	f, _ := formats.Lookup(path)
	fmt.Printf("File:     %s\n", path)
	fmt.Printf("Format:   %s\n", f.Name)
	fmt.Printf("Frames:   %d in %d groups\n", m.TotalFrames(), len(m.FrameGroups))
	fmt.Printf("Skins:    %d in %d groups\n", m.TotalSkins(), len(m.SkinGroups))
	fmt.Printf("Flags:    %d\n", m.Flags)
	fmt.Printf("Sync:     %s\n", m.SyncType)
	fmt.Printf("Offset:   %.3f %.3f %.3f\n", m.Offset.X, m.Offset.Y, m.Offset.Z)
	if len(m.Tags) > 0 {
		names := make([]string, len(m.Tags))
		for i, t := range m.Tags {
			names[i] = t.Name
		}
		fmt.Printf("Tags:     %s\n", strings.Join(names, ", "))
	}
	fmt.Println()

	fmt.Println("Meshes:")
	for _, mesh := range m.Meshes {
		w, h := 0, 0
		for _, t := range mesh.Textures {
			if t.Diffuse != nil {
				w, h = t.Diffuse.Bounds().Dx(), t.Diffuse.Bounds().Dy()
				break
			}
		}
		fmt.Printf("  %-20s %6d verts %6d tris  skin %dx%d\n", mesh.Name, mesh.NumVertices(), mesh.NumTriangles(), w, h)
	}

	if strings.EqualFold(filepath.Ext(path), ".md2") {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cmds, err := formats.ReadMD2Commands(data)
		if err != nil {
			e.log.Warn("unreadable GL commands", zap.Error(err))
			return nil
		}
		strips, tris := 0, 0
		for _, c := range cmds {
			if !c.Fan {
				strips++
			}
			tris += len(c.Triangles())
		}
		fmt.Println()
		fmt.Printf("GL commands: %d (%d strips, %d fans) covering %d triangles\n", len(cmds), strips, len(cmds)-strips, tris)
	}
	return nil
}

func cmdDump(args []string) error {
	e, err := setup(args, 1, "dump [options] <model> [output.txt]")
	if err != nil {
		return err
	}
	defer e.assets.Close()

	conv, err := e.converter()
	if err != nil {
		return err
	}
	if len(e.args) > 1 {
		_, err := conv.Convert(e.args[0], e.args[1])
		return err
	}

	m, err := conv.Load(e.args[0])
	if err != nil {
		return err
	}
	conv.Apply(m)
	res, err := formats.EncodeText(m, formats.EncodeOptions{Source: e.args[0]})
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(res.Data)
	return err
}

func cmdSkins(args []string) error {
	e, err := setup(args, 2, "skins [options] <model> <dir>")
	if err != nil {
		return err
	}
	defer e.assets.Close()

	conv, err := e.converter()
	if err != nil {
		return err
	}
	m, err := conv.Load(e.args[0])
	if err != nil {
		return err
	}
	conv.Apply(m)

	base := strings.TrimSuffix(filepath.Base(e.args[0]), filepath.Ext(e.args[0]))
	files, err := batch.WritePreviews(m, e.args[1], base, e.cfg.Batch.PreviewFormat)
	for _, f := range files {
		fmt.Printf("Wrote: %s\n", f)
	}
	if len(files) == 0 && err == nil {
		fmt.Fprintln(os.Stderr, "Model has no skins")
	}
	return err
}

func cmdBatch(args []string) error {
	e, err := setup(args, 2, "batch [options] <input_dir> <output_dir>")
	if err != nil {
		return err
	}
	defer e.assets.Close()

	conv, err := e.converter()
	if err != nil {
		return err
	}
	inDir, outDir := e.args[0], e.args[1]
	inputs, err := batch.Find(inDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no models found in %s", inDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := batch.Run(ctx, conv, batch.Config{
		InputDir:      inDir,
		OutputDir:     outDir,
		OutputExt:     e.cfg.Batch.OutputExt,
		Workers:       e.cfg.Batch.Workers,
		Previews:      e.cfg.Batch.Previews,
		PreviewFormat: e.cfg.Batch.PreviewFormat,
		Logger:        logger.Named("batch"),
	}, inputs)

	manifest := filepath.Join(outDir, "manifest.yaml")
	if err := batch.WriteManifest(manifest, m); err != nil {
		return err
	}

	fmt.Printf("Converted %d of %d models in %s\n", m.Total-m.Failed, m.Total, m.Duration.Round(time.Millisecond))
	fmt.Printf("Manifest: %s\n", manifest)
	if m.Failed > 0 {
		return fmt.Errorf("%d conversions failed", m.Failed)
	}
	return nil
}

func cmdPak(args []string) error {
	rest, err := config.ParseFlags(args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		return fmt.Errorf("usage: modelconv pak <file.pak> [pattern]")
	}

	archive, err := pak.Open(rest[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	files := archive.List()

	pattern := ""
	if len(rest) > 1 {
		pattern = strings.ToLower(rest[1])
	}

	count := 0
	for _, f := range files {
		if pattern != "" {
			matched, _ := filepath.Match(pattern, filepath.Base(f))
			if !matched && !strings.Contains(f, pattern) {
				continue
			}
		}
		entry, _ := archive.Stat(f)
		fmt.Printf("%10d  %s\n", entry.Size, f)
		count++
	}
	fmt.Fprintf(os.Stderr, "\n(%d of %d files)\n", count, len(files))
	return nil
}

func cmdFormats() {
	for _, f := range formats.Formats() {
		mode := ""
		if f.Decode != nil {
			mode += "r"
		}
		if f.Encode != nil {
			mode += "w"
		}
		fmt.Printf("  %-5s %-3s %s\n", f.Extension, mode, f.Name)
	}
}
