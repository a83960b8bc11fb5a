package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

// WritePreviews exports every skin layer of m as an image in dir. Files are
// named <base>_<mesh>_<skin>.<format>, with a _fb suffix for fullbright
// layers. format is "webp" or "png".
func WritePreviews(m *model.Model, dir, base, format string) ([]string, error) {
	var encode func(io.Writer, image.Image) error
	switch format {
	case "webp":
		encode = texture.EncodeWebP
	case "png":
		encode = texture.EncodePNG
	default:
		return nil, errors.Errorf("unknown preview format %q", format)
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	var files []string
	for mi, mesh := range m.Meshes {
		for si, t := range mesh.Textures {
			layers := []struct {
				img    *image.NRGBA
				suffix string
			}{
				{t.Diffuse, ""},
				{t.Fullbright, "_fb"},
			}
			for _, l := range layers {
				if l.img == nil {
					continue
				}
				path := filepath.Join(dir, fmt.Sprintf("%s_%d_%d%s.%s", base, mi, si, l.suffix, format))
				if err := writeImage(path, l.img, encode); err != nil {
					return files, err
				}
				files = append(files, path)
			}
		}
	}
	return files, nil
}

func writeImage(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating preview")
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", filepath.Base(path))
	}
	return errors.Wrap(f.Close(), "closing preview")
}
