package formats

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/aliasconv/pkg/model"
	"github.com/Faultbox/aliasconv/pkg/texture"
)

// EncodeGLB exports m as a binary glTF for inspection in modern tools. Frame
// 0 is the base geometry and every later frame is a morph target holding
// position and normal deltas. The first skin of each mesh becomes its base
// color texture. Tags are exported as empty nodes whose extras list the
// per-frame transforms.
func EncodeGLB(m *model.Model, opts EncodeOptions) (*EncodeResult, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotEncode, err)
	}
	if len(m.Meshes) == 0 {
		return nil, fmt.Errorf("%w: model has no meshes", ErrCannotEncode)
	}
	frames := m.Frames()
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: model has no frames", ErrCannotEncode)
	}

	names := make([]string, len(frames))
	for i, f := range frames {
		names[i] = f.Name
	}

	doc := gltf.NewDocument()
	for _, mesh := range m.Meshes {
		prim, err := glbPrimitive(doc, mesh, frames)
		if err != nil {
			return nil, err
		}
		gm := &gltf.Mesh{
			Name:       mesh.Name,
			Primitives: []*gltf.Primitive{prim},
			Extras:     map[string]any{"targetNames": names[1:]},
		}
		if len(frames) > 1 {
			gm.Weights = make([]float64, len(frames)-1)
		}
		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: mesh.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	for _, tag := range m.Tags {
		transforms := make([][12]float32, len(frames))
		for i, f := range frames {
			x := tag.Transforms[f.Offset]
			transforms[i] = [12]float32{
				x[0][0], x[0][1], x[0][2], x[0][3],
				x[1][0], x[1][1], x[1][2], x[1][3],
				x[2][0], x[2][1], x[2][2], x[2][3],
			}
		}
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:   tag.Name,
			Extras: map[string]any{"tag": true, "transforms": transforms},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding glTF: %w", err)
	}
	return &EncodeResult{Data: buf.Bytes()}, nil
}

func glbPrimitive(doc *gltf.Document, mesh *model.Mesh, frames []model.SubFrame) (*gltf.Primitive, error) {
	nv := mesh.NumVertices()

	vec3s := func(flat []float32) [][3]float32 {
		out := make([][3]float32, nv)
		for i := range out {
			out[i] = [3]float32{flat[i*3], flat[i*3+1], flat[i*3+2]}
		}
		return out
	}
	delta := func(a, b [][3]float32) [][3]float32 {
		out := make([][3]float32, len(a))
		for i := range a {
			out[i] = [3]float32{a[i][0] - b[i][0], a[i][1] - b[i][1], a[i][2] - b[i][2]}
		}
		return out
	}

	base := frames[0].Offset
	basePos := vec3s(mesh.FramePositions(base))
	baseNrm := vec3s(mesh.FrameNormals(base))

	uvs := make([][2]float32, nv)
	for i := range uvs {
		uvs[i][0], uvs[i][1] = mesh.TexCoord(i)
	}
	indices := make([]uint32, len(mesh.Indices))
	for i, idx := range mesh.Indices {
		indices[i] = uint32(idx)
	}

	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION:   modeler.WritePosition(doc, basePos),
			gltf.NORMAL:     modeler.WriteNormal(doc, baseNrm),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
	}

	for _, f := range frames[1:] {
		pos := delta(vec3s(mesh.FramePositions(f.Offset)), basePos)
		nrm := delta(vec3s(mesh.FrameNormals(f.Offset)), baseNrm)
		prim.Targets = append(prim.Targets, gltf.PrimitiveAttributes{
			gltf.POSITION: modeler.WritePosition(doc, pos),
			gltf.NORMAL:   modeler.WriteNormal(doc, nrm),
		})
	}

	if len(mesh.Textures) > 0 && mesh.Textures[0].Diffuse != nil {
		var png bytes.Buffer
		if err := texture.EncodePNG(&png, mesh.Textures[0].Diffuse); err != nil {
			return nil, fmt.Errorf("encoding skin of mesh %q: %w", mesh.Name, err)
		}
		img, err := modeler.WriteImage(doc, mesh.Name, "image/png", &png)
		if err != nil {
			return nil, fmt.Errorf("embedding skin of mesh %q: %w", mesh.Name, err)
		}
		doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: mesh.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorTexture: &gltf.TextureInfo{Index: len(doc.Textures) - 1},
				MetallicFactor:   gltf.Float(0),
			},
		})
		prim.Material = gltf.Index(len(doc.Materials) - 1)
	}
	return prim, nil
}
