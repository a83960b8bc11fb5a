package formats

import (
	"bytes"
	"fmt"

	"github.com/Faultbox/aliasconv/pkg/model"
)

// EncodeText writes a human-readable analysis of m: frame groups, tags and
// every mesh's triangles, texture coordinates and per-frame vertices.
func EncodeText(m *model.Model, opts EncodeOptions) (*EncodeResult, error) {
	var b bytes.Buffer
	total := m.TotalFrames()

	fmt.Fprintf(&b, "Analysis of %s\n\n", opts.Source)
	fmt.Fprintf(&b, "total_frames = %d\n", total)
	fmt.Fprintf(&b, "num_frames = %d\n", len(m.FrameGroups))
	fmt.Fprintf(&b, "num_tags = %d\n", len(m.Tags))
	fmt.Fprintf(&b, "num_meshes = %d\n", len(m.Meshes))
	b.WriteString("\n")

	b.WriteString("frameinfos:\n")
	if len(m.FrameGroups) == 0 {
		b.WriteString("(none)\n")
	}
	for i, g := range m.FrameGroups {
		if len(g.Frames) == 1 {
			fmt.Fprintf(&b, "%d { name = %q }\n", i, g.Frames[0].Name)
			continue
		}
		fmt.Fprintf(&b, "%d {\n", i)
		fmt.Fprintf(&b, "\tframetime = %f,\n", g.Interval)
		for _, f := range g.Frames {
			fmt.Fprintf(&b, "\t{ name = %q, offset = %d }\n", f.Name, f.Offset)
		}
		b.WriteString("}\n")
	}
	b.WriteString("\n")

	b.WriteString("tags:\n")
	if len(m.Tags) == 0 {
		b.WriteString("(none)\n")
	}
	for i, t := range m.Tags {
		fmt.Fprintf(&b, "%d {\n", i)
		fmt.Fprintf(&b, "\tname = %q\n", t.Name)
		b.WriteString("\tframes = {\n")
		for j := 0; j < total && j < len(t.Transforms); j++ {
			x := t.Transforms[j]
			// Columns of the full 4x4 transform, one axis per group.
			fmt.Fprintf(&b, "\t\t%d { %f %f %f %f, %f %f %f %f, %f %f %f %f, %f %f %f %f }\n", j,
				x[0][0], x[1][0], x[2][0], float32(0),
				x[0][1], x[1][1], x[2][1], float32(0),
				x[0][2], x[1][2], x[2][2], float32(0),
				x[0][3], x[1][3], x[2][3], float32(1))
		}
		b.WriteString("\t}\n")
		b.WriteString("}\n")
	}
	b.WriteString("\n")

	b.WriteString("meshes:\n")
	if len(m.Meshes) == 0 {
		b.WriteString("(none)\n")
	}
	for i, mesh := range m.Meshes {
		nv := mesh.NumVertices()
		fmt.Fprintf(&b, "%d {\n", i)
		fmt.Fprintf(&b, "\tname = %q\n", mesh.Name)
		fmt.Fprintf(&b, "\tnum_triangles = %d\n", mesh.NumTriangles())
		fmt.Fprintf(&b, "\tnum_vertices = %d\n", nv)
		b.WriteString("\n")

		b.WriteString("\ttriangle3i = {\n")
		for j := 0; j < mesh.NumTriangles(); j++ {
			t := mesh.Triangle(j)
			fmt.Fprintf(&b, "\t\t%d => %d %d %d\n", j, t[0], t[1], t[2])
		}
		b.WriteString("\t}\n")

		b.WriteString("\ttexcoord2f = {\n")
		for j := 0; j < nv; j++ {
			s, t := mesh.TexCoord(j)
			fmt.Fprintf(&b, "\t\t%d => %f %f\n", j, s, t)
		}
		b.WriteString("\t}\n")
		b.WriteString("\n")

		b.WriteString("\tframes = {\n")
		for f := 0; f < total && (f+1)*nv*3 <= len(mesh.Positions); f++ {
			fmt.Fprintf(&b, "\t\tframe %d {\n", f)
			for v := 0; v < nv; v++ {
				p, n := mesh.Position(f, v), mesh.Normal(f, v)
				fmt.Fprintf(&b, "\t\t\tvertex %d { v = %f %f %f , n = %f %f %f }\n", v, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
			}
			b.WriteString("\t\t}\n")
		}
		b.WriteString("\t}\n")
		b.WriteString("}\n")
	}
	b.WriteString("\n")

	return &EncodeResult{Data: b.Bytes()}, nil
}
