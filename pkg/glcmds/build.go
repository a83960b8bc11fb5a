// Package glcmds converts triangle lists to and from the MD2 rendering command
// stream, a sequence of triangle strips and fans.
//
// Build partitions triangles greedily: for every unconsumed triangle in index
// order it simulates a fan and a strip from each of the three corners and
// keeps the longest run. Runs only grow forward through the triangle list and
// stop at the first matching triangle that is already taken.
package glcmds

// Corner is one triangle corner: a position index and a texture coordinate index.
type Corner struct {
	Vertex   int
	TexCoord int
}

// Triangle is three corners in winding order.
type Triangle [3]Corner

// Run is one strip or fan.
type Run struct {
	Fan       bool
	Corners   []Corner
	Triangles []int
}

const (
	free = iota
	consumed
	pending
)

type builder struct {
	tris []Triangle
	used []uint8
}

// Build partitions tris into strips and fans. Every triangle appears in
// exactly one run.
func Build(tris []Triangle) []Run {
	b := &builder{tris: tris, used: make([]uint8, len(tris))}

	var runs []Run
	for i := range tris {
		if b.used[i] != free {
			continue
		}

		// Candidates in order: each start corner as a strip, then as a fan.
		// Only a strictly longer run replaces the current best.
		var best Run
		for startv := 0; startv < 3; startv++ {
			for _, fan := range []bool{false, true} {
				run := b.extend(i, startv, fan)
				if len(run.Triangles) > len(best.Triangles) {
					best = run
				}
			}
		}

		for _, t := range best.Triangles {
			b.used[t] = consumed
		}
		runs = append(runs, best)
	}
	return runs
}

// extend simulates one run starting at triangle start with the given first
// corner. Triangles added to the candidate are marked pending and released
// again before returning.
func (b *builder) extend(start, startv int, fan bool) Run {
	tri := b.tris[start]
	run := Run{
		Fan:       fan,
		Corners:   []Corner{tri[startv%3], tri[(startv+1)%3], tri[(startv+2)%3]},
		Triangles: []int{start},
	}
	b.used[start] = pending

	// The next triangle must contain the directed edge m1 -> m2.
	var m1, m2 Corner
	if fan {
		m1, m2 = run.Corners[0], run.Corners[2]
	} else {
		m1, m2 = run.Corners[2], run.Corners[1]
	}

	for {
		j, next, ok := b.findEdge(start, m1, m2)
		if !ok || b.used[j] != free {
			break
		}

		switch {
		case fan:
			m2 = next
		case len(run.Triangles)%2 == 1:
			m2 = next
		default:
			m1 = next
		}
		run.Corners = append(run.Corners, next)
		run.Triangles = append(run.Triangles, j)
		b.used[j] = pending
	}

	for j := start + 1; j < len(b.used); j++ {
		if b.used[j] == pending {
			b.used[j] = free
		}
	}
	return run
}

// findEdge returns the first triangle after start that contains the directed
// edge m1 -> m2, along with its third corner.
func (b *builder) findEdge(start int, m1, m2 Corner) (int, Corner, bool) {
	for j := start + 1; j < len(b.tris); j++ {
		check := b.tris[j]
		for k := 0; k < 3; k++ {
			if check[k] == m1 && check[(k+1)%3] == m2 {
				return j, check[(k+2)%3], true
			}
		}
	}
	return 0, Corner{}, false
}

// Expand returns the run's triangles in winding order.
func (r Run) Expand() []Triangle {
	tris := expand(r.Corners, r.Fan)
	out := make([]Triangle, len(tris))
	for i, t := range tris {
		out[i] = Triangle(t)
	}
	return out
}

func expand[T any](v []T, fan bool) [][3]T {
	if len(v) < 3 {
		return nil
	}
	out := make([][3]T, 0, len(v)-2)
	for i := 0; i+2 < len(v); i++ {
		switch {
		case fan:
			out = append(out, [3]T{v[0], v[i+1], v[i+2]})
		case i%2 == 0:
			out = append(out, [3]T{v[i], v[i+1], v[i+2]})
		default:
			out = append(out, [3]T{v[i+1], v[i], v[i+2]})
		}
	}
	return out
}
