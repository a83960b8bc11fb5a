// Package weld merges triangle corners that share identical attribute keys
// into a single output vertex.
//
// Every alias format stores triangle corners as separate references into a
// position table and a texture coordinate table (and, for MDL, a seam side
// flag). Renderers and the model representation need one index per vertex,
// so corners are deduplicated on the full key. The output vertex order is the
// order in which keys are first seen while scanning corners in file order.
package weld

// Weld deduplicates corner keys. It returns the unique keys in first-seen
// order and, for every input corner, the index of its output vertex. The
// remap slice is positional, so triangle winding is preserved when corners are
// supplied three per triangle.
func Weld[K comparable](corners []K) (keys []K, remap []int) {
	seen := make(map[K]int, len(corners))
	remap = make([]int, len(corners))

	for i, k := range corners {
		idx, ok := seen[k]
		if !ok {
			idx = len(keys)
			seen[k] = idx
			keys = append(keys, k)
		}
		remap[i] = idx
	}
	return keys, remap
}

// Corner is the key used by formats that index positions and texture
// coordinates separately.
type Corner struct {
	Vertex   int
	TexCoord int
}

// SeamCorner is the MDL key: the texture coordinate index plus whether the
// corner sits on the back half of a seam vertex.
type SeamCorner struct {
	Vertex int
	Back   bool
}
