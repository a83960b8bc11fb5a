// Package anorms compresses unit normals to an index into a fixed table of
// 162 roughly uniform directions, as stored by MDL and MD2 vertices.
//
// The codec is lossy: a decoded normal can be off by up to about 11 degrees,
// the angular spacing of the table. Callers that need exact normals must
// recompute them from geometry.
package anorms

import "github.com/Faultbox/aliasconv/pkg/math"

// NumNormals is the size of the direction table.
const NumNormals = 162

// Compress returns the index of the table direction closest to n by
// Euclidean distance. Ties resolve to the lowest index.
func Compress(n math.Vec3) uint8 {
	best := 0
	bestDist := n.DistanceSq(table[0])
	for i := 1; i < NumNormals; i++ {
		if d := n.DistanceSq(table[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return uint8(best)
}

// Decompress returns the table direction for index i. Indices outside the
// table decode to entry 0; use Valid to detect them.
func Decompress(i uint8) math.Vec3 {
	if int(i) >= NumNormals {
		return table[0]
	}
	return table[i]
}

// Valid reports whether i is a table index.
func Valid(i uint8) bool {
	return int(i) < NumNormals
}
