/*
Copyright © 2026 the Optolithium authors.
This file is part of Optolithium.

Optolithium is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Optolithium is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Optolithium.  If not, see <http://www.gnu.org/licenses/>.
*/

package contours

import (
	"fmt"
	"sync"

	"github.com/ctessum/sparse"
	"github.com/xthebat/optolithium/geometry"
)

// Marching cubes runs off two lookup tables indexed by the 8-bit cell case
// code: edgeTable lists the crossed cell edges as a 12-bit mask, triTable
// lists the triangles as triples of crossed-edge indexes terminated by -1.
// The tables are built once on first use by walking the iso-polygon cycles
// of every sign configuration.

// Cell corner numbering (bit k of the case code) and the coordinates of
// corner k in cell units (dx, dy, dz):
var cornerOffsets = [8][3]int{
	{0, 0, 0}, // 0: (r,   c,   s)
	{0, 1, 0}, // 1: (r+1, c,   s)
	{1, 1, 0}, // 2: (r+1, c+1, s)
	{1, 0, 0}, // 3: (r,   c+1, s)
	{0, 0, 1}, // 4
	{0, 1, 1}, // 5
	{1, 1, 1}, // 6
	{1, 0, 1}, // 7
}

// The 12 cell edges as corner pairs: bottom ring, top ring, verticals.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// The six cell faces as corner quadruples in cyclic order.
var faceCorners = [6][4]int{
	{0, 1, 2, 3}, // bottom
	{4, 5, 6, 7}, // top
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

var (
	tableOnce sync.Once
	edgeTable [256]uint16
	triTable  [256][]int8
)

func cornerAdjacent(a, b int) bool {
	for _, e := range edgeCorners {
		if (e[0] == a && e[1] == b) || (e[0] == b && e[1] == a) {
			return true
		}
	}
	return false
}

// edgeIndex returns the index of the cell edge joining two corners, or -1.
func edgeIndex(a, b int) int {
	for i, e := range edgeCorners {
		if (e[0] == a && e[1] == b) || (e[0] == b && e[1] == a) {
			return i
		}
	}
	return -1
}

// buildTables derives the case tables. For each sign configuration the
// crossed edges of every connected inside-corner component are walked
// face-by-face into closed cycles, which are fanned into triangles with a
// winding that keeps normals pointing out of the inside region.
func buildTables() {
	for code := 1; code < 255; code++ {
		var crossed uint16
		for i, e := range edgeCorners {
			if insideBit(code, e[0]) != insideBit(code, e[1]) {
				crossed |= 1 << uint(i)
			}
		}
		edgeTable[code] = crossed
		for _, cycle := range edgeCycles(code) {
			tri := fanTriangles(code, cycle)
			triTable[code] = append(triTable[code], tri...)
		}
		triTable[code] = append(triTable[code], -1)
	}
	triTable[0] = []int8{-1}
	triTable[255] = []int8{-1}
}

func insideBit(code, corner int) bool {
	return code&(1<<uint(corner)) != 0
}

// components partitions the inside corners into edge-connected groups.
func components(code int) [][]int {
	var groups [][]int
	seen := [8]bool{}
	for start := 0; start < 8; start++ {
		if !insideBit(code, start) || seen[start] {
			continue
		}
		group := []int{start}
		seen[start] = true
		for i := 0; i < len(group); i++ {
			for next := 0; next < 8; next++ {
				if insideBit(code, next) && !seen[next] && cornerAdjacent(group[i], next) {
					seen[next] = true
					group = append(group, next)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// pairOnFace returns the crossed edge paired with the given crossed edge
// on one face: the crossing around the same inside corner of that face.
func pairOnFace(code, face, edge int) int {
	f := faceCorners[face]
	// The inside corner of this edge that lies on the face.
	in := edgeCorners[edge][0]
	if !insideBit(code, in) {
		in = edgeCorners[edge][1]
	}
	// Walk around the face ring from the inside corner in both
	// directions to the first sign change reachable through inside
	// corners.
	pos := -1
	for i, c := range f {
		if c == in {
			pos = i
			break
		}
	}
	for _, dir := range [2]int{1, -1} {
		p := pos
		for step := 0; step < 4; step++ {
			q := (p + dir + 4) % 4
			if !insideBit(code, f[q]) {
				e := edgeIndex(f[p], f[q])
				if e != edge {
					return e
				}
				break
			}
			p = q
		}
	}
	return -1
}

// edgeCycles walks the crossed edges of every inside component into closed
// cycles of edge indexes.
func edgeCycles(code int) [][]int {
	var cycles [][]int
	usedEdges := make(map[int]bool)
	for _, group := range components(code) {
		inGroup := func(c int) bool {
			for _, g := range group {
				if g == c {
					return true
				}
			}
			return false
		}
		// Crossed edges touching this component.
		var boundary []int
		for i, e := range edgeCorners {
			in0, in1 := insideBit(code, e[0]), insideBit(code, e[1])
			if in0 != in1 {
				inCorner := e[0]
				if in1 {
					inCorner = e[1]
				}
				if inGroup(inCorner) {
					boundary = append(boundary, i)
				}
			}
		}
		for len(boundary) > 0 {
			start := -1
			for _, e := range boundary {
				if !usedEdges[e] {
					start = e
					break
				}
			}
			if start < 0 {
				break
			}
			cycle := walkCycle(code, start, usedEdges)
			if len(cycle) >= 3 {
				cycles = append(cycles, cycle)
			}
			remaining := boundary[:0]
			for _, e := range boundary {
				if !usedEdges[e] {
					remaining = append(remaining, e)
				}
			}
			boundary = remaining
		}
	}
	return cycles
}

// edgeFaces returns the two faces sharing a cell edge.
func edgeFaces(edge int) [2]int {
	var out [2]int
	n := 0
	for f := range faceCorners {
		ring := faceCorners[f]
		for i := range ring {
			if edgeIndex(ring[i], ring[(i+1)%4]) == edge {
				out[n] = f
				n++
				break
			}
		}
	}
	return out
}

// walkCycle follows crossed edges across faces until the walk returns to
// its starting edge.
func walkCycle(code, start int, used map[int]bool) []int {
	cycle := []int{start}
	used[start] = true
	prevFace := -1
	cur := start
	for {
		faces := edgeFaces(cur)
		var next, via int = -1, -1
		for _, f := range faces {
			if f == prevFace {
				continue
			}
			if e := pairOnFace(code, f, cur); e >= 0 {
				next, via = e, f
				break
			}
		}
		if next < 0 || next == start {
			return cycle
		}
		used[next] = true
		cycle = append(cycle, next)
		prevFace = via
		cur = next
	}
}

// fanTriangles triangulates a cycle of crossed edges as a fan, oriented so
// the normal points from the inside region outward.
func fanTriangles(code int, cycle []int) []int8 {
	// Edge midpoints in cell units stand in for the crossing points.
	mid := func(e int) [3]float64 {
		a := cornerOffsets[edgeCorners[e][0]]
		b := cornerOffsets[edgeCorners[e][1]]
		return [3]float64{
			(float64(a[0]) + float64(b[0])) / 2,
			(float64(a[1]) + float64(b[1])) / 2,
			(float64(a[2]) + float64(b[2])) / 2,
		}
	}
	// Newell normal of the cycle polygon.
	var nx, ny, nz float64
	for i := range cycle {
		p := mid(cycle[i])
		q := mid(cycle[(i+1)%len(cycle)])
		nx += (p[1] - q[1]) * (p[2] + q[2])
		ny += (p[2] - q[2]) * (p[0] + q[0])
		nz += (p[0] - q[0]) * (p[1] + q[1])
	}
	// Vector from the inside corners' centroid to the polygon centroid.
	var cx, cy, cz, n float64
	for c := 0; c < 8; c++ {
		if insideBit(code, c) {
			cx += float64(cornerOffsets[c][0])
			cy += float64(cornerOffsets[c][1])
			cz += float64(cornerOffsets[c][2])
			n++
		}
	}
	cx, cy, cz = cx/n, cy/n, cz/n
	var px, py, pz float64
	for _, e := range cycle {
		p := mid(e)
		px += p[0] / float64(len(cycle))
		py += p[1] / float64(len(cycle))
		pz += p[2] / float64(len(cycle))
	}
	flip := nx*(px-cx)+ny*(py-cy)+nz*(pz-cz) < 0

	ordered := cycle
	if flip {
		ordered = make([]int, len(cycle))
		for i := range cycle {
			ordered[i] = cycle[len(cycle)-1-i]
		}
	}
	var tris []int8
	for i := 1; i < len(ordered)-1; i++ {
		tris = append(tris, int8(ordered[0]), int8(ordered[i]), int8(ordered[i+1]))
	}
	return tris
}

// Isosurface extracts the iso-level surface of a cube of samples with
// shape (len(y), len(x), len(z)) addressed as (row, col, slice). When
// negative is true the surface encloses regions above the level.
func Isosurface(x, y, z []float64, values *sparse.DenseArray, level float64, negative bool) (*geometry.Surface, error) {
	if len(values.Shape) != 3 || values.Shape[0] != len(y) ||
		values.Shape[1] != len(x) || values.Shape[2] != len(z) {
		return nil, fmt.Errorf("contours.Isosurface: %v grid for %dx%dx%d coordinates: %w",
			values.Shape, len(y), len(x), len(z), ErrGrid)
	}
	tableOnce.Do(buildTables)

	surface := new(geometry.Surface)
	inside := func(v float64) bool {
		if negative {
			return v > level
		}
		return v < level
	}

	corner := func(r, c, s, k int) (geometry.Point3, float64) {
		o := cornerOffsets[k]
		rr, cc, ss := r+o[1], c+o[0], s+o[2]
		return geometry.Point3{X: x[cc], Y: y[rr], Z: z[ss]}, values.Get(rr, cc, ss)
	}

	for r := 0; r < len(y)-1; r++ {
		for c := 0; c < len(x)-1; c++ {
			for s := 0; s < len(z)-1; s++ {
				code := 0
				var pts [8]geometry.Point3
				var vals [8]float64
				for k := 0; k < 8; k++ {
					pts[k], vals[k] = corner(r, c, s, k)
					if inside(vals[k]) {
						code |= 1 << uint(k)
					}
				}
				if edgeTable[code] == 0 {
					continue
				}
				var verts [12]geometry.Point3
				for e := 0; e < 12; e++ {
					if edgeTable[code]&(1<<uint(e)) == 0 {
						continue
					}
					a, b := edgeCorners[e][0], edgeCorners[e][1]
					k := (level - vals[a]) / (vals[b] - vals[a])
					verts[e] = pts[a].Add(pts[b].Sub(pts[a]).Scale(k))
				}
				tri := triTable[code]
				for i := 0; tri[i] >= 0; i += 3 {
					t := geometry.Triangle{
						A: verts[tri[i]],
						B: verts[tri[i+1]],
						C: verts[tri[i+2]],
					}
					surface.AddTriangle(t)
					surface.AddPoint(t.A)
					surface.AddPoint(t.B)
					surface.AddPoint(t.C)
				}
			}
		}
	}
	surface.GenerateXYZ()
	return surface, nil
}
