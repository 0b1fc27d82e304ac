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
	"math"
	"sort"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/xthebat/optolithium/geometry"
)

func grid2d(rows, cols int, f func(r, c int) float64) *sparse.DenseArray {
	a := sparse.ZerosDense(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a.Set(f(r, c), r, c)
		}
	}
	return a
}

// A single hot sample in the middle of a 3x3 grid contours into a quad
// through the four midpoints of the center's edges.
func TestSingleCellContour(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 2}
	values := grid2d(3, 3, func(r, c int) float64 {
		if r == 1 && c == 1 {
			return 1
		}
		return 0
	})
	polys, err := Contours(x, y, values, 0.5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 1 {
		t.Fatalf("contour count = %d, want 1", len(polys))
	}
	pts := polys[0].Points()
	if len(pts) != 4 {
		t.Fatalf("vertex count = %d, want 4", len(pts))
	}
	want := map[geometry.Point]bool{
		{X: 0.5, Y: 1}: false,
		{X: 1, Y: 0.5}: false,
		{X: 1.5, Y: 1}: false,
		{X: 1, Y: 1.5}: false,
	}
	for _, p := range pts {
		if _, ok := want[p]; !ok {
			t.Errorf("unexpected vertex %v", p)
		} else {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Errorf("missing vertex %v", p)
		}
	}
	if polys[0].SignedArea() < 0 {
		t.Error("enclosed region should be traversed counter-clockwise")
	}
}

// A region touching the grid boundary is closed along the boundary.
func TestBoundaryClosedContour(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 2}
	// Right half hot.
	values := grid2d(3, 5, func(r, c int) float64 {
		if c >= 3 {
			return 1
		}
		return 0
	})
	polys, err := Contours(x, y, values, 0.5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 1 {
		t.Fatalf("contour count = %d, want 1", len(polys))
	}
	area := polys[0].SignedArea()
	// The iso-line runs at x = 2.5; the enclosed region is 1.5 wide and
	// 2 tall, closed along the right boundary.
	if math.Abs(area-3) > 1e-9 {
		t.Errorf("enclosed area = %g, want 3", area)
	}
}

func TestContourGridMismatch(t *testing.T) {
	values := grid2d(3, 3, func(r, c int) float64 { return 0 })
	if _, err := Contours([]float64{0, 1}, []float64{0, 1, 2}, values, 0.5, false); err == nil {
		t.Error("mismatched coordinate vectors should be rejected")
	}
}

func TestTableConsistency(t *testing.T) {
	tableOnce.Do(buildTables)
	for code := 0; code < 256; code++ {
		tri := triTable[code]
		if len(tri) == 0 || tri[len(tri)-1] != -1 {
			t.Fatalf("case %d: triangle list not terminated", code)
		}
		if (len(tri)-1)%3 != 0 {
			t.Fatalf("case %d: triangle list length %d not a multiple of 3", code, len(tri)-1)
		}
		var used uint16
		for _, e := range tri[:len(tri)-1] {
			if e < 0 || e > 11 {
				t.Fatalf("case %d: edge index %d out of range", code, e)
			}
			used |= 1 << uint(e)
		}
		if used&^edgeTable[code] != 0 {
			t.Fatalf("case %d: triangles use edges %04x outside edge table %04x",
				code, used, edgeTable[code])
		}
		// Complementary cases cross the same edges.
		if edgeTable[code] != edgeTable[255^code] {
			t.Fatalf("case %d: edge table differs from complement", code)
		}
	}
}

// The isosurface of a well-resolved sphere is a closed mesh: every
// triangle edge is shared by exactly two triangles.
func TestIsosurfaceClosedMesh(t *testing.T) {
	const n = 21
	coords := make([]float64, n)
	for i := range coords {
		coords[i] = -1 + 2*float64(i)/float64(n-1)
	}
	values := sparse.ZerosDense(n, n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for s := 0; s < n; s++ {
				x, y, z := coords[c], coords[r], coords[s]
				values.Set(math.Sqrt(x*x+y*y+z*z), r, c, s)
			}
		}
	}
	surface, err := Isosurface(coords, coords, coords, values, 0.6, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(surface.Triangles) == 0 {
		t.Fatal("no triangles extracted")
	}

	type edgeKey struct{ a, b [3]int64 }
	quantize := func(p geometry.Point3) [3]int64 {
		const q = 1e9
		return [3]int64{
			int64(math.Round(p.X * q)),
			int64(math.Round(p.Y * q)),
			int64(math.Round(p.Z * q)),
		}
	}
	mkEdge := func(p, r geometry.Point3) edgeKey {
		a, b := quantize(p), quantize(r)
		less := a[0] < b[0] || (a[0] == b[0] && (a[1] < b[1] || (a[1] == b[1] && a[2] < b[2])))
		if less {
			return edgeKey{a, b}
		}
		return edgeKey{b, a}
	}
	count := map[edgeKey]int{}
	for _, tri := range surface.Triangles {
		count[mkEdge(tri.A, tri.B)]++
		count[mkEdge(tri.B, tri.C)]++
		count[mkEdge(tri.C, tri.A)]++
	}
	for k, c := range count {
		if c != 2 {
			t.Fatalf("edge %v shared by %d triangles, want 2", k, c)
		}
	}

	// Every extracted vertex sits on the sphere of radius 0.6 to within
	// the linear interpolation error of the grid.
	for _, p := range surface.Points {
		r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		if math.Abs(r-0.6) > 0.02 {
			t.Fatalf("vertex %v at radius %g, want 0.6", p, r)
		}
	}
}

// Triangle normals of a sphere surface with negative=false (inside below
// the level) point away from the origin.
func TestIsosurfaceOrientation(t *testing.T) {
	const n = 15
	coords := make([]float64, n)
	for i := range coords {
		coords[i] = -1 + 2*float64(i)/float64(n-1)
	}
	values := sparse.ZerosDense(n, n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for s := 0; s < n; s++ {
				x, y, z := coords[c], coords[r], coords[s]
				values.Set(math.Sqrt(x*x+y*y+z*z), r, c, s)
			}
		}
	}
	surface, err := Isosurface(coords, coords, coords, values, 0.55, false)
	if err != nil {
		t.Fatal(err)
	}
	outward := 0
	for _, tri := range surface.Triangles {
		n := tri.Normal()
		center := tri.A.Add(tri.B).Add(tri.C).Scale(1.0 / 3.0)
		if n.Dot(center) > 0 {
			outward++
		}
	}
	if outward != len(surface.Triangles) {
		t.Errorf("%d of %d triangles point outward", outward, len(surface.Triangles))
	}
}

func sortedAreas(polys []*geometry.Polygon) []float64 {
	areas := make([]float64, len(polys))
	for i, p := range polys {
		areas[i] = math.Abs(p.SignedArea())
	}
	sort.Float64s(areas)
	return areas
}

// Two disjoint hot spots produce two separate contours.
func TestTwoContours(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6}
	y := []float64{0, 1, 2}
	values := grid2d(3, 7, func(r, c int) float64 {
		if r == 1 && (c == 1 || c == 5) {
			return 1
		}
		return 0
	})
	polys, err := Contours(x, y, values, 0.5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 2 {
		t.Fatalf("contour count = %d, want 2", len(polys))
	}
	areas := sortedAreas(polys)
	if math.Abs(areas[0]-0.5) > 1e-9 || math.Abs(areas[1]-0.5) > 1e-9 {
		t.Errorf("areas = %v, want two diamonds of area 0.5", areas)
	}
}
