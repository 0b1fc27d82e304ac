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

package geometry

import (
	"fmt"
	"math"
)

// Point3 is a point in space.
type Point3 struct {
	X, Y, Z float64
}

// Add returns p+q.
func (p Point3) Add(q Point3) Point3 { return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Sub returns p-q.
func (p Point3) Sub(q Point3) Point3 { return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Scale returns s*p.
func (p Point3) Scale(s float64) Point3 { return Point3{s * p.X, s * p.Y, s * p.Z} }

// Dot returns the dot product of p and q.
func (p Point3) Dot(q Point3) float64 { return p.X*q.X + p.Y*q.Y + p.Z*q.Z }

// Cross returns the cross product of p and q.
func (p Point3) Cross(q Point3) Point3 {
	return Point3{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Length returns the distance from the origin to p.
func (p Point3) Length() float64 { return math.Sqrt(p.Dot(p)) }

func (p Point3) String() string { return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z) }

// Edge3 is a directed segment in space.
type Edge3 struct {
	Org Point3
	Dst Point3
}

// Length returns the Euclidean length of the edge.
func (e Edge3) Length() float64 { return e.Dst.Sub(e.Org).Length() }

// Triangle is an oriented triangle in space.
type Triangle struct {
	A, B, C Point3
}

// Normal returns the unit normal of the triangle plane following the
// right-hand rule over (A, B, C).
func (t Triangle) Normal() Point3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.B))
	return n.Scale(1 / n.Length())
}

// Surface aggregates the vertices and triangles of a triangulated
// isosurface together with its per-vertex coordinate vectors.
type Surface struct {
	Points    []Point3
	Triangles []Triangle

	x, y, z   []float64
	finalized bool
}

// AddPoint appends a vertex; it reports false once the coordinate vectors
// have been generated.
func (s *Surface) AddPoint(p Point3) bool {
	if s.finalized {
		return false
	}
	s.Points = append(s.Points, p)
	return true
}

// AddTriangle appends a triangle; it reports false once the coordinate
// vectors have been generated.
func (s *Surface) AddTriangle(t Triangle) bool {
	if s.finalized {
		return false
	}
	s.Triangles = append(s.Triangles, t)
	return true
}

// GenerateXYZ materialises the per-vertex coordinate vectors and freezes
// the surface.
func (s *Surface) GenerateXYZ() {
	if s.finalized {
		return
	}
	s.x = make([]float64, len(s.Points))
	s.y = make([]float64, len(s.Points))
	s.z = make([]float64, len(s.Points))
	for i, p := range s.Points {
		s.x[i] = p.X
		s.y[i] = p.Y
		s.z[i] = p.Z
	}
	s.finalized = true
}

// X returns the vertex x coordinates; nil before GenerateXYZ.
func (s *Surface) X() []float64 { return s.x }

// Y returns the vertex y coordinates; nil before GenerateXYZ.
func (s *Surface) Y() []float64 { return s.y }

// Z returns the vertex z coordinates; nil before GenerateXYZ.
func (s *Surface) Z() []float64 { return s.z }
