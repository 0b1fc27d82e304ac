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

/*Package geometry provides the planar and spatial primitives used by the
mask, contouring and profile code: points, edges, polygons, rectangles,
triangles and triangulated surfaces. Coordinates are in nanometers.*/
package geometry

import (
	"fmt"
	"math"
)

// Classification is the position of a point relative to a directed edge.
type Classification int

// Possible results of Point.Classify.
const (
	Left Classification = iota
	Right
	Beyond
	Behind
	Between
	Origin
	Destination
)

// DefaultPrecision is the signed-area tolerance used by Classify for
// coordinates expressed in nanometers.
const DefaultPrecision = 1e-2

// Point is a point or size in the plane.
type Point struct {
	X, Y float64
}

// Sizes is an extent in x and y.
type Sizes = Point

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns s*p.
func (p Point) Scale(s float64) Point { return Point{s * p.X, s * p.Y} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Length returns the distance from the origin to p.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Dim returns the i'th coordinate of p (0 is x, 1 is y).
func (p Point) Dim(i int) float64 {
	if i == 0 {
		return p.X
	}
	return p.Y
}

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Classify locates p relative to the directed line from p0 to p1 using a
// signed-area test with the given tolerance.
func (p Point) Classify(p0, p1 Point, precision float64) Classification {
	a := p1.Sub(p0)
	b := p.Sub(p0)
	sa := a.X*b.Y - b.X*a.Y
	switch {
	case sa > precision:
		return Left
	case sa < -precision:
		return Right
	case a.X*b.X < 0 || a.Y*b.Y < 0:
		return Behind
	case a.Length() < b.Length():
		return Beyond
	case p0 == p:
		return Origin
	case p1 == p:
		return Destination
	default:
		return Between
	}
}

// ClassifyEdge locates p relative to edge e with the default tolerance.
func (p Point) ClassifyEdge(e Edge) Classification {
	return p.Classify(e.Org, e.Dst, DefaultPrecision)
}

// PolarAngle returns the polar angle of p in degrees, or -1 for the origin.
func (p Point) PolarAngle() float64 {
	if p.X == 0 && p.Y == 0 {
		return -1
	}
	if p.X == 0 {
		if p.Y > 0 {
			return 90
		}
		return 270
	}
	theta := math.Atan(p.Y/p.X) * 180 / math.Pi
	if p.X > 0 {
		if p.Y >= 0 {
			return theta
		}
		return 360 + theta
	}
	return 180 + theta
}

// NormalIntersect returns the foot of the perpendicular from p to the line
// carrying e.
func (p Point) NormalIntersect(e Edge) Point {
	ab := e
	ab.Rot(CCW)
	n := ab.Dst.Sub(ab.Org)
	normal := Edge{Org: p, Dst: p.Add(n)}
	return e.PointAt(normal)
}

// Distance returns the distance from p to the line carrying e.
func (p Point) Distance(e Edge) float64 {
	s := p.NormalIntersect(e)
	return Edge{Org: p, Dst: s}.Length()
}
