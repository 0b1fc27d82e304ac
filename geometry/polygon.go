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
	"errors"
	"fmt"

	"github.com/ctessum/geom"
)

// Dimension tells whether an edge chain is a degenerate 1D segment along an
// axis or a proper 2D polygon.
type Dimension int

// Edge-chain dimensionality.
const (
	Dim1DX Dimension = iota // single horizontal edge
	Dim1DY                  // single vertical edge
	Dim2D                   // closed chain of at least three edges
)

// ErrInvalidGeometry is returned for point sequences that cannot form a
// polygon: fewer than two points, or exactly two points that are not
// axis-aligned.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is a closed chain of directed edges: either a Polygon or a
// Rectangle. The chain satisfies dst(e_i) == org(e_{i+1}).
type Geometry interface {
	Edges() []*Edge
	Axis() Dimension
	SignedArea() float64
	SetBypass(Rotation) bool
}

// Polygon is an ordered chain of edges. A two-point axis-aligned input is
// kept as a single 1D edge; three or more points close into a loop.
type Polygon struct {
	edges []*Edge
	axis  Dimension
}

// is1DPossible reports whether points describe a one-dimensional polygon.
func is1DPossible(points []Point) bool {
	if len(points) != 2 {
		return false
	}
	e := Edge{Org: points[0], Dst: points[1]}
	return e.IsVertical() || e.IsHorizontal()
}

// NewPolygon builds a polygon from an ordered point list. The closing edge
// back to the first point is added automatically.
func NewPolygon(points []Point) (*Polygon, error) {
	p := new(Polygon)
	switch {
	case is1DPossible(points):
		e := &Edge{Org: points[1], Dst: points[0]}
		p.edges = []*Edge{e}
		if e.IsHorizontal() {
			p.axis = Dim1DX
		} else {
			p.axis = Dim1DY
		}
	case len(points) >= 3:
		for i := 1; i < len(points); i++ {
			p.edges = append(p.edges, &Edge{Org: points[i-1], Dst: points[i]})
		}
		p.edges = append(p.edges, &Edge{Org: points[len(points)-1], Dst: points[0]})
		p.axis = Dim2D
	default:
		return nil, fmt.Errorf("geometry.NewPolygon: %d point(s): %w", len(points), ErrInvalidGeometry)
	}
	return p, nil
}

// Copy returns a deep copy of the polygon.
func (p *Polygon) Copy() *Polygon {
	o := &Polygon{axis: p.axis, edges: make([]*Edge, len(p.edges))}
	for i, e := range p.edges {
		c := *e
		o.edges[i] = &c
	}
	return o
}

// Edges returns the edge chain. Callers must not reorder it.
func (p *Polygon) Edges() []*Edge { return p.edges }

// Axis returns the chain dimensionality.
func (p *Polygon) Axis() Dimension { return p.axis }

// SignedArea evaluates Green's formula over the closed chain, positive for
// counter-clockwise bypass. For 1D chains it is the signed length of the
// single edge.
func (p *Polygon) SignedArea() float64 { return signedArea(p.edges, p.axis) }

func signedArea(edges []*Edge, axis Dimension) float64 {
	if axis == Dim2D {
		var area float64
		for _, e := range edges {
			area -= e.Area()
		}
		return area
	}
	e := edges[0]
	return e.Dst.Dim(int(axis)) - e.Org.Dim(int(axis))
}

// SetBypass reverses the chain if its signed area does not match the
// requested traversal direction, and reports whether it did.
func (p *Polygon) SetBypass(dir Rotation) bool { return setBypass(p.edges, p.SignedArea(), dir) }

func setBypass(edges []*Edge, area float64, dir Rotation) bool {
	if float64(dir)*area >= 0 {
		return false
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	for _, e := range edges {
		e.Flip()
	}
	return true
}

// Clean removes zero-length edges and merges adjacent collinear edges of a
// 2D polygon, reporting whether anything was removed.
func (p *Polygon) Clean() bool {
	if p.axis != Dim2D {
		return false
	}
	deleted := false
	for i := 0; len(p.edges) > 0 && i < len(p.edges); {
		cur := p.edges[i]
		next := p.edges[(i+1)%len(p.edges)]
		remove := cur.Length() == 0
		if !remove {
			if _, typ := cur.Intersect(*next); typ == Collinear {
				remove = true
			}
		}
		if remove {
			p.edges = append(p.edges[:i], p.edges[i+1:]...)
			if len(p.edges) > 0 {
				k := i % len(p.edges)
				prev := (k - 1 + len(p.edges)) % len(p.edges)
				p.edges[k].Org = p.edges[prev].Dst
			}
			deleted = true
		} else {
			i++
		}
	}
	return deleted
}

// Points returns the vertex sequence of the chain.
func (p *Polygon) Points() []Point {
	pts := make([]Point, 0, len(p.edges))
	for _, e := range p.edges {
		pts = append(pts, e.Org)
	}
	if p.axis != Dim2D {
		pts = append(pts, p.edges[0].Dst)
	}
	return pts
}

// Geom converts a 2D polygon into a geom.Polygon with a closed ring.
func (p *Polygon) Geom() geom.Polygon {
	ring := make(geom.Path, 0, len(p.edges)+1)
	for _, e := range p.edges {
		ring = append(ring, geom.Point{X: e.Org.X, Y: e.Org.Y})
	}
	if len(p.edges) > 0 {
		ring = append(ring, geom.Point{X: p.edges[0].Org.X, Y: p.edges[0].Org.Y})
	}
	return geom.Polygon{ring}
}

// Rectangle is an axis-aligned box held as its diagonal from the left-bottom
// to the right-top corner. A zero extent in one axis degenerates the box to
// a single 1D edge.
type Rectangle struct {
	diag  Edge
	sizes Sizes
	edges []*Edge
	axis  Dimension
}

// NewRectangle builds a rectangle from its left-bottom and right-top corners.
func NewRectangle(lb, rt Point) *Rectangle {
	r := &Rectangle{diag: Edge{Org: lb, Dst: rt}}
	r.sizes = r.diag.Sizes()
	switch {
	case r.sizes.X != 0 && r.sizes.Y != 0:
		r.axis = Dim2D
		r.edges = []*Edge{
			{Org: Point{lb.X, lb.Y}, Dst: Point{rt.X, lb.Y}},
			{Org: Point{rt.X, lb.Y}, Dst: Point{rt.X, rt.Y}},
			{Org: Point{rt.X, rt.Y}, Dst: Point{lb.X, rt.Y}},
			{Org: Point{lb.X, rt.Y}, Dst: Point{lb.X, lb.Y}},
		}
	case r.sizes.X != 0:
		r.axis = Dim1DX
		d := r.diag
		r.edges = []*Edge{&d}
	default:
		r.axis = Dim1DY
		d := r.diag
		r.edges = []*Edge{&d}
	}
	return r
}

// LeftBottom returns the origin corner of the diagonal.
func (r *Rectangle) LeftBottom() Point { return r.diag.Org }

// RightTop returns the destination corner of the diagonal.
func (r *Rectangle) RightTop() Point { return r.diag.Dst }

// Diag returns the oriented diagonal.
func (r *Rectangle) Diag() Edge { return r.diag }

// Sizes returns the box extent in both axes.
func (r *Rectangle) Sizes() Sizes { return r.sizes }

// Edges returns the edge chain of the box.
func (r *Rectangle) Edges() []*Edge { return r.edges }

// Axis returns the box dimensionality.
func (r *Rectangle) Axis() Dimension { return r.axis }

// SignedArea evaluates Green's formula over the box edge chain.
func (r *Rectangle) SignedArea() float64 { return signedArea(r.edges, r.axis) }

// SetBypass reverses the chain to match the requested direction; the
// diagonal keeps track of the orientation.
func (r *Rectangle) SetBypass(dir Rotation) bool {
	if setBypass(r.edges, r.SignedArea(), dir) {
		r.diag.Flip()
		return true
	}
	return false
}
