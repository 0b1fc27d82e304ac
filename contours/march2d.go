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

/*Package contours extracts iso-lines from 2D sample grids (marching
squares) and iso-surfaces from 3D sample grids (marching cubes).*/
package contours

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/xthebat/optolithium/geometry"
)

// ErrGrid is returned when the sample grid and coordinate vectors do not
// agree.
var ErrGrid = errors.New("invalid contour grid")

type segment struct {
	org, dst geometry.Point
}

// marcher holds the state of one marching-squares pass.
type marcher struct {
	x, y     []float64
	values   *sparse.DenseArray
	level    float64
	negative bool
	eps      float64
	segments []segment
}

// Contours extracts the iso-level lines of a regular grid as closed
// polygons. values has shape (len(y), len(x)). When negative is false the
// polygons enclose regions below the level; when true, regions above it
// (the resist-profile case). Contours that leave the grid are closed along
// the grid boundary. Facet sign ambiguities are resolved by interpolating
// the facet center from its corners.
func Contours(x, y []float64, values *sparse.DenseArray, level float64, negative bool) ([]*geometry.Polygon, error) {
	if len(values.Shape) != 2 || values.Shape[0] != len(y) || values.Shape[1] != len(x) {
		return nil, fmt.Errorf("contours.Contours: %v grid for %dx%d coordinates: %w",
			values.Shape, len(y), len(x), ErrGrid)
	}
	if len(x) < 2 || len(y) < 2 {
		return nil, fmt.Errorf("contours.Contours: need at least a 2x2 grid: %w", ErrGrid)
	}

	m := &marcher{x: x, y: y, values: values, level: level, negative: negative}
	step := math.Abs(x[1] - x[0])
	if dy := math.Abs(y[1] - y[0]); dy < step {
		step = dy
	}
	m.eps = 1e-6 * step

	for r := 0; r < len(y)-1; r++ {
		for c := 0; c < len(x)-1; c++ {
			m.facet(r, c)
		}
	}
	chains := m.link()
	chains = m.closeAlongBoundary(chains)

	var polygons []*geometry.Polygon
	for _, chain := range chains {
		if len(chain) < 3 {
			continue
		}
		poly, err := geometry.NewPolygon(chain)
		if err != nil {
			continue
		}
		polygons = append(polygons, poly)
	}
	return polygons, nil
}

// inside reports whether a sample belongs to the enclosed region.
func (m *marcher) inside(v float64) bool {
	if m.negative {
		return v > m.level
	}
	return v < m.level
}

// crossing interpolates the iso-level position between two samples.
func crossing(c0, c1, v0, v1, level float64) float64 {
	return c0 + (level-v0)/(v1-v0)*(c1-c0)
}

// facet emits the directed iso-line segments of one 2x2 cell, with the
// enclosed region kept on the left of each segment.
func (m *marcher) facet(r, c int) {
	a := m.values.Get(r, c)     // bottom-left
	b := m.values.Get(r, c+1)   // bottom-right
	t := m.values.Get(r+1, c)   // top-left
	d := m.values.Get(r+1, c+1) // top-right
	x0, x1 := m.x[c], m.x[c+1]
	y0, y1 := m.y[r], m.y[r+1]

	code := 0
	if m.inside(a) {
		code |= 1
	}
	if m.inside(b) {
		code |= 2
	}
	if m.inside(t) {
		code |= 4
	}
	if m.inside(d) {
		code |= 8
	}
	if code == 0 || code == 15 {
		return
	}

	south := func() geometry.Point { return geometry.Point{X: crossing(x0, x1, a, b, m.level), Y: y0} }
	north := func() geometry.Point { return geometry.Point{X: crossing(x0, x1, t, d, m.level), Y: y1} }
	west := func() geometry.Point { return geometry.Point{X: x0, Y: crossing(y0, y1, a, t, m.level)} }
	east := func() geometry.Point { return geometry.Point{X: x1, Y: crossing(y0, y1, b, d, m.level)} }

	emit := func(p, q geometry.Point) {
		if p != q {
			m.segments = append(m.segments, segment{org: p, dst: q})
		}
	}

	switch code {
	case 0x1:
		emit(south(), west())
	case 0x2:
		emit(east(), south())
	case 0x3:
		emit(east(), west())
	case 0x4:
		emit(west(), north())
	case 0x5:
		emit(south(), north())
	case 0x6:
		// Diagonal ambiguity: the interpolated facet center decides
		// whether the two inside corners join across the middle.
		if m.inside((a + b + t + d) / 4) {
			emit(west(), south())
			emit(east(), north())
		} else {
			emit(east(), south())
			emit(west(), north())
		}
	case 0x7:
		emit(east(), north())
	case 0x8:
		emit(north(), east())
	case 0x9:
		if m.inside((a + b + t + d) / 4) {
			emit(south(), east())
			emit(north(), west())
		} else {
			emit(south(), west())
			emit(north(), east())
		}
	case 0xA:
		emit(north(), south())
	case 0xB:
		emit(north(), west())
	case 0xC:
		emit(west(), east())
	case 0xD:
		emit(south(), east())
	case 0xE:
		emit(west(), south())
	}
}

type pointKey struct{ x, y int64 }

func (m *marcher) key(p geometry.Point) pointKey {
	return pointKey{
		x: int64(math.Round(p.X / m.eps)),
		y: int64(math.Round(p.Y / m.eps)),
	}
}

// link stitches directed segments into chains by joining matching
// endpoints. Closed chains come back with equal first and last vertex
// removed; open chains keep both boundary endpoints.
func (m *marcher) link() [][]geometry.Point {
	next := make(map[pointKey][]int, len(m.segments))
	hasPred := make(map[pointKey]bool, len(m.segments))
	for i, s := range m.segments {
		next[m.key(s.org)] = append(next[m.key(s.org)], i)
		hasPred[m.key(s.dst)] = true
	}
	used := make([]bool, len(m.segments))

	take := func(k pointKey) int {
		for _, i := range next[k] {
			if !used[i] {
				return i
			}
		}
		return -1
	}

	walk := func(start int) []geometry.Point {
		chain := []geometry.Point{m.segments[start].org, m.segments[start].dst}
		used[start] = true
		for {
			i := take(m.key(chain[len(chain)-1]))
			if i < 0 {
				return chain
			}
			used[i] = true
			chain = append(chain, m.segments[i].dst)
			if m.key(chain[len(chain)-1]) == m.key(chain[0]) {
				return chain[:len(chain)-1] // closed; drop duplicate
			}
		}
	}

	var chains [][]geometry.Point
	// Boundary-terminated chains first: their heads have no predecessor.
	for i, s := range m.segments {
		if !used[i] && !hasPred[m.key(s.org)] {
			chains = append(chains, walk(i))
		}
	}
	// Whatever remains forms closed loops.
	for i := range m.segments {
		if !used[i] {
			chains = append(chains, walk(i))
		}
	}
	return chains
}

// perimeterPos maps a boundary point onto the counter-clockwise arclength
// along the grid boundary, or -1 for interior points.
func (m *marcher) perimeterPos(p geometry.Point) float64 {
	x0, x1 := m.x[0], m.x[len(m.x)-1]
	y0, y1 := m.y[0], m.y[len(m.y)-1]
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	w, h := x1-x0, y1-y0
	switch {
	case math.Abs(p.Y-y0) < m.eps && p.X < x1+m.eps:
		return p.X - x0
	case math.Abs(p.X-x1) < m.eps:
		return w + (p.Y - y0)
	case math.Abs(p.Y-y1) < m.eps:
		return w + h + (x1 - p.X)
	case math.Abs(p.X-x0) < m.eps:
		return 2*w + h + (y1 - p.Y)
	}
	return -1
}

// perimeterPoint is the inverse of perimeterPos.
func (m *marcher) perimeterPoint(t float64) geometry.Point {
	x0, x1 := m.x[0], m.x[len(m.x)-1]
	y0, y1 := m.y[0], m.y[len(m.y)-1]
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	w, h := x1-x0, y1-y0
	switch {
	case t <= w:
		return geometry.Point{X: x0 + t, Y: y0}
	case t <= w+h:
		return geometry.Point{X: x1, Y: y0 + (t - w)}
	case t <= 2*w+h:
		return geometry.Point{X: x1 - (t - w - h), Y: y1}
	default:
		return geometry.Point{X: x0, Y: y1 - (t - 2*w - h)}
	}
}

// closeAlongBoundary closes open chains by walking the grid boundary
// counter-clockwise from each chain end to the nearest chain start,
// inserting the corners passed on the way. Chains meeting on the boundary
// are spliced into one polygon.
func (m *marcher) closeAlongBoundary(chains [][]geometry.Point) [][]geometry.Point {
	var closed [][]geometry.Point
	type open struct {
		points     []geometry.Point
		start, end float64
	}
	var opens []*open
	for _, chain := range chains {
		start := m.perimeterPos(chain[0])
		end := m.perimeterPos(chain[len(chain)-1])
		if start < 0 || end < 0 {
			closed = append(closed, chain)
			continue
		}
		opens = append(opens, &open{points: chain, start: start, end: end})
	}

	x0, x1 := m.x[0], m.x[len(m.x)-1]
	y0, y1 := m.y[0], m.y[len(m.y)-1]
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	w, h := x1-x0, y1-y0
	total := 2 * (w + h)
	corners := []float64{w, w + h, 2*w + h, total}

	for len(opens) > 0 {
		cur := opens[0]
		opens = opens[1:]
		for {
			// Find the next chain start counter-clockwise of this end.
			bestSpan := math.Inf(1)
			best := -1
			selfSpan := math.Mod(cur.start-cur.end+total, total)
			for i, o := range opens {
				span := math.Mod(o.start-cur.end+total, total)
				if span < bestSpan {
					bestSpan = span
					best = i
				}
			}
			if best >= 0 && bestSpan < selfSpan {
				o := opens[best]
				opens = append(opens[:best], opens[best+1:]...)
				pts := cur.points
				for _, corner := range corners {
					d := math.Mod(corner-cur.end+total, total)
					if d > m.eps && d < bestSpan-m.eps {
						pts = append(pts, m.perimeterPoint(corner))
					}
				}
				pts = sortTail(pts, len(cur.points), m, cur.end, total)
				cur = &open{points: append(pts, o.points...), start: cur.start, end: o.end}
				continue
			}
			// Close onto this chain's own start.
			pts := cur.points
			n := len(pts)
			for _, corner := range corners {
				d := math.Mod(corner-cur.end+total, total)
				if d > m.eps && d < selfSpan-m.eps {
					pts = append(pts, m.perimeterPoint(corner))
				}
			}
			pts = sortTail(pts, n, m, cur.end, total)
			closed = append(closed, pts)
			break
		}
	}
	return closed
}

// sortTail orders the boundary corners appended after index n by their
// cyclic perimeter distance from the position from.
func sortTail(points []geometry.Point, n int, m *marcher, from, total float64) []geometry.Point {
	tail := points[n:]
	for i := 1; i < len(tail); i++ {
		for j := 0; j < len(tail)-i; j++ {
			dj := math.Mod(m.perimeterPos(tail[j])-from+total, total)
			dk := math.Mod(m.perimeterPos(tail[j+1])-from+total, total)
			if dj > dk {
				tail[j], tail[j+1] = tail[j+1], tail[j]
			}
		}
	}
	return points
}
