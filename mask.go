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

package optolithium

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/xthebat/optolithium/geometry"
)

// Transmission converts an intensity transmittance and a phase in degrees
// into the effective complex amplitude transmission
// sqrt(t)·exp(j·phase·π/180).
func Transmission(transmittance, phaseDeg float64) complex128 {
	return complex(math.Sqrt(transmittance), 0) *
		cmplx.Exp(complex(0, phaseDeg*math.Pi/180))
}

// Region is a transmissive or phase-shifting polygonal area of a mask.
type Region struct {
	*geometry.Polygon
	Transmittance float64
	Phase         float64 // degrees
}

// NewRegion builds a mask region from an ordered point list.
func NewRegion(points []geometry.Point, transmittance, phaseDeg float64) (*Region, error) {
	poly, err := geometry.NewPolygon(points)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewRegion: %v: %w", err, ErrMask)
	}
	return &Region{Polygon: poly, Transmittance: transmittance, Phase: phaseDeg}, nil
}

// Transmission returns the region's effective complex transmission.
func (r *Region) Transmission() complex128 {
	return Transmission(r.Transmittance, r.Phase)
}

// Box is the rectangular mask boundary together with the background
// transmission.
type Box struct {
	*geometry.Rectangle
	Transmittance float64
	Phase         float64 // degrees
}

// NewBox builds a mask boundary box from its corners.
func NewBox(lb, rt geometry.Point, transmittance, phaseDeg float64) *Box {
	return &Box{
		Rectangle:     geometry.NewRectangle(lb, rt),
		Transmittance: transmittance,
		Phase:         phaseDeg,
	}
}

// Transmission returns the background complex transmission.
func (b *Box) Transmission() complex128 {
	return Transmission(b.Transmittance, b.Phase)
}

// Mask is an ordered list of regions inside a boundary box. Construction
// re-expresses every region relative to the boundary center and normalizes
// the region orientation the diffraction engine expects: clockwise
// traversal for 2D regions and ascending coordinates for 1D edges.
type Mask struct {
	regions  []*Region
	boundary *Box
	sizes    geometry.Sizes
}

// NewMask builds a mask from regions and a boundary.
func NewMask(regions []*Region, boundary *Box) (*Mask, error) {
	if boundary == nil {
		return nil, fmt.Errorf("optolithium.NewMask: nil boundary: %w", ErrMask)
	}
	lb, rt := boundary.LeftBottom(), boundary.RightTop()
	center := lb.Add(rt.Sub(lb).Scale(0.5))

	m := new(Mask)
	for _, region := range regions {
		m.regions = append(m.regions, recenterRegion(region, center))
	}
	m.boundary = NewBox(lb.Sub(center), rt.Sub(center), boundary.Transmittance, boundary.Phase)
	m.sizes = m.boundary.Sizes()
	return m, nil
}

// recenterRegion shifts a copy of the region by -center and fixes its
// traversal: 2D chains run clockwise so per-edge trapezoid areas sum
// positive, 1D edges run from the lower to the higher coordinate.
func recenterRegion(region *Region, center geometry.Point) *Region {
	out := &Region{
		Polygon:       region.Polygon.Copy(),
		Transmittance: region.Transmittance,
		Phase:         region.Phase,
	}
	if out.Axis() == geometry.Dim2D {
		out.SetBypass(geometry.CW)
	} else {
		e := out.Edges()[0]
		axis := int(out.Axis())
		if e.Dst.Dim(axis) < e.Org.Dim(axis) {
			e.Flip()
		}
	}
	for _, e := range out.Edges() {
		e.Org = e.Org.Sub(center)
		e.Dst = e.Dst.Sub(center)
	}
	return out
}

// Regions returns the centered regions in order.
func (m *Mask) Regions() []*Region { return m.regions }

// Boundary returns the centered boundary box.
func (m *Mask) Boundary() *Box { return m.boundary }

// Pitch returns the mask period in x and y.
func (m *Mask) Pitch() geometry.Sizes { return m.sizes }

// IsOpaque reports whether the background transmits no light.
func (m *Mask) IsOpaque() bool { return m.boundary.Transmittance == 0 }

// IsClear reports whether the background transmits light.
func (m *Mask) IsClear() bool { return !m.IsOpaque() }

// IsBad reports whether the boundary has zero extent in both axes.
func (m *Mask) IsBad() bool { return m.sizes.X == 0 && m.sizes.Y == 0 }

// Is1d reports whether the boundary has zero extent in one axis.
func (m *Mask) Is1d() bool { return m.sizes.X == 0 || m.sizes.Y == 0 }
