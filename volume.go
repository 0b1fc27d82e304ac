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

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/xthebat/optolithium/contours"
	"github.com/xthebat/optolithium/geometry"
)

// ResistVolume samples a scalar field over the mask cell laterally and
// the resist thickness vertically. Values has shape (rows, cols, slices)
// addressed as (y, x, z); Z runs from the full thickness at slice 0 down
// to zero depth (the resist top) at the last slice. Lateral sample counts
// are odd whenever the pitch extent is non-zero, and the vertical step
// exactly tiles the thickness.
type ResistVolume struct {
	Boundary  *Box
	Thickness float64

	Values *sparse.DenseArray

	X, Y, Z []float64

	stepX, stepY, stepZ float64
}

// calcLateralStep snaps a desired lateral step so an odd sample count
// covers the pitch exactly.
func calcLateralStep(pitch, desired float64) float64 {
	if pitch == 0 || desired == 0 {
		return 0
	}
	n := int(math.Ceil(pitch / desired))
	if pitch/float64(n-1) > desired {
		if n%2 == 1 {
			n += 2
		} else {
			n++
		}
	}
	return pitch / float64(n-1)
}

// calcNormalStep snaps a desired vertical step so a whole number of steps
// tiles the thickness.
func calcNormalStep(thickness, desired float64) float64 {
	if thickness == 0 || desired == 0 {
		return 0
	}
	ratio := thickness / desired
	if ratio != math.Round(ratio) {
		return thickness / math.Ceil(ratio+1)
	}
	return desired
}

func sampleCount(size, step float64, offset int) int {
	if size == 0 || step == 0 {
		return 1
	}
	// The step usually divides the size exactly by construction; keep
	// rounding noise from tipping the ceiling to the next integer.
	return int(math.Ceil(size/step-1e-9)) + offset
}

func fillAxis(count int, start, step float64) []float64 {
	axis := make([]float64, count)
	for k := range axis {
		axis[k] = start + float64(k)*step
	}
	return axis
}

// NewResistVolume allocates a volume over the boundary cell with the
// given thickness and desired steps. A zero thickness or zero stepz
// yields a single slice (the aerial-image case).
func NewResistVolume(boundary *Box, thickness, desiredStepXY, desiredStepZ float64) *ResistVolume {
	v := &ResistVolume{Boundary: boundary, Thickness: thickness}
	sizes := boundary.Sizes()

	v.stepX = calcLateralStep(sizes.X, desiredStepXY)
	v.stepY = calcLateralStep(sizes.Y, desiredStepXY)
	v.stepZ = calcNormalStep(thickness, desiredStepZ)

	rows := sampleCount(sizes.Y, v.stepY, 1)
	cols := sampleCount(sizes.X, v.stepX, 1)
	slices := sampleCount(thickness, v.stepZ, 0)
	if slices != 1 {
		slices++
	}

	v.Values = sparse.ZerosDense(rows, cols, slices)
	lb := boundary.LeftBottom()
	v.X = fillAxis(cols, lb.X, v.stepX)
	v.Y = fillAxis(rows, lb.Y, v.stepY)
	v.Z = fillAxis(slices, thickness, -v.stepZ)
	return v
}

// NewAerialVolume allocates a single-slice volume for an aerial image.
func NewAerialVolume(boundary *Box, desiredStep float64) *ResistVolume {
	return NewResistVolume(boundary, 0, desiredStep, 0)
}

// EmptyLike allocates a zeroed volume with the same sampling as v.
func (v *ResistVolume) EmptyLike() *ResistVolume {
	out := *v
	out.Values = sparse.ZerosDense(v.Values.Shape...)
	out.X = append([]float64(nil), v.X...)
	out.Y = append([]float64(nil), v.Y...)
	out.Z = append([]float64(nil), v.Z...)
	return &out
}

// Copy allocates a deep copy of v.
func (v *ResistVolume) Copy() *ResistVolume {
	out := v.EmptyLike()
	copy(out.Values.Elements, v.Values.Elements)
	return out
}

// Rows returns the y sample count.
func (v *ResistVolume) Rows() int { return v.Values.Shape[0] }

// Cols returns the x sample count.
func (v *ResistVolume) Cols() int { return v.Values.Shape[1] }

// Slices returns the z sample count.
func (v *ResistVolume) Slices() int { return v.Values.Shape[2] }

// StepX returns the lateral x step.
func (v *ResistVolume) StepX() float64 { return v.stepX }

// StepY returns the lateral y step.
func (v *ResistVolume) StepY() float64 { return v.stepY }

// StepZ returns the vertical step.
func (v *ResistVolume) StepZ() float64 { return v.stepZ }

// HasX reports whether the volume extends along x.
func (v *ResistVolume) HasX() bool { return len(v.X) > 1 }

// HasY reports whether the volume extends along y.
func (v *ResistVolume) HasY() bool { return len(v.Y) > 1 }

// HasZ reports whether the volume extends along z.
func (v *ResistVolume) HasZ() bool { return len(v.Z) > 1 }

// ResistProfile is the developed resist outline: 2D polygons extracted
// from a develop-time volume at the development duration. The vertical
// polygon coordinate is the height above the resist bottom.
type ResistProfile struct {
	X, Y, Z  []float64
	Polygons []*geometry.Polygon
}

// NewResistProfile contours a develop-time volume at the given level. The
// volume must be one-dimensional laterally.
func NewResistProfile(volume *ResistVolume, level float64) (*ResistProfile, error) {
	if volume.HasX() && volume.HasY() {
		return nil, fmt.Errorf(
			"optolithium.NewResistProfile: profile of a 3D resist volume: %w", ErrResistVolume)
	}
	if !volume.HasX() && !volume.HasY() {
		return nil, fmt.Errorf(
			"optolithium.NewResistProfile: empty resist volume: %w", ErrResistVolume)
	}

	p := &ResistProfile{
		X: append([]float64(nil), volume.X...),
		Y: append([]float64(nil), volume.Y...),
		Z: append([]float64(nil), volume.Z...),
	}

	lateral := volume.X
	if volume.HasY() {
		lateral = volume.Y
	}
	slices := volume.Slices()

	// Rotate the vertical cross-section so the z axis maps to rows: row
	// s holds slice s, whose height above the resist bottom is
	// thickness - Z[s], ascending with s.
	heights := make([]float64, slices)
	values := sparse.ZerosDense(slices, len(lateral))
	for s := 0; s < slices; s++ {
		heights[s] = volume.Thickness - volume.Z[s]
		for j := range lateral {
			var sample float64
			if volume.HasX() {
				sample = volume.Values.Get(0, j, s)
			} else {
				sample = volume.Values.Get(j, 0, s)
			}
			values.Set(sample, s, j)
		}
	}

	polygons, err := contours.Contours(lateral, heights, values, level, true)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewResistProfile: %w", err)
	}
	p.Polygons = polygons
	return p, nil
}

// Geom returns the profile polygons as geom geometries.
func (p *ResistProfile) Geom() []geom.Polygon {
	out := make([]geom.Polygon, len(p.Polygons))
	for i, poly := range p.Polygons {
		out[i] = poly.Geom()
	}
	return out
}

// ResistSurface extracts the 3D iso-surface of a develop-time volume at
// the given level; the vertical coordinate is the height above the
// resist bottom.
func ResistSurface(volume *ResistVolume, level float64) (*geometry.Surface, error) {
	slices := volume.Slices()
	// Slice s sits at height thickness - Z[s] above the resist bottom,
	// ascending with s.
	heights := make([]float64, slices)
	for s := 0; s < slices; s++ {
		heights[s] = volume.Thickness - volume.Z[s]
	}
	surface, err := contours.Isosurface(volume.X, volume.Y, heights, volume.Values, level, true)
	if err != nil {
		return nil, fmt.Errorf("optolithium.ResistSurface: %w", err)
	}
	return surface, nil
}
