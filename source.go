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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// sourceCosineLimit bounds the direction-cosine grid of any source shape.
const sourceCosineLimit = 1.0

// SourceShape is an illumination distribution discretized on a regular
// direction-cosine grid. All derived fields are computed at construction
// and never change.
type SourceShape struct {
	Model SourceShapeModel

	StepX float64
	StepY float64

	// Values holds intensity with shape (len(Cy), len(Cx)).
	Values *sparse.DenseArray

	Kx, Ky []int
	Cx, Cy []float64

	// NonZeros lists the (row, col) indices of non-zero intensities.
	NonZeros [][2]int

	// Axis-aligned bounds of the non-zero support in direction cosines.
	CxMin, CxMax float64
	CyMin, CyMax float64
}

func sourceAxis(step float64) (k []int, dcos []float64) {
	count := int(2*sourceCosineLimit/step + 1)
	k = make([]int, count)
	dcos = make([]float64, count)
	median := int(math.Floor(float64(count) / 2))
	for i := 0; i < count; i++ {
		k[i] = i - median
		dcos[i] = float64(k[i]) * step
	}
	return k, dcos
}

// NewSourceShape discretizes a source-shape model on a (stepx, stepy)
// direction-cosine grid bounded to |c| <= 1. A model with no intensity
// anywhere on the grid is rejected.
func NewSourceShape(model SourceShapeModel, stepx, stepy float64) (*SourceShape, error) {
	if stepx <= 0 || stepy <= 0 {
		return nil, fmt.Errorf("optolithium.NewSourceShape: steps (%g, %g): %w", stepx, stepy, ErrArgument)
	}
	s := &SourceShape{Model: model, StepX: stepx, StepY: stepy}
	s.Kx, s.Cx = sourceAxis(stepx)
	s.Ky, s.Cy = sourceAxis(stepy)

	s.Values = sparse.ZerosDense(len(s.Cy), len(s.Cx))
	for r, cy := range s.Cy {
		for c, cx := range s.Cx {
			v := model.Calculate(cx, cy)
			if v != 0 {
				s.Values.Set(v, r, c)
				s.NonZeros = append(s.NonZeros, [2]int{r, c})
			}
		}
	}
	if len(s.NonZeros) == 0 {
		return nil, fmt.Errorf("optolithium.NewSourceShape: source has no intensity on the grid: %w", ErrArgument)
	}

	rMin, rMax := s.NonZeros[0][0], s.NonZeros[0][0]
	cMin, cMax := s.NonZeros[0][1], s.NonZeros[0][1]
	for _, rc := range s.NonZeros {
		if rc[0] < rMin {
			rMin = rc[0]
		}
		if rc[0] > rMax {
			rMax = rc[0]
		}
		if rc[1] < cMin {
			cMin = rc[1]
		}
		if rc[1] > cMax {
			cMax = rc[1]
		}
	}
	s.CxMin, s.CxMax = s.Cx[cMin], s.Cx[cMax]
	s.CyMin, s.CyMax = s.Cy[rMin], s.Cy[rMax]
	return s, nil
}

// Value returns the intensity at grid indices (r, c).
func (s *SourceShape) Value(r, c int) float64 { return s.Values.Get(r, c) }

// TotalIntensity returns the sum of the grid intensities.
func (s *SourceShape) TotalIntensity() float64 { return floats.Sum(s.Values.Elements) }
