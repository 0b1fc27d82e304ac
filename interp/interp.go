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

/*Package interp provides 1D and 2D linear interpolation on regular grids
with a configurable fill value outside of the tabulated domain.*/
package interp

import (
	"errors"
	"fmt"
)

// ErrTable is returned when the tabulated vectors do not describe a valid
// interpolation table.
var ErrTable = errors.New("invalid interpolation table")

// baseIndex returns the interval index holding xi. The axis may be
// tabulated in either direction; the sign of x[len-1]-x[0] decides.
func baseIndex(x []float64, xi float64) int {
	sdx := 1.0
	if x[len(x)-1]-x[0] < 0 {
		sdx = -1.0
	}
	for k := 0; k < len(x)-1; k++ {
		if sdx*xi >= sdx*x[k] && sdx*xi <= sdx*x[k+1] {
			return k
		}
	}
	return 0
}

func interp1(xi, x0, x1, v0, v1 float64) float64 {
	return ((x1-xi)*v0 + (xi-x0)*v1) / (x1 - x0)
}

// Linear1d interpolates linearly between tabulated (x, y) samples. Slopes
// and intercepts are precomputed per interval; queries outside the domain
// return the fill value.
type Linear1d struct {
	x, y []float64
	s, b []float64
	fill float64
}

// NewLinear1d builds a 1D interpolator over x and y, which must have equal
// length of at least two. Queries outside [x[0], x[len-1]] return fill.
func NewLinear1d(x, y []float64, fill float64) (*Linear1d, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("interp.NewLinear1d: %d x values for %d y values: %w", len(x), len(y), ErrTable)
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("interp.NewLinear1d: need at least 2 samples, got %d: %w", len(x), ErrTable)
	}
	li := &Linear1d{
		x: x, y: y, fill: fill,
		s: make([]float64, len(x)-1),
		b: make([]float64, len(x)-1),
	}
	for k := 0; k < len(x)-1; k++ {
		li.s[k] = (y[k+1] - y[k]) / (x[k+1] - x[k])
		li.b[k] = (x[k+1]*y[k] - x[k]*y[k+1]) / (x[k+1] - x[k])
	}
	return li, nil
}

// At returns the interpolated value at xi. Boundary samples are returned
// exactly; outside the domain the fill value is returned.
func (li *Linear1d) At(xi float64) float64 {
	x, y := li.x, li.y
	last := len(x) - 1
	sdx := 1.0
	if x[last]-x[0] < 0 {
		sdx = -1.0
	}
	switch {
	case sdx*xi < sdx*x[0] || sdx*xi > sdx*x[last]:
		return li.fill
	case xi == x[0]:
		return y[0]
	case xi == x[last]:
		return y[last]
	default:
		k := baseIndex(x, xi)
		return li.s[k]*xi + li.b[k]
	}
}

// AtVec interpolates at every element of xi.
func (li *Linear1d) AtVec(xi []float64) []float64 {
	out := make([]float64, len(xi))
	for k, v := range xi {
		out[k] = li.At(v)
	}
	return out
}

// Linear2d interpolates on a regular (x, y) grid. A bank of row-wise 1D
// interpolators produces a value at xi for every tabulated yi; those row
// values are then interpolated linearly in y. A dedicated interpolator on
// the last column handles the upper-x boundary.
type Linear2d struct {
	x, y   []float64
	rows   []*Linear1d
	xlast  *Linear1d
	values [][]float64
	fill   float64
}

// NewLinear2d builds a 2D interpolator over values indexed as
// values[row][col] with rows running along y and columns along x.
func NewLinear2d(x, y []float64, values [][]float64, fill float64) (*Linear2d, error) {
	if len(values) != len(y) {
		return nil, fmt.Errorf("interp.NewLinear2d: %d rows for %d y values: %w", len(values), len(y), ErrTable)
	}
	li := &Linear2d{x: x, y: y, values: values, fill: fill}
	li.rows = make([]*Linear1d, len(y))
	for r := range y {
		if len(values[r]) != len(x) {
			return nil, fmt.Errorf("interp.NewLinear2d: row %d has %d columns for %d x values: %w",
				r, len(values[r]), len(x), ErrTable)
		}
		row, err := NewLinear1d(x, values[r], fill)
		if err != nil {
			return nil, err
		}
		li.rows[r] = row
	}
	lastCol := make([]float64, len(y))
	for r := range y {
		lastCol[r] = values[r][len(x)-1]
	}
	xlast, err := NewLinear1d(y, lastCol, fill)
	if err != nil {
		return nil, err
	}
	li.xlast = xlast
	return li, nil
}

// At returns the interpolated value at (xi, yi), or the fill value outside
// the tabulated domain.
func (li *Linear2d) At(xi, yi float64) float64 {
	x, y := li.x, li.y
	lx, ly := len(x)-1, len(y)-1
	sdx, sdy := 1.0, 1.0
	if x[lx]-x[0] < 0 {
		sdx = -1.0
	}
	if y[ly]-y[0] < 0 {
		sdy = -1.0
	}
	switch {
	case sdx*xi < sdx*x[0] || sdx*xi > sdx*x[lx] || sdy*yi < sdy*y[0] || sdy*yi > sdy*y[ly]:
		return li.fill
	case xi == x[lx] && yi == y[ly]:
		return li.values[ly][lx]
	case yi == y[ly]:
		return li.rows[ly].At(xi)
	case xi == x[lx]:
		return li.xlast.At(yi)
	default:
		r := baseIndex(y, yi)
		v0 := li.rows[r].At(xi)
		v1 := li.rows[r+1].At(xi)
		return interp1(yi, y[r], y[r+1], v0, v1)
	}
}
