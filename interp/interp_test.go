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

package interp

import (
	"math"
	"testing"
)

func TestLinear1d(t *testing.T) {
	x := []float64{0, 1, 2, 4}
	y := []float64{0, 10, 20, 0}
	li, err := NewLinear1d(x, y, math.NaN())
	if err != nil {
		t.Fatal(err)
	}

	// Tabulated samples are reproduced exactly.
	for i := range x {
		if got := li.At(x[i]); got != y[i] {
			t.Errorf("At(%g) = %g, want %g", x[i], got, y[i])
		}
	}

	tests := []struct {
		xi   float64
		want float64
	}{
		{0.5, 5},
		{1.5, 15},
		{3, 10},
	}
	for _, test := range tests {
		if got := li.At(test.xi); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", test.xi, got, test.want)
		}
	}

	// Outside the domain the fill value is returned.
	if got := li.At(-0.1); !math.IsNaN(got) {
		t.Errorf("At(-0.1) = %g, want NaN fill", got)
	}
	if got := li.At(4.1); !math.IsNaN(got) {
		t.Errorf("At(4.1) = %g, want NaN fill", got)
	}
}

func TestLinear1dDescending(t *testing.T) {
	li, err := NewLinear1d([]float64{4, 2, 0}, []float64{8, 4, 0}, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := li.At(3); math.Abs(got-6) > 1e-12 {
		t.Errorf("At(3) = %g, want 6", got)
	}
	if got := li.At(5); got != -1 {
		t.Errorf("At(5) = %g, want fill -1", got)
	}
	if got := li.At(-1); got != -1 {
		t.Errorf("At(-1) = %g, want fill -1", got)
	}
}

func TestLinear1dDimensionMismatch(t *testing.T) {
	if _, err := NewLinear1d([]float64{0, 1, 2}, []float64{0, 1}, 0); err == nil {
		t.Error("mismatched lengths should be rejected")
	}
	if _, err := NewLinear1d([]float64{0}, []float64{0}, 0); err == nil {
		t.Error("single sample should be rejected")
	}
}

func TestLinear2d(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1}
	// f(x, y) = x + 10*y is reproduced exactly by bilinear interpolation.
	values := [][]float64{
		{0, 1, 2},
		{10, 11, 12},
	}
	li, err := NewLinear2d(x, y, values, math.NaN())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		xi, yi float64
		want   float64
	}{
		{0, 0, 0},
		{2, 1, 12},   // far corner
		{1.5, 1, 11.5}, // upper-y boundary
		{2, 0.5, 7},  // upper-x boundary
		{0.5, 0.5, 5.5},
		{1.25, 0.75, 8.75},
	}
	for _, test := range tests {
		if got := li.At(test.xi, test.yi); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("At(%g, %g) = %g, want %g", test.xi, test.yi, got, test.want)
		}
	}

	if got := li.At(2.5, 0.5); !math.IsNaN(got) {
		t.Errorf("At(2.5, 0.5) = %g, want NaN fill", got)
	}
	if got := li.At(0.5, -0.5); !math.IsNaN(got) {
		t.Errorf("At(0.5, -0.5) = %g, want NaN fill", got)
	}
}

func TestLinear2dDimensionMismatch(t *testing.T) {
	if _, err := NewLinear2d([]float64{0, 1}, []float64{0, 1}, [][]float64{{1, 2}}, 0); err == nil {
		t.Error("row count mismatch should be rejected")
	}
	if _, err := NewLinear2d([]float64{0, 1}, []float64{0, 1}, [][]float64{{1}, {2}}, 0); err == nil {
		t.Error("column count mismatch should be rejected")
	}
}
