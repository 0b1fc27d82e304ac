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

package conv

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestConv1dIdentityKernel(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5}
	out := make([]float64, len(in))
	for _, boundary := range []Boundary{Circular, Symmetric} {
		Conv1d(out, in, []float64{1}, boundary)
		if !floats.Equal(in, out) {
			t.Errorf("boundary %v: identity kernel changed data: %v", boundary, out)
		}
	}
}

func TestConv1dSingleSample(t *testing.T) {
	out := make([]float64, 1)
	Conv1d(out, []float64{7}, []float64{0.25, 0.5, 0.25}, Circular)
	if out[0] != 7 {
		t.Errorf("single sample = %g, want 7", out[0])
	}
}

func TestConv1dCircularMassConservation(t *testing.T) {
	in := []float64{1, 0, 0, 2, 0, 5, 1, 0}
	kernel := []float64{0.25, 0.5, 0.25}
	out := make([]float64, len(in))
	Conv1d(out, in, kernel, Circular)
	if math.Abs(floats.Sum(out)-floats.Sum(in)) > 1e-12 {
		t.Errorf("circular convolution lost mass: sum %g != %g", floats.Sum(out), floats.Sum(in))
	}
}

func TestConv1dCircularWrap(t *testing.T) {
	in := []float64{1, 0, 0, 0}
	kernel := []float64{0.25, 0.5, 0.25}
	out := make([]float64, len(in))
	Conv1d(out, in, kernel, Circular)
	want := []float64{0.5, 0.25, 0, 0.25}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-15 {
			t.Errorf("out[%d] = %g, want %g", i, out[i], want[i])
		}
	}
}

func TestConv1dSymmetricReflection(t *testing.T) {
	in := []float64{1, 0, 0, 0}
	kernel := []float64{0.25, 0.5, 0.25}
	out := make([]float64, len(in))
	Conv1d(out, in, kernel, Symmetric)
	// Index -1 reflects onto index 1, so the boundary sample keeps only
	// its own weight plus the reflected tap over a zero neighbor.
	want := []float64{0.5, 0.25, 0, 0}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-15 {
			t.Errorf("out[%d] = %g, want %g", i, out[i], want[i])
		}
	}
}
