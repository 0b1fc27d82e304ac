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
	"math"
	"math/cmplx"
	"testing"

	"github.com/xthebat/optolithium/geometry"
)

func coherentTool(t *testing.T, wavelength, na float64) *ImagingTool {
	t.Helper()
	source, err := NewSourceShape(
		NewSourceShapePlugin(CoherentSourceShape, []float64{0, 0}), 0.05, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	return NewImagingTool(source, nil, wavelength, na, 4, 0, 1)
}

// A black 250 nm line on an 800 nm clear pitch under coherent
// illumination: the zero order is 1 - 250/800 and the first orders are
// -sin(π·250/800)/π.
func TestBinaryLineDiffraction(t *testing.T) {
	mask, err := Line1DMask([]float64{250, 800})
	if err != nil {
		t.Fatal(err)
	}
	tool := coherentTool(t, 248, 0.6)
	d, err := CalcDiffraction(tool, mask)
	if err != nil {
		t.Fatal(err)
	}

	if len(d.Kx) != 3 || d.Kx[0] != -1 || d.Kx[2] != 1 {
		t.Fatalf("order range = %v, want [-1, 0, 1]", d.Kx)
	}

	zero := d.Value(0, 1)
	if math.Abs(real(zero)-0.6875) > 1e-12 || math.Abs(imag(zero)) > 1e-12 {
		t.Errorf("zero order = %v, want 0.6875", zero)
	}

	want := -math.Sin(math.Pi*250/800) / math.Pi
	for _, c := range []int{0, 2} {
		got := d.Value(0, c)
		if math.Abs(real(got)-want) > 1e-12 || math.Abs(imag(got)) > 1e-9 {
			t.Errorf("order %d = %v, want %g", d.Kx[c], got, want)
		}
	}
}

// A pure binary mask has a conjugate-symmetric spectrum around the zero
// order.
func TestBinaryMaskConjugateSymmetry(t *testing.T) {
	mask, err := FiveBarLineMask([]float64{250, 550, 4200, 4200})
	if err != nil {
		t.Fatal(err)
	}
	tool := coherentTool(t, 248, 0.6)
	d, err := CalcDiffraction(tool, mask)
	if err != nil {
		t.Fatal(err)
	}

	rows, cols := d.Values.Rows, d.Values.Cols
	var center struct{ r, c int }
	for r := range d.Ky {
		if d.Ky[r] == 0 {
			center.r = r
		}
	}
	for c := range d.Kx {
		if d.Kx[c] == 0 {
			center.c = c
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			mr := 2*center.r - r
			mc := 2*center.c - c
			if mr < 0 || mr >= rows || mc < 0 || mc >= cols {
				continue
			}
			a := d.Value(r, c)
			b := d.Value(mr, mc)
			if cmplx.Abs(a-cmplx.Conj(b)) > 1e-9 {
				t.Fatalf("orders (%d,%d) and (%d,%d) not conjugate: %v vs %v",
					d.Ky[r], d.Kx[c], d.Ky[mr], d.Kx[mc], a, b)
			}
		}
	}
}

// The background dc term touches only the zero-order bin.
func TestBoundaryOnlyAffectsZeroOrder(t *testing.T) {
	clearMask, err := Line1DMask([]float64{250, 800})
	if err != nil {
		t.Fatal(err)
	}
	// The same geometry on an opaque background: regions transmit 1.
	region, err := NewRegion([]geometry.Point{{X: -125, Y: 0}, {X: 125, Y: 0}}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	opaque, err := NewMask([]*Region{region},
		NewBox(geometry.Point{X: -400, Y: 0}, geometry.Point{X: 400, Y: 0}, 0, 0))
	if err != nil {
		t.Fatal(err)
	}

	tool := coherentTool(t, 248, 0.6)
	dClear, err := CalcDiffraction(tool, clearMask)
	if err != nil {
		t.Fatal(err)
	}
	dOpaque, err := CalcDiffraction(tool, opaque)
	if err != nil {
		t.Fatal(err)
	}

	// Away from the zero order the clear-background line and the
	// opaque-background slit differ only in sign.
	for c := range dClear.Kx {
		if dClear.Kx[c] == 0 {
			continue
		}
		a := dClear.Value(0, c)
		b := dOpaque.Value(0, c)
		if cmplx.Abs(a+b) > 1e-12 {
			t.Errorf("order %d: %v and %v should be opposite", dClear.Kx[c], a, b)
		}
	}
	// At the zero order the clear mask adds the background transmission.
	slit := dOpaque.Value(0, 1)
	line := dClear.Value(0, 1)
	if cmplx.Abs(line-(1-slit)) > 1e-12 {
		t.Errorf("zero orders: line %v, slit %v, want line = 1 - slit", line, slit)
	}
}

func TestDiffractionRejectsDegenerateMask(t *testing.T) {
	mask, err := NewMask(nil, NewBox(geometry.Point{}, geometry.Point{}, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := CalcDiffraction(coherentTool(t, 248, 0.6), mask); err == nil {
		t.Error("zero-extent mask should be rejected")
	}
}

// The rectangle closed form agrees with the direct Fourier integral of
// the indicator function for a centered rectangle:
// F(kx, ky) = w·h·sinc(π·fx·w)·sinc(π·fy·h).
func TestRectangleRegionClosedForm(t *testing.T) {
	region, err := NewRegion([]geometry.Point{
		{X: -100, Y: -50}, {X: 100, Y: -50}, {X: 100, Y: 50}, {X: -100, Y: 50},
	}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	boundary := NewBox(geometry.Point{X: -400, Y: -400}, geometry.Point{X: 400, Y: 400}, 1, 0)
	mask, err := NewMask([]*Region{region}, boundary)
	if err != nil {
		t.Fatal(err)
	}
	tool := coherentTool(t, 248, 0.6)
	d, err := CalcDiffraction(tool, mask)
	if err != nil {
		t.Fatal(err)
	}

	sinc := func(x float64) float64 {
		if x == 0 {
			return 1
		}
		return math.Sin(x) / x
	}
	for r := range d.Ky {
		for c := range d.Kx {
			if d.Kx[c] == 0 && d.Ky[r] == 0 {
				continue
			}
			analytic := 200.0 * 100.0 *
				sinc(math.Pi*d.FrqX[c]*200) * sinc(math.Pi*d.FrqY[r]*100) /
				(800 * 800)
			// Background factor is -1 for the dark rectangle.
			want := complex(-analytic, 0)
			got := d.Value(r, c)
			if cmplx.Abs(got-want) > 1e-9 {
				t.Errorf("order (%d,%d) = %v, want %v", d.Ky[r], d.Kx[c], got, want)
			}
		}
	}
}
