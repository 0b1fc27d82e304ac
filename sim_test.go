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
	"testing"

	"github.com/xthebat/optolithium/geometry"
	"gonum.org/v1/gonum/floats"
)

// A fully clear mask images to a uniform intensity equal to the ambient
// refractive index.
func TestAerialImageClearMask(t *testing.T) {
	mask, err := NewMask(nil, NewBox(geometry.Point{X: -400, Y: 0}, geometry.Point{X: 400, Y: 0}, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	tool := coherentTool(t, 248, 0.6)
	d, err := CalcDiffraction(tool, mask)
	if err != nil {
		t.Fatal(err)
	}
	image, err := AerialImage(d, NewOTF(tool, nil, nil), 50)
	if err != nil {
		t.Fatal(err)
	}
	want := real(AirRefraction)
	for i, v := range image.Values.Elements {
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %g, want uniform %g", i, v, want)
		}
	}
}

// The aerial image of a dark line is periodic (first and last sample
// equal), darkest under the line and brightest in the clear field.
func TestAerialImageBinaryLine(t *testing.T) {
	mask, err := Line1DMask([]float64{250, 800})
	if err != nil {
		t.Fatal(err)
	}
	tool := coherentTool(t, 248, 0.6)
	d, err := CalcDiffraction(tool, mask)
	if err != nil {
		t.Fatal(err)
	}
	image, err := AerialImage(d, NewOTF(tool, nil, nil), 25)
	if err != nil {
		t.Fatal(err)
	}

	cols := image.Cols()
	first := image.Values.Get(0, 0, 0)
	last := image.Values.Get(0, cols-1, 0)
	if math.Abs(first-last) > 1e-9 {
		t.Errorf("periodic boundary: first %g != last %g", first, last)
	}

	center := image.Values.Get(0, cols/2, 0) // over the dark line
	if center >= first {
		t.Errorf("center %g should be darker than the field %g", center, first)
	}
	for _, v := range image.Values.Elements {
		if v < 0 {
			t.Fatalf("negative intensity %g", v)
		}
	}
}

// Flare lifts the intensity floor: I' = flare + (1-flare)·I.
func TestFlare(t *testing.T) {
	mask, err := Line1DMask([]float64{250, 800})
	if err != nil {
		t.Fatal(err)
	}
	source, err := NewSourceShape(
		NewSourceShapePlugin(CoherentSourceShape, []float64{0, 0}), 0.05, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	clean := NewImagingTool(source, nil, 248, 0.6, 4, 0, 1)
	flared := NewImagingTool(source, nil, 248, 0.6, 4, 0.1, 1)

	dClean, err := CalcDiffraction(clean, mask)
	if err != nil {
		t.Fatal(err)
	}
	imgClean, err := AerialImage(dClean, NewOTF(clean, nil, nil), 25)
	if err != nil {
		t.Fatal(err)
	}
	dFlared, err := CalcDiffraction(flared, mask)
	if err != nil {
		t.Fatal(err)
	}
	imgFlared, err := AerialImage(dFlared, NewOTF(flared, nil, nil), 25)
	if err != nil {
		t.Fatal(err)
	}
	for i := range imgClean.Values.Elements {
		want := 0.1 + 0.9*imgClean.Values.Elements[i]
		got := imgFlared.Values.Elements[i]
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("flared sample %d = %g, want %g", i, got, want)
		}
	}
}

// The latent image is a PAC fraction: exp(-I·dose·C) stays in [0, 1].
func TestLatentImageBounds(t *testing.T) {
	boundary := NewBox(geometry.Point{X: -400, Y: 0}, geometry.Point{X: 400, Y: 0}, 1, 0)
	image := NewResistVolume(boundary, 500, 50, 100)
	for i := range image.Values.Elements {
		image.Values.Elements[i] = float64(i%7) / 2
	}
	resist := testResist()
	latent := LatentImage(image, resist, &Exposure{NominalDose: 150, Correctable: 1})
	for i, v := range latent.Values.Elements {
		if v < 0 || v > 1 {
			t.Fatalf("latent sample %d = %g outside [0, 1]", i, v)
		}
	}
	// Zero intensity keeps the full PAC.
	image.Values.Elements[0] = 0
	latent = LatentImage(image, resist, &Exposure{NominalDose: 150, Correctable: 1})
	if latent.Values.Elements[0] != 1 {
		t.Errorf("unexposed PAC = %g, want 1", latent.Values.Elements[0])
	}
}

// Lateral PEB diffusion conserves the PAC mass (circular boundaries).
func TestPebMassConservation(t *testing.T) {
	boundary := NewBox(geometry.Point{X: -400, Y: -400}, geometry.Point{X: 400, Y: 400}, 1, 0)
	latent := NewAerialVolume(boundary, 50) // single slice: z stays identity
	for i := range latent.Values.Elements {
		latent.Values.Elements[i] = float64((i*31)%17) / 16
	}
	resist := testResist()
	peb := &PostExposureBake{Time: 60, Temp: 110}

	diffused := PebLatentImage(latent, resist, peb)
	before := floats.Sum(latent.Values.Elements)
	after := floats.Sum(diffused.Values.Elements)
	if math.Abs(before-after) > 1e-9*before {
		t.Errorf("PEB mass: %g before, %g after", before, after)
	}

	// Diffusion must smooth: the variance cannot grow.
	varOf := func(e []float64) float64 {
		mean := floats.Sum(e) / float64(len(e))
		var v float64
		for _, x := range e {
			v += (x - mean) * (x - mean)
		}
		return v
	}
	if varOf(diffused.Values.Elements) > varOf(latent.Values.Elements)+1e-12 {
		t.Error("diffusion increased the field variance")
	}
}

// End to end: dark line, image in resist, exposure, bake, development,
// profile. The resist under the line survives development.
func TestPipelineEndToEnd(t *testing.T) {
	mask, err := Line1DMask([]float64{250, 800})
	if err != nil {
		t.Fatal(err)
	}
	source, err := NewSourceShape(
		NewSourceShapePlugin(CoherentSourceShape, []float64{0, 0}), 0.1, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	tool := NewImagingTool(source, nil, 248, 0.6, 4, 0, 1)
	resist := testResist()
	stack, err := NewWaferStack(
		NewConstantLayer(SubstrateLayer, 0, 1.57, 3.565),
		resist,
		NewConstantLayer(EnvironmentLayer, 0, real(AirRefraction), 0),
	)
	if err != nil {
		t.Fatal(err)
	}
	exposure := &Exposure{Focus: 0, NominalDose: 150, Correctable: 1}

	d, err := CalcDiffraction(tool, mask)
	if err != nil {
		t.Fatal(err)
	}
	otf := NewOTF(tool, exposure, stack)
	image, err := ImageInResist(d, otf, 50, 100)
	if err != nil {
		t.Fatal(err)
	}
	if image.Slices() < 2 {
		t.Fatalf("image in resist has %d slices", image.Slices())
	}
	for _, v := range image.Values.Elements {
		if v < 0 || math.IsNaN(v) {
			t.Fatalf("bad intensity %g", v)
		}
	}

	latent := LatentImage(image, resist, exposure)
	peb := &PostExposureBake{Time: 60, Temp: 110}
	diffused := PebLatentImage(latent, resist, peb)
	for _, v := range diffused.Values.Elements {
		if v < -1e-9 || v > 1+1e-9 {
			t.Fatalf("diffused PAC %g outside [0, 1]", v)
		}
	}

	times, err := DevelopTimeContours(diffused, resist)
	if err != nil {
		t.Fatal(err)
	}
	slices := times.Slices()
	for r := 0; r < times.Rows(); r++ {
		for c := 0; c < times.Cols(); c++ {
			if top := times.Values.Get(r, c, slices-1); top != 0 {
				t.Fatalf("top slice develop time = %g, want 0", top)
			}
			if bottom := times.Values.Get(r, c, 0); bottom <= 0 {
				t.Fatalf("bottom develop time = %g, want > 0", bottom)
			}
		}
	}

	// Below the dark line the resist develops much more slowly than in
	// the clear field.
	cols := times.Cols()
	center := times.Values.Get(0, cols/2, 0)
	edge := times.Values.Get(0, 0, 0)
	if center <= edge {
		t.Errorf("develop time under the line %g should exceed the field %g", center, edge)
	}

	profile, err := Profile(times, &Development{Time: 15})
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Polygons) == 0 {
		t.Fatal("no resist left: profile is empty")
	}
	for _, poly := range profile.Polygons {
		for _, p := range poly.Points() {
			if p.X < -400-1e-6 || p.X > 400+1e-6 || p.Y < -1e-6 || p.Y > 500+1e-6 {
				t.Fatalf("profile vertex %v outside the domain", p)
			}
		}
	}
}
