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
)

// ImagingTool bundles the illumination and projection optics: the source
// shape, the pupil filter, wavelength, numeric aperture, reduction ratio,
// flare level and the immersion index.
type ImagingTool struct {
	Source      *SourceShape
	PupilFilter PupilFilterModel

	Wavelength float64
	NA         float64
	Reduction  float64
	Flare      float64
	Immersion  float64

	squaredReduction float64
}

// NewImagingTool builds an imaging tool. A nil pupil filter means the
// empty (unit) filter.
func NewImagingTool(source *SourceShape, filter PupilFilterModel,
	wavelength, na, reduction, flare, immersion float64) *ImagingTool {
	if filter == nil {
		filter = NewEmptyPupilFilter()
	}
	return &ImagingTool{
		Source:           source,
		PupilFilter:      filter,
		Wavelength:       wavelength,
		NA:               na,
		Reduction:        reduction,
		Flare:            flare,
		Immersion:        immersion,
		squaredReduction: reduction * reduction,
	}
}

// Filter evaluates the pupil filter at direction cosines (cx, cy).
func (t *ImagingTool) Filter(cx, cy float64) complex128 {
	return t.PupilFilter.Calculate(cx, cy)
}

// ReductionFactor is the radiometric correction amplitude
// ((1 - c²/R²)/(1 - c²/n²))^(1/4) against the given propagation-medium
// refraction.
func (t *ImagingTool) ReductionFactor(cx, cy float64, environment complex128) float64 {
	cxy2 := cx*cx + cy*cy
	nEnv2 := cmplx.Abs(environment) * cmplx.Abs(environment)
	return math.Pow((1-cxy2/t.squaredReduction)/(1-cxy2/nEnv2), 0.25)
}

// ApplyFlare mixes the stray-light level into an intensity volume in
// place: I' = flare + (1-flare)·I.
func (t *ImagingTool) ApplyFlare(v *ResistVolume) {
	if t.Flare == 0 {
		return
	}
	for i, val := range v.Values.Elements {
		v.Values.Elements[i] = t.Flare + (1-t.Flare)*val
	}
}

// Exposure holds the focus offset, the nominal dose and the dose
// correction factor of one exposure step.
type Exposure struct {
	Focus       float64
	NominalDose float64
	Correctable float64
}

// Defocus is the wavefront phase term
// exp(2πj·focus·(1-sqrt(1-cx²-cy²))/wavelength).
func (e *Exposure) Defocus(cx, cy, wavelength float64) complex128 {
	if e.Focus == 0 {
		return 1
	}
	cxy2 := cx*cx + cy*cy
	opd := e.Focus * (1 - math.Sqrt(1-cxy2))
	return cmplx.Exp(complex(0, 2*math.Pi*opd/wavelength))
}

// Dose returns the effective dose nominal·correctable.
func (e *Exposure) Dose() float64 { return e.NominalDose * e.Correctable }

// Development holds the development duration in seconds.
type Development struct {
	Time float64
}

// PostExposureBake holds the bake conditions: time in seconds and
// temperature in Celsius.
type PostExposureBake struct {
	Time float64
	Temp float64
}
