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

	"github.com/xthebat/optolithium/interp"
	"gonum.org/v1/gonum/floats"
)

// LayerKind tags the role of a wafer layer in the stack.
type LayerKind int

// Wafer layer kinds, top to bottom.
const (
	EnvironmentLayer LayerKind = iota
	ResistLayerKind
	MaterialLayer
	SubstrateLayer
)

// WaferLayer is one film of the wafer stack. Thickness is in nanometers;
// the environment and substrate carry whatever thickness they were built
// with (the tests and the command use 0). The PAC fraction m is
// meaningful only for the resist layer.
type WaferLayer interface {
	Kind() LayerKind
	Thickness() float64
	Refraction(wavelength, m float64) complex128
}

// effectiveRefraction is cos(angle)·n(wavelength) for a propagation angle
// inside the layer.
func effectiveRefraction(l WaferLayer, angle complex128, wavelength float64) complex128 {
	return cmplx.Cos(angle) * l.Refraction(wavelength, 1)
}

// internalTransmitNormal is the normal-incidence phase factor
// exp(2πj·n·thickness·power/wavelength); valid for the zero order only.
func internalTransmitNormal(l WaferLayer, wavelength, power float64) complex128 {
	return cmplx.Exp(complex(0, 2*math.Pi) *
		l.Refraction(wavelength, 1) * complex(l.Thickness()*power/wavelength, 0))
}

// internalTransmit is the oblique phase factor over a depth dz.
func internalTransmit(l WaferLayer, angle complex128, dz, wavelength float64) complex128 {
	return cmplx.Exp(complex(0, 2*math.Pi) *
		effectiveRefraction(l, angle, wavelength) * complex(dz/wavelength, 0))
}

// ConstantLayer has a wavelength-independent refractive index.
type ConstantLayer struct {
	LayerKind      LayerKind
	LayerThickness float64
	Index          complex128
}

// NewConstantLayer builds a layer with a fixed complex index.
func NewConstantLayer(kind LayerKind, thickness, indexReal, indexImag float64) *ConstantLayer {
	return &ConstantLayer{
		LayerKind:      kind,
		LayerThickness: thickness,
		Index:          complex(indexReal, indexImag),
	}
}

// Kind implements WaferLayer.
func (l *ConstantLayer) Kind() LayerKind { return l.LayerKind }

// Thickness implements WaferLayer.
func (l *ConstantLayer) Thickness() float64 { return l.LayerThickness }

// Refraction implements WaferLayer.
func (l *ConstantLayer) Refraction(wavelength, m float64) complex128 { return l.Index }

// TabulatedLayer interpolates its refractive index from a wavelength
// table.
type TabulatedLayer struct {
	LayerKind      LayerKind
	LayerThickness float64

	re, im *interp.Linear1d
}

// NewTabulatedLayer builds a layer whose index is tabulated against
// wavelength.
func NewTabulatedLayer(kind LayerKind, thickness float64,
	wavelength, indexReal, indexImag []float64) (*TabulatedLayer, error) {
	re, err := interp.NewLinear1d(wavelength, indexReal, math.NaN())
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewTabulatedLayer: %w", err)
	}
	im, err := interp.NewLinear1d(wavelength, indexImag, math.NaN())
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewTabulatedLayer: %w", err)
	}
	return &TabulatedLayer{LayerKind: kind, LayerThickness: thickness, re: re, im: im}, nil
}

// Kind implements WaferLayer.
func (l *TabulatedLayer) Kind() LayerKind { return l.LayerKind }

// Thickness implements WaferLayer.
func (l *TabulatedLayer) Thickness() float64 { return l.LayerThickness }

// Refraction implements WaferLayer.
func (l *TabulatedLayer) Refraction(wavelength, m float64) complex128 {
	return complex(l.re.At(wavelength), l.im.At(wavelength))
}

// ExposureResistModel is the Dill exposure model (A, B, C) with the real
// refractive index n of the unexposed resist.
type ExposureResistModel struct {
	Wavelength float64
	A, B, C    float64
	N          float64
}

// Refraction returns the complex resist index at PAC fraction m:
// n + j·wavelength/(4π)·(A·m + B)·1e-3.
func (e *ExposureResistModel) Refraction(m float64) complex128 {
	im := e.Wavelength / 4 / math.Pi * (e.A*m + e.B) * 1e-3
	return complex(e.N, im)
}

// PebResistModel is the Arrhenius diffusion model of the post-exposure
// bake, parameterised by the activation energy Ea (kcal/mol) and ln(Ar).
type PebResistModel struct {
	Ea   float64
	LnAr float64
}

// Diffusivity returns the diffusion coefficient in nm²/s at a bake
// temperature in Celsius.
func (p *PebResistModel) Diffusivity(temp float64) float64 {
	tempK := temp - AbsoluteZero
	return math.Exp(p.LnAr - p.Ea/(GasConstant*tempK))
}

// DiffusionLength returns sigma = sqrt(2·D·t) in nm.
func (p *PebResistModel) DiffusionLength(temp, time float64) float64 {
	return math.Sqrt(2 * p.Diffusivity(temp) * time)
}

// Kernel produces the unit-sum Gaussian convolution kernel covering 3
// sigma on a grid of the given step. A zero step yields the identity
// kernel.
func (p *PebResistModel) Kernel(peb *PostExposureBake, step float64) []float64 {
	if step == 0 {
		return []float64{1}
	}
	sigma := p.DiffusionLength(peb.Temp, peb.Time)

	// Round the 3-sigma reach up to the next grid point.
	sigmaOnGrid := math.Ceil(3*sigma) - math.Mod(math.Ceil(3*sigma), step) + step
	count := int(2*sigmaOnGrid/step) + 1

	kernel := make([]float64, count)
	for k := 0; k < count; k++ {
		x := float64(k)*step - sigmaOnGrid
		kernel[k] = step / sigma / math.Sqrt(2*math.Pi) * math.Exp(-x*x/2/sigma/sigma)
	}

	// The 3-sigma window misses tail mass; normalize so diffusion
	// conserves the PAC integral.
	sum := floats.Sum(kernel)
	for k := range kernel {
		kernel[k] /= sum
	}
	return kernel
}

// ResistLayer is the photoresist film with its exposure, bake and
// development models.
type ResistLayer struct {
	LayerThickness float64

	Exposure *ExposureResistModel
	Peb      *PebResistModel
	Rate     RateModel
}

// Kind implements WaferLayer.
func (l *ResistLayer) Kind() LayerKind { return ResistLayerKind }

// Thickness implements WaferLayer.
func (l *ResistLayer) Thickness() float64 { return l.LayerThickness }

// Refraction implements WaferLayer via the Dill model.
func (l *ResistLayer) Refraction(wavelength, m float64) complex128 {
	return l.Exposure.Refraction(m)
}
