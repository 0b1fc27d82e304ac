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

// OpticalTransferFunction combines the pupil filter, the radiometric
// reduction correction, the defocus phase (when an exposure is present)
// and the thin-film standing waves (when a wafer stack is present). It
// owns the stack's reflection caches for the duration of one image
// computation.
type OpticalTransferFunction struct {
	Tool     *ImagingTool
	Exposure *Exposure
	Stack    *WaferStack
}

// NewOTF builds an optical transfer function; exposure and stack may be
// nil for a plain aerial image.
func NewOTF(tool *ImagingTool, exposure *Exposure, stack *WaferStack) *OpticalTransferFunction {
	return &OpticalTransferFunction{Tool: tool, Exposure: exposure, Stack: stack}
}

// environmentRefraction is the index of the medium the image forms in.
func (o *OpticalTransferFunction) environmentRefraction() complex128 {
	if o.Stack != nil && o.Stack.Environment() != nil {
		return o.Stack.Environment().Refraction(o.Tool.Wavelength, 1)
	}
	return AirRefraction
}

// Calc evaluates the transfer function at direction cosines (cx, cy) and
// depth dz below the resist top. Outside the pupil it is zero.
func (o *OpticalTransferFunction) Calc(cx, cy, dz float64) complex128 {
	if !withinCircle(cx, cy, o.Tool.NA) {
		return 0
	}
	otf := o.Tool.Filter(cx, cy)
	otf *= complex(o.Tool.ReductionFactor(cx, cy, o.environmentRefraction()), 0)
	if o.Exposure != nil {
		otf *= o.Exposure.Defocus(cx, cy, o.Tool.Wavelength)
	}
	if o.Stack != nil {
		otf *= o.Stack.StandingWaves(cx, cy, dz, o.Tool.Wavelength)
	}
	return otf
}
