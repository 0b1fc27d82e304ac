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

/*Package optolithium is the numerical core of a photolithography process
simulator. Starting from an illumination system, a photomask layout, a
wafer film stack, a photoresist chemistry and the process conditions, it
computes in order: the analytic diffraction spectrum of the mask, the
optical image in air or inside the resist (with thin-film standing waves),
the latent chemical image after exposure, the diffused latent image after
the post-exposure bake, the development-time field from a 3D Eikonal
solution, and finally the resist profile as polygonal contours.

Lengths are in nanometers, angles in degrees at the API boundary,
temperatures in Celsius, times in seconds and diffusivities in nm²/s.*/
package optolithium

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

// Failure kinds surfaced by the pipeline. Local recoveries (interpolation
// out of range, Eikonal quadratic degeneracy) never reach the caller.
var (
	// ErrMask marks masks and regions that violate geometric invariants.
	ErrMask = errors.New("invalid mask geometry")
	// ErrWaferStack marks wafer-stack ordering violations.
	ErrWaferStack = errors.New("wafer stack invariant violated")
	// ErrArgument marks inconsistent numeric arguments.
	ErrArgument = errors.New("argument mismatch")
	// ErrResistVolume marks resist-volume and profile shape violations.
	ErrResistVolume = errors.New("invalid resist volume")
)

// Logger is the package logger; hosts may silence or redirect it.
var Logger = log.StandardLogger()
