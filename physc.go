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

// Physical constants used by the resist and film-stack models.
const (
	// GasConstant is the ideal gas constant in kcal/(K·mol).
	GasConstant = 1.987204118e-3

	// AbsoluteZero in degrees Celsius.
	AbsoluteZero = -273.15
)

// AirRefraction is the complex refractive index of air.
var AirRefraction = complex(1.0002926, 0)
