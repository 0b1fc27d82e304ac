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

package fourier

// rotate shifts data right by k positions in place.
func rotate(data []complex128, k int) {
	n := len(data)
	if n == 0 {
		return
	}
	k = ((k % n) + n) % n
	if k == 0 {
		return
	}
	tmp := make([]complex128, n)
	for i, v := range data {
		tmp[(i+k)%n] = v
	}
	copy(data, tmp)
}

// FFTShift moves the zero-frequency bin to the center of the spectrum.
func FFTShift(data []complex128) {
	rotate(data, len(data)/2)
}

// IFFTShift undoes FFTShift for both even and odd lengths.
func IFFTShift(data []complex128) {
	rotate(data, -(len(data) / 2))
}
