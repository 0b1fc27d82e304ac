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

// Dedicated kernels for the hard-coded transform lengths. Radices 2 and 4
// need no multiplications; the rest run a dense small-N DFT against the
// precomputed length-N twiddle table.

func isSmallRadix(n int) bool {
	_, ok := smallTwiddles[n]
	return ok
}

// smallRadix dispatches one of the hard-coded butterflies.
func smallRadix(v *view) {
	switch v.count {
	case 2:
		radixC2(v)
	case 4:
		radixC4(v)
	default:
		radixDense(v)
	}
}

func radixC2(v *view) {
	for s := 0; s < v.howMany; s++ {
		x0 := v.in[v.ii(s, 0)]
		x1 := v.in[v.ii(s, 1)]
		v.out[v.oi(s, 0)] = x0 + x1
		v.out[v.oi(s, 1)] = x0 - x1
	}
}

// mulJ returns ±j*x without a complex multiply.
func mulJ(x complex128, sign float64) complex128 {
	return complex(-sign*imag(x), sign*real(x))
}

func radixC4(v *view) {
	d := float64(v.dir)
	for s := 0; s < v.howMany; s++ {
		x0 := v.in[v.ii(s, 0)]
		x1 := v.in[v.ii(s, 1)]
		x2 := v.in[v.ii(s, 2)]
		x3 := v.in[v.ii(s, 3)]
		v.out[v.oi(s, 0)] = x0 + x1 + x2 + x3
		v.out[v.oi(s, 1)] = x0 + mulJ(x1, d) - x2 + mulJ(x3, -d)
		v.out[v.oi(s, 2)] = x0 - x1 + x2 - x3
		v.out[v.oi(s, 3)] = x0 + mulJ(x1, -d) - x2 + mulJ(x3, d)
	}
}

// radixDense is the generic hard-coded butterfly: a full DFT against the
// length-N twiddle table. The table stores the forward factors; the
// backward transform conjugates on read.
func radixDense(v *view) {
	n := v.count
	w := smallTwiddles[n]
	x := make([]complex128, n)
	for s := 0; s < v.howMany; s++ {
		for k := 0; k < n; k++ {
			x[k] = v.in[v.ii(s, k)]
		}
		for k := 0; k < n; k++ {
			sum := x[0]
			for m := 1; m < n; m++ {
				t := w[k*m%n]
				if v.dir == Backward {
					t = complex(real(t), -imag(t))
				}
				sum += t * x[m]
			}
			v.out[v.oi(s, k)] = sum
		}
	}
}
