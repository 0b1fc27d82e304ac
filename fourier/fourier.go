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

/*Package fourier implements a mixed-radix complex FFT with hard-coded
small-length butterflies, an iterative radix-2 kernel, Rader's algorithm for
prime lengths and a column/row split for composite lengths.

The forward transform uses the exponent -2πj and the backward transform
+2πj. No scaling is applied in either direction; callers divide by N when a
symmetric normalisation is wanted.*/
package fourier

import (
	"errors"
	"fmt"
)

// Direction selects the sign of the transform exponent.
type Direction int

// Transform directions.
const (
	Forward  Direction = -1
	Backward Direction = 1
)

// ErrArgument is returned for invalid plan parameters: zero lengths, too
// short buffers or an unknown direction.
var ErrArgument = errors.New("invalid plan argument")

// Plan holds everything needed to run one transform repeatedly: the
// dimensions, the input/output arrays, the direction, a shadow buffer for
// in-place execution and a per-dimension twiddle cache.
type Plan struct {
	rank    int
	dims    []int
	total   int
	howMany int

	in, out []complex128
	tmp     []complex128

	dir   Direction
	cache []*cacheNode
}

func checkPlanArgs(dims []int, howMany int, in, out []complex128, dir Direction) (total int, err error) {
	if dir != Forward && dir != Backward {
		return 0, fmt.Errorf("fourier: direction %d: %w", dir, ErrArgument)
	}
	total = 1
	for _, n := range dims {
		if n <= 0 {
			return 0, fmt.Errorf("fourier: dimension %d: %w", n, ErrArgument)
		}
		total *= n
	}
	if howMany <= 0 {
		return 0, fmt.Errorf("fourier: batch count %d: %w", howMany, ErrArgument)
	}
	if len(in) < total*howMany || len(out) < total*howMany {
		return 0, fmt.Errorf("fourier: buffers %d/%d shorter than %d samples: %w",
			len(in), len(out), total*howMany, ErrArgument)
	}
	return total, nil
}

func newPlan(dims []int, howMany int, in, out []complex128, dir Direction) (*Plan, error) {
	initTables()
	total, err := checkPlanArgs(dims, howMany, in, out, dir)
	if err != nil {
		return nil, err
	}
	p := &Plan{
		rank:    len(dims),
		dims:    append([]int(nil), dims...),
		total:   total,
		howMany: howMany,
		in:      in,
		out:     out,
		dir:     dir,
		cache:   make([]*cacheNode, len(dims)),
	}
	for i, n := range dims {
		p.cache[i] = newCacheNode(n)
	}
	if p.rank > 1 || &in[0] == &out[0] {
		p.tmp = make([]complex128, total*howMany)
	}
	return p, nil
}

// NewPlan1d creates a plan for a single transform of length n.
func NewPlan1d(n int, in, out []complex128, dir Direction) (*Plan, error) {
	return NewPlanMany1d(n, 1, in, out, dir)
}

// NewPlanMany1d creates a plan for howMany contiguous transforms of length
// n each; transform s occupies in[s*n : (s+1)*n].
func NewPlanMany1d(n, howMany int, in, out []complex128, dir Direction) (*Plan, error) {
	return newPlan([]int{n}, howMany, in, out, dir)
}

// NewPlan2d creates a plan for a rows-by-cols transform of a row-major
// matrix. The plan may be reused for a batch by passing howMany matrices
// back to back through NewPlanMany2d.
func NewPlan2d(rows, cols int, in, out []complex128, dir Direction) (*Plan, error) {
	return newPlan([]int{rows, cols}, 1, in, out, dir)
}

// NewPlanMany2d creates a plan for howMany consecutive rows-by-cols
// transforms.
func NewPlanMany2d(rows, cols, howMany int, in, out []complex128, dir Direction) (*Plan, error) {
	return newPlan([]int{rows, cols}, howMany, in, out, dir)
}

// NewPlanNd creates a plan for a transform over every axis of a row-major
// n-dimensional array.
func NewPlanNd(dims []int, in, out []complex128, dir Direction) (*Plan, error) {
	return newPlan(dims, 1, in, out, dir)
}

// Execute runs the planned transform. It may be called repeatedly; the
// twiddle cache persists across calls.
func (p *Plan) Execute() {
	if p.rank == 1 {
		p.execute1d()
		return
	}
	p.executeNd()
}

func (p *Plan) execute1d() {
	n := p.dims[0]
	out := p.out
	inPlace := &p.in[0] == &p.out[0]
	if inPlace {
		out = p.tmp
	}
	v := &view{
		count: n, howMany: p.howMany,
		in: p.in, out: out,
		idist: 1, istride: n,
		odist: 1, ostride: n,
		dir: p.dir,
	}
	mixedRadix(v, p.cache[0])
	if inPlace {
		copy(p.in, p.tmp)
	}
}

// executeNd applies the 1D transform along each axis in turn, columns
// before rows for the 2D case, ping-ponging between the shadow buffer and
// the output array.
func (p *Plan) executeNd() {
	for m := 0; m < p.howMany; m++ {
		in := p.in[m*p.total : (m+1)*p.total]
		out := p.out[m*p.total : (m+1)*p.total]
		tmp := p.tmp[m*p.total : (m+1)*p.total]

		src, dst := in, tmp
		for a := 0; a < p.rank; a++ {
			p.transformAxis(a, src, dst)
			if a == 0 {
				src, dst = tmp, out
			} else {
				src, dst = dst, src
			}
		}
		if &src[0] != &out[0] {
			copy(out, src)
		}
	}
}

// transformAxis runs all lines along axis a of the row-major array from
// src into dst.
func (p *Plan) transformAxis(a int, src, dst []complex128) {
	n := p.dims[a]
	stride := 1
	for j := a + 1; j < p.rank; j++ {
		stride *= p.dims[j]
	}
	outer := p.total / (n * stride)
	for o := 0; o < outer; o++ {
		base := o * n * stride
		v := &view{
			count: n, howMany: stride,
			in: src[base:], out: dst[base:],
			idist: stride, istride: 1,
			odist: stride, ostride: 1,
			dir: p.dir,
		}
		mixedRadix(v, p.cache[a])
	}
}
