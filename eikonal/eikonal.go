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

/*Package eikonal solves |grad phi| = 1/speed on regular 2D and 3D grids
with the fast marching method, using first- or second-order upwind
differences and a binary-heap narrow band.

The phi array carries the initial state: non-negative samples form the
initial front, negative samples are unset. Grid points with a negative mask
value or a speed below the zero tolerance are outside the domain and come
back as math.MaxFloat64.*/
package eikonal

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// Spatial discretization orders accepted by Solve.
const (
	OrderFirst  = 1
	OrderSecond = 2
)

// zeroTol separates developable voxels from blocked ones; speeds below it
// put the point outside the domain.
const zeroTol = 1e-11

// ErrEikonal is returned when the solver cannot be set up: inconsistent
// array sizes or an unsupported discretization order.
var ErrEikonal = errors.New("eikonal solver failure")

type status uint8

const (
	far status = iota
	trial
	known
	outside
)

type solver struct {
	phi    []float64
	speed  []float64
	status []status
	dims   []int
	stride []int
	dx     []float64
	order  int
	heap   *narrowBand
}

// Solve runs the fast marching method over a row-major grid with the given
// per-axis dimensions and step sizes. mask may be nil; negative mask
// entries exclude points from the domain. phi is updated in place.
func Solve(phi, speed, mask []float64, order int, dims []int, dx []float64) error {
	if order != OrderFirst && order != OrderSecond {
		return fmt.Errorf("eikonal.Solve: spatial discretization order %d: %w", order, ErrEikonal)
	}
	if len(dims) != len(dx) {
		return fmt.Errorf("eikonal.Solve: %d dims for %d steps: %w", len(dims), len(dx), ErrEikonal)
	}
	total := 1
	for _, n := range dims {
		if n <= 0 {
			return fmt.Errorf("eikonal.Solve: dimension %d: %w", n, ErrEikonal)
		}
		total *= n
	}
	if len(phi) != total || len(speed) != total || (mask != nil && len(mask) != total) {
		return fmt.Errorf("eikonal.Solve: arrays do not match %d grid points: %w", total, ErrEikonal)
	}

	s := &solver{
		phi:    phi,
		speed:  speed,
		status: make([]status, total),
		dims:   dims,
		stride: make([]int, len(dims)),
		dx:     dx,
		order:  order,
		heap:   newNarrowBand(phi, total),
	}
	str := 1
	for i := len(dims) - 1; i >= 0; i-- {
		s.stride[i] = str
		str *= dims[i]
	}

	for idx := 0; idx < total; idx++ {
		if (mask != nil && mask[idx] < 0) || speed[idx] < zeroTol {
			s.status[idx] = outside
			phi[idx] = math.MaxFloat64
		}
	}

	// Points carrying a non-negative phi form the initial front.
	for idx := 0; idx < total; idx++ {
		if s.status[idx] != outside && phi[idx] > -zeroTol {
			s.status[idx] = known
		}
	}
	for idx := 0; idx < total; idx++ {
		if s.status[idx] == known {
			s.updateNeighbors(idx)
		}
	}

	for s.heap.len() > 0 {
		idx := s.heap.pop()
		s.status[idx] = known
		s.updateNeighbors(idx)
	}
	return nil
}

// Solve2d solves on a rows-by-cols grid with steps (rowStep, colStep).
func Solve2d(phi, speed, mask []float64, order, rows, cols int, rowStep, colStep float64) error {
	return Solve(phi, speed, mask, order, []int{rows, cols}, []float64{rowStep, colStep})
}

// Solve3d solves on a rows-by-cols-by-slices grid.
func Solve3d(phi, speed, mask []float64, order, rows, cols, slices int, rowStep, colStep, sliceStep float64) error {
	return Solve(phi, speed, mask, order, []int{rows, cols, slices}, []float64{rowStep, colStep, sliceStep})
}

// neighbor returns the flat index of the point offset by delta steps along
// axis, or -1 outside the grid.
func (s *solver) neighbor(idx, axis, delta int) int {
	coord := idx / s.stride[axis] % s.dims[axis]
	coord += delta
	if coord < 0 || coord >= s.dims[axis] {
		return -1
	}
	return idx + delta*s.stride[axis]
}

// updateNeighbors recomputes phi at every neighbor of a freshly known
// point and keeps the narrow band ordered.
func (s *solver) updateNeighbors(idx int) {
	for axis := range s.dims {
		for _, delta := range [2]int{-1, 1} {
			n := s.neighbor(idx, axis, delta)
			if n < 0 {
				continue
			}
			switch s.status[n] {
			case far:
				s.updatePoint(n)
				s.status[n] = trial
				s.heap.push(n)
			case trial:
				s.updatePoint(n)
				s.heap.fix(n)
			}
		}
	}
}

// updatePoint solves the upwind quadratic for phi at idx, falling back to
// first order on axes lacking a second known neighbor.
func (s *solver) updatePoint(idx int) {
	var a, b, c float64
	for axis := range s.dims {
		upwind1 := math.MaxFloat64
		upwind2 := math.MaxFloat64
		secondOrder := false
		for _, delta := range [2]int{-1, 1} {
			n1 := s.neighbor(idx, axis, delta)
			if n1 < 0 || s.status[n1] != known {
				continue
			}
			if math.Abs(s.phi[n1]) >= math.Abs(upwind1) && upwind1 != math.MaxFloat64 {
				continue
			}
			upwind1 = s.phi[n1]
			upwind2 = math.MaxFloat64
			secondOrder = false
			if s.order == OrderSecond {
				n2 := s.neighbor(idx, axis, 2*delta)
				if n2 >= 0 && s.status[n2] == known && math.Abs(s.phi[n2]) <= math.Abs(upwind1) {
					upwind2 = s.phi[n2]
					secondOrder = true
				}
			}
		}
		if upwind1 == math.MaxFloat64 {
			continue
		}
		contrib := upwind1
		weight := 1.0
		if secondOrder {
			contrib = 2*upwind1 - 0.5*upwind2
			weight = 1.5
		}
		invDxSq := 1 / (s.dx[axis] * s.dx[axis])
		a += invDxSq * weight * weight
		b += invDxSq * weight * contrib
		c += invDxSq * contrib * contrib
	}

	if a == 0 {
		s.phi[idx] = math.MaxFloat64
		return
	}
	b *= -2
	c -= 1 / (s.speed[idx] * s.speed[idx])

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		// Inconsistent boundary data for the discretized equation; keep
		// the previously assigned value.
		log.WithFields(log.Fields{"index": idx}).Debug(
			"eikonal: negative discriminant, keeping previous phi")
		return
	}
	s.phi[idx] = 0.5 * (-b + math.Sqrt(discriminant)) / a
}
