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

import (
	"math"
	"math/cmplx"
)

// cacheNode caches the twiddle factors of one transform length. Recursive
// algorithms hang child nodes for the lengths of their sub-transforms, so
// a plan owns a tree mirroring its recursion. Entries are filled lazily
// and stored with the backward (positive) imaginary sign; the direction
// sign is applied on read.
type cacheNode struct {
	count    int
	values   []complex128
	present  []bool
	children [2]*cacheNode
}

func newCacheNode(count int) *cacheNode {
	return &cacheNode{
		count:   count,
		values:  make([]complex128, count),
		present: make([]bool, count),
	}
}

// child returns (and creates on first use) the idx'th child node with the
// given transform length. A nil receiver stays nil so uncached recursion
// falls through to direct computation.
func (c *cacheNode) child(idx, count int) *cacheNode {
	if c == nil {
		return nil
	}
	if c.children[idx] == nil || c.children[idx].count != count {
		c.children[idx] = newCacheNode(count)
	}
	return c.children[idx]
}

// twiddleFromTable reads exp(+2πj·k/n) from the shared sine table; valid
// when n divides the table length.
func twiddleFromTable(k, n int) complex128 {
	imagIdx := sineTableSize / n * k
	realIdx := (imagIdx + sineTableSize/4) % sineTableSize
	return complex(sineTable[realIdx], sineTable[imagIdx])
}

func useTable(n int) bool {
	return n <= sineTableSize && sineTableSize%n == 0
}

// calcTwiddle returns exp(2πj·dir·k/n), consulting the cache when one is
// attached.
func calcTwiddle(k, n int, dir Direction, cache *cacheNode) complex128 {
	var w complex128
	if cache != nil {
		if !cache.present[k] {
			if useTable(n) {
				cache.values[k] = twiddleFromTable(k, n)
			} else {
				cache.values[k] = cmplx.Exp(complex(0, 2*math.Pi*float64(k)/float64(n)))
			}
			cache.present[k] = true
		}
		w = cache.values[k]
	} else if useTable(n) {
		w = twiddleFromTable(k, n)
	} else {
		w = cmplx.Exp(complex(0, 2*math.Pi*float64(k)/float64(n)))
	}
	if dir == Forward {
		return complex(real(w), -imag(w))
	}
	return w
}
