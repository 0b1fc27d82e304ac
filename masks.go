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

	"github.com/xthebat/optolithium/geometry"
)

// Built-in mask generators. Each fills a boundary box and an ordered
// region list from a positional parameter block, like the loadable mask
// plugins of the original distribution.

// Line1DMask builds a one-dimensional binary mask: a dark line of the
// given width on a clear background of the given pitch.
// Args: featureWidth, pitch.
func Line1DMask(args []float64) (*Mask, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("optolithium.Line1DMask: %d args, want 2: %w", len(args), ErrArgument)
	}
	width, pitch := args[0], args[1]
	region, err := NewRegion([]geometry.Point{
		{X: -width / 2, Y: 0},
		{X: width / 2, Y: 0},
	}, 0, 0)
	if err != nil {
		return nil, err
	}
	boundary := NewBox(geometry.Point{X: -pitch / 2, Y: 0}, geometry.Point{X: pitch / 2, Y: 0}, 1, 0)
	return NewMask([]*Region{region}, boundary)
}

// rectangleRegion builds a dark rectangular region centered at (cx, cy).
func rectangleRegion(cx, cy, width, height float64) (*Region, error) {
	x0, y0 := cx-width/2, cy-height/2
	return NewRegion([]geometry.Point{
		{X: x0, Y: y0},
		{X: x0, Y: y0 + height},
		{X: x0 + width, Y: y0 + height},
		{X: x0 + width, Y: y0},
	}, 0, 0)
}

// FiveBarLineMask builds a primary dark line flanked by two pairs of
// secondary bars on a clear 2D field. The x pitch grows when the five
// bars do not fit.
// Args: featureWidth, featureSpace, pitchX, pitchY.
func FiveBarLineMask(args []float64) (*Mask, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("optolithium.FiveBarLineMask: %d args, want 4: %w", len(args), ErrArgument)
	}
	const (
		xOffset = 100.0
		yOffset = 500.0
		bars    = 5
	)
	width, space, pitchX, pitchY := args[0], args[1], args[2], args[3]
	if total := bars*(width+space) + xOffset; pitchX < total {
		pitchX = total
	}

	height := pitchY - 2*yOffset
	var regions []*Region
	for k := -2; k <= 2; k++ {
		region, err := rectangleRegion(float64(k)*(width+space), 0, width, height)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	boundary := NewBox(
		geometry.Point{X: -pitchX / 2, Y: -pitchY / 2},
		geometry.Point{X: pitchX / 2, Y: pitchY / 2}, 1, 0)
	return NewMask(regions, boundary)
}
