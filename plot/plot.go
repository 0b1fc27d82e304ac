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

/*Package plot renders simulation results with gonum plots: image
cross-sections against position and resist profiles as closed outlines.*/
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/xthebat/optolithium"
)

// XYs implements the gonum.org/v1/plot/plotter.XYer interface.
type XYs []XY

// XY is an x and y value.
type XY struct{ X, Y float64 }

// Len returns the number of X,Y pairs.
func (xys XYs) Len() int {
	return len(xys)
}

// XY return the x and y values at index i, where i < Len()
func (xys XYs) XY(i int) (float64, float64) {
	return xys[i].X, xys[i].Y
}

// CrossSection extracts one volume slice along x at the first row as
// plottable points.
func CrossSection(v *optolithium.ResistVolume, slice int) XYs {
	out := make(XYs, len(v.X))
	for c := range v.X {
		out[c] = XY{X: v.X[c], Y: v.Values.Get(0, c, slice)}
	}
	return out
}

// Image writes a line plot of one volume slice to a file; the format
// follows the file extension.
func Image(v *optolithium.ResistVolume, slice int, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (nm)"
	p.Y.Label.Text = "intensity"

	line, err := plotter.NewLine(CrossSection(v, slice))
	if err != nil {
		return fmt.Errorf("plot.Image: %v", err)
	}
	p.Add(line, plotter.NewGrid())
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plot.Image: %v", err)
	}
	return nil
}

// Profile writes the resist-profile outlines to a file; the format
// follows the file extension.
func Profile(profile *optolithium.ResistProfile, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (nm)"
	p.Y.Label.Text = "height (nm)"

	for _, poly := range profile.Polygons {
		pts := poly.Points()
		xys := make(XYs, 0, len(pts)+1)
		for _, pt := range pts {
			xys = append(xys, XY{X: pt.X, Y: pt.Y})
		}
		xys = append(xys, xys[0])
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plot.Profile: %v", err)
		}
		p.Add(line)
	}
	p.Add(plotter.NewGrid())
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plot.Profile: %v", err)
	}
	return nil
}
