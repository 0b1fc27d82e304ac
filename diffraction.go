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
	"math"
	"math/cmplx"

	"github.com/xthebat/optolithium/geometry"
)

// CMatrix is a dense row-major complex matrix.
type CMatrix struct {
	Rows, Cols int
	Data       []complex128
}

// NewCMatrix allocates a zeroed rows-by-cols matrix.
func NewCMatrix(rows, cols int) *CMatrix {
	return &CMatrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// At returns the element at (r, c).
func (m *CMatrix) At(r, c int) complex128 { return m.Data[r*m.Cols+c] }

// Set stores v at (r, c).
func (m *CMatrix) Set(r, c int, v complex128) { m.Data[r*m.Cols+c] = v }

// Add accumulates v at (r, c).
func (m *CMatrix) Add(r, c int, v complex128) { m.Data[r*m.Cols+c] += v }

// withinCircle reports whether (dx, dy) lies inside a circle of radius r,
// with cheap rejection before the squared test.
func withinCircle(dx, dy, r float64) bool {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case adx+ady <= r:
		return true
	case adx > r || ady > r:
		return false
	default:
		return adx*adx+ady*ady <= r*r
	}
}

func withinCircleAt(x, y, cx, cy, r float64) bool {
	return withinCircle(x-cx, y-cy, r)
}

// Diffraction is the analytic Fourier spectrum of a mask on an integer
// order grid, with the matching spatial frequencies and direction
// cosines per axis. The grid extent covers every order that can fall
// into the pupil under any offset from the source support.
type Diffraction struct {
	Source *SourceShape

	Pitch    geometry.Sizes
	Boundary *Box

	NA         float64
	Wavelength float64

	// Values holds the complex orders with shape (len(Ky), len(Kx)).
	Values *CMatrix

	Kx, Ky     []int
	FrqX, FrqY []float64
	Cx, Cy     []float64

	// cxy caches sqrt(cx²+cy²) per order.
	cxy []float64
}

// orderLimits computes the order index range for one axis so that all
// orders falling into the pupil under any source offset are present.
func orderLimits(na, wavelength, pitch, csMin, csMax float64) (kMin, kMax int, err error) {
	if csMin > csMax {
		return 0, 0, fmt.Errorf(
			"optolithium: source direction cosine maximum %g below minimum %g: %w",
			csMax, csMin, ErrArgument)
	}
	kMin = -int(math.Floor(na * (1 - csMin) / wavelength * pitch))
	kMax = int(math.Floor(na * (1 + csMax) / wavelength * pitch))
	return kMin, kMax, nil
}

func orderAxis(kMin, count int, pitch, wavelength float64) (k []int, frq, dcos []float64) {
	k = make([]int, count)
	frq = make([]float64, count)
	dcos = make([]float64, count)
	if pitch == 0 {
		return k, frq, dcos
	}
	for i := 0; i < count; i++ {
		k[i] = kMin + i
		frq[i] = float64(k[i]) / pitch
		dcos[i] = frq[i] * wavelength
	}
	return k, frq, dcos
}

// NewDiffraction computes the diffraction spectrum of a mask under an
// imaging tool by accumulating the closed-form Fourier coefficients of
// every region against the background, then adding the background dc
// term for clear masks.
func NewDiffraction(mask *Mask, tool *ImagingTool) (*Diffraction, error) {
	if mask.IsBad() {
		return nil, fmt.Errorf(
			"optolithium.NewDiffraction: mask boundary has zero extent in both axes: %w", ErrMask)
	}
	Logger.WithFields(map[string]interface{}{
		"pitchX": mask.Pitch().X, "pitchY": mask.Pitch().Y,
	}).Info("calculate diffraction pattern")

	d := &Diffraction{
		Source:     tool.Source,
		Pitch:      mask.Pitch(),
		Boundary:   mask.Boundary(),
		NA:         tool.NA,
		Wavelength: tool.Wavelength,
	}

	kxMin, kxMax, err := orderLimits(d.NA, d.Wavelength, d.Pitch.X, tool.Source.CxMin, tool.Source.CxMax)
	if err != nil {
		return nil, err
	}
	kyMin, kyMax, err := orderLimits(d.NA, d.Wavelength, d.Pitch.Y, tool.Source.CyMin, tool.Source.CyMax)
	if err != nil {
		return nil, err
	}
	cols := kxMax - kxMin + 1
	rows := kyMax - kyMin + 1

	d.Kx, d.FrqX, d.Cx = orderAxis(kxMin, cols, d.Pitch.X, d.Wavelength)
	d.Ky, d.FrqY, d.Cy = orderAxis(kyMin, rows, d.Pitch.Y, d.Wavelength)

	d.Values = NewCMatrix(rows, cols)
	d.cxy = make([]float64, rows*cols)
	for r, cy := range d.Cy {
		for c, cx := range d.Cx {
			d.cxy[r*cols+c] = math.Hypot(cx, cy)
		}
	}

	for _, region := range mask.Regions() {
		factor := region.Transmission() - mask.Boundary().Transmission()
		if err := d.addRegion(region, factor); err != nil {
			return nil, err
		}
	}

	if !mask.IsOpaque() {
		background := mask.Boundary().Transmission()
		for r := range d.Ky {
			for c := range d.Kx {
				if d.cxy[r*cols+c] == 0 {
					d.Values.Add(r, c, background)
				}
			}
		}
	}
	return d, nil
}

// Value returns the order at grid indices (r, c).
func (d *Diffraction) Value(r, c int) complex128 { return d.Values.At(r, c) }

// addRegion accumulates one region's spectrum scaled to the cell area.
func (d *Diffraction) addRegion(region *Region, factor complex128) error {
	switch region.Axis() {
	case geometry.Dim1DX:
		d.add1dRegion(region, factor/complex(d.Pitch.X, 0))
	case geometry.Dim1DY:
		d.add1dRegion(region, factor/complex(d.Pitch.Y, 0))
	case geometry.Dim2D:
		d.add2dRegion(region, factor/complex(d.Pitch.X*d.Pitch.Y, 0))
	default:
		return fmt.Errorf("optolithium: unknown region dimensionality: %w", ErrMask)
	}
	return nil
}

// add1dRegion accumulates the closed-form series of a single axis-aligned
// edge: the edge length for the zero order, otherwise
// -(exp(-w·dst) - exp(-w·org))/w with w = 2πj·f.
func (d *Diffraction) add1dRegion(region *Region, factor complex128) {
	e := region.Edges()[0]
	axis := int(region.Axis())
	org := e.Org.Dim(axis)
	dst := e.Dst.Dim(axis)

	k := d.Kx
	frq := d.FrqX
	if region.Axis() == geometry.Dim1DY {
		k = d.Ky
		frq = d.FrqY
	}
	for i := range k {
		var value complex128
		if k[i] == 0 {
			value = complex(dst-org, 0)
		} else {
			w := complex(0, 2*math.Pi*frq[i])
			value = -(cmplx.Exp(-w*complex(dst, 0)) - cmplx.Exp(-w*complex(org, 0))) / w
		}
		d.Values.Data[i] += factor * value
	}
}

// region2dOrder evaluates the closed-form coefficient of a 2D region at
// one order, summing the per-edge cases of the analytic integral.
func region2dOrder(region *Region, kx, ky int, frqx, frqy float64) complex128 {
	var result complex128
	for _, e := range region.Edges() {
		dx := e.Dx()
		if dx == 0 {
			continue
		}
		dy := e.Dy()
		s := e.Slope()
		b := e.Dst.Y - s*e.Dst.X

		orgX := complex(e.Org.X, 0)
		dstX := complex(e.Dst.X, 0)

		var value complex128
		switch {
		case kx == 0 && ky == 0:
			value = complex(e.Area(), 0)
		case kx == 0:
			wy := complex(0, 2*math.Pi*frqy)
			if dy == 0 {
				value = complex(dx, 0) / wy * (1 - cmplx.Exp(-wy*complex(b, 0)))
			} else {
				value = complex(dx, 0)/wy +
					cmplx.Exp(-wy*complex(b, 0))/complex(s, 0)/wy/wy*
						(cmplx.Exp(-complex(s, 0)*wy*dstX)-cmplx.Exp(-complex(s, 0)*wy*orgX))
			}
		case ky == 0:
			wx := complex(0, 2*math.Pi*frqx)
			if dy == 0 {
				value = complex(b, 0) / wx * (cmplx.Exp(-wx*orgX) - cmplx.Exp(-wx*dstX))
			} else {
				ex0 := cmplx.Exp(-wx * orgX)
				ex1 := cmplx.Exp(-wx * dstX)
				value = (complex(s, 0)+wx*complex(b, 0))*(ex0-ex1)/wx/wx +
					complex(s, 0)*(ex0*orgX-ex1*dstX)/wx
			}
		default:
			wx := complex(0, 2*math.Pi*frqx)
			wy := complex(0, 2*math.Pi*frqy)
			switch {
			case dy == 0:
				value = (1 - cmplx.Exp(-wy*complex(b, 0))) *
					(cmplx.Exp(-wx*orgX) - cmplx.Exp(-wx*dstX)) / wx / wy
			case wx+complex(s, 0)*wy == 0:
				value = (cmplx.Exp(-wx*orgX)-cmplx.Exp(-wx*dstX))/wx/wy -
					complex(dx, 0)*cmplx.Exp(-wy*complex(b, 0))/wy
			default:
				coef := wx + complex(s, 0)*wy
				dexp := cmplx.Exp(-wx*orgX) - cmplx.Exp(-wx*dstX)
				value = dexp/wx/wy +
					cmplx.Exp(-wy*complex(b, 0))/wy*
						(cmplx.Exp(-coef*dstX)-cmplx.Exp(-coef*orgX))/coef
			}
		}
		result += value
	}
	return result
}

// add2dRegion accumulates a 2D region over every order that lies inside
// the pupil or inside a pupil circle shifted by a non-zero source point.
// Each order is evaluated at most once per region.
func (d *Diffraction) add2dRegion(region *Region, factor complex128) {
	na := d.NA
	cols := d.Values.Cols
	calculated := make([]bool, len(d.Values.Data))

	for _, rc := range d.Source.NonZeros {
		scx := na * d.Source.Cx[rc[1]]
		scy := na * d.Source.Cy[rc[0]]
		for c := range d.Kx {
			cx := d.Cx[c]
			for r := range d.Ky {
				idx := r*cols + c
				if calculated[idx] {
					continue
				}
				cy := d.Cy[r]
				// The un-shifted pupil test keeps the central orders
				// even for tilted sources.
				if d.cxy[idx] <= na || withinCircleAt(cx, cy, scx, scy, na) {
					d.Values.Data[idx] += factor *
						region2dOrder(region, d.Kx[c], d.Ky[r], d.FrqX[c], d.FrqY[r])
					calculated[idx] = true
				}
			}
		}
	}
}
