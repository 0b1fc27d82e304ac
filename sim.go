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

	"github.com/xthebat/optolithium/conv"
	"github.com/xthebat/optolithium/eikonal"
	"github.com/xthebat/optolithium/fourier"
)

// CalcDiffraction computes the diffraction pattern of a mask under an
// imaging tool. It is the first pipeline stage.
func CalcDiffraction(tool *ImagingTool, mask *Mask) (*Diffraction, error) {
	return NewDiffraction(mask, tool)
}

func mod(a, n int) int { return ((a % n) + n) % n }

// calcImage runs the Hopkins sum into the volume: for every slice and
// every source point, scatter the diffraction orders through the OTF into
// an electric-field matrix, inverse transform it, and accumulate the
// irradiance-weighted intensity. The final slice is shifted into the
// output with the periodic last row/column duplicating the first.
func calcImage(result *ResistVolume, d *Diffraction, otf *OpticalTransferFunction, refractiveIndex float64) error {
	rows, cols, slices := result.Rows(), result.Cols(), result.Slices()
	nRows, nCols := rows, cols
	if rows != 1 {
		nRows = rows - 1
	}
	if cols != 1 {
		nCols = cols - 1
	}
	if nRows != 1 && nRows%2 != 0 {
		return fmt.Errorf("optolithium: image row count %d must be even: %w", nRows, ErrArgument)
	}
	if nCols != 1 && nCols%2 != 0 {
		return fmt.Errorf("optolithium: image column count %d must be even: %w", nCols, ErrArgument)
	}
	midRow, midCol := nRows/2, nCols/2
	na := d.NA

	efield := make([]complex128, nRows*nCols)
	plan, err := fourier.NewPlan2d(nRows, nCols, efield, efield, fourier.Backward)
	if err != nil {
		return err
	}

	intensity := make([]float64, nRows*nCols)
	norm := refractiveIndex / d.Source.TotalIntensity()

	for s := 0; s < slices; s++ {
		depth := result.Z[s]
		for i := range intensity {
			intensity[i] = 0
		}

		for _, rc := range d.Source.NonZeros {
			irradiance := d.Source.Value(rc[0], rc[1])
			scx := na * d.Source.Cx[rc[1]]
			scy := na * d.Source.Cy[rc[0]]

			for i := range efield {
				efield[i] = 0
			}
			for r := 0; r < d.Values.Rows; r++ {
				eRow := mod(nRows+d.Ky[r]-1, nRows)
				dcy := d.Cy[r]
				for c := 0; c < d.Values.Cols; c++ {
					eCol := mod(nCols+d.Kx[c]-1, nCols)
					efield[eRow*nCols+eCol] = otf.Calc(d.Cx[c]-scx, dcy-scy, depth) * d.Value(r, c)
				}
			}

			plan.Execute()

			for i, e := range efield {
				re, im := real(e), imag(e)
				intensity[i] += irradiance * (re*re + im*im)
			}
		}

		for i := range intensity {
			intensity[i] *= norm
		}

		// fftshift into the output and duplicate the first row/column at
		// the far edge (periodic boundary).
		set := func(r, c int, v float64) {
			result.Values.Elements[(r*cols+c)*slices+s] = v
		}
		switch {
		case nCols != 1 && nRows == 1:
			for c := 0; c < midCol; c++ {
				set(0, c+midCol, intensity[c])
				set(0, c, intensity[c+midCol])
			}
			set(0, nCols, intensity[midCol])
		case nRows != 1 && nCols == 1:
			for r := 0; r < midRow; r++ {
				set(r+midRow, 0, intensity[r])
				set(r, 0, intensity[r+midRow])
			}
			set(nRows, 0, intensity[midRow])
		default:
			for r := 0; r < midRow; r++ {
				for c := 0; c < midCol; c++ {
					set(r+midRow, c+midCol, intensity[r*nCols+c])
					set(r, c, intensity[(r+midRow)*nCols+c+midCol])
					set(r, c+midCol, intensity[(r+midRow)*nCols+c])
					set(r+midRow, c, intensity[r*nCols+c+midCol])
				}
			}
			for c := 0; c < nCols; c++ {
				set(nRows, c, result.Values.Elements[(0*cols+c)*slices+s])
			}
			for r := 0; r < rows; r++ {
				set(r, nCols, result.Values.Elements[(r*cols+0)*slices+s])
			}
		}
	}
	return nil
}

// AerialImage computes the intensity just above the wafer on a lateral
// grid with the desired step.
func AerialImage(d *Diffraction, otf *OpticalTransferFunction, stepXY float64) (*ResistVolume, error) {
	Logger.Info("calculate aerial image")
	refraction := real(AirRefraction)
	if otf.Stack != nil {
		if otf.Stack.Environment() == nil {
			return nil, fmt.Errorf("optolithium.AerialImage: stack has no environment: %w", ErrWaferStack)
		}
		refraction = real(otf.Stack.Environment().Refraction(d.Wavelength, 1))
	}
	result := NewAerialVolume(d.Boundary, stepXY)
	if err := calcImage(result, d, otf, refraction); err != nil {
		return nil, err
	}
	otf.Tool.ApplyFlare(result)
	return result, nil
}

// ImageInResist computes the intensity inside the resist film, slice by
// slice, accounting for the film-stack standing waves.
func ImageInResist(d *Diffraction, otf *OpticalTransferFunction, stepXY, stepZ float64) (*ResistVolume, error) {
	Logger.Info("calculate image in resist")
	if otf.Stack == nil || otf.Stack.Resist() == nil {
		return nil, fmt.Errorf("optolithium.ImageInResist: stack has no resist layer: %w", ErrWaferStack)
	}
	resist := otf.Stack.Resist()
	refraction := real(resist.Refraction(d.Wavelength, 1))
	result := NewResistVolume(d.Boundary, resist.Thickness(), stepXY, stepZ)
	if err := calcImage(result, d, otf, refraction); err != nil {
		return nil, err
	}
	otf.Tool.ApplyFlare(result)
	return result, nil
}

// LatentImage applies the Dill exposure law exp(-I·dose·C) element-wise,
// turning intensity into remaining PAC concentration.
func LatentImage(imageInResist *ResistVolume, resist *ResistLayer, exposure *Exposure) *ResistVolume {
	Logger.Info("calculate exposed latent image")
	result := imageInResist.EmptyLike()
	doseC := exposure.Dose() * resist.Exposure.C
	for i, v := range imageInResist.Values.Elements {
		result.Values.Elements[i] = math.Exp(-v * doseC)
	}
	return result
}

// PebLatentImage diffuses the latent image with the separable Gaussian of
// the bake conditions: circular convolution laterally, symmetric
// (reflected) convolution through the depth.
func PebLatentImage(latent *ResistVolume, resist *ResistLayer, peb *PostExposureBake) *ResistVolume {
	Logger.Info("calculate PEB latent image")
	result := latent.EmptyLike()

	kernelX := resist.Peb.Kernel(peb, latent.StepX())
	kernelY := resist.Peb.Kernel(peb, latent.StepY())
	kernelZ := resist.Peb.Kernel(peb, latent.StepZ())

	rows, cols, slices := latent.Rows(), latent.Cols(), latent.Slices()
	in := latent.Values.Elements
	out := result.Values.Elements

	index := func(r, c, s int) int { return (r*cols+c)*slices + s }

	lineX := make([]float64, cols)
	outX := make([]float64, cols)
	lineY := make([]float64, rows)
	outY := make([]float64, rows)
	lineZ := make([]float64, slices)
	outZ := make([]float64, slices)

	for s := 0; s < slices; s++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				lineX[c] = in[index(r, c, s)]
			}
			conv.Conv1d(outX, lineX, kernelX, conv.Circular)
			for c := 0; c < cols; c++ {
				out[index(r, c, s)] = outX[c]
			}
		}
		for c := 0; c < cols; c++ {
			for r := 0; r < rows; r++ {
				lineY[r] = out[index(r, c, s)]
			}
			conv.Conv1d(outY, lineY, kernelY, conv.Circular)
			for r := 0; r < rows; r++ {
				out[index(r, c, s)] = outY[r]
			}
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for s := 0; s < slices; s++ {
				lineZ[s] = out[index(r, c, s)]
			}
			conv.Conv1d(outZ, lineZ, kernelZ, conv.Symmetric)
			for s := 0; s < slices; s++ {
				out[index(r, c, s)] = outZ[s]
			}
		}
	}
	return result
}

// DevelopTimeContours evaluates the development rate over the diffused
// latent image and solves the Eikonal equation for the time to develop
// each voxel from the resist top.
func DevelopTimeContours(pebLatent *ResistVolume, resist *ResistLayer) (*ResistVolume, error) {
	Logger.Info("calculate develop time contours")
	result := pebLatent.EmptyLike()

	rows, cols, slices := pebLatent.Rows(), pebLatent.Cols(), pebLatent.Slices()
	rates := make([]float64, len(pebLatent.Values.Elements))
	for s := 0; s < slices; s++ {
		depth := pebLatent.Z[s]
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				idx := (r*cols+c)*slices + s
				rates[idx] = resist.Rate.Calculate(pebLatent.Values.Elements[idx], depth)
			}
		}
	}

	phi := result.Values.Elements
	for i := range phi {
		phi[i] = -1
	}
	// The initial front is the resist top: the last slice has zero depth.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			phi[(r*cols+c)*slices+slices-1] = 0
		}
	}

	err := eikonal.Solve(phi, rates, nil, eikonal.OrderSecond,
		[]int{rows, cols, slices},
		[]float64{pebLatent.StepY(), pebLatent.StepX(), pebLatent.StepZ()})
	if err != nil {
		return nil, fmt.Errorf("optolithium.DevelopTimeContours: %w", err)
	}
	return result, nil
}

// Profile extracts the resist profile at the development duration.
func Profile(developTimes *ResistVolume, development *Development) (*ResistProfile, error) {
	return NewResistProfile(developTimes, development.Time)
}
