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
)

// WaferStack is the ordered film list from the environment at the top to
// the substrate at the bottom. Layers are pushed bottom-up: the substrate
// first, the environment last. The stack caches its effective top- and
// bottom-looking reflection vectors per (cx, cy) at one wavelength;
// changing the wavelength drops both caches.
type WaferStack struct {
	layers []WaferLayer

	environment WaferLayer
	resist      WaferLayer
	substrate   WaferLayer

	cachedWavelength float64
	topCache         map[[2]float64][]complex128
	bottomCache      map[[2]float64][]complex128
}

// NewWaferStack builds a stack by pushing the given layers bottom-up.
func NewWaferStack(layers ...WaferLayer) (*WaferStack, error) {
	s := &WaferStack{
		cachedWavelength: -1,
		topCache:         map[[2]float64][]complex128{},
		bottomCache:      map[[2]float64][]complex128{},
	}
	for _, layer := range layers {
		if err := s.Push(layer); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Push adds a layer on top of the current stack. The first layer must be
// the substrate; nothing can follow the environment; only one resist
// layer is allowed, with nothing but the environment above it.
func (s *WaferStack) Push(layer WaferLayer) error {
	if s.environment != nil {
		return fmt.Errorf("optolithium: no layer can follow the environment: %w", ErrWaferStack)
	}
	if s.resist != nil {
		if layer.Kind() == ResistLayerKind {
			return fmt.Errorf("optolithium: second resist layer: %w", ErrWaferStack)
		}
		if layer.Kind() != EnvironmentLayer {
			return fmt.Errorf("optolithium: material above the resist: %w", ErrWaferStack)
		}
	}
	if len(s.layers) == 0 && layer.Kind() != SubstrateLayer {
		return fmt.Errorf("optolithium: first layer must be the substrate: %w", ErrWaferStack)
	}

	switch layer.Kind() {
	case EnvironmentLayer:
		s.environment = layer
	case ResistLayerKind:
		s.resist = layer
	case SubstrateLayer:
		s.substrate = layer
	}
	s.layers = append([]WaferLayer{layer}, s.layers...)
	return nil
}

// IsOK reports whether environment, resist and substrate are all present.
func (s *WaferStack) IsOK() bool {
	return s.environment != nil && s.resist != nil && s.substrate != nil
}

// Len returns the number of layers.
func (s *WaferStack) Len() int { return len(s.layers) }

// Layer returns the i'th layer top-down with circular and negative
// indexing, so Layer(-1) is the substrate.
func (s *WaferStack) Layer(i int) WaferLayer {
	n := len(s.layers)
	return s.layers[((i%n)+n)%n]
}

// Environment returns the top layer.
func (s *WaferStack) Environment() WaferLayer { return s.environment }

// Resist returns the resist layer, or nil.
func (s *WaferStack) Resist() WaferLayer { return s.resist }

// ResistModel returns the resist layer as its concrete type, or nil.
func (s *WaferStack) ResistModel() *ResistLayer {
	if r, ok := s.resist.(*ResistLayer); ok {
		return r
	}
	return nil
}

// Substrate returns the bottom layer.
func (s *WaferStack) Substrate() WaferLayer { return s.substrate }

func reflection(top, bottom complex128) complex128 {
	return (top - bottom) / (top + bottom)
}

func transmittance(top, bottom complex128) complex128 {
	return 2 * top / (top + bottom)
}

// snellAngle refracts an angle across an interface with indices nTop and
// nBottom.
func snellAngle(angle, nTop, nBottom complex128) complex128 {
	return cmplx.Asin(nTop / nBottom * cmplx.Sin(angle))
}

// effectiveIndexes returns cos(angle_k)·n_k for every layer, refracting
// the incidence angle down the stack.
func (s *WaferStack) effectiveIndexes(cxy, wavelength float64) []complex128 {
	indexes := make([]complex128, len(s.layers))
	angle := cmplx.Asin(complex(cxy, 0))
	indexes[0] = effectiveRefraction(s.layers[0], angle, wavelength)
	for k := 1; k < len(s.layers); k++ {
		top := s.layers[k-1].Refraction(wavelength, 1)
		bottom := s.layers[k].Refraction(wavelength, 1)
		angle = snellAngle(angle, top, bottom)
		indexes[k] = effectiveRefraction(s.layers[k], angle, wavelength)
	}
	return indexes
}

func (s *WaferStack) invalidateOnWavelength(wavelength float64) {
	if s.cachedWavelength != wavelength {
		s.topCache = map[[2]float64][]complex128{}
		s.bottomCache = map[[2]float64][]complex128{}
		s.cachedWavelength = wavelength
	}
}

// calcTopReflections computes the effective reflection of each interface
// accounting for every layer above it.
func (s *WaferStack) calcTopReflections(cxy, wavelength float64) []complex128 {
	indexes := s.effectiveIndexes(cxy, wavelength)
	reflections := make([]complex128, len(s.layers))
	reflections[0] = reflection(indexes[0], indexes[1])
	for k := 1; k < len(s.layers)-1; k++ {
		v := reflections[k-1] * internalTransmitNormal(s.layers[k], wavelength, 2)
		y := (1 + v) / (1 - v)
		reflections[k] = (indexes[k]*y - indexes[k+1]) / (indexes[k]*y + indexes[k+1])
	}
	return reflections
}

// TopReflections returns the cached top-looking reflection vector for a
// direction-cosine pair.
func (s *WaferStack) TopReflections(cx, cy, wavelength float64) []complex128 {
	s.invalidateOnWavelength(wavelength)
	key := [2]float64{cx, cy}
	if cached, ok := s.topCache[key]; ok {
		return cached
	}
	reflections := s.calcTopReflections(math.Hypot(cx, cy), wavelength)
	s.topCache[key] = reflections
	return reflections
}

// calcBottomReflections computes the effective reflection of each
// interface accounting for every layer below it.
func (s *WaferStack) calcBottomReflections(cxy, wavelength float64) []complex128 {
	indexes := s.effectiveIndexes(cxy, wavelength)
	reflections := make([]complex128, len(s.layers))
	bottom := len(s.layers) - 1
	reflections[bottom-1] = reflection(indexes[bottom-1], indexes[bottom])
	for k := bottom - 2; k >= 1; k-- {
		v := reflections[k+1] * internalTransmitNormal(s.layers[k+1], wavelength, 2)
		x := (1 - v) / (1 + v)
		reflections[k] = (indexes[k] - x*indexes[k+1]) / (indexes[k] + x*indexes[k+1])
	}
	reflections[0] = reflection(indexes[0], indexes[1])
	return reflections
}

// BottomReflections returns the cached bottom-looking reflection vector
// for a direction-cosine pair.
func (s *WaferStack) BottomReflections(cx, cy, wavelength float64) []complex128 {
	s.invalidateOnWavelength(wavelength)
	key := [2]float64{cx, cy}
	if cached, ok := s.bottomCache[key]; ok {
		return cached
	}
	reflections := s.calcBottomReflections(math.Hypot(cx, cy), wavelength)
	s.bottomCache[key] = reflections
	return reflections
}

// PrecomputeReflections fills both caches for every (cx, cy) pair of the
// given axes, making subsequent lookups read-only for a parallel Hopkins
// loop.
func (s *WaferStack) PrecomputeReflections(cxs, cys []float64, wavelength float64) {
	for _, cy := range cys {
		for _, cx := range cxs {
			s.TopReflections(cx, cy, wavelength)
			s.BottomReflections(cx, cy, wavelength)
		}
	}
}

// Reflectivity returns the normal-incidence reflectivity looking down
// from layer index-1 into layer index, with the films below accounted
// for. The environment itself has no reflectivity.
func (s *WaferStack) Reflectivity(index int, wavelength float64) (complex128, error) {
	if index == 0 || index > len(s.layers)-1 {
		return 0, fmt.Errorf(
			"optolithium: reflectivity undefined for layer %d of %d: %w",
			index, len(s.layers), ErrWaferStack)
	}
	ro12 := reflection(
		effectiveRefraction(s.layers[index-1], 0, wavelength),
		effectiveRefraction(s.layers[index], 0, wavelength))
	bottomReflections := s.BottomReflections(0, 0, wavelength)
	ro23e := bottomReflections[index]
	tau2d := internalTransmitNormal(s.layers[index], wavelength, 2)
	return (ro12 + ro23e*tau2d) / (1 + ro12*ro23e*tau2d), nil
}

// StandingWaves returns the complex standing-wave amplitude at depth dz
// below the resist top for incidence direction (cx, cy). The resist must
// be the second layer of the stack.
func (s *WaferStack) StandingWaves(cx, cy, dz, wavelength float64) complex128 {
	reflections := s.BottomReflections(cx, cy, wavelength)
	cxy := math.Hypot(cx, cy)

	envAngle := cmplx.Asin(complex(cxy, 0))
	resistAngle := snellAngle(envAngle,
		s.Environment().Refraction(wavelength, 1), s.Resist().Refraction(wavelength, 1))

	reffEnv := effectiveRefraction(s.Environment(), envAngle, wavelength)
	reffResist := effectiveRefraction(s.Resist(), resistAngle, wavelength)

	tau12 := transmittance(reffEnv, reffResist)
	ro12 := reflections[0]
	ro23e := reflections[1]
	dtau := internalTransmit(s.Resist(), resistAngle, s.Resist().Thickness(), wavelength)
	tau2d := dtau * dtau
	ztau := internalTransmit(s.Resist(), resistAngle, dz, wavelength)

	num := tau12 * (ztau + ro23e*tau2d/ztau)
	den := 1 + ro12*ro23e*tau2d
	return num / den
}
