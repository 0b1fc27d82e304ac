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
	"sort"
)

// PluginKind distinguishes the four plugin contracts.
type PluginKind int

// Plugin contract kinds.
const (
	PluginDevelopmentModel PluginKind = iota
	PluginSourceShape
	PluginPupilFilter
	PluginMaskGenerator
)

// PluginSpec describes one registered plugin: its parameter schema and a
// constructor producing a model (or a mask) from a bound argument vector.
// The argument vector is addressed positionally in Parameters order.
type PluginSpec struct {
	Kind        PluginKind
	Name        string
	Description string
	Parameters  []Parameter

	// Exactly one of the constructors is set, matching Kind.
	NewRate        func(args []float64) RateModel
	NewSourceShape func(args []float64) SourceShapeModel
	NewPupilFilter func(args []float64) PupilFilterModel
	NewMask        func(args []float64) (*Mask, error)
}

// Defaults returns the parameter defaults as an argument vector.
func (s *PluginSpec) Defaults() []float64 {
	args := make([]float64, len(s.Parameters))
	for i, p := range s.Parameters {
		args[i] = p.Default
	}
	return args
}

var registry = map[PluginKind]map[string]*PluginSpec{}

// RegisterPlugin adds a plugin to the registry, replacing any previous
// plugin with the same kind and name.
func RegisterPlugin(spec *PluginSpec) {
	kinds, ok := registry[spec.Kind]
	if !ok {
		kinds = map[string]*PluginSpec{}
		registry[spec.Kind] = kinds
	}
	kinds[spec.Name] = spec
}

// LookupPlugin finds a registered plugin by kind and name.
func LookupPlugin(kind PluginKind, name string) (*PluginSpec, error) {
	spec, ok := registry[kind][name]
	if !ok {
		return nil, fmt.Errorf("optolithium.LookupPlugin: no %q plugin of kind %d: %w",
			name, kind, ErrArgument)
	}
	return spec, nil
}

// Plugins lists the registered plugin names of one kind.
func Plugins(kind PluginKind) []string {
	names := make([]string, 0, len(registry[kind]))
	for name := range registry[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterPlugin(&PluginSpec{
		Kind:        PluginDevelopmentModel,
		Name:        "Mack Model",
		Description: "Resist development using the original Mack model",
		Parameters: []Parameter{
			{Name: "Development Rmax (nm/s)", Min: ptr(0), Default: 100},
			{Name: "Development Rmin (nm/s)", Min: ptr(0), Default: 0.5},
			{Name: "Development Mth", Max: ptr(1), Default: 0.5},
			{Name: "Development n", Min: ptr(1), Default: 2},
		},
		NewRate: func(args []float64) RateModel { return NewRatePlugin(MackRate, args) },
	})
	RegisterPlugin(&PluginSpec{
		Kind:        PluginDevelopmentModel,
		Name:        "Enhanced Model",
		Description: "Resist development using the enhanced Mack model",
		Parameters: []Parameter{
			{Name: "Development Rmax (nm/s)", Min: ptr(0), Default: 100},
			{Name: "Development Rmin (nm/s)", Min: ptr(0), Default: 0.5},
			{Name: "Development Rresin (nm/s)", Min: ptr(0), Default: 10},
			{Name: "Development n", Min: ptr(1), Default: 4},
			{Name: "Development l", Min: ptr(0), Default: 20},
		},
		NewRate: func(args []float64) RateModel { return NewRatePlugin(EnhancedMackRate, args) },
	})
	RegisterPlugin(&PluginSpec{
		Kind:        PluginDevelopmentModel,
		Name:        "Notch Model",
		Description: "Resist development using the notch model",
		Parameters: []Parameter{
			{Name: "Development Rmax (nm/s)", Min: ptr(0), Default: 100},
			{Name: "Development Rmin (nm/s)", Min: ptr(0), Default: 0.5},
			{Name: "Development n", Min: ptr(1), Default: 1.5},
			{Name: "Development Notch Mth", Max: ptr(1), Default: 0.5},
			{Name: "Development Notch n", Min: ptr(1), Default: 10},
		},
		NewRate: func(args []float64) RateModel { return NewRatePlugin(NotchRate, args) },
	})
	RegisterPlugin(&PluginSpec{
		Kind:        PluginDevelopmentModel,
		Name:        "Notch Model with Depth Dependence",
		Description: "Notch development model with exponential depth inhibition",
		Parameters: []Parameter{
			{Name: "Development Rmax (nm/s)", Min: ptr(0), Default: 100},
			{Name: "Development Rmin (nm/s)", Min: ptr(0), Default: 0.5},
			{Name: "Development n", Min: ptr(1), Default: 1.5},
			{Name: "Development Notch Mth", Max: ptr(1), Default: 0.5},
			{Name: "Development Notch n", Min: ptr(1), Default: 10},
			{Name: "Depth inhibition", Min: ptr(0), Max: ptr(1), Default: 0.5},
		},
		NewRate: func(args []float64) RateModel { return NewRatePlugin(NotchDepthRate, args) },
	})

	RegisterPlugin(&PluginSpec{
		Kind:        PluginSourceShape,
		Name:        "Coherent",
		Description: "Fully spatially coherent source",
		Parameters: []Parameter{
			{Name: "Tilt X", Min: ptr(-1), Max: ptr(1), Default: 0},
			{Name: "Tilt Y", Min: ptr(-1), Max: ptr(1), Default: 0},
		},
		NewSourceShape: func(args []float64) SourceShapeModel {
			return NewSourceShapePlugin(CoherentSourceShape, args)
		},
	})
	RegisterPlugin(&PluginSpec{
		Kind:        PluginSourceShape,
		Name:        "Conventional",
		Description: "Uniform partially coherent disc",
		Parameters: []Parameter{
			{Name: "Sigma", Min: ptr(0), Max: ptr(1), Default: 0.5},
		},
		NewSourceShape: func(args []float64) SourceShapeModel {
			return NewSourceShapePlugin(ConventionalSourceShape, args)
		},
	})
	RegisterPlugin(&PluginSpec{
		Kind:        PluginSourceShape,
		Name:        "Annular",
		Description: "Ideal annular source",
		Parameters: []Parameter{
			{Name: "Sigma Inner", Min: ptr(0), Max: ptr(1), Default: 0.3},
			{Name: "Sigma Outer", Min: ptr(0), Max: ptr(1), Default: 0.8},
		},
		NewSourceShape: func(args []float64) SourceShapeModel {
			return NewSourceShapePlugin(AnnularSourceShape, args)
		},
	})

	RegisterPlugin(&PluginSpec{
		Kind:        PluginPupilFilter,
		Name:        "Central Obscuration",
		Description: "Ideal central pupil zone obscuration",
		Parameters: []Parameter{
			{Name: "Radius", Min: ptr(0), Max: ptr(1), Default: 0.1},
		},
		NewPupilFilter: func(args []float64) PupilFilterModel {
			return NewPupilFilterPlugin(CentralObscurationPupil, args)
		},
	})

	RegisterPlugin(&PluginSpec{
		Kind:        PluginMaskGenerator,
		Name:        "1D Binary - Line",
		Description: "Single dark line on a clear 1D mask",
		Parameters: []Parameter{
			{Name: "Feature Width (nm)", Min: ptr(0), Default: 250},
			{Name: "Pitch (nm)", Min: ptr(0), Default: 800},
		},
		NewMask: Line1DMask,
	})
	RegisterPlugin(&PluginSpec{
		Kind:        PluginMaskGenerator,
		Name:        "2D Binary - Five Bar Line",
		Description: "Primary line with four secondary bars on a clear field",
		Parameters: []Parameter{
			{Name: "Feature Width (nm)", Min: ptr(0), Default: 250},
			{Name: "Feature Space (nm)", Min: ptr(0), Default: 550},
			{Name: "Pitch X (nm)", Min: ptr(0), Default: 4200},
			{Name: "Pitch Y (nm)", Min: ptr(0), Default: 4200},
		},
		NewMask: FiveBarLineMask,
	})
}
