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

	"github.com/Knetic/govaluate"
	"github.com/xthebat/optolithium/interp"
)

// ModelKind distinguishes the origins of a pluggable model.
type ModelKind int

// Model variants: a callable with bound arguments, a tabulated data sheet,
// or the trivial empty model.
const (
	PluginModel ModelKind = iota
	SheetModel
	EmptyModel
)

// Parameter describes one argument of a plugin model: its display name,
// default value and optional bounds.
type Parameter struct {
	Name    string
	Default float64
	Min     *float64
	Max     *float64
}

func ptr(v float64) *float64 { return &v }

// SourceShapeModel yields illumination intensity over the NA-normalised
// direction-cosine plane.
type SourceShapeModel interface {
	Calculate(sx, sy float64) float64
	Kind() ModelKind
}

// PupilFilterModel yields a complex apodisation value inside the pupil.
type PupilFilterModel interface {
	Calculate(sx, sy float64) complex128
	Kind() ModelKind
}

// RateModel yields the development rate in nm/s for a PAC concentration
// and a depth below the resist top.
type RateModel interface {
	Calculate(pac, depth float64) float64
	Kind() ModelKind
}

// ---------------------------------------------------------------------------
// Callable-backed variants.

// SourceShapeFunc is the plugin contract for source shapes.
type SourceShapeFunc func(sx, sy float64, args []float64) float64

// PupilFilterFunc is the plugin contract for pupil filters.
type PupilFilterFunc func(sx, sy float64, args []float64) complex128

// RateFunc is the plugin contract for development-rate models.
type RateFunc func(pac, depth float64, args []float64) float64

type sourceShapePlugin struct {
	expr SourceShapeFunc
	args []float64
}

// NewSourceShapePlugin binds an argument vector to a source-shape callable.
func NewSourceShapePlugin(expr SourceShapeFunc, args []float64) SourceShapeModel {
	return &sourceShapePlugin{expr: expr, args: args}
}

func (m *sourceShapePlugin) Calculate(sx, sy float64) float64 { return m.expr(sx, sy, m.args) }
func (m *sourceShapePlugin) Kind() ModelKind                  { return PluginModel }

type pupilFilterPlugin struct {
	expr PupilFilterFunc
	args []float64
}

// NewPupilFilterPlugin binds an argument vector to a pupil-filter callable.
func NewPupilFilterPlugin(expr PupilFilterFunc, args []float64) PupilFilterModel {
	return &pupilFilterPlugin{expr: expr, args: args}
}

func (m *pupilFilterPlugin) Calculate(sx, sy float64) complex128 { return m.expr(sx, sy, m.args) }
func (m *pupilFilterPlugin) Kind() ModelKind                     { return PluginModel }

type ratePlugin struct {
	expr RateFunc
	args []float64
}

// NewRatePlugin binds an argument vector to a development-rate callable.
func NewRatePlugin(expr RateFunc, args []float64) RateModel {
	return &ratePlugin{expr: expr, args: args}
}

func (m *ratePlugin) Calculate(pac, depth float64) float64 { return m.expr(pac, depth, m.args) }
func (m *ratePlugin) Kind() ModelKind                      { return PluginModel }

// ---------------------------------------------------------------------------
// Expression-backed variants. A formula over named parameters replaces the
// compiled shared object of the original plugin ABI.

type exprRateModel struct {
	expr   *govaluate.EvaluableExpression
	params map[string]interface{}
}

// NewRateModelExpression compiles a development-rate formula over the
// variables pac and depth plus the given named arguments, e.g.
// "Rmax*(1-pac)**n + Rmin".
func NewRateModelExpression(formula string, args map[string]float64) (RateModel, error) {
	expr, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewRateModelExpression: %v: %w", err, ErrArgument)
	}
	params := make(map[string]interface{}, len(args)+2)
	for k, v := range args {
		params[k] = v
	}
	return &exprRateModel{expr: expr, params: params}, nil
}

func (m *exprRateModel) Calculate(pac, depth float64) float64 {
	m.params["pac"] = pac
	m.params["depth"] = depth
	out, err := m.expr.Evaluate(m.params)
	if err != nil {
		Logger.WithError(err).Error("rate expression evaluation failed")
		return 0
	}
	v, ok := out.(float64)
	if !ok {
		Logger.Errorf("rate expression returned %T, want float64", out)
		return 0
	}
	return v
}

func (m *exprRateModel) Kind() ModelKind { return PluginModel }

type exprSourceShapeModel struct {
	expr   *govaluate.EvaluableExpression
	params map[string]interface{}
}

// NewSourceShapeExpression compiles a source-shape formula over the
// variables sx and sy plus the given named arguments.
func NewSourceShapeExpression(formula string, args map[string]float64) (SourceShapeModel, error) {
	expr, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewSourceShapeExpression: %v: %w", err, ErrArgument)
	}
	params := make(map[string]interface{}, len(args)+2)
	for k, v := range args {
		params[k] = v
	}
	return &exprSourceShapeModel{expr: expr, params: params}, nil
}

func (m *exprSourceShapeModel) Calculate(sx, sy float64) float64 {
	m.params["sx"] = sx
	m.params["sy"] = sy
	out, err := m.expr.Evaluate(m.params)
	if err != nil {
		Logger.WithError(err).Error("source shape expression evaluation failed")
		return 0
	}
	switch v := out.(type) {
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		Logger.Errorf("source shape expression returned %T", out)
		return 0
	}
}

func (m *exprSourceShapeModel) Kind() ModelKind { return PluginModel }

type exprPupilFilterModel struct {
	re, im *govaluate.EvaluableExpression
	params map[string]interface{}
}

// NewPupilFilterExpression compiles real and imaginary pupil-filter
// formulas over the variables sx and sy plus the given named arguments.
// An empty imaginary formula means a purely real filter.
func NewPupilFilterExpression(realFormula, imagFormula string, args map[string]float64) (PupilFilterModel, error) {
	re, err := govaluate.NewEvaluableExpression(realFormula)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewPupilFilterExpression: %v: %w", err, ErrArgument)
	}
	var im *govaluate.EvaluableExpression
	if imagFormula != "" {
		im, err = govaluate.NewEvaluableExpression(imagFormula)
		if err != nil {
			return nil, fmt.Errorf("optolithium.NewPupilFilterExpression: %v: %w", err, ErrArgument)
		}
	}
	params := make(map[string]interface{}, len(args)+2)
	for k, v := range args {
		params[k] = v
	}
	return &exprPupilFilterModel{re: re, im: im, params: params}, nil
}

func (m *exprPupilFilterModel) part(expr *govaluate.EvaluableExpression) float64 {
	out, err := expr.Evaluate(m.params)
	if err != nil {
		Logger.WithError(err).Error("pupil filter expression evaluation failed")
		return 0
	}
	switch v := out.(type) {
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		Logger.Errorf("pupil filter expression returned %T", out)
		return 0
	}
}

func (m *exprPupilFilterModel) Calculate(sx, sy float64) complex128 {
	m.params["sx"] = sx
	m.params["sy"] = sy
	re := m.part(m.re)
	var im float64
	if m.im != nil {
		im = m.part(m.im)
	}
	return complex(re, im)
}

func (m *exprPupilFilterModel) Kind() ModelKind { return PluginModel }

// ---------------------------------------------------------------------------
// Data-sheet variants interpolate tabulated values linearly.

type sourceShapeSheet struct {
	table *interp.Linear2d
}

// NewSourceShapeSheet tabulates intensity over a regular (sx, sy) grid;
// intensity has one row per sy sample.
func NewSourceShapeSheet(sx, sy []float64, intensity [][]float64) (SourceShapeModel, error) {
	table, err := interp.NewLinear2d(sx, sy, intensity, 0)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewSourceShapeSheet: %w", err)
	}
	return &sourceShapeSheet{table: table}, nil
}

func (m *sourceShapeSheet) Calculate(sx, sy float64) float64 { return m.table.At(sx, sy) }
func (m *sourceShapeSheet) Kind() ModelKind                  { return SheetModel }

type pupilFilterSheet struct {
	re, im *interp.Linear2d
}

// NewPupilFilterSheet tabulates a complex pupil filter over a regular
// (sx, sy) grid.
func NewPupilFilterSheet(sx, sy []float64, coef [][]complex128) (PupilFilterModel, error) {
	re := make([][]float64, len(coef))
	im := make([][]float64, len(coef))
	for r := range coef {
		re[r] = make([]float64, len(coef[r]))
		im[r] = make([]float64, len(coef[r]))
		for c, v := range coef[r] {
			re[r][c] = real(v)
			im[r][c] = imag(v)
		}
	}
	reTable, err := interp.NewLinear2d(sx, sy, re, 0)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewPupilFilterSheet: %w", err)
	}
	imTable, err := interp.NewLinear2d(sx, sy, im, 0)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewPupilFilterSheet: %w", err)
	}
	return &pupilFilterSheet{re: reTable, im: imTable}, nil
}

func (m *pupilFilterSheet) Calculate(sx, sy float64) complex128 {
	return complex(m.re.At(sx, sy), m.im.At(sx, sy))
}
func (m *pupilFilterSheet) Kind() ModelKind { return SheetModel }

type rateSheet struct {
	table *interp.Linear1d
}

// NewRateModelSheet tabulates rate against PAC with no depth dependence.
func NewRateModelSheet(pac, rate []float64) (RateModel, error) {
	table, err := interp.NewLinear1d(pac, rate, 0)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewRateModelSheet: %w", err)
	}
	return &rateSheet{table: table}, nil
}

func (m *rateSheet) Calculate(pac, depth float64) float64 { return m.table.At(pac) }
func (m *rateSheet) Kind() ModelKind                      { return SheetModel }

type rateDepthSheet struct {
	table *interp.Linear2d
}

// NewRateModelDepthSheet tabulates rate against PAC and depth; rate has
// one row per depth sample.
func NewRateModelDepthSheet(pac, depth []float64, rate [][]float64) (RateModel, error) {
	table, err := interp.NewLinear2d(pac, depth, rate, 0)
	if err != nil {
		return nil, fmt.Errorf("optolithium.NewRateModelDepthSheet: %w", err)
	}
	return &rateDepthSheet{table: table}, nil
}

func (m *rateDepthSheet) Calculate(pac, depth float64) float64 { return m.table.At(pac, depth) }
func (m *rateDepthSheet) Kind() ModelKind                      { return SheetModel }

// ---------------------------------------------------------------------------
// Empty variants.

type emptyPupilFilter struct{}

// NewEmptyPupilFilter returns the unit filter.
func NewEmptyPupilFilter() PupilFilterModel { return emptyPupilFilter{} }

func (emptyPupilFilter) Calculate(sx, sy float64) complex128 { return 1 }
func (emptyPupilFilter) Kind() ModelKind                     { return EmptyModel }

// ---------------------------------------------------------------------------
// Built-in source shapes. Direction cosines are snapped to a 1e-3 grid
// before the support test so grid sampling does not clip ideal shapes.

const sourcePrecision = 1e-3

func roundTo(value, precision float64) float64 {
	return math.Round(value/precision) * precision
}

func snappedRadius2(sx, sy float64) float64 {
	rx := roundTo(sx, sourcePrecision)
	ry := roundTo(sy, sourcePrecision)
	return rx*rx + ry*ry
}

// CoherentSourceShape is a single source point at (tiltX, tiltY).
// Args: tiltX, tiltY.
func CoherentSourceShape(sx, sy float64, args []float64) float64 {
	if roundTo(sx, sourcePrecision) == roundTo(args[0], sourcePrecision) &&
		roundTo(sy, sourcePrecision) == roundTo(args[1], sourcePrecision) {
		return 1
	}
	return 0
}

// ConventionalSourceShape is a uniform disc of radius sigma. Args: sigma.
func ConventionalSourceShape(sx, sy float64, args []float64) float64 {
	if snappedRadius2(sx, sy) <= args[0]*args[0] {
		return 1
	}
	return 0
}

// AnnularSourceShape is a uniform ring between sigmaIn and sigmaOut.
// Args: sigmaIn, sigmaOut.
func AnnularSourceShape(sx, sy float64, args []float64) float64 {
	sxy := snappedRadius2(sx, sy)
	if sxy >= args[0]*args[0] && sxy <= args[1]*args[1] {
		return 1
	}
	return 0
}

// CentralObscurationPupil blocks the pupil inside the given radius.
// Args: radius.
func CentralObscurationPupil(sx, sy float64, args []float64) complex128 {
	if snappedRadius2(sx, sy) > args[0]*args[0] {
		return 1
	}
	return 0
}

// ---------------------------------------------------------------------------
// Built-in development-rate models.

// MackRate is the original Mack development model.
// Args: Rmax, Rmin, Mth, n.
func MackRate(pac, depth float64, args []float64) float64 {
	rmax, rmin, mth, n := args[0], args[1], args[2], args[3]
	a := (n + 1) / (n - 1) * math.Pow(1-mth, n)
	p := math.Pow(1-pac, n)
	return rmax*(a+1)*p/(a+p) + rmin
}

// EnhancedMackRate adds a resin dissolution term to the Mack model.
// Args: Rmax, Rmin, Rresin, n, l.
func EnhancedMackRate(pac, depth float64, args []float64) float64 {
	rmax, rmin, rresin, n, l := args[0], args[1], args[2], args[3], args[4]
	ki := rresin/rmin - 1
	ke := rmax/rresin - 1
	return rresin * (1 + ke*math.Pow(1-pac, n)) / (1 + ki*math.Pow(pac, l))
}

// NotchRate is the notch development model.
// Args: Rmax, Rmin, n, MthNotch, nNotch.
func NotchRate(pac, depth float64, args []float64) float64 {
	rmax, rmin, n, mth, nn := args[0], args[1], args[2], args[3], args[4]
	c := (nn + 1) / (nn - 1) * math.Pow(1-mth, nn)
	p := math.Pow(1-pac, nn)
	k := p * (c + 1) / (c + p)
	return rmax*math.Pow(1-pac, n)*k + rmin
}

// NotchDepthRate is the notch model with exponential depth inhibition.
// Args: Rmax, Rmin, n, MthNotch, nNotch, depthInhibition.
func NotchDepthRate(pac, depth float64, args []float64) float64 {
	return NotchRate(pac, depth, args[:5]) * math.Exp(-args[5]*depth)
}
