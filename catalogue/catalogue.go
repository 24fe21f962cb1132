// Package catalogue holds the empirical correction tables used by the azimuth
// engine and the interpolation helpers over them.
//
// All tables are package-private and never modified after initialization, so
// every function here is safe for concurrent use. Lookups outside a table's
// domain clamp to the nearest boundary value; no input makes them fail.
package catalogue

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

var (
	temperatureCurve = mustFit("temperature", deltaT[0], deltaT[1])
	pressureCurve    = mustFit("pressure", deltaP[0], deltaP[1])
	kCurves          = fitStages()
)

func mustFit(name string, xs, ys []float64) *interp.PiecewiseLinear {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		panic(fmt.Sprintf("catalogue: invalid %s table: %v", name, err))
	}
	return &pl
}

func fitStages() []*interp.PiecewiseLinear {
	curves := make([]*interp.PiecewiseLinear, len(kt))
	for stage := 1; stage < len(kt); stage++ {
		curves[stage] = mustFit(fmt.Sprintf("age stage %d", stage), kt[0], kt[stage])
	}
	return curves
}

// TableLatitudeValues returns a copy of the latitude breakpoints.
func TableLatitudeValues() []float64 {
	return append([]float64(nil), latitudeValues...)
}

// TemperatureTable returns copies of the temperature domain and its corrections.
func TemperatureTable() (temperatures, corrections []float64) {
	return clone(deltaT[0]), clone(deltaT[1])
}

// PressureTable returns copies of the pressure domain and its corrections.
func PressureTable() (pressures, corrections []float64) {
	return clone(deltaP[0]), clone(deltaP[1])
}

// KTable returns copies of the latitude domain and the age row for stage.
// The stage index is clamped the same way InterpolatedK clamps it.
func KTable(stage int) (latitudes, values []float64) {
	return clone(kt[0]), clone(kt[clampStage(stage)])
}

// KStages is the number of stage rows in the age table.
func KStages() int {
	return len(kt) - 1
}

// BoundaryLatitudeValues returns the tabulated latitudes bracketing latitude.
// A latitude exactly on an interior breakpoint brackets to that breakpoint and
// the next one. Latitudes outside the table clamp to the edge pairs.
func BoundaryLatitudeValues(latitude float64) (left, right float64) {
	last := len(latitudeValues) - 1
	for i := 0; i < last; i++ {
		if latitudeValues[i+1] > latitude {
			return latitudeValues[i], latitudeValues[i+1]
		}
	}
	return latitudeValues[last-1], latitudeValues[last]
}

// InterpolatedTemperatureCorrection returns the change of horizon refraction
// in arcminutes at temperature (°C) relative to StandardTemperature.
func InterpolatedTemperatureCorrection(temperature float64) float64 {
	return temperatureCurve.Predict(temperature)
}

// InterpolatedPressureCorrection returns the change of horizon refraction in
// arcminutes at pressure (hPa) relative to StandardPressure.
func InterpolatedPressureCorrection(pressure float64) float64 {
	return pressureCurve.Predict(pressure)
}

// InterpolatedK interpolates the age table row stage at value (absolute
// latitude, degrees).
func InterpolatedK(value float64, stage int) float64 {
	return kCurves[clampStage(stage)].Predict(value)
}

func clampStage(stage int) int {
	return max(1, min(stage, len(kt)-1))
}

func clone(s []float64) []float64 {
	return append([]float64(nil), s...)
}
