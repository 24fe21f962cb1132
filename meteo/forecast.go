package meteo

import (
	"time"
)

// GetWeatherAtTime returns the time step closest to the specified time
func (f *METJSONForecast) GetWeatherAtTime(targetTime time.Time) *ForecastTimeStep {
	if f == nil || f.Properties == nil || len(f.Properties.Timeseries) == 0 {
		return nil
	}

	var closest *ForecastTimeStep
	minDiff := time.Duration(1<<63 - 1) // Max duration

	for i := range f.Properties.Timeseries {
		step := &f.Properties.Timeseries[i]
		diff := step.Time.Sub(targetTime).Abs()
		if diff < minDiff {
			minDiff = diff
			closest = step
		}
	}

	return closest
}

// Bracket returns the time steps just before and just after t. Both are the
// same step when t matches one exactly or lies outside the series.
func (f *METJSONForecast) Bracket(t time.Time) (before, after *ForecastTimeStep) {
	if f == nil || f.Properties == nil || len(f.Properties.Timeseries) == 0 {
		return nil, nil
	}
	series := f.Properties.Timeseries
	if !t.After(series[0].Time) {
		return &series[0], &series[0]
	}
	for i := 1; i < len(series); i++ {
		if !t.After(series[i].Time) {
			if t.Equal(series[i].Time) {
				return &series[i], &series[i]
			}
			return &series[i-1], &series[i]
		}
	}
	last := &series[len(series)-1]
	return last, last
}

// InterpolateAt linearly interpolates an instant value between the time
// steps around t. get selects the value; steps without it are skipped.
func (f *METJSONForecast) InterpolateAt(t time.Time, get func(*ForecastTimeStep) *float64) (float64, bool) {
	before, after := f.Bracket(t)
	if before == nil {
		return 0, false
	}
	a, b := get(before), get(after)
	switch {
	case a == nil && b == nil:
		if step := f.GetWeatherAtTime(t); step != nil {
			if v := get(step); v != nil {
				return *v, true
			}
		}
		return 0, false
	case a == nil:
		return *b, true
	case b == nil || before == after:
		return *a, true
	}
	span := after.Time.Sub(before.Time).Seconds()
	w := t.Sub(before.Time).Seconds() / span
	return *a + (*b-*a)*w, true
}

// GetTemperature returns the air temperature if available
func (ts *ForecastTimeStep) GetTemperature() *float64 {
	if d := ts.details(); d != nil {
		return d.AirTemperature
	}
	return nil
}

// GetSeaLevelPressure returns the air pressure at sea level if available
func (ts *ForecastTimeStep) GetSeaLevelPressure() *float64 {
	if d := ts.details(); d != nil {
		return d.AirPressureAtSeaLevel
	}
	return nil
}

// GetHumidity returns the relative humidity if available
func (ts *ForecastTimeStep) GetHumidity() *float64 {
	if d := ts.details(); d != nil {
		return d.RelativeHumidity
	}
	return nil
}

func (ts *ForecastTimeStep) details() *ForecastTimeInstant {
	if ts == nil || ts.Data == nil || ts.Data.Instant == nil {
		return nil
	}
	return ts.Data.Instant.Details
}

// IntPtr is a helper function to get a pointer to an int value
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr is a helper function to get a pointer to a float64 value
func Float64Ptr(f float64) *float64 {
	return &f
}
