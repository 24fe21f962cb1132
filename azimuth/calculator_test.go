package azimuth

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devskill-org/sunazimuth/catalogue"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newCalculator() *Calculator {
	return NewCalculator(ephemeris.NewSolarProvider())
}

func TestSunriseSunsetAzimuthAndTime(t *testing.T) {
	c := newCalculator()
	for _, tc := range rawAzimuthCases {
		name := fmt.Sprintf("%s/%v/%d", tc.event, tc.latitude, tc.day)
		t.Run(name, func(t *testing.T) {
			pos := ephemeris.GeoPosition{Latitude: tc.latitude, Altitude: catalogue.StandardAltitude}
			raw, err := c.SunriseSunsetAzimuthAndTime(day(2016, time.April, tc.day), pos,
				catalogue.StandardPressure, catalogue.StandardTemperature, tc.event)
			require.NoError(t, err)
			assert.InDelta(t, tc.azimuth, raw.Coordinates.Azimuth, 0.055)
			assert.Equal(t, raw.JulianDay.Time(), raw.Time)
		})
	}
}

// Fields the reference scenarios do not pin down.
var untracked = cmpopts.IgnoreFields(Result{}, "ReferenceLatitude", "ReferenceAzimuth", "KPFraction", "EventTime")

func TestCalculateSunriseSunsetAzimuthScenarios(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		lat   float64
		event ephemeris.EventType
		kp    float64
		want  Result
	}{
		{
			name:  "58N rise",
			date:  day(2016, time.April, 27),
			lat:   58,
			event: ephemeris.Rise,
			kp:    60,
			want: Result{
				Event:       ephemeris.Rise,
				KP:          60,
				AzimuthTop:  61.4,
				AzimuthBot:  62.4,
				DAzimuthAge: 1,
				DKPTop:      1.4,
				DKPBot:      2.4,
				At:          61.4,
			},
		},
		{
			name:  "58S set",
			date:  day(2016, time.April, 29),
			lat:   -58,
			event: ephemeris.Set,
			kp:    297,
			want: Result{
				Event:       ephemeris.Set,
				KP:          297,
				AzimuthTop:  297.17,
				AzimuthBot:  298.13,
				DAzimuthAge: 0.96,
				DKPTop:      0.2,
				DKPBot:      1.1,
				At:          297.2,
			},
		},
	}

	c := newCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := ephemeris.GeoPosition{Latitude: tt.lat, Altitude: catalogue.StandardAltitude}
			got, err := c.CalculateSunriseSunsetAzimuth(tt.date, pos,
				catalogue.StandardPressure, catalogue.StandardTemperature, tt.event, tt.kp)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, *got, cmpopts.EquateApprox(0, 0.05), untracked); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}

			// At reference conditions every delta is exactly zero.
			assert.Zero(t, got.DLatitude)
			assert.Zero(t, got.DLongitude)
			assert.Zero(t, got.DAltitude)
			assert.Zero(t, got.DTemperature)
			assert.Zero(t, got.DPressure)
			assert.Zero(t, got.Dh)
			assert.Zero(t, got.K)
			assert.Zero(t, got.DAzimuth)
			assert.Equal(t, tt.lat, got.ReferenceLatitude)
			assert.Equal(t, got.ReferenceAzimuth, got.AzimuthTop)
		})
	}
}

func TestCalculateSunriseSunsetAzimuthLatitudeDelta(t *testing.T) {
	c := newCalculator()
	date := day(2016, time.April, 27)
	pos := ephemeris.GeoPosition{Latitude: 59}

	got, err := c.CalculateSunriseSunsetAzimuth(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 60)
	require.NoError(t, err)

	raw, err := c.SunriseSunsetAzimuthAndTime(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise)
	require.NoError(t, err)

	assert.Equal(t, 58.0, got.ReferenceLatitude)
	assert.InDelta(t, -0.92, got.DLatitude, 0.05)
	assert.InDelta(t, raw.Coordinates.Azimuth, got.AzimuthTop, 1e-9)
	assert.Equal(t, got.DLatitude, got.DAzimuth)
}

func TestCalculateSunriseSunsetAzimuthAtmosphere(t *testing.T) {
	c := newCalculator()
	date := day(2016, time.April, 27)
	pos := ephemeris.GeoPosition{Latitude: 58}

	cold, err := c.CalculateSunriseSunsetAzimuth(date, pos, catalogue.StandardPressure, -20, ephemeris.Rise, 60)
	require.NoError(t, err)
	// More refraction lifts the Sun earlier, further north.
	assert.Less(t, cold.DTemperature, 0.0)
	assert.InDelta(t, -0.968*4.088/catalogue.SolarDiameter, cold.DTemperature, 0.005)
	assert.InDelta(t, 4.088/catalogue.SolarDiameter, cold.K, 1e-9)
	assert.Zero(t, cold.DPressure)

	low, err := c.CalculateSunriseSunsetAzimuth(date, pos, 970, catalogue.StandardTemperature, ephemeris.Rise, 60)
	require.NoError(t, err)
	assert.Greater(t, low.DPressure, 0.0)
	assert.Less(t, low.K, 0.0)

	// The same horizon shift moves a southern set the other way round.
	south, err := c.CalculateSunriseSunsetAzimuth(day(2016, time.April, 29), ephemeris.GeoPosition{Latitude: -58},
		catalogue.StandardPressure, -20, ephemeris.Set, 297)
	require.NoError(t, err)
	assert.Less(t, south.DTemperature, 0.0)
	assert.InDelta(t, south.ReferenceAzimuth+south.DTemperature, south.AzimuthTop, 1e-9)
}

func TestCalculateSunriseSunsetAzimuthAltitude(t *testing.T) {
	c := newCalculator()
	pos := ephemeris.GeoPosition{Latitude: 58, Altitude: 400}

	got, err := c.CalculateSunriseSunsetAzimuth(day(2016, time.April, 27), pos,
		catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 60)
	require.NoError(t, err)

	dip := HorizonDip(400)
	assert.InDelta(t, dip/catalogue.SolarDiameter, got.K, 1e-9)
	assert.Less(t, got.Dh, -0.5)
	// Observer height alone barely changes the parallax.
	assert.InDelta(t, 0, got.DAltitude, 0.001)
	assert.InDelta(t, got.DLatitude+got.DLongitude+got.DAltitude+got.DTemperature+got.DPressure+got.Dh, got.DAzimuth, 1e-12)
}

func TestCalculateSunriseSunsetAzimuthLongitude(t *testing.T) {
	c := newCalculator()
	got, err := c.CalculateSunriseSunsetAzimuth(day(2016, time.April, 27), ephemeris.GeoPosition{Latitude: 58, Longitude: 24},
		catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 60)
	require.NoError(t, err)

	// An earlier local rise sees a slightly lower declination.
	assert.Greater(t, got.DLongitude, 0.0)
	assert.Less(t, got.DLongitude, 0.2)
}

func TestKPFraction(t *testing.T) {
	c := newCalculator()
	pos := ephemeris.GeoPosition{Latitude: 58}
	date := day(2016, time.April, 27)

	first, err := c.CalculateSunriseSunsetAzimuth(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 60)
	require.NoError(t, err)
	assert.False(t, first.Aligned())
	assert.Less(t, first.KPFraction, 0.0)

	mid := first.AzimuthTop + (first.AzimuthBot-first.AzimuthTop)/2
	got, err := c.CalculateSunriseSunsetAzimuth(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, mid)
	require.NoError(t, err)
	assert.True(t, got.Aligned())
	assert.InDelta(t, 0.5, got.KPFraction, 1e-9)
}

func TestKPFractionOnEquator(t *testing.T) {
	c := newCalculator()
	got, err := c.CalculateSunriseSunsetAzimuth(day(2016, time.April, 27), ephemeris.GeoPosition{}, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 70)
	require.NoError(t, err)
	assert.Zero(t, got.DAzimuthAge)
	assert.Equal(t, -1.0, got.KPFraction)
	assert.False(t, got.Aligned())

	_, err = json.Marshal(got)
	assert.NoError(t, err)
}

func TestCalculateSunriseSunsetAzimuthPolar(t *testing.T) {
	c := newCalculator()
	_, err := c.CalculateSunriseSunsetAzimuth(day(2018, time.January, 1), ephemeris.GeoPosition{Latitude: 80},
		catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 150)
	assert.ErrorIs(t, err, ephemeris.ErrNoEventFound)
}

func TestCalculateSunriseSunsetTime(t *testing.T) {
	tests := []struct {
		lat, alt float64
		dt       float64
		hour     int
		min      int
	}{
		{66, 0, 0, 10, 26},
		{60, 0, 0, 9, 2},
		{56, 0, 0, 8, 31},
		{52, 0, 0, 8, 8},
		{20, 0, 0, 6, 35},
		{10, 0, 0, 6, 17},
		{0, 0, 0, 6, 0},
		{0, 40, -0.8, 5, 59},
	}

	c := newCalculator()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%vm", tt.lat, tt.alt), func(t *testing.T) {
			pos := ephemeris.GeoPosition{Latitude: tt.lat, Altitude: tt.alt}
			got, err := c.CalculateSunriseSunsetTime(day(2018, time.January, 1), pos,
				catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise)
			require.NoError(t, err)

			want := time.Date(2018, 1, 1, tt.hour, tt.min, 0, 0, time.UTC)
			assert.InDelta(t, tt.dt, got.DT, 1)
			assert.WithinDuration(t, want, got.DateTime, 90*time.Second)
			if tt.alt == 0 {
				assert.Zero(t, got.DT)
				assert.Equal(t, got.Raw.Time, got.DateTime)
			}
		})
	}
}

func TestCalculateSunriseSunsetTimeSetIsLater(t *testing.T) {
	c := newCalculator()
	pos := ephemeris.GeoPosition{Latitude: 45, Altitude: 1000}
	got, err := c.CalculateSunriseSunsetTime(day(2018, time.March, 20), pos,
		catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Set)
	require.NoError(t, err)
	assert.Greater(t, got.DT, 0.0)
	assert.True(t, got.DateTime.After(got.Raw.Time))
}

func TestCalculateSunriseSunsetTimePolarIsFinite(t *testing.T) {
	c := newCalculator()
	// At 70N early in February the Sun rises low in the south-east.
	got, err := c.CalculateSunriseSunsetTime(day(2018, time.February, 1), ephemeris.GeoPosition{Latitude: 70, Altitude: 100},
		catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise)
	require.NoError(t, err)
	assert.Less(t, got.DT, 0.0)
	assert.Greater(t, got.DT, -HorizonDip(100)/(15*minHorizonRate)-1e-9)
}

// failingProvider fails at a chosen step.
type failingProvider struct {
	ephemeris.Provider
	eventErr error
	bodyErr  error
}

func (p *failingProvider) EventInstant(date time.Time, pos ephemeris.GeoPosition, pressure, temperature float64, event ephemeris.EventType) (ephemeris.JulianDay, error) {
	if p.eventErr != nil {
		return 0, p.eventErr
	}
	return p.Provider.EventInstant(date, pos, pressure, temperature, event)
}

func (p *failingProvider) BodyEquatorialPosition(jd ephemeris.JulianDay) (ephemeris.BodyPosition, error) {
	if p.bodyErr != nil {
		return ephemeris.BodyPosition{}, p.bodyErr
	}
	return p.Provider.BodyEquatorialPosition(jd)
}

func TestProviderErrorsPropagate(t *testing.T) {
	pos := ephemeris.GeoPosition{Latitude: 58}
	date := day(2016, time.April, 27)

	t.Run("no event", func(t *testing.T) {
		c := NewCalculator(&failingProvider{Provider: ephemeris.NewSolarProvider(), eventErr: ephemeris.ErrNoEventFound})
		_, err := c.CalculateSunriseSunsetTime(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise)
		assert.True(t, errors.Is(err, ephemeris.ErrNoEventFound))
	})

	t.Run("computation", func(t *testing.T) {
		c := NewCalculator(&failingProvider{
			Provider: ephemeris.NewSolarProvider(),
			bodyErr:  &ephemeris.ComputationError{Message: "ephemeris file not found"},
		})
		_, err := c.CalculateSunriseSunsetAzimuth(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 60)

		var compErr *ephemeris.ComputationError
		require.ErrorAs(t, err, &compErr)
		assert.Equal(t, "ephemeris file not found", compErr.Message)
		assert.Contains(t, err.Error(), "reference azimuth")
	})
}

func TestCalculatorWithSession(t *testing.T) {
	session := ephemeris.NewSession(ephemeris.NewSolarProvider())
	var got *Result
	err := session.Exclusive(func(p ephemeris.Provider) error {
		var err error
		got, err = NewCalculator(p).CalculateSunriseSunsetAzimuth(day(2016, time.April, 27), ephemeris.GeoPosition{Latitude: 58},
			catalogue.StandardPressure, catalogue.StandardTemperature, ephemeris.Rise, 60)
		return err
	})
	require.NoError(t, err)
	assert.InDelta(t, 61.4, got.At, 0.05)
}
