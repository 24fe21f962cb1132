// Package azimuth corrects the solar rise and set azimuth and time for the
// observer's position, altitude and atmosphere.
//
// A corrected azimuth starts from the azimuth at a reference: the tabulated
// latitude just below the observer's, longitude 0, sea level and standard
// atmosphere. Latitude, longitude and altitude deltas come from the ephemeris
// provider, one input at a time. Temperature, pressure and horizon dip deltas
// come from the correction tables: each lowers or raises the apparent horizon
// and so moves the upper limb crossing along the Sun's path.
package azimuth

import (
	"fmt"
	"math"
	"time"

	"github.com/devskill-org/sunazimuth/catalogue"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// minHorizonRate bounds cos(latitude)*|sin(azimuth)| when converting the
// horizon dip to time, so polar events stay finite.
const minHorizonRate = 0.05

// Calculator runs corrections against one ephemeris provider. It sets the
// provider's topocentric observer, so a Calculator is only as safe for
// concurrent use as its provider. Use ephemeris.Session to share one.
type Calculator struct {
	provider ephemeris.Provider
}

// NewCalculator creates a calculator using p.
func NewCalculator(p ephemeris.Provider) *Calculator {
	return &Calculator{provider: p}
}

// SunriseSunsetAzimuthAndTime returns the raw event instant and the horizontal
// coordinates of the Sun at that instant.
func (c *Calculator) SunriseSunsetAzimuthAndTime(date time.Time, pos ephemeris.GeoPosition, pressure, temperature float64, event ephemeris.EventType) (*RawResult, error) {
	c.provider.SetTopocentric(pos)

	jd, err := c.provider.EventInstant(date, pos, pressure, temperature, event)
	if err != nil {
		return nil, fmt.Errorf("%s instant at %v on %s: %w", event, pos, date.Format(time.DateOnly), err)
	}
	body, err := c.provider.BodyEquatorialPosition(jd)
	if err != nil {
		return nil, fmt.Errorf("sun position at %s: %w", jd.Time().Format(time.RFC3339), err)
	}

	return &RawResult{
		JulianDay:   jd,
		Time:        jd.Time(),
		Coordinates: c.provider.ToHorizontalCoordinates(jd, pos, pressure, temperature, body),
	}, nil
}

// CalculateSunriseSunsetAzimuth returns the corrected azimuth of the event and
// its comparison with the compass bearing kp.
func (c *Calculator) CalculateSunriseSunsetAzimuth(date time.Time, pos ephemeris.GeoPosition, pressure, temperature float64, event ephemeris.EventType, kp float64) (*Result, error) {
	left, _ := catalogue.BoundaryLatitudeValues(math.Abs(pos.Latitude))
	ref := ephemeris.GeoPosition{
		Latitude:  math.Copysign(left, pos.Latitude),
		Longitude: 0,
		Altitude:  catalogue.StandardAltitude,
	}

	base, err := c.standardAzimuth(date, ref, event)
	if err != nil {
		return nil, fmt.Errorf("reference azimuth: %w", err)
	}

	r := &Result{
		Event:             event,
		KP:                kp,
		ReferenceLatitude: ref.Latitude,
		ReferenceAzimuth:  base.Coordinates.Azimuth,
		EventTime:         base.Time,
	}

	vary := func(p ephemeris.GeoPosition) (float64, error) {
		if p == ref {
			return 0, nil
		}
		raw, err := c.standardAzimuth(date, p, event)
		if err != nil {
			return 0, err
		}
		return ephemeris.AngleDifference(raw.Coordinates.Azimuth, base.Coordinates.Azimuth), nil
	}

	withLat, withLon, withAlt := ref, ref, ref
	withLat.Latitude = pos.Latitude
	withLon.Longitude = pos.Longitude
	withAlt.Altitude = pos.Altitude

	if r.DLatitude, err = vary(withLat); err != nil {
		return nil, fmt.Errorf("latitude delta: %w", err)
	}
	if r.DLongitude, err = vary(withLon); err != nil {
		return nil, fmt.Errorf("longitude delta: %w", err)
	}
	if r.DAltitude, err = vary(withAlt); err != nil {
		return nil, fmt.Errorf("altitude delta: %w", err)
	}

	geometric := ephemeris.Normalize360(base.Coordinates.Azimuth + r.DLatitude + r.DLongitude + r.DAltitude)
	limb := SunBotAgeCorrection(pos.Latitude, geometric, event)

	// Horizon shifts in arcminutes; positive lowers the apparent horizon.
	dRefT := catalogue.InterpolatedTemperatureCorrection(temperature)
	dRefP := catalogue.InterpolatedPressureCorrection(pressure)
	dip := HorizonDip(pos.Altitude)

	r.DTemperature = -limb * dRefT / catalogue.SolarDiameter
	r.DPressure = -limb * dRefP / catalogue.SolarDiameter
	r.Dh = -limb * dip / catalogue.SolarDiameter
	r.K = (dRefT + dRefP + dip) / catalogue.SolarDiameter

	r.DAzimuth = r.DLatitude + r.DLongitude + r.DAltitude + r.DTemperature + r.DPressure + r.Dh
	r.AzimuthTop = ephemeris.Normalize360(base.Coordinates.Azimuth + r.DAzimuth)
	r.AzimuthBot = ephemeris.Normalize360(r.AzimuthTop + SunBotAgeCorrection(pos.Latitude, r.AzimuthTop, event))

	span := ephemeris.AngleDifference(r.AzimuthBot, r.AzimuthTop)
	r.DAzimuthAge = math.Abs(span)
	r.DKPTop = ephemeris.AngleDifference(r.AzimuthTop, kp)
	r.DKPBot = ephemeris.AngleDifference(r.AzimuthBot, kp)
	switch {
	case span != 0:
		r.KPFraction = ephemeris.AngleDifference(kp, r.AzimuthTop) / span
	case r.DKPTop != 0:
		// No span on the equator; KP is either on the point or off it.
		r.KPFraction = -1
	}
	r.At = r.AzimuthTop

	return r, nil
}

// CalculateSunriseSunsetTime returns the event time corrected for the dip of
// the horizon seen from the observer's altitude. The correction is negative
// for a rise and positive for a set.
func (c *Calculator) CalculateSunriseSunsetTime(date time.Time, pos ephemeris.GeoPosition, pressure, temperature float64, event ephemeris.EventType) (*TimeResult, error) {
	raw, err := c.SunriseSunsetAzimuthAndTime(date, pos, pressure, temperature, event)
	if err != nil {
		return nil, err
	}

	var dt float64
	if dip := HorizonDip(pos.Altitude); dip > 0 {
		rate := math.Cos(pos.Latitude*math.Pi/180) * math.Abs(math.Sin(raw.Coordinates.Azimuth*math.Pi/180))
		// The Sun climbs 15 arcminutes per minute of time times the rate.
		dt = dip / (15 * math.Max(rate, minHorizonRate))
		if event == ephemeris.Rise {
			dt = -dt
		}
	}

	shift := time.Duration(math.Round(dt*60)) * time.Second
	return &TimeResult{
		Event:    event,
		DateTime: raw.Time.Add(shift),
		DT:       dt,
		Raw:      *raw,
	}, nil
}

func (c *Calculator) standardAzimuth(date time.Time, pos ephemeris.GeoPosition, event ephemeris.EventType) (*RawResult, error) {
	return c.SunriseSunsetAzimuthAndTime(date, pos, catalogue.StandardPressure, catalogue.StandardTemperature, event)
}
