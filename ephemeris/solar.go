package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// SolarProvider is a Provider for the Sun. The zero value is not usable; use
// NewSolarProvider.
type SolarProvider struct {
	topo    GeoPosition
	topoSet bool

	step   time.Duration
	window time.Duration
}

// NewSolarProvider returns a provider scanning 25 hours from local mean
// midnight of the requested day in 5 minute steps.
func NewSolarProvider() *SolarProvider {
	return &SolarProvider{
		step:   5 * time.Minute,
		window: 25 * time.Hour,
	}
}

func (p *SolarProvider) Name() string { return "meeus-sun" }

func (p *SolarProvider) SetTopocentric(pos GeoPosition) {
	p.topo = pos
	p.topoSet = true
}

// Topocentric returns the observer set by SetTopocentric.
func (p *SolarProvider) Topocentric() (GeoPosition, bool) {
	return p.topo, p.topoSet
}

// EventInstant finds the instant the upper limb of the Sun touches the
// apparent horizon.
func (p *SolarProvider) EventInstant(date time.Time, pos GeoPosition, pressure, temperature float64, event EventType) (JulianDay, error) {
	if !event.Valid() {
		return 0, &ComputationError{Message: fmt.Sprintf("unsupported event type %d", int(event))}
	}
	if err := validateObserver(pos, pressure, temperature); err != nil {
		return 0, err
	}

	// Scan from local mean midnight so the event belongs to the observer's date.
	y, m, d := date.UTC().Date()
	start := JulianDayFromTime(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) - JulianDay(pos.Longitude/360)
	step := JulianDay(p.step.Seconds() / secondsDay)
	n := int(p.window / p.step)

	f := func(jd JulianDay) float64 {
		s := sunAt(jd)
		h, _ := horizontal(jd, pos, s.ra, s.dec)
		return h - p.horizonAltitude(s.distance, pos.Altitude, pressure, temperature)
	}

	prev := f(start)
	for i := 1; i <= n; i++ {
		jd := start + JulianDay(i)*step
		cur := f(jd)
		if crosses(prev, cur, event) {
			return bisect(f, jd-step, jd, prev < 0), nil
		}
		prev = cur
	}
	return 0, ErrNoEventFound
}

func crosses(prev, cur float64, event EventType) bool {
	if event == Rise {
		return prev < 0 && cur >= 0
	}
	return prev > 0 && cur <= 0
}

// bisect narrows [lo, hi] around the sign change of f. lowNegative tells the
// sign of f at lo.
func bisect(f func(JulianDay) float64, lo, hi JulianDay, lowNegative bool) JulianDay {
	for n := 0; n < 60; n++ {
		mid := (lo + hi) / 2
		if (f(mid) < 0) == lowNegative {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// horizonAltitude is the true geocentric altitude of the Sun's centre when
// its upper limb is on the apparent horizon.
func (p *SolarProvider) horizonAltitude(distance, altitude, pressure, temperature float64) float64 {
	h := -(HorizonRefraction(pressure, temperature) + sunSemidiameter(distance))
	if p.topoSet {
		h += horizontalParallax(distance, altitude)
	}
	return h / 60
}

// BodyEquatorialPosition returns the apparent right ascension, declination
// and distance of the Sun. Rates are central differences over two hours.
func (p *SolarProvider) BodyEquatorialPosition(jd JulianDay) (BodyPosition, error) {
	if math.IsNaN(float64(jd)) || math.IsInf(float64(jd), 0) {
		return BodyPosition{}, &ComputationError{Message: fmt.Sprintf("invalid julian day %v", float64(jd))}
	}
	s := sunAt(jd)
	const h = 1.0 / 24
	before, after := sunAt(jd-h), sunAt(jd+h)
	return BodyPosition{
		Longitude:      s.ra,
		Latitude:       s.dec,
		Distance:       s.distance,
		LongitudeSpeed: AngleDifference(after.ra, before.ra) / (2 * h),
		LatitudeSpeed:  (after.dec - before.dec) / (2 * h),
		DistanceSpeed:  (after.distance - before.distance) / (2 * h),
	}, nil
}

// ToHorizontalCoordinates converts body to azimuth and altitude. With a
// topocentric observer set the altitude includes the solar parallax.
func (p *SolarProvider) ToHorizontalCoordinates(jd JulianDay, pos GeoPosition, pressure, temperature float64, body BodyPosition) HorizontalCoordinates {
	h, az := horizontal(jd, pos, body.Longitude, body.Latitude)
	if p.topoSet {
		h -= horizontalParallax(body.Distance, pos.Altitude) / 60 * unit.AngleFromDeg(h).Cos()
	}
	return HorizontalCoordinates{
		Azimuth:          az,
		TrueAltitude:     h,
		ApparentAltitude: h + refractionAt(h, pressure, temperature),
	}
}

func validateObserver(pos GeoPosition, pressure, temperature float64) error {
	for _, v := range []float64{pos.Latitude, pos.Longitude, pos.Altitude, pressure, temperature} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ComputationError{Message: fmt.Sprintf("non-finite input for observer %v", pos)}
		}
	}
	switch {
	case pos.Latitude < -90 || pos.Latitude > 90:
		return &ComputationError{Message: fmt.Sprintf("latitude out of range: %v", pos.Latitude)}
	case pressure < 0:
		return &ComputationError{Message: fmt.Sprintf("negative pressure: %v", pressure)}
	case temperature <= -273.15:
		return &ComputationError{Message: fmt.Sprintf("temperature below absolute zero: %v", temperature)}
	}
	return nil
}

type sunPosition struct {
	ra, dec  float64 // degrees
	distance float64 // AU
}

// sunAt returns the apparent position of the Sun from the low precision
// solar theory. UT is used for TT.
func sunAt(jd JulianDay) sunPosition {
	ra, dec := solar.ApparentEquatorial(float64(jd))
	return sunPosition{
		ra:       Normalize360(unit.Angle(ra).Deg()),
		dec:      dec.Deg(),
		distance: solar.Radius(jd.Centuries()),
	}
}

// horizontal returns the true geocentric altitude and the azimuth (from
// north, clockwise) of a body at right ascension ra and declination dec.
func horizontal(jd JulianDay, pos GeoPosition, ra, dec float64) (altitude, azimuth float64) {
	// coord measures longitude westward and azimuth from the south.
	az, h := coord.EqToHz(
		unit.RA(unit.AngleFromDeg(ra)),
		unit.AngleFromDeg(dec),
		unit.AngleFromDeg(pos.Latitude),
		unit.AngleFromDeg(-pos.Longitude),
		sidereal.Mean(float64(jd)),
	)
	return h.Deg(), Normalize360(az.Deg() + 180)
}
