// Package ephemeris computes the raw solar quantities the azimuth engine is
// built on: the instant the upper limb of the Sun touches the horizon, the
// Sun's apparent equatorial position and its horizontal coordinates for an
// observer.
//
// The Provider interface is the contract the engine consumes. SolarProvider
// implements it on github.com/soniakeys/meeus: the low precision solar theory
// (good to about 0.01° in position), mean sidereal time, the equatorial to
// horizontal transform and Saemundsson refraction. The horizon crossing search
// and the pressure/temperature scaling of the refraction live here. Times are
// Universal Time; the difference between UT and TT is ignored.
//
// A SolarProvider keeps the topocentric observer set through SetTopocentric
// and must not be shared between goroutines. Wrap it in a Session when it has
// to be:
//
//	session := ephemeris.NewSession(ephemeris.NewSolarProvider())
//	err := session.Exclusive(func(p ephemeris.Provider) error {
//		p.SetTopocentric(pos)
//		jd, err := p.EventInstant(date, pos, 1013.25, 10, ephemeris.Rise)
//		...
//	})
//
// Estimate gives a quick cross-check of the same events with suncalc.
package ephemeris
