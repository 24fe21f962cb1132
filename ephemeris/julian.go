package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// JulianDay is a continuous day count in Universal Time.
type JulianDay float64

const (
	j2000       = base.J2000
	unixEpochJD = 2440587.5
	secondsDay  = 86400.0
)

// JulianDayFromTime converts t to a Julian day.
func JulianDayFromTime(t time.Time) JulianDay {
	return JulianDay(julian.TimeToJD(t.UTC()))
}

// JulianDayFromCalendar converts a Gregorian calendar date and a fractional
// hour (UT) to a Julian day.
func JulianDayFromCalendar(year int, month time.Month, day int, hour float64) JulianDay {
	return JulianDay(julian.CalendarGregorianToJD(year, int(month), float64(day)+hour/24))
}

// Time converts the Julian day to a UTC time rounded to whole seconds.
func (jd JulianDay) Time() time.Time {
	secs := math.Round((float64(jd) - unixEpochJD) * secondsDay)
	return time.Unix(int64(secs), 0).UTC()
}

// Centuries returns Julian centuries since J2000.0.
func (jd JulianDay) Centuries() float64 {
	return base.J2000Century(float64(jd))
}

// Add returns jd shifted by d.
func (jd JulianDay) Add(d time.Duration) JulianDay {
	return jd + JulianDay(d.Seconds()/secondsDay)
}
