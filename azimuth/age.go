package azimuth

import (
	"math"

	"github.com/devskill-org/sunazimuth/catalogue"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// SunBotAgeCorrection returns the azimuth from the upper limb crossing to the
// lower limb crossing of the horizon. The magnitude grows with |latitude| and
// with the distance of azimuth from due east (rise) or due west (set). It is
// positive for a rise and negative for a set north of the equator; the signs
// swap in the southern hemisphere.
func SunBotAgeCorrection(latitude, azimuth float64, event ephemeris.EventType) float64 {
	stages := catalogue.KStages()
	maxOffset := catalogue.KStageStep * float64(stages-1)

	offset := math.Abs(ephemeris.AngleDifference(azimuth, event.ReferenceAzimuth()))
	offset = math.Min(offset, maxOffset)

	s := offset / catalogue.KStageStep
	i := min(int(s), stages-2)
	lat := math.Abs(latitude)
	lo := catalogue.InterpolatedK(lat, i+1)
	hi := catalogue.InterpolatedK(lat, i+2)
	v := lo + (hi-lo)*(s-float64(i))

	sign := 1.0
	if event == ephemeris.Set {
		sign = -1
	}
	if latitude < 0 {
		sign = -sign
	}
	return sign * v
}

// HorizonDip returns the dip of the sea horizon in arcminutes for an observer
// altitude meters above sea level.
func HorizonDip(altitude float64) float64 {
	if altitude <= 0 {
		return 0
	}
	return 1.76 * math.Sqrt(altitude)
}
