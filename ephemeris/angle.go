package ephemeris

import "github.com/soniakeys/unit"

// Normalize360 maps an angle in degrees to [0, 360).
func Normalize360(a float64) float64 {
	a = unit.PMod(a, 360)
	if a >= 360 {
		a = 0
	}
	return a
}

// AngleDifference returns a-b in degrees wrapped to (-180, 180].
func AngleDifference(a, b float64) float64 {
	d := Normalize360(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}
