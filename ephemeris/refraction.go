package ephemeris

import (
	"github.com/soniakeys/meeus/v3/parallax"
	"github.com/soniakeys/meeus/v3/refraction"
	"github.com/soniakeys/meeus/v3/semidiameter"
	"github.com/soniakeys/unit"
)

const (
	standardPressure    = 1013.25 // hPa
	standardTemperature = 10.0    // °C

	// horizonRefraction is the refraction of a body on the horizon under
	// standard conditions, arcminutes.
	horizonRefraction = 34.5

	earthRadius = 6378137.0
)

// atmosphereScale scales a standard refraction to pressure (hPa) and
// temperature (°C).
func atmosphereScale(pressure, temperature float64) float64 {
	return (pressure / standardPressure) * ((273.15 + standardTemperature) / (273.15 + temperature))
}

// HorizonRefraction returns the refraction at the horizon in arcminutes.
func HorizonRefraction(pressure, temperature float64) float64 {
	return horizonRefraction * atmosphereScale(pressure, temperature)
}

// refractionAt returns the refraction in degrees of a body at true altitude h.
// Bodies far below the horizon are not refracted.
func refractionAt(h, pressure, temperature float64) float64 {
	if h < -1.9 {
		return 0
	}
	r := refraction.Saemundsson(unit.AngleFromDeg(h)).Deg()
	// Saemundsson is normalized to 1010 hPa and 10 °C.
	return r * atmosphereScale(pressure, temperature) * standardPressure / 1010
}

// sunSemidiameter returns the solar semidiameter in arcminutes at distance AU.
func sunSemidiameter(distance float64) float64 {
	return semidiameter.Semidiameter(semidiameter.Sun, distance).Deg() * 60
}

// horizontalParallax returns the solar horizontal parallax in arcminutes for
// an observer altitude meters above sea level.
func horizontalParallax(distance, altitude float64) float64 {
	rho := 1 + altitude/earthRadius
	return parallax.Horizontal(distance).Deg() * 60 * rho
}
