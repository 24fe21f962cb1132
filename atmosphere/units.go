package atmosphere

import "math"

const (
	hPaPerMmHg = 1.33322
	mmHgPerHPa = 0.750064

	// Barometric reduction constants (ICAO standard atmosphere).
	gravity      = 9.80665
	molarMass    = 0.0289644
	gasConstant  = 8.31446
	lapseRate    = 0.0065
	kelvinOffset = 273.15
)

// MmHgToHPa converts millimetres of mercury to hectopascals.
func MmHgToHPa(mmHg float64) float64 {
	return mmHg * hPaPerMmHg
}

// HPaToMmHg converts hectopascals to millimetres of mercury.
func HPaToMmHg(hPa float64) float64 {
	return hPa * mmHgPerHPa
}

// StationPressure reduces a sea level pressure to the pressure at altitude
// meters, given the air temperature at the station.
func StationPressure(seaLevelHPa, altitude, temperatureC float64) float64 {
	if altitude == 0 {
		return seaLevelHPa
	}
	// Mean temperature of the air column below the station.
	t := temperatureC + kelvinOffset + lapseRate*altitude/2
	return seaLevelHPa * math.Exp(-gravity*molarMass*altitude/(gasConstant*t))
}

// SeaLevelPressure is the inverse of StationPressure.
func SeaLevelPressure(stationHPa, altitude, temperatureC float64) float64 {
	if altitude == 0 {
		return stationHPa
	}
	t := temperatureC + kelvinOffset + lapseRate*altitude/2
	return stationHPa * math.Exp(gravity*molarMass*altitude/(gasConstant*t))
}
