package catalogue

// Standard reference conditions. Every delta of an azimuth correction is
// measured against these values.
const (
	StandardPressure    = 1013.25 // hPa
	StandardTemperature = 10.0    // °C
	StandardAltitude    = 0.0     // m

	// SolarDiameter is the apparent diameter of the solar disc in arcminutes.
	SolarDiameter = 31.8
)

// latitudeValues are the sample latitudes (degrees, absolute) of the age table.
var latitudeValues = []float64{
	0, 10, 20, 30, 40, 45, 50, 52, 54, 56, 58, 60, 62, 64, 66, 68, 70, 72, 74, 76, 78, 80,
}

// deltaT is the change of horizon refraction (arcmin) against the refraction
// at StandardTemperature. Row 0 is the temperature in °C.
var deltaT = [2][]float64{
	{-40, -30, -20, -10, 0, 10, 20, 30, 40, 50},
	{7.399, 5.676, 4.088, 2.622, 1.263, 0.0, -1.177, -2.276, -3.305, -4.270},
}

// deltaP is the change of horizon refraction (arcmin) against the refraction
// at StandardPressure. Row 0 is the station pressure in hPa.
var deltaP = [2][]float64{
	{930, 950, 970, 990, 1013.25, 1030, 1050, 1070},
	{-2.835, -2.154, -1.473, -0.792, 0.0, 0.570, 1.251, 1.932},
}

// kt holds the azimuth (degrees) swept by the solar disc between the upper
// and the lower limb touching the horizon. Row 0 is the latitude domain;
// rows 1..7 are stages for an event azimuth 0°, 10°, ... 60° away from
// due east (rise) or due west (set).
var kt = [8][]float64{
	latitudeValues,
	{0.000, 0.093, 0.193, 0.306, 0.445, 0.530, 0.632, 0.678, 0.729, 0.786, 0.848, 0.918, 0.997, 1.087, 1.190, 1.312, 1.456, 1.631, 1.848, 2.126, 2.493, 3.006},
	{0.000, 0.095, 0.196, 0.311, 0.452, 0.538, 0.641, 0.689, 0.741, 0.798, 0.861, 0.932, 1.012, 1.103, 1.209, 1.332, 1.479, 1.656, 1.877, 2.159, 2.532, 3.052},
	{0.000, 0.099, 0.205, 0.326, 0.473, 0.564, 0.672, 0.722, 0.776, 0.836, 0.903, 0.977, 1.061, 1.156, 1.267, 1.396, 1.550, 1.736, 1.967, 2.262, 2.653, 3.199},
	{0.000, 0.108, 0.223, 0.353, 0.514, 0.612, 0.729, 0.783, 0.842, 0.907, 0.979, 1.060, 1.151, 1.255, 1.375, 1.515, 1.681, 1.884, 2.134, 2.455, 2.879, 3.471},
	{0.000, 0.122, 0.252, 0.399, 0.581, 0.692, 0.825, 0.886, 0.952, 1.026, 1.107, 1.198, 1.301, 1.419, 1.554, 1.712, 1.901, 2.129, 2.413, 2.775, 3.255, 3.924},
	{0.000, 0.145, 0.300, 0.476, 0.692, 0.825, 0.983, 1.055, 1.135, 1.222, 1.320, 1.428, 1.551, 1.691, 1.852, 2.041, 2.265, 2.538, 2.875, 3.307, 3.879, 4.676},
	{0.000, 0.187, 0.386, 0.612, 0.889, 1.060, 1.263, 1.357, 1.459, 1.572, 1.696, 1.836, 1.994, 2.173, 2.381, 2.624, 2.912, 3.262, 3.697, 4.251, 4.987, 6.012},
}

// KStageStep is the azimuth distance (degrees) between two adjacent stage rows of the age table.
const KStageStep = 10.0
