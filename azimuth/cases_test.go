package azimuth

import "github.com/devskill-org/sunazimuth/ephemeris"

// rawAzimuthCases are upper limb rise and set azimuths at longitude 0, sea
// level and standard atmosphere, April 2016.
var rawAzimuthCases = []struct {
	latitude float64
	day      int
	event    ephemeris.EventType
	azimuth  float64
}{
	{74, 27, ephemeris.Rise, 22.5},
	{72, 27, ephemeris.Rise, 34.5},
	{70, 27, ephemeris.Rise, 41.9},
	{68, 27, ephemeris.Rise, 47.2},
	{66, 27, ephemeris.Rise, 51.3},
	{64, 27, ephemeris.Rise, 54.5},
	{62, 27, ephemeris.Rise, 57.2},
	{60, 27, ephemeris.Rise, 59.5},
	{58, 27, ephemeris.Rise, 61.4},
	{56, 27, ephemeris.Rise, 63.1},
	{54, 27, ephemeris.Rise, 64.5},
	{52, 27, ephemeris.Rise, 65.8},
	{50, 27, ephemeris.Rise, 66.9},
	{45, 27, ephemeris.Rise, 69.1},
	{40, 27, ephemeris.Rise, 70.9},
	{30, 27, ephemeris.Rise, 73.3},
	{20, 27, ephemeris.Rise, 74.8},
	{10, 27, ephemeris.Rise, 75.6},
	{0, 27, ephemeris.Rise, 76.0},
	{-10, 27, ephemeris.Rise, 75.9},
	{-20, 27, ephemeris.Rise, 75.4},
	{-30, 27, ephemeris.Rise, 74.3},
	{-40, 27, ephemeris.Rise, 72.3},
	{-45, 27, ephemeris.Rise, 70.9},
	{-50, 27, ephemeris.Rise, 69.0},
	{-52, 27, ephemeris.Rise, 68.0},
	{-54, 27, ephemeris.Rise, 67.0},
	{-56, 27, ephemeris.Rise, 65.7},
	{-58, 27, ephemeris.Rise, 64.3},
	{-60, 27, ephemeris.Rise, 62.7},

	{74, 27, ephemeris.Set, 340.2},
	{72, 27, ephemeris.Set, 327.0},
	{70, 27, ephemeris.Set, 319.2},
	{68, 27, ephemeris.Set, 313.6},
	{66, 27, ephemeris.Set, 309.4},
	{64, 27, ephemeris.Set, 306.0},
	{62, 27, ephemeris.Set, 303.3},
	{60, 27, ephemeris.Set, 301.0},
	{58, 27, ephemeris.Set, 299.0},
	{56, 27, ephemeris.Set, 297.3},
	{54, 27, ephemeris.Set, 295.9},
	{52, 27, ephemeris.Set, 294.6},
	{50, 27, ephemeris.Set, 293.4},
	{45, 27, ephemeris.Set, 291.1},
	{40, 27, ephemeris.Set, 289.4},
	{30, 27, ephemeris.Set, 286.9},
	{20, 27, ephemeris.Set, 285.4},
	{10, 27, ephemeris.Set, 284.5},
	{0, 27, ephemeris.Set, 284.1},
	{-10, 27, ephemeris.Set, 284.2},
	{-20, 27, ephemeris.Set, 284.7},
	{-30, 27, ephemeris.Set, 285.9},
	{-40, 27, ephemeris.Set, 287.8},
	{-45, 27, ephemeris.Set, 289.3},
	{-50, 27, ephemeris.Set, 291.2},
	{-52, 27, ephemeris.Set, 292.2},
	{-54, 27, ephemeris.Set, 293.3},
	{-56, 27, ephemeris.Set, 294.5},
	{-58, 27, ephemeris.Set, 295.9},
	{-60, 27, ephemeris.Set, 297.6},

	{74, 28, ephemeris.Rise, 19.4},
	{72, 28, ephemeris.Rise, 32.7},
	{70, 28, ephemeris.Rise, 40.5},
	{68, 28, ephemeris.Rise, 46.1},
	{66, 28, ephemeris.Rise, 50.3},
	{64, 28, ephemeris.Rise, 53.7},
	{62, 28, ephemeris.Rise, 56.5},
	{60, 28, ephemeris.Rise, 58.8},
	{58, 28, ephemeris.Rise, 60.7},
	{56, 28, ephemeris.Rise, 62.4},
	{54, 28, ephemeris.Rise, 63.9},
	{52, 28, ephemeris.Rise, 65.2},
	{50, 28, ephemeris.Rise, 66.3},
	{45, 28, ephemeris.Rise, 68.7},
	{40, 28, ephemeris.Rise, 70.5},
	{30, 28, ephemeris.Rise, 72.9},
	{20, 28, ephemeris.Rise, 74.5},
	{10, 28, ephemeris.Rise, 75.3},
	{0, 28, ephemeris.Rise, 75.7},
	{-10, 28, ephemeris.Rise, 75.6},
	{-20, 28, ephemeris.Rise, 75.1},
	{-30, 28, ephemeris.Rise, 73.9},
	{-40, 28, ephemeris.Rise, 71.9},
	{-45, 28, ephemeris.Rise, 70.4},
	{-50, 28, ephemeris.Rise, 68.5},
	{-52, 28, ephemeris.Rise, 67.5},
	{-54, 28, ephemeris.Rise, 66.4},
	{-56, 28, ephemeris.Rise, 65.1},
	{-58, 28, ephemeris.Rise, 63.7},
	{-60, 28, ephemeris.Rise, 62.0},

	{74, 28, ephemeris.Set, 343.8},
	{72, 28, ephemeris.Set, 328.8},
	{70, 28, ephemeris.Set, 320.5},
	{68, 28, ephemeris.Set, 314.8},
	{66, 28, ephemeris.Set, 310.4},
	{64, 28, ephemeris.Set, 306.9},
	{62, 28, ephemeris.Set, 304.1},
	{60, 28, ephemeris.Set, 301.7},
	{58, 28, ephemeris.Set, 299.7},
	{56, 28, ephemeris.Set, 297.9},
	{54, 28, ephemeris.Set, 296.4},
	{52, 28, ephemeris.Set, 295.1},
	{50, 28, ephemeris.Set, 294.0},
	{45, 28, ephemeris.Set, 291.6},
	{40, 28, ephemeris.Set, 289.8},
	{30, 28, ephemeris.Set, 287.3},
	{20, 28, ephemeris.Set, 285.7},
	{10, 28, ephemeris.Set, 284.8},
	{0, 28, ephemeris.Set, 284.5},
	{-10, 28, ephemeris.Set, 284.5},
	{-20, 28, ephemeris.Set, 285.1},
	{-30, 28, ephemeris.Set, 286.2},
	{-40, 28, ephemeris.Set, 288.3},
	{-45, 28, ephemeris.Set, 289.8},
	{-50, 28, ephemeris.Set, 291.7},
	{-52, 28, ephemeris.Set, 292.7},
	{-54, 28, ephemeris.Set, 293.8},
	{-56, 28, ephemeris.Set, 295.1},
	{-58, 28, ephemeris.Set, 296.5},
	{-60, 28, ephemeris.Set, 298.2},

	{-56, 29, ephemeris.Set, 295.7},
	{-58, 29, ephemeris.Set, 297.2},
}
