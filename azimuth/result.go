package azimuth

import (
	"time"

	"github.com/devskill-org/sunazimuth/ephemeris"
)

// Result is the decomposition of one corrected rise or set azimuth. Angles
// are in degrees.
type Result struct {
	Event ephemeris.EventType `json:"event"`
	KP    float64             `json:"kp"` // compass bearing to compare with

	// Reference the deltas are measured from.
	ReferenceLatitude float64 `json:"reference_latitude"`
	ReferenceAzimuth  float64 `json:"reference_azimuth"`

	DLatitude    float64 `json:"d_latitude"`
	DLongitude   float64 `json:"d_longitude"`
	DAltitude    float64 `json:"d_altitude"`
	DTemperature float64 `json:"d_temperature"`
	DPressure    float64 `json:"d_pressure"`
	Dh           float64 `json:"dh"` // horizon dip
	K            float64 `json:"k"`  // horizon shift in solar diameters
	DAzimuth     float64 `json:"d_azimuth"`

	AzimuthTop  float64 `json:"azimuth_top"` // upper limb on the horizon
	AzimuthBot  float64 `json:"azimuth_bot"` // lower limb on the horizon
	DAzimuthAge float64 `json:"d_azimuth_age"`
	DKPTop      float64 `json:"d_kp_top"`
	DKPBot      float64 `json:"d_kp_bot"`
	// KPFraction locates KP on the limb span: 0 at AzimuthTop, 1 at AzimuthBot.
	// With a zero span it is 0 when KP equals AzimuthTop and -1 otherwise.
	KPFraction float64 `json:"kp_fraction"`
	At         float64 `json:"at"`

	EventTime time.Time `json:"event_time"`
}

// Aligned reports whether KP falls on the span swept by the solar disc.
func (r *Result) Aligned() bool {
	return r.KPFraction >= 0 && r.KPFraction <= 1
}

// RawResult is the uncorrected provider output for one event.
type RawResult struct {
	JulianDay   ephemeris.JulianDay             `json:"julian_day"`
	Time        time.Time                       `json:"time"`
	Coordinates ephemeris.HorizontalCoordinates `json:"coordinates"`
}

// TimeResult is a corrected event time.
type TimeResult struct {
	Event    ephemeris.EventType `json:"event"`
	DateTime time.Time           `json:"date_time"`
	DT       float64             `json:"dt"` // minutes
	Raw      RawResult           `json:"raw"`
}
