package ephemeris

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
	"github.com/soniakeys/unit"
)

// Estimate is a quick, lower accuracy rise or set computed with suncalc.
type Estimate struct {
	Event   EventType `json:"event"`
	Time    time.Time `json:"time"`
	Azimuth float64   `json:"azimuth"` // degrees from north, clockwise
}

// EstimateEvent returns the suncalc rise or set for date at pos. suncalc
// ignores altitude, pressure and temperature.
func EstimateEvent(date time.Time, pos GeoPosition, event EventType) (Estimate, error) {
	if !event.Valid() {
		return Estimate{}, &ComputationError{Message: "unsupported event type " + event.String()}
	}

	y, m, d := date.UTC().Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	times := suncalc.GetTimes(noon, pos.Latitude, pos.Longitude)

	var t time.Time
	if event == Rise {
		t = times["sunrise"].Value
	} else {
		t = times["sunset"].Value
	}
	// suncalc reports polar day and night with an invalid time.
	if t.IsZero() || t.Sub(noon).Abs() > 30*time.Hour {
		return Estimate{}, ErrNoEventFound
	}

	sp := suncalc.GetPosition(t, pos.Latitude, pos.Longitude)
	return Estimate{
		Event:   event,
		Time:    t.UTC(),
		Azimuth: suncalcAzimuth(sp.Azimuth),
	}, nil
}

// suncalcAzimuth converts suncalc's azimuth (radians from south, westward) to
// degrees from north, clockwise.
func suncalcAzimuth(a float64) float64 {
	if math.IsNaN(a) {
		return a
	}
	return Normalize360(unit.Angle(a).Deg() + 180)
}
