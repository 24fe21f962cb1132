package ephemeris

import (
	"fmt"
	"strings"
)

// GeoPosition is an observer position on the Earth.
type GeoPosition struct {
	Longitude float64 `json:"longitude"` // degrees, east positive
	Latitude  float64 `json:"latitude"`  // degrees, north positive
	Altitude  float64 `json:"altitude"`  // meters above sea level
}

func (p GeoPosition) String() string {
	return fmt.Sprintf("%.4f/%.4f/%.0fm", p.Latitude, p.Longitude, p.Altitude)
}

// BodyPosition is an apparent equatorial position with its rates of change.
// Longitude is the right ascension and Latitude the declination.
type BodyPosition struct {
	Longitude      float64 `json:"longitude"`       // degrees
	Latitude       float64 `json:"latitude"`        // degrees
	Distance       float64 `json:"distance"`        // AU
	LongitudeSpeed float64 `json:"longitude_speed"` // degrees/day
	LatitudeSpeed  float64 `json:"latitude_speed"`  // degrees/day
	DistanceSpeed  float64 `json:"distance_speed"`  // AU/day
}

// HorizontalCoordinates of a body seen from an observer.
type HorizontalCoordinates struct {
	Azimuth          float64 `json:"azimuth"`           // degrees from north, clockwise
	TrueAltitude     float64 `json:"true_altitude"`     // degrees
	ApparentAltitude float64 `json:"apparent_altitude"` // degrees, refracted
}

// EventType selects the horizon crossing.
type EventType int

const (
	Rise EventType = 1
	Set  EventType = 2
)

func (e EventType) String() string {
	switch e {
	case Rise:
		return "rise"
	case Set:
		return "set"
	default:
		return fmt.Sprintf("EventType(%d)", int(e))
	}
}

// Valid reports whether e is Rise or Set.
func (e EventType) Valid() bool {
	return e == Rise || e == Set
}

// ReferenceAzimuth is the bearing of the event on the celestial equator:
// due east for a rise, due west for a set.
func (e EventType) ReferenceAzimuth() float64 {
	if e == Set {
		return 270
	}
	return 90
}

// ParseEventType parses "rise"/"sunrise" or "set"/"sunset".
func ParseEventType(s string) (EventType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rise", "sunrise":
		return Rise, nil
	case "set", "sunset":
		return Set, nil
	default:
		return 0, fmt.Errorf("unknown event type %q", s)
	}
}

func (e EventType) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid event type %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *EventType) UnmarshalText(text []byte) error {
	v, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
