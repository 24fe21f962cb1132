package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// request holds the parsed query of a calculation endpoint.
type request struct {
	Date     time.Time
	Position ephemeris.GeoPosition
	Event    ephemeris.EventType
	KP       float64

	// Conditions is nil when the query leaves the atmosphere to the source.
	Conditions *atmosphere.Conditions
}

// paramError is a malformed query parameter.
type paramError struct {
	Name string
	Err  error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.Name, e.Err)
}

func (e *paramError) Unwrap() error {
	return e.Err
}

func (ws *WebServer) parseRequest(q url.Values) (*request, error) {
	req := &request{
		Position: ws.config.Position,
		Event:    ephemeris.Rise,
		KP:       ws.config.CompassBearing,
	}

	var err error
	if req.Date, err = parseDate(q, "date", ws.clock.Now()); err != nil {
		return nil, err
	}
	if err := parseFloat(q, "lat", &req.Position.Latitude, -90, 90); err != nil {
		return nil, err
	}
	if err := parseFloat(q, "lon", &req.Position.Longitude, -180, 180); err != nil {
		return nil, err
	}
	if err := parseFloat(q, "alt", &req.Position.Altitude, 0, 9000); err != nil {
		return nil, err
	}
	if err := parseFloat(q, "kp", &req.KP, 0, 360); err != nil {
		return nil, err
	}
	if v := q.Get("event"); v != "" {
		if req.Event, err = ephemeris.ParseEventType(v); err != nil {
			return nil, &paramError{Name: "event", Err: err}
		}
	}

	p, t := q.Get("pressure"), q.Get("temperature")
	switch {
	case p == "" && t == "":
	case p == "" || t == "":
		return nil, &paramError{Name: "pressure", Err: fmt.Errorf("pressure and temperature must be given together")}
	default:
		cond := atmosphere.Conditions{Source: "request"}
		if err := parseFloat(q, "pressure", &cond.PressureHPa, -1e9, 1e9); err != nil {
			return nil, err
		}
		if err := parseFloat(q, "temperature", &cond.TemperatureC, -1e9, 1e9); err != nil {
			return nil, err
		}
		if err := cond.Validate(); err != nil {
			return nil, &paramError{Name: "pressure", Err: err}
		}
		req.Conditions = &cond
	}

	return req, nil
}

func parseDate(q url.Values, name string, now time.Time) (time.Time, error) {
	v := q.Get(name)
	if v == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, &paramError{Name: name, Err: err}
	}
	return t, nil
}

func parseFloat(q url.Values, name string, dst *float64, lo, hi float64) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return &paramError{Name: name, Err: err}
	}
	if math.IsNaN(f) || f < lo || f > hi {
		return &paramError{Name: name, Err: fmt.Errorf("must be between %g and %g, got: %g", lo, hi, f)}
	}
	*dst = f
	return nil
}
