package azimuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devskill-org/sunazimuth/ephemeris"
)

// MaxSweepDays limits the length of a sweep.
const MaxSweepDays = 3660

// SweepRequest describes a run of daily corrections.
type SweepRequest struct {
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	Position    ephemeris.GeoPosition `json:"position"`
	Pressure    float64               `json:"pressure"`
	Temperature float64               `json:"temperature"`
	Event       ephemeris.EventType   `json:"event"`
	KP          float64               `json:"kp"`
}

// Days returns the number of calendar days covered by the request.
func (r SweepRequest) Days() int {
	from := truncateDay(r.From)
	to := truncateDay(r.To)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// Validate checks the date range.
func (r SweepRequest) Validate() error {
	if r.To.Before(r.From) {
		return fmt.Errorf("sweep end %s is before start %s", r.To.Format(time.DateOnly), r.From.Format(time.DateOnly))
	}
	if n := r.Days(); n > MaxSweepDays {
		return fmt.Errorf("sweep covers %d days, at most %d allowed", n, MaxSweepDays)
	}
	if !r.Event.Valid() {
		return fmt.Errorf("invalid event type %d", int(r.Event))
	}
	return nil
}

// SweepPoint is the correction for one day of a sweep. Result is nil when the
// Sun does not rise or set that day.
type SweepPoint struct {
	Date    time.Time `json:"date"`
	Result  *Result   `json:"result,omitempty"`
	NoEvent bool      `json:"no_event"`
	Aligned bool      `json:"aligned"`
}

// Sweep corrects the event for every day of req and passes each point to fn in
// date order. It stops at the first error from the provider or fn, or when ctx
// is done.
func (c *Calculator) Sweep(ctx context.Context, req SweepRequest, fn func(SweepPoint) error) error {
	if err := req.Validate(); err != nil {
		return err
	}

	day := truncateDay(req.From)
	for n, days := 0, req.Days(); n < days; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		point := SweepPoint{Date: day}
		r, err := c.CalculateSunriseSunsetAzimuth(day, req.Position, req.Pressure, req.Temperature, req.Event, req.KP)
		switch {
		case errors.Is(err, ephemeris.ErrNoEventFound):
			point.NoEvent = true
		case err != nil:
			return fmt.Errorf("sweep %s: %w", day.Format(time.DateOnly), err)
		default:
			point.Result = r
			point.Aligned = r.Aligned()
		}

		if err := fn(point); err != nil {
			return err
		}
		day = day.AddDate(0, 0, 1)
	}
	return nil
}

// SweepAll collects the points of a sweep.
func (c *Calculator) SweepAll(ctx context.Context, req SweepRequest) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, max(req.Days(), 0))
	err := c.Sweep(ctx, req, func(p SweepPoint) error {
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Alignments returns the points whose disc span contains the compass bearing.
func Alignments(points []SweepPoint) []SweepPoint {
	var out []SweepPoint
	for _, p := range points {
		if p.Aligned {
			out = append(out, p)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
