package station

import (
	"context"
	"time"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// Source turns station readings into atmosphere conditions.
type Source struct {
	client *ModbusClient
}

var _ atmosphere.Source = (*Source)(nil)

// NewSource returns a Source reading from c.
func NewSource(c *ModbusClient) *Source {
	return &Source{client: c}
}

func (s *Source) Name() string { return "station" }

// Conditions reads the station now. The requested time is ignored; a
// station only knows the present.
func (s *Source) Conditions(ctx context.Context, pos ephemeris.GeoPosition, _ time.Time) (atmosphere.Conditions, error) {
	if err := ctx.Err(); err != nil {
		return atmosphere.Conditions{}, err
	}
	r, err := s.client.ReadReading()
	if err != nil {
		return atmosphere.Conditions{}, err
	}
	return s.convert(r, pos), nil
}

func (s *Source) convert(r *Reading, pos ephemeris.GeoPosition) atmosphere.Conditions {
	p := r.Pressure
	if s.client.registers.PressureUnit == MmHg {
		p = atmosphere.MmHgToHPa(p)
	}
	if s.client.registers.SeaLevel {
		p = atmosphere.StationPressure(p, pos.Altitude, r.TemperatureC)
	}
	return atmosphere.Conditions{
		PressureHPa:  p,
		TemperatureC: r.TemperatureC,
		Source:       s.Name(),
		ObservedAt:   r.ReadAt,
	}
}
