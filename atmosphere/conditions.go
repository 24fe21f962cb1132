// Package atmosphere supplies the station pressure and air temperature used to
// correct horizon refraction.
package atmosphere

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/devskill-org/sunazimuth/catalogue"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// Conditions are the atmospheric parameters at the observer.
type Conditions struct {
	PressureHPa  float64   `json:"pressure_hpa"`  // station pressure
	TemperatureC float64   `json:"temperature_c"` // air temperature
	Source       string    `json:"source"`
	ObservedAt   time.Time `json:"observed_at,omitzero"`
}

// Standard returns the standard reference atmosphere.
func Standard() Conditions {
	return Conditions{
		PressureHPa:  catalogue.StandardPressure,
		TemperatureC: catalogue.StandardTemperature,
		Source:       "standard",
	}
}

// Validate checks that the conditions lie within the correction tables.
func (c Conditions) Validate() error {
	if math.IsNaN(c.PressureHPa) || math.IsNaN(c.TemperatureC) {
		return errors.New("pressure and temperature must be numbers")
	}
	temps, _ := catalogue.TemperatureTable()
	if c.TemperatureC < temps[0] || c.TemperatureC > temps[len(temps)-1] {
		return fmt.Errorf("temperature must be between %.0f and %.0f °C, got: %.1f", temps[0], temps[len(temps)-1], c.TemperatureC)
	}
	press, _ := catalogue.PressureTable()
	if c.PressureHPa < press[0] || c.PressureHPa > press[len(press)-1] {
		return fmt.Errorf("pressure must be between %.0f and %.0f hPa, got: %.1f", press[0], press[len(press)-1], c.PressureHPa)
	}
	return nil
}

// Source provides conditions at a position and time.
type Source interface {
	Name() string
	Conditions(ctx context.Context, pos ephemeris.GeoPosition, at time.Time) (Conditions, error)
}

// Fixed is a Source that always returns the same conditions.
type Fixed Conditions

func (f Fixed) Name() string {
	if f.Source == "" {
		return "fixed"
	}
	return f.Source
}

func (f Fixed) Conditions(context.Context, ephemeris.GeoPosition, time.Time) (Conditions, error) {
	c := Conditions(f)
	c.Source = f.Name()
	return c, nil
}

// Chain tries each source in order and returns the first conditions that
// pass validation.
type Chain []Source

func (c Chain) Name() string { return "chain" }

func (c Chain) Conditions(ctx context.Context, pos ephemeris.GeoPosition, at time.Time) (Conditions, error) {
	var errs []error
	for _, s := range c {
		cond, err := s.Conditions(ctx, pos, at)
		if err == nil {
			err = cond.Validate()
		}
		if err == nil {
			return cond, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return Conditions{}, errors.New("no atmosphere source configured")
	}
	return Conditions{}, errors.Join(errs...)
}
