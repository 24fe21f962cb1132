package meteo

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// Source adapts Client to atmosphere.Source.
type Source struct {
	client *Client
	ttl    time.Duration
	clock  clockwork.Clock

	mu    sync.Mutex
	cache map[Location]cachedForecast
}

type cachedForecast struct {
	forecast *METJSONForecast
	fetched  time.Time
}

var _ atmosphere.Source = (*Source)(nil)

// NewSource returns a Source that refetches a location's forecast once it
// is older than ttl.
func NewSource(client *Client, ttl time.Duration) *Source {
	return NewSourceWithClock(client, ttl, clockwork.NewRealClock())
}

// NewSourceWithClock is NewSource with an explicit clock.
func NewSourceWithClock(client *Client, ttl time.Duration, clock clockwork.Clock) *Source {
	return &Source{
		client: client,
		ttl:    ttl,
		clock:  clock,
		cache:  make(map[Location]cachedForecast),
	}
}

func (s *Source) Name() string { return "met.no" }

// Conditions interpolates the forecast at t and reduces the sea level
// pressure to pos.Altitude.
func (s *Source) Conditions(ctx context.Context, pos ephemeris.GeoPosition, at time.Time) (atmosphere.Conditions, error) {
	f, err := s.forecast(ctx, pos)
	if err != nil {
		return atmosphere.Conditions{}, err
	}

	temp, ok := f.InterpolateAt(at, (*ForecastTimeStep).GetTemperature)
	if !ok {
		return atmosphere.Conditions{}, &MissingDataError{Field: "air_temperature", At: at.UTC().Format(time.RFC3339)}
	}
	slp, ok := f.InterpolateAt(at, (*ForecastTimeStep).GetSeaLevelPressure)
	if !ok {
		return atmosphere.Conditions{}, &MissingDataError{Field: "air_pressure_at_sea_level", At: at.UTC().Format(time.RFC3339)}
	}

	observed := at.UTC()
	if step := f.GetWeatherAtTime(at); step != nil {
		observed = step.Time
	}
	return atmosphere.Conditions{
		PressureHPa:  atmosphere.StationPressure(slp, pos.Altitude, temp),
		TemperatureC: temp,
		Source:       s.Name(),
		ObservedAt:   observed,
	}, nil
}

func (s *Source) forecast(ctx context.Context, pos ephemeris.GeoPosition) (*METJSONForecast, error) {
	loc := Location{
		Latitude:  math.Round(pos.Latitude*1e4) / 1e4,
		Longitude: math.Round(pos.Longitude*1e4) / 1e4,
	}
	if pos.Altitude >= 0 {
		loc.Altitude = IntPtr(int(math.Round(pos.Altitude)))
	}
	key := Location{Latitude: loc.Latitude, Longitude: loc.Longitude}

	s.mu.Lock()
	c, ok := s.cache[key]
	s.mu.Unlock()
	if ok && s.clock.Since(c.fetched) < s.ttl {
		return c.forecast, nil
	}

	f, err := s.client.GetCompact(ctx, QueryParams{Location: loc})
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %v: %w", pos, err)
	}

	s.mu.Lock()
	s.cache[key] = cachedForecast{forecast: f, fetched: s.clock.Now()}
	s.mu.Unlock()
	return f, nil
}
