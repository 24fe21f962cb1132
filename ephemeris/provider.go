package ephemeris

import (
	"sync"
	"time"
)

// Provider is the ephemeris contract consumed by the azimuth engine.
//
// Implementations may keep the topocentric observer as session state, so a
// Provider is not assumed to be safe for concurrent use.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// SetTopocentric sets the observer used for topocentric corrections.
	// The setting stays in effect for all following calls.
	SetTopocentric(pos GeoPosition)

	// EventInstant returns the instant of the first event of the given type
	// on the calendar day of date (UTC) at the observer's longitude. It
	// fails with ErrNoEventFound when the Sun does not cross the horizon and
	// with *ComputationError on invalid input.
	EventInstant(date time.Time, pos GeoPosition, pressure, temperature float64, event EventType) (JulianDay, error)

	// BodyEquatorialPosition returns the apparent equatorial position at jd.
	BodyEquatorialPosition(jd JulianDay) (BodyPosition, error)

	// ToHorizontalCoordinates transforms body into horizontal coordinates for
	// an observer at pos.
	ToHorizontalCoordinates(jd JulianDay, pos GeoPosition, pressure, temperature float64, body BodyPosition) HorizontalCoordinates
}

// Session serializes access to a Provider shared between goroutines.
type Session struct {
	mu       sync.Mutex
	provider Provider
}

// NewSession wraps p. p must not be used directly afterwards.
func NewSession(p Provider) *Session {
	return &Session{provider: p}
}

// Name returns the wrapped provider name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.Name()
}

// Exclusive runs fn with the provider while holding the session lock. A
// sequence of calls that depends on topocentric state must run inside one
// Exclusive call.
func (s *Session) Exclusive(fn func(p Provider) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.provider)
}
