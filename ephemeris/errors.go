package ephemeris

import "errors"

// ErrNoEventFound is returned when the Sun does not cross the horizon on the
// requested date at the requested position (polar day or night).
var ErrNoEventFound = errors.New("no rise or set event found")

// ComputationError reports a failure inside the ephemeris computation.
type ComputationError struct {
	Message string
}

func (e *ComputationError) Error() string {
	return "ephemeris computation error: " + e.Message
}
