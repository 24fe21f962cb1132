package meteo

import "fmt"

// APIError represents an error returned by the MET API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forecast API error %d: %s", e.StatusCode, e.Message)
}

// ValidationError represents a validation error for input parameters
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NetworkError represents a network-related error
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MissingDataError reports a forecast without the values needed for a time.
type MissingDataError struct {
	Field string
	At    string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("forecast has no %s around %s", e.Field, e.At)
}
