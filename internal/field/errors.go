package field

import (
	"errors"
	"fmt"
)

// Domain errors for field construction.
var (
	// ErrEmptyPopulation indicates a population with no sites.
	ErrEmptyPopulation = errors.New("field: population must contain at least one site")

	// ErrInvalidMotion indicates non-positive or non-finite motion parameters.
	ErrInvalidMotion = errors.New("field: invalid motion parameters")

	// ErrUnknownPalette indicates a palette name that is not registered.
	ErrUnknownPalette = errors.New("field: unknown palette")

	// ErrUnknownOrigin indicates a coordinate origin name that is not registered.
	ErrUnknownOrigin = errors.New("field: unknown coordinate origin")
)

// ConfigError wraps a construction error with the offending field and value.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
