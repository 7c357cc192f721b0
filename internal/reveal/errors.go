package reveal

import "errors"

var (
	// ErrInvalidDuration indicates a non-positive transition duration.
	ErrInvalidDuration = errors.New("reveal: transition duration must be positive")

	// ErrInvalidRadius indicates inconsistent radius bounds.
	ErrInvalidRadius = errors.New("reveal: max radius must not be below min radius")

	// ErrUnknownEasing indicates an easing name that is not registered.
	ErrUnknownEasing = errors.New("reveal: unknown easing")

	// ErrInvalidStep indicates a non-positive per-frame step in step mode.
	ErrInvalidStep = errors.New("reveal: step size must be positive")
)
