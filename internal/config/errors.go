package config

import "errors"

var (
	ErrInvalidSize   = errors.New("config: render size must be at least 1x1")
	ErrInvalidFPS    = errors.New("config: fps must be positive")
	ErrInvalidScale  = errors.New("config: gui scale must be in (0, 1]")
	ErrUnknownPreset = errors.New("config: unknown preset")
)
