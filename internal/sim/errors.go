package sim

import "errors"

var ErrInvalidFrames = errors.New("sim: frame count must be positive")
