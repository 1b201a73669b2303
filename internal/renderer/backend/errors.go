package backend

import "errors"

// ErrNoCanvas is returned when presenting before a canvas was requested.
var ErrNoCanvas = errors.New("no canvas")
