package app

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMissingRequiredParameter is returned when canonicalization yields
	// neither pressure nor depth.
	ErrMissingRequiredParameter = errors.New("missing required parameter: pressure or depth")
)
