package subset

import "errors"

// Sentinel kinds for subset errors.
var (
	ErrUnknownParameter   = errors.New("parameter not found in dataset")
	ErrInvalidTimeBound   = errors.New("time bound is not a parseable timestamp")
	ErrInvalidSampleBound = errors.New("sample bound must be a non-negative integer")
	ErrEmptySubset        = errors.New("no samples match the subset criteria")
)
