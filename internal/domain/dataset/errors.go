package dataset

import "errors"

// Sentinel kinds for dataset invariant violations.
var (
	ErrEmptyTimeAxis     = errors.New("time axis must not be empty")
	ErrNonMonotonicTime  = errors.New("time axis must be non-decreasing")
	ErrLengthMismatch    = errors.New("variable length differs from time axis length")
	ErrDuplicateVariable = errors.New("variable already exists")
	ErrEmptyVariableName = errors.New("variable name must not be empty")
	ErrIndexOutOfRange   = errors.New("sample index out of range")
)
