package timeaxis

import "errors"

// Sentinel kinds for time axis construction errors.
var (
	ErrMissingTimeReference = errors.New("no supported time encoding found")
	ErrLengthMismatch       = errors.New("time column length differs from sample count")
	ErrNoSamples            = errors.New("cannot build a time axis for zero samples")
)
