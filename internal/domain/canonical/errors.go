package canonical

import "errors"

// Sentinel kinds for name resolution errors.
var (
	ErrUnknownOverrideKey = errors.New("override key is not an allowed canonical parameter")
	ErrEmptyOverrideValue = errors.New("override value must name a raw column")
)
