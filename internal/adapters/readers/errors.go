package readers

import "errors"

// Sentinel kinds for format dispatch and decode errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrAmbiguousFormat   = errors.New("format probing did not yield a unique match")
	ErrMalformedInput    = errors.New("input file is structurally unparsable")
	ErrHeaderRequired    = errors.New("a header file is required for this format")
)
