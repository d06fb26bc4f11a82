// Package timeaxis reconstructs the absolute time coordinate of a dataset
// from one of the supported on-disk time encodings.
//
// Encodings are tried in a fixed priority order; the first available wins:
//
//  1. absolute timestamps supplied directly by the reader
//  2. julian day-of-year offsets relative to the file reference date
//  3. elapsed seconds since 2000-01-01
//  4. elapsed seconds since the Unix epoch
//  5. elapsed seconds since the file-declared reference timestamp
//  6. a declared fixed sample interval, synthesized as ref + i*interval
//
// A file yielding none of these has no valid time axis and ingestion fails.
package timeaxis

import (
	"time"

	"github.com/okian/seacast/internal/domain/params"
	"github.com/okian/seacast/internal/domain/rawtable"
)

// Scheme identifies which encoding produced the axis, for provenance.
type Scheme string

// Supported schemes.
const (
	SchemeAbsolute  Scheme = "absolute-timestamps"
	SchemeJulianDay Scheme = "julian-day-offset"
	SchemeSince2000 Scheme = "seconds-since-2000"
	SchemeSinceUnix Scheme = "seconds-since-1970"
	SchemeOffset    Scheme = "seconds-since-reference"
	SchemeInterval  Scheme = "sample-interval"
)

var epoch2000 = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build reconstructs the time axis for n samples from the canonicalized
// variables and the file metadata. vars is keyed by canonical name.
func Build(vars map[string][]float64, meta rawtable.Metadata, times []time.Time, n int) ([]time.Time, Scheme, error) {
	if n <= 0 {
		return nil, "", ErrNoSamples
	}

	if len(times) > 0 {
		if len(times) != n {
			return nil, "", ErrLengthMismatch
		}
		return times, SchemeAbsolute, nil
	}

	if days, ok := vars[params.TimeJulianDays]; ok && !meta.ReferenceTime.IsZero() {
		ref := time.Date(meta.ReferenceTime.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		out, err := fromOffsets(days, n, func(v float64) time.Time {
			return ref.Add(time.Duration(v * 24 * float64(time.Hour)))
		})
		return out, SchemeJulianDay, err
	}

	if secs, ok := vars[params.TimeSince2000]; ok {
		out, err := fromOffsets(secs, n, func(v float64) time.Time {
			return epoch2000.Add(time.Duration(v * float64(time.Second)))
		})
		return out, SchemeSince2000, err
	}

	if secs, ok := vars[params.TimeSinceEpoch]; ok {
		out, err := fromOffsets(secs, n, func(v float64) time.Time {
			return time.Unix(0, int64(v*float64(time.Second))).UTC()
		})
		return out, SchemeSinceUnix, err
	}

	if secs, ok := vars[params.TimeSinceOffset]; ok && !meta.ReferenceTime.IsZero() {
		ref := meta.ReferenceTime
		out, err := fromOffsets(secs, n, func(v float64) time.Time {
			return ref.Add(time.Duration(v * float64(time.Second)))
		})
		return out, SchemeOffset, err
	}

	if meta.SampleInterval > 0 && !meta.ReferenceTime.IsZero() {
		out := make([]time.Time, n)
		for i := 0; i < n; i++ {
			out[i] = meta.ReferenceTime.Add(time.Duration(i) * meta.SampleInterval)
		}
		return out, SchemeInterval, nil
	}

	return nil, "", ErrMissingTimeReference
}

func fromOffsets(offsets []float64, n int, conv func(float64) time.Time) ([]time.Time, error) {
	if len(offsets) != n {
		return nil, ErrLengthMismatch
	}
	out := make([]time.Time, n)
	for i, v := range offsets {
		out[i] = conv(v)
	}
	return out, nil
}
