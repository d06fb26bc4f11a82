// Package subset implements the composable query engine over a canonical
// dataset. Criteria accumulate on a builder and are applied together by Get:
// a sample-index slice, then a time-range slice, then a parameter-value
// filter. The three stages compose by intersection regardless of the order
// the setters were called in, and the result is always a new dataset.
package subset

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
	"github.com/okian/seacast/internal/domain/dataset"
)

// Builder accumulates subset criteria for one dataset.
type Builder struct {
	ds *dataset.Dataset

	minSample *int
	maxSample *int
	minTime   *time.Time
	maxTime   *time.Time

	paramName string
	valueMin  *float64
	valueMax  *float64

	// first validation error, surfaced by Get
	err error
}

// New creates a Builder over the given dataset.
func New(ds *dataset.Dataset) *Builder {
	return &Builder{ds: ds}
}

// SampleMin sets the minimum sample index (inclusive).
func (b *Builder) SampleMin(i int) *Builder {
	if i < 0 {
		b.fail(fmt.Errorf("%w: %d", ErrInvalidSampleBound, i))
		return b
	}
	b.minSample = &i
	return b
}

// SampleMax sets the maximum sample index (inclusive).
func (b *Builder) SampleMax(i int) *Builder {
	if i < 0 {
		b.fail(fmt.Errorf("%w: %d", ErrInvalidSampleBound, i))
		return b
	}
	b.maxSample = &i
	return b
}

// TimeMin sets the minimum time bound from a timestamp string.
func (b *Builder) TimeMin(value string) *Builder {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		b.fail(fmt.Errorf("%w: %q", ErrInvalidTimeBound, value))
		return b
	}
	return b.TimeMinAt(t)
}

// TimeMinAt sets the minimum time bound.
func (b *Builder) TimeMinAt(t time.Time) *Builder {
	b.minTime = &t
	return b
}

// TimeMax sets the maximum time bound from a timestamp string.
func (b *Builder) TimeMax(value string) *Builder {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		b.fail(fmt.Errorf("%w: %q", ErrInvalidTimeBound, value))
		return b
	}
	return b.TimeMaxAt(t)
}

// TimeMaxAt sets the maximum time bound.
func (b *Builder) TimeMaxAt(t time.Time) *Builder {
	b.maxTime = &t
	return b
}

// ParameterName selects the variable the value bounds apply to. The variable
// must exist in the dataset.
func (b *Builder) ParameterName(name string) *Builder {
	if !b.ds.HasVariable(name) {
		b.fail(fmt.Errorf("%w: %q", ErrUnknownParameter, name))
		return b
	}
	b.paramName = name
	return b
}

// ValueMin sets the minimum value bound for the selected parameter.
func (b *Builder) ValueMin(v float64) *Builder {
	b.valueMin = &v
	return b
}

// ValueMax sets the maximum value bound for the selected parameter.
func (b *Builder) ValueMax(v float64) *Builder {
	b.valueMax = &v
	return b
}

// Get applies the accumulated criteria and returns the filtered dataset.
// With no criteria set it returns an equivalent copy of the full dataset.
func (b *Builder) Get() (*dataset.Dataset, error) {
	if b.err != nil {
		return nil, b.err
	}

	n := b.ds.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		indices = append(indices, i)
	}

	indices = b.sliceBySample(indices)
	indices = b.sliceByTime(indices)
	indices, err := b.filterByValue(indices)
	if err != nil {
		return nil, err
	}

	if len(indices) == 0 {
		return nil, ErrEmptySubset
	}
	return b.ds.Select(indices)
}

// sliceBySample keeps indices within [minSample, maxSample], inclusive.
func (b *Builder) sliceBySample(indices []int) []int {
	if b.minSample == nil && b.maxSample == nil {
		return indices
	}
	out := indices[:0]
	for _, i := range indices {
		if b.minSample != nil && i < *b.minSample {
			continue
		}
		if b.maxSample != nil && i > *b.maxSample {
			continue
		}
		out = append(out, i)
	}
	return out
}

// sliceByTime keeps indices whose timestamp falls within the time bounds.
func (b *Builder) sliceByTime(indices []int) []int {
	if b.minTime == nil && b.maxTime == nil {
		return indices
	}
	times := b.ds.Times()
	out := indices[:0]
	for _, i := range indices {
		t := times[i]
		if b.minTime != nil && t.Before(*b.minTime) {
			continue
		}
		if b.maxTime != nil && t.After(*b.maxTime) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// filterByValue keeps indices where the selected parameter lies within the
// value bounds. NaN samples never satisfy a bound and are dropped.
func (b *Builder) filterByValue(indices []int) ([]int, error) {
	if b.paramName == "" || (b.valueMin == nil && b.valueMax == nil) {
		return indices, nil
	}
	v, ok := b.ds.Variable(b.paramName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, b.paramName)
	}
	out := indices[:0]
	for _, i := range indices {
		val := v.Values[i]
		if math.IsNaN(val) {
			continue
		}
		if b.valueMin != nil && val < *b.valueMin {
			continue
		}
		if b.valueMax != nil && val > *b.valueMax {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
