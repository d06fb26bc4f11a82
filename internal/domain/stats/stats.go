// Package stats provides simple aggregate statistics over one canonical
// parameter of a dataset. NaN samples (bad-flag substitutions) are skipped.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/okian/seacast/internal/domain/dataset"
)

// Sentinel kinds for statistics errors.
var (
	ErrUnknownParameter = errors.New("parameter not found in dataset")
	ErrNoValidSamples   = errors.New("parameter has no valid samples")
)

// Processor computes aggregates over one variable.
type Processor struct {
	values []float64
}

// New creates a Processor for the named parameter of the dataset.
func New(ds *dataset.Dataset, parameter string) (*Processor, error) {
	v, ok := ds.Variable(parameter)
	if !ok {
		return nil, ErrUnknownParameter
	}
	vals := make([]float64, 0, len(v.Values))
	for _, x := range v.Values {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return nil, ErrNoValidSamples
	}
	return &Processor{values: vals}, nil
}

// Min returns the minimum value.
func (p *Processor) Min() float64 {
	m := p.values[0]
	for _, v := range p.values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the maximum value.
func (p *Processor) Max() float64 {
	m := p.values[0]
	for _, v := range p.values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Mean returns the arithmetic mean.
func (p *Processor) Mean() float64 {
	sum := 0.0
	for _, v := range p.values {
		sum += v
	}
	return sum / float64(len(p.values))
}

// Median returns the median value.
func (p *Processor) Median() float64 {
	sorted := make([]float64, len(p.values))
	copy(sorted, p.values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Var returns the population variance.
func (p *Processor) Var() float64 {
	mean := p.Mean()
	sum := 0.0
	for _, v := range p.values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(p.values))
}

// Std returns the population standard deviation.
func (p *Processor) Std() float64 {
	return math.Sqrt(p.Var())
}

// Sum returns the sum of all valid samples.
func (p *Processor) Sum() float64 {
	sum := 0.0
	for _, v := range p.values {
		sum += v
	}
	return sum
}
