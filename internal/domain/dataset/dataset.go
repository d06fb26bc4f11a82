// Package dataset defines the canonical, time-indexed dataset produced by
// ingestion. A Dataset owns one time coordinate, variables aligned to it,
// optional scalar coordinates, and descriptive attributes.
//
// Invariants enforced here:
//   - the time axis is non-empty and non-decreasing;
//   - every variable has exactly one value per time sample.
//
// A Dataset is built once by the pipeline and treated as immutable by callers.
// Subsetting produces a new Dataset rather than mutating in place.
package dataset

import (
	"sort"
	"time"
)

// Attributes are the descriptive attributes of one variable.
type Attributes struct {
	LongName        string
	Units           string
	StandardName    string
	ShortName       string
	MeasurementType string
	ContentType     string
	Positive        string
}

// Variable is one canonical variable: a numeric sequence aligned to the time
// axis plus its attributes.
type Variable struct {
	Name   string
	Values []float64
	Attrs  Attributes
}

// Global holds dataset-level attributes and provenance.
type Global struct {
	ID            string
	History       string
	Conventions   string
	SourceFile    string
	FormatKey     string
	ReaderVariant string
	SchemaType    string
	SchemaVersion string
	Instrument    string
	Created       time.Time
}

// Dataset is the canonical dataset entity.
type Dataset struct {
	times []time.Time

	order []string
	vars  map[string]*Variable

	textOrder []string
	text      map[string][]string

	latitude  *float64
	longitude *float64

	global Global
}

// New creates a Dataset around the given time axis. The axis must be non-empty
// and non-decreasing.
func New(times []time.Time) (*Dataset, error) {
	if len(times) == 0 {
		return nil, ErrEmptyTimeAxis
	}
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			return nil, ErrNonMonotonicTime
		}
	}
	return &Dataset{
		times: times,
		vars:  make(map[string]*Variable),
		text:  make(map[string][]string),
	}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.times) }

// Times returns the time axis. The returned slice must not be modified.
func (d *Dataset) Times() []time.Time { return d.times }

// AddVariable attaches a numeric variable aligned to the time axis.
func (d *Dataset) AddVariable(name string, values []float64, attrs Attributes) error {
	if name == "" {
		return ErrEmptyVariableName
	}
	if len(values) != len(d.times) {
		return ErrLengthMismatch
	}
	if _, exists := d.vars[name]; exists {
		return ErrDuplicateVariable
	}
	d.vars[name] = &Variable{Name: name, Values: values, Attrs: attrs}
	d.order = append(d.order, name)
	return nil
}

// AddTextColumn attaches a passthrough text column aligned to the time axis.
// Text columns carry no derived metadata.
func (d *Dataset) AddTextColumn(name string, values []string) error {
	if name == "" {
		return ErrEmptyVariableName
	}
	if len(values) != len(d.times) {
		return ErrLengthMismatch
	}
	if _, exists := d.text[name]; exists {
		return ErrDuplicateVariable
	}
	d.text[name] = values
	d.textOrder = append(d.textOrder, name)
	return nil
}

// Variable returns the named variable.
func (d *Dataset) Variable(name string) (*Variable, bool) {
	v, ok := d.vars[name]
	return v, ok
}

// HasVariable reports whether a variable with the given name exists.
func (d *Dataset) HasVariable(name string) bool {
	_, ok := d.vars[name]
	return ok
}

// VariableNames returns the variable names in insertion order.
func (d *Dataset) VariableNames() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// TextColumn returns the named passthrough text column.
func (d *Dataset) TextColumn(name string) ([]string, bool) {
	v, ok := d.text[name]
	return v, ok
}

// TextColumnNames returns the text column names in insertion order.
func (d *Dataset) TextColumnNames() []string {
	out := make([]string, len(d.textOrder))
	copy(out, d.textOrder)
	return out
}

// SetCoords sets the scalar latitude/longitude coordinates. Either may be nil.
func (d *Dataset) SetCoords(lat, lon *float64) {
	d.latitude = lat
	d.longitude = lon
}

// Latitude returns the scalar latitude coordinate, nil if absent.
func (d *Dataset) Latitude() *float64 { return d.latitude }

// Longitude returns the scalar longitude coordinate, nil if absent.
func (d *Dataset) Longitude() *float64 { return d.longitude }

// SetGlobal replaces the dataset-level attributes. Called by the pipeline
// before the dataset is returned to the caller.
func (d *Dataset) SetGlobal(g Global) { d.global = g }

// Global returns the dataset-level attributes.
func (d *Dataset) Global() Global { return d.global }

// SortVariables reorders the variable listing alphabetically for deterministic
// output. Data is untouched; only iteration order changes.
func (d *Dataset) SortVariables() {
	sort.Strings(d.order)
	sort.Strings(d.textOrder)
}

// Select returns a new Dataset containing the samples at the given indices,
// in the given order. Indices must be valid and ascending so the time axis
// invariant is preserved.
func (d *Dataset) Select(indices []int) (*Dataset, error) {
	times := make([]time.Time, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(d.times) {
			return nil, ErrIndexOutOfRange
		}
		times = append(times, d.times[i])
	}
	out, err := New(times)
	if err != nil {
		return nil, err
	}
	for _, name := range d.order {
		src := d.vars[name]
		vals := make([]float64, 0, len(indices))
		for _, i := range indices {
			vals = append(vals, src.Values[i])
		}
		if err := out.AddVariable(name, vals, src.Attrs); err != nil {
			return nil, err
		}
	}
	for _, name := range d.textOrder {
		src := d.text[name]
		vals := make([]string, 0, len(indices))
		for _, i := range indices {
			vals = append(vals, src[i])
		}
		if err := out.AddTextColumn(name, vals); err != nil {
			return nil, err
		}
	}
	out.latitude = d.latitude
	out.longitude = d.longitude
	out.global = d.global
	return out, nil
}

// Validate re-checks the dataset invariants.
func (d *Dataset) Validate() error {
	if len(d.times) == 0 {
		return ErrEmptyTimeAxis
	}
	for i := 1; i < len(d.times); i++ {
		if d.times[i].Before(d.times[i-1]) {
			return ErrNonMonotonicTime
		}
	}
	for _, v := range d.vars {
		if len(v.Values) != len(d.times) {
			return ErrLengthMismatch
		}
	}
	for _, v := range d.text {
		if len(v) != len(d.times) {
			return ErrLengthMismatch
		}
	}
	return nil
}
