// Package enrich populates descriptive metadata on a freshly built dataset:
// per-variable attributes from the static parameter table, and dataset-level
// provenance. It runs before the dataset is returned to the caller, so the
// dataset is not yet visible to anyone else.
package enrich

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/seacast/internal/domain/dataset"
	"github.com/okian/seacast/internal/domain/params"
)

// DefaultConventions is the conventions marker attached to every dataset.
const DefaultConventions = "CF-1.8"

// Provenance describes how a dataset was produced.
type Provenance struct {
	SourceFile    string
	FormatKey     string
	ReaderVariant string
	SchemaType    string
	SchemaVersion string
	Instrument    string
}

// Enricher fills in variable and dataset attributes.
type Enricher struct {
	conventions   string
	sortVariables bool
	now           func() time.Time
	newID         func() string
}

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithConventions overrides the conventions marker string.
func WithConventions(c string) Option {
	return func(e *Enricher) {
		if c != "" {
			e.conventions = c
		}
	}
}

// WithSortedVariables enables deterministic alphabetical variable ordering.
func WithSortedVariables(sorted bool) Option {
	return func(e *Enricher) {
		e.sortVariables = sorted
	}
}

// WithClock replaces the wall clock. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator replaces the dataset ID generator. Used by tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Enricher) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New creates an Enricher with default configuration.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		conventions: DefaultConventions,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich fills missing variable attributes from the parameter metadata table
// and assigns dataset-level provenance.
func (e *Enricher) Enrich(ds *dataset.Dataset, prov Provenance) {
	for _, name := range ds.VariableNames() {
		v, ok := ds.Variable(name)
		if !ok {
			continue
		}
		meta, known := params.Lookup(name)
		if !known {
			continue // unmapped passthrough column, no enrichment
		}
		fillMissing(&v.Attrs, meta)
	}

	created := e.now().UTC()
	g := ds.Global()
	g.ID = e.newID()
	g.Created = created
	g.Conventions = e.conventions
	g.SourceFile = prov.SourceFile
	g.FormatKey = prov.FormatKey
	g.ReaderVariant = prov.ReaderVariant
	g.SchemaType = prov.SchemaType
	g.SchemaVersion = prov.SchemaVersion
	g.Instrument = prov.Instrument
	g.History = fmt.Sprintf("%s: ingested %s (format %s) with %s",
		created.Format(time.RFC3339), prov.SourceFile, prov.FormatKey, prov.ReaderVariant)
	ds.SetGlobal(g)

	if e.sortVariables {
		ds.SortVariables()
	}
}

// fillMissing copies table metadata into attrs, keeping any value already set
// explicitly by a reader or the pipeline.
func fillMissing(attrs *dataset.Attributes, meta params.Metadata) {
	if attrs.LongName == "" {
		attrs.LongName = meta.LongName
	}
	if attrs.Units == "" {
		attrs.Units = meta.Units
	}
	if attrs.StandardName == "" {
		attrs.StandardName = meta.StandardName
	}
	if attrs.ShortName == "" {
		attrs.ShortName = meta.ShortName
	}
	if attrs.MeasurementType == "" {
		attrs.MeasurementType = meta.MeasurementType
	}
	if attrs.ContentType == "" {
		attrs.ContentType = meta.ContentType
	}
	if attrs.Positive == "" {
		attrs.Positive = meta.Positive
	}
}
