// Package app wires the ingestion pipeline together: format dispatch, name
// canonicalization, time axis reconstruction, derived quantities, and
// metadata enrichment. The adapters and domain packages stay independent;
// only this package knows the full sequence.
package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/seacast/internal/adapters/readers"
	"github.com/okian/seacast/internal/domain/canonical"
	"github.com/okian/seacast/internal/domain/dataset"
	"github.com/okian/seacast/internal/domain/derive"
	"github.com/okian/seacast/internal/domain/enrich"
	"github.com/okian/seacast/internal/domain/params"
	"github.com/okian/seacast/internal/domain/subset"
	"github.com/okian/seacast/internal/domain/timeaxis"
	"github.com/okian/seacast/pkg/logger"
	"github.com/okian/seacast/pkg/metrics"
)

// Service is the ingestion pipeline entry point.
type Service struct {
	resolver *canonical.Resolver
	deriver  *derive.Engine
	enricher *enrich.Enricher
	log      logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger replaces the service logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReferenceLatitude sets the fallback latitude for depth conversion.
func WithReferenceLatitude(lat float64) Option {
	return func(s *Service) {
		s.deriver = derive.NewEngine(derive.WithReferenceLatitude(lat))
	}
}

// WithEnricher replaces the metadata enricher.
func WithEnricher(e *enrich.Enricher) Option {
	return func(s *Service) {
		if e != nil {
			s.enricher = e
		}
	}
}

// WithResolver replaces the canonical name resolver. Used by tests.
func WithResolver(r *canonical.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// New creates a Service with default configuration. Context is accepted first
// to satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context, opts ...Option) *Service {
	s := &Service{
		resolver: canonical.NewResolver(),
		deriver:  derive.NewEngine(),
		enricher: enrich.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("app")
	}
	return s
}

// ReadOption applies a per-call configuration option to Read.
type ReadOption func(*readConfig)

type readConfig struct {
	formatKey  string
	headerPath string
	overrides  map[string]string
}

// WithFormatKey declares the input format explicitly, bypassing extension
// detection.
func WithFormatKey(key string) ReadOption {
	return func(c *readConfig) {
		c.formatKey = key
	}
}

// WithHeaderPath supplies the separate header file required by the Nortek
// ASCII format.
func WithHeaderPath(path string) ReadOption {
	return func(c *readConfig) {
		c.headerPath = path
	}
}

// WithNameMapping layers explicit canonical-name overrides on top of the
// alias catalog. Keys are canonical parameter names, values raw column names.
func WithNameMapping(overrides map[string]string) ReadOption {
	return func(c *readConfig) {
		c.overrides = overrides
	}
}

// Read ingests one input file into a canonical dataset.
//
// The pipeline: dispatch a format reader, decode the raw table, resolve
// column names against the alias catalog, replace bad-flag sentinels with
// NaN, reconstruct the time axis, compute derived quantities, and enrich
// the result with attribute metadata and provenance.
func (s *Service) Read(ctx context.Context, path string, opts ...ReadOption) (*dataset.Dataset, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	key, err := readers.ResolveKey(path, cfg.formatKey)
	if err != nil {
		metrics.RecordIngestError(cfg.formatKey)
		return nil, err
	}

	ds, err := s.read(ctx, path, key, cfg)
	if err != nil {
		metrics.RecordIngestError(key)
		s.log.Error(ctx, "ingestion failed",
			logger.String("path", path),
			logger.String("format", key),
			logger.Error(err))
		return nil, err
	}

	metrics.RecordIngest(key, ds.Len(), time.Since(start))
	s.log.Info(ctx, "ingested file",
		logger.String("path", path),
		logger.String("format", key),
		logger.Int("samples", ds.Len()),
		logger.Int("variables", len(ds.VariableNames())))
	return ds, nil
}

func (s *Service) read(ctx context.Context, path, key string, cfg readConfig) (*dataset.Dataset, error) {
	reader, err := readers.Open(ctx, path,
		readers.WithFormatKey(key),
		readers.WithHeaderPath(cfg.headerPath))
	if err != nil {
		return nil, err
	}

	table, meta, err := reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mapping, err := s.resolver.Resolve(table.Columns, cfg.overrides)
	if err != nil {
		return nil, err
	}

	// Rekey columns by canonical name, preserving on-disk order. Bad-flag
	// sentinels become NaN here so every later stage sees one missing-value
	// convention.
	vars := make(map[string][]float64, len(table.Numeric))
	var numericOrder []string
	var textOrder []string
	text := make(map[string][]string, len(table.Text))
	attrs := make(map[string]dataset.Attributes, len(table.Numeric))
	badFlagged := 0
	for _, raw := range table.Columns {
		name := mapping[raw]
		if values, ok := table.Numeric[raw]; ok {
			if _, dup := vars[name]; dup {
				return nil, fmt.Errorf("%w: %q", dataset.ErrDuplicateVariable, name)
			}
			if meta.BadFlag != nil {
				values, badFlagged = scrubBadFlag(values, *meta.BadFlag, badFlagged)
			}
			vars[name] = values
			numericOrder = append(numericOrder, name)
			attrs[name] = dataset.Attributes{
				LongName: table.Labels[raw],
				Units:    table.Units[raw],
			}
			continue
		}
		if values, ok := table.Text[raw]; ok {
			if _, dup := text[name]; dup {
				return nil, fmt.Errorf("%w: %q", dataset.ErrDuplicateVariable, name)
			}
			text[name] = values
			textOrder = append(textOrder, name)
		}
	}
	if badFlagged > 0 {
		metrics.RecordBadFlagSamples(badFlagged)
	}

	if !hasAny(vars, params.Pressure, params.Depth) {
		return nil, ErrMissingRequiredParameter
	}

	n := table.NumRows()
	times, scheme, err := timeaxis.Build(vars, *meta, table.Times, n)
	if err != nil {
		return nil, err
	}

	// Time encodings are consumed by the axis and never survive as data.
	kept := numericOrder[:0]
	for _, name := range numericOrder {
		if params.IsTimeEncoding(params.BaseName(name)) {
			delete(vars, name)
			continue
		}
		kept = append(kept, name)
	}
	numericOrder = kept

	derived := s.deriver.Augment(vars, meta.Latitude)
	if len(derived) > 0 {
		metrics.RecordDerivedVariables(len(derived))
	}

	ds, err := dataset.New(times)
	if err != nil {
		return nil, err
	}
	for _, name := range numericOrder {
		if err := ds.AddVariable(name, vars[name], attrs[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range derived {
		a := dataset.Attributes{MeasurementType: params.TypeDerived}
		if err := ds.AddVariable(name, vars[name], a); err != nil {
			return nil, err
		}
	}
	for _, name := range textOrder {
		if err := ds.AddTextColumn(name, text[name]); err != nil {
			return nil, err
		}
	}
	ds.SetCoords(meta.Latitude, meta.Longitude)

	s.enricher.Enrich(ds, enrich.Provenance{
		SourceFile:    path,
		FormatKey:     key,
		ReaderVariant: reader.Variant(),
		SchemaType:    meta.SchemaType,
		SchemaVersion: meta.SchemaVersion,
		Instrument:    meta.Instrument,
	})

	s.log.Debug(ctx, "time axis reconstructed",
		logger.String("path", path),
		logger.String("scheme", string(scheme)))
	return ds, nil
}

// Subset evaluates a subset query built by configure against the dataset.
func (s *Service) Subset(ctx context.Context, ds *dataset.Dataset, configure func(*subset.Builder)) (*dataset.Dataset, error) {
	b := subset.New(ds)
	if configure != nil {
		configure(b)
	}
	out, err := b.Get()
	metrics.RecordSubset(err != nil)
	if err != nil {
		s.log.Error(ctx, "subset query failed", logger.Error(err))
		return nil, err
	}
	return out, nil
}

// Formats lists the supported input formats.
func (s *Service) Formats() []readers.Format {
	return readers.Formats()
}

// scrubBadFlag copies values with sentinel samples replaced by NaN, counting
// replacements on top of count.
func scrubBadFlag(values []float64, sentinel float64, count int) ([]float64, int) {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == sentinel {
			out[i] = math.NaN()
			count++
			continue
		}
		out[i] = v
	}
	return out, count
}

func hasAny(vars map[string][]float64, names ...string) bool {
	for _, name := range names {
		if _, ok := vars[name]; ok {
			return true
		}
		// A deduplicated family counts: pressure_1 satisfies pressure.
		if _, ok := vars[name+"_1"]; ok {
			return true
		}
	}
	return false
}
