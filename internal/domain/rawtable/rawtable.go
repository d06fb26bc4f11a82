// Package rawtable defines the contract between format readers and the
// canonicalization pipeline: a decoded raw table of named columns plus the
// file-level metadata needed to rebuild a time axis and geolocate the cast.
package rawtable

import "time"

// Table is one decoded input file. Columns lists raw column names in on-disk
// order; each name resolves in exactly one of Numeric or Text.
type Table struct {
	Columns []string
	Numeric map[string][]float64
	Text    map[string][]string

	// Times carries absolute per-sample timestamps for formats that store
	// them directly (CSV, NetCDF, RSK containers). When set, the time axis
	// builder uses it as-is instead of reconstructing from an encoding.
	Times []time.Time

	// Labels and Units carry per-column descriptions from the file header,
	// keyed by raw column name. Either may be nil.
	Labels map[string]string
	Units  map[string]string
}

// Metadata is the file-level information a reader extracts alongside the table.
type Metadata struct {
	Instrument string

	// Fixed geolocation of the deployment, when the file declares one.
	Latitude  *float64
	Longitude *float64

	// ReferenceTime anchors relative time encodings (julian day of year,
	// elapsed seconds since offset, interval synthesis).
	ReferenceTime time.Time

	// SampleInterval is the declared fixed sampling interval, zero if absent.
	SampleInterval time.Duration

	// BadFlag is the sentinel marking invalid samples, nil if undeclared.
	BadFlag *float64

	// Schema identity for versioned container formats.
	SchemaType    string
	SchemaVersion string
}

// NumRows returns the length of the longest column. Readers produce equal
// column lengths; the pipeline re-validates against the time axis.
func (t *Table) NumRows() int {
	n := len(t.Times)
	for _, v := range t.Numeric {
		if len(v) > n {
			n = len(v)
		}
	}
	for _, v := range t.Text {
		if len(v) > n {
			n = len(v)
		}
	}
	return n
}
