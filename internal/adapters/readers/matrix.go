package readers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/seacast/internal/domain/rawtable"
	"github.com/sbinet/npyio/npz"
)

// matrixReader decodes proprietary numeric-array exports: NPZ archives of
// named 1-D arrays written by instrument post-processing software. Which
// exporter produced the archive is guessed by probing for known key sets;
// the probe must match exactly one exporter.
type matrixReader struct {
	path string
}

func newMatrixReader(path string) *matrixReader {
	return &matrixReader{path: path}
}

func (r *matrixReader) Variant() string { return "MatrixReader" }

// matrixExporter describes one known exporter: the keys whose joint presence
// identifies it, and how its timestamps are encoded.
type matrixExporter struct {
	name string
	// requiredKeys must all be present for this exporter to match.
	requiredKeys []string
	// timeKeys are consumed by buildTimes and dropped from the data columns.
	timeKeys []string
	// buildTimes assembles the absolute time axis from the decoded arrays.
	buildTimes func(arrays map[string][]float64) ([]time.Time, error)
}

// exporterRules is the ordered probe list. Evaluated in full: zero or more
// than one match is an error, never a silent default.
var exporterRules = []matrixExporter{
	{
		name: "winadcp",
		requiredKeys: []string{
			"SerYear", "SerMon", "SerDay", "SerHour", "SerMin", "SerSec",
		},
		timeKeys:   []string{"SerYear", "SerMon", "SerDay", "SerHour", "SerMin", "SerSec"},
		buildTimes: winadcpTimes,
	},
	{
		name: "signature-export",
		requiredKeys: []string{
			"Burst_Time", "Burst_Pressure",
		},
		timeKeys:   []string{"Burst_Time"},
		buildTimes: signatureTimes,
	},
}

func (r *matrixReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	f, err := npz.Open(r.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	keys := f.Keys()
	exporter, err := sniffExporter(keys)
	if err != nil {
		return nil, nil, err
	}

	arrays := make(map[string][]float64, len(keys))
	var order []string
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		vals, err := readArray(f, key)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: array %q: %v", ErrMalformedInput, key, err)
		}
		arrays[key] = vals
		order = append(order, key)
	}

	times, err := exporter.buildTimes(arrays)
	if err != nil {
		return nil, nil, err
	}

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Times:   times,
	}
	timeKeys := make(map[string]bool, len(exporter.timeKeys))
	for _, k := range exporter.timeKeys {
		timeKeys[k] = true
	}
	for _, key := range order {
		if timeKeys[key] {
			continue
		}
		table.Columns = append(table.Columns, key)
		table.Numeric[key] = arrays[key]
	}
	meta := &rawtable.Metadata{Instrument: exporter.name}
	return table, meta, nil
}

// sniffExporter probes the archive key set against every known exporter.
func sniffExporter(keys []string) (*matrixExporter, error) {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	var matched []*matrixExporter
	for i := range exporterRules {
		rule := &exporterRules[i]
		ok := true
		for _, req := range rule.requiredKeys {
			if !present[req] {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, rule)
		}
	}

	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return nil, fmt.Errorf("%w: no known exporter key set present", ErrAmbiguousFormat)
	default:
		names := make([]string, len(matched))
		for i, m := range matched {
			names[i] = m.name
		}
		return nil, fmt.Errorf("%w: multiple exporters match: %s",
			ErrAmbiguousFormat, strings.Join(names, ", "))
	}
}

// readArray reads one named array as float64, accepting the integer dtypes
// the exporters are known to write.
func readArray(f *npz.Reader, key string) ([]float64, error) {
	var f64 []float64
	if err := f.Read(key, &f64); err == nil {
		return f64, nil
	}
	var i64 []int64
	if err := f.Read(key, &i64); err == nil {
		out := make([]float64, len(i64))
		for i, v := range i64 {
			out[i] = float64(v)
		}
		return out, nil
	}
	var i32 []int32
	if err := f.Read(key, &i32); err == nil {
		out := make([]float64, len(i32))
		for i, v := range i32 {
			out[i] = float64(v)
		}
		return out, nil
	}
	var f32 []float32
	if err := f.Read(key, &f32); err != nil {
		return nil, err
	}
	out := make([]float64, len(f32))
	for i, v := range f32 {
		out[i] = float64(v)
	}
	return out, nil
}

// winadcpTimes builds timestamps from the WinADCP per-ensemble date fields.
// Years are stored as two digits relative to 2000.
func winadcpTimes(arrays map[string][]float64) ([]time.Time, error) {
	year := arrays["SerYear"]
	n := len(year)
	out := make([]time.Time, n)
	mon, day := arrays["SerMon"], arrays["SerDay"]
	hour, min, sec := arrays["SerHour"], arrays["SerMin"], arrays["SerSec"]
	if len(mon) != n || len(day) != n || len(hour) != n || len(min) != n || len(sec) != n {
		return nil, fmt.Errorf("%w: timestamp arrays have inconsistent lengths", ErrMalformedInput)
	}
	for i := 0; i < n; i++ {
		y := int(year[i])
		if y < 100 {
			y += 2000
		}
		out[i] = time.Date(y, time.Month(int(mon[i])), int(day[i]),
			int(hour[i]), int(min[i]), int(sec[i]), 0, time.UTC)
	}
	return out, nil
}

// signatureTimes interprets Burst_Time as seconds since the Unix epoch.
func signatureTimes(arrays map[string][]float64) ([]time.Time, error) {
	secs := arrays["Burst_Time"]
	out := make([]time.Time, len(secs))
	for i, s := range secs {
		out[i] = time.Unix(0, int64(s*float64(time.Second))).UTC()
	}
	return out, nil
}
