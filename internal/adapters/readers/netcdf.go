package readers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/okian/seacast/internal/domain/rawtable"
)

// netCdfReader decodes NetCDF files, typically previous outputs of this
// pipeline or other CF-style time series. The "time" variable with a
// "<unit> since <reference>" units attribute becomes the time axis; every
// other 1-D numeric variable of the same length is carried as a raw column.
type netCdfReader struct {
	path string
}

func newNetCdfReader(path string) *netCdfReader {
	return &netCdfReader{path: path}
}

func (r *netCdfReader) Variant() string { return "NetCdfReader" }

func (r *netCdfReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	nc, err := netcdf.Open(r.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer nc.Close()

	meta := &rawtable.Metadata{}
	if v, ok := nc.Attributes().Get("source"); ok {
		if s, ok := v.(string); ok {
			meta.Instrument = s
		}
	}

	names := nc.ListVariables()
	timeName := ""
	for _, n := range names {
		if n == "time" {
			timeName = n
			break
		}
	}
	if timeName == "" {
		return nil, nil, fmt.Errorf("%w: no time variable present", ErrMalformedInput)
	}

	timeVar, err := nc.GetVariable(timeName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	times, err := decodeTimeVariable(timeVar)
	if err != nil {
		return nil, nil, err
	}

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Labels:  make(map[string]string),
		Units:   make(map[string]string),
		Times:   times,
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if name == timeName {
			continue
		}
		v, err := nc.GetVariable(name)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		vals, ok := toFloat64s(v.Values)
		if !ok || len(vals) != len(times) {
			continue // scalars, grids and text variables are not time series
		}
		table.Columns = append(table.Columns, name)
		table.Numeric[name] = vals
		if a, ok := v.Attributes.Get("units"); ok {
			if s, ok := a.(string); ok {
				table.Units[name] = s
			}
		}
		if a, ok := v.Attributes.Get("long_name"); ok {
			if s, ok := a.(string); ok {
				table.Labels[name] = s
			}
		}
	}
	if len(table.Columns) == 0 {
		return nil, nil, fmt.Errorf("%w: no time-aligned variables found", ErrMalformedInput)
	}
	return table, meta, nil
}

// decodeTimeVariable converts a CF-style time variable ("<unit> since
// <reference>") into absolute timestamps.
func decodeTimeVariable(v *api.Variable) ([]time.Time, error) {
	vals, ok := toFloat64s(v.Values)
	if !ok {
		return nil, fmt.Errorf("%w: time variable is not numeric", ErrMalformedInput)
	}

	unitsAttr, _ := v.Attributes.Get("units")
	units, _ := unitsAttr.(string)
	unit, refStr, found := strings.Cut(units, " since ")
	if !found {
		return nil, fmt.Errorf("%w: time units %q lack a reference epoch", ErrMalformedInput, units)
	}
	ref, err := dateparse.ParseAny(strings.TrimSpace(refStr))
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable time reference %q", ErrMalformedInput, refStr)
	}

	var scale time.Duration
	switch strings.TrimSpace(unit) {
	case "seconds":
		scale = time.Second
	case "milliseconds":
		scale = time.Millisecond
	case "minutes":
		scale = time.Minute
	case "hours":
		scale = time.Hour
	case "days":
		scale = 24 * time.Hour
	default:
		return nil, fmt.Errorf("%w: unsupported time unit %q", ErrMalformedInput, unit)
	}

	out := make([]time.Time, len(vals))
	for i, x := range vals {
		out[i] = ref.Add(time.Duration(x * float64(scale))).UTC()
	}
	return out, nil
}

// toFloat64s widens the numeric slice types the netcdf library produces.
func toFloat64s(values any) ([]float64, bool) {
	switch v := values.(type) {
	case []float64:
		return v, true
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []int64:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []int32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []int16:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	default:
		return nil, false
	}
}
