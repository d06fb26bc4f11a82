package readers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/seacast/internal/domain/rawtable"
)

// nortekReader decodes Nortek ASCII exports: a fixed-column .dat file whose
// channel layout lives in a separate .hdr file. The header's "Data file
// format" section lists one numbered column description per line; the first
// six columns (month, day, year, hour, minute, second) form the timestamp.
type nortekReader struct {
	path       string
	headerPath string
}

func newNortekReader(path, headerPath string) *nortekReader {
	return &nortekReader{path: path, headerPath: headerPath}
}

func (r *nortekReader) Variant() string { return "NortekAsciiReader" }

var nortekColumnRe = regexp.MustCompile(`^\s*(\d+)\s{2,}(\S[^(]*?)(?:\s*\(([^)]*)\))?\s*$`)

func (r *nortekReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	columns, units, meta, err := r.readHeader(ctx)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Units:   units,
	}

	timeIdx := timeColumnIndices(columns)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != len(columns) {
			return nil, nil, fmt.Errorf("%w: data row has %d fields, header declares %d columns",
				ErrMalformedInput, len(fields), len(columns))
		}

		values := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: non-numeric value %q in column %s",
					ErrMalformedInput, field, columns[i])
			}
			values[i] = v
		}

		if timeIdx != nil {
			sec := values[timeIdx[5]]
			t := time.Date(
				int(values[timeIdx[2]]), time.Month(int(values[timeIdx[0]])), int(values[timeIdx[1]]),
				int(values[timeIdx[3]]), int(values[timeIdx[4]]), int(sec),
				int((sec-float64(int(sec)))*1e9), time.UTC)
			table.Times = append(table.Times, t)
		}

		for i, v := range values {
			if timeIdx != nil && containsInt(timeIdx, i) {
				continue
			}
			table.Numeric[columns[i]] = append(table.Numeric[columns[i]], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	for i, c := range columns {
		if timeIdx != nil && containsInt(timeIdx, i) {
			continue
		}
		table.Columns = append(table.Columns, c)
	}
	return table, meta, nil
}

// readHeader parses the .hdr file: instrument identity from "key---value"
// style lines, and the column list from the "Data file format" section.
func (r *nortekReader) readHeader(ctx context.Context) ([]string, map[string]string, *rawtable.Metadata, error) {
	f, err := os.Open(r.headerPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	meta := &rawtable.Metadata{}
	units := make(map[string]string)
	var columns []string
	inFormat := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if strings.Contains(trimmed, "Data file format") {
			inFormat = true
			continue
		}
		if inFormat {
			if trimmed == "" && len(columns) > 0 {
				inFormat = false
				continue
			}
			if m := nortekColumnRe.FindStringSubmatch(line); m != nil {
				name := normalizeColumnName(m[2])
				columns = append(columns, name)
				if m[3] != "" {
					units[name] = m[3]
				}
			}
			continue
		}
		if strings.HasPrefix(trimmed, "Instrument name") || strings.HasPrefix(trimmed, "Instrument type") {
			parts := strings.Fields(trimmed)
			if len(parts) > 2 {
				meta.Instrument = strings.Join(parts[2:], " ")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, err
	}
	if len(columns) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: header file declares no data columns", ErrMalformedInput)
	}
	return columns, units, meta, nil
}

// timeColumnIndices finds the month/day/year/hour/minute/second columns,
// in that order. Returns nil when any of them is missing.
func timeColumnIndices(columns []string) []int {
	wanted := []string{"Month", "Day", "Year", "Hour", "Minute", "Second"}
	idx := make([]int, len(wanted))
	for w, want := range wanted {
		idx[w] = -1
		for i, c := range columns {
			if c == want {
				idx[w] = i
				break
			}
		}
		if idx[w] < 0 {
			return nil
		}
	}
	return idx
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// normalizeColumnName collapses a header description like "Pressure" or
// "Velocity (Beam1)" into a single-token column name.
func normalizeColumnName(desc string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(desc)), "_")
}
