package readers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/okian/seacast/internal/domain/rawtable"
)

// rbrAsciiReader decodes RBR engineering ASCII exports: "key=value" metadata
// lines, a blank separator, a tab- or whitespace-separated column header whose
// first column is the timestamp, then data rows.
type rbrAsciiReader struct {
	path string
}

func newRbrAsciiReader(path string) *rbrAsciiReader {
	return &rbrAsciiReader{path: path}
}

func (r *rbrAsciiReader) Variant() string { return "RbrAsciiReader" }

func (r *rbrAsciiReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
	}
	meta := &rawtable.Metadata{}

	var columns []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Metadata block before the column header.
		if columns == nil && strings.Contains(trimmed, "=") && !strings.ContainsAny(trimmed, "\t") {
			key, value, _ := strings.Cut(trimmed, "=")
			if strings.TrimSpace(key) == "Model" {
				meta.Instrument = strings.TrimSpace(value)
			}
			continue
		}

		fields := splitRbrFields(trimmed)
		if columns == nil {
			columns = fields
			continue
		}

		// The timestamp may be split across date and time fields when the
		// export uses whitespace separation; rejoin by width.
		stampFields := len(fields) - (len(columns) - 1)
		if stampFields < 1 {
			return nil, nil, fmt.Errorf("%w: data row has %d fields, header declares %d columns",
				ErrMalformedInput, len(fields), len(columns))
		}
		stamp := strings.Join(fields[:stampFields], " ")
		t, err := dateparse.ParseAny(stamp)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: unparseable timestamp %q", ErrMalformedInput, stamp)
		}
		table.Times = append(table.Times, t.UTC())

		for i, field := range fields[stampFields:] {
			name := columns[i+1]
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: non-numeric value %q in column %s",
					ErrMalformedInput, field, name)
			}
			table.Numeric[name] = append(table.Numeric[name], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if columns == nil {
		return nil, nil, fmt.Errorf("%w: no column header found", ErrMalformedInput)
	}

	table.Columns = append(table.Columns, columns[1:]...)
	return table, meta, nil
}

// splitRbrFields splits on tabs when present, otherwise on whitespace.
func splitRbrFields(line string) []string {
	if strings.Contains(line, "\t") {
		parts := strings.Split(line, "\t")
		out := parts[:0]
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return strings.Fields(line)
}
