package readers

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/araddon/dateparse"
	"github.com/okian/seacast/internal/domain/rawtable"
)

// csvReader decodes comma-separated files with a header row. A "time" column
// holding parseable timestamps becomes the time axis; remaining columns are
// numeric, or carried as text when not parseable.
type csvReader struct {
	path string
}

func newCsvReader(path string) *csvReader {
	return &csvReader{path: path}
}

func (r *csvReader) Variant() string { return "CsvReader" }

func (r *csvReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: need a header row and at least one data row", ErrMalformedInput)
	}

	header := records[0]
	rows := records[1:]

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Text:    make(map[string][]string),
	}
	meta := &rawtable.Metadata{}

	timeCol := -1
	for i, name := range header {
		if name == "time" {
			timeCol = i
			continue
		}
		table.Columns = append(table.Columns, name)
	}

	// Classify each column on its first value: numeric or passthrough text.
	numeric := make(map[string]bool, len(header))
	for i, name := range header {
		if i == timeCol {
			continue
		}
		_, err := strconv.ParseFloat(rows[0][i], 64)
		numeric[name] = err == nil
	}

	for rowIdx, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if len(row) != len(header) {
			return nil, nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrMalformedInput, rowIdx+2, len(row), len(header))
		}
		for i, field := range row {
			name := header[i]
			if i == timeCol {
				t, err := dateparse.ParseAny(field)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: unparseable time %q at row %d",
						ErrMalformedInput, field, rowIdx+2)
				}
				table.Times = append(table.Times, t.UTC())
				continue
			}
			if numeric[name] {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: non-numeric value %q in column %s",
						ErrMalformedInput, field, name)
				}
				table.Numeric[name] = append(table.Numeric[name], v)
			} else {
				table.Text[name] = append(table.Text[name], field)
			}
		}
	}
	return table, meta, nil
}
