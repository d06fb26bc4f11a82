package readers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/seacast/internal/domain/rawtable"
)

// tobReader decodes Sea & Sun TOB exports: a comment header (lines starting
// with ';'), a column-name line introduced by "; Datasets", an optional
// bracketed units line, then whitespace-separated data rows. The IntD and
// IntT columns carry the absolute date and time of each sample.
type tobReader struct {
	path string
}

func newTobReader(path string) *tobReader {
	return &tobReader{path: path}
}

func (r *tobReader) Variant() string { return "SeasunTobReader" }

func (r *tobReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Units:   make(map[string]string),
	}
	meta := &rawtable.Metadata{}

	var columns []string
	dateCol, timeCol := -1, -1

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

		if strings.HasPrefix(trimmed, ";") {
			body := strings.TrimSpace(strings.TrimPrefix(trimmed, ";"))
			fields := strings.Fields(body)
			switch {
			case len(fields) > 0 && fields[0] == "Datasets":
				columns = fields
				for i, c := range columns {
					switch c {
					case "IntD":
						dateCol = i
					case "IntT":
						timeCol = i
					}
				}
			case len(fields) > 0 && strings.HasPrefix(fields[0], "[") && columns != nil:
				// units line, aligned with the column names
				for i, u := range fields {
					if i < len(columns) {
						table.Units[columns[i]] = strings.Trim(u, "[]")
					}
				}
			case strings.HasPrefix(body, "Instrument"):
				if _, after, found := strings.Cut(body, ":"); found {
					meta.Instrument = strings.TrimSpace(after)
				}
			}
			continue
		}

		if columns == nil {
			return nil, nil, fmt.Errorf("%w: data before column header", ErrMalformedInput)
		}
		fields := strings.Fields(trimmed)
		if len(fields) != len(columns) {
			return nil, nil, fmt.Errorf("%w: data row has %d fields, header declares %d",
				ErrMalformedInput, len(fields), len(columns))
		}

		if dateCol >= 0 && timeCol >= 0 {
			t, err := time.Parse("02.01.2006 15:04:05", fields[dateCol]+" "+fields[timeCol])
			if err != nil {
				return nil, nil, fmt.Errorf("%w: unparseable timestamp %q %q",
					ErrMalformedInput, fields[dateCol], fields[timeCol])
			}
			table.Times = append(table.Times, t.UTC())
		}

		for i, field := range fields {
			if i == dateCol || i == timeCol {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: non-numeric value %q in column %s",
					ErrMalformedInput, field, columns[i])
			}
			table.Numeric[columns[i]] = append(table.Numeric[columns[i]], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if columns == nil {
		return nil, nil, fmt.Errorf("%w: no column header found", ErrMalformedInput)
	}
	if dateCol < 0 || timeCol < 0 {
		return nil, nil, fmt.Errorf("%w: IntD/IntT timestamp columns missing", ErrMalformedInput)
	}

	for i, c := range columns {
		if i == dateCol || i == timeCol {
			continue
		}
		table.Columns = append(table.Columns, c)
	}
	return table, meta, nil
}
