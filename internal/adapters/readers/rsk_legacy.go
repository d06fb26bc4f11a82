package readers

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/okian/seacast/internal/domain/rawtable"
)

// rskLegacyReader handles pre-2.0 container schemas by querying the data
// table directly: the column set is discovered from the table itself rather
// than from a channel description table, which old containers lack or fill
// inconsistently.
type rskLegacyReader struct {
	path string
}

func newRskLegacyReader(path string) *rskLegacyReader {
	return &rskLegacyReader{path: path}
}

func (r *rskLegacyReader) Variant() string { return "RskLegacyReader" }

func (r *rskLegacyReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	db, err := openRsk(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	meta := &rawtable.Metadata{}
	meta.SchemaType, meta.SchemaVersion, err = rskInfoFrom(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	if model, err := rskInstrument(ctx, db); err == nil {
		meta.Instrument = model
	}

	rows, err := db.QueryContext(ctx, `SELECT * FROM data ORDER BY tstamp`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: data table missing: %v", ErrMalformedInput, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	tstampIdx := -1
	for i, c := range cols {
		if c == "tstamp" {
			tstampIdx = i
			continue
		}
	}
	if tstampIdx < 0 {
		return nil, nil, fmt.Errorf("%w: data table has no tstamp column", ErrMalformedInput)
	}

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
	}
	for i, c := range cols {
		if i == tstampIdx {
			continue
		}
		table.Columns = append(table.Columns, c)
	}

	scan := make([]any, len(cols))
	var tstamp int64
	values := make([]sql.NullFloat64, len(cols))
	for i := range cols {
		if i == tstampIdx {
			scan[i] = &tstamp
		} else {
			scan[i] = &values[i]
		}
	}
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, nil, err
		}
		table.Times = append(table.Times, time.UnixMilli(tstamp).UTC())
		for i, c := range cols {
			if i == tstampIdx {
				continue
			}
			table.Numeric[c] = append(table.Numeric[c], nullToNaN(values[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return table, meta, nil
}

// nullToNaN maps SQL NULL samples onto the missing-value marker.
func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
