package readers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/seacast/internal/domain/rawtable"

	// Pure-Go SQLite driver for RSK containers.
	_ "modernc.org/sqlite"
)

// RSK containers are SQLite databases. Both schema variants store samples in
// a data table keyed by a millisecond Unix timestamp; they differ in how
// channels are described and how the data columns are named.

// openRsk opens the container read-only. The caller owns closing it.
func openRsk(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open rsk container: %w", err)
	}
	return db, nil
}

// readRskInfo reads the (type, version) record from the dbInfo table.
func readRskInfo(ctx context.Context, path string) (schemaType, schemaVersion string, err error) {
	db, err := openRsk(path)
	if err != nil {
		return "", "", err
	}
	defer db.Close()

	row := db.QueryRowContext(ctx, `SELECT type, version FROM dbInfo LIMIT 1`)
	if err := row.Scan(&schemaType, &schemaVersion); err != nil {
		return "", "", fmt.Errorf("%w: container has no readable dbInfo record: %v", ErrMalformedInput, err)
	}
	return schemaType, schemaVersion, nil
}

// rskReader handles the modern container schema: a channels table describing
// each sensor and ordinal channelNN columns in the data table.
type rskReader struct {
	path string
}

func newRskReader(path string) *rskReader {
	return &rskReader{path: path}
}

func (r *rskReader) Variant() string { return "RskReader" }

func (r *rskReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
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

	type channel struct {
		id        int
		shortName string
		units     string
	}
	rows, err := db.QueryContext(ctx,
		`SELECT channelID, shortName, units FROM channels ORDER BY channelID`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: channels table missing: %v", ErrMalformedInput, err)
	}
	var channels []channel
	for rows.Next() {
		var c channel
		if err := rows.Scan(&c.id, &c.shortName, &c.units); err != nil {
			rows.Close()
			return nil, nil, err
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()
	if len(channels) == 0 {
		return nil, nil, fmt.Errorf("%w: container declares no channels", ErrMalformedInput)
	}

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Units:   make(map[string]string),
	}
	query := `SELECT tstamp`
	for _, c := range channels {
		table.Columns = append(table.Columns, c.shortName)
		table.Units[c.shortName] = c.units
		query += fmt.Sprintf(", channel%02d", c.id)
	}
	query += ` FROM data ORDER BY tstamp`

	dataRows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: data table missing: %v", ErrMalformedInput, err)
	}
	defer dataRows.Close()

	scan := make([]any, len(channels)+1)
	var tstamp int64
	values := make([]sql.NullFloat64, len(channels))
	scan[0] = &tstamp
	for i := range values {
		scan[i+1] = &values[i]
	}
	for dataRows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if err := dataRows.Scan(scan...); err != nil {
			return nil, nil, err
		}
		table.Times = append(table.Times, time.UnixMilli(tstamp).UTC())
		for i, c := range channels {
			table.Numeric[c.shortName] = append(table.Numeric[c.shortName], nullToNaN(values[i]))
		}
	}
	if err := dataRows.Err(); err != nil {
		return nil, nil, err
	}
	return table, meta, nil
}

func rskInfoFrom(ctx context.Context, db *sql.DB) (string, string, error) {
	var schemaType, schemaVersion string
	row := db.QueryRowContext(ctx, `SELECT type, version FROM dbInfo LIMIT 1`)
	if err := row.Scan(&schemaType, &schemaVersion); err != nil {
		return "", "", fmt.Errorf("%w: container has no readable dbInfo record: %v", ErrMalformedInput, err)
	}
	return schemaType, schemaVersion, nil
}

func rskInstrument(ctx context.Context, db *sql.DB) (string, error) {
	var model string
	row := db.QueryRowContext(ctx, `SELECT model FROM instruments LIMIT 1`)
	if err := row.Scan(&model); err != nil {
		return "", err
	}
	return model, nil
}
