// Package writers contains output encoders for canonical datasets. These are
// downstream consumers of the pipeline: they need no knowledge of how a
// dataset was built.
package writers

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/okian/seacast/internal/domain/dataset"
)

// CsvWriter serializes a dataset as comma-separated values: a time column in
// RFC 3339 followed by every variable and text column in listing order.
type CsvWriter struct {
	ds *dataset.Dataset
}

// NewCsvWriter creates a CsvWriter for the dataset.
func NewCsvWriter(ds *dataset.Dataset) *CsvWriter {
	return &CsvWriter{ds: ds}
}

// Write writes the dataset to the given path.
func (w *CsvWriter) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	varNames := w.ds.VariableNames()
	textNames := w.ds.TextColumnNames()

	header := append([]string{"time"}, varNames...)
	header = append(header, textNames...)
	if err := cw.Write(header); err != nil {
		return err
	}

	times := w.ds.Times()
	row := make([]string, len(header))
	for i := range times {
		row[0] = times[i].UTC().Format(time.RFC3339Nano)
		col := 1
		for _, name := range varNames {
			v, _ := w.ds.Variable(name)
			row[col] = strconv.FormatFloat(v.Values[i], 'g', -1, 64)
			col++
		}
		for _, name := range textNames {
			v, _ := w.ds.TextColumn(name)
			row[col] = v[i]
			col++
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
