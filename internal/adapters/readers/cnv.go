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

// cnvReader decodes SeaBird CNV files: delimited text with an embedded
// metadata header (lines starting with * or #) terminated by *END*, followed
// by whitespace-separated numeric columns.
type cnvReader struct {
	path string
}

func newCnvReader(path string) *cnvReader {
	return &cnvReader{path: path}
}

func (r *cnvReader) Variant() string { return "SbeCnvReader" }

var (
	cnvNameRe     = regexp.MustCompile(`^#\s*name\s+(\d+)\s*=\s*([^:]+):\s*(.*)$`)
	cnvIntervalRe = regexp.MustCompile(`^#\s*interval\s*=\s*seconds:\s*([\d.]+)`)
	cnvStartRe    = regexp.MustCompile(`^#\s*start_time\s*=\s*([A-Za-z]{3} \d{1,2} \d{4} \d{2}:\d{2}:\d{2})`)
	cnvBadFlagRe  = regexp.MustCompile(`^#\s*bad_flag\s*=\s*(\S+)`)
	cnvLatRe      = regexp.MustCompile(`^\*\s*NMEA Latitude\s*=\s*(\d+)\s+([\d.]+)\s*([NS])`)
	cnvLonRe      = regexp.MustCompile(`^\*\s*NMEA Longitude\s*=\s*(\d+)\s+([\d.]+)\s*([EW])`)
	cnvUnitRe     = regexp.MustCompile(`^(.*?)\s*\[([^\]]*)\]\s*$`)
)

func (r *cnvReader) Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	table := &rawtable.Table{
		Numeric: make(map[string][]float64),
		Labels:  make(map[string]string),
		Units:   make(map[string]string),
	}
	meta := &rawtable.Metadata{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inHeader := true
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		line := strings.TrimRight(scanner.Text(), "\r")

		if inHeader {
			if strings.HasPrefix(line, "*END*") {
				inHeader = false
				continue
			}
			r.parseHeaderLine(line, table, meta)
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(table.Columns) {
			return nil, nil, fmt.Errorf("%w: data row has %d fields, header declares %d columns",
				ErrMalformedInput, len(fields), len(table.Columns))
		}
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: non-numeric value %q in column %s",
					ErrMalformedInput, field, table.Columns[i])
			}
			name := table.Columns[i]
			table.Numeric[name] = append(table.Numeric[name], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if inHeader {
		return nil, nil, fmt.Errorf("%w: missing *END* header terminator", ErrMalformedInput)
	}
	if len(table.Columns) == 0 {
		return nil, nil, fmt.Errorf("%w: header declares no columns", ErrMalformedInput)
	}
	return table, meta, nil
}

func (r *cnvReader) parseHeaderLine(line string, table *rawtable.Table, meta *rawtable.Metadata) {
	if m := cnvNameRe.FindStringSubmatch(line); m != nil {
		name := strings.TrimSpace(m[2])
		label := strings.TrimSpace(m[3])
		table.Columns = append(table.Columns, name)
		if um := cnvUnitRe.FindStringSubmatch(label); um != nil {
			table.Labels[name] = strings.TrimRight(strings.TrimSpace(um[1]), ",")
			table.Units[name] = um[2]
		} else {
			table.Labels[name] = label
		}
		return
	}
	if m := cnvIntervalRe.FindStringSubmatch(line); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			meta.SampleInterval = time.Duration(secs * float64(time.Second))
		}
		return
	}
	if m := cnvStartRe.FindStringSubmatch(line); m != nil {
		if t, err := time.Parse("Jan 2 2006 15:04:05", m[1]); err == nil {
			meta.ReferenceTime = t.UTC()
		}
		return
	}
	if m := cnvBadFlagRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			meta.BadFlag = &v
		}
		return
	}
	if m := cnvLatRe.FindStringSubmatch(line); m != nil {
		if v, ok := nmeaDegrees(m[1], m[2], m[3] == "S"); ok {
			meta.Latitude = &v
		}
		return
	}
	if m := cnvLonRe.FindStringSubmatch(line); m != nil {
		if v, ok := nmeaDegrees(m[1], m[2], m[3] == "W"); ok {
			meta.Longitude = &v
		}
		return
	}
	if strings.HasPrefix(line, "* Sea-Bird") && meta.Instrument == "" {
		meta.Instrument = strings.TrimSpace(strings.SplitN(strings.TrimPrefix(line, "* "), " Data File", 2)[0])
	}
}

// nmeaDegrees converts "54 10.50" degree/decimal-minute pairs to decimal
// degrees, negated for south/west.
func nmeaDegrees(degStr, minStr string, negative bool) (float64, bool) {
	deg, err1 := strconv.ParseFloat(degStr, 64)
	min, err2 := strconv.ParseFloat(minStr, 64)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	v := deg + min/60
	if negative {
		v = -v
	}
	return v, true
}
