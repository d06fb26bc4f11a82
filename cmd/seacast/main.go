// Command seacast ingests oceanographic sensor files into canonical datasets
// and operates on them: convert to CSV, inspect contents, list supported
// formats, extract subsets, and compute parameter statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/okian/seacast/internal/adapters/writers"
	"github.com/okian/seacast/internal/app"
	"github.com/okian/seacast/internal/config"
	"github.com/okian/seacast/internal/domain/dataset"
	"github.com/okian/seacast/internal/domain/enrich"
	"github.com/okian/seacast/internal/domain/stats"
	"github.com/okian/seacast/internal/domain/subset"
	"github.com/okian/seacast/pkg/logger"
	"github.com/okian/seacast/pkg/metrics"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return 2
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	svc := app.New(ctx,
		app.WithLogger(logger.Get()),
		app.WithReferenceLatitude(cfg.ReferenceLatitude),
		app.WithEnricher(enrich.New(
			enrich.WithConventions(cfg.Conventions),
			enrich.WithSortedVariables(cfg.SortVariables),
		)),
	)

	var cmdErr error
	switch os.Args[1] {
	case "convert":
		cmdErr = runConvert(ctx, svc, os.Args[2:])
	case "show":
		cmdErr = runShow(ctx, svc, os.Args[2:])
	case "formats":
		cmdErr = runFormats(svc)
	case "subset":
		cmdErr = runSubset(ctx, svc, os.Args[2:])
	case "calc":
		cmdErr = runCalc(ctx, svc, os.Args[2:])
	default:
		usage()
		return 2
	}
	if cmdErr != nil {
		os.Stderr.WriteString("error: " + cmdErr.Error() + "\n")
		return 1
	}
	return 0
}

func usage() {
	os.Stderr.WriteString(`usage: seacast <command> [flags]

commands:
  convert   ingest a sensor file and write it as CSV
  show      ingest a sensor file and print a summary
  formats   list supported input formats
  subset    ingest a sensor file and extract a filtered subset
  calc      ingest a sensor file and compute a parameter statistic
`)
}

// mapFlag collects repeated canonical=raw assignments.
type mapFlag map[string]string

func (m mapFlag) String() string {
	pairs := make([]string, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (m mapFlag) Set(value string) error {
	k, v, found := strings.Cut(value, "=")
	if !found {
		return fmt.Errorf("mapping %q is not canonical=raw", value)
	}
	m[k] = v
	return nil
}

// ingestFlags registers the flags shared by every command reading a file.
func ingestFlags(fs *flag.FlagSet) (input, format, header *string, mapping mapFlag) {
	input = fs.String("i", "", "input file path (required)")
	format = fs.String("f", "", "format key, bypassing extension detection")
	header = fs.String("H", "", "separate header file (Nortek ASCII)")
	mapping = make(mapFlag)
	fs.Var(mapping, "m", "canonical=raw column mapping (repeatable)")
	return input, format, header, mapping
}

func ingest(ctx context.Context, svc *app.Service, input, format, header string, mapping mapFlag) (*dataset.Dataset, error) {
	if input == "" {
		return nil, fmt.Errorf("flag -i is required")
	}
	opts := []app.ReadOption{
		app.WithFormatKey(format),
		app.WithHeaderPath(header),
	}
	if len(mapping) > 0 {
		opts = append(opts, app.WithNameMapping(mapping))
	}
	return svc.Read(ctx, input, opts...)
}

func runConvert(ctx context.Context, svc *app.Service, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	input, format, header, mapping := ingestFlags(fs)
	output := fs.String("o", "", "output CSV path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("flag -o is required")
	}

	ds, err := ingest(ctx, svc, *input, *format, *header, mapping)
	if err != nil {
		return err
	}
	return writers.NewCsvWriter(ds).Write(*output)
}

func runShow(ctx context.Context, svc *app.Service, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	input, format, header, mapping := ingestFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, err := ingest(ctx, svc, *input, *format, *header, mapping)
	if err != nil {
		return err
	}
	printSummary(ds)
	return nil
}

func printSummary(ds *dataset.Dataset) {
	g := ds.Global()
	times := ds.Times()
	fmt.Printf("source:      %s (format %s, reader %s)\n", g.SourceFile, g.FormatKey, g.ReaderVariant)
	if g.Instrument != "" {
		fmt.Printf("instrument:  %s\n", g.Instrument)
	}
	if g.SchemaType != "" || g.SchemaVersion != "" {
		fmt.Printf("schema:      %s %s\n", g.SchemaType, g.SchemaVersion)
	}
	fmt.Printf("samples:     %d\n", ds.Len())
	fmt.Printf("time range:  %s .. %s\n",
		times[0].UTC().Format(time.RFC3339), times[len(times)-1].UTC().Format(time.RFC3339))
	if lat := ds.Latitude(); lat != nil {
		fmt.Printf("latitude:    %g\n", *lat)
	}
	if lon := ds.Longitude(); lon != nil {
		fmt.Printf("longitude:   %g\n", *lon)
	}
	fmt.Println("variables:")
	for _, name := range ds.VariableNames() {
		v, _ := ds.Variable(name)
		line := "  " + name
		if v.Attrs.Units != "" {
			line += " [" + v.Attrs.Units + "]"
		}
		if v.Attrs.MeasurementType != "" {
			line += " (" + strings.ToLower(v.Attrs.MeasurementType) + ")"
		}
		fmt.Println(line)
	}
	for _, name := range ds.TextColumnNames() {
		fmt.Printf("  %s (text)\n", name)
	}
}

func runFormats(svc *app.Service) error {
	for _, f := range svc.Formats() {
		ext := f.Extension
		if ext == "" {
			ext = "-"
		}
		fmt.Printf("%-16s %-6s %s\n", f.Key, ext, f.Name)
	}
	return nil
}

func runSubset(ctx context.Context, svc *app.Service, args []string) error {
	fs := flag.NewFlagSet("subset", flag.ExitOnError)
	input, format, header, mapping := ingestFlags(fs)
	output := fs.String("o", "", "output CSV path (required)")
	sampleMin := fs.Int("sample-min", -1, "minimum sample index (inclusive)")
	sampleMax := fs.Int("sample-max", -1, "maximum sample index (inclusive)")
	timeMin := fs.String("time-min", "", "minimum timestamp")
	timeMax := fs.String("time-max", "", "maximum timestamp")
	parameter := fs.String("parameter", "", "parameter the value bounds apply to")
	valueMin := fs.String("value-min", "", "minimum parameter value")
	valueMax := fs.String("value-max", "", "maximum parameter value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("flag -o is required")
	}

	var vMin, vMax *float64
	if *valueMin != "" {
		v, err := parseFloat(*valueMin)
		if err != nil {
			return fmt.Errorf("invalid value-min %q", *valueMin)
		}
		vMin = &v
	}
	if *valueMax != "" {
		v, err := parseFloat(*valueMax)
		if err != nil {
			return fmt.Errorf("invalid value-max %q", *valueMax)
		}
		vMax = &v
	}

	ds, err := ingest(ctx, svc, *input, *format, *header, mapping)
	if err != nil {
		return err
	}

	out, err := svc.Subset(ctx, ds, func(b *subset.Builder) {
		if *sampleMin >= 0 {
			b.SampleMin(*sampleMin)
		}
		if *sampleMax >= 0 {
			b.SampleMax(*sampleMax)
		}
		if *timeMin != "" {
			b.TimeMin(*timeMin)
		}
		if *timeMax != "" {
			b.TimeMax(*timeMax)
		}
		if *parameter != "" {
			b.ParameterName(*parameter)
		}
		if vMin != nil {
			b.ValueMin(*vMin)
		}
		if vMax != nil {
			b.ValueMax(*vMax)
		}
	})
	if err != nil {
		return err
	}
	return writers.NewCsvWriter(out).Write(*output)
}

func runCalc(ctx context.Context, svc *app.Service, args []string) error {
	fs := flag.NewFlagSet("calc", flag.ExitOnError)
	input, format, header, mapping := ingestFlags(fs)
	parameter := fs.String("p", "", "parameter to aggregate (required)")
	statistic := fs.String("s", "all", "statistic: min, max, mean, median, std, var, sum, all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *parameter == "" {
		return fmt.Errorf("flag -p is required")
	}

	ds, err := ingest(ctx, svc, *input, *format, *header, mapping)
	if err != nil {
		return err
	}

	p, err := stats.New(ds, *parameter)
	if err != nil {
		return err
	}
	all := map[string]float64{
		"min":    p.Min(),
		"max":    p.Max(),
		"mean":   p.Mean(),
		"median": p.Median(),
		"std":    p.Std(),
		"var":    p.Var(),
		"sum":    p.Sum(),
	}
	if *statistic == "all" {
		for _, name := range []string{"min", "max", "mean", "median", "std", "var", "sum"} {
			fmt.Printf("%-8s %g\n", name, all[name])
		}
		return nil
	}
	v, ok := all[*statistic]
	if !ok {
		return fmt.Errorf("unknown statistic %q", *statistic)
	}
	fmt.Printf("%g\n", v)
	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// serveMetrics exposes the Prometheus registry until the context ends.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Get().Error(ctx, "metrics server failed", logger.Error(err))
	}
}
