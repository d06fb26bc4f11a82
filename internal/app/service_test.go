package app_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/seacast/internal/adapters/readers"
	"github.com/okian/seacast/internal/app"
	"github.com/okian/seacast/internal/domain/params"
	"github.com/okian/seacast/internal/domain/subset"
	"github.com/okian/seacast/internal/domain/timeaxis"
	"github.com/okian/seacast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const cnvFixture = `* Sea-Bird SBE 9 Data File:
* NMEA Latitude = 54 10.50 N
* NMEA Longitude = 010 08.40 E
# name 0 = t090C: Temperature [ITS-90, deg C]
# name 1 = sal00: Salinity, Practical [PSU]
# name 2 = prdM: Pressure, Digiquartz [db]
# name 3 = timeJ: Julian Days
# start_time = Mar 01 2023 10:00:00
# bad_flag = -9.990e-29
*END*
      8.1000   35.200    10.200    60.500
 -9.990e-29   35.300    10.300    60.600
      8.3000   35.400    10.400    60.700
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCnv(t *testing.T) {
	Convey("Given the ingestion service and a CNV cast", t, func() {
		ctx := context.Background()
		svc := app.New(ctx)
		path := writeFixture(t, "cast.cnv", cnvFixture)

		Convey("When ingesting the file", func() {
			ds, err := svc.Read(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then column names are canonicalized", func() {
				So(ds.HasVariable(params.Temperature), ShouldBeTrue)
				So(ds.HasVariable(params.Salinity), ShouldBeTrue)
				So(ds.HasVariable(params.Pressure), ShouldBeTrue)
			})

			Convey("And the time encoding column does not survive as data", func() {
				So(ds.HasVariable(params.TimeJulianDays), ShouldBeFalse)
				So(ds.HasVariable("timeJ"), ShouldBeFalse)
			})

			Convey("And the time axis comes from the julian day offsets", func() {
				So(ds.Len(), ShouldEqual, 3)
				So(ds.Times()[0], ShouldEqual, time.Date(2023, 3, 2, 12, 0, 0, 0, time.UTC))
			})

			Convey("And bad-flag sentinels become NaN", func() {
				v, _ := ds.Variable(params.Temperature)
				So(math.IsNaN(v.Values[1]), ShouldBeTrue)
				So(v.Values[0], ShouldEqual, 8.1)
				So(v.Values[2], ShouldEqual, 8.3)
			})

			Convey("And derived quantities are appended", func() {
				So(ds.HasVariable(params.Depth), ShouldBeTrue)
				So(ds.HasVariable(params.Density), ShouldBeTrue)
				So(ds.HasVariable(params.PotentialTemperature), ShouldBeTrue)

				depth, _ := ds.Variable(params.Depth)
				So(depth.Values[0], ShouldBeLessThan, 0)
				So(depth.Attrs.MeasurementType, ShouldEqual, params.TypeDerived)
			})

			Convey("And every variable is aligned to the axis", func() {
				for _, name := range ds.VariableNames() {
					v, _ := ds.Variable(name)
					So(v.Values, ShouldHaveLength, ds.Len())
				}
				So(ds.Validate(), ShouldBeNil)
			})

			Convey("And the geolocation and provenance are attached", func() {
				So(ds.Latitude(), ShouldNotBeNil)
				So(*ds.Latitude(), ShouldAlmostEqual, 54.175, 1e-9)
				g := ds.Global()
				So(g.FormatKey, ShouldEqual, readers.KeySbeCnv)
				So(g.ReaderVariant, ShouldEqual, "SbeCnvReader")
				So(g.Instrument, ShouldEqual, "Sea-Bird SBE 9")
				So(g.ID, ShouldNotBeEmpty)
				So(g.History, ShouldContainSubstring, path)
			})

			Convey("And reader units are kept on the variables", func() {
				v, _ := ds.Variable(params.Temperature)
				So(v.Attrs.Units, ShouldEqual, "ITS-90, deg C")
			})
		})
	})
}

func TestReadCsv(t *testing.T) {
	Convey("Given the ingestion service and a CSV file", t, func() {
		ctx := context.Background()
		svc := app.New(ctx)
		path := writeFixture(t, "data.csv",
			"time,Temp,Press,quality\n"+
				"2023-03-01T10:00:00Z,8.1,10.2,good\n"+
				"2023-03-01T10:00:10Z,8.2,10.3,bad\n")

		Convey("When ingesting the file", func() {
			ds, err := svc.Read(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then absolute timestamps become the axis", func() {
				So(ds.Times()[0], ShouldEqual, time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC))
			})

			Convey("And text columns pass through", func() {
				txt, ok := ds.TextColumn("quality")
				So(ok, ShouldBeTrue)
				So(txt, ShouldResemble, []string{"good", "bad"})
			})

			Convey("And a subset query composes with ingestion", func() {
				out, err := svc.Subset(ctx, ds, func(b *subset.Builder) {
					b.SampleMin(1)
				})
				So(err, ShouldBeNil)
				So(out.Len(), ShouldEqual, 1)
			})
		})

		Convey("When an explicit mapping override is supplied", func() {
			ds, err := svc.Read(ctx, path,
				app.WithNameMapping(map[string]string{params.Oxygen: "Temp"}))

			Convey("Then the override claims the raw column", func() {
				So(err, ShouldBeNil)
				So(ds.HasVariable(params.Oxygen), ShouldBeTrue)
				So(ds.HasVariable(params.Temperature), ShouldBeFalse)
			})
		})

		Convey("When an override key is not canonical", func() {
			_, err := svc.Read(ctx, path,
				app.WithNameMapping(map[string]string{"warmness": "Temp"}))

			Convey("Then ingestion fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestReadFailures(t *testing.T) {
	Convey("Given the ingestion service", t, func() {
		ctx := context.Background()
		svc := app.New(ctx)

		Convey("When the file has neither pressure nor depth", func() {
			path := writeFixture(t, "nopress.csv",
				"time,Temp\n2023-03-01T10:00:00Z,8.1\n")
			_, err := svc.Read(ctx, path)

			Convey("Then the required-parameter rule rejects it", func() {
				So(errors.Is(err, app.ErrMissingRequiredParameter), ShouldBeTrue)
			})
		})

		Convey("When a julian day column arrives without a start_time header", func() {
			path := writeFixture(t, "noref.cnv",
				"* Sea-Bird SBE 9 Data File:\n"+
					"# name 0 = prdM: Pressure, Digiquartz [db]\n"+
					"# name 1 = timeJ: Julian Days\n"+
					"*END*\n"+
					"   10.200    60.500\n"+
					"   10.300    60.600\n")
			_, err := svc.Read(ctx, path)

			Convey("Then ingestion fails instead of anchoring at year 1", func() {
				So(errors.Is(err, timeaxis.ErrMissingTimeReference), ShouldBeTrue)
			})
		})

		Convey("When the format key is unknown", func() {
			_, err := svc.Read(ctx, "cast.cnv", app.WithFormatKey("sbe-xyz"))

			Convey("Then dispatch fails", func() {
				So(errors.Is(err, readers.ErrUnsupportedFormat), ShouldBeTrue)
			})
		})

		Convey("When the extension is not registered", func() {
			_, err := svc.Read(ctx, "cast.dat")
			So(errors.Is(err, readers.ErrUnsupportedFormat), ShouldBeTrue)
		})
	})
}

func TestFormats(t *testing.T) {
	Convey("Given the ingestion service", t, func() {
		svc := app.New(context.Background())

		Convey("Then the format listing is exposed", func() {
			formats := svc.Formats()
			So(len(formats), ShouldBeGreaterThanOrEqualTo, 10)
		})
	})
}
