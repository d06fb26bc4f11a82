package params_test

import (
	"testing"

	"github.com/okian/seacast/internal/domain/params"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBaseName(t *testing.T) {
	Convey("Given names with and without multiplicity suffixes", t, func() {
		Convey("Then suffixed names reduce to their base", func() {
			So(params.BaseName("temperature_2"), ShouldEqual, "temperature")
			So(params.BaseName("oxygen_12"), ShouldEqual, "oxygen")
		})

		Convey("And plain names pass through unchanged", func() {
			So(params.BaseName("temperature"), ShouldEqual, "temperature")
			So(params.BaseName("depth"), ShouldEqual, "depth")
		})

		Convey("And trailing digits without an underscore are kept", func() {
			So(params.BaseName("o2"), ShouldEqual, "o2")
		})
	})
}

func TestLookup(t *testing.T) {
	Convey("Given the parameter metadata table", t, func() {
		Convey("When looking up a known parameter", func() {
			m, ok := params.Lookup(params.Temperature)

			Convey("Then its metadata is returned", func() {
				So(ok, ShouldBeTrue)
				So(m.StandardName, ShouldEqual, "sea_water_temperature")
				So(m.MeasurementType, ShouldEqual, params.TypeMeasured)
			})
		})

		Convey("When looking up a deduplicated name", func() {
			m, ok := params.Lookup("temperature_2")

			Convey("Then the base parameter's metadata is returned", func() {
				So(ok, ShouldBeTrue)
				So(m.StandardName, ShouldEqual, "sea_water_temperature")
			})
		})

		Convey("When looking up an unknown name", func() {
			_, ok := params.Lookup("flux_capacitance")

			Convey("Then nothing is found", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestAllowed(t *testing.T) {
	Convey("Given the allowed override targets", t, func() {
		allowed := params.Allowed()

		Convey("Then the core parameters are present", func() {
			So(allowed, ShouldContainKey, params.Temperature)
			So(allowed, ShouldContainKey, params.Salinity)
			So(allowed, ShouldContainKey, params.Pressure)
			So(allowed, ShouldContainKey, params.Depth)
		})

		Convey("And derived-only parameters are not override targets", func() {
			So(allowed, ShouldNotContainKey, params.Density)
			So(allowed, ShouldNotContainKey, params.PotentialTemperature)
		})
	})
}

func TestIsTimeEncoding(t *testing.T) {
	Convey("Given canonical names", t, func() {
		Convey("Then time encodings are recognized", func() {
			So(params.IsTimeEncoding(params.TimeJulianDays), ShouldBeTrue)
			So(params.IsTimeEncoding(params.TimeSince2000), ShouldBeTrue)
			So(params.IsTimeEncoding(params.TimeSinceEpoch), ShouldBeTrue)
			So(params.IsTimeEncoding(params.TimeSinceOffset), ShouldBeTrue)
			So(params.IsTimeEncoding(params.Time), ShouldBeTrue)
		})

		Convey("And data parameters are not", func() {
			So(params.IsTimeEncoding(params.Temperature), ShouldBeFalse)
			So(params.IsTimeEncoding(params.Depth), ShouldBeFalse)
		})
	})
}
