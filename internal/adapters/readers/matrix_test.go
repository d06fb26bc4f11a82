package readers

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSniffExporter(t *testing.T) {
	Convey("Given archive key sets", t, func() {
		Convey("When exactly the WinADCP keys are present", func() {
			exporter, err := sniffExporter([]string{
				"SerYear", "SerMon", "SerDay", "SerHour", "SerMin", "SerSec",
				"SerEmmpersec", "SerNmmpersec",
			})

			Convey("Then the WinADCP exporter matches", func() {
				So(err, ShouldBeNil)
				So(exporter.name, ShouldEqual, "winadcp")
			})
		})

		Convey("When the burst-export keys are present", func() {
			exporter, err := sniffExporter([]string{"Burst_Time", "Burst_Pressure", "Burst_VelBeam1"})

			Convey("Then the signature exporter matches", func() {
				So(err, ShouldBeNil)
				So(exporter.name, ShouldEqual, "signature-export")
			})
		})

		Convey("When no known key set is present", func() {
			_, err := sniffExporter([]string{"foo", "bar"})

			Convey("Then sniffing fails", func() {
				So(errors.Is(err, ErrAmbiguousFormat), ShouldBeTrue)
			})
		})

		Convey("When both exporters' key sets are present", func() {
			_, err := sniffExporter([]string{
				"SerYear", "SerMon", "SerDay", "SerHour", "SerMin", "SerSec",
				"Burst_Time", "Burst_Pressure",
			})

			Convey("Then sniffing refuses to guess", func() {
				So(errors.Is(err, ErrAmbiguousFormat), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "winadcp")
				So(err.Error(), ShouldContainSubstring, "signature-export")
			})
		})
	})
}

func TestWinadcpTimes(t *testing.T) {
	Convey("Given WinADCP per-ensemble date fields", t, func() {
		arrays := map[string][]float64{
			"SerYear": {23, 23},
			"SerMon":  {3, 3},
			"SerDay":  {15, 15},
			"SerHour": {10, 10},
			"SerMin":  {30, 30},
			"SerSec":  {0, 10},
		}

		Convey("When building the time axis", func() {
			out, err := winadcpTimes(arrays)

			Convey("Then two-digit years are relative to 2000", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldEqual, time.Date(2023, 3, 15, 10, 30, 0, 0, time.UTC))
				So(out[1], ShouldEqual, time.Date(2023, 3, 15, 10, 30, 10, 0, time.UTC))
			})
		})

		Convey("When the field lengths disagree", func() {
			arrays["SerSec"] = []float64{0}
			_, err := winadcpTimes(arrays)

			Convey("Then building fails", func() {
				So(errors.Is(err, ErrMalformedInput), ShouldBeTrue)
			})
		})
	})
}

func TestSignatureTimes(t *testing.T) {
	Convey("Given burst timestamps in seconds since the epoch", t, func() {
		out, err := signatureTimes(map[string][]float64{
			"Burst_Time": {1678876200, 1678876210.5},
		})

		Convey("Then they become absolute timestamps", func() {
			So(err, ShouldBeNil)
			So(out[0], ShouldEqual, time.Unix(1678876200, 0).UTC())
			So(out[1], ShouldEqual, time.Unix(1678876210, 500000000).UTC())
		})
	})
}
