package readers

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCsvRead(t *testing.T) {
	Convey("Given a CSV file with time, numeric and text columns", t, func() {
		path := writeFixture(t, "data.csv",
			"time,temperature,salinity,quality\n"+
				"2023-03-01T10:00:00Z,8.1,35.2,good\n"+
				"2023-03-01T10:00:10Z,8.2,35.3,bad\n")
		table, _, err := newCsvReader(path).Read(context.Background())

		Convey("Then the time column becomes the axis", func() {
			So(err, ShouldBeNil)
			So(table.Times, ShouldHaveLength, 2)
			So(table.Times[0], ShouldEqual, time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC))
		})

		Convey("And the remaining columns keep on-disk order", func() {
			So(table.Columns, ShouldResemble, []string{"temperature", "salinity", "quality"})
		})

		Convey("And columns are classified on their first value", func() {
			So(table.Numeric["temperature"], ShouldResemble, []float64{8.1, 8.2})
			So(table.Text["quality"], ShouldResemble, []string{"good", "bad"})
		})
	})

	Convey("Given malformed CSV inputs", t, func() {
		ctx := context.Background()

		Convey("When a file has no data rows", func() {
			path := writeFixture(t, "headeronly.csv", "time,temperature\n")
			_, _, err := newCsvReader(path).Read(ctx)
			So(errors.Is(err, ErrMalformedInput), ShouldBeTrue)
		})

		Convey("When a timestamp is unparseable", func() {
			path := writeFixture(t, "badtime.csv",
				"time,temperature\nnot-a-time,8.1\n")
			_, _, err := newCsvReader(path).Read(ctx)
			So(errors.Is(err, ErrMalformedInput), ShouldBeTrue)
		})

		Convey("When a numeric column turns non-numeric mid-file", func() {
			path := writeFixture(t, "mixed.csv",
				"time,temperature\n2023-03-01T10:00:00Z,8.1\n2023-03-01T10:00:10Z,oops\n")
			_, _, err := newCsvReader(path).Read(ctx)
			So(errors.Is(err, ErrMalformedInput), ShouldBeTrue)
		})
	})
}
