package canonical_test

import (
	"testing"

	"github.com/okian/seacast/internal/domain/canonical"
	"github.com/okian/seacast/internal/domain/params"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given a resolver over the default catalog", t, func() {
		r := canonical.NewResolver()

		Convey("When resolving typical SeaBird channel names", func() {
			mapping, err := r.Resolve([]string{"t090C", "sal00", "prdM"}, nil)

			Convey("Then each maps to its canonical parameter", func() {
				So(err, ShouldBeNil)
				So(mapping["t090C"], ShouldEqual, params.Temperature)
				So(mapping["sal00"], ShouldEqual, params.Salinity)
				So(mapping["prdM"], ShouldEqual, params.Pressure)
			})
		})

		Convey("When two sensors carry the same quantity", func() {
			mapping, err := r.Resolve([]string{"Temp", "Temp_2", "Press"}, nil)

			Convey("Then the family is numbered in first-seen order", func() {
				So(err, ShouldBeNil)
				So(mapping["Temp"], ShouldEqual, "temperature_1")
				So(mapping["Temp_2"], ShouldEqual, "temperature_2")
			})

			Convey("And a singleton family keeps its bare name", func() {
				So(mapping["Press"], ShouldEqual, params.Pressure)
			})
		})

		Convey("When a column matches nothing", func() {
			mapping, err := r.Resolve([]string{"Vbatt", "t090C"}, nil)

			Convey("Then it maps to itself", func() {
				So(err, ShouldBeNil)
				So(mapping["Vbatt"], ShouldEqual, "Vbatt")
			})
		})

		Convey("When resolving the same columns twice", func() {
			first, err1 := r.Resolve([]string{"Temp", "Temp3", "Cond"}, nil)
			second, err2 := r.Resolve([]string{"Temp", "Temp3", "Cond"}, nil)

			Convey("Then the result is deterministic", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When an alias carries a numeric suffix without underscore", func() {
			mapping, err := r.Resolve([]string{"Temp3"}, nil)

			Convey("Then it still matches the family", func() {
				So(err, ShouldBeNil)
				So(mapping["Temp3"], ShouldEqual, params.Temperature)
			})
		})
	})
}

func TestResolveOverrides(t *testing.T) {
	Convey("Given a resolver over the default catalog", t, func() {
		r := canonical.NewResolver()

		Convey("When an override claims a raw column", func() {
			mapping, err := r.Resolve([]string{"weird_temp", "sal00"},
				map[string]string{params.Temperature: "weird_temp"})

			Convey("Then the override wins", func() {
				So(err, ShouldBeNil)
				So(mapping["weird_temp"], ShouldEqual, params.Temperature)
				So(mapping["sal00"], ShouldEqual, params.Salinity)
			})
		})

		Convey("When an override key is not a canonical parameter", func() {
			_, err := r.Resolve([]string{"x"}, map[string]string{"warmness": "x"})

			Convey("Then resolution fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "warmness")
			})
		})

		Convey("When an override value is empty", func() {
			_, err := r.Resolve([]string{"x"}, map[string]string{params.Temperature: ""})

			Convey("Then resolution fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestResolveCatalogOrder(t *testing.T) {
	Convey("Given a custom catalog where two families share an alias prefix", t, func() {
		catalog := []params.Alias{
			{Canonical: "alpha", Raw: []string{"X"}},
			{Canonical: "beta", Raw: []string{"X"}},
		}
		r := canonical.NewResolver(canonical.WithCatalog(catalog))

		Convey("When resolving the ambiguous raw name", func() {
			mapping, err := r.Resolve([]string{"X"}, nil)

			Convey("Then the earlier catalog entry wins", func() {
				So(err, ShouldBeNil)
				So(mapping["X"], ShouldEqual, "alpha")
			})
		})
	})
}
