package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "seacast")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("custom"),
				WithRegistry(prometheus.NewRegistry()),
				WithEnabled(false),
			)

			Convey("Then the options apply", func() {
				So(manager.namespace, ShouldEqual, "custom")
				So(manager.enabled, ShouldBeFalse)
			})
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording ingestion events", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordIngest("sbe-cnv", 1200, 35*time.Millisecond)
					RecordIngestError("csv")
					RecordIngestError("")
					RecordDerivedVariables(3)
					RecordBadFlagSamples(17)
					RecordSubset(false)
					RecordSubset(true)
				}, ShouldNotPanic)
			})
		})

		Convey("When the metrics endpoint handler is requested", func() {
			Convey("Then a handler is returned", func() {
				So(Handler(), ShouldNotBeNil)
			})
		})
	})
}
