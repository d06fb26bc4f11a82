package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/seacast/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"SEACAST_CONFIG",
		"SEACAST_LOG_LEVEL",
		"SEACAST_REFERENCE_LATITUDE",
		"SEACAST_SORT_VARIABLES",
		"SEACAST_CONVENTIONS",
		"SEACAST_METRICS_ADDR",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	Convey("Given a config loader", t, func() {
		ctx := context.Background()

		Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should load successfully with defaults", func() {
				So(err, ShouldBeNil)
				So(cfg, ShouldNotBeNil)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.ReferenceLatitude, ShouldEqual, 0.0)
				So(cfg.SortVariables, ShouldBeFalse)
				So(cfg.Conventions, ShouldEqual, "CF-1.8")
				So(cfg.MetricsAddr, ShouldBeEmpty)
			})
		})

		Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SEACAST_LOG_LEVEL", "debug")
			_ = os.Setenv("SEACAST_REFERENCE_LATITUDE", "54.2")
			_ = os.Setenv("SEACAST_SORT_VARIABLES", "true")
			_ = os.Setenv("SEACAST_METRICS_ADDR", ":9090")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should override defaults with env vars", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.ReferenceLatitude, ShouldEqual, 54.2)
				So(cfg.SortVariables, ShouldBeTrue)
				So(cfg.MetricsAddr, ShouldEqual, ":9090")
			})
		})

		Convey("When loading config with a YAML file", func() {
			yamlContent := `
log_level: warn
reference_latitude: -33.5
conventions: CF-1.6
`
			tmpFile := filepath.Join(t.TempDir(), "seacast.yaml")
			So(os.WriteFile(tmpFile, []byte(yamlContent), 0o600), ShouldBeNil)

			_ = os.Setenv("SEACAST_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should load from the file", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "warn")
				So(cfg.ReferenceLatitude, ShouldEqual, -33.5)
				So(cfg.Conventions, ShouldEqual, "CF-1.6")
			})
		})

		Convey("When env vars layer on top of the file", func() {
			tmpFile := filepath.Join(t.TempDir(), "seacast.yaml")
			So(os.WriteFile(tmpFile, []byte("log_level: warn\n"), 0o600), ShouldBeNil)

			_ = os.Setenv("SEACAST_CONFIG", tmpFile)
			_ = os.Setenv("SEACAST_LOG_LEVEL", "error")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then the env var wins", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "error")
			})
		})

		Convey("When the reference latitude is out of range", func() {
			_ = os.Setenv("SEACAST_REFERENCE_LATITUDE", "120")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("SEACAST_CONFIG", "/nonexistent/seacast.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
