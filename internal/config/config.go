// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ReferenceLatitude is the fallback latitude in degrees north used for
	// pressure-to-depth conversion when a file carries no position.
	ReferenceLatitude float64 `koanf:"reference_latitude"`

	// SortVariables orders dataset variables alphabetically during
	// enrichment instead of keeping source order.
	SortVariables bool `koanf:"sort_variables"`

	// Conventions names the metadata convention stamped on outputs.
	Conventions string `koanf:"conventions"`

	// MetricsAddr configures the optional Prometheus listen address,
	// e.g. ":9090". Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		ReferenceLatitude: 0.0,
		SortVariables:     false,
		Conventions:       "CF-1.8",
		MetricsAddr:       "",
	}
}
