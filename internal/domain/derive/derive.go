// Package derive computes physically derived variables from the measured
// canonical variables: depth from pressure, and density and potential
// temperature from salinity, temperature and pressure.
//
// Each rule is gated on the availability of its inputs and never overwrites
// a variable that was measured directly.
package derive

import (
	"math"

	"github.com/okian/seacast/internal/domain/params"
	"github.com/okian/seacast/internal/domain/seawater"
)

// DefaultReferenceLatitude is used for the pressure-to-depth conversion when
// the file supplies no geolocation at all. Zero degrees is the documented
// fallback: the equatorial gravity value.
const DefaultReferenceLatitude = 0.0

// Engine computes derived quantities over a canonical variable map.
type Engine struct {
	refLatitude float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithReferenceLatitude sets the fallback latitude for depth conversion.
func WithReferenceLatitude(lat float64) Option {
	return func(e *Engine) {
		if lat >= -90 && lat <= 90 {
			e.refLatitude = lat
		}
	}
}

// NewEngine creates an Engine with default configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{refLatitude: DefaultReferenceLatitude}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Augment adds derived variables to vars in place and returns the canonical
// names it added, in a fixed order. latitude is the file-declared scalar
// latitude, nil if absent.
func (e *Engine) Augment(vars map[string][]float64, latitude *float64) []string {
	var added []string

	if pressure, ok := vars[params.Pressure]; ok {
		if _, exists := vars[params.Depth]; !exists {
			lat := e.latitudeFor(vars, latitude)
			depth := make([]float64, len(pressure))
			for i, p := range pressure {
				depth[i] = seawater.ZFromPressure(p, lat)
			}
			vars[params.Depth] = depth
			added = append(added, params.Depth)
		}
	}

	salinity, hasSal := vars[params.Salinity]
	temperature, hasTemp := vars[params.Temperature]
	pressure, hasPress := vars[params.Pressure]
	if hasSal && hasTemp && hasPress {
		n := len(salinity)
		if _, exists := vars[params.Density]; !exists {
			density := make([]float64, n)
			for i := 0; i < n; i++ {
				density[i] = seawater.Rho(salinity[i], temperature[i], pressure[i])
			}
			vars[params.Density] = density
			added = append(added, params.Density)
		}
		if _, exists := vars[params.PotentialTemperature]; !exists {
			theta := make([]float64, n)
			for i := 0; i < n; i++ {
				theta[i] = seawater.Theta0(salinity[i], temperature[i], pressure[i])
			}
			vars[params.PotentialTemperature] = theta
			added = append(added, params.PotentialTemperature)
		}
	}

	return added
}

// latitudeFor picks the latitude for depth conversion: the file-declared
// scalar wins, then the first finite sample of a latitude column, then the
// configured fallback.
func (e *Engine) latitudeFor(vars map[string][]float64, latitude *float64) float64 {
	if latitude != nil {
		return *latitude
	}
	if col, ok := vars[params.Latitude]; ok {
		for _, v := range col {
			if !math.IsNaN(v) {
				return v
			}
		}
	}
	return e.refLatitude
}
