// Package config collects the enumerated configuration surface into a
// functional-options Config, in the same style as a GraphOption /
// BuilderOption pattern: a zero-value-sane struct built by applying
// Option values left to right.
package config

import "github.com/qss-go/qss/kinds"

// Config holds the simulation-wide settings. driver.Simulate reads only
// TEnd and DtOut. Method, RTol, ATol, ZTol and DtMax are not applied to
// variables automatically: model.Model.NewVariable takes the method and
// tolerances explicitly, and zTol/dtMax come only from the per-variable
// options model.WithZTol/model.WithDtMax.
type Config struct {
	// Method is the default method for QSS-kind variables built without an
	// explicit per-variable method.
	Method kinds.Method

	// RTol, ATol are the default relative/absolute tolerances.
	RTol, ATol float64

	// ZTol is the default crossing-value tolerance for zero-crossing
	// variables.
	ZTol float64

	// TEnd is the simulation horizon.
	TEnd float64

	// DtOut is the output sample period; 0 disables periodic output.
	DtOut float64

	// DtMax bounds the event step of Input variables.
	DtMax float64
}

// Option configures a Config during construction.
type Option func(*Config)

// Default returns the documented defaults: QSS2, rTol=1e-4, aTol=1e-6,
// zTol=1e-6, dtMax=1.0, TEnd=0 (a horizon at t=0, so Simulate processes no
// event unless WithHorizon sets one), no periodic output.
func Default() Config {
	return Config{
		Method: kinds.QSS2,
		RTol: 1.0e-4,
		ATol: 1.0e-6,
		ZTol: 1.0e-6,
		DtMax: 1.0,
	}
}

// New builds a Config starting from Default() and applying opts in order.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMethod sets the default QSS method (QSS1/QSS2/QSS3/LIQSS1/LIQSS2).
func WithMethod(m kinds.Method) Option {
	return func(c *Config) { c.Method = m }
}

// WithTolerances sets the default relative/absolute tolerances.
func WithTolerances(rTol, aTol float64) Option {
	return func(c *Config) { c.RTol, c.ATol = rTol, aTol }
}

// WithZTol sets the default zero-crossing value tolerance.
func WithZTol(zTol float64) Option {
	return func(c *Config) { c.ZTol = zTol }
}

// WithHorizon sets the simulation end time tEnd.
func WithHorizon(tEnd float64) Option {
	return func(c *Config) { c.TEnd = tEnd }
}

// WithOutputPeriod sets the periodic output sample period dtOut; 0 disables
// periodic output entirely.
func WithOutputPeriod(dtOut float64) Option {
	return func(c *Config) { c.DtOut = dtOut }
}

// WithInputDtMax bounds the event step of Input variables.
func WithInputDtMax(dtMax float64) Option {
	return func(c *Config) { c.DtMax = dtMax }
}
