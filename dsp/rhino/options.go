package rhino

import (
	"log/slog"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/unit"
)

// Option configures a GuitarProcessor at construction.
type Option func(*config)

type config struct {
	values       [numSlots]float64
	distType     float64
	rampDuration float64
	queue        *unit.Queue
	logger       *slog.Logger
	registry     *unit.Registry
}

func defaultConfig() config {
	return config{
		values: [numSlots]float64{
			slotPreGain:    DefaultPreGain,
			slotPostGain:   DefaultPostGain,
			slotLowGain:    DefaultLowGain,
			slotMidGain:    DefaultMidGain,
			slotHighGain:   DefaultHighGain,
			slotDistortion: DefaultDistortion,
		},
		distType:     DefaultDistType,
		rampDuration: core.DefaultRampDuration,
	}
}

// WithPreGain sets the gain applied before processing.
func WithPreGain(v float64) Option {
	return func(c *config) { c.values[slotPreGain] = v }
}

// WithPostGain sets the gain applied after processing.
func WithPostGain(v float64) Option {
	return func(c *config) { c.values[slotPostGain] = v }
}

// WithLowGain sets the amount of low frequencies.
func WithLowGain(v float64) Option {
	return func(c *config) { c.values[slotLowGain] = v }
}

// WithMidGain sets the amount of middle frequencies.
func WithMidGain(v float64) Option {
	return func(c *config) { c.values[slotMidGain] = v }
}

// WithHighGain sets the amount of high frequencies.
func WithHighGain(v float64) Option {
	return func(c *config) { c.values[slotHighGain] = v }
}

// WithDistortion sets the distortion amount.
func WithDistortion(v float64) Option {
	return func(c *config) { c.values[slotDistortion] = v }
}

// WithDistType selects the distortion curve. It can only be set here.
func WithDistType(v float64) Option {
	return func(c *config) { c.distType = v }
}

// WithRampDuration sets the parameter ramp time in seconds.
func WithRampDuration(seconds float64) Option {
	return func(c *config) {
		if seconds >= 0 {
			c.rampDuration = seconds
		}
	}
}

// WithQueue delivers parameter-tree notifications on q instead of
// unit.MainQueue().
func WithQueue(q *unit.Queue) Option {
	return func(c *config) { c.queue = q }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRegistry instantiates the unit from r instead of unit.Default.
func WithRegistry(r *unit.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithPreset starts from the values in p.
func WithPreset(p Preset) Option {
	return func(c *config) {
		c.values = p.values()
		c.distType = p.DistType
		if p.RampDuration >= 0 {
			c.rampDuration = p.RampDuration
		}
	}
}
