// Package core holds the processing configuration and numeric helpers shared
// by the unit host, the guitar processor node and the amp unit.
package core

import (
	"errors"
	"fmt"
	"math"
)

// DefaultRampDuration is the host-wide parameter ramp time in seconds.
const DefaultRampDuration = 0.0002

var errInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig defines the render settings a unit is allocated with.
type ProcessorConfig struct {
	SampleRate   float64
	BlockSize    int
	Channels     int
	RampDuration float64 // seconds
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   48000,
		BlockSize:    512,
		Channels:     1,
		RampDuration: DefaultRampDuration,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum number of frames per render call.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithRampDuration sets the parameter ramp duration in seconds. Zero disables ramping.
func WithRampDuration(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds >= 0 && !math.IsNaN(seconds) && !math.IsInf(seconds, 0) {
			cfg.RampDuration = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether cfg can be used to allocate render resources.
func (cfg ProcessorConfig) Validate() error {
	switch {
	case cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0):
		return fmt.Errorf("%w: sample rate %v", errInvalidConfig, cfg.SampleRate)
	case cfg.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", errInvalidConfig, cfg.BlockSize)
	case cfg.Channels <= 0:
		return fmt.Errorf("%w: channels %d", errInvalidConfig, cfg.Channels)
	case cfg.RampDuration < 0 || math.IsNaN(cfg.RampDuration):
		return fmt.Errorf("%w: ramp duration %v", errInvalidConfig, cfg.RampDuration)
	}
	return nil
}

// RampSamples converts the ramp duration to a whole number of frames.
func (cfg ProcessorConfig) RampSamples() int {
	return RampSamples(cfg.RampDuration, cfg.SampleRate)
}
