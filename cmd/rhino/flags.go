package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-rhino/dsp/rhino"
)

// ParamFlags are the processor settings shared by commands that build a
// node. Unset flags fall back to the preset, then to the defaults.
type ParamFlags struct {
	Preset       string   `short:"p" type:"existingfile" help:"JSON preset to start from"`
	PreGain      *float64 `help:"Gain before processing (0-10)"`
	PostGain     *float64 `help:"Gain after processing (0-1)"`
	LowGain      *float64 `help:"Low frequency amount (-1 to 1)"`
	MidGain      *float64 `help:"Middle frequency amount (-1 to 1)"`
	HighGain     *float64 `help:"High frequency amount (-1 to 1)"`
	Distortion   *float64 `help:"Distortion amount (1-20)"`
	DistType     *float64 `help:"Distortion curve: 1 tanh, 2 asymmetric, 3 hard clip"`
	RampDuration *float64 `help:"Parameter ramp time in seconds"`
}

// options resolves the flags into node options.
func (f ParamFlags) options() ([]rhino.Option, error) {
	var opts []rhino.Option

	if f.Preset != "" {
		file, err := os.Open(f.Preset)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		p, err := rhino.LoadPreset(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Preset, err)
		}
		opts = append(opts, rhino.WithPreset(p))
	}

	set := func(v *float64, opt func(float64) rhino.Option) {
		if v != nil {
			opts = append(opts, opt(*v))
		}
	}
	set(f.PreGain, rhino.WithPreGain)
	set(f.PostGain, rhino.WithPostGain)
	set(f.LowGain, rhino.WithLowGain)
	set(f.MidGain, rhino.WithMidGain)
	set(f.HighGain, rhino.WithHighGain)
	set(f.Distortion, rhino.WithDistortion)
	set(f.DistType, rhino.WithDistType)
	set(f.RampDuration, rhino.WithRampDuration)

	return opts, nil
}
