package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/rhino"
	"github.com/cwbudde/algo-rhino/dsp/unit"
)

// AuditionCmd plays a sine tone through the processor.
type AuditionCmd struct {
	Seconds    float64 `short:"s" default:"3" help:"Playback length in seconds"`
	Frequency  float64 `short:"f" default:"110" help:"Tone frequency in Hz"`
	Amplitude  float64 `default:"0.5" help:"Tone amplitude (0-1)"`
	SampleRate int     `short:"r" default:"48000" help:"Sample rate in Hz"`
	Bypass     bool    `help:"Play the dry tone"`

	ParamFlags `embed:""`
}

func (c *AuditionCmd) Run(g *Globals) error {
	opts, err := c.options()
	if err != nil {
		return err
	}

	src := unit.NewSineSource(1, c.Frequency, c.Amplitude, float64(c.SampleRate))
	node := rhino.New(src, opts...)
	defer node.Close()

	if err := node.Allocate(core.WithSampleRate(float64(c.SampleRate))); err != nil {
		return err
	}
	if !c.Bypass {
		node.Start()
	}

	player, err := openPlayer(c.SampleRate, node.Channels(), newNodeReader(node, nil))
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g.logger.Info("playing", "seconds", c.Seconds, "frequency", c.Frequency, "processing", node.IsStarted())
	player.Play()

	select {
	case <-time.After(time.Duration(c.Seconds * float64(time.Second))):
	case <-ctx.Done():
	}
	return player.Err()
}
