package main

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// openPlayer opens the default output device for float32 playback of r.
func openPlayer(sampleRate, channels int, r *nodeReader) (*oto.Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return ctx.NewPlayer(r), nil
}
