package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/rhino"
	"github.com/cwbudde/algo-rhino/dsp/unit"
)

var (
	errBadPCM       = errors.New("input is not whole float32 frames")
	errBadBlockSize = errors.New("block size must be positive")
)

// RenderCmd processes a raw PCM file. Each channel gets its own node and
// channels render concurrently.
type RenderCmd struct {
	In         string  `short:"i" type:"existingfile" required:"" help:"Input: interleaved float32 little-endian PCM"`
	Out        string  `short:"o" type:"path" required:"" help:"Output file, same format as the input"`
	Channels   int     `short:"c" default:"1" help:"Interleaved channel count"`
	SampleRate float64 `short:"r" default:"48000" help:"Sample rate in Hz"`
	BlockSize  int     `default:"512" help:"Frames per render call"`

	ParamFlags `embed:""`
}

func (c *RenderCmd) Run(g *Globals) error {
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w, got %d", errBadBlockSize, c.BlockSize)
	}

	opts, err := c.options()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.In)
	if err != nil {
		return err
	}
	if len(data)%(bytesPerSample*c.Channels) != 0 {
		return fmt.Errorf("%s: %w", c.In, errBadPCM)
	}

	samples := make([]float32, len(data)/bytesPerSample)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("%s: %w", c.In, err)
	}
	planar := core.Deinterleave(samples, c.Channels)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := make([][]float64, c.Channels)
	eg, ctx := errgroup.WithContext(ctx)
	for ch := range planar {
		out[ch] = make([]float64, len(planar[ch]))
		eg.Go(func() error {
			logger := g.logger.With("channel", ch)
			chOpts := append(append([]rhino.Option(nil), opts...), rhino.WithLogger(logger))
			return c.renderChannel(ctx, planar[ch], out[ch], chOpts)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, core.Interleave(out)); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}

	g.logger.Info("rendered", "frames", len(samples)/c.Channels, "channels", c.Channels, "out", c.Out)
	return f.Close()
}

func (c *RenderCmd) renderChannel(ctx context.Context, in, dst []float64, opts []rhino.Option) error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w, got %d", errBadBlockSize, c.BlockSize)
	}

	src := unit.NewBufferSource([][]float64{in})
	node := rhino.New(src, opts...)
	defer node.Close()

	if err := node.Allocate(core.WithSampleRate(c.SampleRate), core.WithBlockSize(c.BlockSize)); err != nil {
		return err
	}
	node.Start()

	for done := 0; src.Remaining() > 0 && done < len(dst); {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(c.BlockSize, src.Remaining(), len(dst)-done)
		block, err := node.Render(n)
		if err != nil {
			return err
		}
		copy(dst[done:done+n], block[0])
		done += n
	}
	return nil
}
