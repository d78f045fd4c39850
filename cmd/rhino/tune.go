package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/rhino"
	"github.com/cwbudde/algo-rhino/dsp/unit"
	"github.com/cwbudde/algo-rhino/internal/ui"
)

// TuneCmd opens the parameter editor over a node fed by a sine tone.
type TuneCmd struct {
	Frequency  float64 `short:"f" default:"110" help:"Tone frequency in Hz"`
	Amplitude  float64 `default:"0.5" help:"Tone amplitude (0-1)"`
	SampleRate int     `short:"r" default:"48000" help:"Sample rate in Hz"`
	BlockSize  int     `default:"1024" help:"Frames per meter update"`
	Play       bool    `help:"Play the output on the default audio device"`
	Save       string  `type:"path" help:"Write the final settings to this JSON preset"`

	ParamFlags `embed:""`
}

func (c *TuneCmd) Run(g *Globals) error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w, got %d", errBadBlockSize, c.BlockSize)
	}

	opts, err := c.options()
	if err != nil {
		return err
	}

	src := unit.NewSineSource(1, c.Frequency, c.Amplitude, float64(c.SampleRate))
	node := rhino.New(src, opts...)
	defer node.Close()

	if err := node.Allocate(core.WithSampleRate(float64(c.SampleRate)), core.WithBlockSize(c.BlockSize)); err != nil {
		return err
	}
	node.Start()

	var specs []unit.ParameterSpec
	if u := node.Unit(); u != nil {
		for _, p := range u.Tree().All() {
			specs = append(specs, p.ParameterSpec)
		}
	}

	levels := make(chan tea.Msg, 16)
	send := func(p float64, err error) {
		var msg tea.Msg = ui.LevelMsg{Peak: p}
		if err != nil {
			msg = ui.ErrorMsg{Err: err}
		}
		select {
		case levels <- msg:
		default:
		}
	}

	done := make(chan struct{})
	defer close(done)

	if c.Play {
		player, err := openPlayer(c.SampleRate, node.Channels(), newNodeReader(node, send))
		if err != nil {
			return err
		}
		defer player.Close()
		player.Play()
	} else {
		go meterLoop(node, c.BlockSize, float64(c.SampleRate), send, done)
	}

	model := ui.NewModel(node, specs, levels)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	if c.Save != "" {
		return savePreset(c.Save, node.Preset())
	}
	return nil
}

// meterLoop renders at the real-time block rate when no device pulls audio.
func meterLoop(node unit.Node, blockSize int, sampleRate float64, send func(float64, error), done <-chan struct{}) {
	if blockSize <= 0 || sampleRate <= 0 {
		send(0, errBadBlockSize)
		return
	}
	period := time.Duration(float64(blockSize) / sampleRate * float64(time.Second))
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			out, err := node.Render(blockSize)
			if err != nil {
				send(0, err)
				continue
			}
			send(peak(out), nil)
		}
	}
}

func savePreset(path string, p rhino.Preset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
