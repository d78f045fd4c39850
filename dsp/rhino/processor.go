package rhino

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/unit"
)

// ErrNoUnit is returned by render-side calls when the unit could not be
// instantiated or the processor was closed.
var ErrNoUnit = errors.New("rhino: no processing unit")

// GuitarProcessor is a guitar head and cabinet simulator node.
type GuitarProcessor struct {
	logger *slog.Logger
	queue  *unit.Queue

	// writeMu orders whole property writes, forwarding included, so the
	// unit sees values in the order they were stored.
	writeMu sync.Mutex

	mu           sync.Mutex
	au           unit.AudioUnit
	tree         *unit.Tree
	params       [numSlots]*unit.Parameter
	token        unit.Token
	values       [numSlots]float64
	distType     float64
	rampDuration float64
	closed       bool

	input    unit.Node
	channels int
	silence  [][]float64
	out      [][]float64
}

// New creates the node, instantiates the "dlrh" unit and connects input to
// it when input is non-nil. Failures are logged; the node is still usable
// as a property holder.
func New(input unit.Node, opts ...Option) *GuitarProcessor {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.queue == nil {
		cfg.queue = unit.MainQueue()
	}
	if cfg.registry == nil {
		cfg.registry = unit.Default
	}

	g := &GuitarProcessor{
		logger:       cfg.logger.With("component", ComponentCode.String()),
		queue:        cfg.queue,
		values:       cfg.values,
		distType:     cfg.distType,
		rampDuration: cfg.rampDuration,
	}

	cfg.registry.Instantiate(ComponentCode, func(au unit.AudioUnit, err error) {
		if err != nil {
			g.logger.Error("instantiate failed", "error", err)
			return
		}
		g.au = au
		if input != nil {
			if err := unit.Connect(input, g); err != nil {
				g.logger.Error("connect input failed", "error", err)
			}
		}
	})

	if g.au == nil {
		return g
	}

	if tree := g.au.Tree(); tree == nil {
		g.logger.Error("parameter tree failed")
	} else {
		g.tree = tree
		for s, key := range slotKeys {
			g.params[s] = tree.Get(key)
			if g.params[s] == nil {
				g.logger.Warn("parameter missing from tree", "key", key)
			}
		}
		g.token = tree.AddObserver(g.observe)
	}

	for s, key := range slotKeys {
		g.setDirect(key, g.values[s])
	}
	g.setDirect(KeyDistType, g.distType)
	g.au.SetRampDuration(g.rampDuration)

	return g
}

func (g *GuitarProcessor) setDirect(key string, v float64) {
	if err := g.au.SetParameter(key, float32(v)); err != nil {
		g.logger.Warn("set parameter failed", "key", key, "error", err)
	}
}

// observe runs on whatever goroutine wrote the tree. Mirroring into the
// properties happens on the notification queue.
func (g *GuitarProcessor) observe(address uint64, value float32) {
	err := g.queue.Async(func() {
		g.mu.Lock()
		closed := g.closed
		g.mu.Unlock()
		if closed {
			g.logger.Warn("notification after close dropped", "address", address)
			return
		}

		for s, p := range g.params {
			if p != nil && p.Address == address {
				g.set(slot(s), float64(value))
				return
			}
		}
	})
	if err != nil {
		g.logger.Warn("notification not delivered", "address", address, "error", err)
	}
}

// set is the shared property write path.
func (g *GuitarProcessor) set(s slot, v float64) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	g.mu.Lock()
	if g.values[s] == v {
		g.mu.Unlock()
		return
	}
	g.values[s] = v
	au, p, tok := g.au, g.params[s], g.token
	g.mu.Unlock()

	if au == nil {
		g.logger.Debug("no unit, value kept locally", "key", slotKeys[s])
		return
	}

	if au.IsSetUp() {
		if p != nil && !tok.IsZero() {
			p.SetValue(float32(v), tok)
		}
		return
	}

	if err := au.SetParameter(slotKeys[s], float32(v)); err != nil {
		g.logger.Warn("set parameter failed", "key", slotKeys[s], "error", err)
	}
}

func (g *GuitarProcessor) get(s slot) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.values[s]
}

// PreGain returns the gain applied to the signal before processing.
func (g *GuitarProcessor) PreGain() float64 { return g.get(slotPreGain) }

// SetPreGain sets the gain applied to the signal before processing.
func (g *GuitarProcessor) SetPreGain(v float64) { g.set(slotPreGain, v) }

// PostGain returns the gain applied after processing.
func (g *GuitarProcessor) PostGain() float64 { return g.get(slotPostGain) }

// SetPostGain sets the gain applied after processing.
func (g *GuitarProcessor) SetPostGain(v float64) { g.set(slotPostGain, v) }

// LowGain returns the amount of low frequencies.
func (g *GuitarProcessor) LowGain() float64 { return g.get(slotLowGain) }

// SetLowGain sets the amount of low frequencies.
func (g *GuitarProcessor) SetLowGain(v float64) { g.set(slotLowGain, v) }

// MidGain returns the amount of middle frequencies.
func (g *GuitarProcessor) MidGain() float64 { return g.get(slotMidGain) }

// SetMidGain sets the amount of middle frequencies.
func (g *GuitarProcessor) SetMidGain(v float64) { g.set(slotMidGain, v) }

// HighGain returns the amount of high frequencies.
func (g *GuitarProcessor) HighGain() float64 { return g.get(slotHighGain) }

// SetHighGain sets the amount of high frequencies.
func (g *GuitarProcessor) SetHighGain(v float64) { g.set(slotHighGain, v) }

// Distortion returns the distortion amount.
func (g *GuitarProcessor) Distortion() float64 { return g.get(slotDistortion) }

// SetDistortion sets the distortion amount.
func (g *GuitarProcessor) SetDistortion(v float64) { g.set(slotDistortion, v) }

// Value returns the property bound to key.
func (g *GuitarProcessor) Value(key string) (float64, bool) {
	for s, k := range slotKeys {
		if k == key {
			return g.get(slot(s)), true
		}
	}
	return 0, false
}

// SetValue writes the property bound to key. It reports false for keys
// that are not bound.
func (g *GuitarProcessor) SetValue(key string, v float64) bool {
	for s, k := range slotKeys {
		if k == key {
			g.set(slot(s), v)
			return true
		}
	}
	return false
}

// DistortionType returns the distortion curve chosen at construction.
func (g *GuitarProcessor) DistortionType() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.distType
}

// RampDuration returns the time parameter changes take, in seconds.
func (g *GuitarProcessor) RampDuration() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rampDuration
}

// SetRampDuration sets the time parameter changes take, in seconds.
func (g *GuitarProcessor) SetRampDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	g.mu.Lock()
	g.rampDuration = seconds
	au := g.au
	g.mu.Unlock()

	if au != nil {
		au.SetRampDuration(seconds)
	}
}

// Unit returns the wrapped unit, or nil.
func (g *GuitarProcessor) Unit() unit.AudioUnit {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.au
}

// IsStarted reports whether the node is processing.
func (g *GuitarProcessor) IsStarted() bool {
	au := g.Unit()
	return au != nil && au.IsPlaying()
}

// Start starts processing. Start, play and activate are the same thing.
func (g *GuitarProcessor) Start() {
	au := g.Unit()
	if au == nil {
		g.logger.Warn("start without unit")
		return
	}
	au.Start()
}

// Stop bypasses processing.
func (g *GuitarProcessor) Stop() {
	au := g.Unit()
	if au == nil {
		g.logger.Warn("stop without unit")
		return
	}
	au.Stop()
}

// SetInput implements unit.Input.
func (g *GuitarProcessor) SetInput(src unit.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = src
}

// Inputs implements unit.Upstream.
func (g *GuitarProcessor) Inputs() []unit.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.input == nil {
		return nil
	}
	return []unit.Node{g.input}
}

// Channels returns the allocated channel count, falling back to the
// input's and then to mono.
func (g *GuitarProcessor) Channels() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.channelsLocked()
}

func (g *GuitarProcessor) channelsLocked() int {
	if g.channels > 0 {
		return g.channels
	}
	if g.input != nil {
		return g.input.Channels()
	}
	return 1
}

// Allocate prepares the unit to render. The ramp duration and the channel
// count of the node are applied before opts.
func (g *GuitarProcessor) Allocate(opts ...core.ProcessorOption) error {
	g.mu.Lock()
	au := g.au
	base := []core.ProcessorOption{
		core.WithChannels(g.channelsLocked()),
		core.WithRampDuration(g.rampDuration),
	}
	g.mu.Unlock()

	if au == nil {
		return ErrNoUnit
	}

	cfg := core.ApplyProcessorOptions(append(base, opts...)...)
	if err := au.Allocate(cfg); err != nil {
		return fmt.Errorf("rhino: allocate: %w", err)
	}

	g.mu.Lock()
	g.channels = cfg.Channels
	g.rampDuration = cfg.RampDuration
	g.mu.Unlock()

	return nil
}

// Render pulls frames from the input (silence without one) through the
// unit.
func (g *GuitarProcessor) Render(frames int) ([][]float64, error) {
	g.mu.Lock()
	au, input := g.au, g.input
	channels := g.channelsLocked()
	g.mu.Unlock()

	if au == nil {
		return nil, ErrNoUnit
	}

	var src [][]float64
	if input != nil {
		var err error
		src, err = input.Render(frames)
		if err != nil {
			return nil, fmt.Errorf("rhino: render input: %w", err)
		}
	} else {
		g.silence = resize(g.silence, channels, frames)
		for _, ch := range g.silence {
			core.Zero(ch)
		}
		src = g.silence
	}

	g.out = resize(g.out, len(src), frames)
	if err := au.Process(g.out, src); err != nil {
		return nil, fmt.Errorf("rhino: process: %w", err)
	}
	return g.out, nil
}

func resize(bufs [][]float64, channels, frames int) [][]float64 {
	if len(bufs) != channels {
		bufs = make([][]float64, channels)
	}
	for ch := range bufs {
		bufs[ch] = core.EnsureLen(bufs[ch], frames)
	}
	return bufs
}

// Close stops observing the parameter tree and releases the unit's render
// resources. Property reads keep working.
func (g *GuitarProcessor) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	au, tree, tok := g.au, g.tree, g.token
	g.au = nil
	g.token = unit.Token{}
	g.mu.Unlock()

	if tree != nil && !tok.IsZero() {
		tree.RemoveObserver(tok)
	}
	if au != nil {
		au.Stop()
		au.Deallocate()
	}
}

var (
	_ unit.Node     = (*GuitarProcessor)(nil)
	_ unit.Input    = (*GuitarProcessor)(nil)
	_ unit.Upstream = (*GuitarProcessor)(nil)
)
