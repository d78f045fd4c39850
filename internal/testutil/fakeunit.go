package testutil

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/unit"
)

// Write records one parameter write that reached a FakeUnit.
type Write struct {
	Key   string
	Value float32
}

// FakeUnit is a scripted unit.AudioUnit that records how parameter values
// reach it. See DirectWrites and RampedWrites.
type FakeUnit struct {
	desc unit.Description
	tree *unit.Tree

	mu           sync.Mutex
	setUp        bool
	playing      bool
	rampDuration float64
	direct       []Write
	ramped       []Write
	values       map[string]float32
	processed    int
	deallocated  bool
}

// NewFakeUnit builds a fake with a tree laid out by specs. With no specs the
// fake has no tree.
func NewFakeUnit(specs ...unit.ParameterSpec) *FakeUnit {
	f := &FakeUnit{
		desc:   unit.Description{Code: unit.MustFourCC("fake"), Name: "Fake"},
		values: make(map[string]float32),
	}
	if len(specs) == 0 {
		return f
	}

	tree, err := unit.NewTree(specs...)
	if err != nil {
		panic(err)
	}
	tree.SetImplementor(func(p *unit.Parameter, v float32) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.ramped = append(f.ramped, Write{Key: p.Identifier, Value: v})
		f.values[p.Identifier] = v
	})
	f.tree = tree
	return f
}

// Factory returns a unit.Factory that always hands out f.
func (f *FakeUnit) Factory() unit.Factory {
	return func(desc unit.Description) (unit.AudioUnit, error) {
		f.desc = desc
		return f, nil
	}
}

// Description returns the description handed to the factory.
func (f *FakeUnit) Description() unit.Description { return f.desc }

// Tree returns the tree, or nil for a fake built without specs.
func (f *FakeUnit) Tree() *unit.Tree { return f.tree }

// Allocate validates cfg and marks the fake as set up.
func (f *FakeUnit) Allocate(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUp = true
	f.rampDuration = cfg.RampDuration
	return nil
}

// Deallocate clears the set-up state and records the call.
func (f *FakeUnit) Deallocate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUp = false
	f.deallocated = true
}

// IsSetUp reports whether Allocate succeeded since the last Deallocate.
func (f *FakeUnit) IsSetUp() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setUp
}

// Deallocated reports whether Deallocate was called.
func (f *FakeUnit) Deallocated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deallocated
}

// SetRampDuration records seconds.
func (f *FakeUnit) SetRampDuration(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rampDuration = seconds
}

// RampDuration returns the last recorded ramp duration.
func (f *FakeUnit) RampDuration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rampDuration
}

// SetParameter records a direct write and stores it silently in the tree.
func (f *FakeUnit) SetParameter(key string, value float32) error {
	if f.tree != nil {
		p := f.tree.Get(key)
		if p == nil {
			return fmt.Errorf("%w: %s", unit.ErrUnknownParameter, key)
		}
		p.Store(value)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct = append(f.direct, Write{Key: key, Value: value})
	f.values[key] = value
	return nil
}

// Parameter returns the last value written to key by either path.
func (f *FakeUnit) Parameter(key string) (float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", unit.ErrUnknownParameter, key)
	}
	return v, nil
}

// Start marks the fake as playing.
func (f *FakeUnit) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
}

// Stop clears the playing state.
func (f *FakeUnit) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

// IsPlaying reports whether Start was called more recently than Stop.
func (f *FakeUnit) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

// Process copies src to dst, doubling it while playing.
func (f *FakeUnit) Process(dst, src [][]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.setUp {
		return unit.ErrNotAllocated
	}
	if len(dst) != len(src) {
		return unit.ErrChannelMismatch
	}
	gain := 1.0
	if f.playing {
		gain = 2
	}
	for ch := range src {
		for i, v := range src[ch] {
			dst[ch][i] = v * gain
		}
	}
	f.processed++
	return nil
}

// Reset does nothing.
func (f *FakeUnit) Reset() {}

// DirectWrites returns the writes made through SetParameter.
func (f *FakeUnit) DirectWrites() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Write(nil), f.direct...)
}

// RampedWrites returns the writes that arrived through the tree.
func (f *FakeUnit) RampedWrites() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Write(nil), f.ramped...)
}

// ClearWrites forgets recorded writes.
func (f *FakeUnit) ClearWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct = nil
	f.ramped = nil
}

// Processed returns how many Process calls succeeded.
func (f *FakeUnit) Processed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processed
}
