package amp

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/unit"
	"github.com/cwbudde/algo-vecmath"
)

// Option mutates a Unit at construction.
type Option func(*Unit) error

// WithCabinetIR replaces the synthesized cabinet impulse response.
func WithCabinetIR(ir []float64) Option {
	return func(u *Unit) error {
		if len(ir) == 0 {
			return errEmptyIR
		}
		u.cabIR = append([]float64(nil), ir...)
		return nil
	}
}

// channelState is the per-channel filter and convolution memory.
type channelState struct {
	tone toneStack
	cab  *cabinet
}

// Unit is the head and cabinet processing unit.
type Unit struct {
	desc unit.Description
	tree *unit.Tree

	playing atomic.Bool

	mu           sync.Mutex
	cfg          core.ProcessorConfig
	setUp        bool
	rampDuration float64
	cabIR        []float64

	preGain, postGain, drive *unit.Ramp
	low, mid, high           *unit.Ramp
	distType                 DistType
	eqGains                  [3]float64

	channels []channelState
	preEnv   []float64
	postEnv  []float64
	driveEnv []float64
	eqEnv    []float64
	work     []float64
}

// New builds an unallocated unit.
func New(desc unit.Description, opts ...Option) (*Unit, error) {
	tree, err := unit.NewTree(Specs()...)
	if err != nil {
		return nil, err
	}

	u := &Unit{
		desc:         desc,
		tree:         tree,
		rampDuration: core.DefaultRampDuration,
		distType:     DistTanh,
	}

	get := func(key string) float64 { return float64(tree.Get(key).Value()) }
	u.preGain = unit.NewRamp(get(KeyPreGain), 0)
	u.postGain = unit.NewRamp(get(KeyPostGain), 0)
	u.drive = unit.NewRamp(get(KeyDistortion), 0)
	u.low = unit.NewRamp(get(KeyLowGain), 0)
	u.mid = unit.NewRamp(get(KeyMidGain), 0)
	u.high = unit.NewRamp(get(KeyHighGain), 0)
	u.eqGains = [3]float64{u.low.Value(), u.mid.Value(), u.high.Value()}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(u); err != nil {
			return nil, err
		}
	}

	tree.SetImplementor(u.rampTo)

	return u, nil
}

// Description returns the component description.
func (u *Unit) Description() unit.Description {
	return u.desc
}

// Tree returns the parameter tree.
func (u *Unit) Tree() *unit.Tree {
	return u.tree
}

// Allocate prepares render state for cfg.
func (u *Unit) Allocate(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ir := u.cabIR
	if ir == nil {
		ir = DefaultCabinetIR(cfg.SampleRate)
	}

	channels := make([]channelState, cfg.Channels)
	for ch := range channels {
		cab, err := newCabinet(ir, cfg.BlockSize)
		if err != nil {
			return err
		}
		channels[ch].cab = cab
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.cfg = cfg
	u.channels = channels
	u.preEnv = make([]float64, cfg.BlockSize)
	u.postEnv = make([]float64, cfg.BlockSize)
	u.driveEnv = make([]float64, cfg.BlockSize)
	u.eqEnv = make([]float64, cfg.BlockSize)
	u.work = make([]float64, cfg.BlockSize)
	u.rampDuration = cfg.RampDuration
	u.applyRampLength()
	u.designTone(true)
	u.setUp = true

	return nil
}

// Deallocate releases render state. Parameter values are kept.
func (u *Unit) Deallocate() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.setUp = false
	u.channels = nil
	u.preEnv, u.postEnv, u.driveEnv, u.eqEnv, u.work = nil, nil, nil, nil, nil
}

// IsSetUp reports whether render state is allocated.
func (u *Unit) IsSetUp() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.setUp
}

// SetRampDuration sets how long tree writes take to reach their target.
func (u *Unit) SetRampDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.rampDuration = seconds
	u.applyRampLength()
}

// RampDuration returns the ramp duration in seconds.
func (u *Unit) RampDuration() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rampDuration
}

// SetParameter writes key immediately, without ramping or notifying
// observers.
func (u *Unit) SetParameter(key string, value float32) error {
	p := u.tree.Get(key)
	if p == nil {
		return fmt.Errorf("%w: %s", unit.ErrUnknownParameter, key)
	}
	p.Store(value)

	u.mu.Lock()
	defer u.mu.Unlock()

	u.apply(p.Address, float64(p.Value()), false)
	return nil
}

// Parameter returns the current value of key.
func (u *Unit) Parameter(key string) (float32, error) {
	p := u.tree.Get(key)
	if p == nil {
		return 0, fmt.Errorf("%w: %s", unit.ErrUnknownParameter, key)
	}
	return p.Value(), nil
}

// DistType returns the active waveshaper curve.
func (u *Unit) DistType() DistType {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.distType
}

// Start enables processing.
func (u *Unit) Start() {
	u.playing.Store(true)
}

// Stop bypasses processing.
func (u *Unit) Stop() {
	u.playing.Store(false)
}

// IsPlaying reports whether the unit processes rather than bypasses.
func (u *Unit) IsPlaying() bool {
	return u.playing.Load()
}

// Reset clears filter and cabinet memory and lands every ramp on its target.
func (u *Unit) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, r := range []*unit.Ramp{u.preGain, u.postGain, u.drive, u.low, u.mid, u.high} {
		r.Reset(r.Target())
	}
	for i := range u.channels {
		u.channels[i].tone.reset()
		u.channels[i].cab.reset()
	}
	u.designTone(true)
}

// Process renders len(src[0]) frames from src into dst.
func (u *Unit) Process(dst, src [][]float64) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.setUp {
		return unit.ErrNotAllocated
	}
	if len(src) != len(u.channels) || len(dst) != len(src) {
		return fmt.Errorf("%w: got %d in, %d out, want %d", unit.ErrChannelMismatch, len(src), len(dst), len(u.channels))
	}
	if len(src) == 0 {
		return nil
	}

	frames := len(src[0])
	for ch := range src {
		if len(src[ch]) < frames || len(dst[ch]) < frames {
			return fmt.Errorf("%w: channel %d shorter than %d frames", unit.ErrChannelMismatch, ch, frames)
		}
	}

	if !u.playing.Load() {
		for ch := range src {
			copy(dst[ch][:frames], src[ch][:frames])
		}
		return nil
	}

	block := u.cfg.BlockSize
	for start := 0; start < frames; start += block {
		end := start + block
		if end > frames {
			end = frames
		}
		if err := u.processChunk(dst, src, start, end); err != nil {
			return err
		}
	}

	return nil
}

func (u *Unit) processChunk(dst, src [][]float64, start, end int) error {
	n := end - start
	pre := u.preEnv[:n]
	post := u.postEnv[:n]
	drive := u.driveEnv[:n]

	u.preGain.Fill(pre)
	u.postGain.Fill(post)
	u.drive.Fill(drive)
	u.advanceTone(n)

	for ch := range src {
		work := u.work[:n]
		copy(work, src[ch][start:end])

		vecmath.MulBlockInPlace(work, pre)
		u.channels[ch].tone.processBlock(work)
		shapeBlock(u.distType, work, drive)
		if err := u.channels[ch].cab.process(work); err != nil {
			return err
		}
		vecmath.MulBlock(dst[ch][start:end], work, post)
	}

	return nil
}

// advanceTone moves the EQ ramps by n frames and redesigns the tone stack
// when a band gain changed.
func (u *Unit) advanceTone(n int) {
	eq := u.eqEnv[:n]
	u.low.Fill(eq)
	u.mid.Fill(eq)
	u.high.Fill(eq)
	u.designTone(false)
}

func (u *Unit) designTone(force bool) {
	gains := [3]float64{u.low.Value(), u.mid.Value(), u.high.Value()}
	if !force && gains == u.eqGains {
		return
	}
	u.eqGains = gains

	rate := u.cfg.SampleRate
	if rate <= 0 {
		return
	}
	low := lowShelf(lowShelfFreq, bandGainDB(gains[0]), shelfQ, rate)
	mid := peak(midPeakFreq, bandGainDB(gains[1]), midQ, rate)
	high := highShelf(highShelfFreq, bandGainDB(gains[2]), shelfQ, rate)
	for i := range u.channels {
		u.channels[i].tone.low.coefficients = low
		u.channels[i].tone.mid.coefficients = mid
		u.channels[i].tone.high.coefficients = high
	}
}

func (u *Unit) applyRampLength() {
	frames := core.RampSamples(u.rampDuration, u.cfg.SampleRate)
	for _, r := range []*unit.Ramp{u.preGain, u.postGain, u.drive, u.low, u.mid, u.high} {
		r.SetLength(frames)
	}
}

// rampTo is the tree implementor: values written through the tree ramp.
func (u *Unit) rampTo(p *unit.Parameter, value float32) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.apply(p.Address, float64(value), p.CanRamp())
}

func (u *Unit) apply(addr uint64, v float64, ramp bool) {
	var r *unit.Ramp
	switch addr {
	case AddrPreGain:
		r = u.preGain
	case AddrPostGain:
		r = u.postGain
	case AddrLowGain:
		r = u.low
	case AddrMidGain:
		r = u.mid
	case AddrHighGain:
		r = u.high
	case AddrDistortion:
		r = u.drive
	case AddrDistType:
		u.distType = distTypeFromValue(float32(v))
		return
	default:
		return
	}

	if ramp {
		r.Set(v)
		return
	}
	r.Reset(v)
	if addr == AddrLowGain || addr == AddrMidGain || addr == AddrHighGain {
		u.designTone(false)
	}
}

var _ unit.AudioUnit = (*Unit)(nil)
