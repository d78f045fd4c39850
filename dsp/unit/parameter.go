package unit

import (
	"math"
	"sync/atomic"
)

// ParameterFlags describe how a parameter may be written.
type ParameterFlags uint32

const (
	// FlagCanRamp marks parameters the unit smooths over the ramp duration.
	FlagCanRamp ParameterFlags = 1 << iota
	// FlagReadOnly rejects SetValue; units may still Store into it.
	FlagReadOnly
)

// ParameterSpec is the static description of one tree entry.
type ParameterSpec struct {
	Address    uint64
	Identifier string
	Name       string
	Unit       string
	Min        float32
	Max        float32
	Default    float32
	Flags      ParameterFlags
}

// Parameter is an addressable, observable slot in a Tree.
type Parameter struct {
	ParameterSpec

	bits atomic.Uint32
	tree *Tree
}

func newParameter(spec ParameterSpec, tree *Tree) *Parameter {
	p := &Parameter{ParameterSpec: spec, tree: tree}
	p.bits.Store(math.Float32bits(p.clamp(spec.Default)))
	return p
}

// Value returns the current value.
func (p *Parameter) Value() float32 {
	return math.Float32frombits(p.bits.Load())
}

// CanRamp reports whether the unit ramps changes to this parameter.
func (p *Parameter) CanRamp() bool {
	return p.Flags&FlagCanRamp != 0
}

// SetValue clamps v into range, stores it, hands it to the unit and notifies
// every observer except originator. A zero originator notifies everyone.
// Writing the stored value again is a no-op.
func (p *Parameter) SetValue(v float32, originator Token) {
	if p.Flags&FlagReadOnly != 0 || isNaN32(v) {
		return
	}
	v = p.clamp(v)
	if !p.swap(v) {
		return
	}
	if p.tree != nil {
		p.tree.dispatch(p, v, originator)
	}
}

// Store sets the value without reaching the implementor or observers.
// Units use it to mirror direct writes into the tree.
func (p *Parameter) Store(v float32) {
	if isNaN32(v) {
		return
	}
	p.bits.Store(math.Float32bits(p.clamp(v)))
}

func (p *Parameter) swap(v float32) bool {
	next := math.Float32bits(v)
	for {
		cur := p.bits.Load()
		if cur == next {
			return false
		}
		if p.bits.CompareAndSwap(cur, next) {
			return true
		}
	}
}

func (p *Parameter) clamp(v float32) float32 {
	if p.Max <= p.Min {
		return v
	}
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

func isNaN32(v float32) bool {
	return v != v
}
