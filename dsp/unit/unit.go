package unit

import "github.com/cwbudde/algo-rhino/dsp/core"

// Description identifies a component in a Registry.
type Description struct {
	Code         FourCC
	Name         string
	Manufacturer string
}

// AudioUnit is a processing unit driven by a node.
//
// Before Allocate the unit accepts direct parameter writes through
// SetParameter. After Allocate, IsSetUp reports true and parameter changes
// are expected to arrive through the Tree, where the unit ramps them.
type AudioUnit interface {
	Description() Description

	// Tree returns the parameter tree, or nil if the unit has none.
	Tree() *Tree

	Allocate(cfg core.ProcessorConfig) error
	Deallocate()
	IsSetUp() bool

	SetRampDuration(seconds float64)
	RampDuration() float64

	// SetParameter writes key directly, without ramping or notification.
	SetParameter(key string, value float32) error
	Parameter(key string) (float32, error)

	Start()
	Stop()
	IsPlaying() bool

	// Process renders len(src[0]) frames from src into dst. Channel counts
	// must match the allocated configuration.
	Process(dst, src [][]float64) error
	Reset()
}
