package rhino

import "github.com/cwbudde/algo-rhino/dsp/unit"

// ComponentCode locates the processing unit in the registry.
var ComponentCode = unit.MustFourCC("dlrh")

// Keys of the unit's parameter tree.
const (
	KeyPreGain    = "preGain"
	KeyPostGain   = "postGain"
	KeyLowGain    = "lowGain"
	KeyMidGain    = "midGain"
	KeyHighGain   = "highGain"
	KeyDistortion = "distortion"
	KeyDistType   = "distType"
)

// Defaults applied when no option overrides them.
const (
	DefaultPreGain    = 5.0
	DefaultPostGain   = 0.7
	DefaultLowGain    = 0.0
	DefaultMidGain    = 0.0
	DefaultHighGain   = 0.0
	DefaultDistType   = 1.0
	DefaultDistortion = 1.0
)

type slot int

const (
	slotPreGain slot = iota
	slotPostGain
	slotLowGain
	slotMidGain
	slotHighGain
	slotDistortion
	numSlots
)

var slotKeys = [numSlots]string{
	slotPreGain:    KeyPreGain,
	slotPostGain:   KeyPostGain,
	slotLowGain:    KeyLowGain,
	slotMidGain:    KeyMidGain,
	slotHighGain:   KeyHighGain,
	slotDistortion: KeyDistortion,
}

// Keys returns the six bound parameter keys in display order.
func Keys() []string {
	out := make([]string, numSlots)
	copy(out, slotKeys[:])
	return out
}
