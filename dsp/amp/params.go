package amp

import "github.com/cwbudde/algo-rhino/dsp/unit"

// Code is the component code the unit registers under.
var Code = unit.MustFourCC("dlrh")

// Parameter keys.
const (
	KeyPreGain    = "preGain"
	KeyPostGain   = "postGain"
	KeyLowGain    = "lowGain"
	KeyMidGain    = "midGain"
	KeyHighGain   = "highGain"
	KeyDistortion = "distortion"
	KeyDistType   = "distType"
)

// Parameter addresses.
const (
	AddrPreGain uint64 = iota
	AddrPostGain
	AddrLowGain
	AddrMidGain
	AddrHighGain
	AddrDistortion
	AddrDistType
)

// Specs returns the parameter tree layout of the unit.
func Specs() []unit.ParameterSpec {
	return []unit.ParameterSpec{
		{Address: AddrPreGain, Identifier: KeyPreGain, Name: "Pre Gain", Unit: "linear", Min: 0, Max: 10, Default: 5, Flags: unit.FlagCanRamp},
		{Address: AddrPostGain, Identifier: KeyPostGain, Name: "Post Gain", Unit: "linear", Min: 0, Max: 1, Default: 0.7, Flags: unit.FlagCanRamp},
		{Address: AddrLowGain, Identifier: KeyLowGain, Name: "Low Frequency Gain", Unit: "generic", Min: -1, Max: 1, Default: 0, Flags: unit.FlagCanRamp},
		{Address: AddrMidGain, Identifier: KeyMidGain, Name: "Mid Frequency Gain", Unit: "generic", Min: -1, Max: 1, Default: 0, Flags: unit.FlagCanRamp},
		{Address: AddrHighGain, Identifier: KeyHighGain, Name: "High Frequency Gain", Unit: "generic", Min: -1, Max: 1, Default: 0, Flags: unit.FlagCanRamp},
		{Address: AddrDistortion, Identifier: KeyDistortion, Name: "Distortion Amount", Unit: "generic", Min: 1, Max: 20, Default: 1, Flags: unit.FlagCanRamp},
		{Address: AddrDistType, Identifier: KeyDistType, Name: "Distortion Type", Unit: "indexed", Min: 1, Max: 3, Default: 1},
	}
}
