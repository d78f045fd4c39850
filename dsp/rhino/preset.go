package rhino

import (
	"encoding/json"
	"fmt"
	"io"
)

// Preset is a serializable snapshot of the processor settings.
type Preset struct {
	PreGain      float64 `json:"preGain"`
	PostGain     float64 `json:"postGain"`
	LowGain      float64 `json:"lowGain"`
	MidGain      float64 `json:"midGain"`
	HighGain     float64 `json:"highGain"`
	Distortion   float64 `json:"distortion"`
	DistType     float64 `json:"distType"`
	RampDuration float64 `json:"rampDuration"`
}

// DefaultPreset returns the construction defaults.
func DefaultPreset() Preset {
	cfg := defaultConfig()
	return presetFrom(cfg.values, cfg.distType, cfg.rampDuration)
}

func presetFrom(v [numSlots]float64, distType, ramp float64) Preset {
	return Preset{
		PreGain:      v[slotPreGain],
		PostGain:     v[slotPostGain],
		LowGain:      v[slotLowGain],
		MidGain:      v[slotMidGain],
		HighGain:     v[slotHighGain],
		Distortion:   v[slotDistortion],
		DistType:     distType,
		RampDuration: ramp,
	}
}

func (p Preset) values() [numSlots]float64 {
	return [numSlots]float64{
		slotPreGain:    p.PreGain,
		slotPostGain:   p.PostGain,
		slotLowGain:    p.LowGain,
		slotMidGain:    p.MidGain,
		slotHighGain:   p.HighGain,
		slotDistortion: p.Distortion,
	}
}

// Save writes p as indented JSON.
func (p Preset) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("rhino: save preset: %w", err)
	}
	return nil
}

// LoadPreset reads a preset written by Save. Fields missing from the input
// keep their default.
func LoadPreset(r io.Reader) (Preset, error) {
	p := DefaultPreset()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Preset{}, fmt.Errorf("rhino: load preset: %w", err)
	}
	return p, nil
}

// Preset captures the current settings.
func (g *GuitarProcessor) Preset() Preset {
	g.mu.Lock()
	defer g.mu.Unlock()
	return presetFrom(g.values, g.distType, g.rampDuration)
}

// ApplyPreset writes p through the regular setters. DistType is fixed at
// construction and is ignored here.
func (g *GuitarProcessor) ApplyPreset(p Preset) {
	for s, v := range p.values() {
		g.set(slot(s), v)
	}
	if p.RampDuration >= 0 {
		g.SetRampDuration(p.RampDuration)
	}
}
