package amp

import "github.com/cwbudde/algo-rhino/dsp/unit"

func init() {
	unit.Default.MustRegister(unit.Description{
		Code:         Code,
		Name:         "Rhino Guitar Processor",
		Manufacturer: "algo",
	}, func(desc unit.Description) (unit.AudioUnit, error) {
		return New(desc)
	})
}
