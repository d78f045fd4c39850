package amp

import "math"

// DistType selects the waveshaper transfer curve.
type DistType int

const (
	// DistTanh is a symmetric tanh soft clipper.
	DistTanh DistType = 1 + iota
	// DistAsymmetric biases the tanh curve so the halves clip differently.
	DistAsymmetric
	// DistHardClip clamps the driven signal to [-1, 1].
	DistHardClip
)

const asymmetricBias = 0.2

var asymmetricOffset = math.Tanh(asymmetricBias)

func distTypeFromValue(v float32) DistType {
	t := DistType(math.Round(float64(v)))
	if t < DistTanh {
		return DistTanh
	}
	if t > DistHardClip {
		return DistHardClip
	}
	return t
}

// String returns the curve name.
func (t DistType) String() string {
	switch t {
	case DistTanh:
		return "tanh"
	case DistAsymmetric:
		return "asymmetric"
	case DistHardClip:
		return "hardclip"
	default:
		return "unknown"
	}
}

// shape applies curve t to x driven by drive.
func shape(t DistType, x, drive float64) float64 {
	v := x * drive
	switch t {
	case DistAsymmetric:
		return math.Tanh(v+asymmetricBias) - asymmetricOffset
	case DistHardClip:
		if v > 1 {
			return 1
		}
		if v < -1 {
			return -1
		}
		return v
	default:
		return math.Tanh(v)
	}
}

// shapeBlock shapes buf in place with a per-frame drive envelope.
func shapeBlock(t DistType, buf, drive []float64) {
	for i, x := range buf {
		buf[i] = shape(t, x, drive[i])
	}
}
