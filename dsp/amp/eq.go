package amp

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rhino/dsp/core"
)

// Band layout of the tone stack.
const (
	lowShelfFreq  = 120.0
	midPeakFreq   = 750.0
	highShelfFreq = 3200.0
	shelfQ        = 0.7071067811865476
	midQ          = 0.7
	maxBandGainDB = 12.0
)

// coefficients of one second-order section, a0 normalized to 1.
type coefficients struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// section is a Direct Form II Transposed biquad.
type section struct {
	coefficients

	d0, d1 float64
}

func (s *section) processSample(x float64) float64 {
	y := s.b0*x + s.d0
	s.d0 = s.b1*x - s.a1*y + s.d1
	s.d1 = s.b2*x - s.a2*y

	return y
}

func (s *section) processBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.processSample(x)
	}
	s.d0 = core.FlushDenormals(s.d0)
	s.d1 = core.FlushDenormals(s.d1)
}

func (s *section) reset() {
	s.d0, s.d1 = 0, 0
}

// toneStack is the low shelf, mid peak and high shelf of one channel.
type toneStack struct {
	low, mid, high section
}

func (t *toneStack) processBlock(buf []float64) {
	t.low.processBlock(buf)
	t.mid.processBlock(buf)
	t.high.processBlock(buf)
}

func (t *toneStack) reset() {
	t.low.reset()
	t.mid.reset()
	t.high.reset()
}

// bandGainDB maps a [-1, 1] control value onto the band gain in dB.
func bandGainDB(v float64) float64 {
	return v * maxBandGainDB
}

func lowShelf(freq, gainDB, q, sampleRate float64) coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a := math.Sqrt(core.DBToLinear(gainDB))
	beta := 2 * math.Sqrt(a) * alpha

	return normalize(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	)
}

func highShelf(freq, gainDB, q, sampleRate float64) coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a := math.Sqrt(core.DBToLinear(gainDB))
	beta := 2 * math.Sqrt(a) * alpha

	return normalize(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

func peak(freq, gainDB, q, sampleRate float64) coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a := math.Sqrt(core.DBToLinear(gainDB))

	return normalize(
		1+alpha*a,
		-2*cw,
		1-alpha*a,
		1+alpha/a,
		-2*cw,
		1-alpha/a,
	)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) coefficients {
	return coefficients{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// magnitude evaluates |H(e^jw)| at freq.
func (c coefficients) magnitude(freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := complex(math.Cos(w), -math.Sin(w))
	z2 := z1 * z1
	num := complex(c.b0, 0) + complex(c.b1, 0)*z1 + complex(c.b2, 0)*z2
	den := 1 + complex(c.a1, 0)*z1 + complex(c.a2, 0)*z2
	return cmplx.Abs(num / den)
}
