package unit

import (
	"math"

	"github.com/cwbudde/algo-rhino/dsp/core"
)

// BufferSource plays fixed planar buffers once, then renders silence.
type BufferSource struct {
	data [][]float64
	pos  int
	out  [][]float64
}

// NewBufferSource wraps planar data. All channels should have equal length.
func NewBufferSource(data [][]float64) *BufferSource {
	return &BufferSource{data: data}
}

// Channels returns the channel count.
func (s *BufferSource) Channels() int {
	return len(s.data)
}

// Remaining returns the number of frames not yet rendered.
func (s *BufferSource) Remaining() int {
	if len(s.data) == 0 {
		return 0
	}
	if r := len(s.data[0]) - s.pos; r > 0 {
		return r
	}
	return 0
}

// Render copies the next frames from the buffers, zero-padding past the end.
func (s *BufferSource) Render(frames int) ([][]float64, error) {
	if len(s.out) != len(s.data) {
		s.out = make([][]float64, len(s.data))
	}
	for ch, src := range s.data {
		s.out[ch] = core.EnsureLen(s.out[ch], frames)
		n := 0
		if s.pos < len(src) {
			n = copy(s.out[ch], src[s.pos:])
		}
		core.Zero(s.out[ch][n:])
	}
	s.pos += frames
	return s.out, nil
}


// SineSource renders a continuous sine tone on every channel.
type SineSource struct {
	Frequency  float64
	Amplitude  float64
	SampleRate float64

	channels int
	phase    float64
	out      [][]float64
}

// NewSineSource returns a sine generator.
func NewSineSource(channels int, frequency, amplitude, sampleRate float64) *SineSource {
	if channels <= 0 {
		channels = 1
	}
	return &SineSource{
		Frequency:  frequency,
		Amplitude:  amplitude,
		SampleRate: sampleRate,
		channels:   channels,
	}
}

// Channels returns the channel count.
func (s *SineSource) Channels() int {
	return s.channels
}

// Render produces the next frames of the tone.
func (s *SineSource) Render(frames int) ([][]float64, error) {
	if len(s.out) != s.channels {
		s.out = make([][]float64, s.channels)
	}
	for ch := range s.out {
		s.out[ch] = core.EnsureLen(s.out[ch], frames)
	}

	step := 2 * math.Pi * s.Frequency / s.SampleRate
	phase := s.phase
	first := s.out[0]
	for i := range first {
		first[i] = s.Amplitude * math.Sin(phase)
		phase += step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}
	s.phase = phase
	for ch := 1; ch < s.channels; ch++ {
		copy(s.out[ch], first)
	}
	return s.out, nil
}
