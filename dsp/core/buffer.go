package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// NewChannels allocates channels planar buffers of frames samples each.
func NewChannels(channels, frames int) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	return out
}

// Deinterleave splits interleaved samples into planar buffers.
// Trailing samples that do not fill a whole frame are dropped.
func Deinterleave(interleaved []float32, channels int) [][]float64 {
	if channels <= 0 {
		return nil
	}
	frames := len(interleaved) / channels
	out := NewChannels(channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[ch][i] = float64(interleaved[i*channels+ch])
		}
	}
	return out
}

// Interleave packs planar buffers into one interleaved slice. All channels
// must have the same length as the first.
func Interleave(planar [][]float64) []float32 {
	if len(planar) == 0 {
		return nil
	}
	channels := len(planar)
	frames := len(planar[0])
	out := make([]float32, frames*channels)
	for ch, buf := range planar {
		for i := 0; i < frames && i < len(buf); i++ {
			out[i*channels+ch] = float32(buf[i])
		}
	}
	return out
}
