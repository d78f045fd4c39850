package unit

// Ramp moves linearly from its current value to a target over a fixed
// number of frames. A length of 0 jumps immediately.
type Ramp struct {
	current   float64
	target    float64
	step      float64
	remaining int
	length    int
}

// NewRamp returns a ramp resting at value.
func NewRamp(value float64, length int) *Ramp {
	r := &Ramp{}
	r.SetLength(length)
	r.Reset(value)
	return r
}

// SetLength sets the number of frames future ramps take. A ramp in
// progress keeps its current slope.
func (r *Ramp) SetLength(frames int) {
	if frames < 0 {
		frames = 0
	}
	r.length = frames
}

// Set starts a ramp from the current value toward target.
func (r *Ramp) Set(target float64) {
	if target == r.target && r.remaining > 0 {
		return
	}
	r.target = target
	if r.length == 0 || target == r.current {
		r.current = target
		r.remaining = 0
		r.step = 0
		return
	}
	r.remaining = r.length
	r.step = (target - r.current) / float64(r.length)
}

// Reset jumps to value and cancels any ramp.
func (r *Ramp) Reset(value float64) {
	r.current = value
	r.target = value
	r.step = 0
	r.remaining = 0
}

// Next advances one frame and returns the new value.
func (r *Ramp) Next() float64 {
	if r.remaining == 0 {
		return r.current
	}
	r.remaining--
	if r.remaining == 0 {
		r.current = r.target
	} else {
		r.current += r.step
	}
	return r.current
}

// Fill writes the next len(buf) values into buf.
func (r *Ramp) Fill(buf []float64) {
	if r.remaining == 0 {
		for i := range buf {
			buf[i] = r.current
		}
		return
	}
	for i := range buf {
		buf[i] = r.Next()
	}
}

// Value returns the current value without advancing.
func (r *Ramp) Value() float64 {
	return r.current
}

// Target returns the value the ramp is heading to.
func (r *Ramp) Target() float64 {
	return r.target
}

// IsRamping reports whether frames remain before the target is reached.
func (r *Ramp) IsRamping() bool {
	return r.remaining > 0
}
