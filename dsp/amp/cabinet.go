package amp

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const (
	defaultCabinetLength = 512
	cabinetRolloffHz     = 4500.0
	cabinetResonanceHz   = 110.0
	cabinetDecaySeconds  = 0.004
)

var errEmptyIR = errors.New("amp: empty cabinet impulse response")

// DefaultCabinetIR synthesizes a short speaker-like impulse response: a
// one-pole high-frequency roll-off with a damped low resonance, normalized
// to unity gain at DC.
func DefaultCabinetIR(sampleRate float64) []float64 {
	ir := make([]float64, defaultCabinetLength)

	pole := math.Exp(-2 * math.Pi * cabinetRolloffHz / sampleRate)
	decay := math.Exp(-1 / (cabinetDecaySeconds * sampleRate))
	w := 2 * math.Pi * cabinetResonanceHz / sampleRate

	env := 1.0
	lp := 0.0
	for n := range ir {
		x := 0.0
		if n == 0 {
			x = 1
		}
		x += 0.3 * env * math.Sin(w*float64(n))
		lp = (1-pole)*x + pole*lp
		ir[n] = lp
		env *= decay
	}

	sum := 0.0
	for _, v := range ir {
		sum += v
	}
	if sum != 0 {
		for i := range ir {
			ir[i] /= sum
		}
	}

	return ir
}

// cabinet is a streaming overlap-add convolver. Each call consumes up to
// blockSize frames and keeps the convolution tail for the next call.
type cabinet struct {
	kernelLen int
	blockSize int
	fftSize   int

	plan      *algofft.Plan[complex128]
	kernelFFT []complex128
	work      []complex128
	tail      []float64
}

func newCabinet(ir []float64, blockSize int) (*cabinet, error) {
	if len(ir) == 0 {
		return nil, errEmptyIR
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("amp: invalid cabinet block size %d", blockSize)
	}

	fftSize := nextPowerOf2(blockSize + len(ir) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("amp: failed to create FFT plan: %w", err)
	}

	c := &cabinet{
		kernelLen: len(ir),
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		kernelFFT: make([]complex128, fftSize),
		work:      make([]complex128, fftSize),
		tail:      make([]float64, fftSize),
	}

	padded := make([]complex128, fftSize)
	for i, v := range ir {
		padded[i] = complex(v, 0)
	}

	if err := plan.Forward(c.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("amp: failed to compute cabinet FFT: %w", err)
	}

	return c, nil
}

// process convolves buf in place. len(buf) must not exceed blockSize.
func (c *cabinet) process(buf []float64) error {
	n := len(buf)
	if n > c.blockSize {
		return fmt.Errorf("amp: cabinet block %d exceeds %d", n, c.blockSize)
	}

	for i := range c.work {
		c.work[i] = 0
	}
	for i, v := range buf {
		c.work[i] = complex(v, 0)
	}

	if err := c.plan.Forward(c.work, c.work); err != nil {
		return fmt.Errorf("amp: forward FFT failed: %w", err)
	}
	for i := range c.work {
		c.work[i] *= c.kernelFFT[i]
	}
	if err := c.plan.Inverse(c.work, c.work); err != nil {
		return fmt.Errorf("amp: inverse FFT failed: %w", err)
	}

	for i := range buf {
		buf[i] = real(c.work[i]) + c.tail[i]
	}

	// Shift the pending tail by n and add this block's overhang.
	for j := 0; j < c.fftSize-n; j++ {
		c.tail[j] = c.tail[j+n] + real(c.work[j+n])
	}
	for j := c.fftSize - n; j < c.fftSize; j++ {
		c.tail[j] = 0
	}

	return nil
}

func (c *cabinet) reset() {
	for i := range c.tail {
		c.tail[i] = 0
	}
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
