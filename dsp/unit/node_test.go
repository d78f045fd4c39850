package unit

import (
	"errors"
	"math"
	"testing"
)

type passNode struct {
	in Node
}

func (p *passNode) SetInput(src Node) { p.in = src }
func (p *passNode) Inputs() []Node { return []Node{p.in} }
func (p *passNode) Channels() int { return 1 }
func (p *passNode) Render(frames int) ([][]float64, error) {
	if p.in == nil {
		return [][]float64{make([]float64, frames)}, nil
	}
	return p.in.Render(frames)
}

func TestConnectRejectsNilAndCycles(t *testing.T) {
	a := &passNode{}
	b := &passNode{}

	if err := Connect(nil, a); !errors.Is(err, ErrNilNode) {
		t.Fatalf("nil src err = %v", err)
	}
	if err := Connect(a, a); !errors.Is(err, ErrCycle) {
		t.Fatalf("self connect err = %v", err)
	}
	if err := Connect(a, b); err != nil {
		t.Fatalf("Connect(a, b) error = %v", err)
	}
	if err := Connect(b, a); !errors.Is(err, ErrCycle) {
		t.Fatalf("cycle err = %v", err)
	}
}

func TestBufferSourcePadsWithSilence(t *testing.T) {
	src := NewBufferSource([][]float64{{1, 2, 3}})
	out, err := src.Render(2)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out[0][0] != 1 || out[0][1] != 2 {
		t.Fatalf("first block = %v", out[0])
	}
	if src.Remaining() != 1 {
		t.Fatalf("Remaining() = %d", src.Remaining())
	}

	out, _ = src.Render(3)
	if out[0][0] != 3 || out[0][1] != 0 || out[0][2] != 0 {
		t.Fatalf("second block = %v", out[0])
	}
	if src.Remaining() != 0 {
		t.Fatalf("Remaining() past end = %d", src.Remaining())
	}
}

func TestSineSourceContinuousPhase(t *testing.T) {
	const rate = 48000.0
	src := NewSineSource(2, 1000, 0.5, rate)

	a, _ := src.Render(10)
	last := a[0][9]
	b, _ := src.Render(1)

	step := 2 * math.Pi * 1000 / rate
	want := 0.5 * math.Sin(10*step)
	if math.Abs(b[0][0]-want) > 1e-9 {
		t.Fatalf("phase discontinuity: got %v, want %v (prev %v)", b[0][0], want, last)
	}
	if b[1][0] != b[0][0] {
		t.Fatal("channels must carry the same tone")
	}
}

func TestConnectThroughChain(t *testing.T) {
	src := NewBufferSource([][]float64{{0.25}})
	mid := &passNode{}
	if err := Connect(src, mid); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	out, err := mid.Render(1)
	if err != nil || out[0][0] != 0.25 {
		t.Fatalf("Render() = %v, %v", out, err)
	}
}
