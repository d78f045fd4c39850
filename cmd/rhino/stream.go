package main

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cwbudde/algo-rhino/dsp/unit"
)

const bytesPerSample = 4

// nodeReader renders a node on demand as interleaved float32 little-endian
// PCM, the format the audio device is opened with.
type nodeReader struct {
	node     unit.Node
	channels int

	mu      sync.Mutex
	onBlock func(peak float64, err error)
}

func newNodeReader(node unit.Node, onBlock func(peak float64, err error)) *nodeReader {
	return &nodeReader{node: node, channels: node.Channels(), onBlock: onBlock}
}

func (r *nodeReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frameBytes := r.channels * bytesPerSample
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	out, err := r.node.Render(frames)
	if err != nil {
		if r.onBlock != nil {
			r.onBlock(0, err)
		}
		return 0, err
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < r.channels; ch++ {
			v := out[ch][i]
			off := (i*r.channels + ch) * bytesPerSample
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(v)))
		}
	}
	if r.onBlock != nil {
		r.onBlock(peak(out), nil)
	}

	return frames * frameBytes, nil
}

// peak returns the largest absolute sample across channels.
func peak(channels [][]float64) float64 {
	var p float64
	for _, ch := range channels {
		for _, v := range ch {
			p = math.Max(p, math.Abs(v))
		}
	}
	return p
}
