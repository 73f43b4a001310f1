// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// BufferSource serves interleaved samples that are already in memory.
type BufferSource struct {
	sampleRate int
	channels   int
	samples    []float32
	off        int
}

func NewBufferSource(sampleRate, channels int, samples []float32) (*BufferSource, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: rate %d, channels %d", ErrInvalidSource, sampleRate, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidSource, len(samples), channels)
	}

	return &BufferSource{
		sampleRate: sampleRate,
		channels:   channels,
		samples:    samples,
	}, nil
}

func (b *BufferSource) SampleRate() int { return b.sampleRate }
func (b *BufferSource) Channels() int   { return b.channels }
func (b *BufferSource) BufSize() int    { return len(b.samples) }

func (b *BufferSource) Close() error {
	b.samples = nil
	b.off = 0
	return nil
}

// ReadSamples copies whole frames only; dst must hold a multiple of the
// channel count.
func (b *BufferSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%b.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if b.off >= len(b.samples) {
		return 0, io.EOF
	}

	n := copy(dst, b.samples[b.off:])
	b.off += n
	if b.off >= len(b.samples) {
		return n, io.EOF
	}

	return n, nil
}
