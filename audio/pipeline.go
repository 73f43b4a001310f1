// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Convert wraps src so that it produces audio at rate, mixed down to one
// channel when mono is set. A rate of 0 keeps the source rate.
func Convert(src Source, rate int, mono bool) Source {
	out := src
	if rate > 0 && rate != src.SampleRate() {
		out = NewResampler(out, rate)
	}
	if mono && out.Channels() > 1 {
		out = NewMonoMixer(out)
	}
	return out
}

// ReadAll drains src, reading bufSize samples at a time.
func ReadAll(src Source, bufSize int) ([]float32, error) {
	if bufSize < src.Channels() {
		bufSize = 4096
	}
	bufSize -= bufSize % src.Channels()

	var out []float32
	buf := make([]float32, bufSize)

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%w", err)
		}
	}
}
