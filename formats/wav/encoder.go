// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/oggopus/audio"
	"github.com/ik5/oggopus/utils"
)

// Encode drains src into ws as integer PCM WAV of the given bit depth
// (16 or 24). The header sizes are patched on close, hence the WriteSeeker.
func Encode(ws io.WriteSeeker, src audio.Source, bitDepth int) error {
	var quantize func(float32) int
	switch bitDepth {
	case 16:
		quantize = func(v float32) int { return int(utils.Float32ToInt16(v)) }
	case 24:
		quantize = func(v float32) int { return int(utils.Float32ToInt24(v)) }
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	channels := src.Channels()
	enc := wav.NewEncoder(ws, src.SampleRate(), bitDepth, channels, pcmFormat)

	size := max(src.BufSize(), 1024)
	size -= size % channels
	buf := make([]float32, size)
	intBuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: src.SampleRate()},
		Data:           make([]int, size),
		SourceBitDepth: bitDepth,
	}

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			intBuf.Data = intBuf.Data[:n]
			for i, v := range buf[:n] {
				intBuf.Data[i] = quantize(v)
			}
			if werr := enc.Write(intBuf); werr != nil {
				return fmt.Errorf("writing wav samples: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}
