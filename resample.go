// SPDX-License-Identifier: EPL-2.0

package oggopus

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oggopus/audio"
	"github.com/ik5/oggopus/utils"
)

// ResampleToMono16 drains src through a resample and mono mix pipeline and
// returns 16-bit PCM at targetRate, reading bufferSize samples at a time.
//
//	src, _ := opus.Decoder{}.Decode(file)
//	pcm16, rate, err := oggopus.ResampleToMono16(src, 8000, 4096)
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	mono := audio.Convert(src, targetRate, true)
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	// Estimate ~2 seconds initially
	pcm16 := make([]int16, 0, targetRate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for _, v := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
