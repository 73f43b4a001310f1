// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thesyncim/gopus"
	"github.com/thesyncim/gopus/container/ogg"
)

// OpusFrame is the packet duration EncodeSine uses, in 48 kHz samples.
const OpusFrame = 960

// EncodeSine produces a real Ogg Opus file holding a 440 Hz tone split
// into the given number of 20 ms packets.
func EncodeSine(tb testing.TB, channels, packets int) []byte {
	tb.Helper()

	enc, err := gopus.NewEncoder(gopus.EncoderConfig{SampleRate: 48000, Channels: channels, Application: gopus.ApplicationAudio})
	require.NoError(tb, err)

	var out bytes.Buffer
	w, err := ogg.NewWriter(&out, 48000, uint8(channels))
	require.NoError(tb, err)

	frame := make([]float32, OpusFrame*channels)
	for p := range packets {
		for i := range OpusFrame {
			v := float32(0.4 * math.Sin(2*math.Pi*440*float64(p*OpusFrame+i)/48000))
			for ch := range channels {
				frame[i*channels+ch] = v
			}
		}

		pkt, err := enc.EncodeFloat32(frame)
		require.NoError(tb, err)
		require.NoError(tb, w.WritePacket(pkt, OpusFrame))
	}
	require.NoError(tb, w.Close())

	return out.Bytes()
}
