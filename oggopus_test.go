// SPDX-License-Identifier: EPL-2.0

package oggopus

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggopus/audio"
	"github.com/ik5/oggopus/formats/wav"
	"github.com/ik5/oggopus/internal/audiotest"
)

func TestResampleToMono16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        audio.Source
		targetRate int
		want       int
		tolerance  int
	}{
		{"stereo 44.1k to 8k", audiotest.NewSineSource(44100, 2, 44100, 440), 8000, 8000, 10},
		{"mono 16k to 8k", audiotest.NewConstantSource(16000, 1, 16000, 0.5), 8000, 8000, 10},
		{"same rate", audiotest.NewSilentSource(8000, 2, 800), 8000, 800, 0},
		{"upsample", audiotest.NewSilentSource(8000, 1, 800), 48000, 4800, 10},
		{"empty", audiotest.NewSilentSource(8000, 1, 0), 8000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pcm, rate, err := ResampleToMono16(tt.src, tt.targetRate, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.targetRate, rate)
			assert.InDelta(t, tt.want, len(pcm), float64(tt.tolerance))
		})
	}
}

func TestResampleToMono16_Clamps(t *testing.T) {
	t.Parallel()

	pcm, _, err := ResampleToMono16(audiotest.NewConstantSource(8000, 1, 10, 2), 8000, 0)
	require.NoError(t, err)
	require.Len(t, pcm, 10)
	assert.Equal(t, int16(32767), pcm[0])
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	var buf bytes.Buffer
	require.NoError(t, wav.WriteWAV16(&buf, 8000, 1, []int16{1, 2, 3, 4}))
	require.NoError(t, afero.WriteFile(fs, "tone.wav", buf.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "junk.bin", []byte{0, 1, 2, 3}, 0o644))
	require.NoError(t, afero.WriteFile(fs, "head.opus", audiotest.NewOggBuilder().Headers(1, 2, 0).Bytes(), 0o644))

	format, src, err := DecodeFile(fs, "tone.wav", nil)
	require.NoError(t, err)
	assert.Equal(t, "wav", format)
	samples, err := audio.ReadAll(src, 64)
	require.NoError(t, err)
	assert.Len(t, samples, 4)
	require.NoError(t, src.Close())

	_, _, err = DecodeFile(fs, "junk.bin", nil)
	assert.ErrorIs(t, err, audio.ErrUnknownFormat)

	_, _, err = DecodeFile(fs, "missing.wav", nil)
	assert.Error(t, err)

	// headers without audio packets: the opus decoder is picked and yields
	// an empty stream
	format, src, err = DecodeFile(fs, "head.opus", NewRegistry(nil))
	require.NoError(t, err)
	assert.Equal(t, "opus", format)
	assert.Equal(t, 2, src.Channels())
	require.NoError(t, src.Close())
}
