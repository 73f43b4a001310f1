// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggopus/internal/audiotest"
)

func TestMonoMixer_Averages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		want     float32
	}{
		{"mono passthrough", 1, 0},
		{"stereo", 2, 0.5},
		{"5.1", 6, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// channel c carries the constant value c
			src := audiotest.NewMockSource(8000, tt.channels, 300, func(_, ch int) float32 { return float32(ch) })
			m := NewMonoMixer(src)
			assert.Equal(t, 1, m.Channels())
			assert.Equal(t, 8000, m.SampleRate())

			samples, err := ReadAll(m, 128)
			require.NoError(t, err)
			require.Len(t, samples, 300)
			for _, s := range samples {
				assert.InDelta(t, tt.want, s, 1e-6)
			}
		})
	}
}

func TestMonoMixer_EmptyDst(t *testing.T) {
	t.Parallel()

	n, err := NewMonoMixer(audiotest.NewSilentSource(8000, 2, 10)).ReadSamples(nil)
	assert.Zero(t, n)
	assert.NoError(t, err)
}

func TestMonoMixer_GrowsScratch(t *testing.T) {
	t.Parallel()

	m := NewMonoMixer(audiotest.NewConstantSource(8000, 4, 10000, 0.25))
	n, err := m.ReadSamples(make([]float32, 5000))
	require.NoError(t, err)
	assert.Equal(t, 5000, n)
	assert.GreaterOrEqual(t, cap(m.tmp), 20000)
}

func TestConvert(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(48000, 2, 480)

	assert.Same(t, Source(src), Convert(src, 0, false))
	assert.Same(t, Source(src), Convert(src, 48000, false))
	assert.IsType(t, &MonoMixer{}, Convert(src, 0, true))

	out := Convert(src, 16000, true)
	assert.Equal(t, 16000, out.SampleRate())
	assert.Equal(t, 1, out.Channels())
}
