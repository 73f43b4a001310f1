// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggopus/audio"
)

// mockMp3Reader serves fixed 16-bit PCM the way gomp3.Decoder does.
type mockMp3Reader struct {
	rate int
	pcm  *bytes.Reader
}

func newMockReader(rate int, samples ...int16) *mockMp3Reader {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(s))
	}
	return &mockMp3Reader{rate: rate, pcm: bytes.NewReader(raw)}
}

func (m *mockMp3Reader) Read(p []byte) (int, error) { return m.pcm.Read(p) }
func (m *mockMp3Reader) SampleRate() int            { return m.rate }

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(44100, 0, 16384, -16384, 32767, -32768, 1))

	assert.Equal(t, 44100, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, 4096, src.BufSize())

	got, err := audio.ReadAll(src, 4)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.InDelta(t, 0.5, got[1], 1e-6)
	assert.InDelta(t, -0.5, got[2], 1e-6)
	assert.InDelta(t, -1, got[4], 1e-6)
	assert.NoError(t, src.Close())
}

func TestSource_GrowsBuffer(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 10000)
	src := newSource(newMockReader(22050, samples...))

	n, err := src.ReadSamples(make([]float32, 10000))
	require.NoError(t, err)
	assert.Equal(t, 10000, n)

	_, err = src.ReadSamples(make([]float32, 2))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_Invalid(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("not an mpeg stream")} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrNotMp3File)
	}

	assert.Equal(t, "mp3", Decoder{}.Name())
}
