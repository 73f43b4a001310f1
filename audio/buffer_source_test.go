// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSource(t *testing.T) {
	t.Parallel()

	src, err := NewBufferSource(48000, 2, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 48000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, 6, src.BufSize())

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, buf[:n])

	n, err = src.ReadSamples(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []float32{5, 6}, buf[:n])

	n, err = src.ReadSamples(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	_, err = src.ReadSamples(make([]float32, 3))
	assert.ErrorIs(t, err, ErrInvalidDstSize)

	require.NoError(t, src.Close())
}

func TestNewBufferSource_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewBufferSource(0, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewBufferSource(8000, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewBufferSource(8000, 2, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSource)
}
