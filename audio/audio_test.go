// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDecoder struct{ name string }

func (nopDecoder) Decode(io.Reader) (Source, error) { return nil, nil }

type sniffDecoder struct {
	nopDecoder
	magic []byte
}

func (s sniffDecoder) Sniff(head []byte) bool { return bytes.Contains(head, s.magic) }

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("WAV", nopDecoder{name: "a"})
	r.Register("mp3", nopDecoder{name: "b"})

	d, ok := r.Get("wav")
	require.True(t, ok)
	assert.Equal(t, nopDecoder{name: "a"}, d)

	_, ok = r.Get("flac")
	assert.False(t, ok)

	// re-registering replaces the decoder but keeps the format listed once
	r.Register("wav", nopDecoder{name: "c"})
	d, _ = r.Get("wav")
	assert.Equal(t, nopDecoder{name: "c"}, d)
	assert.Equal(t, []string{"mp3", "wav"}, r.Formats())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("f%d", i%4)
			r.Register(name, nopDecoder{})
			_, _ = r.Get(name)
			_, _, _ = r.Detect([]byte("RIFF"))
		}()
	}
	wg.Wait()

	assert.Len(t, r.Formats(), 4)
}

func TestRegistry_Detect(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("wav", nopDecoder{name: "wav"})
	r.Register("mp3", nopDecoder{name: "mp3"})
	r.Register("aiff", nopDecoder{name: "aiff"})
	r.Register("opus", sniffDecoder{nopDecoder{name: "opus"}, []byte("OpusHead")})
	r.Register("vorbis", sniffDecoder{nopDecoder{name: "vorbis"}, []byte("\x01vorbis")})

	oggPage := func(packet string) []byte {
		head := append([]byte("OggS\x00\x02"), make([]byte, 20)...)
		head = append(head, 1, byte(len(packet)))
		return append(head, packet...)
	}

	tests := []struct {
		name string
		head []byte
		want string
	}{
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00"), "wav"},
		{"mp3 with id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), "mp3"},
		{"aiff", []byte("FORM\x00\x00\x00\x00AIFFCOMM"), "aiff"},
		{"ogg opus", oggPage("OpusHead\x01\x02"), "opus"},
		{"ogg vorbis", oggPage("\x01vorbis\x00\x00"), "vorbis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, d, err := r.Detect(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
			assert.NotNil(t, d)
		})
	}
}

func TestRegistry_DetectUnknown(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("wav", nopDecoder{})

	_, _, err := r.Detect([]byte("just some text"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorContains(t, err, "text/plain")

	// detected but not registered
	_, _, err = r.Detect([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_SetLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRegistry()
	r.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r.Register("opus", sniffDecoder{nopDecoder{name: "opus"}, []byte("OpusHead")})
	r.Register("wav", nopDecoder{name: "wav"})

	_, _, err := r.Detect([]byte("OggS OpusHead"))
	require.NoError(t, err)
	_, _, err = r.Detect([]byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00"))
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "decoder registered")
	assert.Contains(t, logs, "format detected by signature")
	assert.Contains(t, logs, "format detected by magic bytes")

	r.SetLogger(nil)
	assert.Same(t, slog.Default(), r.Logger())
}
