// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/ik5/oggopus/internal/audiotest"
)

// fakeCodec parses real identification headers but decodes every packet to
// a fixed number of frames. Sample values count decoded frames per
// decoder, so the first emitted sample of a link tells how much was
// trimmed.
type fakeCodec struct {
	frames int

	parseErr  error
	initErr   error
	decodeErr error
	// failAt makes the n-th Decode call of a decoder fail; 0 never fails.
	failAt int

	mu       sync.Mutex
	decoders []*fakeDecoder
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{frames: 960}
}

func (c *fakeCodec) ParseHeader(packet []byte) (*Header, error) {
	if c.parseErr != nil {
		return nil, c.parseErr
	}
	return GopusCodec{}.ParseHeader(packet)
}

func (c *fakeCodec) NewDecoder(sampleRate int, h *Header) (FrameDecoder, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	d := &fakeDecoder{codec: c, channels: h.Channels}

	c.mu.Lock()
	c.decoders = append(c.decoders, d)
	c.mu.Unlock()

	return d, nil
}

func (c *fakeCodec) created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.decoders)
}

// closes returns how many times each created decoder was closed.
func (c *fakeCodec) closes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int, len(c.decoders))
	for i, d := range c.decoders {
		out[i] = d.closes
	}
	return out
}

type fakeDecoder struct {
	codec    *fakeCodec
	channels int
	calls    int
	next     int
	closes   int
}

func (d *fakeDecoder) Decode(packet []byte, pcm []float32) (int, error) {
	d.calls++
	if d.codec.failAt > 0 && d.calls >= d.codec.failAt {
		return -4, d.codec.decodeErr
	}

	for f := range d.codec.frames {
		for ch := range d.channels {
			pcm[f*d.channels+ch] = float32(d.next + f)
		}
	}
	d.next += d.codec.frames

	return d.codec.frames, nil
}

func (d *fakeDecoder) Close() error {
	d.codec.mu.Lock()
	d.closes++
	d.codec.mu.Unlock()
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// audioPacket is a one-byte code 0 packet; the fake codec ignores content.
func audioPacket(i int) []byte {
	return []byte{0xfc, byte(i)}
}

// writeLink appends headers and n audio pages of 960 frames each. The
// last page is flagged EOS when eos is set, and its granule reduced by
// endTrim.
func writeLink(b *audiotest.OggBuilder, serial uint32, channels, preSkip, n int, eos bool, endTrim int) *audiotest.OggBuilder {
	b.Headers(serial, channels, preSkip)
	for i := 1; i <= n; i++ {
		var flags byte
		granule := int64(i * 960)
		if i == n {
			granule -= int64(endTrim)
			if eos {
				flags = audiotest.EOS
			}
		}
		b.Packets(serial, granule, flags, audioPacket(i))
	}
	return b
}

func decodeFake(t *testing.T, codec *fakeCodec, data []byte) (*PCM, error) {
	t.Helper()
	return Decode(data, WithCodec(codec), WithLogger(discardLogger()))
}
