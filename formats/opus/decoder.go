// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/oggopus/audio"
)

// Decoder adapts the Ogg Opus demuxer to audio.Decoder. The zero value
// decodes with GopusCodec and logs to slog.Default().
type Decoder struct {
	Codec  Codec
	Logger *slog.Logger
}

func (Decoder) Name() string { return "opus" }

// Sniff reports whether head starts with an Ogg page whose first packet is
// an Opus identification header.
func (Decoder) Sniff(head []byte) bool {
	const fixed = 27
	if len(head) < fixed || !bytes.Equal(head[:4], capturePattern) {
		return false
	}

	start := fixed + int(head[26])
	return len(head) >= start+len(headMagic) && string(head[start:start+len(headMagic)]) == headMagic
}

func (d Decoder) session() *Session {
	return NewSession(WithCodec(d.Codec), WithLogger(d.Logger))
}

// DecodeBytes decodes a complete Ogg Opus buffer.
func (d Decoder) DecodeBytes(data []byte) (*PCM, error) {
	return d.session().Decode(data)
}

// Decode reads r to the end and returns the decoded audio as an in-memory
// Source at SampleRate.
func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ogg opus input: %w", err)
	}

	pcm, err := d.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	src, err := audio.NewBufferSource(pcm.SampleRate, pcm.Channels, pcm.Samples)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return src, nil
}
