// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/oggopus/audio"
)

// ErrNotVorbisStream indicates the input is not an Ogg Vorbis stream.
var ErrNotVorbisStream = errors.New("not an Ogg Vorbis stream")

const identMagic = "\x01vorbis"

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	channels int
	bufSize  int
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return s.bufSize }

// ReadSamples fills dst with whole frames; oggvorbis counts interleaved
// values, not frames.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	return s.dec.Read(dst[:want])
}

type Decoder struct{}

func (Decoder) Name() string { return "vorbis" }

// Sniff reports whether head starts with an Ogg page carrying a Vorbis
// identification header.
func (Decoder) Sniff(head []byte) bool {
	const fixed = 27
	if len(head) < fixed || string(head[:4]) != "OggS" {
		return false
	}

	start := fixed + int(head[26])
	return len(head) >= start+len(identMagic) && string(head[start:start+len(identMagic)]) == identMagic
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisStream, err)
	}

	return &source{dec: dec, channels: dec.Channels(), bufSize: 4096}, nil
}
