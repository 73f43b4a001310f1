// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"

	"github.com/thesyncim/gopus"
	"github.com/thesyncim/gopus/container/ogg"
)

const (
	// SampleRate is the rate the codec decodes at and the rate of the
	// returned PCM.
	SampleRate = 48000

	// MaxFrameSize is the largest number of samples per channel a single
	// Opus packet can carry (120 ms at 48 kHz).
	MaxFrameSize = 960 * 6
)

// Codec is the external Opus capability the demuxer drives: identification
// header parsing and decoder construction.
type Codec interface {
	ParseHeader(packet []byte) (*Header, error)
	NewDecoder(sampleRate int, h *Header) (FrameDecoder, error)
}

// FrameDecoder decodes the audio packets of one logical stream. Decode
// writes interleaved samples into pcm and returns the number of samples per
// channel, or a negative count/error on failure.
type FrameDecoder interface {
	Decode(packet []byte, pcm []float32) (int, error)
	Close() error
}

// GopusCodec implements Codec on the pure Go decoder from
// github.com/thesyncim/gopus.
type GopusCodec struct{}

func (GopusCodec) ParseHeader(packet []byte) (*Header, error) {
	h, err := ogg.ParseOpusHead(packet)
	if err != nil {
		return nil, err
	}

	return headerFromOpusHead(h), nil
}

func (GopusCodec) NewDecoder(sampleRate int, h *Header) (FrameDecoder, error) {
	switch h.MappingFamily {
	case ogg.MappingFamilyRTP:
		dec, err := gopus.NewDecoder(gopus.DefaultDecoderConfig(sampleRate, h.Channels))
		if err != nil {
			return nil, err
		}
		return &gopusDecoder{dec: dec}, nil

	case ogg.MappingFamilyProjection:
		return nil, fmt.Errorf("mapping family %d (projection) is not supported", h.MappingFamily)

	default:
		dec, err := gopus.NewMultistreamDecoder(sampleRate, h.Channels, h.Streams, h.CoupledStreams, h.Mapping)
		if err != nil {
			return nil, err
		}
		return &gopusDecoder{dec: dec}, nil
	}
}

// floatDecoder is the decode method shared by gopus.Decoder and
// gopus.MultistreamDecoder.
type floatDecoder interface {
	Decode(data []byte, pcm []float32) (int, error)
}

type gopusDecoder struct {
	dec floatDecoder
}

func (g *gopusDecoder) Decode(packet []byte, pcm []float32) (int, error) {
	if g.dec == nil {
		return 0, fmt.Errorf("decoder already closed")
	}
	return g.dec.Decode(packet, pcm)
}

func (g *gopusDecoder) Close() error {
	g.dec = nil
	return nil
}
