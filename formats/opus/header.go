// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"

	"github.com/thesyncim/gopus/container/ogg"

	"github.com/ik5/oggopus/utils"
)

const (
	headMagic = "OpusHead"
	tagsMagic = "OpusTags"
)

// Header is the parsed identification header of one logical stream.
type Header struct {
	Channels int
	// PreSkip is the number of 48 kHz samples per channel to discard at the
	// start of the stream.
	PreSkip int
	// InputSampleRate is the rate of the encoder input. Informational only.
	InputSampleRate int
	// OutputGain is the gain to apply, in Q7.8 dB.
	OutputGain int16

	MappingFamily  int
	Streams        int
	CoupledStreams int
	// Mapping routes each output channel to a decoded stream channel.
	Mapping []byte
}

// Gain returns OutputGain as a linear amplitude factor.
func (h *Header) Gain() float32 {
	return utils.DBGainToLinear(utils.Q78ToDB(h.OutputGain))
}

func headerFromOpusHead(h *ogg.OpusHead) *Header {
	out := &Header{
		Channels:        int(h.Channels),
		PreSkip:         int(h.PreSkip),
		InputSampleRate: int(h.SampleRate),
		OutputGain:      h.OutputGain,
		MappingFamily:   int(h.MappingFamily),
		Streams:         int(h.StreamCount),
		CoupledStreams:  int(h.CoupledCount),
		Mapping:         h.ChannelMapping,
	}

	if out.MappingFamily == ogg.MappingFamilyRTP {
		out.Mapping = make([]byte, out.Channels)
		for i := range out.Mapping {
			out.Mapping[i] = byte(i)
		}
	}

	return out
}

// isHeadCandidate reports whether pkt may start a new logical stream.
func isHeadCandidate(pkt *Packet) bool {
	return pkt.BOS && len(pkt.Data) >= 8 && string(pkt.Data[:8]) == headMagic
}

// parseHeader decodes the identification header through the codec and
// creates the stream's decoder.
func parseHeader(codec Codec, data []byte) (*Header, FrameDecoder, error) {
	h, err := codec.ParseHeader(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if h.Channels < 1 || h.Channels > 255 {
		return nil, nil, fmt.Errorf("%w: channel count %d", ErrInvalidHeader, h.Channels)
	}
	if h.PreSkip < 0 {
		return nil, nil, fmt.Errorf("%w: negative pre-skip %d", ErrInvalidHeader, h.PreSkip)
	}

	dec, err := codec.NewDecoder(SampleRate, h)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %d channels, %d streams (%d coupled): %w",
			ErrCodecInit, h.Channels, h.Streams, h.CoupledStreams, err)
	}

	return h, dec, nil
}
