// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"

	"github.com/thesyncim/gopus/container/ogg"
)

// Page flags, as written in the Ogg header type byte.
const (
	Continued = ogg.PageFlagContinuation
	BOS       = ogg.PageFlagBOS
	EOS       = ogg.PageFlagEOS
)

// NoGranule is the granule position of a page on which no packet ends.
const NoGranule int64 = -1

// OggBuilder assembles a physical Ogg bitstream page by page. Page
// sequence numbers are tracked per serial.
type OggBuilder struct {
	buf bytes.Buffer
	seq map[uint32]uint32
}

func NewOggBuilder() *OggBuilder {
	return &OggBuilder{seq: make(map[uint32]uint32)}
}

// Page appends a page with an explicit segment table.
func (b *OggBuilder) Page(serial uint32, granule int64, flags byte, segments, payload []byte) *OggBuilder {
	p := ogg.Page{
		HeaderType:   flags,
		GranulePos:   uint64(granule),
		SerialNumber: serial,
		PageSequence: b.seq[serial],
		Segments:     segments,
		Payload:      payload,
	}
	b.seq[serial]++
	b.buf.Write(p.Encode())

	return b
}

// Packets appends one page holding the given complete packets.
func (b *OggBuilder) Packets(serial uint32, granule int64, flags byte, packets ...[]byte) *OggBuilder {
	var segments, payload []byte
	for _, pkt := range packets {
		segments = append(segments, ogg.BuildSegmentTable(len(pkt))...)
		payload = append(payload, pkt...)
	}
	return b.Page(serial, granule, flags, segments, payload)
}

// Headers appends the identification and comment header pages of a stream.
func (b *OggBuilder) Headers(serial uint32, channels, preSkip int) *OggBuilder {
	return b.Packets(serial, 0, BOS, OpusHead(channels, preSkip)).
		Packets(serial, 0, 0, OpusTags("audiotest", map[string]string{"TITLE": "fixture"}))
}

// Raw appends bytes that are not a page.
func (b *OggBuilder) Raw(data []byte) *OggBuilder {
	b.buf.Write(data)
	return b
}

func (b *OggBuilder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// OpusHead encodes a family 0 identification header, or a family 1 header
// for more than two channels.
func OpusHead(channels, preSkip int) []byte {
	var h *ogg.OpusHead
	if channels <= 2 {
		h = ogg.DefaultOpusHead(48000, uint8(channels))
	} else {
		mapping := make([]byte, channels)
		for i := range mapping {
			mapping[i] = byte(i)
		}
		h = ogg.DefaultOpusHeadMultistream(48000, uint8(channels), uint8(channels), 0, mapping)
	}
	h.PreSkip = uint16(preSkip)

	return h.Encode()
}

func OpusTags(vendor string, comments map[string]string) []byte {
	t := &ogg.OpusTags{Vendor: vendor, Comments: comments}
	return t.Encode()
}
