// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"
	"log/slog"
)

// Packet is a complete codec packet rebuilt from the pages of one logical
// stream.
type Packet struct {
	Data   []byte
	Serial uint32
	// Seq is the ordinal of the packet since the reassembler last reset.
	Seq int64
	// BOS is set on the first packet completed on a beginning-of-stream page.
	BOS bool
	// EOS is set on the last packet completed on an end-of-stream page.
	EOS bool
	// Granule is the granule position of the page the packet completed on.
	Granule int64
	// Trailing reports that more packet data follows on the same page.
	Trailing bool
}

// reassembler turns the pages of the tracked logical stream into packets.
// Pages are fed with pagein and the completed packets drained with packetout.
type reassembler struct {
	log *slog.Logger

	serial  uint32
	tracked bool
	seq     int64

	partial    []byte
	hasPartial bool

	queue []Packet
}

func newReassembler(log *slog.Logger) *reassembler {
	return &reassembler{log: log}
}

func (r *reassembler) reset(serial uint32) {
	if r.hasPartial {
		r.log.Debug("dropping partial packet on stream reset",
			"serial", r.serial,
			"bytes", len(r.partial))
	}

	r.serial = serial
	r.tracked = true
	r.seq = 0
	r.partial = r.partial[:0]
	r.hasPartial = false
	r.queue = r.queue[:0]
}

// pagein splits a page into packets, joining a packet carried over from the
// previous page when the page continues it.
func (r *reassembler) pagein(p *Page) error {
	if !r.tracked || p.Serial != r.serial || (p.BOS && r.seq > 0) {
		r.reset(p.Serial)
	}

	total := 0
	for _, seg := range p.Segments {
		total += int(seg)
	}
	if total > len(p.Payload) {
		return fmt.Errorf("%w: page %d of serial %08x declares %d payload bytes, has %d",
			ErrMalformedStream, p.Sequence, p.Serial, total, len(p.Payload))
	}

	// number of packets completed on this page
	completed := 0
	for _, seg := range p.Segments {
		if seg < 255 {
			completed++
		}
	}

	dropLeading := false
	switch {
	case r.hasPartial && !p.Continued:
		return fmt.Errorf("%w: packet of serial %08x truncated before page %d",
			ErrMalformedStream, p.Serial, p.Sequence)
	case !r.hasPartial && p.Continued:
		r.log.Debug("dropping leading fragment of continued page",
			"serial", p.Serial,
			"page", p.Sequence)
		dropLeading = true
	}

	if p.EOS && p.Unterminated() {
		return fmt.Errorf("%w: end-of-stream page %d of serial %08x ends mid-packet",
			ErrMalformedStream, p.Sequence, p.Serial)
	}

	off := 0
	done := 0
	first := true
	for _, seg := range p.Segments {
		n := int(seg)
		if !dropLeading {
			r.partial = append(r.partial, p.Payload[off:off+n]...)
			r.hasPartial = true
		}
		off += n

		if seg == 255 {
			continue
		}

		done++
		if dropLeading {
			dropLeading = false
			first = false
			continue
		}

		data := make([]byte, len(r.partial))
		copy(data, r.partial)

		r.queue = append(r.queue, Packet{
			Data:     data,
			Serial:   p.Serial,
			Seq:      r.seq,
			BOS:      p.BOS && first && !p.Continued,
			EOS:      p.EOS && done == completed,
			Granule:  p.Granule,
			Trailing: done < completed || p.Unterminated(),
		})
		r.seq++

		r.partial = r.partial[:0]
		r.hasPartial = false
		first = false
	}

	return nil
}

// packetout pops the next completed packet.
func (r *reassembler) packetout() (Packet, bool) {
	if len(r.queue) == 0 {
		return Packet{}, false
	}

	pkt := r.queue[0]
	r.queue = r.queue[1:]

	return pkt, true
}

// finish reports a packet left incomplete when the input ran out.
func (r *reassembler) finish() error {
	if r.hasPartial {
		return fmt.Errorf("%w: input ended inside a packet of serial %08x (%d bytes pending)",
			ErrMalformedStream, r.serial, len(r.partial))
	}
	return nil
}
