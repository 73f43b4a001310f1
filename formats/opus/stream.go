// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"
	"log/slog"
)

type streamState int

const (
	stateIdle streamState = iota
	stateAwaitingTags
	stateStreaming
	stateClosed
)

func (s streamState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingTags:
		return "awaiting-tags"
	case stateStreaming:
		return "streaming"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("streamState(%d)", int(s))
	}
}

// linkContext tracks the logical stream currently being decoded.
type linkContext struct {
	serial      uint32
	active      bool
	packetCount int64
	hasTags     bool
	closedByEOS bool

	header *Header
	dec    FrameDecoder
	trim   trimWindow
	// link indexes the stream's entry in PCM.Links.
	link int
}

func (c *linkContext) state() streamState {
	switch {
	case c.active && c.packetCount < 2:
		return stateAwaitingTags
	case c.active:
		return stateStreaming
	case c.packetCount > 0:
		return stateClosed
	default:
		return stateIdle
	}
}

// machine classifies packets by position within the active logical stream
// and routes them to the header parser, the tags reader or the codec.
type machine struct {
	codec Codec
	log   *slog.Logger

	ctx        linkContext
	totalLinks int

	// buf is the decode arena, sized for MaxFrameSize frames of the widest
	// link seen so far and reused across packets.
	buf []float32
	out PCM
}

func newMachine(codec Codec, log *slog.Logger) *machine {
	return &machine{
		codec: codec,
		log:   log,
		out:   PCM{SampleRate: SampleRate},
	}
}

func (m *machine) handle(pkt Packet) error {
	if isHeadCandidate(&pkt) {
		if m.ctx.active && m.ctx.hasTags {
			m.log.Info("chained stream supersedes active stream",
				"old_serial", m.ctx.serial,
				"new_serial", pkt.Serial,
				"packets", m.ctx.packetCount)
			m.closeLink(false)
		}

		switch {
		case !m.ctx.active:
			if m.ctx.packetCount > 0 && m.ctx.serial == pkt.Serial && !m.ctx.closedByEOS {
				return fmt.Errorf("%w: serial %08x", ErrIllegalChaining, pkt.Serial)
			}
			m.activate(pkt.Serial)

		case m.ctx.serial == pkt.Serial:
			return fmt.Errorf("%w: serial %08x restarted before its comment header", ErrIllegalChaining, pkt.Serial)

		default:
			m.log.Warn("ignoring competing opus stream",
				"active_serial", m.ctx.serial,
				"ignored_serial", pkt.Serial)
		}
	}

	if !m.ctx.active || pkt.Serial != m.ctx.serial {
		m.log.Debug("skipping packet outside active stream",
			"serial", pkt.Serial,
			"state", m.ctx.state().String())
		return nil
	}

	var err error
	switch m.ctx.packetCount {
	case 0:
		err = m.handleHeader(&pkt)
	case 1:
		err = m.handleTags(&pkt)
	default:
		err = m.handleAudio(&pkt)
	}
	if err != nil {
		return err
	}

	m.ctx.packetCount++

	if pkt.EOS {
		m.log.Debug("end of stream", "serial", m.ctx.serial, "packets", m.ctx.packetCount)
		m.closeLink(true)
	}

	return nil
}

// pageEnd runs once every packet completed on p has been handled. An EOS
// page on the active serial closes the link even when no packet ends on it.
func (m *machine) pageEnd(p *Page) {
	if !p.EOS || !m.ctx.active || p.Serial != m.ctx.serial {
		return
	}

	m.log.Debug("end of stream page", "serial", m.ctx.serial, "packets", m.ctx.packetCount)
	m.closeLink(true)
}

func (m *machine) activate(serial uint32) {
	m.ctx = linkContext{
		serial: serial,
		active: true,
	}
	m.totalLinks++

	m.log.Debug("opus stream activated", "serial", serial, "link", m.totalLinks)
}

func (m *machine) handleHeader(pkt *Packet) error {
	h, dec, err := parseHeader(m.codec, pkt.Data)
	if err != nil {
		return fmt.Errorf("serial %08x: %w", pkt.Serial, err)
	}
	m.ctx.dec = dec

	if pkt.Trailing {
		return fmt.Errorf("%w: identification header of serial %08x shares its page", ErrInvalidPacket, pkt.Serial)
	}

	if len(m.out.Links) > 0 && h.Channels != m.out.Channels {
		return fmt.Errorf("%w: chained serial %08x changes channel count from %d to %d",
			ErrInvalidHeader, pkt.Serial, m.out.Channels, h.Channels)
	}
	m.out.Channels = h.Channels

	m.ctx.header = h
	m.ctx.trim = newTrimWindow(h.PreSkip)
	m.ctx.link = len(m.out.Links)
	m.out.Links = append(m.out.Links, Link{
		Serial: pkt.Serial,
		Header: *h,
	})

	if need := MaxFrameSize * h.Channels; cap(m.buf) < need {
		m.buf = make([]float32, need)
	}
	m.buf = m.buf[:MaxFrameSize*h.Channels]

	m.log.Debug("identification header",
		"serial", pkt.Serial,
		"channels", h.Channels,
		"pre_skip", h.PreSkip,
		"input_rate", h.InputSampleRate,
		"mapping_family", h.MappingFamily)

	return nil
}

func (m *machine) handleTags(pkt *Packet) error {
	m.ctx.hasTags = true

	if pkt.Trailing {
		return fmt.Errorf("%w: extra packets on the comment header page of serial %08x", ErrInvalidPacket, pkt.Serial)
	}

	vendor, comments, err := parseTags(pkt.Data)
	if err != nil {
		m.log.Warn("unreadable comment header", "serial", pkt.Serial, "error", err)
		return nil
	}

	link := &m.out.Links[m.ctx.link]
	link.Vendor = vendor
	link.Comments = comments

	return nil
}

func (m *machine) handleAudio(pkt *Packet) error {
	n, err := m.ctx.dec.Decode(pkt.Data, m.buf)
	if err != nil || n < 0 {
		code := 0
		if n < 0 {
			code = n
		}
		return &DecodeError{Code: code, Serial: pkt.Serial, Packet: m.ctx.packetCount, Err: err}
	}
	if n > MaxFrameSize {
		return &DecodeError{
			Serial: pkt.Serial,
			Packet: m.ctx.packetCount,
			Err:    fmt.Errorf("codec returned %d samples, capacity is %d", n, MaxFrameSize),
		}
	}

	var emitted int64
	m.out.Samples, emitted = emit(m.out.Samples, m.buf, n, m.ctx.header.Channels,
		m.ctx.header.Gain(), pkt.Granule, &m.ctx.trim)
	m.out.Links[m.ctx.link].Frames += emitted

	return nil
}

// closeLink marks the active stream closed and releases its decoder.
func (m *machine) closeLink(eos bool) {
	m.ctx.active = false
	m.ctx.closedByEOS = eos
	if m.ctx.header != nil {
		m.out.Links[m.ctx.link].EndedByEOS = eos
	}
	m.releaseDecoder()
}

func (m *machine) releaseDecoder() {
	if m.ctx.dec == nil {
		return
	}
	if err := m.ctx.dec.Close(); err != nil {
		m.log.Warn("closing decoder", "serial", m.ctx.serial, "error", err)
	}
	m.ctx.dec = nil
}

// release frees the decoder and the decode arena. It is safe to call more
// than once.
func (m *machine) release() {
	m.releaseDecoder()
	m.buf = nil
}
