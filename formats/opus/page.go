// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"errors"
	"io"

	"github.com/thesyncim/gopus/container/ogg"
)

// granuleUnset is the on-wire granule position of a page on which no packet
// completes.
const granuleUnset = -1

// Page is one framed Ogg page.
type Page struct {
	Serial    uint32
	Sequence  uint32
	Granule   int64
	BOS       bool
	EOS       bool
	Continued bool
	Segments  []byte
	Payload   []byte
}

// Unterminated reports whether the last packet on the page continues on the
// next page.
func (p *Page) Unterminated() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1] == 255
}

// PageSource yields the pages of a physical bitstream in order. NextPage
// returns io.EOF once the input is exhausted.
type PageSource interface {
	NextPage() (*Page, error)
}

var capturePattern = []byte("OggS")

// bufferPages frames pages out of an in-memory buffer. Bytes that do not
// parse as a page (garbage, bad CRC, truncated tail) are skipped up to the
// next capture pattern.
type bufferPages struct {
	data    []byte
	off     int
	skipped int
}

// NewPageSource returns a PageSource over data.
func NewPageSource(data []byte) PageSource {
	return &bufferPages{data: data}
}

func (b *bufferPages) NextPage() (*Page, error) {
	for b.off < len(b.data) {
		idx := bytes.Index(b.data[b.off:], capturePattern)
		if idx < 0 {
			b.skipped += len(b.data) - b.off
			b.off = len(b.data)
			break
		}
		b.skipped += idx
		b.off += idx

		p, n, err := ogg.ParsePage(b.data[b.off:])
		if err != nil {
			if errors.Is(err, ogg.ErrInvalidPage) || errors.Is(err, ogg.ErrBadCRC) {
				// lost sync; hunt for the next capture pattern
				b.off++
				b.skipped++
				continue
			}
			return nil, err
		}
		if p.Version != 0 {
			b.off++
			b.skipped++
			continue
		}
		b.off += n

		return fromOggPage(p), nil
	}

	return nil, io.EOF
}

// Skipped returns the number of bytes that were discarded while hunting for
// page boundaries.
func (b *bufferPages) Skipped() int { return b.skipped }

func fromOggPage(p *ogg.Page) *Page {
	granule := int64(p.GranulePos)
	if p.GranulePos == ^uint64(0) {
		granule = granuleUnset
	}

	return &Page{
		Serial:    p.SerialNumber,
		Sequence:  p.PageSequence,
		Granule:   granule,
		BOS:       p.IsBOS(),
		EOS:       p.IsEOS(),
		Continued: p.IsContinuation(),
		Segments:  p.Segments,
		Payload:   p.Payload,
	}
}
