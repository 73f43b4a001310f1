// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Session decodes complete Ogg Opus buffers. A Session holds no per-buffer
// state and may be reused, including from several goroutines.
type Session struct {
	codec     Codec
	log       *slog.Logger
	newSource func(data []byte) PageSource
}

// Option configures a Session.
type Option func(*Session)

// WithCodec replaces the Opus codec. The default is GopusCodec.
func WithCodec(c Codec) Option {
	return func(s *Session) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger sets the logger used for diagnostics. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPageSource replaces the Ogg page parser.
func WithPageSource(fn func(data []byte) PageSource) Option {
	return func(s *Session) {
		if fn != nil {
			s.newSource = fn
		}
	}
}

// NewSession returns a Session configured by opts.
func NewSession(opts ...Option) *Session {
	s := &Session{
		codec: GopusCodec{},
		log:   slog.Default(),
		newSource: func(data []byte) PageSource {
			return NewPageSource(data)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decode demultiplexes data and decodes every Opus link it contains into a
// single interleaved PCM buffer. Pre-skip and end trimming are applied per
// link. On error no partial output is returned.
func (s *Session) Decode(data []byte) (*PCM, error) {
	m := newMachine(s.codec, s.log)
	defer m.release()

	src := s.newSource(data)
	r := newReassembler(s.log)

	for {
		page, err := src.NextPage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedStream, err)
		}

		if err := r.pagein(page); err != nil {
			return nil, err
		}

		for {
			pkt, ok := r.packetout()
			if !ok {
				break
			}
			if err := m.handle(pkt); err != nil {
				return nil, err
			}
		}
		m.pageEnd(page)
	}

	if m.totalLinks == 0 {
		return nil, ErrNotOpusStream
	}

	if err := r.finish(); err != nil {
		return nil, err
	}

	if sk, ok := src.(interface{ Skipped() int }); ok && sk.Skipped() > 0 {
		s.log.Warn("skipped bytes outside valid pages", "bytes", sk.Skipped())
	}

	out := m.out
	s.log.Debug("decoded ogg opus buffer",
		"links", len(out.Links),
		"channels", out.Channels,
		"frames", out.Frames())

	return &out, nil
}

// Decode decodes data with a Session built from opts.
func Decode(data []byte, opts ...Option) (*PCM, error) {
	return NewSession(opts...).Decode(data)
}
