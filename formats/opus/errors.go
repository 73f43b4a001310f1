// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedStream indicates truncated or ill-framed Ogg data, such as a
	// packet that spans pages but never completes.
	ErrMalformedStream = errors.New("opus: malformed ogg stream")

	// ErrIllegalChaining indicates a logical stream serial number reappearing
	// with a new identification header without an end-of-stream marker.
	ErrIllegalChaining = errors.New("opus: illegal chaining without serial number change")

	// ErrInvalidHeader indicates an identification header that cannot be
	// parsed into channel count, pre-skip and stream mapping.
	ErrInvalidHeader = errors.New("opus: invalid identification header")

	// ErrInvalidPacket indicates a header packet that does not sit alone on
	// its page.
	ErrInvalidPacket = errors.New("opus: invalid packet placement")

	// ErrCodecInit indicates the codec rejected the channel/mapping
	// combination of a stream.
	ErrCodecInit = errors.New("opus: codec initialisation failed")

	// ErrDecode indicates the codec failed to decode an audio packet.
	ErrDecode = errors.New("opus: decode failed")

	// ErrNotOpusStream indicates no Opus identification header was ever found.
	ErrNotOpusStream = errors.New("opus: does not look like an Ogg Opus stream")
)

// DecodeError is returned when the codec reports a failure for an audio
// packet. Code carries the codec status (negative) when one is available.
type DecodeError struct {
	Code   int
	Serial uint32
	Packet int64
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("opus: decode failed (serial %08x, packet %d, code %d): %v", e.Serial, e.Packet, e.Code, e.Err)
	}
	return fmt.Sprintf("opus: decode failed (serial %08x, packet %d, code %d)", e.Serial, e.Packet, e.Code)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
