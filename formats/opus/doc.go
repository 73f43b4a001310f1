// SPDX-License-Identifier: EPL-2.0

// Package opus decodes Ogg-encapsulated Opus audio held in memory.
//
// A decode runs as a pipeline over the input buffer: Ogg pages are framed,
// packets are reassembled across page boundaries, each logical stream is
// classified into identification header, comment header and audio packets,
// and the decoded audio is trimmed so that only the audible samples remain.
//
// # Usage
//
//	pcm, err := opus.Decode(data)
//	if err != nil {
//	    return err
//	}
//	// pcm.Samples holds interleaved float32 at 48 kHz
//
// # Chained Streams
//
// Files made by concatenating several Ogg Opus streams are decoded in order
// into a single buffer. Each link is described in PCM.Links. All links must
// share one channel count.
//
// A link only counts as started once its comment header has arrived. An
// identification header for a different stream seen before that point is
// ignored, so multiplexed files decode their first Opus stream.
//
// # Trimming
//
// The first PreSkip samples of every link are discarded, and the granule
// position of each page caps the samples emitted so far, which removes the
// encoder padding at the end of a link.
//
// # Errors
//
// Failures are reported with sentinel errors (ErrMalformedStream,
// ErrIllegalChaining, ErrInvalidHeader, ErrInvalidPacket, ErrCodecInit,
// ErrNotOpusStream) and *DecodeError, which matches ErrDecode:
//
//	if errors.Is(err, opus.ErrNotOpusStream) {
//	    // try another format
//	}
//
// No output is returned once an error occurs.
package opus
