// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files.
//
// Decoding is backed by github.com/go-audio/aiff. Big-endian integer PCM of
// 8, 16, 24 or 32 bits is accepted with any channel count and sample rate;
// samples are delivered through audio.Source as float32 in [-1, 1].
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // try another format
//	}
package aiff
