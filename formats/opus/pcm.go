// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"encoding/binary"
	"math"

	"github.com/ik5/oggopus/utils"
)

// SampleFormat selects the byte layout produced by PCM.Bytes.
type SampleFormat int

const (
	Float32LE SampleFormat = iota
	Int16LE
)

// Link summarises one logical stream of a (possibly chained) file.
type Link struct {
	Serial   uint32
	Header   Header
	Vendor   string
	Comments map[string]string
	// Frames is the number of samples per channel emitted for the link.
	Frames     int64
	EndedByEOS bool
}

// PCM is the decoded output of a session: interleaved float32 samples in
// [-1, 1] at SampleRate.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []float32
	Links      []Link
}

// Frames returns the number of samples per channel.
func (p *PCM) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Bytes renders the samples as little-endian bytes in the given format.
func (p *PCM) Bytes(f SampleFormat) []byte {
	switch f {
	case Int16LE:
		out := make([]byte, 2*len(p.Samples))
		for i, s := range p.Samples {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(utils.Float32ToInt16(s)))
		}
		return out
	default:
		out := make([]byte, 4*len(p.Samples))
		for i, s := range p.Samples {
			binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
		}
		return out
	}
}

// outputRate is the nominal rate granule positions are scaled to. Output is
// never resampled, so it equals the codec rate.
const outputRate = SampleRate

// trimWindow carries the per-link trimming state.
type trimWindow struct {
	// preSkipRemaining counts decoded frames still to be discarded.
	preSkipRemaining int64
	// granOffset is the pre-skip of the link, subtracted from granule
	// positions.
	granOffset int64
	// linkOut counts frames emitted for the link.
	linkOut int64
}

func newTrimWindow(preSkip int) trimWindow {
	return trimWindow{
		preSkipRemaining: int64(preSkip),
		granOffset:       int64(preSkip),
	}
}

// maxOutput returns how many more frames the link may emit given the
// granule position of the current page. A negative result, which includes
// the unset granule, clamps to 0.
func (w *trimWindow) maxOutput(granule int64) int64 {
	g := granule - w.granOffset
	ceiling := g/SampleRate*outputRate + g%SampleRate*outputRate/SampleRate - w.linkOut
	if ceiling < 0 {
		return 0
	}
	return ceiling
}

// emit appends the audible part of one decoded block to out. decoded holds
// frames*channels interleaved samples. It returns the grown buffer and the
// number of frames appended.
func emit(out []float32, decoded []float32, frames, channels int, gain float32, granule int64, w *trimWindow) ([]float32, int64) {
	maxOut := w.maxOutput(granule)

	skip := min(w.preSkipRemaining, int64(frames))
	w.preSkipRemaining -= skip

	available := int64(frames) - skip
	if maxOut <= 0 || available <= 0 {
		return out, 0
	}

	n := min(available, maxOut)
	block := decoded[int(skip)*channels : int(skip+n)*channels]

	if gain == 1 {
		out = append(out, block...)
	} else {
		for _, s := range block {
			out = append(out, s*gain)
		}
	}

	w.linkOut += n
	return out, n
}
