// SPDX-License-Identifier: EPL-2.0

// Package oggopus decodes Ogg Opus files to PCM.
//
// The demuxer itself lives in formats/opus: it reassembles packets from Ogg
// pages, follows chained streams link by link, trims pre-skip and end
// padding using granule positions, and hands packets to a pluggable Opus
// codec (github.com/thesyncim/gopus by default).
//
// This package wires that decoder into a format registry next to the WAV,
// MP3, Ogg Vorbis and AIFF decoders, so a caller can open any supported
// file and get an audio.Source back:
//
//	format, src, err := oggopus.DecodeFile(afero.NewOsFs(), "talk.opus", nil)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	pcm, rate, err := oggopus.ResampleToMono16(src, 8000, 4096)
//
// For buffers already in memory, call opus.Decode directly:
//
//	pcm, err := opus.Decode(data)
//	if errors.Is(err, opus.ErrNotOpusStream) {
//	    // not Opus at all
//	}
package oggopus
