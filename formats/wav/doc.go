// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files.
//
// Decoding is backed by github.com/go-audio/wav and accepts 16, 24 and
// 32-bit PCM with any channel count. Samples come out of the returned
// audio.Source as float32 in [-1, 1].
//
// There are two writers. Encode drains an audio.Source into 16 or 24-bit
// PCM and needs an io.WriteSeeker because the chunk sizes are patched once
// the length is known. WriteWAV16 writes already quantised int16 samples
// with a precomputed header, so it works on pipes:
//
//	pcm, _ := opus.Decode(data)
//	wav.WriteWAV16(os.Stdout, pcm.SampleRate, pcm.Channels, int16Samples)
package wav
