// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3. Output is always stereo float32 in [-1, 1]
// at the stream's sample rate.
package mp3
