// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with
// github.com/jfreymuth/oggvorbis.
//
// Ogg Vorbis and Ogg Opus share a container and a MIME type, so the
// Decoder implements audio.Sniffer and claims only inputs whose first page
// starts with a Vorbis identification header.
package vorbis
