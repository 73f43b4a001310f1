// SPDX-License-Identifier: EPL-2.0

package oggopus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/ik5/oggopus/audio"
	"github.com/ik5/oggopus/formats/aiff"
	"github.com/ik5/oggopus/formats/mp3"
	"github.com/ik5/oggopus/formats/opus"
	"github.com/ik5/oggopus/formats/vorbis"
	"github.com/ik5/oggopus/formats/wav"
)

// NewRegistry returns a registry holding every bundled decoder. Opus is
// registered ahead of Vorbis so that its signature check runs first.
func NewRegistry(logger *slog.Logger) *audio.Registry {
	reg := audio.NewRegistry()
	reg.SetLogger(logger)
	reg.Register("opus", opus.Decoder{Logger: logger})
	reg.Register("vorbis", vorbis.Decoder{})
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}

// fileSource closes the underlying file together with the decoder, since
// seeking decoders keep reading from it.
type fileSource struct {
	audio.Source
	f afero.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// DecodeFile sniffs the format of path and opens a decoder on it. A nil
// registry means NewRegistry(slog.Default()). Diagnostics go to the
// registry's logger.
func DecodeFile(fs afero.Fs, path string, reg *audio.Registry) (string, audio.Source, error) {
	if reg == nil {
		reg = NewRegistry(slog.Default())
	}

	f, err := fs.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", path, err)
	}

	head := make([]byte, audio.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}

	format, dec, err := reg.Detect(head[:n])
	if err != nil {
		f.Close()
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return "", nil, fmt.Errorf("rewinding %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return format, nil, fmt.Errorf("decoding %s as %s: %w", path, format, err)
	}

	reg.Logger().Debug("input opened",
		"path", path,
		"format", format,
		"sample_rate", src.SampleRate(),
		"channels", src.Channels())

	return format, &fileSource{Source: src, f: f}, nil
}
