// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer is implemented by decoders that can recognise their format from
// the first bytes of the input. Sniffers take priority over MIME detection,
// which cannot tell the codecs of an Ogg container apart.
type Sniffer interface {
	Sniff(head []byte) bool
}

// SniffLen is the number of leading bytes Detect needs.
const SniffLen = 512

// Registry for decoders by format key (e.g., "wav", "mp3", "opus").
type Registry struct {
	codecs map[string]Decoder
	// order keeps registration order for sniffing
	order []string
	log   *slog.Logger

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		log:    slog.Default(),
		mtx:    &sync.Mutex{},
	}
}

// SetLogger routes the registry's diagnostics to l. A nil l restores
// slog.Default().
func (r *Registry) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}

	r.mtx.Lock()
	r.log = l
	r.mtx.Unlock()
}

// Logger returns the logger set with SetLogger.
func (r *Registry) Logger() *slog.Logger {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.log
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	format = strings.ToLower(format)
	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d

	r.log.Debug("decoder registered", "format", format, "total_decoders", len(r.codecs))
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Formats returns the registered format keys, sorted.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mimeFormats maps detected MIME types to registry keys.
var mimeFormats = map[string]string{
	"audio/wav":       "wav",
	"audio/x-wav":     "wav",
	"audio/vnd.wave":  "wav",
	"audio/mpeg":      "mp3",
	"audio/x-mpeg":    "mp3",
	"audio/mp3":       "mp3",
	"audio/aiff":      "aiff",
	"audio/x-aiff":    "aiff",
	"audio/ogg":       "vorbis",
	"application/ogg": "vorbis",
}

// Detect picks a decoder for input starting with head. Registered Sniffers
// are consulted first, in registration order; MIME detection is the
// fallback.
func (r *Registry) Detect(head []byte) (string, Decoder, error) {
	r.mtx.Lock()
	log := r.log
	for _, format := range r.order {
		if s, ok := r.codecs[format].(Sniffer); ok && s.Sniff(head) {
			d := r.codecs[format]
			r.mtx.Unlock()

			log.Debug("format detected by signature", "format", format)
			return format, d, nil
		}
	}
	r.mtx.Unlock()

	mtype := mimetype.Detect(head)
	for m := mtype; m != nil; m = m.Parent() {
		format, ok := mimeFormats[strings.ToLower(m.String())]
		if !ok {
			continue
		}
		if d, ok := r.Get(format); ok {
			log.Debug("format detected by magic bytes",
				"format", format,
				"mime", mtype.String(),
				"bytes_analyzed", len(head))
			return format, d, nil
		}
	}

	return "", nil, fmt.Errorf("%w: %s", ErrUnknownFormat, mtype.String())
}
