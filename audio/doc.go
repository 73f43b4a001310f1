// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming building blocks shared by the format
// decoders and the command line tool.
//
//   - Source, the pull interface every decoder returns
//   - BufferSource for audio that is already decoded into memory
//   - Resampler and MonoMixer, composed by Convert
//   - Registry, which maps format keys and file signatures to decoders
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1, 1]. ReadSamples returns io.EOF,
// possibly together with the final samples, once the stream is exhausted:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Conversion
//
// Convert chains a Resampler (cubic interpolation, low-pass filtered when
// downsampling) and a MonoMixer as needed:
//
//	out := audio.Convert(src, 8000, true)
//	samples, err := audio.ReadAll(out, 4096)
//
// # Format Detection
//
// Registry.Detect looks at the first SniffLen bytes of an input. Decoders
// implementing Sniffer are asked first, which is how Ogg Opus and Ogg
// Vorbis are told apart; other formats are recognised by MIME type.
//
//	registry.Register("opus", opus.Decoder{})
//	registry.Register("wav", wav.Decoder{})
//	format, dec, err := registry.Detect(head)
package audio
