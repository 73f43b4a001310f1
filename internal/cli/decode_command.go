// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/oggopus"
	"github.com/ik5/oggopus/audio"
	"github.com/ik5/oggopus/formats/wav"
	"github.com/ik5/oggopus/utils"
)

const stdoutTarget = "-"

var ErrStdoutNeedsOneInput = errors.New("writing to stdout needs exactly one input")

type decodeOptions struct {
	outDir   string
	rate     int
	mono     bool
	bitDepth int
	jobs     int
}

func (c *CLI) newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode FILE...",
		Short: "Decode audio files to WAV",
		Long: "Decode each input (Ogg Opus, Ogg Vorbis, WAV, MP3 or AIFF, detected from its content) " +
			"to <name>.wav in the output directory. Use -o - with a single input to stream WAV to stdout.",
		Args: cobra.MinimumNArgs(1),
		RunE: c.runDecode,
	}

	cmd.Flags().StringP("output", "o", ".", "Output directory, or - for stdout")
	cmd.Flags().Int("rate", 0, "Output sample rate in Hz (0 keeps the decoded rate)")
	cmd.Flags().Bool("mono", false, "Mix down to one channel")
	cmd.Flags().Int("bits", 16, "Output bit depth (16 or 24)")
	cmd.Flags().IntP("jobs", "j", 0, "Number of files decoded in parallel")

	return cmd
}

// decodeOptions merges the configured output settings with explicit flags.
func (c *CLI) decodeOptions(cmd *cobra.Command) (decodeOptions, error) {
	opts := decodeOptions{
		rate:     c.cfg.Output.SampleRate,
		mono:     c.cfg.Output.Mono,
		bitDepth: c.cfg.Output.BitDepth,
		jobs:     c.cfg.Jobs,
	}

	flags := cmd.Flags()
	opts.outDir, _ = flags.GetString("output")
	if flags.Changed("rate") {
		opts.rate, _ = flags.GetInt("rate")
	}
	if flags.Changed("mono") {
		opts.mono, _ = flags.GetBool("mono")
	}
	if flags.Changed("bits") {
		opts.bitDepth, _ = flags.GetInt("bits")
	}
	if flags.Changed("jobs") {
		opts.jobs, _ = flags.GetInt("jobs")
	}

	switch {
	case opts.rate < 0:
		return opts, fmt.Errorf("invalid --rate %d", opts.rate)
	case opts.bitDepth != 16 && opts.bitDepth != 24:
		return opts, fmt.Errorf("%w: %d", wav.ErrUnsupportedBitDepth, opts.bitDepth)
	case opts.jobs < 1:
		return opts, fmt.Errorf("invalid --jobs %d", opts.jobs)
	}

	return opts, nil
}

func (c *CLI) runDecode(cmd *cobra.Command, args []string) error {
	opts, err := c.decodeOptions(cmd)
	if err != nil {
		return err
	}

	reg := oggopus.NewRegistry(c.logger)

	if opts.outDir == stdoutTarget {
		if len(args) != 1 {
			return ErrStdoutNeedsOneInput
		}
		return c.decodeToStdout(reg, args[0], opts)
	}

	if err := c.fs.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.jobs)

	for _, path := range args {
		g.Go(func() error {
			return c.decodeFile(ctx, reg, path, opts)
		})
	}

	return g.Wait()
}

// outputPath maps an input path to <dir>/<base>.wav.
func outputPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".wav")
}

func (c *CLI) decodeFile(ctx context.Context, reg *audio.Registry, path string, opts decodeOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format, src, err := oggopus.DecodeFile(c.fs, path, reg)
	if err != nil {
		c.logger.Error("decode failed", "path", path, "error", err)
		return err
	}
	defer src.Close()

	out := audio.Convert(src, opts.rate, opts.mono)
	target := outputPath(opts.outDir, path)

	if err := c.writeWAV(target, out, opts.bitDepth); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	c.logger.Info("decoded",
		"input", path,
		"format", format,
		"output", target,
		"sample_rate", out.SampleRate(),
		"channels", out.Channels(),
		"bit_depth", opts.bitDepth)

	return nil
}

// writeWAV encodes src into a new file at target. A failed encode leaves
// no partial file behind.
func (c *CLI) writeWAV(target string, src audio.Source, bitDepth int) error {
	f, err := c.fs.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}

	if err := wav.Encode(f, src, bitDepth); err != nil {
		f.Close()
		if rmErr := c.fs.Remove(target); rmErr != nil {
			c.logger.Warn("removing partial output", "output", target, "error", rmErr)
		}
		return err
	}

	if err := f.Close(); err != nil {
		c.fs.Remove(target)
		return fmt.Errorf("closing %s: %w", target, err)
	}

	return nil
}

// decodeToStdout streams a 16-bit WAV, which needs no seeking.
func (c *CLI) decodeToStdout(reg *audio.Registry, path string, opts decodeOptions) error {
	if opts.bitDepth != 16 {
		return fmt.Errorf("%w: stdout output is 16-bit only", wav.ErrUnsupportedBitDepth)
	}

	_, src, err := oggopus.DecodeFile(c.fs, path, reg)
	if err != nil {
		return err
	}
	defer src.Close()

	out := audio.Convert(src, opts.rate, opts.mono)

	samples, err := audio.ReadAll(out, 4096)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	pcm := make([]int16, len(samples))
	for i, v := range samples {
		pcm[i] = utils.Float32ToInt16(v)
	}

	return wav.WriteWAV16(c.stdout, out.SampleRate(), out.Channels(), pcm)
}
