// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ik5/oggopus/formats/opus"
	"github.com/ik5/oggopus/utils"
)

func (c *CLI) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Describe the logical streams of Ogg Opus files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runInfo,
	}
}

func (c *CLI) runInfo(cmd *cobra.Command, args []string) error {
	dec := opus.Decoder{Logger: c.logger}

	for _, path := range args {
		data, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		pcm, err := dec.DecodeBytes(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		printInfo(cmd.OutOrStdout(), path, pcm)
	}

	return nil
}

func duration(frames int64) time.Duration {
	return time.Duration(frames) * time.Second / opus.SampleRate
}

func printInfo(w io.Writer, path string, pcm *opus.PCM) {
	fmt.Fprintf(w, "%s: %d link(s), %d channel(s), %s\n",
		path, len(pcm.Links), pcm.Channels, duration(int64(pcm.Frames())))

	for i, l := range pcm.Links {
		h := l.Header
		fmt.Fprintf(w, "  link %d: serial %08x, %d channel(s), family %d, pre-skip %d, input rate %d Hz, gain %.2f dB, %s",
			i, l.Serial, h.Channels, h.MappingFamily, h.PreSkip, h.InputSampleRate, utils.Q78ToDB(h.OutputGain), duration(l.Frames))
		if !l.EndedByEOS {
			fmt.Fprint(w, " (truncated)")
		}
		fmt.Fprintln(w)

		if l.Vendor != "" {
			fmt.Fprintf(w, "    vendor: %s\n", l.Vendor)
		}
		for _, k := range slices.Sorted(maps.Keys(l.Comments)) {
			fmt.Fprintf(w, "    %s=%s\n", k, l.Comments[k])
		}
	}
}
