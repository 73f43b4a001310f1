// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ik5/oggopus/internal/config"
)

const Version = "0.1.0"

// CLI represents the command-line interface
type CLI struct {
	rootCmd *cobra.Command
	fs      afero.Fs
	stdout  io.Writer
	stderr  io.Writer

	cfg    *config.Config
	logger *slog.Logger
	// closers are released when a command finishes
	closers []io.Closer
}

// New builds the command tree. All file access goes through fs.
func New(fs afero.Fs, stdout, stderr io.Writer) *CLI {
	c := &CLI{
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	rootCmd := &cobra.Command{
		Use:               "oggopus",
		Short:             "Decode Ogg Opus files to PCM",
		Long:              "oggopus demuxes Ogg Opus files, including chained ones, and writes the decoded audio as WAV.",
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { c.teardown() },
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(c.newDecodeCommand(), c.newInfoCommand())
	c.rootCmd = rootCmd

	return c
}

// Execute runs the command line in args.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	defer c.teardown()

	return c.rootCmd.ExecuteContext(ctx)
}

// setup loads the configuration and installs the logger. Loading logs
// through the bootstrap logger built in New.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.NewManager(c.fs).WithLogger(c.logger).Load(configFile)
	if err != nil {
		return err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	c.cfg = cfg
	c.setupLogging()

	return nil
}

func (c *CLI) setupLogging() {
	writers := []io.Writer{c.stderr}

	if fl := c.cfg.FileLogging; fl.Enabled {
		filename := fl.Filename
		if filename == "" {
			filename = config.LogPath()
		}

		fileWriter := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    fl.MaxSizeMB,
			MaxBackups: fl.MaxBackups,
			MaxAge:     fl.MaxAgeDays,
			Compress:   fl.Compress,
		}
		writers = append(writers, fileWriter)
		c.closers = append(c.closers, fileWriter)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: c.cfg.SlogLevel(),
	})
	c.logger = slog.New(handler)

	c.logger.Debug("logging setup completed",
		"level", c.cfg.SlogLevel().String(),
		"writers", len(writers),
		"file_enabled", c.cfg.FileLogging.Enabled)
}

func (c *CLI) teardown() {
	for _, cl := range c.closers {
		cl.Close()
	}
	c.closers = nil
}
