// Package commands implements the upmix command line.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-upmix/dsp/upmix"
	"github.com/cwbudde/algo-upmix/internal/audiofile"
)

// ErrUsage is returned when the positional arguments are wrong.
var ErrUsage = errors.New("expected exactly two arguments: <input> <output>")

// NewRootCmd builds the upmix command.
func NewRootCmd() *cobra.Command {
	s := &settings{}

	cmd := &cobra.Command{
		Use:   "upmix [flags] <input> <output>",
		Short: "Extract a center channel from a stereo recording",
		Long: `upmix converts a stereo recording into a three-channel WAV file.

For every frequency bin the quieter of the two channels is taken as the
center estimate. The center signal is subtracted from both inputs, and the
output channels are left residual, right residual and center.

Input formats: WAV (16/24/32-bit PCM), MP3, FLAC. The input must be stereo.
Output: 24-bit PCM WAV at the input sample rate.

Example config file (upmix.yaml):
  window_size: 4096
  overlap: 128
  engine: algofft
  log_level: info

Examples:
  upmix song.wav song-3ch.wav
  upmix --overlap 64 --window-size 2048 song.flac out.wav
  upmix --config upmix.yaml --quiet song.mp3 out.wav`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, level, err := s.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) != 2 {
				_ = cmd.Usage()
				return fmt.Errorf("%w, got %d", ErrUsage, len(args))
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return convert(cmd, cfg, logger, s.quiet, args[0], args[1])
		},
	}
	s.register(cmd.Flags())

	return cmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func convert(cmd *cobra.Command, cfg upmix.Config, logger *slog.Logger, quiet bool, inPath, outPath string) (err error) {
	in, err := audiofile.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := audiofile.RequireChannels(in, upmix.InputChannels); err != nil {
		return err
	}

	logger.Info("input",
		"path", in.Path(),
		"format", in.Format(),
		"sample_rate", in.SampleRate(),
		"channels", in.Channels(),
		"bit_depth", in.BitDepth(),
		"frames", in.Frames(),
	)
	logger.Debug("config",
		"window_size", cfg.WindowSize,
		"overlap", cfg.Overlap,
		"skip_size", cfg.SkipSize(),
		"engine", cfg.Engine.String(),
	)

	opts := []upmix.Option{upmix.WithLogger(logger)}
	var progress *progressLine
	if !quiet {
		progress = newProgressLine(cmd.ErrOrStderr(), "upmix", in.Frames(), in.SampleRate())
		opts = append(opts, upmix.WithProgress(progress.start, progress.update))
	}

	u, err := upmix.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer u.Close()

	out, err := audiofile.Create(outPath, in.SampleRate(), upmix.OutputChannels)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	sink := newMeteredSink(out)
	start := time.Now()
	stats, err := u.Run(in, sink)
	if progress != nil {
		progress.finish(stats.Written)
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", inPath, err)
	}

	logger.Info("output",
		"path", out.Path(),
		"channels", upmix.OutputChannels,
		"bit_depth", audiofile.OutputBitDepth,
		"frames", stats.Written,
		"iterations", stats.Iterations,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	sink.log(logger)
	return nil
}
