//nolint:wrapcheck
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/tessitura"
	"github.com/farcloser/tessitura/internal/loader"
	"github.com/farcloser/tessitura/version"
)

var errNoInput = errors.New("no audio file name given")

// processFlags are the loader flags of the root command.
func processFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based), for containers read through ffmpeg",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  "normalize",
			Usage: "Scale samples to full scale [-1, 1) instead of raw integer amplitudes",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log pipeline stages to stderr",
		},
	}
}

// analysisFlags are shared with subcommands.
func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "frame-size",
			Aliases: []string{"n"},
			Usage:   "Transform window length in samples",
			Value:   tessitura.DefaultOptions().FrameSize,
		},
		&cli.StringFlag{
			Name:    "tuning",
			Aliases: []string{"T"},
			Usage:   "Reference tuning for A4: concert (440), baroque (415), classical (430), verdi (432)",
			Value:   "concert",
		},
		&cli.FloatFlag{
			Name:    "reference",
			Aliases: []string{"r"},
			Usage:   "A4 frequency in Hz, overrides --tuning",
		},
		&cli.FloatFlag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Usage:   "Noise floor as a ratio of the loudest bin (0.01 = -40 dB, 0 keeps every bin)",
			Value:   tessitura.DefaultOptions().ThresholdRatio,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Prefix of the result files (defaults to the input path)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format: console, json, markdown",
			Value:   "console",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"D"},
			Usage:   "Include every frame estimate in the report",
		},
	}
}

func processAction(ctx context.Context, cmd *cli.Command) error {
	filePath, err := inputPath(cmd)
	if err != nil {
		return err
	}

	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	buf, err := loader.Load(ctx, filePath, loader.Options{
		StreamIndex: cmd.Int("stream"),
		Normalize:   cmd.Bool("normalize"),
	})
	if err != nil {
		return fmt.Errorf("loading %s: %w", filePath, err)
	}

	return run(cmd, filePath, filePath, buf, opts)
}

// inputPath returns the first argument, prompting on stdin when there is none.
// Extra arguments are ignored with a warning.
func inputPath(cmd *cli.Command) (string, error) {
	switch cmd.NArg() {
	case 0:
		return promptPath(os.Stdin, os.Stderr)
	case 1:
	default:
		slog.Warn("usage: "+version.Name()+" <file>, using first argument as audio file name",
			"ignored", cmd.Args().Tail())
	}

	return cmd.Args().First(), nil
}

func promptPath(in io.Reader, out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Name of the audio file: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading file name: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", errNoInput
	}

	return line, nil
}

func parseOptions(cmd *cli.Command) (tessitura.Options, error) {
	tuning, err := tessitura.ParseTuning(cmd.String("tuning"))
	if err != nil {
		return tessitura.Options{}, err
	}

	opts := tessitura.OptionsForTuning(tuning)
	opts.FrameSize = cmd.Int("frame-size")
	opts.ThresholdRatio = cmd.Float("threshold")
	opts.DisableThreshold = cmd.IsSet("threshold") && opts.ThresholdRatio == 0

	if cmd.IsSet("reference") {
		opts.ReferencePitch = cmd.Float("reference")
	}

	if opts.FrameSize < 1 {
		return tessitura.Options{}, fmt.Errorf("--frame-size: must be at least 1, got %d", opts.FrameSize)
	}

	if opts.ReferencePitch <= 0 {
		return tessitura.Options{}, fmt.Errorf("--reference: must be positive, got %g", opts.ReferencePitch)
	}

	return opts, nil
}
