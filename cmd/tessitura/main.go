package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/tessitura/version"
)

func main() {
	ctx := context.Background()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      version.Name(),
		Usage:     "Estimate the pitch of every frame of an audio recording",
		Version:   version.Version() + " " + version.Commit(),
		ArgsUsage: "<file>",
		Flags:     append(processFlags(), analysisFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}

			return ctx, nil
		},
		Action: processAction,
		Commands: []*cli.Command{
			analyzeCommand(),
		},
	}
}
