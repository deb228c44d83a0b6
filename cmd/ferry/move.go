package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/engine"
	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/stats"
)

func newMoveCmd(opts *rootOptions) *cobra.Command {
	var (
		src     string
		dst     string
		modes   modeFlags
		dryRun  bool
		noTimes bool
	)

	cmd := &cobra.Command{
		Use:   "move -s <source> -d <destination>",
		Short: "Move a file or directory tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := modes.resolve(cmd, opts)
			if err != nil {
				return err
			}
			slog.Debug("starting move", "src", src, "dst", dst, "mode", mode.String())

			return runWithPresenter(opts, dst,
				func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) engine.Result {
					return engine.Move(ctx, engine.Config{
						Src:     src,
						Dst:     dst,
						Mode:    mode,
						DryRun:  dryRun,
						NoTimes: noTimes,
						Events:  events,
						Stats:   collector,
					})
				})
		},
	}

	cmd.Flags().StringVarP(&src, "src", "s", "", "source file or directory")
	cmd.Flags().StringVarP(&dst, "dst", "d", "", "destination path")
	_ = cmd.MarkFlagRequired("src") //nolint:errcheck // flag name is hardcoded
	_ = cmd.MarkFlagRequired("dst") //nolint:errcheck // flag name is hardcoded
	modes.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be moved without writing")
	cmd.Flags().BoolVar(&noTimes, "no-times", false, "don't preserve mtime")

	return cmd
}
