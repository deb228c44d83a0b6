package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/engine"
	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/policy"
	"github.com/mkrull/ferry/internal/stats"
)

// modeFlags binds the conflict mode to a command: either --mode directly
// or one of the boolean shorthands.
type modeFlags struct {
	mode    policy.Mode
	replace bool
	copyNew bool
	update  bool
}

func (m *modeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Var(&m.mode, "mode", "conflict mode: fail, replace, copy-new-only, or update")
	cmd.Flags().BoolVar(&m.replace, "replace", false, "overwrite existing destination files")
	cmd.Flags().BoolVar(&m.copyNew, "copy-new-only", false, "skip files that already exist at the destination")
	cmd.Flags().BoolVar(&m.update, "update", false, "overwrite only when the source is newer")
	cmd.MarkFlagsMutuallyExclusive("mode", "replace", "copy-new-only", "update")
}

// resolve returns the effective mode, falling back to the config file
// default when no mode flag was set on the command line.
func (m *modeFlags) resolve(cmd *cobra.Command, opts *rootOptions) (policy.Mode, error) {
	switch {
	case m.replace:
		return policy.ModeReplace, nil
	case m.copyNew:
		return policy.ModeCopyNewOnly, nil
	case m.update:
		return policy.ModeUpdateIfOlder, nil
	case cmd.Flags().Changed("mode"):
		return m.mode, nil
	}
	if opts.cfg.Defaults.Mode != nil {
		var mode policy.Mode
		if err := mode.Set(*opts.cfg.Defaults.Mode); err != nil {
			return policy.ModeFail, fmt.Errorf("config defaults.mode: %w", err)
		}
		return mode, nil
	}
	return policy.ModeFail, nil
}

func newCopyCmd(opts *rootOptions) *cobra.Command {
	var (
		src        string
		dst        string
		modes      modeFlags
		copyTarget bool
		onlyDirs   bool
		dryRun     bool
		noTimes    bool
	)

	cmd := &cobra.Command{
		Use:   "copy -s <source> -d <destination>",
		Short: "Copy a file or directory tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := modes.resolve(cmd, opts)
			if err != nil {
				return err
			}
			if dryRun {
				slog.Info("dry run mode")
			}
			slog.Debug("starting copy", "src", src, "dst", dst, "mode", mode.String())

			return runWithPresenter(opts, dst,
				func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) engine.Result {
					return engine.Run(ctx, engine.Config{
						Src:        src,
						Dst:        dst,
						Mode:       mode,
						CopyTarget: copyTarget,
						OnlyDirs:   onlyDirs,
						DryRun:     dryRun,
						NoTimes:    noTimes,
						Events:     events,
						Stats:      collector,
					})
				})
		},
	}

	cmd.Flags().StringVarP(&src, "src", "s", "", "source file or directory")
	cmd.Flags().StringVarP(&dst, "dst", "d", "", "destination path")
	_ = cmd.MarkFlagRequired("src") //nolint:errcheck // flag name is hardcoded
	_ = cmd.MarkFlagRequired("dst") //nolint:errcheck // flag name is hardcoded
	modes.register(cmd)
	cmd.Flags().BoolVar(&copyTarget, "copy-target", false, "copy the source directory itself, not just its contents")
	cmd.Flags().BoolVar(&onlyDirs, "only-dirs", false, "recreate the directory structure without copying files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be copied without writing")
	cmd.Flags().BoolVar(&noTimes, "no-times", false, "don't preserve mtime")

	return cmd
}
