package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/engine"
	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/stats"
	"github.com/mkrull/ferry/internal/ui"
)

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	var (
		path      string
		onlyFiles bool
		yes       bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "remove -s <path>",
		Short: "Remove a file or directory tree",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !yes && !dryRun {
				ok, err := confirmRemove(path)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(os.Stderr, "aborted")
					return nil
				}
			}
			slog.Debug("starting remove", "path", path, "only-files", onlyFiles)

			return runWithPresenter(opts, path,
				func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) engine.Result {
					return engine.Remove(ctx, engine.RemoveConfig{
						Path:      path,
						OnlyFiles: onlyFiles,
						DryRun:    dryRun,
						Events:    events,
						Stats:     collector,
					})
				})
		},
	}

	cmd.Flags().StringVarP(&path, "src", "s", "", "file or directory to remove")
	_ = cmd.MarkFlagRequired("src") //nolint:errcheck // flag name is hardcoded
	cmd.Flags().BoolVar(&onlyFiles, "only-files", false, "remove files only, keep the directory structure")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without deleting")

	return cmd
}

// confirmRemove prompts before deleting, showing what is about to go.
func confirmRemove(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	var msg string
	if info.IsDir() {
		content, err := engine.ScanTree(path)
		if err != nil {
			return false, fmt.Errorf("scan %s: %w", path, err)
		}
		msg = fmt.Sprintf("Remove %d files and %d directories (%s) under %s?",
			len(content.Files), len(content.Dirs)+1, stats.FormatBytes(content.TotalBytes), path)
	} else {
		msg = fmt.Sprintf("Remove %s (%s)?", path, stats.FormatBytes(info.Size()))
	}

	if !ui.IsTTY(os.Stderr.Fd()) {
		return false, errors.New("refusing to remove without confirmation; pass --yes")
	}

	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: msg, Default: false}, &ok); err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
