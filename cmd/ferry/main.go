package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/config"
	"github.com/mkrull/ferry/internal/engine"
	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/stats"
	"github.com/mkrull/ferry/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// rootOptions holds global flags shared by all subcommands, plus the
// loaded config file.
type rootOptions struct {
	quiet      bool
	verbose    bool
	noProgress bool
	logFile    string
	cfg        config.Config
}

func run() int {
	opts := &rootOptions{}
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:           "ferry",
		Short:         "Copy, move, and remove files with explicit overwrite policies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			opts.cfg = cfg

			// Apply config defaults for flags not explicitly set on the CLI.
			pf := cmd.Root().PersistentFlags()
			if !pf.Changed("quiet") && cfg.Defaults.Quiet != nil {
				opts.quiet = *cfg.Defaults.Quiet
			}
			if !pf.Changed("no-progress") && cfg.Defaults.NoProgress != nil {
				opts.noProgress = *cfg.Defaults.NoProgress
			}

			return opts.setupLogging()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "ferry %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.noProgress, "no-progress", false, "disable progress display")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(newCopyCmd(opts))
	rootCmd.AddCommand(newMoveCmd(opts))
	rootCmd.AddCommand(newRemoveCmd(opts))
	rootCmd.AddCommand(newHashCmd(opts))
	rootCmd.AddCommand(newRandomCmd())
	rootCmd.AddCommand(newCaesarCmd())
	rootCmd.AddCommand(newDocsCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// setupLogging configures the default slog logger: text on stderr at a
// level derived from --verbose/--quiet, optionally teed to a JSON file.
func (o *rootOptions) setupLogging() error {
	logLevel := slog.LevelWarn
	if o.verbose {
		logLevel = slog.LevelDebug
	} else if !o.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	if o.logFile != "" {
		lf, err := os.Create(o.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))
	return nil
}

// runWithPresenter drives an engine operation with signal handling and a
// presenter: presenter in the background, engine in the foreground.
func runWithPresenter(
	opts *rootOptions,
	root string,
	op func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) engine.Result,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine that
	// writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				attrs := []slog.Attr{
					slog.String("type", ev.Type.String()),
					slog.String("path", ev.Path),
					slog.Int64("size", ev.Size),
				}
				if ev.Error != nil {
					attrs = append(attrs, slog.String("error", ev.Error.Error()))
				}
				slog.LogAttrs(context.Background(), slog.LevelInfo, "ferry.event", attrs...)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:     os.Stdout,
		ErrWriter:  os.Stderr,
		Stats:      collector,
		Root:       root,
		IsTTY:      ui.IsTTY(os.Stderr.Fd()),
		Quiet:      opts.quiet,
		Verbose:    opts.verbose,
		NoProgress: opts.noProgress,
	})

	var presenterErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := op(ctx, events, collector)
	stop()
	close(events)
	wg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
	}

	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(os.Stderr, summary)
		}
	}

	if result.Err != nil {
		slog.Error("operation failed", "error", result.Err)
	}
	return exitStatus(result)
}

// exitStatus maps an engine result to the exit-code contract: nil on
// success, code 1 when the failure was partial (some files were copied or
// removed), code 2 when nothing succeeded.
func exitStatus(result engine.Result) error {
	if result.Err == nil {
		return nil
	}
	if result.Stats.FilesCopied > 0 || result.Stats.FilesRemoved > 0 {
		return &exitError{code: 1}
	}
	return &exitError{code: 2}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
