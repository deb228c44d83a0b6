package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mkrull/ferry/internal/event"
)

// Move relocates cfg.Src to cfg.Dst. When the destination is absent and the
// paths share a filesystem a plain rename does the job; otherwise it falls
// back to copy-then-remove, honoring cfg.Mode for conflicts.
func Move(ctx context.Context, cfg Config) Result {
	e := newRunner(ctx, cfg)

	srcInfo, err := os.Lstat(cfg.Src)
	if err != nil {
		return e.result(fmt.Errorf("source: %w", err))
	}

	dst := cfg.Dst
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() && !srcInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(cfg.Src))
	}

	// Rename fast path only when the destination is untouched, so the
	// conflict policy is never bypassed.
	if _, err := os.Lstat(dst); errors.Is(err, fs.ErrNotExist) && !cfg.DryRun {
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return e.result(fmt.Errorf("create parent dir: %w", err))
		}
		if err := os.Rename(cfg.Src, dst); err == nil {
			e.stats.AddFilesCopied(1)
			e.emit(event.Event{Type: event.FileCopied, Path: cfg.Src, Size: srcInfo.Size()})
			return e.result(nil)
		}
		// Cross-device or otherwise un-renamable; fall through to copy.
	}

	copyCfg := cfg
	copyCfg.Stats = e.stats
	if res := Run(ctx, copyCfg); res.Err != nil {
		return Result{Stats: e.stats.Snapshot(), Err: res.Err}
	}

	removeRes := Remove(ctx, RemoveConfig{
		Path:   cfg.Src,
		DryRun: cfg.DryRun,
		Events: cfg.Events,
		Stats:  e.stats,
	})
	if removeRes.Err != nil {
		return Result{
			Stats: e.stats.Snapshot(),
			Err:   fmt.Errorf("copied but failed to remove source: %w", removeRes.Err),
		}
	}

	return e.result(nil)
}
