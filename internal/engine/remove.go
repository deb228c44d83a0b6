package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/fsutil"
	"github.com/mkrull/ferry/internal/stats"
)

// RemoveConfig describes a remove operation.
type RemoveConfig struct {
	Path      string
	OnlyFiles bool // remove files, keep the directory skeleton
	DryRun    bool
	Events    chan<- event.Event
	Stats     *stats.Collector
}

// Remove deletes the tree at cfg.Path: files first, then directories
// deepest-first. Per-file errors are recorded and processing continues.
func Remove(ctx context.Context, cfg RemoveConfig) Result {
	e := newRunner(ctx, Config{Events: cfg.Events, Stats: cfg.Stats, DryRun: cfg.DryRun})

	info, err := os.Lstat(cfg.Path)
	if err != nil {
		return e.result(fmt.Errorf("source: %w", err))
	}

	if !info.IsDir() {
		if err := e.removeFile(cfg.Path, cfg.DryRun); err != nil {
			return e.result(err)
		}
		return e.result(nil)
	}

	content, err := ScanTree(cfg.Path)
	if err != nil {
		return e.result(fmt.Errorf("read source tree: %w", err))
	}

	if err := e.removePreflight(content, cfg.Path); err != nil {
		return e.result(err)
	}

	var firstErr error
	var errCount int
	record := func(err error) {
		errCount++
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, f := range content.Files {
		if err := e.ctx.Err(); err != nil {
			return e.result(err)
		}
		path := filepath.Join(cfg.Path, f.RelPath)
		if err := e.removeFile(path, cfg.DryRun); err != nil {
			record(err)
		}
	}

	if !cfg.OnlyFiles {
		// Deepest-first so each directory is empty by the time it is removed.
		dirs := make([]string, len(content.Dirs))
		for i, d := range content.Dirs {
			dirs[i] = d.RelPath
		}
		sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

		for _, rel := range dirs {
			if err := e.ctx.Err(); err != nil {
				return e.result(err)
			}
			if err := e.removeDir(filepath.Join(cfg.Path, rel), cfg.DryRun); err != nil {
				record(err)
			}
		}

		if firstErr == nil {
			if err := e.removeDir(cfg.Path, cfg.DryRun); err != nil {
				record(err)
			}
		}
	}

	if errCount > 1 {
		firstErr = fmt.Errorf("%w (and %d more errors)", firstErr, errCount-1)
	}
	return e.result(firstErr)
}

// removePreflight verifies every file is deletable before the first delete.
func (e *runner) removePreflight(content Content, root string) error {
	e.emit(event.Event{Type: event.CheckStarted, Total: int64(len(content.Files))})

	var blocked []string
	for _, f := range content.Files {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		if f.Type != Regular {
			continue
		}
		path := filepath.Join(root, f.RelPath)
		perms, err := fsutil.Probe(path, true)
		if err != nil || !perms.Read || !perms.Write {
			blocked = append(blocked, f.RelPath)
		}
		e.stats.AddFilesChecked(1)
	}
	if len(blocked) > 0 {
		return fmt.Errorf("%d file(s) not removable (first: %s)", len(blocked), blocked[0])
	}

	e.emit(event.Event{
		Type:      event.CheckComplete,
		Total:     int64(len(content.Files)),
		TotalSize: content.TotalBytes,
	})
	return nil
}

func (e *runner) removeFile(path string, dryRun bool) error {
	if !dryRun {
		if err := os.Remove(path); err != nil {
			err = fmt.Errorf("remove %s: %w", path, err)
			e.stats.AddFilesFailed(1)
			e.emit(event.Event{Type: event.FileFailed, Path: path, Error: err})
			return err
		}
	}
	e.stats.AddFilesRemoved(1)
	e.emit(event.Event{Type: event.FileRemoved, Path: path})
	return nil
}

func (e *runner) removeDir(path string, dryRun bool) error {
	if !dryRun {
		if err := os.Remove(path); err != nil {
			err = fmt.Errorf("remove dir %s: %w", path, err)
			e.stats.AddFilesFailed(1)
			e.emit(event.Event{Type: event.FileFailed, Path: path, Error: err})
			return err
		}
	}
	e.stats.AddDirsRemoved(1)
	e.emit(event.Event{Type: event.DirRemoved, Path: path})
	return nil
}
