// Package engine orchestrates copy, move, and remove operations: preflight
// accessibility checks, policy decisions, and sequential per-file execution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/policy"
	"github.com/mkrull/ferry/internal/stats"
)

// Config describes a copy or move operation.
type Config struct {
	Src        string
	Dst        string
	Mode       policy.Mode
	CopyTarget bool // copy the source directory itself, not its contents
	OnlyDirs   bool // recreate the directory skeleton, skip files
	DryRun     bool
	NoTimes    bool // don't preserve mtime
	Events     chan<- event.Event
	Stats      *stats.Collector
}

// Result is the outcome of an operation.
type Result struct {
	Stats stats.Snapshot
	Err   error
}

// runner carries per-run state shared by the engine's phases. The engine
// is sequential, so at most one temporary file is ever in flight; its path
// is tracked here so an aborted run does not strand it at the destination.
type runner struct {
	cfg        Config
	stats      *stats.Collector
	ctx        context.Context
	pendingTmp string
}

func newRunner(ctx context.Context, cfg Config) *runner {
	st := cfg.Stats
	if st == nil {
		st = stats.NewCollector()
	}
	return &runner{cfg: cfg, stats: st, ctx: ctx}
}

func (e *runner) emit(ev event.Event) {
	if e.cfg.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case e.cfg.Events <- ev:
	case <-e.ctx.Done():
	}
}

// Run executes a copy operation, blocking until complete. Per-file errors do
// not abort remaining work; Result.Err is non-nil if any file failed.
func Run(ctx context.Context, cfg Config) Result {
	e := newRunner(ctx, cfg)
	defer e.cleanupTmp()

	srcInfo, err := os.Lstat(cfg.Src)
	if err != nil {
		return Result{Stats: e.stats.Snapshot(), Err: fmt.Errorf("source: %w", err)}
	}

	if srcInfo.IsDir() {
		return e.runDirCopy()
	}
	return e.runFileCopy(srcInfo)
}

func (e *runner) result(err error) Result {
	return Result{Stats: e.stats.Snapshot(), Err: err}
}

// runFileCopy handles a single-file source.
func (e *runner) runFileCopy(srcInfo fs.FileInfo) Result {
	dst := e.cfg.Dst

	// If dst is an existing directory, copy into it.
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(e.cfg.Src))
	}

	if srcInfo.Mode()&fs.ModeSymlink == 0 {
		perms, err := probeSource(e.cfg.Src)
		if err != nil {
			return e.result(err)
		}
		if !perms.Read {
			return e.result(fmt.Errorf("source %s: %w", e.cfg.Src, fs.ErrPermission))
		}
	}

	e.emit(event.Event{Type: event.CheckComplete, Total: 1, TotalSize: srcInfo.Size()})

	task := taskFor(e.cfg.Src, dst, Entry{
		RelPath: filepath.Base(e.cfg.Src),
		ModTime: srcInfo.ModTime(),
		Size:    srcInfo.Size(),
		Perm:    srcInfo.Mode().Perm(),
		Type:    Regular,
	})
	if srcInfo.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(e.cfg.Src)
		if err != nil {
			return e.result(fmt.Errorf("readlink %s: %w", e.cfg.Src, err))
		}
		task.Type = Symlink
		task.LinkTarget = target
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return e.result(fmt.Errorf("create parent dir: %w", err))
	}

	if err := e.processFile(task); err != nil {
		return e.result(err)
	}
	return e.result(nil)
}

// runDirCopy handles a directory source: preflight, directory pass, file pass.
func (e *runner) runDirCopy() Result {
	src := e.cfg.Src
	dstRoot := e.cfg.Dst
	if e.cfg.CopyTarget {
		dstRoot = filepath.Join(dstRoot, filepath.Base(src))
	}

	content, err := ScanTree(src)
	if err != nil {
		return e.result(fmt.Errorf("read source tree: %w", err))
	}

	if err := e.preflight(content, src, dstRoot); err != nil {
		return e.result(err)
	}

	if !e.cfg.DryRun {
		if err := os.MkdirAll(dstRoot, 0755); err != nil {
			return e.result(fmt.Errorf("create destination: %w", err))
		}
	}

	var firstErr error
	var errCount int
	record := func(err error) {
		errCount++
		if firstErr == nil {
			firstErr = err
		}
	}

	// Directory pass: recreate the skeleton before any file lands. A failed
	// directory is recorded; files beneath it fail individually later.
	for _, d := range content.Dirs {
		if err := e.ctx.Err(); err != nil {
			return e.result(err)
		}
		if e.cfg.DryRun {
			continue
		}
		dstDir := filepath.Join(dstRoot, d.RelPath)
		if err := os.MkdirAll(dstDir, d.Perm); err != nil {
			record(fmt.Errorf("mkdir %s: %w", dstDir, err))
			continue
		}
		e.stats.AddDirsCreated(1)
		e.emit(event.Event{Type: event.DirCreated, Path: dstDir})
	}

	if e.cfg.OnlyDirs {
		return e.result(firstErr)
	}

	// File pass: per-file policy decision and copy. Failures are recorded
	// and the run continues with the next file.
	for _, f := range content.Files {
		if err := e.ctx.Err(); err != nil {
			return e.result(err)
		}
		task := taskFor(filepath.Join(src, f.RelPath), filepath.Join(dstRoot, f.RelPath), f)
		if err := e.processFile(task); err != nil {
			record(err)
		}
	}

	if errCount > 1 {
		firstErr = fmt.Errorf("%w (and %d more errors)", firstErr, errCount-1)
	}
	return e.result(firstErr)
}

// processFile applies the policy to one task and performs the decided action.
func (e *runner) processFile(task Task) error {
	srcInfo, err := os.Lstat(task.SrcPath)
	if err != nil {
		err = fmt.Errorf("source %s: %w", task.SrcPath, err)
		e.fail(task, err)
		return err
	}

	var dstInfo fs.FileInfo
	if info, err := os.Lstat(task.DstPath); err == nil {
		dstInfo = info
	} else if !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("destination %s: %w", task.DstPath, err)
		e.fail(task, err)
		return err
	}

	action, err := policy.Decide(e.cfg.Mode, srcInfo, dstInfo)
	if err != nil {
		err = fmt.Errorf("%s: %w", task.DstPath, err)
		e.fail(task, err)
		return err
	}

	if action == policy.ActionSkip {
		e.stats.AddFilesSkipped(1)
		e.emit(event.Event{Type: event.FileSkipped, Path: task.SrcPath, Size: task.Size})
		return nil
	}

	if e.cfg.DryRun {
		e.stats.AddFilesCopied(1)
		e.stats.AddBytesCopied(task.Size)
		e.emit(event.Event{Type: event.FileCopied, Path: task.SrcPath, Size: task.Size})
		return nil
	}

	if err := e.copyOne(task); err != nil {
		e.fail(task, err)
		return err
	}
	e.emit(event.Event{Type: event.FileCopied, Path: task.SrcPath, Size: task.Size})
	return nil
}

func (e *runner) fail(task Task, err error) {
	e.stats.AddFilesFailed(1)
	e.emit(event.Event{Type: event.FileFailed, Path: task.SrcPath, Size: task.Size, Error: err})
}

func taskFor(srcPath, dstPath string, entry Entry) Task {
	return Task{
		SrcPath:    srcPath,
		DstPath:    dstPath,
		LinkTarget: entry.LinkTarget,
		ModTime:    entry.ModTime,
		Size:       entry.Size,
		Perm:       entry.Perm,
		Type:       entry.Type,
	}
}
