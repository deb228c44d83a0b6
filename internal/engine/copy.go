package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/mkrull/ferry/internal/platform"
)

// copyOne copies a single file or symlink into place. Regular files are
// written to a temporary sibling and atomically renamed over the target so
// a failed copy never leaves a partial destination.
func (e *runner) copyOne(task Task) error {
	if task.Type == Symlink {
		return e.copySymlink(task)
	}

	dir := filepath.Dir(task.DstPath)
	base := filepath.Base(task.DstPath)
	tmpName := fmt.Sprintf(".%s.%s.ferry-tmp", base, uuid.New().String()[:8])
	tmpPath := filepath.Join(dir, tmpName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create parent dir %s: %w", dir, err)
	}

	e.pendingTmp = tmpPath
	defer func() {
		e.pendingTmp = ""
		_ = os.Remove(tmpPath) // no-op if rename succeeded
	}()

	tmpFd, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, task.Perm)
	if err != nil {
		return fmt.Errorf("create tmp %s: %w", tmpPath, err)
	}

	var totalBytes int64
	if task.Size > 0 {
		result, err := platform.CopyFile(platform.CopyFileParams{
			SrcPath: task.SrcPath,
			DstFd:   tmpFd,
			SrcSize: task.Size,
		})
		if err != nil {
			tmpFd.Close()
			return fmt.Errorf("copy data %s: %w", task.SrcPath, err)
		}
		totalBytes = result.BytesWritten
	}

	if !e.cfg.NoTimes {
		if err := setFileTimes(tmpFd, task); err != nil {
			tmpFd.Close()
			return err
		}
	}

	if err := tmpFd.Close(); err != nil {
		return fmt.Errorf("close tmp %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, task.DstPath); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, task.DstPath, err)
	}

	e.stats.AddFilesCopied(1)
	e.stats.AddBytesCopied(totalBytes)
	return nil
}

// cleanupTmp removes the in-flight temporary file, if any. Deferred by Run
// as a safety net for panics and mid-copy aborts.
func (e *runner) cleanupTmp() {
	if e.pendingTmp != "" {
		_ = os.Remove(e.pendingTmp)
		e.pendingTmp = ""
	}
}

func (e *runner) copySymlink(task Task) error {
	if err := os.MkdirAll(filepath.Dir(task.DstPath), 0755); err != nil {
		return fmt.Errorf("create parent dir for symlink %s: %w", task.DstPath, err)
	}
	_ = os.Remove(task.DstPath)

	if err := os.Symlink(task.LinkTarget, task.DstPath); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", task.DstPath, task.LinkTarget, err)
	}

	e.stats.AddFilesCopied(1)
	return nil
}

func setFileTimes(fd *os.File, task Task) error {
	ts := unix.NsecToTimespec(task.ModTime.UnixNano())
	times := []unix.Timespec{ts, ts}
	if err := unix.UtimesNanoAt(int(fd.Fd()), "", times, unix.AT_EMPTY_PATH); err != nil {
		// Fallback: some systems don't support AT_EMPTY_PATH.
		if err2 := unix.UtimesNanoAt(unix.AT_FDCWD, fd.Name(), times, 0); err2 != nil {
			return fmt.Errorf("utimensat %s: %w", fd.Name(), err)
		}
	}
	return nil
}
