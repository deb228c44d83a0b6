package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/fsutil"
	"github.com/mkrull/ferry/internal/policy"
)

// ErrDestinationNotEmpty is returned when the default mode meets a
// destination directory that already has content.
var ErrDestinationNotEmpty = errors.New(
	"destination is not empty; use --replace, --copy-new-only, or --update")

// preflight verifies the whole operation is feasible before the first byte
// is copied: every source file readable, destination accessible, and (in the
// default mode) the destination empty.
func (e *runner) preflight(content Content, srcRoot, dstRoot string) error {
	e.emit(event.Event{Type: event.CheckStarted, Total: int64(len(content.Files))})

	var unreadable []string
	for _, f := range content.Files {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		if f.Type != Regular {
			continue
		}
		path := filepath.Join(srcRoot, f.RelPath)
		perms, err := fsutil.Probe(path, false)
		if err != nil || !perms.Read {
			unreadable = append(unreadable, f.RelPath)
		}
		e.stats.AddFilesChecked(1)
	}
	if len(unreadable) > 0 {
		return fmt.Errorf("%d source file(s) not readable (first: %s)",
			len(unreadable), unreadable[0])
	}

	if info, err := os.Stat(dstRoot); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("destination %s exists and is not a directory", dstRoot)
		}
		perms, err := fsutil.Probe(dstRoot, true)
		if err != nil {
			return fmt.Errorf("check destination: %w", err)
		}
		if !perms.Read {
			return fmt.Errorf("destination %s: not readable", dstRoot)
		}
		if !perms.Write {
			return fmt.Errorf("destination %s: not writable", dstRoot)
		}

		if e.cfg.Mode == policy.ModeFail {
			entries, err := os.ReadDir(dstRoot)
			if err != nil {
				return fmt.Errorf("read destination: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("%s: %w", dstRoot, ErrDestinationNotEmpty)
			}
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check destination: %w", err)
	}

	e.emit(event.Event{
		Type:      event.CheckComplete,
		Total:     int64(len(content.Files)),
		TotalSize: content.TotalBytes,
	})
	return nil
}

// probeSource probes a single-file source for readability.
func probeSource(path string) (fsutil.Perms, error) {
	perms, err := fsutil.Probe(path, false)
	if err != nil {
		return fsutil.Perms{}, fmt.Errorf("source: %w", err)
	}
	return perms, nil
}
