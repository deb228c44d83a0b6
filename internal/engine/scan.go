package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Entry is a single element of a scanned tree, identified by its path
// relative to the scan root.
type Entry struct {
	RelPath    string
	LinkTarget string
	ModTime    time.Time
	Size       int64
	Perm       fs.FileMode
	Type       FileType
}

// Content is the listing of a source tree: directories in walk order
// (parents before children), then files and symlinks.
type Content struct {
	Dirs       []Entry
	Files      []Entry
	TotalBytes int64
}

// ScanTree walks root and returns its content. The root directory itself is
// not included. Any unreadable entry aborts the scan; partial listings would
// defeat the preflight guarantee.
func ScanTree(root string) (Content, error) {
	var content Content

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		entry := Entry{
			RelPath: rel,
			ModTime: info.ModTime(),
			Perm:    info.Mode().Perm(),
		}

		switch {
		case d.IsDir():
			entry.Type = Dir
			content.Dirs = append(content.Dirs, entry)
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			entry.Type = Symlink
			entry.LinkTarget = target
			content.Files = append(content.Files, entry)
		default:
			entry.Type = Regular
			entry.Size = info.Size()
			content.Files = append(content.Files, entry)
			content.TotalBytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return Content{}, err
	}

	return content, nil
}
