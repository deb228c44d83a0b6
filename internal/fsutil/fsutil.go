// Package fsutil probes filesystem accessibility ahead of copy and remove
// operations.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Perms reports the access allowed on a path.
type Perms struct {
	Read  bool
	Write bool
}

// Probe checks whether path is readable and, when testWrite is set, writable.
// Directories are probed by listing and by creating a throwaway file inside;
// regular files by opening for read/write. Probe does not modify existing
// content.
func Probe(path string, testWrite bool) (Perms, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Perms{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return probeDir(path, testWrite)
	}
	return probeFile(path, testWrite)
}

func probeDir(path string, testWrite bool) (Perms, error) {
	var p Perms

	if _, err := os.ReadDir(path); err == nil {
		p.Read = true
	}

	if testWrite && p.Read {
		probe := filepath.Join(path, ".ferry-probe-"+uuid.New().String()[:8])
		f, err := os.OpenFile(probe, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			f.Close()
			_ = os.Remove(probe)
			p.Write = true
		}
	}

	return p, nil
}

func probeFile(path string, testWrite bool) (Perms, error) {
	var p Perms

	f, err := os.Open(path)
	if err == nil {
		f.Close()
		p.Read = true
	}

	if testWrite {
		// O_WRONLY without O_TRUNC leaves the content untouched.
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err == nil {
			f.Close()
			p.Write = true
		}
	}

	return p, nil
}
