package engine

import (
	"io/fs"
	"time"
)

// FileType identifies the kind of filesystem entry.
type FileType int

const (
	Regular FileType = iota
	Dir
	Symlink
)

// Task describes a single copy operation.
type Task struct {
	SrcPath    string
	DstPath    string
	LinkTarget string // for symlinks
	ModTime    time.Time
	Size       int64
	Perm       fs.FileMode
	Type       FileType
}
