// Package event defines the progress event stream emitted by the engine
// and consumed by presenters.
package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	CheckStarted Type = iota + 1
	CheckComplete
	DirCreated
	FileCopied
	FileSkipped
	FileFailed
	FileRemoved
	DirRemoved
)

var typeNames = [...]string{
	CheckStarted:  "CheckStarted",
	CheckComplete: "CheckComplete",
	DirCreated:    "DirCreated",
	FileCopied:    "FileCopied",
	FileSkipped:   "FileSkipped",
	FileFailed:    "FileFailed",
	FileRemoved:   "FileRemoved",
	DirRemoved:    "DirRemoved",
}

func (t Type) String() string {
	if int(t) < len(typeNames) && int(t) > 0 {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // relative path
	Size      int64  // file size in bytes
	Total     int64  // total files (CheckComplete)
	TotalSize int64  // total bytes (CheckComplete)
	Error     error
}
