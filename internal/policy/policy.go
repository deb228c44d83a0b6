// Package policy implements the copy-decision engine: given a source file
// and an optional pre-existing destination file, decide whether to copy,
// skip, or overwrite.
package policy

import (
	"errors"
	"fmt"
	"io/fs"
)

// Mode selects the conflict-resolution policy applied when a destination
// file already exists.
type Mode int

const (
	// ModeFail refuses to touch an existing destination.
	ModeFail Mode = iota
	// ModeReplace always overwrites.
	ModeReplace
	// ModeCopyNewOnly copies only files absent from the destination.
	ModeCopyNewOnly
	// ModeUpdateIfOlder overwrites only when the source is strictly newer
	// than the destination.
	ModeUpdateIfOlder
)

var modeNames = [...]string{
	ModeFail:          "fail",
	ModeReplace:       "replace",
	ModeCopyNewOnly:   "copy-new-only",
	ModeUpdateIfOlder: "update",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Set implements pflag.Value so a Mode can be bound directly to a flag.
func (m *Mode) Set(val string) error {
	for i, name := range modeNames {
		if val == name {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid mode %q (use fail, replace, copy-new-only, or update)", val)
}

// Type implements pflag.Value.
func (*Mode) Type() string { return "mode" }

// Action is the decision for a single source/destination pair.
type Action int

const (
	// ActionCopy copies to an absent destination.
	ActionCopy Action = iota
	// ActionOverwrite replaces an existing destination.
	ActionOverwrite
	// ActionSkip leaves the destination untouched.
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ErrDestinationExists is returned by Decide under ModeFail when the
// destination is already present.
var ErrDestinationExists = errors.New("destination already exists")

// Decide applies mode to a source/destination pair. dstInfo is nil when the
// destination does not exist, in which case the file is always copied.
// Timestamp comparison is strict: equal mtimes under ModeUpdateIfOlder skip.
func Decide(mode Mode, srcInfo, dstInfo fs.FileInfo) (Action, error) {
	if dstInfo == nil {
		return ActionCopy, nil
	}

	switch mode {
	case ModeFail:
		return ActionSkip, ErrDestinationExists
	case ModeReplace:
		return ActionOverwrite, nil
	case ModeCopyNewOnly:
		return ActionSkip, nil
	case ModeUpdateIfOlder:
		if srcInfo.ModTime().After(dstInfo.ModTime()) {
			return ActionOverwrite, nil
		}
		return ActionSkip, nil
	default:
		return ActionSkip, fmt.Errorf("unknown mode %d", mode)
	}
}
