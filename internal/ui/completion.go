package ui

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/mkrull/ferry/internal/stats"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 48,917  size 2.1 GiB  avg 641 MB/s  time 3m 17s  errors 0
func completionSummary(snap stats.Snapshot) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	icon := okColor.Sprint("✓")
	if snap.FilesFailed > 0 {
		icon = failColor.Sprint("✗")
	}

	base := fmt.Sprintf("done %s  files %s  size %s  avg %s  time %s",
		icon,
		FormatCount(snap.FilesCopied),
		FormatBytes(snap.BytesCopied),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
	)

	if snap.FilesSkipped > 0 {
		base += fmt.Sprintf("  skipped %s", FormatCount(snap.FilesSkipped))
	}
	if snap.FilesRemoved > 0 || snap.DirsRemoved > 0 {
		base += fmt.Sprintf("  removed %s", FormatCount(snap.FilesRemoved+snap.DirsRemoved))
	}

	base += fmt.Sprintf("  errors %d", snap.FilesFailed)

	return base
}
