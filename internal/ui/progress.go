package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/stats"
)

// progressPresenter repaints a single status line on the TTY while work is
// in flight, printing failures above it as they happen.
type progressPresenter struct {
	w         io.Writer
	stats     *stats.Collector
	root      string
	verbose   bool
	lastWidth int
}

var errColor = color.New(color.FgRed)

func (p *progressPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	redraw := time.NewTicker(200 * time.Millisecond)
	defer redraw.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearLine()
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
		case <-redraw.C:
			p.render()
		}
	}
}

func (p *progressPresenter) handleEvent(ev event.Event) {
	path := StripRoot(p.root, ev.Path)
	switch ev.Type {
	case event.CheckComplete:
		p.stats.SetTotals(ev.Total, ev.TotalSize)
	case event.FileFailed:
		p.clearLine()
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s %s\n", errColor.Sprint("✗"), errMsg)
	case event.FileSkipped:
		if p.verbose {
			p.clearLine()
			fmt.Fprintf(p.w, "skip %s\n", path)
		}
	case event.CheckStarted, event.DirCreated, event.FileCopied,
		event.FileRemoved, event.DirRemoved:
		// reflected in the status line via the collector
	}
}

func (p *progressPresenter) render() {
	snap := p.stats.Snapshot()

	var line string
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal)
		line = fmt.Sprintf("%s %3.0f%%  %s/%s  %s files  %s  eta %s",
			ProgressBar(pct, 20),
			pct*100,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied),
			FormatRate(p.stats.RollingSpeed(5)),
			FormatETA(p.stats.ETA()),
		)
	} else {
		line = fmt.Sprintf("%s  %s files  %s",
			FormatBytes(snap.BytesCopied),
			FormatCount(snap.FilesCopied),
			FormatRate(p.stats.RollingSpeed(5)),
		)
	}

	width := termWidth(os.Stderr.Fd())
	if len(line) > width {
		line = line[:width]
	}

	pad := ""
	if p.lastWidth > len(line) {
		pad = strings.Repeat(" ", p.lastWidth-len(line))
	}
	p.lastWidth = len(line)

	fmt.Fprintf(p.w, "\r%s%s", line, pad)
}

func (p *progressPresenter) clearLine() {
	if p.lastWidth > 0 {
		fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", p.lastWidth))
		p.lastWidth = 0
	}
}

func (p *progressPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot())
}
