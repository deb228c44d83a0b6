package ui

import (
	"github.com/mkrull/ferry/internal/event"
	"github.com/mkrull/ferry/internal/stats"
)

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		if ev.Type == event.CheckComplete {
			p.stats.SetTotals(ev.Total, ev.TotalSize)
		}
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
