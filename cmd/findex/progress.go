package main

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progress renders catalog and comparison progress on stderr; a disabled progress
// ignores updates.
type progress struct {
	bar *progressbar.ProgressBar
	max int
}

func newProgress(enabled bool, description string) *progress {
	if !enabled {
		return &progress{}
	}
	return &progress{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *progress) update(done, total int, _ string) {
	if p.bar == nil {
		return
	}
	if total != p.max {
		p.max = total
		p.bar.ChangeMax(total)
	}
	_ = p.bar.Set(done)
}

func (p *progress) side(side, done, total int) {
	if p.bar != nil && done == 1 {
		p.bar.Describe(sideLabel(side))
	}
	p.update(done, total, "")
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func sideLabel(side int) string {
	if side == 1 {
		return "copying catalog 1"
	}
	return "copying catalog 2"
}
