package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg struct{}

// frameScheduler defers editor work to the next frame tick. Schedule and
// run are only called from Update, so the queue needs no locking.
type frameScheduler struct {
	interval time.Duration
	queue    []func()
	armed    bool
}

func newFrameScheduler(interval time.Duration) *frameScheduler {
	return &frameScheduler{interval: interval}
}

func (f *frameScheduler) Schedule(fn func()) {
	f.queue = append(f.queue, fn)
}

// tick returns the command delivering the next frame, or nil when nothing
// is queued or a frame is already on its way.
func (f *frameScheduler) tick() tea.Cmd {
	if len(f.queue) == 0 || f.armed {
		return nil
	}
	f.armed = true
	return tea.Tick(f.interval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// run executes the work queued before the frame. Work scheduled while
// running waits for the following frame.
func (f *frameScheduler) run() int {
	f.armed = false
	queue := f.queue
	f.queue = nil
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}
