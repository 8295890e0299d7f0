package editor

// Scheduler defers work to the next display frame.
type Scheduler interface {
	Schedule(fn func())
}

// ImmediateScheduler runs scheduled work synchronously.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(fn func()) { fn() }

// ManualScheduler queues work until Flush is called. It stands in for the
// frame clock in tests.
type ManualScheduler struct {
	queue []func()
}

func (s *ManualScheduler) Schedule(fn func()) {
	s.queue = append(s.queue, fn)
}

func (s *ManualScheduler) Pending() int {
	return len(s.queue)
}

// Flush runs the work queued so far and returns how many callbacks ran.
// Work scheduled by those callbacks waits for the next Flush.
func (s *ManualScheduler) Flush() int {
	queue := s.queue
	s.queue = nil
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}
