// Package frame provides the single-threaded frame loop the particle field
// runs on: a frame-callback scheduler, a viewport with resize listeners and a
// ticker-driven Run loop.
//
// Nothing in this package is safe for concurrent use. All calls happen on the
// goroutine that drives Flush (or Run).
package frame

import "time"

// Callback is invoked once per requested frame with the frame timestamp.
type Callback func(now time.Time)

// Handle identifies a requested frame callback. The zero Handle is never issued.
type Handle uint64

// Scheduler queues callbacks for the next frame.
type Scheduler struct {
	next    Handle
	pending map[Handle]Callback
	order   []Handle
	frames  uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[Handle]Callback)}
}

// Request schedules cb to run on the next Flush.
func (s *Scheduler) Request(cb Callback) Handle {
	s.next++
	h := s.next
	s.pending[h] = cb
	s.order = append(s.order, h)
	return h
}

// Cancel drops a pending callback. Unknown or already-run handles are ignored.
func (s *Scheduler) Cancel(h Handle) {
	delete(s.pending, h)
}

// Pending returns the number of callbacks waiting for the next flush.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Frames returns how many flushes have run.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Flush runs every callback requested before the call, in request order,
// and returns how many ran. Callbacks requested while flushing wait for the
// next flush.
func (s *Scheduler) Flush(now time.Time) int {
	s.frames++
	batch := s.order
	s.order = nil

	ran := 0
	for _, h := range batch {
		cb, ok := s.pending[h]
		if !ok {
			continue // cancelled
		}
		delete(s.pending, h)
		cb(now)
		ran++
	}
	return ran
}
