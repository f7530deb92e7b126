package frame

import (
	"context"
	"time"
)

// Host bundles the scheduler and viewport a view exposes to the things it
// mounts.
type Host struct {
	*Scheduler
	*Viewport
}

// NewHost creates a host with an empty scheduler and the given viewport size.
func NewHost(width, height int) *Host {
	return &Host{
		Scheduler: NewScheduler(),
		Viewport:  NewViewport(width, height),
	}
}

// RequestFrame schedules cb for the next frame.
func (h *Host) RequestFrame(cb Callback) Handle {
	return h.Request(cb)
}

// CancelFrame cancels a scheduled frame callback.
func (h *Host) CancelFrame(handle Handle) {
	h.Cancel(handle)
}

// Size is a width/height pair sent to a running loop.
type Size struct {
	Width, Height int
}

// Loop drives a Host from a ticker on the calling goroutine.
type Loop struct {
	Host *Host
	FPS  int

	// Resizes, when set, is drained between frames so a resize always
	// completes before the next frame observes the host.
	Resizes <-chan Size

	// Before runs ahead of each flush; After runs once the flush completed.
	Before func(now time.Time)
	After  func(now time.Time)

	// Paused, when it returns true, skips the flush for that tick. Before
	// and After still run.
	Paused func() bool

	// MaxFrames stops the loop after that many ticks (0 = unlimited).
	MaxFrames uint64
}

// Run flushes the host once per tick until ctx is cancelled or MaxFrames is
// reached. It returns ctx.Err() on cancellation and nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	fps := l.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var flushed uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sz := <-l.Resizes:
			l.Host.SetSize(sz.Width, sz.Height)

		case now := <-ticker.C:
			l.drainResizes()
			if l.Before != nil {
				l.Before(now)
			}
			if l.Paused == nil || !l.Paused() {
				l.Host.Flush(now)
			}
			if l.After != nil {
				l.After(now)
			}
			flushed++
			if l.MaxFrames > 0 && flushed >= l.MaxFrames {
				return nil
			}
		}
	}
}

func (l *Loop) drainResizes() {
	for {
		select {
		case sz := <-l.Resizes:
			l.Host.SetSize(sz.Width, sz.Height)
		default:
			return
		}
	}
}
