package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pthm-cable/backdrop/frame"
	"github.com/pthm-cable/backdrop/renderer"
)

// RunHeadless animates the field against a Recorder at width x height until
// ctx is cancelled or MaxFrames is reached.
func (a *App) RunHeadless(ctx context.Context, width, height int) error {
	rec := renderer.NewRecorder(false)
	host := frame.NewHost(width, height)

	a.mount(host, rec, nil)
	defer a.unmount()

	slog.Info("starting headless run",
		"width", width,
		"height", height,
		"particles", a.field.Count(),
		"max_frames", a.opts.MaxFrames,
	)

	loop := &frame.Loop{
		Host:      host,
		FPS:       a.opts.FPS,
		Before:    a.beforeFrame,
		After:     a.afterFrame,
		Paused:    a.Paused,
		MaxFrames: a.opts.MaxFrames,
	}
	err := loop.Run(ctx)

	lines, circles := rec.Totals()
	slog.Info("headless run finished", "frames", rec.Frames(), "lines", lines, "circles", circles)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
