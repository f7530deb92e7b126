package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSchedulerRunsInRequestOrder(t *testing.T) {
	s := NewScheduler()
	var got []int
	s.Request(func(time.Time) { got = append(got, 1) })
	s.Request(func(time.Time) { got = append(got, 2) })
	s.Request(func(time.Time) { got = append(got, 3) })

	assert.Equal(t, 3, s.Pending())
	assert.Equal(t, 3, s.Flush(time.Now()))
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, s.Pending())
}

func TestSchedulerRequestDuringFlushWaits(t *testing.T) {
	s := NewScheduler()
	count := 0
	var loop Callback
	loop = func(time.Time) {
		count++
		s.Request(loop)
	}
	s.Request(loop)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, s.Flush(time.Now()))
	}
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, uint64(5), s.Frames())
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	ran := false
	h := s.Request(func(time.Time) { ran = true })
	s.Cancel(h)
	s.Cancel(h)
	s.Cancel(Handle(999))

	assert.Zero(t, s.Flush(time.Now()))
	assert.False(t, ran)
}

func TestViewportNotifiesOnChange(t *testing.T) {
	v := NewViewport(800, 600)
	var calls []Size
	v.AddResizeListener(func(w, h int) { calls = append(calls, Size{w, h}) })

	v.SetSize(800, 600) // unchanged
	v.SetSize(400, 300)
	v.SetSize(400, 300)

	assert.Equal(t, []Size{{400, 300}}, calls)
	w, h := v.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
}

func TestViewportRemoveListener(t *testing.T) {
	v := NewViewport(10, 10)
	var a, b int
	idA := v.AddResizeListener(func(int, int) { a++ })
	v.AddResizeListener(func(int, int) { b++ })
	require.Equal(t, 2, v.Listeners())

	v.RemoveResizeListener(idA)
	v.RemoveResizeListener(idA)
	v.SetSize(20, 20)

	assert.Zero(t, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 1, v.Listeners())
}

func TestViewportListenerRemovesLaterListener(t *testing.T) {
	v := NewViewport(10, 10)
	var second ListenerID
	secondCalled := false
	v.AddResizeListener(func(int, int) { v.RemoveResizeListener(second) })
	second = v.AddResizeListener(func(int, int) { secondCalled = true })

	v.SetSize(30, 30)
	assert.False(t, secondCalled)
}

func TestLoopStopsAfterMaxFrames(t *testing.T) {
	host := NewHost(100, 100)
	ticks := 0
	var cb Callback
	cb = func(time.Time) {
		ticks++
		host.RequestFrame(cb)
	}
	host.RequestFrame(cb)

	after := 0
	loop := &Loop{Host: host, FPS: 500, MaxFrames: 10, After: func(time.Time) { after++ }}
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 10, ticks)
	assert.Equal(t, 10, after)
}

func TestLoopAppliesResizeBeforeFrame(t *testing.T) {
	host := NewHost(100, 100)
	resizes := make(chan Size, 1)
	resizes <- Size{Width: 40, Height: 30}

	var seen Size
	host.RequestFrame(func(time.Time) {
		w, h := host.Size()
		seen = Size{w, h}
	})

	loop := &Loop{Host: host, FPS: 500, Resizes: resizes, MaxFrames: 1}
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, Size{40, 30}, seen)
}

func TestLoopCancel(t *testing.T) {
	host := NewHost(10, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- (&Loop{Host: host, FPS: 120}).Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopPausedSkipsFlush(t *testing.T) {
	host := NewHost(100, 100)
	ticks := 0
	var cb Callback
	cb = func(time.Time) {
		ticks++
		host.RequestFrame(cb)
	}
	host.RequestFrame(cb)

	before, after := 0, 0
	loop := &Loop{
		Host:      host,
		FPS:       500,
		MaxFrames: 6,
		Before:    func(time.Time) { before++ },
		After:     func(time.Time) { after++ },
		Paused:    func() bool { return before > 2 },
	}
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 2, ticks)
	assert.Equal(t, 6, before)
	assert.Equal(t, 6, after)
	assert.Equal(t, 1, host.Pending(), "paused callback stays scheduled")
}
