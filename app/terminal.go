package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/frame"
	"github.com/pthm-cable/backdrop/renderer"
)

// RunTerminal animates the field on a tcell screen until q, Esc or Ctrl-C is
// pressed, ctx is cancelled or MaxFrames is reached. The screen is
// initialized here and finalized on return.
func (a *App) RunTerminal(ctx context.Context, screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	bg, err := config.ParseColor(a.cfg.Screen.Background)
	if err != nil {
		return fmt.Errorf("screen.background: %w", err)
	}
	term := a.cfg.Terminal
	surface := renderer.NewTerminalSurface(screen, term.CellWidth, term.CellHeight, bg)
	host := frame.NewHost(surface.PixelSize(screen.Size()))

	a.mount(host, surface, surface.Present)
	defer a.unmount()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resizes := make(chan frame.Size, 1)
	commands := make(chan Command, 16)

	g, gctx := errgroup.WithContext(ctx)

	// Input: PollEvent blocks, so it gets its own goroutine and hands
	// everything to the frame loop through channels.
	g.Go(func() error {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return nil
			case *tcell.EventInterrupt:
				if gctx.Err() != nil {
					return nil
				}
			case *tcell.EventResize:
				cols, rows := ev.Size()
				w, h := surface.PixelSize(cols, rows)
				sendLatest(resizes, frame.Size{Width: w, Height: h})
			case *tcell.EventKey:
				if quitKey(ev) {
					cancel()
					return nil
				}
				if cmd, ok := terminalCommand(ev); ok {
					select {
					case commands <- cmd:
					default:
					}
				}
			}
		}
	})

	g.Go(func() error {
		loop := &frame.Loop{
			Host:    host,
			FPS:     a.opts.FPS,
			Resizes: resizes,
			Before: func(now time.Time) {
				drainCommands(commands, a.Do)
				a.beforeFrame(now)
			},
			After:     a.afterFrame,
			Paused:    a.Paused,
			MaxFrames: a.opts.MaxFrames,
		}
		err := loop.Run(gctx)

		// Wake the input goroutine so it can observe the cancellation
		cancel()
		if perr := screen.PostEvent(tcell.NewEventInterrupt(nil)); perr != nil {
			slog.Debug("interrupt not delivered", "error", perr)
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func terminalCommand(ev *tcell.EventKey) (Command, bool) {
	if ev.Key() != tcell.KeyRune {
		return 0, false
	}
	switch ev.Rune() {
	case 'r':
		return CmdRegenerate, true
	case 'b':
		return CmdToggleBoundary, true
	case ' ':
		return CmdTogglePause, true
	case 's':
		return CmdSnapshot, true
	}
	return 0, false
}

// sendLatest replaces any size still waiting in ch with sz.
func sendLatest(ch chan frame.Size, sz frame.Size) {
	for {
		select {
		case ch <- sz:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func drainCommands(ch <-chan Command, do func(Command)) {
	for {
		select {
		case cmd := <-ch:
			do(cmd)
		default:
			return
		}
	}
}
