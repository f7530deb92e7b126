package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/frame"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/telemetry"
	"github.com/pthm-cable/backdrop/ui"
)

// window holds the raylib-only parts of a windowed run.
type window struct {
	surface  *renderer.RaylibSurface
	hud      *ui.HUD
	overlays *ui.OverlayRegistry
	width    int
	height   int
}

// RunWindow opens a resizable raylib window and animates the field until the
// window is closed, ctx is cancelled or MaxFrames is reached.
// Must be called from the main goroutine.
func (a *App) RunWindow(ctx context.Context) error {
	bg, err := config.ParseColor(a.cfg.Screen.Background)
	if err != nil {
		return fmt.Errorf("screen.background: %w", err)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(a.cfg.Screen.Width), int32(a.cfg.Screen.Height), a.cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.opts.FPS))

	w := &window{
		surface:  renderer.NewRaylibSurface(bg),
		hud:      ui.NewHUD(),
		overlays: ui.NewOverlayRegistry(),
		width:    int(rl.GetScreenWidth()),
		height:   int(rl.GetScreenHeight()),
	}
	host := frame.NewHost(w.width, w.height)

	a.mount(host, w.surface, rl.EndDrawing)
	defer a.unmount()

	slog.Info("window opened", "width", w.width, "height", w.height, "particles", a.field.Count())

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		now := time.Now()
		a.handleWindowInput(w, host)
		a.beforeFrame(now)

		rl.BeginDrawing()
		if a.paused {
			// Redraw the frozen frame without advancing it
			a.field.Render(w.surface)
		} else {
			host.Flush(now)
		}
		a.drawOverlays(w)
		a.afterFrame(now) // ends drawing

		if a.opts.MaxFrames > 0 && a.frames >= a.opts.MaxFrames {
			break
		}
	}
	return nil
}

// handleWindowInput processes window resizes and keyboard input.
func (a *App) handleWindowInput(w *window, host *frame.Host) {
	if rl.IsWindowResized() {
		w.width, w.height = int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		host.SetSize(w.width, w.height)
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Do(CmdTogglePause)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Do(CmdRegenerate)
	}
	if rl.IsKeyPressed(rl.KeyB) {
		a.Do(CmdToggleBoundary)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.Do(CmdSnapshot)
	}

	for _, desc := range w.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			_, on, _ := w.overlays.HandleKeyPress(desc.Key)
			slog.Debug("overlay toggled", "overlay", desc.ID, "enabled", on)
		}
	}
}

// drawOverlays draws the enabled HUD panels over the field.
func (a *App) drawOverlays(w *window) {
	if !w.overlays.IsEnabled(ui.OverlayHUD) && !w.overlays.IsEnabled(ui.OverlayPerf) && !w.overlays.IsEnabled(ui.OverlayControls) {
		return
	}

	cfg := a.field.Config()
	rgb := cfg.Derived.RGB
	perf := a.perfCollector.Stats()
	fw, fh := a.field.Size()
	data := ui.HUDData{
		Title:       a.cfg.Screen.Title,
		Profile:     a.cfg.Profile,
		Boundary:    cfg.Animation.Boundary,
		Accent:      rl.NewColor(rgb[0], rgb[1], rgb[2], 255),
		Particles:   a.last.Particles,
		GridLines:   a.last.GridLines,
		Circles:     a.last.Circles,
		Connections: a.last.Connections,
		Time:        a.field.Time(),
		Frame:       a.frames,
		FPS:         rl.GetFPS(),
		Paused:      a.paused,
		Width:       fw,
		Height:      fh,
		PhasePct:    perf.PhasePct,
		PhaseOrder:  telemetry.Phases,
		FrameAvg:    perf.AvgFrameDuration,
	}

	if w.overlays.IsEnabled(ui.OverlayHUD) {
		w.hud.Draw(data)
	}
	if w.overlays.IsEnabled(ui.OverlayPerf) {
		w.hud.DrawPerf(data, int32(w.width))
	}
	if w.overlays.IsEnabled(ui.OverlayControls) {
		w.hud.DrawControls(int32(w.height), "[Space] Pause  [R] Regenerate  [B] Boundary  [S] Snapshot  "+w.overlays.Legend())
	}
}
