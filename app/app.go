// Package app wires the particle field to a host (raylib window, terminal or
// headless loop), telemetry and config reloads.
package app

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/frame"
	"github.com/pthm-cable/backdrop/telemetry"
)

// Options configures an App.
type Options struct {
	Seed        int64
	FPS         int    // 0 = screen.target_fps
	MaxFrames   uint64 // 0 = unlimited
	LogStats    bool
	OutputDir   string
	SnapshotDir string

	// ConfigUpdates delivers reloaded configs; applied between frames.
	ConfigUpdates <-chan *config.Config
}

// Command is a user action, issued from key handlers.
type Command uint8

const (
	CmdRegenerate Command = iota + 1
	CmdToggleBoundary
	CmdTogglePause
	CmdSnapshot
)

// backgroundSetter is implemented by surfaces with a configurable clear color.
type backgroundSetter interface {
	SetBackground(rgb [3]uint8)
}

// App holds the field and everything around it for one run.
type App struct {
	cfg  *config.Config
	opts Options

	field   *field.Field
	host    *frame.Host
	surface field.Surface
	present func()

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// State
	frames   uint64
	paused   bool
	rendered bool
	last     field.FrameStats
	commands []Command
	resizeID frame.ListenerID
}

// New creates an app for cfg. The field is created but not started.
func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.FPS <= 0 {
		opts.FPS = cfg.Screen.TargetFPS
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	budget := time.Duration(cfg.Telemetry.FrameBudgetMS * float64(time.Millisecond))
	a := &App{
		cfg:           cfg,
		opts:          opts,
		field:         field.New(cfg.Field, rand.New(rand.NewSource(opts.Seed))),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, budget),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
	}
	a.field.SetObserver(a.onFieldFrame)

	slog.Info("app created",
		"seed", opts.Seed,
		"profile", cfg.Profile,
		"fps", opts.FPS,
		"run_id", om.RunID(),
	)
	return a, nil
}

// Field returns the particle field.
func (a *App) Field() *field.Field { return a.field }

// Frames returns the number of frames presented so far.
func (a *App) Frames() uint64 { return a.frames }

// Paused reports whether animation is paused.
func (a *App) Paused() bool { return a.paused }

// Config returns the configuration in effect.
func (a *App) Config() *config.Config { return a.cfg }

// Do queues a command for the next frame.
func (a *App) Do(cmd Command) {
	a.commands = append(a.commands, cmd)
}

// mount starts the field on host. present, when set, runs after every frame.
func (a *App) mount(host *frame.Host, s field.Surface, present func()) {
	a.host = host
	a.surface = s
	a.present = present
	a.resizeID = host.AddResizeListener(func(width, height int) {
		a.collector.RecordResize()
		slog.Debug("surface resized", "width", width, "height", height)
	})
	a.field.Start(host, s)
}

// unmount tears the field down and flushes outputs.
func (a *App) unmount() {
	if a.opts.SnapshotDir != "" && a.frames > 0 {
		a.saveSnapshot("final")
	}
	a.field.Teardown()
	if a.host != nil {
		a.host.RemoveResizeListener(a.resizeID)
	}
	if err := a.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Info("app stopped", "frames", a.frames)
}

// beforeFrame applies pending config reloads and commands, then starts
// timing the frame.
func (a *App) beforeFrame(time.Time) {
	a.applyConfigUpdates()
	a.applyCommands()
	a.rendered = false
	a.perfCollector.StartFrame()
}

// onFieldFrame receives the field's stats after every rendered frame.
func (a *App) onFieldFrame(stats field.FrameStats) {
	a.last = stats
	a.rendered = true
	a.perfCollector.AddPhase(telemetry.PhaseTick, stats.Tick)
	a.perfCollector.AddPhase(telemetry.PhaseGrid, stats.Grid)
	a.perfCollector.AddPhase(telemetry.PhaseParticles, stats.Draw)
	a.perfCollector.AddPhase(telemetry.PhaseConnections, stats.ConnectionPass)
}

// afterFrame presents the frame and records telemetry.
func (a *App) afterFrame(time.Time) {
	a.perfCollector.StartPhase(telemetry.PhasePresent)
	if a.present != nil {
		a.present()
	}
	sample := a.perfCollector.EndFrame()
	a.frames++

	if !a.rendered {
		return
	}
	a.collector.RecordFrame(telemetry.FrameSample{
		Duration:    sample.FrameDuration,
		Particles:   a.last.Particles,
		GridLines:   a.last.GridLines,
		Circles:     a.last.Circles,
		Connections: a.last.Connections,
	})
	a.flushTelemetry()
}

func (a *App) applyConfigUpdates() {
	if a.opts.ConfigUpdates == nil {
		return
	}
	select {
	case cfg, ok := <-a.opts.ConfigUpdates:
		if !ok {
			a.opts.ConfigUpdates = nil
			return
		}
		a.applyConfig(cfg)
	default:
	}
}

// applyConfig swaps in a reloaded config. The field regenerates, which is
// the same as a resize to the current size.
func (a *App) applyConfig(cfg *config.Config) {
	if err := a.field.Reconfigure(cfg.Field); err != nil {
		slog.Error("config update rejected", "error", err)
		return
	}
	a.cfg = cfg
	if bs, ok := a.surface.(backgroundSetter); ok {
		rgb, err := config.ParseColor(cfg.Screen.Background)
		if err == nil {
			bs.SetBackground(rgb)
		}
	}
	a.collector.RecordReload()
	a.collector.RecordRegeneration()
	if err := a.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}
	slog.Info("config applied", "particles", a.field.Count(), "boundary", cfg.Field.Animation.Boundary)
}

func (a *App) applyCommands() {
	for _, cmd := range a.commands {
		switch cmd {
		case CmdRegenerate:
			a.field.Regenerate()
			a.collector.RecordRegeneration()
			slog.Debug("field regenerated", "particles", a.field.Count())
		case CmdToggleBoundary:
			policy := config.BoundaryBounce
			if a.field.Config().Animation.Boundary == config.BoundaryBounce {
				policy = config.BoundaryWrap
			}
			a.field.SetBoundary(policy)
			slog.Debug("boundary policy changed", "boundary", policy)
		case CmdTogglePause:
			a.paused = !a.paused
		case CmdSnapshot:
			a.saveSnapshot("manual")
		}
	}
	a.commands = a.commands[:0]
}

// flushTelemetry writes a stats window once enough frames have passed.
func (a *App) flushTelemetry() {
	if !a.collector.ShouldFlush(a.frames) {
		return
	}

	w, h := a.field.Size()
	stats := a.collector.Flush(a.frames, telemetry.FieldState{
		Time:      a.field.Time(),
		Particles: a.last.Particles,
		Width:     w,
		Height:    h,
	})
	perfStats := a.perfCollector.Stats()

	if a.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if a.outputManager != nil {
		if err := a.outputManager.WriteFrames(stats); err != nil {
			slog.Error("failed to write frames", "error", err)
		}
		if err := a.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// saveSnapshot writes the current particle state to the snapshot directory.
func (a *App) saveSnapshot(label string) {
	dir := a.opts.SnapshotDir
	if dir == "" {
		dir = "snapshots"
	}

	particles := a.field.Particles()
	states := make([]telemetry.ParticleState, len(particles))
	for i, p := range particles {
		states[i] = telemetry.ParticleState{
			Origin:      p.Origin.String(),
			X:           p.X,
			Y:           p.Y,
			VX:          p.VX,
			VY:          p.VY,
			BaseOpacity: p.BaseOpacity,
			BaseSize:    p.BaseSize,
			Opacity:     p.Opacity,
			Size:        p.Size,
			PulseOffset: p.PulseOffset,
			PulseSpeed:  p.PulseSpeed,
		}
	}

	w, h := a.field.Size()
	path, err := telemetry.SaveSnapshot(&telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RunID:     a.outputManager.RunID(),
		RNGSeed:   a.opts.Seed,
		Profile:   a.cfg.Profile,
		Width:     w,
		Height:    h,
		Frame:     a.frames,
		Time:      a.field.Time(),
		Particles: states,
		Label:     label,
	}, dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "particles", len(states))
}
