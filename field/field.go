// Package field implements the animated grid and particle background.
//
// A Field owns its particles (stored as ECS entities), a time accumulator and,
// once started on a Host, one pending frame callback and one resize listener.
// Every frame it advances the particles by one tick and redraws the grid, the
// particles and the proximity lines onto its Surface.
package field

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/frame"
)

// ErrNoSurface is logged when Start is given no surface to draw on.
var ErrNoSurface = errors.New("field: drawing surface unavailable")

// ErrInvalidConfig is logged when a field is built from parameters that fail
// validation. Such a field never starts and draws nothing.
var ErrInvalidConfig = errors.New("field: invalid configuration")

// State is the lifecycle state of a Field.
type State uint8

const (
	Uninitialized State = iota
	Running
	Stopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Particle is a read-only snapshot of one particle.
type Particle struct {
	X, Y        float32
	VX, VY      float32
	BaseOpacity float32
	BaseSize    float32
	Opacity     float32
	Size        float32
	PulseOffset float32
	PulseSpeed  float32
	Origin      components.Origin
}

// FrameStats describes the most recent Tick and Render.
type FrameStats struct {
	Particles   int
	GridLines   int
	Circles     int
	Connections int

	Tick           time.Duration
	Grid           time.Duration
	Draw           time.Duration // particles and glows
	ConnectionPass time.Duration
}

// Field is the particle background. It is not safe for concurrent use; all
// calls are expected on the frame loop goroutine.
type Field struct {
	cfg    config.FieldConfig
	cfgErr error
	rng    *rand.Rand

	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Appearance, components.Pulse]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Appearance, components.Pulse]

	width, height int
	time          float64
	state         State

	host     Host
	surface  Surface
	pending  frame.Handle
	listener frame.ListenerID
	observer func(FrameStats)

	positions []r2.Vec // scratch for the connection pass
	stats     FrameStats
}

// New creates an uninitialized field. rng drives every random attribute; pass
// a seeded source for reproducible layouts.
// A cfg that fails validation is logged; the field then generates no
// particles and Start leaves it Uninitialized.
func New(cfg config.FieldConfig, rng *rand.Rand) *Field {
	world := ecs.NewWorld()
	f := &Field{
		cfg:    cfg,
		rng:    rng,
		world:  world,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Appearance, components.Pulse](world),
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Appearance, components.Pulse](world),
	}
	if err := cfg.Validate(); err != nil {
		f.cfgErr = fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		slog.Warn("particle field config rejected", "error", f.cfgErr)
	}
	return f
}

// Start mounts the field on host and begins animating on s.
// Without a surface, or with a config that failed validation, the field logs,
// stays Uninitialized and schedules nothing. s must hold a non-nil value: a
// typed nil pointer inside the interface is not detected.
// Starting a field that is already running or stopped does nothing.
func (f *Field) Start(host Host, s Surface) {
	if f.state != Uninitialized {
		return
	}
	if s == nil || host == nil {
		slog.Warn("particle field not started", "error", ErrNoSurface)
		return
	}
	if f.cfgErr != nil {
		slog.Warn("particle field not started", "error", f.cfgErr)
		return
	}

	f.host = host
	f.surface = s
	f.Initialize(host.Size())
	f.listener = host.AddResizeListener(f.Resize)
	f.state = Running
	f.pending = host.RequestFrame(f.onFrame)

	slog.Debug("particle field started", "width", f.width, "height", f.height, "particles", f.Count())
}

// onFrame is the per-frame callback: tick, render, request the next frame.
func (f *Field) onFrame(time.Time) {
	f.pending = 0
	if f.state != Running {
		return
	}
	f.Tick()
	f.Render(f.surface)
	if f.observer != nil {
		f.observer(f.stats)
	}
	f.pending = f.host.RequestFrame(f.onFrame)
}

// Teardown stops the animation and detaches the resize listener.
// It is idempotent; a never-started field simply becomes Stopped.
func (f *Field) Teardown() {
	if f.state == Stopped {
		return
	}
	if f.host != nil {
		if f.pending != 0 {
			f.host.CancelFrame(f.pending)
			f.pending = 0
		}
		f.host.RemoveResizeListener(f.listener)
		f.host = nil
	}
	f.surface = nil
	f.state = Stopped
	f.clear()
	slog.Debug("particle field stopped")
}

// Resize regenerates the particles for a new surface size.
func (f *Field) Resize(width, height int) {
	f.Initialize(width, height)
}

// Reconfigure swaps the field parameters and regenerates the particles for
// the current size. Time keeps running. A cfg that fails validation is
// rejected and the field keeps its current parameters and particles.
func (f *Field) Reconfigure(cfg config.FieldConfig) error {
	if err := cfg.Validate(); err != nil {
		return f.reject(err)
	}
	f.cfg, f.cfgErr = cfg, nil
	if f.state != Stopped {
		f.Initialize(f.width, f.height)
	}
	return nil
}

// Tune swaps the animation, grid line, glow and connection parameters
// without regenerating. Spawn recipes keep their old values until the next
// regeneration. Parameters that fail validation are rejected as a whole.
func (f *Field) Tune(cfg config.FieldConfig) error {
	next := f.cfg
	next.Color = cfg.Color
	next.Derived = cfg.Derived
	next.Animation = cfg.Animation
	next.GridLines = cfg.GridLines
	next.Glow = cfg.Glow
	next.Connections = cfg.Connections
	if err := next.Validate(); err != nil {
		return f.reject(err)
	}
	f.cfg = next
	return nil
}

// SetBoundary switches the boundary policy without regenerating. The new
// policy applies to every particle from the next tick on. Unknown policies
// are ignored.
func (f *Field) SetBoundary(policy string) {
	if policy != config.BoundaryWrap && policy != config.BoundaryBounce {
		slog.Warn("unknown boundary policy ignored", "boundary", policy)
		return
	}
	f.cfg.Animation.Boundary = policy
}

func (f *Field) reject(err error) error {
	err = fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	slog.Warn("particle field config rejected", "error", err)
	return err
}

// Regenerate discards the particles and generates a fresh set for the
// current size.
func (f *Field) Regenerate() {
	f.Initialize(f.width, f.height)
}

// SetObserver registers fn to receive frame stats after every rendered frame.
func (f *Field) SetObserver(fn func(FrameStats)) {
	f.observer = fn
}

// Config returns the parameters the field currently uses.
func (f *Field) Config() config.FieldConfig {
	return f.cfg
}

// State returns the lifecycle state.
func (f *Field) State() State {
	return f.state
}

// Time returns the animation time accumulator.
func (f *Field) Time() float64 {
	return f.time
}

// Size returns the surface size the particles were generated for.
func (f *Field) Size() (width, height int) {
	return f.width, f.height
}

// Stats returns the stats of the most recent frame.
func (f *Field) Stats() FrameStats {
	return f.stats
}

// Count returns the number of particles.
func (f *Field) Count() int {
	n := 0
	query := f.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Particles returns a snapshot of every particle in collection order.
func (f *Field) Particles() []Particle {
	var out []Particle
	query := f.filter.Query()
	for query.Next() {
		pos, vel, app, pulse := query.Get()
		out = append(out, Particle{
			X: pos.X, Y: pos.Y,
			VX: vel.X, VY: vel.Y,
			BaseOpacity: app.BaseOpacity,
			BaseSize:    app.BaseSize,
			Opacity:     app.Opacity,
			Size:        app.Size,
			PulseOffset: pulse.Offset,
			PulseSpeed:  pulse.Speed,
			Origin:      app.Origin,
		})
	}
	return out
}

// Entities returns the particle identities in collection order.
func (f *Field) Entities() []ecs.Entity {
	var out []ecs.Entity
	query := f.filter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// Alive reports whether e is a particle of the current generation.
func (f *Field) Alive(e ecs.Entity) bool {
	return f.world.Alive(e)
}
