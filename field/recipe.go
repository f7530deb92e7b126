package field

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// Initialize discards every particle and generates a fresh set for a
// width x height surface. A surface without area yields no particles.
func (f *Field) Initialize(width, height int) {
	if f.state == Stopped {
		return
	}
	f.clear()
	f.width, f.height = width, height
	if width <= 0 || height <= 0 || f.cfgErr != nil {
		return
	}

	w, h := float64(width), float64(height)
	cfg := &f.cfg

	// Grid intersections over the surface plus a margin border
	step := cfg.Grid.Step
	cols, rows := gridCells(cfg.Grid, width, height)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			x := float64(c-cfg.Grid.Margin) * step
			y := float64(r-cfg.Grid.Margin) * step
			f.spawn(x, y, cfg.Grid.Spawn, components.OriginGrid)
		}
	}

	// Uniform scatter, independent of surface size
	for i := 0; i < cfg.Scattered.Count; i++ {
		f.spawn(f.rng.Float64()*w, f.rng.Float64()*h, cfg.Scattered.Spawn, components.OriginScattered)
	}

	// Hotspots: polar-random points around random centers
	for c := 0; c < cfg.Clusters.Count; c++ {
		cx := f.rng.Float64() * w
		cy := f.rng.Float64() * h
		for i := 0; i < cfg.Clusters.Size; i++ {
			angle := f.rng.Float64() * 2 * math.Pi
			radius := f.rng.Float64() * cfg.Clusters.Radius
			f.spawn(cx+math.Cos(angle)*radius, cy+math.Sin(angle)*radius, cfg.Clusters.Spawn, components.OriginCluster)
		}
	}

	// Edge band, round-robin top, right, bottom, left
	band := cfg.Edges.Band
	for i := 0; i < cfg.Edges.Count; i++ {
		var x, y float64
		switch i % 4 {
		case 0:
			x, y = f.rng.Float64()*w, f.rng.Float64()*band
		case 1:
			x, y = w-f.rng.Float64()*band, f.rng.Float64()*h
		case 2:
			x, y = f.rng.Float64()*w, h-f.rng.Float64()*band
		case 3:
			x, y = f.rng.Float64()*band, f.rng.Float64()*h
		}
		f.spawn(x, y, cfg.Edges.Spawn, components.OriginEdge)
	}
}

// ExpectedCount returns how many particles Initialize creates for a
// width x height surface.
func ExpectedCount(cfg config.FieldConfig, width, height int) int {
	if width <= 0 || height <= 0 || cfg.Grid.Step <= 0 {
		return 0
	}
	cols, rows := gridCells(cfg.Grid, width, height)
	return cols*rows +
		cfg.Scattered.Count +
		cfg.Clusters.Count*cfg.Clusters.Size +
		cfg.Edges.Count
}

// gridCells returns the grid dimensions: enough intersections to reach both
// far edges, plus Margin extra cells on every side.
func gridCells(g config.GridConfig, width, height int) (cols, rows int) {
	cols = int(math.Ceil(float64(width)/g.Step)) + 1 + 2*g.Margin
	rows = int(math.Ceil(float64(height)/g.Step)) + 1 + 2*g.Margin
	return cols, rows
}

// spawn creates one particle at (x, y) with attributes drawn from s.
func (f *Field) spawn(x, y float64, s config.SpawnConfig, origin components.Origin) {
	opacity := float32(s.Opacity.Lerp(f.rng.Float64()))
	size := float32(s.Size.Lerp(f.rng.Float64()))

	pos := components.Position{X: float32(x), Y: float32(y)}
	vel := components.Velocity{
		X: float32((f.rng.Float64()*2 - 1) * s.Drift),
		Y: float32((f.rng.Float64()*2 - 1) * s.Drift),
	}
	app := components.Appearance{
		BaseOpacity: opacity,
		BaseSize:    size,
		Opacity:     opacity,
		Size:        size,
		Origin:      origin,
	}
	pulse := components.Pulse{
		Offset: float32(f.rng.Float64() * 2 * math.Pi),
		Speed:  float32(s.PulseSpeed.Lerp(f.rng.Float64())),
	}
	f.mapper.NewEntity(&pos, &vel, &app, &pulse)
}

// clear removes every particle entity.
func (f *Field) clear() {
	var dead []ecs.Entity
	query := f.filter.Query()
	for query.Next() {
		dead = append(dead, query.Entity())
	}
	for _, e := range dead {
		f.world.RemoveEntity(e)
	}
}
