package field

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Render draws one frame: clear, shimmering grid, particles with glows, then
// proximity lines. Colors are recomputed on every call.
func (f *Field) Render(s Surface) {
	if s == nil || f.cfgErr != nil {
		return
	}
	s.Clear()

	start := time.Now()
	f.stats.GridLines = f.drawGrid(s)
	gridDone := time.Now()
	f.stats.Grid = gridDone.Sub(start)

	f.stats.Particles, f.stats.Circles = f.drawParticles(s)
	drawDone := time.Now()
	f.stats.Draw = drawDone.Sub(gridDone)

	f.stats.Connections = f.drawConnections(s)
	f.stats.ConnectionPass = time.Since(drawDone)
}

// drawGrid strokes vertical and horizontal lines whose opacity follows
// sin(time + coord*frequency).
func (f *Field) drawGrid(s Surface) int {
	gl := f.cfg.GridLines
	rgb := f.cfg.Derived.RGB
	w, h := float64(f.width), float64(f.height)
	width := float32(gl.Width)

	n := 0
	for x := 0.0; x <= w+gl.Step; x += gl.Step {
		alpha := gl.BaseOpacity + math.Sin(f.time+x*gl.Frequency)*gl.Amplitude
		s.StrokeLine(float32(x), 0, float32(x), float32(h), width, rgba(rgb, alpha))
		n++
	}
	for y := 0.0; y <= h+gl.Step; y += gl.Step {
		alpha := gl.BaseOpacity + math.Sin(f.time+y*gl.Frequency)*gl.Amplitude
		s.StrokeLine(0, float32(y), float32(w), float32(y), width, rgba(rgb, alpha))
		n++
	}
	return n
}

// drawParticles fills the glow layers and the particle body for each
// particle, and records positions for the connection pass.
func (f *Field) drawParticles(s Surface) (particles, circles int) {
	rgb := f.cfg.Derived.RGB
	glow := f.cfg.Glow
	f.positions = f.positions[:0]

	query := f.filter.Query()
	for query.Next() {
		pos, _, app, _ := query.Get()
		i := particles
		particles++
		f.positions = append(f.positions, r2.Vec{X: float64(pos.X), Y: float64(pos.Y)})

		opacity := float64(app.Opacity)
		// Outermost layers first so the body sits on top
		for g := len(glow) - 1; g >= 0; g-- {
			layer := glow[g]
			if i%layer.Every != 0 {
				continue
			}
			alpha := max(opacity*layer.AlphaScale, layer.AlphaFloor)
			s.FillCircle(pos.X, pos.Y, app.Size*float32(layer.RadiusScale), rgba(rgb, alpha))
			circles++
		}
		s.FillCircle(pos.X, pos.Y, app.Size, rgba(rgb, opacity))
		circles++
	}
	return particles, circles
}

// drawConnections links nearby particles. Only every Stride-th particle
// starts a scan, and each scan looks at the next Window-1 particles, which
// keeps the pass linear in the particle count.
func (f *Field) drawConnections(s Surface) int {
	cn := f.cfg.Connections
	rgb := f.cfg.Derived.RGB
	pts := f.positions
	width := float32(cn.Width)

	lines := 0
	for i := 0; i < len(pts); i += cn.Stride {
		end := min(len(pts), i+cn.Window)
		for j := i + 1; j < end; j++ {
			d := r2.Norm(r2.Sub(pts[i], pts[j]))
			alpha := ConnectionOpacity(d, cn.Threshold, cn.MaxOpacity)
			if alpha <= 0 {
				continue
			}
			s.StrokeLine(float32(pts[i].X), float32(pts[i].Y), float32(pts[j].X), float32(pts[j].Y), width, rgba(rgb, alpha))
			lines++
		}
	}
	return lines
}

// ConnectionOpacity is the line opacity for two particles d apart: maxOpacity
// at distance 0 falling linearly to 0 at threshold, and 0 beyond.
func ConnectionOpacity(d, threshold, maxOpacity float64) float64 {
	if d >= threshold || threshold <= 0 {
		return 0
	}
	return (threshold - d) / threshold * maxOpacity
}
