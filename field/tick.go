package field

import (
	"math"
	"time"

	"github.com/pthm-cable/backdrop/config"
)

// Tick advances time by one fixed step, moves every particle, applies the
// boundary policy and recomputes the pulsed opacity and size.
// The particle count never changes here.
func (f *Field) Tick() {
	start := time.Now()
	anim := f.cfg.Animation
	f.time += anim.TimeStep

	w, h := float32(f.width), float32(f.height)
	wrap := anim.Boundary != config.BoundaryBounce
	margin := float32(anim.WrapMargin)
	damping := float32(anim.BounceDamping)
	minOpacity := float32(anim.MinOpacity)
	minSize := float32(anim.MinSize)

	query := f.filter.Query()
	for query.Next() {
		pos, vel, app, pulse := query.Get()

		pos.X += vel.X
		pos.Y += vel.Y

		if wrap {
			pos.X = wrapCoord(pos.X, w, margin)
			pos.Y = wrapCoord(pos.Y, h, margin)
		} else {
			pos.X, vel.X = bounceCoord(pos.X, vel.X, w, damping)
			pos.Y, vel.Y = bounceCoord(pos.Y, vel.Y, h, damping)
		}

		p := float32(math.Sin(f.time*float64(pulse.Speed) + float64(pulse.Offset)))
		app.Opacity = clamp(app.BaseOpacity+p*float32(anim.PulseOpacity), minOpacity, 1)
		app.Size = max(app.BaseSize+p*float32(anim.PulseSize), minSize)
	}

	f.stats.Tick = time.Since(start)
}

// wrapCoord moves a coordinate that left [-margin, limit+margin] to the
// opposite side.
func wrapCoord(v, limit, margin float32) float32 {
	if v < -margin {
		return limit + margin
	}
	if v > limit+margin {
		return -margin
	}
	return v
}

// bounceCoord clamps a coordinate into [0, limit] and reflects and damps an
// outward velocity at either edge.
func bounceCoord(v, vel, limit, damping float32) (float32, float32) {
	switch {
	case v < 0:
		v = 0
		if vel < 0 {
			vel = -vel * damping
		}
	case v > limit:
		v = limit
		if vel > 0 {
			vel = -vel * damping
		}
	}
	return v, vel
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
