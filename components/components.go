// Package components defines ECS components for the particle field.
package components

// Origin records which placement rule produced a particle.
type Origin uint8

const (
	OriginGrid Origin = iota
	OriginScattered
	OriginCluster
	OriginEdge
)

// String returns the rule name.
func (o Origin) String() string {
	switch o {
	case OriginGrid:
		return "grid"
	case OriginScattered:
		return "scattered"
	case OriginCluster:
		return "cluster"
	case OriginEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Position is a particle's location in surface pixels.
// May sit outside the surface by up to the wrap margin.
type Position struct {
	X, Y float32
}

// Velocity is the per-tick displacement.
type Velocity struct {
	X, Y float32
}

// Appearance holds resting and pulsed visual attributes.
// Opacity and Size are rewritten every tick from the base values.
type Appearance struct {
	BaseOpacity float32
	BaseSize    float32
	Opacity     float32
	Size        float32
	Origin      Origin
}

// Pulse drives the sinusoidal size/opacity oscillation.
type Pulse struct {
	Offset float32 // phase in [0, 2π)
	Speed  float32
}
