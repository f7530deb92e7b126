// Package renderer provides drawing surfaces for the particle field: a raylib
// window, a tcell terminal and an in-memory recorder.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibSurface draws into the current raylib frame. Calls must happen
// between rl.BeginDrawing and rl.EndDrawing on the window thread.
type RaylibSurface struct {
	background rl.Color
}

// NewRaylibSurface creates a surface that clears to the given background.
func NewRaylibSurface(background [3]uint8) *RaylibSurface {
	return &RaylibSurface{background: rl.NewColor(background[0], background[1], background[2], 255)}
}

// SetBackground changes the clear color.
func (s *RaylibSurface) SetBackground(background [3]uint8) {
	s.background = rl.NewColor(background[0], background[1], background[2], 255)
}

// Clear fills the window with the background color.
func (s *RaylibSurface) Clear() {
	rl.ClearBackground(s.background)
}

// StrokeLine draws an alpha-blended line segment.
func (s *RaylibSurface) StrokeLine(x1, y1, x2, y2, width float32, c color.NRGBA) {
	rl.DrawLineEx(rl.NewVector2(x1, y1), rl.NewVector2(x2, y2), width, toRaylib(c))
}

// FillCircle draws an alpha-blended filled circle.
func (s *RaylibSurface) FillCircle(x, y, radius float32, c color.NRGBA) {
	rl.DrawCircleV(rl.NewVector2(x, y), radius, toRaylib(c))
}

// toRaylib passes straight alpha through; raylib blends non-premultiplied.
func toRaylib(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
