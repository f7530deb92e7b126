package renderer

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accent = color.NRGBA{R: 220, G: 53, B: 69, A: 255}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, col, row int) rune {
	r, _, _, _ := screen.GetContent(col, row)
	return r
}

func TestRecorderCountsPerFrame(t *testing.T) {
	r := NewRecorder(true)

	r.Clear()
	r.StrokeLine(0, 0, 10, 10, 1, accent)
	r.FillCircle(5, 5, 2, accent)
	r.FillCircle(6, 6, 2, accent)

	assert.Equal(t, 1, r.Frames())
	assert.Equal(t, 1, r.Lines())
	assert.Equal(t, 2, r.Circles())
	require.Len(t, r.Calls(), 3)
	assert.Equal(t, CallLine, r.Calls()[0].Kind)
	assert.Equal(t, CallCircle, r.Calls()[1].Kind)
	assert.Equal(t, float32(2), r.Calls()[1].Radius)

	r.Clear()
	r.FillCircle(1, 1, 1, accent)

	assert.Equal(t, 2, r.Frames())
	assert.Equal(t, 0, r.Lines())
	assert.Equal(t, 1, r.Circles())
	assert.Len(t, r.Calls(), 1)

	lines, circles := r.Totals()
	assert.Equal(t, 1, lines)
	assert.Equal(t, 3, circles)
}

func TestRecorderWithoutKeep(t *testing.T) {
	r := NewRecorder(false)
	r.Clear()
	r.StrokeLine(0, 0, 1, 1, 1, accent)
	assert.Equal(t, 1, r.Lines())
	assert.Empty(t, r.Calls())
}

func TestTerminalPixelSize(t *testing.T) {
	screen := newSimScreen(t, 100, 50)
	s := NewTerminalSurface(screen, 8, 16, [3]uint8{10, 10, 12})

	w, h := s.PixelSize(screen.Size())
	assert.Equal(t, 800, w)
	assert.Equal(t, 800, h)
}

func TestTerminalGlyphByRadius(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewTerminalSurface(screen, 8, 16, [3]uint8{10, 10, 12})
	s.Clear()

	s.FillCircle(4, 8, 1, accent)    // cell (0, 0)
	s.FillCircle(12, 8, 2, accent)   // cell (1, 0)
	s.FillCircle(20, 8, 4, accent)   // cell (2, 0)
	s.FillCircle(-4, 8, 1, accent)   // off screen
	s.FillCircle(400, 8, 1, accent)  // off screen

	assert.Equal(t, glyphDot, runeAt(screen, 0, 0))
	assert.Equal(t, glyphBullet, runeAt(screen, 1, 0))
	assert.Equal(t, glyphDisc, runeAt(screen, 2, 0))
	assert.Equal(t, ' ', runeAt(screen, 3, 0))
}

func TestTerminalKeepsBrighterCells(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewTerminalSurface(screen, 8, 16, [3]uint8{10, 10, 12})
	s.Clear()

	s.FillCircle(4, 8, 1, withAlpha(accent, 200))
	s.FillCircle(4, 8, 2, withAlpha(accent, 20))
	assert.Equal(t, glyphDot, runeAt(screen, 0, 0), "fainter circle must not replace a brighter one")

	s.FillCircle(4, 8, 2, withAlpha(accent, 250))
	assert.Equal(t, glyphBullet, runeAt(screen, 0, 0), "brighter circle replaces a fainter one")

	s.Clear()
	s.FillCircle(4, 8, 2, withAlpha(accent, 20))
	assert.Equal(t, glyphBullet, runeAt(screen, 0, 0), "clear resets brightness")
}

func TestTerminalLines(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewTerminalSurface(screen, 8, 16, [3]uint8{10, 10, 12})
	s.Clear()

	s.StrokeLine(0, 24, 80, 24, 1, withAlpha(accent, 40)) // row 1
	s.StrokeLine(36, 0, 36, 80, 1, withAlpha(accent, 60)) // column 4

	assert.Equal(t, '─', runeAt(screen, 0, 1))
	assert.Equal(t, '─', runeAt(screen, 9, 1))
	assert.Equal(t, '│', runeAt(screen, 4, 0))
	assert.Equal(t, '│', runeAt(screen, 4, 4))
	assert.Equal(t, '│', runeAt(screen, 4, 1), "brighter vertical line wins the crossing")

	s.StrokeLine(0, 0, 80, 80, 1, withAlpha(accent, 255))
	assert.Equal(t, glyphDot, runeAt(screen, 0, 0))
}

func TestTerminalGlowTintsCells(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewTerminalSurface(screen, 8, 16, [3]uint8{10, 10, 12})
	s.Clear()

	// A 20px glow around (40, 40) covers cells whose centers lie within it.
	s.FillCircle(40, 40, 20, withAlpha(accent, 30))

	_, _, tinted, _ := screen.GetContent(4, 2)
	_, _, plain, _ := screen.GetContent(0, 0)
	assert.NotEqual(t, plain, tinted)
	assert.Equal(t, ' ', runeAt(screen, 4, 2))
}

func TestTerminalFollowsResize(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewTerminalSurface(screen, 8, 16, [3]uint8{10, 10, 12})
	s.Clear()

	screen.SetSize(20, 10)
	s.Clear()
	s.FillCircle(8*15+4, 16*8+8, 1, accent)
	assert.Equal(t, glyphDot, runeAt(screen, 15, 8))
}
