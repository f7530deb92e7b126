package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Glyphs by circle radius in pixels.
const (
	glyphDot    = '·'
	glyphBullet = '•'
	glyphDisc   = '●'
)

// TerminalSurface rasterizes draw calls onto a tcell screen. Pixel space is
// mapped onto character cells of CellWidth x CellHeight pixels. Each cell
// keeps the alpha of whatever was drawn into it this frame, and a fainter
// call never replaces a brighter one.
type TerminalSurface struct {
	screen       tcell.Screen
	cellW, cellH float64

	background colorful.Color
	bgStyle    tcell.Style

	cols, rows int
	level      []float64
}

// NewTerminalSurface creates a surface over screen.
func NewTerminalSurface(screen tcell.Screen, cellW, cellH float64, background [3]uint8) *TerminalSurface {
	s := &TerminalSurface{screen: screen, cellW: cellW, cellH: cellH}
	s.SetBackground(background)
	s.sync()
	return s
}

// SetBackground changes the color every cell is blended over.
func (s *TerminalSurface) SetBackground(background [3]uint8) {
	s.background = rgb(background[0], background[1], background[2])
	s.bgStyle = tcell.StyleDefault.Background(toTcell(s.background))
}

// PixelSize converts a terminal size in cells to pixels.
func (s *TerminalSurface) PixelSize(cols, rows int) (width, height int) {
	return int(float64(cols) * s.cellW), int(float64(rows) * s.cellH)
}

// Clear blanks the screen and resets the brightness buffer. The buffer
// follows the current screen size.
func (s *TerminalSurface) Clear() {
	s.sync()
	clear(s.level)
	s.screen.Fill(' ', s.bgStyle)
}

// StrokeLine walks the cells between both endpoints. Axis-aligned lines use
// box-drawing characters, anything else a dot.
func (s *TerminalSurface) StrokeLine(x1, y1, x2, y2, _ float32, c color.NRGBA) {
	glyph := rune(glyphDot)
	switch {
	case x1 == x2:
		glyph = '│'
	case y1 == y2:
		glyph = '─'
	}

	c1, r1 := float64(x1)/s.cellW, float64(y1)/s.cellH
	c2, r2 := float64(x2)/s.cellW, float64(y2)/s.cellH
	steps := int(math.Ceil(math.Max(math.Abs(c2-c1), math.Abs(r2-r1))))
	if steps == 0 {
		s.plot(cell(c1), cell(r1), glyph, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.plot(cell(c1+(c2-c1)*t), cell(r1+(r2-r1)*t), glyph, c)
	}
}

// FillCircle draws a glyph for circles that fit in a cell and tints the
// background of every covered cell for larger ones.
func (s *TerminalSurface) FillCircle(x, y, radius float32, c color.NRGBA) {
	r := float64(radius)
	if r <= s.cellW {
		s.plot(cell(float64(x)/s.cellW), cell(float64(y)/s.cellH), glyphFor(r), c)
		return
	}

	cx, cy := float64(x), float64(y)
	minCol, maxCol := cell((cx-r)/s.cellW), cell((cx+r)/s.cellW)
	minRow, maxRow := cell((cy-r)/s.cellH), cell((cy+r)/s.cellH)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			// Distance from the circle center to the cell center
			dx := (float64(col)+0.5)*s.cellW - cx
			dy := (float64(row)+0.5)*s.cellH - cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			s.tint(col, row, c)
		}
	}
}

// Present flushes the frame to the terminal.
func (s *TerminalSurface) Present() {
	s.screen.Show()
}

func (s *TerminalSurface) sync() {
	cols, rows := s.screen.Size()
	if s.level != nil && cols == s.cols && rows == s.rows {
		return
	}
	s.cols, s.rows = cols, rows
	s.level = make([]float64, max(cols*rows, 0))
}

// claim reports whether a call of alpha a may draw into the cell, and
// records it if so.
func (s *TerminalSurface) claim(col, row int, a float64) bool {
	if a <= 0 || col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return false
	}
	i := row*s.cols + col
	if a < s.level[i] {
		return false
	}
	s.level[i] = a
	return true
}

func (s *TerminalSurface) plot(col, row int, glyph rune, c color.NRGBA) {
	a := float64(c.A) / 255
	if !s.claim(col, row, a) {
		return
	}
	s.screen.SetContent(col, row, glyph, nil, s.bgStyle.Foreground(s.blend(c, a)))
}

func (s *TerminalSurface) tint(col, row int, c color.NRGBA) {
	a := float64(c.A) / 255
	if !s.claim(col, row, a) {
		return
	}
	s.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(s.blend(c, a)))
}

// blend composites c at alpha a over the background.
func (s *TerminalSurface) blend(c color.NRGBA, a float64) tcell.Color {
	return toTcell(s.background.BlendRgb(rgb(c.R, c.G, c.B), a))
}

func glyphFor(radius float64) rune {
	switch {
	case radius < 1.5:
		return glyphDot
	case radius < 3:
		return glyphBullet
	default:
		return glyphDisc
	}
}

func cell(v float64) int {
	return int(math.Floor(v))
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
