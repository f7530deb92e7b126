package renderer

import "image/color"

// CallKind identifies a recorded draw call.
type CallKind uint8

const (
	CallLine CallKind = iota
	CallCircle
)

// Call is one recorded draw call. Lines use X1..Y2, circles use X1, Y1 and
// Radius.
type Call struct {
	Kind           CallKind
	X1, Y1, X2, Y2 float32
	Width          float32
	Radius         float32
	Color          color.NRGBA
}

// Recorder is a surface that draws nothing and counts what it was asked to
// draw. Used for headless runs and tests.
type Recorder struct {
	keep bool

	frames       int
	totalLines   int
	totalCircles int

	lines   int
	circles int
	calls   []Call
}

// NewRecorder creates a recorder. With keep set, the calls of the current
// frame are retained for Calls.
func NewRecorder(keep bool) *Recorder {
	return &Recorder{keep: keep}
}

// Clear starts a new frame.
func (r *Recorder) Clear() {
	r.frames++
	r.lines = 0
	r.circles = 0
	r.calls = r.calls[:0]
}

// StrokeLine records a line.
func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float32, c color.NRGBA) {
	r.lines++
	r.totalLines++
	if r.keep {
		r.calls = append(r.calls, Call{Kind: CallLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: c})
	}
}

// FillCircle records a circle.
func (r *Recorder) FillCircle(x, y, radius float32, c color.NRGBA) {
	r.circles++
	r.totalCircles++
	if r.keep {
		r.calls = append(r.calls, Call{Kind: CallCircle, X1: x, Y1: y, Radius: radius, Color: c})
	}
}

// Frames returns how many times Clear was called.
func (r *Recorder) Frames() int { return r.frames }

// Lines returns the lines drawn since the last Clear.
func (r *Recorder) Lines() int { return r.lines }

// Circles returns the circles drawn since the last Clear.
func (r *Recorder) Circles() int { return r.circles }

// Totals returns the lines and circles drawn over the recorder's lifetime.
func (r *Recorder) Totals() (lines, circles int) { return r.totalLines, r.totalCircles }

// Calls returns the calls of the current frame. Empty unless keep was set.
func (r *Recorder) Calls() []Call { return r.calls }
