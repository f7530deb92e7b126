package telemetry

import "time"

// FrameSample is what one rendered frame reports to the collector.
type FrameSample struct {
	Duration    time.Duration
	Particles   int
	GridLines   int
	Circles     int
	Connections int
}

// FieldState describes the field when a window is flushed.
type FieldState struct {
	Time          float64
	Particles     int
	Width, Height int
}

// Collector accumulates frame samples and events within windows of frames
// and produces WindowStats.
type Collector struct {
	windowFrames uint64
	budget       time.Duration

	// Current window tracking
	windowStartFrame uint64

	frameMS     []float64
	circles     int
	connections int
	connMax     int
	gridLines   int
	dropped     int

	// Event counters for current window
	regenerations int
	resizes       int
	reloads       int
}

// NewCollector creates a new stats collector.
// windowFrames: frames per stats window
// budget: frame time above which a frame counts as dropped (0 = never)
func NewCollector(windowFrames int, budget time.Duration) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: uint64(windowFrames),
		budget:       budget,
		frameMS:      make([]float64, 0, windowFrames),
	}
}

// RecordFrame adds one frame to the current window.
func (c *Collector) RecordFrame(s FrameSample) {
	c.frameMS = append(c.frameMS, float64(s.Duration)/float64(time.Millisecond))
	c.circles += s.Circles
	c.connections += s.Connections
	c.connMax = max(c.connMax, s.Connections)
	c.gridLines = s.GridLines
	if c.budget > 0 && s.Duration > c.budget {
		c.dropped++
	}
}

// RecordRegeneration records a particle regeneration (manual or reconfigure).
func (c *Collector) RecordRegeneration() {
	c.regenerations++
}

// RecordResize records a surface resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// RecordReload records an applied config reload.
func (c *Collector) RecordReload() {
	c.reloads++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame uint64) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame uint64, field FieldState) WindowStats {
	frames := len(c.frameMS)
	d := ComputeDurationStats(c.frameMS)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		FieldTime:        field.Time,

		Particles: field.Particles,
		Width:     field.Width,
		Height:    field.Height,

		GridLines:      c.gridLines,
		ConnectionsMax: c.connMax,

		FrameMeanMS: d.Mean,
		FrameStdMS:  d.Std,
		FrameP50MS:  d.P50,
		FrameP90MS:  d.P90,
		FrameMaxMS:  d.Max,

		Dropped: c.dropped,

		Regenerations: c.regenerations,
		Resizes:       c.resizes,
		Reloads:       c.reloads,
	}
	if frames > 0 {
		stats.CirclesMean = float64(c.circles) / float64(frames)
		stats.ConnectionsMean = float64(c.connections) / float64(frames)
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.frameMS = c.frameMS[:0]
	c.circles = 0
	c.connections = 0
	c.connMax = 0
	c.dropped = 0
	c.regenerations = 0
	c.resizes = 0
	c.reloads = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() uint64 {
	return c.windowFrames
}
