package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	FieldTime        float64 `csv:"field_time"`

	// Field state at window end
	Particles int `csv:"particles"`
	Width     int `csv:"width"`
	Height    int `csv:"height"`

	// Draw calls per frame
	GridLines       int     `csv:"grid_lines"`
	CirclesMean     float64 `csv:"circles_mean"`
	ConnectionsMean float64 `csv:"connections_mean"`
	ConnectionsMax  int     `csv:"connections_max"`

	// Frame time distribution in milliseconds
	FrameMeanMS float64 `csv:"frame_mean_ms"`
	FrameStdMS  float64 `csv:"frame_std_ms"`
	FrameP50MS  float64 `csv:"frame_p50_ms"`
	FrameP90MS  float64 `csv:"frame_p90_ms"`
	FrameMaxMS  float64 `csv:"frame_max_ms"`

	// Frames whose work exceeded the frame budget
	Dropped int `csv:"dropped"`

	// Events during window
	Regenerations int `csv:"regenerations"`
	Resizes       int `csv:"resizes"`
	Reloads       int `csv:"reloads"`
}

// DurationStats summarizes a sample of durations.
type DurationStats struct {
	Mean, Std, P50, P90, Max float64
}

// ComputeDurationStats calculates mean, standard deviation, percentiles and
// maximum of values. Returns zeros for an empty sample.
func ComputeDurationStats(values []float64) DurationStats {
	n := len(values)
	if n == 0 {
		return DurationStats{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 || math.IsNaN(std) {
		std = 0
	}

	return DurationStats{
		Mean: mean,
		Std:  std,
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  sorted[n-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("field_time", s.FieldTime),
		slog.Int("particles", s.Particles),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("grid_lines", s.GridLines),
		slog.Float64("circles_mean", s.CirclesMean),
		slog.Float64("connections_mean", s.ConnectionsMean),
		slog.Int("connections_max", s.ConnectionsMax),
		slog.Float64("frame_mean_ms", s.FrameMeanMS),
		slog.Float64("frame_std_ms", s.FrameStdMS),
		slog.Float64("frame_p50_ms", s.FrameP50MS),
		slog.Float64("frame_p90_ms", s.FrameP90MS),
		slog.Float64("frame_max_ms", s.FrameMaxMS),
		slog.Int("dropped", s.Dropped),
		slog.Int("regenerations", s.Regenerations),
		slog.Int("resizes", s.Resizes),
		slog.Int("reloads", s.Reloads),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"field_time", s.FieldTime,
		"particles", s.Particles,
		"width", s.Width,
		"height", s.Height,
		"connections_mean", s.ConnectionsMean,
		"frame_mean_ms", s.FrameMeanMS,
		"frame_p90_ms", s.FrameP90MS,
		"dropped", s.Dropped,
		"regenerations", s.Regenerations,
	)
}
