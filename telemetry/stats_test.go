package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestComputeDurationStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	d := ComputeDurationStats(values)

	if math.Abs(d.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(d.Std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", d.Std)
	}
	if d.P50 != 5 {
		t.Errorf("p50 = %v, want 5", d.P50)
	}
	if d.P90 != 9 {
		t.Errorf("p90 = %v, want 9", d.P90)
	}
	if d.Max != 10 {
		t.Errorf("max = %v, want 10", d.Max)
	}
	if values[0] != 10 {
		t.Error("input slice must not be reordered")
	}
}

func TestComputeDurationStatsEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   DurationStats
	}{
		{"empty", nil, DurationStats{}},
		{"single", []float64{4}, DurationStats{Mean: 4, Std: 0, P50: 4, P90: 4, Max: 4}},
		{"constant", []float64{2, 2, 2}, DurationStats{Mean: 2, Std: 0, P50: 2, P90: 2, Max: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDurationStats(tt.values)
			if got != tt.want {
				t.Errorf("ComputeDurationStats(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(4, 10*time.Millisecond)

	durations := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 12 * time.Millisecond, 6 * time.Millisecond}
	for i, d := range durations {
		if c.ShouldFlush(uint64(i)) {
			t.Fatalf("flush requested after %d frames", i)
		}
		c.RecordFrame(FrameSample{Duration: d, Particles: 100, GridLines: 39, Circles: 225, Connections: 10 * (i + 1)})
	}
	c.RecordRegeneration()
	c.RecordResize()
	c.RecordReload()

	if !c.ShouldFlush(4) {
		t.Fatal("expected flush after a full window")
	}

	stats := c.Flush(4, FieldState{Time: 0.06, Particles: 100, Width: 400, Height: 300})

	if stats.WindowStartFrame != 0 || stats.WindowEndFrame != 4 {
		t.Errorf("window = [%d, %d], want [0, 4]", stats.WindowStartFrame, stats.WindowEndFrame)
	}
	if stats.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", stats.Dropped)
	}
	if math.Abs(stats.FrameMeanMS-6) > 0.001 {
		t.Errorf("frame mean = %v, want 6", stats.FrameMeanMS)
	}
	if stats.FrameMaxMS != 12 {
		t.Errorf("frame max = %v, want 12", stats.FrameMaxMS)
	}
	if stats.ConnectionsMean != 25 || stats.ConnectionsMax != 40 {
		t.Errorf("connections mean/max = %v/%d, want 25/40", stats.ConnectionsMean, stats.ConnectionsMax)
	}
	if stats.CirclesMean != 225 || stats.GridLines != 39 {
		t.Errorf("circles/grid = %v/%d, want 225/39", stats.CirclesMean, stats.GridLines)
	}
	if stats.Regenerations != 1 || stats.Resizes != 1 || stats.Reloads != 1 {
		t.Errorf("events = %d/%d/%d, want 1/1/1", stats.Regenerations, stats.Resizes, stats.Reloads)
	}
	if stats.Particles != 100 || stats.Width != 400 || stats.Height != 300 {
		t.Errorf("field state not carried over: %+v", stats)
	}

	// Counters reset for the next window
	next := c.Flush(8, FieldState{})
	if next.WindowStartFrame != 4 || next.Dropped != 0 || next.Regenerations != 0 || next.FrameMeanMS != 0 {
		t.Errorf("window not reset: %+v", next)
	}
}

func TestCollectorZeroBudgetNeverDrops(t *testing.T) {
	c := NewCollector(1, 0)
	c.RecordFrame(FrameSample{Duration: time.Second})
	if got := c.Flush(1, FieldState{}).Dropped; got != 0 {
		t.Errorf("dropped = %d, want 0", got)
	}
}
