package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Equal(t, BoundaryWrap, cfg.Field.Animation.Boundary)
	assert.Equal(t, [3]uint8{0xdc, 0x35, 0x45}, cfg.Field.Derived.RGB)
	assert.Equal(t, 500, cfg.Field.Scattered.Count)
	assert.Equal(t, Range{Min: 0.4, Max: 1.0}, cfg.Field.Grid.Spawn.Opacity)
}

func TestLoadSparseProfile(t *testing.T) {
	cfg, err := Load("", "sparse")
	require.NoError(t, err)

	assert.Equal(t, "sparse", cfg.Profile)
	assert.Equal(t, BoundaryBounce, cfg.Field.Animation.Boundary)
	assert.Equal(t, 60.0, cfg.Field.Grid.Step)
	assert.Zero(t, cfg.Field.Scattered.Count)
	assert.Zero(t, cfg.Field.Clusters.Count)
	assert.Zero(t, cfg.Field.Edges.Count)
	// Non-field sections keep the defaults
	assert.Equal(t, 60, cfg.Screen.TargetFPS)
}

func TestLoadUnknownProfile(t *testing.T) {
	_, err := Load("", "nebula")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nebula")
}

func TestProfiles(t *testing.T) {
	assert.ElementsMatch(t, []string{"dense", "sparse"}, Profiles())
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	overlay := "field:\n  connections:\n    threshold: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0644))

	base, err := Load("", "")
	require.NoError(t, err)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.Field.Connections.Threshold)

	// Everything else is untouched
	base.Field.Connections.Threshold = 100
	if diff := cmp.Diff(base, cfg); diff != "" {
		t.Errorf("overlay changed more than threshold (-want +got):\n%s", diff)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *FieldConfig)
		want   string
	}{
		{"opacity below floor", func(f *FieldConfig) { f.Grid.Spawn.Opacity = Range{0.1, 0.5} }, "opacity"},
		{"opacity above one", func(f *FieldConfig) { f.Scattered.Spawn.Opacity = Range{0.5, 1.2} }, "opacity"},
		{"size too large", func(f *FieldConfig) { f.Edges.Spawn.Size = Range{1, 5} }, "size"},
		{"inverted range", func(f *FieldConfig) { f.Clusters.Spawn.Size = Range{2, 1} }, "size"},
		{"zero grid step", func(f *FieldConfig) { f.Grid.Step = 0 }, "grid.step"},
		{"unknown boundary", func(f *FieldConfig) { f.Animation.Boundary = "teleport" }, "boundary"},
		{"zero min opacity", func(f *FieldConfig) { f.Animation.MinOpacity = 0 }, "min_opacity"},
		{"dense outer glow", func(f *FieldConfig) { f.Glow[1].Every = 2 }, "every 4th"},
		{"zero window", func(f *FieldConfig) { f.Connections.Window = 0 }, "window"},
		{"zero stride", func(f *FieldConfig) { f.Connections.Stride = 0 }, "stride"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("", "")
			require.NoError(t, err)
			tt.mutate(&cfg.Field)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateIgnoresEmptySubsets(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	cfg.Field.Scattered.Count = 0
	cfg.Field.Scattered.Spawn = SpawnConfig{}

	assert.NoError(t, cfg.Validate())
}

func TestRangeYAML(t *testing.T) {
	var v struct {
		A Range `yaml:"a"`
		B Range `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: [0.25, 0.75]\nb: 2\n"), &v))
	assert.Equal(t, Range{0.25, 0.75}, v.A)
	assert.Equal(t, Range{2, 2}, v.B)

	err := yaml.Unmarshal([]byte("a: [1, 2, 3]\n"), &v)
	assert.Error(t, err)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: [0.25, 0.75]")
}

func TestRangeLerp(t *testing.T) {
	r := Range{Min: 1, Max: 3}
	assert.Equal(t, 1.0, r.Lerp(0))
	assert.Equal(t, 2.0, r.Lerp(0.5))
	assert.Equal(t, 3.0, r.Lerp(1))
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("", "sparse")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	// Written file loads back to the same config on top of the defaults
	again, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, cfg.Field.Connections, again.Field.Connections)
	assert.Equal(t, cfg.Field.Animation, again.Field.Animation)
}

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field:\n  connections:\n    threshold: 90\n"), 0644))

	w, err := NewWatcher(path, "", 30*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("field:\n  connections:\n    threshold: 70\n"), 0644))

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, 70.0, cfg.Field.Connections.Threshold)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	<-w.Done()
}

func TestWatcherSkipsInvalid(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte("screen:\n  target_fps: 60\n"), 0644))

	w, err := NewWatcher(path, "", 30*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	bad := strings.Join([]string{"field:", "  grid:", "    step: -1", ""}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0644))

	select {
	case cfg := <-w.Updates():
		t.Fatalf("invalid config delivered: %+v", cfg.Field.Grid)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	<-w.Done()
}
