package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/backdrop/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// A nil manager accepts every write
	assert.NoError(t, om.WriteFrames(WindowStats{}))
	assert.NoError(t, om.WritePerf(PerfStats{}, 1))
	assert.NoError(t, om.WriteConfig(nil))
	assert.NoError(t, om.Close())
	assert.Empty(t, om.Dir())
	assert.Empty(t, om.RunID())
}

func TestOutputManagerWritesCSV(t *testing.T) {
	base := t.TempDir()
	om, err := NewOutputManager(base)
	require.NoError(t, err)

	_, err = uuid.Parse(om.RunID())
	require.NoError(t, err, "run id must be a uuid")
	assert.Equal(t, filepath.Join(base, om.RunID()), om.Dir())

	require.NoError(t, om.WriteFrames(WindowStats{WindowEndFrame: 600, Particles: 2875}))
	require.NoError(t, om.WriteFrames(WindowStats{WindowEndFrame: 1200, Particles: 2875}))
	require.NoError(t, om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseTick: 12.5}}, 600))

	cfg, err := config.Load("", "")
	require.NoError(t, err)
	require.NoError(t, om.WriteConfig(cfg))
	require.NoError(t, om.Close())

	frames, err := os.ReadFile(filepath.Join(om.Dir(), "frames.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(frames)), "\n")
	require.Len(t, lines, 3, "one header and two records")
	assert.True(t, strings.HasPrefix(lines[0], "window_end,field_time,particles"))
	assert.True(t, strings.HasPrefix(lines[1], "600,"))
	assert.True(t, strings.HasPrefix(lines[2], "1200,"))

	perf, err := os.ReadFile(filepath.Join(om.Dir(), "perf.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(perf), "tick_pct")
	assert.Contains(t, string(perf), "12.5")

	reloaded, err := config.Load(filepath.Join(om.Dir(), "config.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, cfg.Field.Grid, reloaded.Field.Grid)
}
