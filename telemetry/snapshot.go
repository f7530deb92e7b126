package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete field state at one frame. Together with the
// seed and profile it is enough to compare two runs particle by particle.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id,omitempty"`
	RNGSeed int64  `json:"rng_seed"`
	Profile string `json:"profile"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Frame uint64  `json:"frame"`
	Time  float64 `json:"time"`

	Particles []ParticleState `json:"particles"`

	Label string `json:"label,omitempty"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	Origin string `json:"origin"`

	// Position and movement
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
	VX float32 `json:"vx"`
	VY float32 `json:"vy"`

	// Appearance
	BaseOpacity float32 `json:"base_opacity"`
	BaseSize    float32 `json:"base_size"`
	Opacity     float32 `json:"opacity"`
	Size        float32 `json:"size"`

	PulseOffset float32 `json:"pulse_offset"`
	PulseSpeed  float32 `json:"pulse_speed"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Frame)
	if snapshot.Label != "" {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Frame, strings.ReplaceAll(snapshot.Label, " ", "_"))
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
