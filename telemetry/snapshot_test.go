package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: 42,
		Profile: "dense",
		Width:   1280,
		Height:  720,
		Frame:   1000,
		Time:    15,
		Particles: []ParticleState{
			{Origin: "grid", X: -40, Y: 0, VX: 0.1, VY: -0.05, BaseOpacity: 0.6, BaseSize: 2, Opacity: 0.7, Size: 2.4, PulseOffset: 1.2, PulseSpeed: 0.03},
			{Origin: "edge", X: 1270, Y: 300, BaseOpacity: 0.3, BaseSize: 1, Opacity: 0.1, Size: 0.2, PulseSpeed: 0.05},
		},
		Label: "final",
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Frame != snapshot.Frame {
		t.Errorf("Frame mismatch: got %d, want %d", loaded.Frame, snapshot.Frame)
	}
	if len(loaded.Particles) != len(snapshot.Particles) {
		t.Fatalf("Particles count mismatch: got %d, want %d", len(loaded.Particles), len(snapshot.Particles))
	}
	if loaded.Particles[0] != snapshot.Particles[0] {
		t.Errorf("Particle mismatch: got %+v, want %+v", loaded.Particles[0], snapshot.Particles[0])
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 5000, Label: "after resize"}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	expected := filepath.Join(tmpDir, "snapshot_5000_after_resize.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
