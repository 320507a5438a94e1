package volume

import (
	"os"
	"path/filepath"
	"testing"

	"tucker3d/pkg/tensor"
)

func testVolume(t *testing.T, i1, i2, i3 int) *tensor.Tensor3 {
	t.Helper()
	data := make([]float64, i1*i2*i3)
	for i := range data {
		data[i] = float64(i) * 0.25
	}
	ten, err := tensor.FromSlice(i1, i2, i3, data)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return ten
}

func TestSaveLoadRoundTrip(t *testing.T) {
	vol := testVolume(t, 3, 4, 2)
	path := filepath.Join(t.TempDir(), "volume.bin")

	if err := Save(path, vol); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, 3, 4, 2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !vol.Equal(loaded) {
		t.Error("loaded volume differs from the saved one")
	}
}

func TestLoadShortFile(t *testing.T) {
	vol := testVolume(t, 2, 2, 2)
	path := filepath.Join(t.TempDir(), "volume.bin")

	if err := Save(path, vol); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Asking for more elements than the file holds must fail.
	if _, err := Load(path, 2, 2, 3); err == nil {
		t.Error("Load of a short file should fail")
	}
}

func TestLoadIgnoresSurplus(t *testing.T) {
	vol := testVolume(t, 2, 2, 3)
	path := filepath.Join(t.TempDir(), "volume.bin")

	if err := Save(path, vol); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Loading a smaller shape reads a prefix of the file.
	loaded, err := Load(path, 2, 2, 2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, v := range loaded.Raw() {
		if v != vol.Raw()[i] {
			t.Fatalf("element %d = %v, want %v", i, v, vol.Raw()[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin"), 2, 2, 2); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestSaveBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buffer.bin")
	if err := SaveBuffer(path, []float64{1, 2, 3}); err != nil {
		t.Fatalf("SaveBuffer failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 24 {
		t.Errorf("file size = %d, want 24", info.Size())
	}
}
