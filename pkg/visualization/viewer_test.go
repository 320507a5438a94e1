package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"tucker3d/pkg/tensor"
)

func testVolume(t *testing.T) *tensor.Tensor3 {
	t.Helper()
	vol, err := tensor.New(4, 3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i, n := 0, vol.Len(); i < n; i++ {
		vol.Raw()[i] = float64(i) / float64(n)
	}
	return vol
}

func TestExtractSliceDimensions(t *testing.T) {
	v := NewViewer(testVolume(t))

	cases := []struct {
		axis string
		w, h int
	}{
		{"x", 3, 2},
		{"y", 4, 2},
		{"z", 4, 3},
	}
	for _, tc := range cases {
		t.Run(tc.axis, func(t *testing.T) {
			img, err := v.ExtractSlice(tc.axis, 0)
			if err != nil {
				t.Fatalf("ExtractSlice failed: %v", err)
			}
			bounds := img.Bounds()
			if bounds.Dx() != tc.w || bounds.Dy() != tc.h {
				t.Errorf("slice size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), tc.w, tc.h)
			}
		})
	}
}

func TestExtractSliceValidation(t *testing.T) {
	v := NewViewer(testVolume(t))

	if _, err := v.ExtractSlice("x", -1); err == nil {
		t.Error("negative position should fail")
	}
	if _, err := v.ExtractSlice("z", 2); err == nil {
		t.Error("position past the extent should fail")
	}
	if _, err := v.ExtractSlice("w", 0); err == nil {
		t.Error("unknown axis should fail")
	}
}

func TestSaveSliceSequence(t *testing.T) {
	v := NewViewer(testVolume(t))
	dir := t.TempDir()

	if err := v.SaveSliceSequence("z", dir); err != nil {
		t.Fatalf("SaveSliceSequence failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("saved %d slices, want 2", len(entries))
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".jpg" {
			t.Errorf("unexpected file %s", e.Name())
		}
	}
}
