// Package visualization exports 2D slice images of a tensor volume, mainly
// for eyeballing an original volume against its Tucker reconstruction.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"tucker3d/pkg/tensor"
)

// Viewer renders grayscale slice images from a volume. Element values are
// expected in [0, 1] and are clamped to the 16-bit grayscale range.
type Viewer struct {
	vol *tensor.Tensor3
}

// NewViewer creates a viewer over the given volume. The volume is not
// copied; the viewer only reads it.
func NewViewer(vol *tensor.Tensor3) *Viewer {
	return &Viewer{vol: vol}
}

// ExtractSlice renders the 2D slice of the volume at the given position
// along the named axis: "x" fixes the first axis (a cols x slices image),
// "y" the second (rows x slices), "z" the third (rows x cols).
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	i1, i2, i3 := v.vol.Dims()
	if position < 0 {
		return nil, fmt.Errorf("visualization: position must be non-negative, got %d", position)
	}

	var img *image.Gray16
	switch axis {
	case "x", "X":
		if position >= i1 {
			return nil, fmt.Errorf("visualization: position %d exceeds extent %d", position, i1)
		}
		img = image.NewGray16(image.Rect(0, 0, i2, i3))
		for s := 0; s < i3; s++ {
			for j := 0; j < i2; j++ {
				img.SetGray16(j, s, gray(v.vol.At(position, j, s)))
			}
		}

	case "y", "Y":
		if position >= i2 {
			return nil, fmt.Errorf("visualization: position %d exceeds extent %d", position, i2)
		}
		img = image.NewGray16(image.Rect(0, 0, i1, i3))
		for s := 0; s < i3; s++ {
			for i := 0; i < i1; i++ {
				img.SetGray16(i, s, gray(v.vol.At(i, position, s)))
			}
		}

	case "z", "Z":
		if position >= i3 {
			return nil, fmt.Errorf("visualization: position %d exceeds extent %d", position, i3)
		}
		img = image.NewGray16(image.Rect(0, 0, i1, i2))
		for j := 0; j < i2; j++ {
			for i := 0; i < i1; i++ {
				img.SetGray16(i, j, gray(v.vol.At(i, j, position)))
			}
		}

	default:
		return nil, fmt.Errorf("visualization: invalid axis %q (must be x, y, or z)", axis)
	}

	return img, nil
}

// gray clamps a [0, 1] value into 16-bit grayscale.
func gray(v float64) color.Gray16 {
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, v*65535)))}
}

// SaveSlice saves an extracted slice as a JPEG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
// into outputDir, one JPEG per position.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	i1, i2, i3 := v.vol.Dims()
	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = i1
	case "y", "Y":
		maxPos = i2
	case "z", "Z":
		maxPos = i3
	default:
		return fmt.Errorf("visualization: invalid axis %q (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
