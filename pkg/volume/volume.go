// Package volume reads and writes dense volumes as headerless flat files of
// little-endian float64 values in tensor storage order. The shape is not
// recorded in the file; callers carry it out of band, matching the
// decomposition wire format.
package volume

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"tucker3d/pkg/tensor"
)

// Load reads a volume of extents i1 x i2 x i3 from path. The file must hold
// at least i1*i2*i3 float64 values; surplus bytes are ignored.
func Load(path string, i1, i2, i3 int) (*tensor.Tensor3, error) {
	t, err := tensor.New(i1, i2, i3)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("volume: opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	buf := make([]byte, 8)
	data := t.Raw()
	for i := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("volume: reading element %d of %d from %s: %w", i, len(data), path, err)
		}
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}
	return t, nil
}

// Save writes the volume to path, overwriting any existing file.
func Save(path string, t *tensor.Tensor3) error {
	return SaveBuffer(path, t.Raw())
}

// SaveBuffer writes a flat scalar buffer to path in the same format Save
// uses; it also serves the headerless decomposition export buffer.
func SaveBuffer(path string, data []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("volume: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	buf := make([]byte, 8)
	for _, v := range data {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("volume: writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("volume: flushing %s: %w", path, err)
	}
	return f.Sync()
}
