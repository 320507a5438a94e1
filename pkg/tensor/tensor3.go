// Package tensor provides a dense, fixed-dimension 3-axis array (Tensor3)
// together with the traversal and matricization (unfolding) operations that
// higher-order decompositions are built on.
//
// A Tensor3 of extents I1 x I2 x I3 is stored as an ordered sequence of I3
// "frontal slices", each a dense I1 x I2 matrix laid out column-major. The
// iterator and all three matricizations depend on this layout.
package tensor

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors reported by tensor operations.
var (
	// ErrShapeMismatch indicates that the extents of an input do not match
	// the extents the operation requires.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrNilTensor indicates an operation on an iterator that has no
	// backing tensor (a zero-value Iterator).
	ErrNilTensor = errors.New("tensor: iterator has no backing tensor")
)

// Tensor3 is a dense 3-axis array with extents fixed at creation.
// Elements are addressed by three zero-based indices (i1, i2, i3) where
// i1 indexes rows, i2 columns and i3 frontal slices.
type Tensor3 struct {
	rows   int // I1
	cols   int // I2
	slices int // I3

	// data holds the frontal slices back to back; within a slice the
	// elements are column-major, so the flat offset of (i1, i2, i3) is
	// i3*rows*cols + i2*rows + i1.
	data []float64
}

// New creates a zero-filled tensor with extents i1 x i2 x i3.
// All extents must be positive.
func New(i1, i2, i3 int) (*Tensor3, error) {
	if i1 <= 0 || i2 <= 0 || i3 <= 0 {
		return nil, fmt.Errorf("tensor: non-positive extents (%d, %d, %d): %w", i1, i2, i3, ErrShapeMismatch)
	}
	return &Tensor3{
		rows:   i1,
		cols:   i2,
		slices: i3,
		data:   make([]float64, i1*i2*i3),
	}, nil
}

// FromSlice creates a tensor with extents i1 x i2 x i3 backed by a copy of
// data, which must hold exactly i1*i2*i3 values in storage order (frontal
// slices back to back, column-major within each slice).
func FromSlice(i1, i2, i3 int, data []float64) (*Tensor3, error) {
	t, err := New(i1, i2, i3)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("tensor: %d values for extents (%d, %d, %d): %w", len(data), i1, i2, i3, ErrShapeMismatch)
	}
	copy(t.data, data)
	return t, nil
}

// Dims returns the three extents (I1, I2, I3).
func (t *Tensor3) Dims() (i1, i2, i3 int) {
	return t.rows, t.cols, t.slices
}

// Len returns the total number of elements, I1*I2*I3.
func (t *Tensor3) Len() int {
	return len(t.data)
}

// At returns the element at (i1, i2, i3).
func (t *Tensor3) At(i1, i2, i3 int) float64 {
	return t.data[t.offset(i1, i2, i3)]
}

// Set stores v at (i1, i2, i3).
func (t *Tensor3) Set(i1, i2, i3 int, v float64) {
	t.data[t.offset(i1, i2, i3)] = v
}

func (t *Tensor3) offset(i1, i2, i3 int) int {
	if i1 < 0 || i1 >= t.rows || i2 < 0 || i2 >= t.cols || i3 < 0 || i3 >= t.slices {
		panic(fmt.Sprintf("tensor: index (%d, %d, %d) out of range (%d, %d, %d)", i1, i2, i3, t.rows, t.cols, t.slices))
	}
	return i3*t.rows*t.cols + i2*t.rows + i1
}

// Zero sets every element to zero.
func (t *Tensor3) Zero() {
	for i := range t.data {
		t.data[i] = 0
	}
}

// Fill sets every element to v.
func (t *Tensor3) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Clone returns a deep copy of the tensor.
func (t *Tensor3) Clone() *Tensor3 {
	c := &Tensor3{
		rows:   t.rows,
		cols:   t.cols,
		slices: t.slices,
		data:   make([]float64, len(t.data)),
	}
	copy(c.data, t.data)
	return c
}

// Raw returns the backing storage in iteration order. The slice is owned by
// the tensor; callers that need an independent copy should copy it.
func (t *Tensor3) Raw() []float64 {
	return t.data
}

// Equal reports whether o has the same extents and the same element values.
func (t *Tensor3) Equal(o *Tensor3) bool {
	if t.rows != o.rows || t.cols != o.cols || t.slices != o.slices {
		return false
	}
	for i, v := range t.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports whether o has the same extents and element values
// within tol of t's.
func (t *Tensor3) EqualApprox(o *Tensor3, tol float64) bool {
	if t.rows != o.rows || t.cols != o.cols || t.slices != o.slices {
		return false
	}
	for i, v := range t.data {
		if math.Abs(v-o.data[i]) > tol {
			return false
		}
	}
	return true
}

// FrobeniusNorm returns the root of the sum of squares of all elements.
func (t *Tensor3) FrobeniusNorm() float64 {
	sum := 0.0
	for _, v := range t.data {
		sum += v * v
	}
	return math.Sqrt(sum)
}
