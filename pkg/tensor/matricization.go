package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Axis selects one of the three tensor axes for matricization and n-mode
// products.
type Axis int

const (
	// Axis1 unfolds along the first axis (lateral): rows index i1.
	Axis1 Axis = 1
	// Axis2 unfolds along the second axis (frontal): rows index i2.
	Axis2 Axis = 2
	// Axis3 unfolds along the third axis (horizontal): rows index i3.
	Axis3 Axis = 3
)

// Extent returns the tensor extent along the axis.
func (a Axis) Extent(t *Tensor3) int {
	switch a {
	case Axis1:
		return t.rows
	case Axis2:
		return t.cols
	case Axis3:
		return t.slices
	}
	panic(fmt.Sprintf("tensor: invalid axis %d", a))
}

// Unfold returns the matricization of the tensor along the given axis. The
// result is a fresh matrix; the tensor is not aliased.
//
// Column enumeration per axis (backward-cyclic unfolding):
//
//	Axis1: I1 x I2*I3, column = i3*I2 + i2 (i2 fastest)
//	Axis2: I2 x I1*I3, column = i3*I1 + i1 (i1 fastest)
//	Axis3: I3 x I1*I2, column = i2*I1 + i1 (i1 fastest)
func (t *Tensor3) Unfold(a Axis) *mat.Dense {
	var m *mat.Dense
	switch a {
	case Axis1:
		m = mat.NewDense(t.rows, t.cols*t.slices, nil)
		for i3 := 0; i3 < t.slices; i3++ {
			for i2 := 0; i2 < t.cols; i2++ {
				for i1 := 0; i1 < t.rows; i1++ {
					m.Set(i1, i3*t.cols+i2, t.At(i1, i2, i3))
				}
			}
		}
	case Axis2:
		m = mat.NewDense(t.cols, t.rows*t.slices, nil)
		for i3 := 0; i3 < t.slices; i3++ {
			for i2 := 0; i2 < t.cols; i2++ {
				for i1 := 0; i1 < t.rows; i1++ {
					m.Set(i2, i3*t.rows+i1, t.At(i1, i2, i3))
				}
			}
		}
	case Axis3:
		m = mat.NewDense(t.slices, t.rows*t.cols, nil)
		for i3 := 0; i3 < t.slices; i3++ {
			for i2 := 0; i2 < t.cols; i2++ {
				for i1 := 0; i1 < t.rows; i1++ {
					m.Set(i3, i2*t.rows+i1, t.At(i1, i2, i3))
				}
			}
		}
	default:
		panic(fmt.Sprintf("tensor: invalid axis %d", a))
	}
	return m
}

// LateralMatricization unfolds the tensor along its first axis into an
// I1 x I2*I3 matrix.
func (t *Tensor3) LateralMatricization() *mat.Dense { return t.Unfold(Axis1) }

// FrontalMatricization unfolds the tensor along its second axis into an
// I2 x I1*I3 matrix.
func (t *Tensor3) FrontalMatricization() *mat.Dense { return t.Unfold(Axis2) }

// HorizontalMatricization unfolds the tensor along its third axis into an
// I3 x I1*I2 matrix.
func (t *Tensor3) HorizontalMatricization() *mat.Dense { return t.Unfold(Axis3) }

// Fold is the inverse of Unfold: it reassembles a tensor of extents
// (i1, i2, i3) from its matricization along axis a. The matrix shape must
// match the axis's unfolding of those extents exactly.
func Fold(m *mat.Dense, a Axis, i1, i2, i3 int) (*Tensor3, error) {
	t, err := New(i1, i2, i3)
	if err != nil {
		return nil, err
	}
	r, c := m.Dims()
	switch a {
	case Axis1:
		if r != i1 || c != i2*i3 {
			return nil, fmt.Errorf("tensor: fold axis 1 of %dx%d into (%d, %d, %d): %w", r, c, i1, i2, i3, ErrShapeMismatch)
		}
		for s := 0; s < i3; s++ {
			for j := 0; j < i2; j++ {
				for i := 0; i < i1; i++ {
					t.Set(i, j, s, m.At(i, s*i2+j))
				}
			}
		}
	case Axis2:
		if r != i2 || c != i1*i3 {
			return nil, fmt.Errorf("tensor: fold axis 2 of %dx%d into (%d, %d, %d): %w", r, c, i1, i2, i3, ErrShapeMismatch)
		}
		for s := 0; s < i3; s++ {
			for j := 0; j < i2; j++ {
				for i := 0; i < i1; i++ {
					t.Set(i, j, s, m.At(j, s*i1+i))
				}
			}
		}
	case Axis3:
		if r != i3 || c != i1*i2 {
			return nil, fmt.Errorf("tensor: fold axis 3 of %dx%d into (%d, %d, %d): %w", r, c, i1, i2, i3, ErrShapeMismatch)
		}
		for s := 0; s < i3; s++ {
			for j := 0; j < i2; j++ {
				for i := 0; i < i1; i++ {
					t.Set(i, j, s, m.At(s, j*i1+i))
				}
			}
		}
	default:
		return nil, fmt.Errorf("tensor: invalid axis %d: %w", a, ErrShapeMismatch)
	}
	return t, nil
}
