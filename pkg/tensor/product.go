package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MultiplyMode computes the n-mode product of src with m along axis a: the
// axis's extent Ia is replaced by the row count of m, which must have Ia
// columns. The product is computed on the axis's matricization and folded
// back into tensor form.
func MultiplyMode(src *Tensor3, m mat.Matrix, a Axis) (*Tensor3, error) {
	r, c := m.Dims()
	if c != a.Extent(src) {
		return nil, fmt.Errorf("tensor: mode-%d product of %dx%d with extent %d: %w", a, r, c, a.Extent(src), ErrShapeMismatch)
	}

	var prod mat.Dense
	prod.Mul(m, src.Unfold(a))

	i1, i2, i3 := src.Dims()
	switch a {
	case Axis1:
		i1 = r
	case Axis2:
		i2 = r
	case Axis3:
		i3 = r
	}
	return Fold(&prod, a, i1, i2, i3)
}

// MultiplyLateral is the mode-1 product: m is R x I1, the result R x I2 x I3.
func MultiplyLateral(src *Tensor3, m mat.Matrix) (*Tensor3, error) {
	return MultiplyMode(src, m, Axis1)
}

// MultiplyFrontal is the mode-2 product: m is R x I2, the result I1 x R x I3.
func MultiplyFrontal(src *Tensor3, m mat.Matrix) (*Tensor3, error) {
	return MultiplyMode(src, m, Axis2)
}

// MultiplyHorizontal is the mode-3 product: m is R x I3, the result
// I1 x I2 x R.
func MultiplyHorizontal(src *Tensor3, m mat.Matrix) (*Tensor3, error) {
	return MultiplyMode(src, m, Axis3)
}

// MultiplyAll composes the three n-mode products:
// src x1 m1 x2 m2 x3 m3. It is the kernel shared by core derivation and
// reconstruction.
func MultiplyAll(src *Tensor3, m1, m2, m3 mat.Matrix) (*Tensor3, error) {
	t, err := MultiplyMode(src, m1, Axis1)
	if err != nil {
		return nil, err
	}
	t, err = MultiplyMode(t, m2, Axis2)
	if err != nil {
		return nil, err
	}
	return MultiplyMode(t, m3, Axis3)
}
