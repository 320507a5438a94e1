// Package linalg wraps the numerical primitives the Tucker decomposition
// consumes as black boxes: dominant left-singular-vector extraction and the
// Moore-Penrose pseudo-inverse. Both are built on gonum's dense SVD.
package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular indicates that the SVD failed to converge.
var ErrSingular = errors.New("linalg: svd did not converge")

// eps is the double-precision machine epsilon.
const eps = 2.220446049250313e-16

// LeftSingularVectors computes the rank dominant left singular vectors of a.
// It returns the M x rank basis with orthonormal columns, the singular
// values, and a success flag. ok is false when the factorization does not
// converge or when rank exceeds min(M, N); callers are expected to treat a
// false flag as a degenerate axis, not a hard failure.
func LeftSingularVectors(a mat.Matrix, rank int) (u *mat.Dense, s []float64, ok bool) {
	m, n := a.Dims()
	if rank <= 0 || rank > m || rank > n {
		return nil, nil, false
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, nil, false
	}

	var full mat.Dense
	svd.UTo(&full)
	s = svd.Values(nil)

	u = mat.NewDense(m, rank, nil)
	u.Copy(full.Slice(0, m, 0, rank))
	return u, s, true
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse of the M x N
// matrix a, returned as N x M. Singular values below a scale-relative
// threshold are treated as zero.
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	m, n := a.Dims()

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("linalg: pseudo-inverse of %dx%d matrix: %w", m, n, ErrSingular)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// Cutoff relative to the largest singular value, as LAPACK-based
	// pseudo-inverses conventionally do.
	tol := 0.0
	if len(s) > 0 {
		tol = float64(max(m, n)) * s[0] * eps
	}

	// pinv(A) = V * S^+ * U^T, with S^+ inverting only significant values.
	k := len(s)
	sInv := mat.NewDense(k, k, nil)
	for i, sv := range s {
		if sv > tol {
			sInv.Set(i, i, 1/sv)
		}
	}

	var vs, pinv mat.Dense
	vs.Mul(&v, sInv)
	pinv.Mul(&vs, u.T())
	return &pinv, nil
}
