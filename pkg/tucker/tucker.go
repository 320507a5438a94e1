// Package tucker implements the Tucker3 model: the factorization of a dense
// 3-axis tensor into a small core tensor and one column-orthonormal basis
// matrix per axis. Bases are initialized by higher-order SVD (HOSVD) and
// refined by higher-order orthogonal iteration (HOOI), an alternating
// least-squares loop that minimizes the Frobenius reconstruction error.
//
// References: Tucker 1966; De Lathauwer, De Moor, Vandewalle 2000a/2000b;
// Kolda, Bader 2009.
package tucker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"tucker3d/pkg/linalg"
	"tucker3d/pkg/tensor"
)

// Sentinel errors reported by decomposition operations.
var (
	// ErrShapeMismatch indicates tensors or bases whose extents do not
	// match the decomposition's declared dimensions.
	ErrShapeMismatch = errors.New("tucker: shape mismatch")

	// ErrBadRank indicates a rank that is non-positive or exceeds the
	// extent of its axis.
	ErrBadRank = errors.New("tucker: invalid rank")

	// ErrShortBuffer indicates an import buffer with fewer scalars than
	// the decomposition requires.
	ErrShortBuffer = errors.New("tucker: serialized buffer too short")

	// ErrBadFactor indicates a subsampling factor that does not map the
	// source extents onto the target extents.
	ErrBadFactor = errors.New("tucker: invalid subsampling factor")

	// ErrBadRegion indicates a region of interest that is empty, out of
	// range, or of the wrong size.
	ErrBadRegion = errors.New("tucker: invalid region of interest")
)

// Ranks holds the reduced extent of each axis: the core tensor has shape
// J1 x J2 x J3 and basis k has Jk columns.
type Ranks struct {
	J1, J2, J3 int
}

// Options controls the HOOI refinement loop.
type Options struct {
	// MaxIterations caps the number of alternating-least-squares passes.
	MaxIterations int

	// MinImprovement is the Frobenius-norm gain below which the loop
	// stops iterating.
	MinImprovement float64
}

// DefaultOptions returns the stock stopping rule: at most 3 iterations,
// stop once an iteration improves the reconstruction norm by 0.1 or less.
func DefaultOptions() Options {
	return Options{
		MaxIterations:  3,
		MinImprovement: 0.1,
	}
}

// Decomposition owns a Tucker3 tuple {core, U1, U2, U3} for a tensor of
// extents I1 x I2 x I3 at ranks (J1, J2, J3). The invariants
// dim(core) = (J1, J2, J3) and dim(Uk) = (Ik, Jk) hold for every
// decomposition the package hands out.
type Decomposition struct {
	i1, i2, i3 int
	ranks      Ranks

	core       *tensor.Tensor3
	u1, u2, u3 *mat.Dense

	// iterations records how many ALS passes the last Decompose ran.
	iterations int
}

// NewEmpty creates a zero-valued decomposition for a tensor of extents
// i1 x i2 x i3 at the given ranks. Each rank must satisfy 1 <= Jk <= Ik.
func NewEmpty(i1, i2, i3 int, ranks Ranks) (*Decomposition, error) {
	if i1 <= 0 || i2 <= 0 || i3 <= 0 {
		return nil, fmt.Errorf("tucker: non-positive extents (%d, %d, %d): %w", i1, i2, i3, ErrShapeMismatch)
	}
	for _, rk := range [3][2]int{{ranks.J1, i1}, {ranks.J2, i2}, {ranks.J3, i3}} {
		if rk[0] <= 0 || rk[0] > rk[1] {
			return nil, fmt.Errorf("tucker: ranks (%d, %d, %d) for extents (%d, %d, %d): %w",
				ranks.J1, ranks.J2, ranks.J3, i1, i2, i3, ErrBadRank)
		}
	}

	core, err := tensor.New(ranks.J1, ranks.J2, ranks.J3)
	if err != nil {
		return nil, err
	}
	return &Decomposition{
		i1: i1, i2: i2, i3: i3,
		ranks: ranks,
		core:  core,
		u1:    mat.NewDense(i1, ranks.J1, nil),
		u2:    mat.NewDense(i2, ranks.J2, nil),
		u3:    mat.NewDense(i3, ranks.J3, nil),
	}, nil
}

// New creates a decomposition from an externally supplied core and basis
// triple. Extents and ranks are inferred from the inputs; the bases must
// agree with the core on the rank of every axis. All inputs are copied.
func New(core *tensor.Tensor3, u1, u2, u3 *mat.Dense) (*Decomposition, error) {
	j1, j2, j3 := core.Dims()
	ranks := Ranks{J1: j1, J2: j2, J3: j3}

	for k, pair := range [3]struct {
		u    *mat.Dense
		rank int
	}{{u1, j1}, {u2, j2}, {u3, j3}} {
		_, c := pair.u.Dims()
		if c != pair.rank {
			return nil, fmt.Errorf("tucker: basis U%d has %d columns, core axis has extent %d: %w",
				k+1, c, pair.rank, ErrShapeMismatch)
		}
	}

	i1, _ := u1.Dims()
	i2, _ := u2.Dims()
	i3, _ := u3.Dims()
	d, err := NewEmpty(i1, i2, i3, ranks)
	if err != nil {
		return nil, err
	}
	d.core = core.Clone()
	d.u1.Copy(u1)
	d.u2.Copy(u2)
	d.u3.Copy(u3)
	return d, nil
}

// Dims returns the extents (I1, I2, I3) of the tensor the decomposition
// approximates.
func (d *Decomposition) Dims() (i1, i2, i3 int) {
	return d.i1, d.i2, d.i3
}

// Ranks returns the per-axis ranks (J1, J2, J3).
func (d *Decomposition) Ranks() Ranks {
	return d.ranks
}

// Core returns a copy of the core tensor.
func (d *Decomposition) Core() *tensor.Tensor3 {
	return d.core.Clone()
}

// U1 returns a copy of the first-axis basis.
func (d *Decomposition) U1() *mat.Dense { return mat.DenseCopyOf(d.u1) }

// U2 returns a copy of the second-axis basis.
func (d *Decomposition) U2() *mat.Dense { return mat.DenseCopyOf(d.u2) }

// U3 returns a copy of the third-axis basis.
func (d *Decomposition) U3() *mat.Dense { return mat.DenseCopyOf(d.u3) }

// SetCore replaces the core tensor with a copy of core.
func (d *Decomposition) SetCore(core *tensor.Tensor3) error {
	j1, j2, j3 := core.Dims()
	if j1 != d.ranks.J1 || j2 != d.ranks.J2 || j3 != d.ranks.J3 {
		return fmt.Errorf("tucker: core extents (%d, %d, %d) for ranks (%d, %d, %d): %w",
			j1, j2, j3, d.ranks.J1, d.ranks.J2, d.ranks.J3, ErrShapeMismatch)
	}
	d.core = core.Clone()
	return nil
}

// SetU1 replaces the first-axis basis with a copy of u.
func (d *Decomposition) SetU1(u *mat.Dense) error { return d.setBasis(&d.u1, u, d.i1, d.ranks.J1, 1) }

// SetU2 replaces the second-axis basis with a copy of u.
func (d *Decomposition) SetU2(u *mat.Dense) error { return d.setBasis(&d.u2, u, d.i2, d.ranks.J2, 2) }

// SetU3 replaces the third-axis basis with a copy of u.
func (d *Decomposition) SetU3(u *mat.Dense) error { return d.setBasis(&d.u3, u, d.i3, d.ranks.J3, 3) }

func (d *Decomposition) setBasis(dst **mat.Dense, u *mat.Dense, extent, rank, axis int) error {
	r, c := u.Dims()
	if r != extent || c != rank {
		return fmt.Errorf("tucker: basis U%d is %dx%d, want %dx%d: %w", axis, r, c, extent, rank, ErrShapeMismatch)
	}
	*dst = mat.DenseCopyOf(u)
	return nil
}

// Iterations reports how many ALS refinement passes the last Decompose ran.
func (d *Decomposition) Iterations() int {
	return d.iterations
}

// Decompose computes the rank-(J1, J2, J3) Tucker3 decomposition of data:
// HOSVD initialization followed by HOOI refinement under opts. Non-positive
// option fields fall back to the defaults.
func Decompose(data *tensor.Tensor3, ranks Ranks, opts Options) (*Decomposition, error) {
	i1, i2, i3 := data.Dims()
	d, err := NewEmpty(i1, i2, i3, ranks)
	if err != nil {
		return nil, err
	}
	if err := d.refine(data, opts); err != nil {
		return nil, err
	}
	return d, nil
}

// HOSVDBasis extracts the rank dominant left singular vectors of the
// matricization of data along axis a. When the SVD degenerates the returned
// basis is all zero: a deliberate best-effort policy so that the remaining
// axes still get usable bases.
func HOSVDBasis(data *tensor.Tensor3, a tensor.Axis, rank int) *mat.Dense {
	u, _, ok := linalg.LeftSingularVectors(data.Unfold(a), rank)
	if !ok {
		return mat.NewDense(a.Extent(data), rank, nil)
	}
	return u
}

// HOSVD seeds the basis triple with the higher-order SVD of data: each axis
// independently gets the dominant left singular vectors of its
// matricization. The core is not touched.
func (d *Decomposition) HOSVD(data *tensor.Tensor3) error {
	if err := d.checkData(data); err != nil {
		return err
	}
	d.u1 = HOSVDBasis(data, tensor.Axis1, d.ranks.J1)
	d.u2 = HOSVDBasis(data, tensor.Axis2, d.ranks.J2)
	d.u3 = HOSVDBasis(data, tensor.Axis3, d.ranks.J3)
	return nil
}

// refine runs the HOOI alternating-least-squares loop (De Lathauwer 2000b)
// and leaves the core consistent with the final bases.
func (d *Decomposition) refine(data *tensor.Tensor3, opts Options) error {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.MinImprovement <= 0 {
		opts.MinImprovement = DefaultOptions().MinImprovement
	}

	if err := d.HOSVD(data); err != nil {
		return err
	}
	core, err := DeriveCoreOrthogonal(data, d.u1, d.u2, d.u3)
	if err != nil {
		return err
	}
	d.core = core

	approx, err := d.Reconstruct()
	if err != nil {
		return err
	}
	maxNorm := data.FrobeniusNorm()
	lastNorm := approx.FrobeniusNorm()

	// The first iteration is gated on how far the HOSVD-only
	// reconstruction falls short of the original data's norm.
	improvement := maxNorm - lastNorm

	d.iterations = 0
	for improvement > opts.MinImprovement && d.iterations < opts.MaxIterations {
		// Each axis refresh uses the bases already updated earlier in
		// the same pass; that is the alternating part of ALS.
		p1, err := projectAxis(data, tensor.Axis1, d.u2, d.u3)
		if err != nil {
			return err
		}
		d.u1 = HOSVDBasis(p1, tensor.Axis1, d.ranks.J1)

		p2, err := projectAxis(data, tensor.Axis2, d.u1, d.u3)
		if err != nil {
			return err
		}
		d.u2 = HOSVDBasis(p2, tensor.Axis2, d.ranks.J2)

		p3, err := projectAxis(data, tensor.Axis3, d.u1, d.u2)
		if err != nil {
			return err
		}
		d.u3 = HOSVDBasis(p3, tensor.Axis3, d.ranks.J3)

		if d.core, err = DeriveCoreOrthogonal(data, d.u1, d.u2, d.u3); err != nil {
			return err
		}
		if approx, err = d.Reconstruct(); err != nil {
			return err
		}
		norm := approx.FrobeniusNorm()
		improvement = norm - lastNorm
		lastNorm = norm
		d.iterations++
	}

	// Unconditional final re-derivation keeps the returned core
	// consistent with the final bases even when zero iterations ran.
	d.core, err = DeriveCoreOrthogonal(data, d.u1, d.u2, d.u3)
	return err
}

// projectAxis reduces data along the two axes other than a by multiplying
// with the pseudo-inverses of their current bases, leaving axis a at full
// extent for the subsequent single-axis SVD refresh.
func projectAxis(data *tensor.Tensor3, a tensor.Axis, ub, uc *mat.Dense) (*tensor.Tensor3, error) {
	pb, err := linalg.PseudoInverse(ub)
	if err != nil {
		return nil, err
	}
	pc, err := linalg.PseudoInverse(uc)
	if err != nil {
		return nil, err
	}

	switch a {
	case tensor.Axis1:
		tmp, err := tensor.MultiplyFrontal(data, pb)
		if err != nil {
			return nil, err
		}
		return tensor.MultiplyHorizontal(tmp, pc)
	case tensor.Axis2:
		tmp, err := tensor.MultiplyLateral(data, pb)
		if err != nil {
			return nil, err
		}
		return tensor.MultiplyHorizontal(tmp, pc)
	case tensor.Axis3:
		tmp, err := tensor.MultiplyLateral(data, pb)
		if err != nil {
			return nil, err
		}
		return tensor.MultiplyFrontal(tmp, pc)
	}
	return nil, fmt.Errorf("tucker: invalid axis %d: %w", a, ErrShapeMismatch)
}

// Reconstruct expands the core through the three bases back to the full
// I1 x I2 x I3 extent. The result is exact only at full rank with
// orthonormal bases; otherwise it is the model's best approximation.
func (d *Decomposition) Reconstruct() (*tensor.Tensor3, error) {
	return tensor.MultiplyAll(d.core, d.u1, d.u2, d.u3)
}

// DeriveCore projects data onto the basis triple via per-axis
// pseudo-inverses: core = data x1 pinv(U1) x2 pinv(U2) x3 pinv(U3). It is
// valid for arbitrary bases; use DeriveCoreOrthogonal when the bases are
// known to have orthonormal columns.
func DeriveCore(data *tensor.Tensor3, u1, u2, u3 *mat.Dense) (*tensor.Tensor3, error) {
	p1, err := linalg.PseudoInverse(u1)
	if err != nil {
		return nil, err
	}
	p2, err := linalg.PseudoInverse(u2)
	if err != nil {
		return nil, err
	}
	p3, err := linalg.PseudoInverse(u3)
	if err != nil {
		return nil, err
	}
	return tensor.MultiplyAll(data, p1, p2, p3)
}

// DeriveCoreOrthogonal is the fast path of DeriveCore for bases with
// orthonormal columns, where pinv(Uk) = Uk^T. HOSVD and HOOI guarantee that
// property, so this is the variant used inside the refinement loop.
func DeriveCoreOrthogonal(data *tensor.Tensor3, u1, u2, u3 *mat.Dense) (*tensor.Tensor3, error) {
	return tensor.MultiplyAll(data, u1.T(), u2.T(), u3.T())
}

func (d *Decomposition) checkData(data *tensor.Tensor3) error {
	i1, i2, i3 := data.Dims()
	if i1 != d.i1 || i2 != d.i2 || i3 != d.i3 {
		return fmt.Errorf("tucker: data extents (%d, %d, %d), decomposition extents (%d, %d, %d): %w",
			i1, i2, i3, d.i1, d.i2, d.i3, ErrShapeMismatch)
	}
	return nil
}
