package tucker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// The wire format is a headerless flat scalar sequence in the fixed order
// U1, U2, U3, core. Basis matrices are written column by column; the core is
// written in its storage order (frontal slices, column-major within a
// slice). The caller is responsible for knowing the shape parameters out of
// band.

// SerializedLen returns the number of scalars Export produces and Import
// consumes: I1*J1 + I2*J2 + I3*J3 + J1*J2*J3.
func (d *Decomposition) SerializedLen() int {
	return d.i1*d.ranks.J1 + d.i2*d.ranks.J2 + d.i3*d.ranks.J3 +
		d.ranks.J1*d.ranks.J2*d.ranks.J3
}

// Export appends the decomposition's scalars to dst and returns the
// extended slice.
func (d *Decomposition) Export(dst []float64) []float64 {
	for _, u := range []*mat.Dense{d.u1, d.u2, d.u3} {
		r, c := u.Dims()
		for j := 0; j < c; j++ {
			for i := 0; i < r; i++ {
				dst = append(dst, u.At(i, j))
			}
		}
	}
	return append(dst, d.core.Raw()...)
}

// Import overwrites the decomposition from the first SerializedLen scalars
// of src, in the same order Export wrote them. A shorter buffer fails with
// ErrShortBuffer; surplus scalars are ignored.
func (d *Decomposition) Import(src []float64) error {
	if len(src) < d.SerializedLen() {
		return fmt.Errorf("tucker: %d scalars for serialized length %d: %w",
			len(src), d.SerializedLen(), ErrShortBuffer)
	}

	pos := 0
	for _, u := range []*mat.Dense{d.u1, d.u2, d.u3} {
		r, c := u.Dims()
		for j := 0; j < c; j++ {
			for i := 0; i < r; i++ {
				u.Set(i, j, src[pos])
				pos++
			}
		}
	}
	copy(d.core.Raw(), src[pos:pos+d.core.Len()])
	return nil
}
