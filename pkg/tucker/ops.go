package tucker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ReduceRanks fills d from a decomposition of the same extents but higher
// (or equal) ranks by truncation: the first Jk columns of each basis and the
// leading J1 x J2 x J3 block of the core are copied verbatim. No
// re-optimization takes place.
func (d *Decomposition) ReduceRanks(src *Decomposition) error {
	if src.i1 != d.i1 || src.i2 != d.i2 || src.i3 != d.i3 {
		return fmt.Errorf("tucker: reduce ranks across extents (%d, %d, %d) -> (%d, %d, %d): %w",
			src.i1, src.i2, src.i3, d.i1, d.i2, d.i3, ErrShapeMismatch)
	}
	if d.ranks.J1 > src.ranks.J1 || d.ranks.J2 > src.ranks.J2 || d.ranks.J3 > src.ranks.J3 {
		return fmt.Errorf("tucker: reduce ranks (%d, %d, %d) -> (%d, %d, %d): %w",
			src.ranks.J1, src.ranks.J2, src.ranks.J3, d.ranks.J1, d.ranks.J2, d.ranks.J3, ErrBadRank)
	}

	for j := 0; j < d.ranks.J1; j++ {
		d.u1.SetCol(j, mat.Col(nil, j, src.u1))
	}
	for j := 0; j < d.ranks.J2; j++ {
		d.u2.SetCol(j, mat.Col(nil, j, src.u2))
	}
	for j := 0; j < d.ranks.J3; j++ {
		d.u3.SetCol(j, mat.Col(nil, j, src.u3))
	}

	for j3 := 0; j3 < d.ranks.J3; j3++ {
		for j2 := 0; j2 < d.ranks.J2; j2++ {
			for j1 := 0; j1 < d.ranks.J1; j1++ {
				d.core.Set(j1, j2, j3, src.core.At(j1, j2, j3))
			}
		}
	}
	return nil
}

// Subsample fills d from a decomposition of the same ranks over larger
// extents by decimation: every factor-th row of each source basis is kept.
// The source core is reused unchanged. The target extents must equal
// ceil(Kk/factor) for each axis.
func (d *Decomposition) Subsample(src *Decomposition, factor int) error {
	if err := d.checkSubsample(src, factor); err != nil {
		return err
	}

	for _, ax := range d.sampleAxes(src) {
		for k, i := 0, 0; k < ax.srcExtent; k, i = k+factor, i+1 {
			ax.dst.SetRow(i, mat.Row(nil, k, ax.src))
		}
	}
	d.core = src.core.Clone()
	return nil
}

// SubsampleAveraging is the smoothing variant of Subsample: instead of
// keeping every factor-th row it averages each run of factor consecutive
// rows (runs truncated at the end of the matrix).
func (d *Decomposition) SubsampleAveraging(src *Decomposition, factor int) error {
	if err := d.checkSubsample(src, factor); err != nil {
		return err
	}

	for _, ax := range d.sampleAxes(src) {
		for k, i := 0, 0; k < ax.srcExtent; k, i = k+factor, i+1 {
			row := mat.Row(nil, k, ax.src)
			n := 1
			for j := k + 1; j < k+factor && j < ax.srcExtent; j++ {
				next := mat.Row(nil, j, ax.src)
				for c := range row {
					row[c] += next[c]
				}
				n++
			}
			for c := range row {
				row[c] /= float64(n)
			}
			ax.dst.SetRow(i, row)
		}
	}
	d.core = src.core.Clone()
	return nil
}

// RegionOfInterest fills d from a decomposition of the same ranks over
// larger extents by selecting the contiguous row range [startK, endK) of
// each source basis. The source core is reused unchanged; each range must
// have exactly the target axis's extent.
func (d *Decomposition) RegionOfInterest(src *Decomposition,
	start1, end1, start2, end2, start3, end3 int) error {

	if src.ranks != d.ranks {
		return fmt.Errorf("tucker: region of interest across ranks %v -> %v: %w", src.ranks, d.ranks, ErrShapeMismatch)
	}
	regions := [3]struct {
		start, end, srcExtent, dstExtent int
	}{
		{start1, end1, src.i1, d.i1},
		{start2, end2, src.i2, d.i2},
		{start3, end3, src.i3, d.i3},
	}
	for k, reg := range regions {
		if reg.start < 0 || reg.start >= reg.end || reg.end > reg.srcExtent {
			return fmt.Errorf("tucker: axis %d region [%d, %d) of extent %d: %w",
				k+1, reg.start, reg.end, reg.srcExtent, ErrBadRegion)
		}
		if reg.end-reg.start != reg.dstExtent {
			return fmt.Errorf("tucker: axis %d region [%d, %d) for extent %d: %w",
				k+1, reg.start, reg.end, reg.dstExtent, ErrBadRegion)
		}
	}

	starts := [3]int{start1, start2, start3}
	for k, ax := range d.sampleAxes(src) {
		for i := 0; i < ax.dstExtent; i++ {
			ax.dst.SetRow(i, mat.Row(nil, starts[k]+i, ax.src))
		}
	}
	d.core = src.core.Clone()
	return nil
}

type sampleAxis struct {
	src, dst             *mat.Dense
	srcExtent, dstExtent int
}

// sampleAxes pairs up the per-axis source and target bases so that row-wise
// derivations can run the same loop for all three axes.
func (d *Decomposition) sampleAxes(src *Decomposition) [3]sampleAxis {
	return [3]sampleAxis{
		{src.u1, d.u1, src.i1, d.i1},
		{src.u2, d.u2, src.i2, d.i2},
		{src.u3, d.u3, src.i3, d.i3},
	}
}

func (d *Decomposition) checkSubsample(src *Decomposition, factor int) error {
	if src.ranks != d.ranks {
		return fmt.Errorf("tucker: subsample across ranks %v -> %v: %w", src.ranks, d.ranks, ErrShapeMismatch)
	}
	if factor < 1 {
		return fmt.Errorf("tucker: subsampling factor %d: %w", factor, ErrBadFactor)
	}
	pairs := [3][2]int{{src.i1, d.i1}, {src.i2, d.i2}, {src.i3, d.i3}}
	for k, p := range pairs {
		if (p[0]+factor-1)/factor != p[1] {
			return fmt.Errorf("tucker: axis %d extent %d by factor %d does not give %d: %w",
				k+1, p[0], factor, p[1], ErrBadFactor)
		}
	}
	return nil
}
