package tucker_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"tucker3d/pkg/tensor"
	"tucker3d/pkg/tucker"
)

// rankOneDecomposition builds a decomposition with rank (1,1,1) over
// extents (k,k,k) and hand-picked basis rows, convenient for checking
// row-wise derivations element by element.
func rankOneDecomposition(t *testing.T, k int) *tucker.Decomposition {
	t.Helper()
	core, err := tensor.FromSlice(1, 1, 1, []float64{2})
	require.NoError(t, err)

	u := func(offset float64) *mat.Dense {
		m := mat.NewDense(k, 1, nil)
		for i := 0; i < k; i++ {
			m.Set(i, 0, offset+float64(i))
		}
		return m
	}

	d, err := tucker.New(core, u(0), u(10), u(20))
	require.NoError(t, err)
	return d
}

func TestReduceRanksTruncates(t *testing.T) {
	data := patternTensor(t, 4, 4, 4)
	src, err := tucker.Decompose(data, tucker.Ranks{J1: 3, J2: 3, J3: 3}, tucker.DefaultOptions())
	require.NoError(t, err)

	d, err := tucker.NewEmpty(4, 4, 4, tucker.Ranks{J1: 2, J2: 2, J3: 2})
	require.NoError(t, err)
	require.NoError(t, d.ReduceRanks(src))

	// Bases keep their first Jk columns verbatim.
	srcU1, dU1 := src.U1(), d.U1()
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			require.Equal(t, srcU1.At(i, j), dU1.At(i, j), "U1(%d,%d)", i, j)
		}
	}

	// The core keeps its leading block verbatim.
	srcCore, dCore := src.Core(), d.Core()
	for j3 := 0; j3 < 2; j3++ {
		for j2 := 0; j2 < 2; j2++ {
			for j1 := 0; j1 < 2; j1++ {
				require.Equal(t, srcCore.At(j1, j2, j3), dCore.At(j1, j2, j3))
			}
		}
	}
}

func TestReduceRanksRejectsGrowth(t *testing.T) {
	data := patternTensor(t, 3, 3, 3)
	src, err := tucker.Decompose(data, tucker.Ranks{J1: 2, J2: 2, J3: 2}, tucker.DefaultOptions())
	require.NoError(t, err)

	d, err := tucker.NewEmpty(3, 3, 3, tucker.Ranks{J1: 3, J2: 2, J3: 2})
	require.NoError(t, err)
	require.ErrorIs(t, d.ReduceRanks(src), tucker.ErrBadRank)
}

func TestSubsampleDecimates(t *testing.T) {
	src := rankOneDecomposition(t, 4)

	d, err := tucker.NewEmpty(2, 2, 2, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)
	require.NoError(t, d.Subsample(src, 2))

	// Every 2nd row survives: rows 0 and 2 of each basis.
	require.Equal(t, 0.0, d.U1().At(0, 0))
	require.Equal(t, 2.0, d.U1().At(1, 0))
	require.Equal(t, 10.0, d.U2().At(0, 0))
	require.Equal(t, 12.0, d.U2().At(1, 0))
	require.Equal(t, 20.0, d.U3().At(0, 0))
	require.Equal(t, 22.0, d.U3().At(1, 0))

	// The core is reused unchanged.
	require.True(t, d.Core().Equal(src.Core()))
}

func TestSubsampleAveragingSmooths(t *testing.T) {
	src := rankOneDecomposition(t, 4)

	d, err := tucker.NewEmpty(2, 2, 2, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)
	require.NoError(t, d.SubsampleAveraging(src, 2))

	// Each run of 2 rows is averaged: (0+1)/2 and (2+3)/2.
	require.InDelta(t, 0.5, d.U1().At(0, 0), 1e-12)
	require.InDelta(t, 2.5, d.U1().At(1, 0), 1e-12)
	require.InDelta(t, 10.5, d.U2().At(0, 0), 1e-12)
	require.InDelta(t, 12.5, d.U2().At(1, 0), 1e-12)
	require.True(t, d.Core().Equal(src.Core()))
}

func TestSubsampleValidation(t *testing.T) {
	src := rankOneDecomposition(t, 4)

	d, err := tucker.NewEmpty(3, 3, 3, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)

	// ceil(4/2) = 2, not 3.
	require.ErrorIs(t, d.Subsample(src, 2), tucker.ErrBadFactor)

	d2, err := tucker.NewEmpty(2, 2, 2, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)
	require.ErrorIs(t, d2.Subsample(src, 0), tucker.ErrBadFactor)
}

func TestRegionOfInterestIdentity(t *testing.T) {
	src := rankOneDecomposition(t, 4)

	// Selecting [0, K) on every axis must reproduce the source.
	d, err := tucker.NewEmpty(4, 4, 4, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)
	require.NoError(t, d.RegionOfInterest(src, 0, 4, 0, 4, 0, 4))

	require.True(t, mat.Equal(src.U1(), d.U1()))
	require.True(t, mat.Equal(src.U2(), d.U2()))
	require.True(t, mat.Equal(src.U3(), d.U3()))
	require.True(t, d.Core().Equal(src.Core()))
}

func TestRegionOfInterestSelectsRows(t *testing.T) {
	src := rankOneDecomposition(t, 4)

	d, err := tucker.NewEmpty(2, 2, 2, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)
	require.NoError(t, d.RegionOfInterest(src, 1, 3, 1, 3, 2, 4))

	require.Equal(t, 1.0, d.U1().At(0, 0))
	require.Equal(t, 2.0, d.U1().At(1, 0))
	require.Equal(t, 11.0, d.U2().At(0, 0))
	require.Equal(t, 22.0, d.U3().At(0, 0))
	require.Equal(t, 23.0, d.U3().At(1, 0))
}

func TestRegionOfInterestValidation(t *testing.T) {
	src := rankOneDecomposition(t, 4)

	d, err := tucker.NewEmpty(2, 2, 2, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)

	// Empty range.
	require.ErrorIs(t, d.RegionOfInterest(src, 2, 2, 0, 2, 0, 2), tucker.ErrBadRegion)
	// Out of range.
	require.ErrorIs(t, d.RegionOfInterest(src, 3, 5, 0, 2, 0, 2), tucker.ErrBadRegion)
	// Range size does not match the target extent.
	require.ErrorIs(t, d.RegionOfInterest(src, 0, 3, 0, 2, 0, 2), tucker.ErrBadRegion)
}
