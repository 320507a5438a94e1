package tucker_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"tucker3d/pkg/tensor"
	"tucker3d/pkg/tucker"
)

func TestMeasureExactReconstruction(t *testing.T) {
	data, err := tensor.FromSlice(2, 2, 2, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8})
	require.NoError(t, err)

	dec, err := tucker.Decompose(data, tucker.Ranks{J1: 2, J2: 2, J3: 2}, tucker.DefaultOptions())
	require.NoError(t, err)

	q, err := dec.Measure(data)
	require.NoError(t, err)

	require.Less(t, q.RMSE, 1e-8)
	require.InDelta(t, 1.0, q.Correlation, 1e-6)
	require.True(t, math.IsInf(q.PSNR, 1) || q.PSNR > 100,
		"exact reconstruction should have extreme PSNR, got %v", q.PSNR)

	// 8 original elements against 2*2*3 + 8 = 20 serialized scalars.
	require.InDelta(t, 0.4, q.CompressionRatio, 1e-12)
}

func TestMeasureLossyReconstruction(t *testing.T) {
	data := patternTensor(t, 6, 6, 6)

	dec, err := tucker.Decompose(data, tucker.Ranks{J1: 2, J2: 2, J3: 2}, tucker.DefaultOptions())
	require.NoError(t, err)

	q, err := dec.Measure(data)
	require.NoError(t, err)

	require.Greater(t, q.RMSE, 0.0)
	require.Greater(t, q.CompressionRatio, 1.0)
	require.LessOrEqual(t, q.Correlation, 1.0+1e-12)
}

func TestMeasureShapeMismatch(t *testing.T) {
	dec, err := tucker.NewEmpty(3, 3, 3, tucker.Ranks{J1: 1, J2: 1, J3: 1})
	require.NoError(t, err)

	other := patternTensor(t, 2, 3, 3)
	_, err = dec.Measure(other)
	require.ErrorIs(t, err, tucker.ErrShapeMismatch)
}
