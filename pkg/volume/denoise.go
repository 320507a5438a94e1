package volume

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"tucker3d/pkg/tensor"
)

// Denoise applies a separable FFT low-pass filter to every frontal slice of
// the volume: each column and then each row is transformed, coefficients
// above the cutoff fraction of the spectrum are zeroed, and the sequence is
// inverted. cutoff must lie in (0, 1]; a cutoff of 1 keeps the full
// spectrum and returns an unchanged copy.
//
// Decomposing a denoised volume typically needs lower ranks for the same
// reconstruction quality, which is why this runs before Decompose.
func Denoise(t *tensor.Tensor3, cutoff float64) (*tensor.Tensor3, error) {
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff > 1 {
		return nil, fmt.Errorf("volume: denoise cutoff %v outside (0, 1]", cutoff)
	}

	out := t.Clone()
	i1, i2, i3 := out.Dims()

	colFFT := fourier.NewFFT(i1)
	rowFFT := fourier.NewFFT(i2)
	col := make([]float64, i1)
	row := make([]float64, i2)
	colCoeff := make([]complex128, i1/2+1)
	rowCoeff := make([]complex128, i2/2+1)

	for s := 0; s < i3; s++ {
		// Columns first, then rows, as in a separable 2D transform.
		for j := 0; j < i2; j++ {
			for i := 0; i < i1; i++ {
				col[i] = out.At(i, j, s)
			}
			lowPass(colFFT, col, colCoeff, cutoff)
			for i := 0; i < i1; i++ {
				out.Set(i, j, s, col[i])
			}
		}
		for i := 0; i < i1; i++ {
			for j := 0; j < i2; j++ {
				row[j] = out.At(i, j, s)
			}
			lowPass(rowFFT, row, rowCoeff, cutoff)
			for j := 0; j < i2; j++ {
				out.Set(i, j, s, row[j])
			}
		}
	}
	return out, nil
}

// lowPass filters seq in place, zeroing coefficients above the cutoff
// fraction of the half spectrum. The gonum FFT pair is unnormalized, so the
// inverse is rescaled by the sequence length.
func lowPass(fft *fourier.FFT, seq []float64, coeff []complex128, cutoff float64) {
	fft.Coefficients(coeff, seq)

	keep := int(cutoff * float64(len(coeff)-1))
	for k := keep + 1; k < len(coeff); k++ {
		coeff[k] = 0
	}

	fft.Sequence(seq, coeff)
	n := float64(len(seq))
	for i := range seq {
		seq[i] /= n
	}
}
