package tucker

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"tucker3d/pkg/tensor"
)

// Quality holds reconstruction-quality metrics for a decomposition against
// the data it approximates.
type Quality struct {
	// RMSE is the root mean square error between original and
	// reconstructed elements. Lower is better.
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB, computed against the
	// original data's value range. Infinite for an exact reconstruction.
	PSNR float64

	// Correlation is the Pearson correlation between original and
	// reconstructed elements. 1 indicates a perfect linear match.
	Correlation float64

	// CompressionRatio is the element count of the original tensor over
	// the scalar count of the serialized decomposition.
	CompressionRatio float64
}

// Measure reconstructs d and compares it against original.
func (d *Decomposition) Measure(original *tensor.Tensor3) (Quality, error) {
	if err := d.checkData(original); err != nil {
		return Quality{}, err
	}
	approx, err := d.Reconstruct()
	if err != nil {
		return Quality{}, fmt.Errorf("tucker: measuring reconstruction quality: %w", err)
	}

	orig := original.Raw()
	recon := approx.Raw()

	mse := 0.0
	lo, hi := orig[0], orig[0]
	for i, v := range orig {
		diff := v - recon[i]
		mse += diff * diff
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	mse /= float64(len(orig))

	q := Quality{
		RMSE:             math.Sqrt(mse),
		Correlation:      stat.Correlation(orig, recon, nil),
		CompressionRatio: float64(original.Len()) / float64(d.SerializedLen()),
	}

	if mse == 0 {
		q.PSNR = math.Inf(1)
	} else if hi > lo {
		q.PSNR = 20*math.Log10(hi-lo) - 10*math.Log10(mse)
	}
	return q, nil
}
