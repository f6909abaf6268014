package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"hyperspec/pkg/hypercube"
)

// SavitzkyGolay smooths every pixel spectrum with a Savitzky-Golay filter:
// each spectral point is replaced by the value at the centre of a local
// least-squares polynomial fit of the given order over an odd-length window.
// Spectra shorter than the window are rejected. Edges use clamped indices.
func SavitzkyGolay(c *hypercube.Hypercube, window, polyorder int) (*hypercube.Hypercube, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("savitzky-golay: window must be odd and >= 3, got %d", window)
	}
	if polyorder < 0 || polyorder >= window {
		return nil, fmt.Errorf("savitzky-golay: polyorder must be in [0, window), got %d", polyorder)
	}
	if nf := c.NumFeatures(); window > nf {
		return nil, fmt.Errorf("savitzky-golay: window %d exceeds %d spectral features", window, nf)
	}

	weights, err := savGolWeights(window, polyorder)
	if err != nil {
		return nil, err
	}

	return convolveSpectra(c, weights), nil
}

// savGolWeights computes the centre-point smoothing weights by solving the
// normal equations of the windowed polynomial fit.
func savGolWeights(window, polyorder int) ([]float64, error) {
	half := window / 2

	// Vandermonde matrix of the window offsets.
	a := mat.NewDense(window, polyorder+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - half)
		p := 1.0
		for j := 0; j <= polyorder; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	// The smoothed centre value is the constant coefficient of the fit:
	// row 0 of (A'A)^-1 A'.
	var ata mat.Dense
	ata.Mul(a.T(), a)

	var coef mat.Dense
	if err := coef.Solve(&ata, a.T()); err != nil {
		return nil, fmt.Errorf("savitzky-golay: weight solve failed: %v", err)
	}

	return mat.Row(nil, 0, &coef), nil
}

// GaussianSmooth smooths every pixel spectrum with a 1-D gaussian kernel of
// the given standard deviation (in spectral points). Edges use clamped
// indices.
func GaussianSmooth(c *hypercube.Hypercube, sigma float64) (*hypercube.Hypercube, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian smooth: sigma must be positive, got %g", sigma)
	}

	radius := int(math.Ceil(3 * sigma))
	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range weights {
		x := float64(i - radius)
		weights[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	return convolveSpectra(c, weights), nil
}

// convolveSpectra applies an odd-length kernel along the spectral axis of
// every pixel, clamping indices at the spectrum edges.
func convolveSpectra(c *hypercube.Hypercube, weights []float64) *hypercube.Hypercube {
	nf := c.NumFeatures()
	ns := c.NumSamples()
	half := len(weights) / 2

	out := c.Clone()
	for s := 0; s < ns; s++ {
		row := c.Data[s*nf : (s+1)*nf]
		dst := out.Data[s*nf : (s+1)*nf]
		for i := 0; i < nf; i++ {
			acc := 0.0
			for w, wv := range weights {
				j := i + w - half
				if j < 0 {
					j = 0
				} else if j >= nf {
					j = nf - 1
				}
				acc += wv * row[j]
			}
			dst[i] = acc
		}
	}
	return out
}
