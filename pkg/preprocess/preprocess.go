// Package preprocess provides the spectral preprocessing steps applied to a
// hypercube before analysis: intensity scaling, mean-spectrum normalization
// and spectral smoothing. Every function returns a new cube and leaves its
// input untouched.
package preprocess

import (
	"hyperspec/pkg/hypercube"
)

// Scale rescales the cube intensities to [0, 1], or to [-1, 1] when the cube
// contains negative values. A constant cube scales to all zeros.
func Scale(c *hypercube.Hypercube) *hypercube.Hypercube {
	out := c.Clone()
	if len(out.Data) == 0 {
		return out
	}

	minV, maxV := out.Data[0], out.Data[0]
	for _, v := range out.Data {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if maxV == minV {
		for i := range out.Data {
			out.Data[i] = 0
		}
		return out
	}

	span := maxV - minV
	if minV < 0 {
		for i, v := range out.Data {
			out.Data[i] = -1 + 2*(v-minV)/span
		}
	} else {
		for i, v := range out.Data {
			out.Data[i] = (v - minV) / span
		}
	}
	return out
}

// Normalize subtracts the dataset mean spectrum from every pixel, so that the
// average spectrum of the result is zero at every spectral point.
func Normalize(c *hypercube.Hypercube) *hypercube.Hypercube {
	mean := c.MeanSpectrum()
	nf := c.NumFeatures()

	out := c.Clone()
	for i := range out.Data {
		out.Data[i] -= mean[i%nf]
	}
	return out
}
