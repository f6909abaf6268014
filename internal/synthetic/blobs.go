// Package synthetic generates hyperspectral test cubes with known structure:
// a handful of endmember spectra spread over spatial regions plus gaussian
// noise. The generator is deterministic under a seed, so demos and tests can
// assert against the ground-truth labels it returns.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"hyperspec/pkg/hypercube"
)

// BlobCube builds a cube of the given shape (rank 3 or 4) whose pixels are
// drawn from k synthetic endmember spectra with additive gaussian noise.
// Pixels are assigned to endmembers in contiguous sample-order blocks, so the
// label map has large uniform regions.
//
// It returns the cube, the ground-truth label per sample in flatten order,
// and the endmember spectra as a (k x features) matrix.
func BlobCube(shape []int, k int, noise float64, seed int64) (*hypercube.Hypercube, []int, *mat.Dense, error) {
	if k < 1 {
		return nil, nil, nil, fmt.Errorf("synthetic: need at least one endmember, got %d", k)
	}

	// Validate the shape up front by building an empty cube.
	probe, err := hypercube.New(make([]float64, sizeOf(shape)), shape)
	if err != nil {
		return nil, nil, nil, err
	}

	ns := probe.NumSamples()
	nf := probe.NumFeatures()
	if k > ns {
		return nil, nil, nil, fmt.Errorf("synthetic: %d endmembers exceed %d pixels", k, ns)
	}

	rng := rand.New(rand.NewSource(seed))
	endmembers := endmemberSpectra(k, nf)

	data := make([]float64, ns*nf)
	labels := make([]int, ns)
	blockSize := (ns + k - 1) / k

	for s := 0; s < ns; s++ {
		label := s / blockSize
		if label >= k {
			label = k - 1
		}
		labels[s] = label

		for j := 0; j < nf; j++ {
			data[s*nf+j] = endmembers.At(label, j) + noise*rng.NormFloat64()
		}
	}

	cube, err := hypercube.New(data, shape)
	if err != nil {
		return nil, nil, nil, err
	}
	return cube, labels, endmembers, nil
}

// endmemberSpectra builds k smooth spectra, each a gaussian peak at a
// distinct spectral position.
func endmemberSpectra(k, nf int) *mat.Dense {
	spectra := mat.NewDense(k, nf, nil)
	width := float64(nf) / (4 * float64(k))
	if width < 1 {
		width = 1
	}

	for c := 0; c < k; c++ {
		center := float64(nf) * (float64(c) + 0.5) / float64(k)
		for j := 0; j < nf; j++ {
			x := (float64(j) - center) / width
			spectra.Set(c, j, math.Exp(-x*x/2))
		}
	}
	return spectra
}

func sizeOf(shape []int) int {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0
		}
		n *= d
	}
	return n
}
