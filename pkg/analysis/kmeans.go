package analysis

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/mat"
)

// defaultKMeansTolerance is the relative movement threshold below which the
// partitioning is considered converged.
const defaultKMeansTolerance = 0.01

// KMeans is the k-means clustering routine, backed by the muesli/kmeans
// partitioner. It reports a hard label per sample and the centroid spectrum
// of every cluster.
type KMeans struct{}

// Name implements Routine.
func (*KMeans) Name() string { return "kmeans" }

// Category implements Routine.
func (*KMeans) Category() Category { return CategoryClustering }

// Run partitions the samples into NumClusters clusters. Labels holds the
// cluster index of each sample and Components the centroid spectra
// (NumClusters x features).
func (*KMeans) Run(samples mat.Matrix, opts Options) (*Result, error) {
	n, d := samples.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("kmeans: empty sample matrix")
	}

	k := opts.NumClusters
	if k < 1 {
		return nil, fmt.Errorf("kmeans: NumClusters must be >= 1, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("kmeans: NumClusters %d exceeds sample count %d", k, n)
	}

	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultKMeansTolerance
	}

	obs := make(clusters.Observations, n)
	for i := 0; i < n; i++ {
		obs[i] = clusters.Coordinates(mat.Row(nil, i, samples))
	}

	km, err := kmeans.NewWithOptions(tol, nil)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %v", err)
	}

	parts, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %v", err)
	}

	labels := make([]int, n)
	for i, o := range obs {
		labels[i] = parts.Nearest(o)
	}

	components := mat.NewDense(len(parts), d, nil)
	for c, cl := range parts {
		for j, v := range cl.Center {
			components.Set(c, j, v)
		}
	}

	return &Result{
		Labels:     labels,
		Components: components,
	}, nil
}
