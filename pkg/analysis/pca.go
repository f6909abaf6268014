package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA is the principal component analysis routine. The decomposition itself
// is gonum's stat.PC; this wrapper centers the data, projects it onto the
// leading components and reports the explained-variance ratios used for
// scree inspection.
type PCA struct{}

// Name implements Routine.
func (*PCA) Name() string { return "pca" }

// Category implements Routine.
func (*PCA) Category() Category { return CategoryDecomposition }

// Run computes the principal components of the sample matrix and returns the
// per-sample scores (samples x NumComponents), the component spectra
// (NumComponents x features) and the explained-variance ratio of every
// principal axis, not just the retained ones.
func (*PCA) Run(samples mat.Matrix, opts Options) (*Result, error) {
	n, d := samples.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("pca: empty sample matrix")
	}

	k := opts.NumComponents
	if k < 1 {
		return nil, fmt.Errorf("pca: NumComponents must be >= 1, got %d", k)
	}
	maxK := min(n, d)
	if k > maxK {
		return nil, fmt.Errorf("pca: NumComponents %d exceeds min(samples, features) = %d", k, maxK)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(samples, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	// Explained-variance ratios over the full spectrum of components.
	total := floats.Sum(vars)
	explained := make([]float64, len(vars))
	if total > 0 {
		for i, v := range vars {
			explained[i] = v / total
		}
	}

	// Scores are the centered data projected onto the leading components.
	centered := centerColumns(samples)
	var scores mat.Dense
	scores.Mul(centered, vecs.Slice(0, d, 0, k))

	components := mat.NewDense(k, d, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < d; j++ {
			components.Set(i, j, vecs.At(j, i))
		}
	}

	return &Result{
		Scores:            &scores,
		Components:        components,
		ExplainedVariance: explained,
	}, nil
}

// centerColumns returns a copy of m with the column means subtracted.
func centerColumns(m mat.Matrix) *mat.Dense {
	n, d := m.Dims()

	means := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, m)
		means[j] = stat.Mean(col, nil)
	}

	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			out.Set(i, j, m.At(i, j)-means[j])
		}
	}
	return out
}
