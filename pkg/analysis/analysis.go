// Package analysis routes named exploratory-analysis operations to their
// implementations. The adapter layer hands every routine the same input, a
// (samples, features) matrix, and every routine reports through the same
// Result type; the registry is an explicit lookup table from operation name
// to routine, so callers select techniques by string without any dynamic
// dispatch.
package analysis

import (
	"gonum.org/v1/gonum/mat"
)

// Category groups routines by the kind of question they answer.
type Category string

const (
	// CategoryDecomposition covers dimensionality-reduction routines that
	// produce per-sample component scores and per-component spectra.
	CategoryDecomposition Category = "decomposition"

	// CategoryClustering covers routines that assign each sample a
	// discrete label and report a representative spectrum per cluster.
	CategoryClustering Category = "clustering"

	// CategoryMixture covers probabilistic mixture models that report
	// per-sample membership weights alongside hard labels.
	CategoryMixture Category = "mixture"

	// CategoryAbundance covers spectral unmixing routines that estimate
	// per-sample fractions of known reference spectra.
	CategoryAbundance Category = "abundance"
)

// Options carries the named configuration for an analysis run. The registry
// forwards it to the selected routine unchanged; each routine validates the
// fields it consumes and ignores the rest.
type Options struct {
	// NumComponents is the number of components to retain in
	// decomposition routines.
	NumComponents int

	// NumClusters is the number of clusters or mixture components.
	NumClusters int

	// MaxIterations bounds iterative routines. Zero selects the routine
	// default.
	MaxIterations int

	// Tolerance is the convergence threshold for iterative routines.
	// Zero selects the routine default.
	Tolerance float64

	// Seed initialises pseudo-random starting points so runs are
	// reproducible.
	Seed int64

	// Endmembers holds the reference spectra for abundance mapping, one
	// spectrum per row. Only abundance routines consume it.
	Endmembers *mat.Dense
}

// Result is the uniform output of an analysis routine. Which fields are
// populated depends on the routine category; the spatial projection of
// per-sample fields is the caller's job via the adapter package.
type Result struct {
	// Labels holds one discrete assignment per sample (clustering and
	// mixture routines).
	Labels []int

	// Scores holds one row per sample: component scores, membership
	// weights, or abundance fractions.
	Scores *mat.Dense

	// Components holds one spectrum per row: loadings, cluster centroids,
	// mixture means, or the endmembers the abundances refer to.
	Components *mat.Dense

	// ExplainedVariance is the per-component share of total variance
	// (decomposition routines), in decreasing order.
	ExplainedVariance []float64

	// LogLikelihood is the final data log-likelihood (mixture routines).
	LogLikelihood float64
}

// Routine is one analysis technique. Implementations perform no spatial
// reasoning: input rows are anonymous samples and outputs are per-sample or
// per-component arrays.
type Routine interface {
	// Name is the registry key, e.g. "pca".
	Name() string

	// Category reports which group of techniques the routine belongs to.
	Category() Category

	// Run executes the routine on a (samples, features) matrix. The
	// input must not be mutated.
	Run(samples mat.Matrix, opts Options) (*Result, error)
}
