package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultGMMIterations = 100
	defaultGMMTolerance  = 1e-4

	// varianceFloor keeps component variances away from zero when a
	// component collapses onto near-identical samples.
	varianceFloor = 1e-6
)

// GaussianMixture fits a mixture of diagonal-covariance gaussians by
// expectation maximisation over gonum primitives. It reports soft membership
// weights per sample, hard labels by maximum responsibility, the mixture mean
// spectra and the final data log-likelihood.
type GaussianMixture struct{}

// Name implements Routine.
func (*GaussianMixture) Name() string { return "gaussian_mixture" }

// Category implements Routine.
func (*GaussianMixture) Category() Category { return CategoryMixture }

// Run fits NumClusters gaussian components to the samples. Scores holds the
// responsibilities (samples x NumClusters), Components the component means
// (NumClusters x features).
func (*GaussianMixture) Run(samples mat.Matrix, opts Options) (*Result, error) {
	n, d := samples.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("gaussian_mixture: empty sample matrix")
	}

	k := opts.NumClusters
	if k < 1 {
		return nil, fmt.Errorf("gaussian_mixture: NumClusters must be >= 1, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("gaussian_mixture: NumClusters %d exceeds sample count %d", k, n)
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultGMMIterations
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultGMMTolerance
	}

	m := newMixture(samples, k, opts.Seed)

	resp := mat.NewDense(n, k, nil)
	prevLL := math.Inf(-1)
	ll := prevLL

	for iter := 0; iter < maxIter; iter++ {
		ll = m.eStep(samples, resp)
		m.mStep(samples, resp)

		if iter > 0 && math.Abs(ll-prevLL) < tol*(math.Abs(ll)+tol) {
			break
		}
		prevLL = ll
	}

	labels := make([]int, n)
	row := make([]float64, k)
	for i := 0; i < n; i++ {
		mat.Row(row, i, resp)
		labels[i] = floats.MaxIdx(row)
	}

	return &Result{
		Labels:        labels,
		Scores:        resp,
		Components:    m.means,
		LogLikelihood: ll,
	}, nil
}

// mixture holds the parameters of a diagonal-covariance gaussian mixture.
type mixture struct {
	weights []float64
	means   *mat.Dense // k x d
	vars    *mat.Dense // k x d, per-feature variances
}

// newMixture initialises the mixture from the data: the first mean is a
// random sample, each further mean the sample farthest from the means chosen
// so far (maximin). Variances start at the per-feature data variance,
// weights uniform.
func newMixture(samples mat.Matrix, k int, seed int64) *mixture {
	n, d := samples.Dims()
	rng := rand.New(rand.NewSource(seed))

	m := &mixture{
		weights: make([]float64, k),
		means:   mat.NewDense(k, d, nil),
		vars:    mat.NewDense(k, d, nil),
	}

	colVar := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, samples)
		colVar[j] = math.Max(stat.Variance(col, nil), varianceFloor)
	}

	picked := make([]int, 1, k)
	picked[0] = rng.Intn(n)

	// minDist tracks each sample's squared distance to its nearest chosen
	// mean.
	minDist := make([]float64, n)
	for i := 0; i < n; i++ {
		minDist[i] = sampleDistSq(samples, i, picked[0], d)
	}
	for len(picked) < k {
		next := floats.MaxIdx(minDist)
		picked = append(picked, next)
		for i := 0; i < n; i++ {
			if dist := sampleDistSq(samples, i, next, d); dist < minDist[i] {
				minDist[i] = dist
			}
		}
	}

	for c, idx := range picked {
		m.weights[c] = 1 / float64(k)
		for j := 0; j < d; j++ {
			m.means.Set(c, j, samples.At(idx, j))
			m.vars.Set(c, j, colVar[j])
		}
	}
	return m
}

// sampleDistSq returns the squared euclidean distance between rows a and b.
func sampleDistSq(samples mat.Matrix, a, b, d int) float64 {
	sum := 0.0
	for j := 0; j < d; j++ {
		diff := samples.At(a, j) - samples.At(b, j)
		sum += diff * diff
	}
	return sum
}

// eStep fills resp with the posterior component responsibilities and returns
// the data log-likelihood under the current parameters.
func (m *mixture) eStep(samples mat.Matrix, resp *mat.Dense) float64 {
	n, d := samples.Dims()
	k := len(m.weights)

	logp := make([]float64, k)
	ll := 0.0

	for i := 0; i < n; i++ {
		for c := 0; c < k; c++ {
			lp := math.Log(m.weights[c])
			for j := 0; j < d; j++ {
				v := m.vars.At(c, j)
				diff := samples.At(i, j) - m.means.At(c, j)
				lp += -0.5*math.Log(2*math.Pi*v) - diff*diff/(2*v)
			}
			logp[c] = lp
		}

		norm := floats.LogSumExp(logp)
		ll += norm
		for c := 0; c < k; c++ {
			resp.Set(i, c, math.Exp(logp[c]-norm))
		}
	}
	return ll
}

// mStep re-estimates weights, means and variances from the responsibilities.
func (m *mixture) mStep(samples mat.Matrix, resp *mat.Dense) {
	n, d := samples.Dims()
	k := len(m.weights)

	for c := 0; c < k; c++ {
		nc := 0.0
		for i := 0; i < n; i++ {
			nc += resp.At(i, c)
		}
		if nc < varianceFloor {
			// Empty component: leave its parameters in place.
			continue
		}

		m.weights[c] = nc / float64(n)

		for j := 0; j < d; j++ {
			mean := 0.0
			for i := 0; i < n; i++ {
				mean += resp.At(i, c) * samples.At(i, j)
			}
			mean /= nc

			variance := 0.0
			for i := 0; i < n; i++ {
				diff := samples.At(i, j) - mean
				variance += resp.At(i, c) * diff * diff
			}
			variance = math.Max(variance/nc, varianceFloor)

			m.means.Set(c, j, mean)
			m.vars.Set(c, j, variance)
		}
	}
}
