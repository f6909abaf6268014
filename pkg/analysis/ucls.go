package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// UCLS is the unconstrained least-squares abundance-mapping routine. Given a
// set of known endmember spectra it estimates, for every sample, the mixture
// fractions that best reconstruct the sample spectrum in the least-squares
// sense. Fractions are unconstrained: they may be negative and need not sum
// to one.
type UCLS struct{}

// Name implements Routine.
func (*UCLS) Name() string { return "ucls" }

// Category implements Routine.
func (*UCLS) Category() Category { return CategoryAbundance }

// Run solves min ||E' a - x|| for every sample spectrum x, where E is the
// (endmembers x features) matrix in opts.Endmembers. Scores holds the
// abundances (samples x endmembers) and Components echoes the endmembers the
// abundances refer to.
func (*UCLS) Run(samples mat.Matrix, opts Options) (*Result, error) {
	n, d := samples.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("ucls: empty sample matrix")
	}

	if opts.Endmembers == nil {
		return nil, fmt.Errorf("ucls: Endmembers option is required")
	}
	k, ed := opts.Endmembers.Dims()
	if k == 0 {
		return nil, fmt.Errorf("ucls: Endmembers option is required")
	}
	if ed != d {
		return nil, fmt.Errorf("ucls: endmembers have %d features, samples have %d", ed, d)
	}
	if k > d {
		return nil, fmt.Errorf("ucls: %d endmembers exceed %d spectral features", k, d)
	}

	// Solve E' A' = X' for all samples at once; gonum's Solve performs a
	// QR least-squares solve for the tall system.
	var abundancesT mat.Dense
	if err := abundancesT.Solve(opts.Endmembers.T(), samples.T()); err != nil {
		return nil, fmt.Errorf("ucls: least-squares solve failed: %v", err)
	}

	scores := mat.NewDense(n, k, nil)
	scores.Copy(abundancesT.T())

	components := mat.NewDense(k, d, nil)
	components.Copy(opts.Endmembers)

	return &Result{
		Scores:     scores,
		Components: components,
	}, nil
}
