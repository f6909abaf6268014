// Package adapter converts between the spatial-spectral hypercube form and
// the flat (samples, features) matrix form expected by the analysis routines,
// and projects per-sample results back onto the original spatial grid.
//
// The flattening convention is fixed: pixels are enumerated in row-major
// order with the first spatial axis varying slowest, so sample i of the
// matrix always corresponds to the spatial coordinate it was read from.
// Because the Hypercube stores its data in the same order, both directions
// are copies, never permutations.
package adapter

import (
	"gonum.org/v1/gonum/mat"

	"hyperspec/pkg/hypercube"
)

// SpatialResult is a per-sample analysis result reshaped back onto the
// spatial grid. Shape is the original spatial axes followed by the trailing
// result width (omitted when the result is a plain per-pixel scalar).
type SpatialResult struct {
	// Data is the result in row-major order.
	Data []float64

	// Shape holds the spatial axis lengths plus, for matrix results, the
	// result width as the final axis.
	Shape []int

	// Spatial is the spatial portion of Shape.
	Spatial hypercube.SpatialShape
}

// Width returns the trailing result width: the number of values per pixel.
// Scalar results have width 1.
func (r *SpatialResult) Width() int {
	if len(r.Shape) == len(r.Spatial) {
		return 1
	}
	return r.Shape[len(r.Shape)-1]
}

// Plane returns the k-th trailing column as a spatial row-major array, one
// value per pixel. For scalar results only plane 0 exists.
func (r *SpatialResult) Plane(k int) []float64 {
	w := r.Width()
	ns := r.Spatial.NumSamples()
	out := make([]float64, ns)
	for i := 0; i < ns; i++ {
		out[i] = r.Data[i*w+k]
	}
	return out
}

// Flatten converts a hypercube into a (samples, features) matrix together
// with the spatial shape needed to project results back. The matrix is a new
// allocation; the cube is not retained or mutated.
func Flatten(c *hypercube.Hypercube) (*mat.Dense, hypercube.SpatialShape, error) {
	if c.Rank() != 3 && c.Rank() != 4 {
		return nil, nil, &hypercube.ShapeError{
			Shape:  append([]int(nil), c.Shape...),
			Reason: "rank must be 3 or 4",
		}
	}

	ns := c.NumSamples()
	nf := c.NumFeatures()

	data := make([]float64, len(c.Data))
	copy(data, c.Data)

	spatial := make(hypercube.SpatialShape, len(c.Shape)-1)
	copy(spatial, c.Shape[:len(c.Shape)-1])

	return mat.NewDense(ns, nf, data), spatial, nil
}

// UnflattenVector projects a per-sample scalar result (for example a cluster
// label map) back onto the spatial grid. The vector length must equal the
// sample count of the spatial shape; a mismatch is reported as a
// *hypercube.ShapeMismatchError.
func UnflattenVector(v []float64, spatial hypercube.SpatialShape) (*SpatialResult, error) {
	ns := spatial.NumSamples()
	if len(v) != ns {
		return nil, &hypercube.ShapeMismatchError{Got: len(v), Want: ns, Spatial: spatial}
	}

	data := make([]float64, len(v))
	copy(data, v)

	return &SpatialResult{
		Data:    data,
		Shape:   append([]int(nil), spatial...),
		Spatial: append(hypercube.SpatialShape(nil), spatial...),
	}, nil
}

// UnflattenMatrix projects a per-sample matrix result (component scores,
// abundances, reconstructed spectra) back onto the spatial grid. The row
// count must equal the sample count of the spatial shape; the result shape is
// the spatial axes followed by the column count.
func UnflattenMatrix(m mat.Matrix, spatial hypercube.SpatialShape) (*SpatialResult, error) {
	rows, cols := m.Dims()
	ns := spatial.NumSamples()
	if rows != ns {
		return nil, &hypercube.ShapeMismatchError{Got: rows, Want: ns, Spatial: spatial}
	}

	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = m.At(i, j)
		}
	}

	shape := make([]int, 0, len(spatial)+1)
	shape = append(shape, spatial...)
	shape = append(shape, cols)

	return &SpatialResult{
		Data:    data,
		Shape:   shape,
		Spatial: append(hypercube.SpatialShape(nil), spatial...),
	}, nil
}

// ToCube reinterprets a matrix result whose width equals a spectral axis as a
// hypercube, for rendering reconstructed spectra with the same tooling as
// input cubes.
func (r *SpatialResult) ToCube() (*hypercube.Hypercube, error) {
	if len(r.Shape) != 3 && len(r.Shape) != 4 {
		return nil, &hypercube.ShapeError{
			Shape:  append([]int(nil), r.Shape...),
			Reason: "rank must be 3 or 4",
		}
	}
	data := make([]float64, len(r.Data))
	copy(data, r.Data)
	return hypercube.New(data, r.Shape)
}
