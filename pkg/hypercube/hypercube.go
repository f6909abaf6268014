// Package hypercube defines the core data container for hyperspectral data:
// an N-dimensional array (N = 3 or 4) whose leading axes are spatial and whose
// last axis holds the spectrum recorded at each pixel. The container is a
// plain data holder; all analysis is performed by free functions and services
// in the other packages, which read the cube and allocate new arrays for
// their results.
package hypercube

import (
	"fmt"
)

// Hypercube holds hyperspectral data in row-major order.
//
// For a rank-3 cube the layout is [x, y, spectrum]; for rank-4 it is
// [x, y, z, spectrum]. The first spatial axis varies slowest. All pixels
// combined define the sample count and the spectral axis length defines the
// feature count.
type Hypercube struct {
	// Data is the flattened cube in row-major order.
	Data []float64

	// Shape holds the axis lengths. len(Shape) is 3 or 4 and the last
	// entry is the spectral axis.
	Shape []int
}

// SpatialShape is the tuple of leading (spatial) axis lengths of a cube,
// retained across a flatten call so that per-sample results can be projected
// back onto the original grid.
type SpatialShape []int

// NumSamples returns the product of the spatial axis lengths.
func (s SpatialShape) NumSamples() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// New creates a Hypercube from row-major data and its shape.
//
// The shape must have rank 3 or 4 with every axis length positive, and the
// data length must equal the product of the axis lengths. Violations are
// reported as a *ShapeError. The data slice is retained, not copied.
func New(data []float64, shape []int) (*Hypercube, error) {
	if len(shape) != 3 && len(shape) != 4 {
		return nil, &ShapeError{Shape: append([]int(nil), shape...),
			Reason: "rank must be 3 or 4"}
	}

	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, &ShapeError{Shape: append([]int(nil), shape...),
				Reason: "axis lengths must be positive"}
		}
		size *= d
	}

	if len(data) != size {
		return nil, &ShapeError{Shape: append([]int(nil), shape...),
			Reason: fmt.Sprintf("data length %d does not match shape size %d", len(data), size)}
	}

	return &Hypercube{
		Data:  data,
		Shape: append([]int(nil), shape...),
	}, nil
}

// Rank returns the number of axes (3 or 4).
func (c *Hypercube) Rank() int {
	return len(c.Shape)
}

// NumFeatures returns the spectral axis length.
func (c *Hypercube) NumFeatures() int {
	return c.Shape[len(c.Shape)-1]
}

// NumSamples returns the total number of pixels (product of the spatial axes).
func (c *Hypercube) NumSamples() int {
	return c.SpatialShape().NumSamples()
}

// SpatialShape returns the leading axis lengths as a SpatialShape.
func (c *Hypercube) SpatialShape() SpatialShape {
	return SpatialShape(c.Shape[:len(c.Shape)-1])
}

// At returns the value at the given coordinates. The number of coordinates
// must equal the cube rank; the last coordinate indexes the spectral axis.
func (c *Hypercube) At(coords ...int) float64 {
	return c.Data[c.offset(coords)]
}

// Spectrum returns a copy of the full spectrum at the given spatial
// coordinates (one coordinate per spatial axis).
func (c *Hypercube) Spectrum(coords ...int) []float64 {
	if len(coords) != len(c.Shape)-1 {
		panic(fmt.Sprintf("hypercube: got %d spatial coordinates, cube has %d spatial axes",
			len(coords), len(c.Shape)-1))
	}

	nf := c.NumFeatures()
	start := c.offset(append(append([]int(nil), coords...), 0))
	out := make([]float64, nf)
	copy(out, c.Data[start:start+nf])
	return out
}

// MeanSpectrum returns the spectrum averaged over every pixel of the cube.
func (c *Hypercube) MeanSpectrum() []float64 {
	nf := c.NumFeatures()
	ns := c.NumSamples()
	mean := make([]float64, nf)

	for i := 0; i < ns; i++ {
		row := c.Data[i*nf : (i+1)*nf]
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(ns)
	}
	return mean
}

// MeanImage returns the cube averaged over the spectral axis. The result has
// one value per pixel in spatial row-major order, i.e. the shape of the
// spatial axes.
func (c *Hypercube) MeanImage() []float64 {
	nf := c.NumFeatures()
	ns := c.NumSamples()
	img := make([]float64, ns)

	for i := 0; i < ns; i++ {
		row := c.Data[i*nf : (i+1)*nf]
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		img[i] = sum / float64(nf)
	}
	return img
}

// Band returns the single spectral plane at feature index i as a spatial
// row-major array (one value per pixel).
func (c *Hypercube) Band(i int) ([]float64, error) {
	nf := c.NumFeatures()
	if i < 0 || i >= nf {
		return nil, fmt.Errorf("band index %d out of range [0, %d)", i, nf)
	}

	ns := c.NumSamples()
	out := make([]float64, ns)
	for s := 0; s < ns; s++ {
		out[s] = c.Data[s*nf+i]
	}
	return out, nil
}

// Clone returns a deep copy of the cube.
func (c *Hypercube) Clone() *Hypercube {
	data := make([]float64, len(c.Data))
	copy(data, c.Data)
	return &Hypercube{
		Data:  data,
		Shape: append([]int(nil), c.Shape...),
	}
}

// offset converts full coordinates to a flat row-major index.
func (c *Hypercube) offset(coords []int) int {
	if len(coords) != len(c.Shape) {
		panic(fmt.Sprintf("hypercube: got %d coordinates, cube has rank %d",
			len(coords), len(c.Shape)))
	}

	idx := 0
	for i, x := range coords {
		if x < 0 || x >= c.Shape[i] {
			panic(fmt.Sprintf("hypercube: coordinate %d out of range [0, %d) on axis %d",
				x, c.Shape[i], i))
		}
		idx = idx*c.Shape[i] + x
	}
	return idx
}
