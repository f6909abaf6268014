// Package npyio reads and writes hyperspectral arrays in the NumPy .npy
// container format, the interchange format used by the Python tooling that
// typically produces hyperspectral cubes.
package npyio

import (
	"fmt"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"

	"hyperspec/pkg/adapter"
	"hyperspec/pkg/hypercube"
)

// LoadCube reads a C-order float32 or float64 .npy file and wraps it in a
// Hypercube. Rank and size validation happens in hypercube.New, so a file of
// the wrong rank surfaces a *hypercube.ShapeError. Column-major (Fortran
// order) files are rejected.
func LoadCube(path string) (*hypercube.Hypercube, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}

	if r.ColumnMajor {
		return nil, fmt.Errorf("reading %s: column-major (Fortran order) arrays are not supported", path)
	}

	var data []float64
	switch r.Dtype {
	case "f8":
		data, err = r.GetFloat64()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %v", path, err)
		}
	case "f4":
		f32, err := r.GetFloat32()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %v", path, err)
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("reading %s: unsupported dtype %q (want f4 or f8)", path, r.Dtype)
	}

	return hypercube.New(data, r.Shape)
}

// LoadMatrix reads a 2-D float64 .npy file into a dense matrix, for example
// an endmember library for abundance mapping.
func LoadMatrix(path string) (*mat.Dense, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	if r.ColumnMajor {
		return nil, fmt.Errorf("reading %s: column-major (Fortran order) arrays are not supported", path)
	}
	if len(r.Shape) != 2 {
		return nil, fmt.Errorf("reading %s: want a 2-D array, got shape %v", path, r.Shape)
	}

	data, err := r.GetFloat64()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	return mat.NewDense(r.Shape[0], r.Shape[1], data), nil
}

// SaveCube writes a hypercube as a C-order float64 .npy file.
func SaveCube(path string, c *hypercube.Hypercube) error {
	return writeNpy(path, c.Data, c.Shape)
}

// SaveResult writes a spatial result as a C-order float64 .npy file,
// preserving its (spatial..., width) shape.
func SaveResult(path string, r *adapter.SpatialResult) error {
	return writeNpy(path, r.Data, r.Shape)
}

// SaveMatrix writes a dense matrix as a 2-D .npy file.
func SaveMatrix(path string, m mat.Matrix) error {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return writeNpy(path, data, []int{rows, cols})
}

func writeNpy(path string, data []float64, shape []int) error {
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	w.Shape = shape
	w.Version = 2

	if err := w.WriteFloat64(data); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}
