package adapter

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"hyperspec/pkg/hypercube"
)

func sequentialCube(t *testing.T, shape []int) *hypercube.Hypercube {
	t.Helper()

	size := 1
	for _, d := range shape {
		size *= d
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = float64(i)
	}

	c, err := hypercube.New(data, shape)
	if err != nil {
		t.Fatalf("hypercube.New(%v) failed: %v", shape, err)
	}
	return c
}

// TestFlattenShapes verifies the matrix dimensions and spatial shape for
// rank-3 and rank-4 cubes
func TestFlattenShapes(t *testing.T) {
	cases := []struct {
		shape       []int
		wantSamples int
		wantSpatial []int
	}{
		{[]int{4, 5, 6}, 20, []int{4, 5}},
		{[]int{2, 3, 4, 5}, 24, []int{2, 3, 4}},
	}

	for _, tc := range cases {
		cube := sequentialCube(t, tc.shape)

		samples, spatial, err := Flatten(cube)
		if err != nil {
			t.Fatalf("Flatten(%v) failed: %v", tc.shape, err)
		}

		rows, cols := samples.Dims()
		if rows != tc.wantSamples || cols != tc.shape[len(tc.shape)-1] {
			t.Errorf("Flatten(%v) matrix is %dx%d, want %dx%d",
				tc.shape, rows, cols, tc.wantSamples, tc.shape[len(tc.shape)-1])
		}

		if len(spatial) != len(tc.wantSpatial) {
			t.Fatalf("spatial shape = %v, want %v", spatial, tc.wantSpatial)
		}
		for i, d := range tc.wantSpatial {
			if spatial[i] != d {
				t.Errorf("spatial shape = %v, want %v", spatial, tc.wantSpatial)
			}
		}
	}
}

// TestFlattenDoesNotAliasCube verifies that the matrix is a new allocation
func TestFlattenDoesNotAliasCube(t *testing.T) {
	cube := sequentialCube(t, []int{2, 2, 2})

	samples, _, err := Flatten(cube)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	samples.Set(0, 0, -1)
	if cube.Data[0] == -1 {
		t.Error("mutating the sample matrix changed the cube")
	}
}

// TestRoundTrip verifies that unflattening the flattened cube reproduces it
// element for element
func TestRoundTrip(t *testing.T) {
	for _, shape := range [][]int{{4, 5, 6}, {2, 3, 4, 5}} {
		cube := sequentialCube(t, shape)

		samples, spatial, err := Flatten(cube)
		if err != nil {
			t.Fatalf("Flatten failed: %v", err)
		}

		back, err := UnflattenMatrix(samples, spatial)
		if err != nil {
			t.Fatalf("UnflattenMatrix failed: %v", err)
		}

		if len(back.Shape) != len(shape) {
			t.Fatalf("round-trip shape = %v, want %v", back.Shape, shape)
		}
		for i, d := range shape {
			if back.Shape[i] != d {
				t.Fatalf("round-trip shape = %v, want %v", back.Shape, shape)
			}
		}
		for i, v := range cube.Data {
			if back.Data[i] != v {
				t.Fatalf("round-trip element %d = %v, want %v", i, back.Data[i], v)
			}
		}
	}
}

// TestScenario verifies the canonical shapes: a (10, 10, 1000) cube flattens
// to a (100, 1000) matrix and a 100-element label vector unflattens to
// (10, 10)
func TestScenario(t *testing.T) {
	cube := sequentialCube(t, []int{10, 10, 1000})

	samples, spatial, err := Flatten(cube)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	rows, cols := samples.Dims()
	if rows != 100 || cols != 1000 {
		t.Errorf("matrix is %dx%d, want 100x1000", rows, cols)
	}
	if len(spatial) != 2 || spatial[0] != 10 || spatial[1] != 10 {
		t.Errorf("spatial shape = %v, want [10 10]", spatial)
	}

	labels := make([]float64, 100)
	labelMap, err := UnflattenVector(labels, spatial)
	if err != nil {
		t.Fatalf("UnflattenVector failed: %v", err)
	}
	if len(labelMap.Shape) != 2 || labelMap.Shape[0] != 10 || labelMap.Shape[1] != 10 {
		t.Errorf("label map shape = %v, want [10 10]", labelMap.Shape)
	}
}

// TestUnflattenVectorMismatch verifies the leading-dimension check
func TestUnflattenVectorMismatch(t *testing.T) {
	_, err := UnflattenVector(make([]float64, 99), hypercube.SpatialShape{10, 10})
	if err == nil {
		t.Fatal("UnflattenVector with 99 samples should have failed for 10x10")
	}

	var mismatch *hypercube.ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error is %T, want *hypercube.ShapeMismatchError", err)
	}
	if mismatch.Got != 99 || mismatch.Want != 100 {
		t.Errorf("mismatch got/want = %d/%d, want 99/100", mismatch.Got, mismatch.Want)
	}
}

// TestUnflattenMatrixMismatch verifies the leading-dimension check for
// matrix results
func TestUnflattenMatrixMismatch(t *testing.T) {
	_, err := UnflattenMatrix(mat.NewDense(7, 3, nil), hypercube.SpatialShape{2, 4})
	if err == nil {
		t.Fatal("UnflattenMatrix with 7 rows should have failed for 2x4")
	}

	var mismatch *hypercube.ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("error is %T, want *hypercube.ShapeMismatchError", err)
	}
}

// TestUnflattenMatrixOrdering verifies that sample i keeps its spatial
// position and that planes extract trailing columns
func TestUnflattenMatrixOrdering(t *testing.T) {
	// 6 samples, 2 columns: column 0 holds the sample index, column 1 its
	// negation.
	m := mat.NewDense(6, 2, nil)
	for i := 0; i < 6; i++ {
		m.Set(i, 0, float64(i))
		m.Set(i, 1, -float64(i))
	}

	r, err := UnflattenMatrix(m, hypercube.SpatialShape{2, 3})
	if err != nil {
		t.Fatalf("UnflattenMatrix failed: %v", err)
	}

	if r.Width() != 2 {
		t.Fatalf("Width() = %d, want 2", r.Width())
	}
	if len(r.Shape) != 3 || r.Shape[0] != 2 || r.Shape[1] != 3 || r.Shape[2] != 2 {
		t.Fatalf("shape = %v, want [2 3 2]", r.Shape)
	}

	plane0 := r.Plane(0)
	plane1 := r.Plane(1)
	for i := 0; i < 6; i++ {
		if plane0[i] != float64(i) {
			t.Errorf("Plane(0)[%d] = %v, want %d", i, plane0[i], i)
		}
		if plane1[i] != -float64(i) {
			t.Errorf("Plane(1)[%d] = %v, want %d", i, plane1[i], -i)
		}
	}
}

// TestToCube verifies reinterpreting a matrix result as a hypercube
func TestToCube(t *testing.T) {
	m := mat.NewDense(6, 4, nil)
	r, err := UnflattenMatrix(m, hypercube.SpatialShape{2, 3})
	if err != nil {
		t.Fatalf("UnflattenMatrix failed: %v", err)
	}

	cube, err := r.ToCube()
	if err != nil {
		t.Fatalf("ToCube failed: %v", err)
	}
	if cube.Rank() != 3 || cube.NumFeatures() != 4 {
		t.Errorf("cube rank/features = %d/%d, want 3/4", cube.Rank(), cube.NumFeatures())
	}

	// A scalar result over a 2-axis grid has rank 2 and cannot be a cube.
	v, err := UnflattenVector(make([]float64, 6), hypercube.SpatialShape{2, 3})
	if err != nil {
		t.Fatalf("UnflattenVector failed: %v", err)
	}
	if _, err := v.ToCube(); err == nil {
		t.Error("ToCube on a rank-2 result should have failed")
	}
}
