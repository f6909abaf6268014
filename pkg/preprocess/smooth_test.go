package preprocess

import (
	"math"
	"testing"

	"hyperspec/pkg/hypercube"
)

// polyCube builds a single-pixel cube whose spectrum is a quadratic, which a
// Savitzky-Golay filter of order >= 2 must reproduce exactly away from the
// edges.
func polyCube(t *testing.T, nf int) *hypercube.Hypercube {
	t.Helper()

	data := make([]float64, nf)
	for i := range data {
		x := float64(i)
		data[i] = 2 + 0.5*x - 0.03*x*x
	}
	c, err := hypercube.New(data, []int{1, 1, nf})
	if err != nil {
		t.Fatalf("hypercube.New failed: %v", err)
	}
	return c
}

// TestSavitzkyGolayPolynomialExact verifies that polynomials up to the filter
// order pass through unchanged at interior points
func TestSavitzkyGolayPolynomialExact(t *testing.T) {
	const nf = 32
	const window = 7

	c := polyCube(t, nf)
	smoothed, err := SavitzkyGolay(c, window, 2)
	if err != nil {
		t.Fatalf("SavitzkyGolay failed: %v", err)
	}

	half := window / 2
	for i := half; i < nf-half; i++ {
		if diff := math.Abs(smoothed.Data[i] - c.Data[i]); diff > 1e-9 {
			t.Errorf("point %d moved by %v, quadratic should be invariant", i, diff)
		}
	}
}

// TestSavitzkyGolayReducesNoise verifies smoothing on a noisy constant
func TestSavitzkyGolayReducesNoise(t *testing.T) {
	const nf = 64

	data := make([]float64, nf)
	for i := range data {
		// Alternating +-1 around 5: the roughest possible signal.
		data[i] = 5 + math.Pow(-1, float64(i))
	}
	c, err := hypercube.New(data, []int{1, 1, nf})
	if err != nil {
		t.Fatalf("hypercube.New failed: %v", err)
	}

	smoothed, err := SavitzkyGolay(c, 9, 2)
	if err != nil {
		t.Fatalf("SavitzkyGolay failed: %v", err)
	}

	roughnessBefore := roughness(c.Data)
	roughnessAfter := roughness(smoothed.Data)
	if roughnessAfter >= roughnessBefore {
		t.Errorf("roughness %v did not decrease (was %v)", roughnessAfter, roughnessBefore)
	}
}

func roughness(data []float64) float64 {
	sum := 0.0
	for i := 1; i < len(data); i++ {
		diff := data[i] - data[i-1]
		sum += diff * diff
	}
	return sum
}

// TestSavitzkyGolayValidation verifies window and order checks
func TestSavitzkyGolayValidation(t *testing.T) {
	c := polyCube(t, 16)

	if _, err := SavitzkyGolay(c, 4, 2); err == nil {
		t.Error("even window should have failed")
	}
	if _, err := SavitzkyGolay(c, 1, 0); err == nil {
		t.Error("window below 3 should have failed")
	}
	if _, err := SavitzkyGolay(c, 5, 5); err == nil {
		t.Error("polyorder >= window should have failed")
	}
	if _, err := SavitzkyGolay(c, 17, 2); err == nil {
		t.Error("window beyond the spectrum length should have failed")
	}
}

// TestGaussianSmoothConstant verifies that a constant spectrum is unchanged
func TestGaussianSmoothConstant(t *testing.T) {
	data := []float64{3, 3, 3, 3, 3, 3, 3, 3}
	c, err := hypercube.New(data, []int{1, 1, 8})
	if err != nil {
		t.Fatalf("hypercube.New failed: %v", err)
	}

	smoothed, err := GaussianSmooth(c, 1.0)
	if err != nil {
		t.Fatalf("GaussianSmooth failed: %v", err)
	}
	for i, v := range smoothed.Data {
		if math.Abs(v-3) > 1e-12 {
			t.Errorf("point %d = %v, want 3", i, v)
		}
	}
}

// TestGaussianSmoothValidation verifies the sigma check
func TestGaussianSmoothValidation(t *testing.T) {
	c := polyCube(t, 16)

	if _, err := GaussianSmooth(c, 0); err == nil {
		t.Error("sigma 0 should have failed")
	}
	if _, err := GaussianSmooth(c, -1); err == nil {
		t.Error("negative sigma should have failed")
	}
}
