package analysis_test

import (
	"testing"

	"hyperspec/internal/synthetic"
	"hyperspec/pkg/adapter"
	"hyperspec/pkg/analysis"
)

// agreesUpToRelabeling reports whether predicted labels induce the same
// partition as the ground truth: samples sharing a true label share a
// predicted label, and distinct true labels map to distinct predictions.
func agreesUpToRelabeling(truth, predicted []int) bool {
	forward := make(map[int]int)
	backward := make(map[int]int)
	for i := range truth {
		if p, ok := forward[truth[i]]; ok {
			if p != predicted[i] {
				return false
			}
		} else {
			forward[truth[i]] = predicted[i]
		}
		if q, ok := backward[predicted[i]]; ok {
			if q != truth[i] {
				return false
			}
		} else {
			backward[predicted[i]] = truth[i]
		}
	}
	return true
}

// TestClusteringPipeline runs the full path on a synthetic cube: flatten,
// dispatch k-means, project the labels back onto the grid
func TestClusteringPipeline(t *testing.T) {
	cube, truth, _, err := synthetic.BlobCube([]int{8, 8, 32}, 2, 0.02, 5)
	if err != nil {
		t.Fatalf("BlobCube failed: %v", err)
	}

	samples, spatial, err := adapter.Flatten(cube)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	result, err := analysis.Default().Dispatch("kmeans", samples, analysis.Options{NumClusters: 2})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if !agreesUpToRelabeling(truth, result.Labels) {
		t.Error("k-means labels do not match the generating partition")
	}

	labels := make([]float64, len(result.Labels))
	for i, l := range result.Labels {
		labels[i] = float64(l)
	}
	labelMap, err := adapter.UnflattenVector(labels, spatial)
	if err != nil {
		t.Fatalf("UnflattenVector failed: %v", err)
	}
	if len(labelMap.Shape) != 2 || labelMap.Shape[0] != 8 || labelMap.Shape[1] != 8 {
		t.Errorf("label map shape = %v, want [8 8]", labelMap.Shape)
	}
}

// TestDecompositionPipeline verifies score-map shapes for rank-3 and rank-4
// cubes, mirroring the documented usage of the analysis surface
func TestDecompositionPipeline(t *testing.T) {
	registry := analysis.Default()

	for _, shape := range [][]int{{8, 8, 32}, {8, 8, 2, 32}} {
		cube, _, _, err := synthetic.BlobCube(shape, 3, 0.05, 5)
		if err != nil {
			t.Fatalf("BlobCube failed: %v", err)
		}

		samples, spatial, err := adapter.Flatten(cube)
		if err != nil {
			t.Fatalf("Flatten failed: %v", err)
		}

		result, err := registry.Dispatch("pca", samples, analysis.Options{NumComponents: 2})
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}

		scoreMap, err := adapter.UnflattenMatrix(result.Scores, spatial)
		if err != nil {
			t.Fatalf("UnflattenMatrix failed: %v", err)
		}

		wantShape := append(append([]int(nil), shape[:len(shape)-1]...), 2)
		if len(scoreMap.Shape) != len(wantShape) {
			t.Fatalf("score map shape = %v, want %v", scoreMap.Shape, wantShape)
		}
		for i, d := range wantShape {
			if scoreMap.Shape[i] != d {
				t.Fatalf("score map shape = %v, want %v", scoreMap.Shape, wantShape)
			}
		}

		rows, cols := result.Components.Dims()
		if rows != 2 || cols != 32 {
			t.Errorf("components are %dx%d, want 2x32", rows, cols)
		}
	}
}

// TestAbundancePipeline unmixes a synthetic cube against its own generating
// endmembers: the dominant abundance must recover the pixel's label
func TestAbundancePipeline(t *testing.T) {
	cube, truth, endmembers, err := synthetic.BlobCube([]int{6, 6, 48}, 3, 0.01, 11)
	if err != nil {
		t.Fatalf("BlobCube failed: %v", err)
	}

	samples, spatial, err := adapter.Flatten(cube)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	result, err := analysis.Default().Dispatch("ucls", samples, analysis.Options{Endmembers: endmembers})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	abundances, err := adapter.UnflattenMatrix(result.Scores, spatial)
	if err != nil {
		t.Fatalf("UnflattenMatrix failed: %v", err)
	}
	if abundances.Width() != 3 {
		t.Fatalf("abundance width = %d, want 3", abundances.Width())
	}

	n, k := result.Scores.Dims()
	for i := 0; i < n; i++ {
		best, bestVal := 0, result.Scores.At(i, 0)
		for j := 1; j < k; j++ {
			if v := result.Scores.At(i, j); v > bestVal {
				best, bestVal = j, v
			}
		}
		if best != truth[i] {
			t.Fatalf("sample %d: dominant abundance %d, want %d", i, best, truth[i])
		}
	}
}
