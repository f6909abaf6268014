package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"hyperspec/internal/synthetic"
	"hyperspec/pkg/adapter"
	"hyperspec/pkg/analysis"
	"hyperspec/pkg/config"
	"hyperspec/pkg/hypercube"
	"hyperspec/pkg/npyio"
	"hyperspec/pkg/preprocess"
	"hyperspec/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Input hyperspectral cube (.npy, rank 3 or 4, last axis spectral)")
	demo := flag.Bool("demo", false, "Generate a synthetic demo cube instead of reading -input")
	demoShape := flag.String("demo-shape", "32,32,64", "Shape of the synthetic demo cube")
	operation := flag.String("op", "pca", "Analysis operation to run")
	components := flag.Int("components", 0, "Number of components (0: use config default)")
	clusters := flag.Int("clusters", 0, "Number of clusters/mixture components (0: use config default)")
	endmembersPath := flag.String("endmembers", "", "Endmember spectra (.npy, endmembers x features) for abundance mapping")
	scale := flag.Bool("scale", false, "Min-max scale intensities before analysis")
	normalize := flag.Bool("normalize", false, "Subtract the mean spectrum before analysis")
	smooth := flag.String("smooth", "", "Spectral smoothing: 'savgol' or 'gaussian'")
	configPath := flag.String("config", "hyperspec.yaml", "Configuration file")
	outputDir := flag.String("output", "", "Output directory (default: config output dir)")
	flag.Parse()

	// Load configuration (missing file falls back to defaults)
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *components > 0 {
		cfg.Analysis.NumComponents = *components
	}
	if *clusters > 0 {
		cfg.Analysis.NumClusters = *clusters
	}

	registry := analysis.Default()

	fmt.Println("================================")
	fmt.Println("HYPERSPEC - EXPLORATORY ANALYSIS OF HYPERSPECTRAL DATA")
	fmt.Printf("Registered operations: %v\n", registry.Names())
	fmt.Println("================================")

	// Load or generate the cube
	cube, err := loadCube(*inputPath, *demo, *demoShape, cfg)
	if err != nil {
		log.Fatalf("Failed to load cube: %v", err)
	}
	fmt.Printf("Cube shape: %v (%d samples, %d spectral points)\n",
		cube.Shape, cube.NumSamples(), cube.NumFeatures())

	// Optional preprocessing
	cube, err = applyPreprocessing(cube, *scale, *normalize, *smooth, cfg)
	if err != nil {
		log.Fatalf("Preprocessing failed: %v", err)
	}

	// Flatten to (samples, features) and dispatch
	samples, spatial, err := adapter.Flatten(cube)
	if err != nil {
		log.Fatalf("Failed to flatten cube: %v", err)
	}

	opts := analysis.Options{
		NumComponents: cfg.Analysis.NumComponents,
		NumClusters:   cfg.Analysis.NumClusters,
		MaxIterations: cfg.Analysis.MaxIterations,
		Tolerance:     cfg.Analysis.Tolerance,
		Seed:          cfg.Analysis.Seed,
	}
	if *endmembersPath != "" {
		endmembers, err := npyio.LoadMatrix(*endmembersPath)
		if err != nil {
			log.Fatalf("Failed to load endmembers: %v", err)
		}
		opts.Endmembers = endmembers
	}

	fmt.Printf("Running %q...\n", *operation)
	startTime := time.Now()
	result, err := registry.Dispatch(*operation, samples, opts)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	fmt.Printf("Completed in %.2f seconds\n", time.Since(startTime).Seconds())

	// Project per-sample results back onto the spatial grid and save
	if err := saveOutputs(cfg.Output.Dir, *operation, cube, spatial, result, cfg.Output.Verbose); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	fmt.Printf("Results written to: %s\n", cfg.Output.Dir)
}

// loadCube reads the input cube from a .npy file or generates a synthetic one.
func loadCube(inputPath string, demo bool, demoShape string, cfg *config.Config) (*hypercube.Hypercube, error) {
	if demo {
		shape, err := parseShape(demoShape)
		if err != nil {
			return nil, err
		}
		cube, _, _, err := synthetic.BlobCube(shape, cfg.Analysis.NumClusters, 0.05, cfg.Analysis.Seed)
		return cube, err
	}

	if inputPath == "" {
		flag.Usage()
		return nil, fmt.Errorf("either -input or -demo is required")
	}
	return npyio.LoadCube(inputPath)
}

// applyPreprocessing applies the requested preprocessing steps in a fixed
// order: smoothing, then scaling, then normalization.
func applyPreprocessing(cube *hypercube.Hypercube, scale, normalize bool, smooth string, cfg *config.Config) (*hypercube.Hypercube, error) {
	var err error

	switch smooth {
	case "":
	case "savgol":
		fmt.Printf("Smoothing spectra (Savitzky-Golay, window %d, order %d)...\n",
			cfg.Preprocess.SavGolWindow, cfg.Preprocess.SavGolOrder)
		cube, err = preprocess.SavitzkyGolay(cube, cfg.Preprocess.SavGolWindow, cfg.Preprocess.SavGolOrder)
		if err != nil {
			return nil, err
		}
	case "gaussian":
		fmt.Printf("Smoothing spectra (gaussian, sigma %.2f)...\n", cfg.Preprocess.GaussianSigma)
		cube, err = preprocess.GaussianSmooth(cube, cfg.Preprocess.GaussianSigma)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown smoothing %q (want 'savgol' or 'gaussian')", smooth)
	}

	if scale {
		fmt.Println("Scaling intensities...")
		cube = preprocess.Scale(cube)
	}
	if normalize {
		fmt.Println("Subtracting mean spectrum...")
		cube = preprocess.Normalize(cube)
	}
	return cube, nil
}

// saveOutputs writes every populated result field: .npy arrays for
// downstream tooling plus rendered maps and plots.
func saveOutputs(dir, operation string, cube *hypercube.Hypercube, spatial hypercube.SpatialShape, result *analysis.Result, verbose bool) error {
	if err := visualization.SaveMeanImage(dir, "mean_image", cube); err != nil {
		return err
	}

	if result.Labels != nil {
		labels := make([]float64, len(result.Labels))
		for i, l := range result.Labels {
			labels[i] = float64(l)
		}

		labelMap, err := adapter.UnflattenVector(labels, spatial)
		if err != nil {
			return err
		}
		if err := npyio.SaveResult(filepath.Join(dir, operation+"_labels.npy"), labelMap); err != nil {
			return err
		}
		if err := visualization.SaveLabelMap(dir, operation+"_labels", labelMap); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Label map shape: %v\n", labelMap.Shape)
		}
	}

	if result.Scores != nil {
		scores, err := adapter.UnflattenMatrix(result.Scores, spatial)
		if err != nil {
			return err
		}
		if err := npyio.SaveResult(filepath.Join(dir, operation+"_scores.npy"), scores); err != nil {
			return err
		}
		if err := visualization.SaveComponentMaps(dir, operation+"_scores", scores); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Score map shape: %v\n", scores.Shape)
		}
	}

	if result.Components != nil {
		if err := npyio.SaveMatrix(filepath.Join(dir, operation+"_components.npy"), result.Components); err != nil {
			return err
		}

		rows, _ := result.Components.Dims()
		spectra := make([][]float64, rows)
		for i := 0; i < rows; i++ {
			spectra[i] = mat.Row(nil, i, result.Components)
		}
		if err := visualization.PlotSpectra(filepath.Join(dir, operation+"_spectra.png"),
			operation+" spectra", spectra); err != nil {
			return err
		}
	}

	if result.ExplainedVariance != nil {
		if err := visualization.PlotScree(filepath.Join(dir, operation+"_scree.png"),
			result.ExplainedVariance); err != nil {
			return err
		}
	}

	if result.LogLikelihood != 0 && verbose {
		fmt.Printf("Final log-likelihood: %.4f\n", result.LogLikelihood)
	}
	return nil
}

// parseShape parses a comma-separated shape like "32,32,64".
func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	shape := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %v", s, err)
		}
		shape = append(shape, d)
	}
	return shape, nil
}
