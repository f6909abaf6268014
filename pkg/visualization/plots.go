package visualization

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotSpectra writes a line plot with one trace per spectrum, typically
// component loadings, cluster centroids or mixture means. The x axis is the
// spectral point index.
func PlotSpectra(path, title string, spectra [][]float64) error {
	if len(spectra) == 0 {
		return fmt.Errorf("no spectra to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "spectral point"
	p.Y.Label.Text = "intensity"

	for i, spectrum := range spectra {
		pts := make(plotter.XYs, len(spectrum))
		for j, v := range spectrum {
			pts[j] = plotter.XY{X: float64(j), Y: v}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build spectrum line: %v", err)
		}
		line.Width = vg.Points(1)
		line.Color = labelPalette[i%len(labelPalette)]

		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%d", i), line)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// PlotScree writes the explained-variance ratio of each principal component
// as a line plot, the usual aid for choosing a component count.
func PlotScree(path string, explained []float64) error {
	if len(explained) == 0 {
		return fmt.Errorf("no variance ratios to plot")
	}

	p := plot.New()
	p.Title.Text = "Scree plot"
	p.X.Label.Text = "component"
	p.Y.Label.Text = "explained variance ratio"

	pts := make(plotter.XYs, len(explained))
	for i, v := range explained {
		pts[i] = plotter.XY{X: float64(i + 1), Y: v}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build scree line: %v", err)
	}
	line.Width = vg.Points(1)

	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
