// Package visualization renders hypercubes and spatial analysis results to
// image and plot files. It is a non-interactive stand-in for a hyperspectral
// viewer: spatial maps are written as images, spectra and scree curves as
// line plots.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"hyperspec/pkg/adapter"
	"hyperspec/pkg/hypercube"
)

// labelPalette is the fixed color cycle used for cluster label maps.
var labelPalette = []color.RGBA{
	{230, 25, 75, 255},
	{60, 180, 75, 255},
	{255, 225, 25, 255},
	{0, 130, 200, 255},
	{245, 130, 48, 255},
	{145, 30, 180, 255},
	{70, 240, 240, 255},
	{240, 50, 230, 255},
	{128, 128, 0, 255},
	{0, 128, 128, 255},
}

// SaveMeanImage writes the cube averaged over the spectral axis as grayscale
// JPEG images, one per z-plane for 4-D cubes.
func SaveMeanImage(dir, prefix string, c *hypercube.Hypercube) error {
	return savePlanes(dir, prefix, c.MeanImage(), c.SpatialShape(), saveGrayJPEG)
}

// SaveComponentMaps writes one grayscale JPEG per trailing column of the
// spatial result (and per z-plane for 4-D results). Scalar results produce a
// single map per plane.
func SaveComponentMaps(dir, prefix string, r *adapter.SpatialResult) error {
	w := r.Width()
	for k := 0; k < w; k++ {
		name := prefix
		if w > 1 {
			name = fmt.Sprintf("%s_comp%02d", prefix, k)
		}
		if err := savePlanes(dir, name, r.Plane(k), r.Spatial, saveGrayJPEG); err != nil {
			return err
		}
	}
	return nil
}

// SaveLabelMap writes a cluster label map as color PNG images using a fixed
// palette, one per z-plane for 4-D results. The result must be scalar-valued.
func SaveLabelMap(dir, prefix string, r *adapter.SpatialResult) error {
	if r.Width() != 1 {
		return fmt.Errorf("label map expects a scalar result, got width %d", r.Width())
	}
	return savePlanes(dir, prefix, r.Plane(0), r.Spatial, saveLabelPNG)
}

// planeSaver writes one extracted 2-D plane to a file. The path carries no
// extension; the saver appends its own.
type planeSaver func(path string, values []float64, width, height int) error

// savePlanes extracts the 2-D planes of a spatial row-major array and writes
// each through the saver. Rank-2 spatial shapes yield a single plane; rank-3
// spatial shapes yield one plane per z index.
func savePlanes(dir, prefix string, values []float64, spatial hypercube.SpatialShape, save planeSaver) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}

	switch len(spatial) {
	case 2:
		return save(filepath.Join(dir, prefix), values, spatial[1], spatial[0])

	case 3:
		nx, ny, nz := spatial[0], spatial[1], spatial[2]
		plane := make([]float64, nx*ny)
		for z := 0; z < nz; z++ {
			for x := 0; x < nx; x++ {
				for y := 0; y < ny; y++ {
					plane[x*ny+y] = values[(x*ny+y)*nz+z]
				}
			}
			if err := save(filepath.Join(dir, fmt.Sprintf("%s_z%03d", prefix, z)), plane, ny, nx); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("cannot render spatial shape %v", []int(spatial))
	}
}

// saveGrayJPEG normalizes the plane to its own intensity range and writes it
// as a 16-bit grayscale JPEG, width columns by height rows in row-major order.
func saveGrayJPEG(path string, values []float64, width, height int) error {
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			v := (values[row*width+col] - minV) / span
			img.SetGray16(col, row, color.Gray16{Y: uint16(v * 65535)})
		}
	}

	file, err := os.Create(path + ".jpg")
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// saveLabelPNG writes integer-valued labels as a color PNG, cycling through
// the palette for labels beyond its length.
func saveLabelPNG(path string, values []float64, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			label := int(values[row*width+col])
			if label < 0 {
				label = 0
			}
			img.Set(col, row, labelPalette[label%len(labelPalette)])
		}
	}

	file, err := os.Create(path + ".png")
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
