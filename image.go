package colorquant

import (
	"context"
	"fmt"

	"github.com/wbrown/colorquant/imageutil"
)

// SamplesFromImage flattens img into one Sample per pixel in row-major
// order, so the sample for pixel (col, row) sits at row*width + col.
func SamplesFromImage(img *imageutil.RGBAImage) []Sample {
	width, height := img.Width(), img.Height()
	samples := make([]Sample, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			samples = append(samples, SampleFromRGB(img.GetRGB(x, y)))
		}
	}
	return samples
}

// Paint builds the quantized image: pixel i (row-major) takes the color of
// centroids[labels[i]].
func Paint(labels []int, centroids []Sample, width, height int) (*imageutil.RGBAImage, error) {
	if len(labels) != width*height {
		return nil, fmt.Errorf("failed to paint: %d labels for a %dx%d image", len(labels), width, height)
	}
	colors := make([]imageutil.RGB, len(centroids))
	for c, centroid := range centroids {
		colors[c] = centroid.RGB()
	}

	img := imageutil.NewRGBAImage(width, height)
	for i, label := range labels {
		if label < 0 || label >= len(colors) {
			return nil, fmt.Errorf("failed to paint: label %d at pixel %d outside [0, %d)", label, i, len(colors))
		}
		img.SetRGB(i%width, i/width, colors[label])
	}
	return img, nil
}

// QuantizeImage quantizes the pixels of img and records its dimensions in
// the result.
func (q *Quantizer) QuantizeImage(ctx context.Context, img *imageutil.RGBAImage, k, maxIterations int) (*Result, error) {
	res, err := q.Quantize(ctx, SamplesFromImage(img), k, maxIterations)
	if err != nil {
		return nil, err
	}
	res.Width, res.Height = img.Width(), img.Height()
	return res, nil
}

// Image paints the quantized image of a result produced from an image.
func (r *Result) Image() (*imageutil.RGBAImage, error) {
	if r.Labels == nil {
		return nil, fmt.Errorf("failed to paint: result has no labels")
	}
	return Paint(r.Labels, r.Centroids, r.Width, r.Height)
}

// Palette returns the centroid colors as 8-bit RGB in cluster order.
func (r *Result) Palette() []imageutil.RGB {
	colors := make([]imageutil.RGB, len(r.Centroids))
	for c, centroid := range r.Centroids {
		colors[c] = centroid.RGB()
	}
	return colors
}
