package colorquant

import (
	"math"

	"github.com/wbrown/colorquant/imageutil"
)

// Sample is one pixel's color treated as a point in RGB space. Channels
// are conceptually in [0, 255] but may be fractional, since centroids are
// Samples produced by averaging.
type Sample struct {
	R, G, B float64
}

// SampleFromRGB converts an 8-bit color to a Sample.
func SampleFromRGB(c imageutil.RGB) Sample {
	return Sample{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// RGB converts the sample back to 8-bit channels. Fractional channels are
// truncated and out of range values clamped, matching a plain integer cast
// of an in-range mean.
func (s Sample) RGB() imageutil.RGB {
	return imageutil.RGB{R: channel(s.R), G: channel(s.G), B: channel(s.B)}
}

func channel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// DistanceSquared returns the squared Euclidean distance between two
// samples in RGB space.
func (s Sample) DistanceSquared(other Sample) float64 {
	dr := s.R - other.R
	dg := s.G - other.G
	db := s.B - other.B
	return dr*dr + dg*dg + db*db
}

// Distance returns the Euclidean distance between two samples in RGB space.
func (s Sample) Distance(other Sample) float64 {
	return math.Sqrt(s.DistanceSquared(other))
}

// Inertia returns the total squared distance from every sample to the
// centroid named by its label. It is the objective Lloyd's algorithm
// descends on, so it never increases from one iteration to the next.
func Inertia(samples []Sample, labels []int, centroids []Sample) float64 {
	var total float64
	for i, s := range samples {
		total += s.DistanceSquared(centroids[labels[i]])
	}
	return total
}
