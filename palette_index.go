package colorquant

import (
	"sort"

	"github.com/wbrown/colorquant/imageutil"
)

// PaletteIndex answers nearest-centroid queries against a fixed palette
// with a KD-tree. Its answers are identical to Nearest, including the
// lowest-index tie-break, which lets a palette trained on a downscaled
// copy be applied to the full-resolution image cheaply.
type PaletteIndex struct {
	root      *paletteNode
	centroids []Sample
}

// paletteNode is a node of the KD-tree. Each node stores one centroid and
// the axis (0=R, 1=G, 2=B) its children are split on.
type paletteNode struct {
	index       int
	color       Sample
	left, right *paletteNode
	splitAxis   int
}

// NewPaletteIndex builds an index over centroids. centroids must not be
// empty and is not retained.
func NewPaletteIndex(centroids []Sample) *PaletteIndex {
	entries := make([]paletteNode, len(centroids))
	for i, c := range centroids {
		entries[i] = paletteNode{index: i, color: c}
	}
	return &PaletteIndex{
		root:      buildPaletteTree(entries),
		centroids: append([]Sample(nil), centroids...),
	}
}

// Len returns the number of palette entries.
func (p *PaletteIndex) Len() int {
	return len(p.centroids)
}

// buildPaletteTree splits on the axis with the largest variance at every
// level, using the median entry as the node.
func buildPaletteTree(entries []paletteNode) *paletteNode {
	if len(entries) == 0 {
		return nil
	}

	axis := chooseSplitAxis(entries)
	sort.Slice(entries, func(i, j int) bool {
		ai, aj := component(entries[i].color, axis), component(entries[j].color, axis)
		if ai != aj {
			return ai < aj
		}
		return entries[i].index < entries[j].index
	})

	median := len(entries) / 2
	node := entries[median]
	node.splitAxis = axis
	node.left = buildPaletteTree(entries[:median])
	node.right = buildPaletteTree(entries[median+1:])
	return &node
}

// chooseSplitAxis returns the axis with the largest variance, preferring
// R, then G, then B.
func chooseSplitAxis(entries []paletteNode) int {
	var mean [3]float64
	for _, e := range entries {
		for axis := range mean {
			mean[axis] += component(e.color, axis)
		}
	}
	for axis := range mean {
		mean[axis] /= float64(len(entries))
	}

	var variance [3]float64
	for _, e := range entries {
		for axis := range variance {
			d := component(e.color, axis) - mean[axis]
			variance[axis] += d * d
		}
	}

	if variance[0] >= variance[1] && variance[0] >= variance[2] {
		return 0
	} else if variance[1] >= variance[2] {
		return 1
	}
	return 2
}

func component(s Sample, axis int) float64 {
	switch axis {
	case 0:
		return s.R
	case 1:
		return s.G
	default:
		return s.B
	}
}

// Nearest returns the index of the palette entry closest to s, breaking
// ties toward the lowest index.
func (p *PaletteIndex) Nearest(s Sample) int {
	best, bestDist := -1, 0.0
	p.root.search(s, &best, &bestDist)
	return best
}

func (node *paletteNode) search(target Sample, best *int, bestDist *float64) {
	if node == nil {
		return
	}

	d := target.DistanceSquared(node.color)
	if *best < 0 || d < *bestDist || (d == *bestDist && node.index < *best) {
		*best, *bestDist = node.index, d
	}

	axisDist := component(target, node.splitAxis) - component(node.color, node.splitAxis)
	next, other := node.right, node.left
	if axisDist < 0 {
		next, other = node.left, node.right
	}

	next.search(target, best, bestDist)
	// An entry on the far side can only tie or win if the splitting plane
	// is no farther than the best distance so far.
	if axisDist*axisDist <= *bestDist {
		other.search(target, best, bestDist)
	}
}

// Remap quantizes every pixel of img to its nearest palette entry and
// returns the repainted image and the row-major labels. Lookups are
// memoized per distinct source color.
func (p *PaletteIndex) Remap(img *imageutil.RGBAImage) (*imageutil.RGBAImage, []int) {
	width, height := img.Width(), img.Height()
	colors := make([]imageutil.RGB, len(p.centroids))
	for c, centroid := range p.centroids {
		colors[c] = centroid.RGB()
	}

	memo := make(map[imageutil.RGB]int)
	labels := make([]int, 0, width*height)
	dst := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.GetRGB(x, y)
			label, ok := memo[c]
			if !ok {
				label = p.Nearest(SampleFromRGB(c))
				memo[c] = label
			}
			labels = append(labels, label)
			dst.SetRGB(x, y, colors[label])
		}
	}
	return dst, labels
}
