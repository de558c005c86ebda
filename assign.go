package colorquant

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the sample count below which assignment stays on
// the calling goroutine regardless of the worker setting.
var parallelThreshold = 4096

// Nearest returns the index of the centroid closest to s in Euclidean
// distance. The scan runs in ascending index order and only a strictly
// smaller distance replaces the current best, so ties go to the lowest
// index. centroids must not be empty.
func Nearest(s Sample, centroids []Sample) int {
	best := 0
	bestDist := s.DistanceSquared(centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := s.DistanceSquared(centroids[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func assignRange(samples, centroids []Sample, labels []int, lo, hi int) {
	for i := lo; i < hi; i++ {
		labels[i] = Nearest(samples[i], centroids)
	}
}

// assign labels every sample with its nearest centroid. With more than one
// worker the sample range is cut into contiguous chunks; each worker writes
// only its own chunk of labels and reads centroids, which nobody writes
// until all workers have returned.
func (q *Quantizer) assign(ctx context.Context, samples, centroids []Sample, labels []int) error {
	n := len(samples)
	if q.workers <= 1 || n < parallelThreshold {
		assignRange(samples, centroids, labels, 0, n)
		return nil
	}

	chunk := (n + q.workers - 1) / q.workers
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assignRange(samples, centroids, labels, lo, hi)
			return nil
		})
	}
	return g.Wait()
}
