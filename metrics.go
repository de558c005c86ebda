package colorquant

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsObserver receives per-iteration and per-run measurements from a
// Quantizer. Implement it to export to a monitoring system; the quantize
// command ships a Prometheus adapter.
type MetricsObserver interface {
	// ObserveIteration is called after every assign+update pass with the
	// 1-based iteration number, the inertia under the new centroids, the
	// number of clusters that received no samples, and the pass duration.
	ObserveIteration(iteration int, inertia float64, emptyClusters int, duration time.Duration)

	// ObserveRun is called once per successful run.
	ObserveRun(samples, k, iterations int, duration time.Duration)
}

// NoopObserver discards all measurements.
type NoopObserver struct{}

func (NoopObserver) ObserveIteration(int, float64, int, time.Duration) {}
func (NoopObserver) ObserveRun(int, int, int, time.Duration)            {}

// BasicObserver keeps simple in-memory counters. It is safe for concurrent
// use by several quantizers.
type BasicObserver struct {
	Runs            atomic.Int64
	Iterations      atomic.Int64
	SamplesTotal    atomic.Int64
	EmptyClusters   atomic.Int64
	RunTotalNanos   atomic.Int64
	lastInertiaBits atomic.Uint64
}

// ObserveIteration implements MetricsObserver.
func (b *BasicObserver) ObserveIteration(_ int, inertia float64, emptyClusters int, _ time.Duration) {
	b.Iterations.Add(1)
	b.EmptyClusters.Add(int64(emptyClusters))
	b.lastInertiaBits.Store(math.Float64bits(inertia))
}

// ObserveRun implements MetricsObserver.
func (b *BasicObserver) ObserveRun(samples, _, _ int, duration time.Duration) {
	b.Runs.Add(1)
	b.SamplesTotal.Add(int64(samples))
	b.RunTotalNanos.Add(duration.Nanoseconds())
}

// LastInertia returns the inertia reported by the most recent iteration.
func (b *BasicObserver) LastInertia() float64 {
	return math.Float64frombits(b.lastInertiaBits.Load())
}
