package colorquant

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"slices"
	"sync"
	"time"
)

const (
	// DefaultIterations is the iteration count used by the quantize
	// command when none is given.
	DefaultIterations = 20

	// DefaultSeed seeds the initial centroid draw when neither WithSeed
	// nor WithRand is supplied.
	DefaultSeed int64 = 1
)

// ZeroIterationPolicy decides what a run with maxIterations == 0 returns.
type ZeroIterationPolicy int

const (
	// AssignOnce performs a single assignment pass against the initial
	// centroids and no update, so Labels is always populated and every
	// label names its nearest initial centroid.
	AssignOnce ZeroIterationPolicy = iota

	// SkipAssign returns the initial centroids untouched and a nil Labels
	// slice; no distance is computed.
	SkipAssign
)

// Quantizer clusters color samples into K representative colors with
// Lloyd's algorithm: a random draw of K samples (with replacement) seeds
// the centroids, then each iteration assigns every sample to its nearest
// centroid and moves each centroid to the mean of its members. The loop
// always runs the requested number of iterations; there is no convergence
// test. A cluster left without members keeps its previous centroid.
//
// A Quantizer holds configuration only. Every call owns its own working
// state, so one Quantizer may serve concurrent calls.
type Quantizer struct {
	seed       int64
	rng        *rand.Rand
	rngMu      sync.Mutex
	workers    int
	zeroPolicy ZeroIterationPolicy
	logger     *Logger
	observer   MetricsObserver
}

// Option is a functional option for configuring a Quantizer.
type Option func(*Quantizer)

// WithSeed makes every call draw its initial centroids from a fresh
// generator seeded with seed, so repeated calls with the same input return
// identical results.
func WithSeed(seed int64) Option {
	return func(q *Quantizer) {
		q.seed = seed
		q.rng = nil
	}
}

// WithRand draws initial centroids from rng. Successive calls advance the
// generator and therefore see different draws. Access is serialized.
func WithRand(rng *rand.Rand) Option {
	return func(q *Quantizer) {
		q.rng = rng
	}
}

// WithWorkers parallelizes the assignment phase over n goroutines.
// n <= 0 selects GOMAXPROCS. Results do not depend on n.
func WithWorkers(n int) Option {
	return func(q *Quantizer) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		q.workers = n
	}
}

// WithZeroIterationPolicy selects the behavior for maxIterations == 0.
func WithZeroIterationPolicy(p ZeroIterationPolicy) Option {
	return func(q *Quantizer) {
		q.zeroPolicy = p
	}
}

// WithLogger sets the logger. Iteration records are emitted at Debug level.
func WithLogger(l *Logger) Option {
	return func(q *Quantizer) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithMetricsObserver sets the observer notified after each iteration and
// each run.
func WithMetricsObserver(o MetricsObserver) Option {
	return func(q *Quantizer) {
		if o != nil {
			q.observer = o
		}
	}
}

// NewQuantizer creates a Quantizer with the given options.
// Default values: seed DefaultSeed, one worker, AssignOnce, no logging,
// no metrics.
func NewQuantizer(opts ...Option) *Quantizer {
	q := &Quantizer{
		seed:       DefaultSeed,
		workers:    1,
		zeroPolicy: AssignOnce,
		logger:     NoopLogger(),
		observer:   NoopObserver{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Result is the outcome of a quantize run.
type Result struct {
	// Labels holds the cluster index of every sample, in sample order.
	Labels []int
	// Centroids holds the K final cluster colors in cluster order.
	Centroids []Sample
	// Iterations is the number of assign+update passes performed.
	Iterations int
	// Inertia is the total squared distance from each sample to its
	// assigned centroid. Zero when Labels is nil.
	Inertia float64
	// Width and Height are set when the samples came from an image, so
	// Labels can be mapped back with index = row*Width + col.
	Width, Height int
}

// Quantize runs Lloyd's algorithm over samples for exactly maxIterations
// iterations, seeding the K centroids by drawing K samples uniformly with
// replacement from rng. A nil rng uses a generator seeded with DefaultSeed.
//
// It fails with an error wrapping ErrInvalidArgument when samples is
// empty, k < 1, k > len(samples) or maxIterations < 0.
func Quantize(samples []Sample, k, maxIterations int, rng *rand.Rand) ([]int, []Sample, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(DefaultSeed))
	}
	res, err := NewQuantizer(WithRand(rng)).Quantize(context.Background(), samples, k, maxIterations)
	if err != nil {
		return nil, nil, err
	}
	return res.Labels, res.Centroids, nil
}

// Quantize clusters samples into k colors. See the package-level Quantize
// for the contract. ctx is checked between iterations and by assignment
// workers; a canceled run returns no result.
func (q *Quantizer) Quantize(ctx context.Context, samples []Sample, k, maxIterations int) (*Result, error) {
	if err := validate(len(samples), k, maxIterations); err != nil {
		q.logger.LogRun(ctx, 0, 0, err)
		return nil, err
	}
	return q.run(ctx, samples, q.initialCentroids(samples, k), maxIterations)
}

// QuantizeFrom is Quantize with caller-chosen initial centroids instead
// of a random draw; K is len(initial). initial is not modified.
func (q *Quantizer) QuantizeFrom(ctx context.Context, samples, initial []Sample, maxIterations int) (*Result, error) {
	if err := validate(len(samples), len(initial), maxIterations); err != nil {
		q.logger.LogRun(ctx, 0, 0, err)
		return nil, err
	}
	return q.run(ctx, samples, slices.Clone(initial), maxIterations)
}

// InitialCentroids draws k samples independently and uniformly at random,
// with replacement, from samples. Duplicate draws are kept.
func InitialCentroids(samples []Sample, k int, rng *rand.Rand) []Sample {
	centroids := make([]Sample, k)
	for i := range centroids {
		centroids[i] = samples[rng.Intn(len(samples))]
	}
	return centroids
}

func (q *Quantizer) initialCentroids(samples []Sample, k int) []Sample {
	if q.rng != nil {
		q.rngMu.Lock()
		defer q.rngMu.Unlock()
		return InitialCentroids(samples, k, q.rng)
	}
	return InitialCentroids(samples, k, rand.New(rand.NewSource(q.seed)))
}

func (q *Quantizer) run(ctx context.Context, samples, centroids []Sample, maxIterations int) (*Result, error) {
	start := time.Now()
	n, k := len(samples), len(centroids)
	log := q.logger.WithK(k).WithSamples(n)

	if maxIterations == 0 && q.zeroPolicy == SkipAssign {
		log.LogRun(ctx, 0, 0, nil)
		return &Result{Centroids: centroids}, nil
	}

	labels := make([]int, n)
	if maxIterations == 0 {
		if err := q.assign(ctx, samples, centroids, labels); err != nil {
			err = fmt.Errorf("quantize: %w", err)
			log.LogRun(ctx, 0, 0, err)
			return nil, err
		}
	}

	_, noop := q.observer.(NoopObserver)
	instrumented := !noop || log.Enabled(ctx, slog.LevelDebug)

	sums := make([]Sample, k)
	counts := make([]int, k)
	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("quantize: %w", err)
			log.LogRun(ctx, iter, 0, err)
			return nil, err
		}
		iterStart := time.Now()

		if err := q.assign(ctx, samples, centroids, labels); err != nil {
			err = fmt.Errorf("quantize: %w", err)
			log.LogRun(ctx, iter, 0, err)
			return nil, err
		}
		empty := update(samples, labels, centroids, sums, counts)

		if instrumented {
			inertia := Inertia(samples, labels, centroids)
			log.LogIteration(ctx, iter+1, inertia, empty)
			q.observer.ObserveIteration(iter+1, inertia, empty, time.Since(iterStart))
		}
	}

	inertia := Inertia(samples, labels, centroids)
	q.observer.ObserveRun(n, k, maxIterations, time.Since(start))
	log.LogRun(ctx, maxIterations, inertia, nil)

	return &Result{
		Labels:     labels,
		Centroids:  centroids,
		Iterations: maxIterations,
		Inertia:    inertia,
	}, nil
}

// update moves every non-empty centroid to the mean of its members and
// returns the number of empty clusters. Sums are accumulated in sample
// order so the result is independent of how assignment was scheduled.
func update(samples []Sample, labels []int, centroids, sums []Sample, counts []int) int {
	clear(sums)
	clear(counts)
	for i, s := range samples {
		c := labels[i]
		sums[c].R += s.R
		sums[c].G += s.G
		sums[c].B += s.B
		counts[c]++
	}

	empty := 0
	for c := range centroids {
		if counts[c] == 0 {
			empty++
			continue
		}
		n := float64(counts[c])
		centroids[c] = Sample{R: sums[c].R / n, G: sums[c].G / n, B: sums[c].B / n}
	}
	return empty
}
