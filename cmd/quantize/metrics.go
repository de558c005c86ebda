package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver implements colorquant.MetricsObserver on a private
// registry, which is written out as a node-exporter textfile at exit.
type PrometheusObserver struct {
	registry *prometheus.Registry

	iterations        prometheus.Counter
	iterationDuration prometheus.Histogram
	inertia           prometheus.Gauge
	emptyClusters     prometheus.Gauge
	runs              prometheus.Counter
	runDuration       prometheus.Histogram
	samples           prometheus.Gauge
	clusters          prometheus.Gauge
}

func NewPrometheusObserver() *PrometheusObserver {
	o := &PrometheusObserver{
		registry: prometheus.NewRegistry(),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colorquant_iterations_total",
			Help: "Total assign+update passes completed",
		}),
		iterationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colorquant_iteration_duration_seconds",
			Help:    "Duration of one assign+update pass",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		inertia: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colorquant_inertia",
			Help: "Sum of squared distances to the assigned centroid after the last pass",
		}),
		emptyClusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colorquant_empty_clusters",
			Help: "Clusters without members after the last pass",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colorquant_runs_total",
			Help: "Total quantize runs completed",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colorquant_run_duration_seconds",
			Help:    "Duration of a quantize run",
			Buckets: prometheus.DefBuckets,
		}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colorquant_samples",
			Help: "Samples clustered by the last run",
		}),
		clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colorquant_clusters",
			Help: "Cluster count K of the last run",
		}),
	}

	o.registry.MustRegister(
		o.iterations,
		o.iterationDuration,
		o.inertia,
		o.emptyClusters,
		o.runs,
		o.runDuration,
		o.samples,
		o.clusters,
	)
	return o
}

func (o *PrometheusObserver) ObserveIteration(_ int, inertia float64, emptyClusters int, d time.Duration) {
	o.iterations.Inc()
	o.iterationDuration.Observe(d.Seconds())
	o.inertia.Set(inertia)
	o.emptyClusters.Set(float64(emptyClusters))
}

func (o *PrometheusObserver) ObserveRun(samples, k, _ int, d time.Duration) {
	o.runs.Inc()
	o.runDuration.Observe(d.Seconds())
	o.samples.Set(float64(samples))
	o.clusters.Set(float64(k))
}

// WriteTextfile writes every collected metric to path in the Prometheus
// text exposition format.
func (o *PrometheusObserver) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, o.registry)
}
