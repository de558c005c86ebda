package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wbrown/colorquant"
	"github.com/wbrown/colorquant/imageutil"
)

const (
	minClusters     = 2
	maxClusters     = 20
	defaultClusters = 5
)

type config struct {
	input       string
	output      string
	palette     string
	k           int
	iterations  int
	seed        int64
	workers     int
	trainWidth  int
	trainHeight int
	full        bool
	labels      bool
	prefilter   string
	saveResult  string
	metricsFile string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "input", "",
		"Path to the input image file (required)")
	flag.StringVar(&cfg.output, "output", "",
		"Path to save the quantized image (png, jpg or gif)")
	flag.StringVar(&cfg.palette, "palette", "",
		"Path to save the palette swatch strip")
	flag.IntVar(&cfg.k, "k", defaultClusters,
		fmt.Sprintf("Number of colors, %d to %d", minClusters, maxClusters))
	flag.IntVar(&cfg.iterations, "iterations", colorquant.DefaultIterations,
		"Number of K-Means iterations")
	flag.Int64Var(&cfg.seed, "seed", 0,
		"Seed for the initial centroid draw, 0 to derive one from the clock")
	flag.IntVar(&cfg.workers, "workers", 1,
		"Assignment workers, 0 for one per CPU")
	flag.IntVar(&cfg.trainWidth, "train-width", 160,
		"Width the image is resized to before clustering, 0 to keep the original")
	flag.IntVar(&cfg.trainHeight, "train-height", 120,
		"Height the image is resized to before clustering, 0 to keep the original")
	flag.BoolVar(&cfg.full, "full", false,
		"Apply the trained palette to the full resolution image")
	flag.BoolVar(&cfg.labels, "labels", false,
		"Print hex codes on the palette swatches")
	flag.StringVar(&cfg.prefilter, "prefilter", "none",
		"Filter applied before clustering: none, blur, or sharpen")
	flag.StringVar(&cfg.saveResult, "save-result", "",
		"Path to save labels and centroids for later reuse")
	flag.StringVar(&cfg.metricsFile, "metrics-file", "",
		"Path to write Prometheus metrics in textfile format")
	logLevel := flag.String("log-level", "warn",
		"Log level: debug, info, warn, or error")
	logFormat := flag.String("log-format", "text",
		"Log format: text or json")
	flag.Parse()

	if cfg.input == "" {
		fmt.Println("Please provide the image using the -input flag")
		flag.PrintDefaults()
		return
	}

	logger, err := newLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level, format string) (*colorquant.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	switch strings.ToLower(format) {
	case "text":
		return colorquant.NewTextLogger(w, lvl), nil
	case "json":
		return colorquant.NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, options are text or json", format)
	}
}

// clusterCount returns k, or the default when k is outside the supported
// range. The second result reports whether the default was substituted.
func clusterCount(k int) (int, bool) {
	if k < minClusters || k > maxClusters {
		return defaultClusters, true
	}
	return k, false
}

func run(ctx context.Context, cfg config, logger *colorquant.Logger, out io.Writer) error {
	begin := time.Now()

	k, fellBack := clusterCount(cfg.k)
	if fellBack {
		fmt.Fprintf(out, "K=%d is outside [%d, %d], using K=%d\n", cfg.k, minClusters, maxClusters, k)
	}
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		fmt.Fprintf(out, "Seed: %d\n", seed)
	}
	prefilter, err := imageutil.ParsePrefilter(cfg.prefilter)
	if err != nil {
		return err
	}

	img, err := imageutil.LoadImage(cfg.input)
	if err != nil {
		return err
	}
	img = prefilter.Apply(img)

	train := img
	if cfg.trainWidth > 0 && cfg.trainHeight > 0 &&
		(img.Width() != cfg.trainWidth || img.Height() != cfg.trainHeight) {
		train = imageutil.Resize(img, cfg.trainWidth, cfg.trainHeight, imageutil.InterpolationLinear)
	}
	fmt.Fprintf(out, "Clustering %dx%d pixels into %d colors (%d iterations)\n",
		train.Width(), train.Height(), k, cfg.iterations)

	var observer *PrometheusObserver
	opts := []colorquant.Option{
		colorquant.WithSeed(seed),
		colorquant.WithWorkers(cfg.workers),
		colorquant.WithLogger(logger),
	}
	if cfg.metricsFile != "" {
		observer = NewPrometheusObserver()
		opts = append(opts, colorquant.WithMetricsObserver(observer))
	}

	res, err := colorquant.NewQuantizer(opts...).QuantizeImage(ctx, train, k, cfg.iterations)
	if err != nil {
		return err
	}
	endComputation := time.Now()

	for c, rgb := range res.Palette() {
		fmt.Fprintf(out, "Cluster %d: RGB(%d, %d, %d)\n", c, rgb.R, rgb.G, rgb.B)
	}
	fmt.Fprintf(out, "Inertia: %.2f\n", res.Inertia)

	if cfg.output != "" {
		var quantized *imageutil.RGBAImage
		if cfg.full {
			quantized, _ = colorquant.NewPaletteIndex(res.Centroids).Remap(img)
		} else if quantized, err = res.Image(); err != nil {
			return err
		}
		if err := imageutil.SaveImage(quantized.RGBA, cfg.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Quantized image written to %s\n", cfg.output)
	}

	if cfg.palette != "" {
		swatches, err := colorquant.RenderPalette(res.Palette(), colorquant.PaletteOptions{Labels: cfg.labels})
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(swatches.RGBA, cfg.palette); err != nil {
			return err
		}
		fmt.Fprintf(out, "Palette written to %s\n", cfg.palette)
	}

	if cfg.saveResult != "" {
		if err := colorquant.SaveResult(res, cfg.saveResult); err != nil {
			return err
		}
		fmt.Fprintf(out, "Result written to %s\n", cfg.saveResult)
	}

	if observer != nil {
		if err := observer.WriteTextfile(cfg.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	fmt.Fprintf(out, "Computation time: %v\n", endComputation.Sub(begin))
	return nil
}
