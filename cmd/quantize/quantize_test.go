package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wbrown/colorquant"
	"github.com/wbrown/colorquant/imageutil"
)

func TestClusterCount(t *testing.T) {
	tests := []struct {
		in       int
		want     int
		fellBack bool
	}{
		{2, 2, false},
		{5, 5, false},
		{20, 20, false},
		{1, defaultClusters, true},
		{0, defaultClusters, true},
		{-3, defaultClusters, true},
		{21, defaultClusters, true},
	}
	for _, tt := range tests {
		got, fellBack := clusterCount(tt.in)
		if got != tt.want || fellBack != tt.fellBack {
			t.Errorf("clusterCount(%d) = (%d, %v), expected (%d, %v)",
				tt.in, got, fellBack, tt.want, tt.fellBack)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	logger.Debug("probe")
	if !strings.Contains(buf.String(), `"msg":"probe"`) {
		t.Errorf("Expected JSON debug record, got %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud", "text"); err == nil {
		t.Error("Expected error for unknown level")
	}
	if _, err := newLogger(&buf, "info", "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bars.png")
	src := imageutil.CreateNoisyBarsImage(64, 32, imageutil.ColorBars, 10, 7)
	if err := imageutil.SaveImage(src.RGBA, input); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	cfg := config{
		input:       input,
		output:      filepath.Join(dir, "out.png"),
		palette:     filepath.Join(dir, "palette.png"),
		k:           8,
		iterations:  10,
		seed:        3,
		workers:     2,
		trainWidth:  32,
		trainHeight: 16,
		full:        true,
		labels:      true,
		prefilter:   "blur",
		saveResult:  filepath.Join(dir, "result.cqr"),
		metricsFile: filepath.Join(dir, "colorquant.prom"),
	}

	var out bytes.Buffer
	if err := run(context.Background(), cfg, colorquant.NoopLogger(), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for c := 0; c < 8; c++ {
		prefix := "Cluster " + string(rune('0'+c)) + ": RGB("
		if !strings.Contains(out.String(), prefix) {
			t.Errorf("Expected %q in output:\n%s", prefix, out.String())
		}
	}
	if strings.Contains(out.String(), "Seed:") {
		t.Error("A fixed seed should not be printed")
	}

	quantized, err := imageutil.LoadImage(cfg.output)
	if err != nil {
		t.Fatalf("Failed to load output: %v", err)
	}
	// -full remaps the original resolution, not the training copy.
	if quantized.Width() != 64 || quantized.Height() != 32 {
		t.Errorf("Expected 64x32 output, got %dx%d", quantized.Width(), quantized.Height())
	}

	swatches, err := imageutil.LoadImage(cfg.palette)
	if err != nil {
		t.Fatalf("Failed to load palette: %v", err)
	}
	if swatches.Width() != 8*colorquant.DefaultSwatchSize || swatches.Height() != colorquant.DefaultSwatchSize {
		t.Errorf("Unexpected palette size %dx%d", swatches.Width(), swatches.Height())
	}

	res, err := colorquant.LoadResult(cfg.saveResult)
	if err != nil {
		t.Fatalf("Failed to load result: %v", err)
	}
	if res.Width != 32 || res.Height != 16 || len(res.Centroids) != 8 {
		t.Errorf("Unexpected saved result: %dx%d with %d centroids", res.Width, res.Height, len(res.Centroids))
	}

	metrics, err := os.ReadFile(cfg.metricsFile)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	for _, want := range []string{"colorquant_runs_total 1", "colorquant_iterations_total 10", "colorquant_clusters 8"} {
		if !strings.Contains(string(metrics), want) {
			t.Errorf("Expected %q in metrics:\n%s", want, metrics)
		}
	}
}

func TestRun_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "solid.png")
	if err := imageutil.SaveImage(imageutil.CreateColorBarsImage(40, 20).RGBA, input); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	var out bytes.Buffer
	cfg := config{input: input, k: 99, iterations: 2}
	if err := run(context.Background(), cfg, colorquant.NoopLogger(), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "using K=5") {
		t.Errorf("Expected fallback notice, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Seed: ") {
		t.Errorf("Expected the derived seed to be printed, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Cluster 4: RGB(") {
		t.Errorf("Expected five clusters, got:\n%s", out.String())
	}

	cfg.prefilter = "median"
	if err := run(context.Background(), cfg, colorquant.NoopLogger(), &out); err == nil {
		t.Error("Expected error for unknown prefilter")
	}

	cfg.prefilter = ""
	cfg.input = filepath.Join(dir, "missing.png")
	if err := run(context.Background(), cfg, colorquant.NoopLogger(), &out); err == nil {
		t.Error("Expected error for missing input")
	}
}
