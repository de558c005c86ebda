package colorquant

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// resultFormatVersion is bumped whenever savedResult changes shape.
const resultFormatVersion = 1

// savedResult is the gob payload written by WriteResult.
type savedResult struct {
	Version    int
	Width      int
	Height     int
	Iterations int
	Inertia    float64
	Labels     []int32
	Centroids  []Sample
}

// WriteResult serializes r as zstd-compressed gob, so a run can be
// repainted or inspected later without clustering again.
func WriteResult(w io.Writer, r *Result) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	payload := savedResult{
		Version:    resultFormatVersion,
		Width:      r.Width,
		Height:     r.Height,
		Iterations: r.Iterations,
		Inertia:    r.Inertia,
		Centroids:  r.Centroids,
	}
	if r.Labels != nil {
		payload.Labels = make([]int32, len(r.Labels))
		for i, l := range r.Labels {
			payload.Labels[i] = int32(l)
		}
	}

	if err := gob.NewEncoder(enc).Encode(payload); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return nil
}

// ReadResult decodes a result written by WriteResult.
func ReadResult(rd io.Reader) (*Result, error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	var payload savedResult
	if err := gob.NewDecoder(dec).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if payload.Version != resultFormatVersion {
		return nil, fmt.Errorf("unsupported result format version %d", payload.Version)
	}

	r := &Result{
		Width:      payload.Width,
		Height:     payload.Height,
		Iterations: payload.Iterations,
		Inertia:    payload.Inertia,
		Centroids:  payload.Centroids,
	}
	if payload.Labels != nil {
		r.Labels = make([]int, len(payload.Labels))
		for i, l := range payload.Labels {
			if int(l) < 0 || int(l) >= len(payload.Centroids) {
				return nil, fmt.Errorf("corrupt result: label %d at %d outside [0, %d)", l, i, len(payload.Centroids))
			}
			r.Labels[i] = int(l)
		}
	}
	return r, nil
}

// SaveResult writes r to path with WriteResult.
func SaveResult(r *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteResult(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadResult reads a result saved with SaveResult.
func LoadResult(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result: %w", err)
	}
	defer f.Close()
	return ReadResult(f)
}
