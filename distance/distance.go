// Package distance provides the scalar distance functions shared by the
// neighbor index and the cluster engine.
//
// Every function here panics when the two vectors differ in length. A length
// mismatch is a programming error: callers validate dimensions once, up front,
// so the hot loops never pay for a check that can only fail on a bug.
package distance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Func returns a non-negative distance between two equal-length vectors.
type Func func(a, b []float64) float64

// ErrUnknownMetric is returned by ByName for unsupported metric names.
var ErrUnknownMetric = errors.New("unknown distance metric")

// Euclidean returns the L2 distance between a and b.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Cosine returns 1 - cos(a, b). A zero-norm vector is treated as orthogonal
// to everything, so its distance is 1.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("distance: slice lengths do not match")
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 1
	}
	similarity := floats.Dot(a, b) / (normA * normB)
	// Rounding can push identical directions slightly past 1.
	similarity = math.Max(-1, math.Min(1, similarity))
	return 1 - similarity
}

// ByName resolves a metric name from configuration. The empty name selects
// Euclidean.
func ByName(name string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "euclidean", "l2":
		return Euclidean, nil
	case "cosine":
		return Cosine, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}
