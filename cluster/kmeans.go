// Package cluster partitions embedding vectors into K groups with K-means and
// K-means++ seeding.
package cluster

import (
	"context"
	"errors"
	"fmt"

	"github.com/alDuncanson/thoughtmap/distance"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyInput is returned when there is nothing to cluster.
	ErrEmptyInput = errors.New("no vectors to cluster")
	// ErrInvalidClusterCount is returned when K is outside [1, N].
	ErrInvalidClusterCount = errors.New("cluster count out of range")
	// ErrDimensionMismatch is returned when vectors differ in length.
	ErrDimensionMismatch = errors.New("vectors have different dimensions")
)

// Rand is the random source used for K-means++ seeding.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Config holds K-means parameters.
type Config struct {
	K             int           // Number of cluster slots, 1 <= K <= N
	MaxIterations int           // Assign/update passes before giving up (default: 50)
	Distance      distance.Func // Defaults to Euclidean

	// Progress, when set, is called after every assign pass.
	Progress func(done, total int)
}

// DefaultConfig returns a configuration for k clusters.
func DefaultConfig(k int) Config {
	return Config{
		K:             k,
		MaxIterations: 50,
		Distance:      distance.Euclidean,
	}
}

// Result is the outcome of one clustering run.
type Result struct {
	// Assignments maps each sample index to its cluster slot in [0, K).
	Assignments []int
	// Centroids holds the final centroid of every slot. A slot that lost all
	// its members keeps the last centroid it had.
	Centroids [][]float64
	// Sizes counts the members of every slot; zero is possible.
	Sizes []int
	// Iterations is the number of assign passes performed.
	Iterations int
	// Converged reports whether the last pass changed no assignment.
	Converged bool
}

// KMeans clusters vectors into config.K slots.
//
// Seeding follows K-means++: the first centroid is a uniformly random sample,
// every further one is drawn with probability proportional to each remaining
// sample's distance to its nearest chosen centroid. The loop then alternates
// assign (nearest centroid, ties to the lowest slot) and update (member mean)
// until no assignment changes or MaxIterations passes have run.
//
// A slot left with no members keeps its stale centroid instead of being
// reseeded, so it can stay empty for the rest of the run.
//
// Only seeding consumes randomness: with a seeded rng and a fixed input order
// the result is fully reproducible.
func KMeans(ctx context.Context, vectors [][]float64, config Config, rng Rand) (*Result, error) {
	n := len(vectors)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if config.K < 1 || config.K > n {
		return nil, fmt.Errorf("%w: k=%d with %d samples", ErrInvalidClusterCount, config.K, n)
	}
	if err := checkDimensions(vectors); err != nil {
		return nil, err
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = 50
	}
	if config.Distance == nil {
		config.Distance = distance.Euclidean
	}

	centroids := seedCentroids(vectors, config.K, config.Distance, rng)

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	sizes := make([]int, config.K)

	result := &Result{Assignments: assignments, Centroids: centroids, Sizes: sizes}

	for iteration := 0; iteration < config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("kmeans: %w", err)
		}

		changed := assign(vectors, centroids, assignments, config.Distance)
		result.Iterations = iteration + 1

		if config.Progress != nil {
			config.Progress(result.Iterations, config.MaxIterations)
		}

		if !changed {
			result.Converged = true
			break
		}
		updateCentroids(vectors, assignments, centroids)
	}

	for i := range sizes {
		sizes[i] = 0
	}
	for _, slot := range assignments {
		sizes[slot]++
	}

	return result, nil
}

// Assign returns the nearest-centroid slot of every vector, breaking ties
// toward the lowest slot. It is the assign step of KMeans exposed on its own.
func Assign(vectors, centroids [][]float64, dist distance.Func) []int {
	if dist == nil {
		dist = distance.Euclidean
	}
	assignments := make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = -1
	}
	assign(vectors, centroids, assignments, dist)
	return assignments
}

// assign writes the nearest slot of every vector into assignments and
// reports whether any entry changed.
func assign(vectors, centroids [][]float64, assignments []int, dist distance.Func) bool {
	changed := false
	for i, vector := range vectors {
		nearest := 0
		nearestDistance := dist(vector, centroids[0])
		for slot := 1; slot < len(centroids); slot++ {
			if d := dist(vector, centroids[slot]); d < nearestDistance {
				nearestDistance = d
				nearest = slot
			}
		}
		if assignments[i] != nearest {
			assignments[i] = nearest
			changed = true
		}
	}
	return changed
}

// updateCentroids replaces every non-empty slot's centroid with the mean of
// its members. Empty slots are left untouched.
func updateCentroids(vectors [][]float64, assignments []int, centroids [][]float64) {
	dim := len(vectors[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for slot := range sums {
		sums[slot] = make([]float64, dim)
	}

	for i, slot := range assignments {
		floats.Add(sums[slot], vectors[i])
		counts[slot]++
	}

	for slot, count := range counts {
		if count == 0 {
			continue
		}
		floats.Scale(1/float64(count), sums[slot])
		centroids[slot] = sums[slot]
	}
}

// seedCentroids picks k initial centroids with K-means++. Centroids are
// copies, never aliases of the caller's vectors.
func seedCentroids(vectors [][]float64, k int, dist distance.Func, rng Rand) [][]float64 {
	n := len(vectors)
	chosen := make([]bool, n)
	centroids := make([][]float64, 0, k)

	first := rng.Intn(n)
	chosen[first] = true
	centroids = append(centroids, cloneVector(vectors[first]))

	// nearest[i] tracks the distance from sample i to its closest centroid.
	nearest := make([]float64, n)
	for i := range vectors {
		nearest[i] = dist(vectors[i], centroids[0])
	}

	for len(centroids) < k {
		next := weightedDraw(nearest, chosen, rng)
		chosen[next] = true
		centroid := cloneVector(vectors[next])
		centroids = append(centroids, centroid)

		for i := range vectors {
			if d := dist(vectors[i], centroid); d < nearest[i] {
				nearest[i] = d
			}
		}
	}

	return centroids
}

// weightedDraw picks an unchosen index with probability proportional to its
// weight. When every remaining weight is zero (duplicate vectors) it falls
// back to a uniform draw among the unchosen indices.
func weightedDraw(weights []float64, chosen []bool, rng Rand) int {
	var total float64
	remaining := 0
	for i, w := range weights {
		if chosen[i] {
			continue
		}
		remaining++
		total += w
	}

	if total > 0 {
		threshold := rng.Float64() * total
		var cumulative float64
		lastPositive := -1
		for i, w := range weights {
			if chosen[i] || w <= 0 {
				continue
			}
			cumulative += w
			lastPositive = i
			if cumulative > threshold {
				return i
			}
		}
		// Rounding can leave the threshold just past the final sum.
		return lastPositive
	}

	pick := rng.Intn(remaining)
	for i := range weights {
		if chosen[i] {
			continue
		}
		if pick == 0 {
			return i
		}
		pick--
	}
	return -1
}

func checkDimensions(vectors [][]float64) error {
	dim := len(vectors[0])
	for i, vector := range vectors {
		if len(vector) != dim {
			return fmt.Errorf("%w: vector %d has %d values, expected %d", ErrDimensionMismatch, i, len(vector), dim)
		}
	}
	return nil
}

func cloneVector(vector []float64) []float64 {
	clone := make([]float64, len(vector))
	copy(clone, vector)
	return clone
}

// SuggestCount derives a cluster count from the sample count: one cluster per
// twenty samples, kept within [5, 25] and never more than n.
func SuggestCount(n int) int {
	if n <= 0 {
		return 0
	}
	k := max(5, min(25, n/20))
	return min(k, n)
}
