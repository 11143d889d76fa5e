package projection

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/alDuncanson/thoughtmap/distance"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidNeighborCount is returned when fewer than one neighbor is requested.
var ErrInvalidNeighborCount = errors.New("neighbor count must be at least 1")

// Neighbor is one entry of a neighbor list: the index of another sample and
// its distance in embedding space.
type Neighbor struct {
	Index    int
	Distance float64
}

// NeighborList holds the nearest other samples of one sample, closest first.
type NeighborList []Neighbor

// BuildNeighbors computes the k nearest neighbors of every vector using brute
// force (O(n²) distance evaluations). Each list has exactly min(k, n-1)
// entries, sorted by non-decreasing distance, never containing the sample
// itself; equal distances keep ascending index order.
//
// Rows are independent, so they are computed on up to workers goroutines
// (GOMAXPROCS when workers <= 0). A nil dist selects Euclidean distance.
func BuildNeighbors(ctx context.Context, vectors [][]float64, k int, dist distance.Func, workers int) ([]NeighborList, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNeighborCount, k)
	}
	if dist == nil {
		dist = distance.Euclidean
	}

	n := len(vectors)
	lists := make([]NeighborList, n)
	if n <= 1 {
		for i := range lists {
			lists[i] = NeighborList{}
		}
		return lists, nil
	}

	if k > n-1 {
		k = n - 1
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := 0; i < n; i++ {
		if groupCtx.Err() != nil {
			break
		}
		row := i
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			lists[row] = nearestTo(vectors, row, k, dist)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("build neighbors: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build neighbors: %w", err)
	}
	return lists, nil
}

// nearestTo ranks every other vector by distance to vectors[row] and keeps
// the closest k.
func nearestTo(vectors [][]float64, row, k int, dist distance.Func) NeighborList {
	candidates := make(NeighborList, 0, len(vectors)-1)
	for j := range vectors {
		if j == row {
			continue
		}
		candidates = append(candidates, Neighbor{
			Index:    j,
			Distance: dist(vectors[row], vectors[j]),
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Distance < candidates[b].Distance
	})

	// Copy so the list does not pin the full candidate array.
	nearest := make(NeighborList, k)
	copy(nearest, candidates[:k])
	return nearest
}

// EdgeCount returns the total number of directed neighbor edges.
func EdgeCount(lists []NeighborList) int {
	edges := 0
	for _, list := range lists {
		edges += len(list)
	}
	return edges
}
