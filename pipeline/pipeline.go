// Package pipeline turns a batch of embeddings and their texts into a 2D
// layout, a cluster assignment and one label per cluster.
//
// The layout branch (neighbor index followed by the spatializer, or PCA) and
// the clustering branch read the same float64 snapshot and run concurrently.
// Labels are synthesized once clustering is done.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/alDuncanson/thoughtmap/cluster"
	"github.com/alDuncanson/thoughtmap/distance"
	"github.com/alDuncanson/thoughtmap/projection"
	"github.com/alDuncanson/thoughtmap/topics"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyInput is returned when no vectors are given.
	ErrEmptyInput = errors.New("no vectors to process")
	// ErrLengthMismatch is returned when vectors and texts differ in count.
	ErrLengthMismatch = errors.New("vectors and texts differ in count")
	// ErrDimensionMismatch is returned when vectors differ in length.
	ErrDimensionMismatch = errors.New("vectors have different dimensions")
	// ErrNonFinite is returned when a vector holds NaN or Inf.
	ErrNonFinite = errors.New("vector contains a non-finite value")
	// ErrUnknownMethod is returned for an unrecognized layout method.
	ErrUnknownMethod = errors.New("unknown layout method")
)

// Layout methods.
const (
	MethodForce = "force"
	MethodPCA   = "pca"
)

// Stage identifies the part of a run a progress report refers to.
type Stage string

const (
	StageNeighbors  Stage = "neighbors"
	StageLayout     Stage = "layout"
	StageClustering Stage = "clustering"
	StageLabels     Stage = "labels"
)

// Input is one batch of samples, matched by index.
type Input struct {
	Vectors [][]float32
	Texts   []string
}

// Config holds every tunable of a run.
type Config struct {
	Seed      int64  // Layout uses Seed, clustering uses Seed+1
	Neighbors int    // k of the neighbor index (default: 15)
	Metric    string // "euclidean" or "cosine"
	Workers   int    // Neighbor rows computed in parallel, <= 0 uses GOMAXPROCS
	Method    string // MethodForce (default) or MethodPCA

	Layout projection.SpatializerConfig

	Clusters      int // 0 picks cluster.SuggestCount(N); more than N is an error
	MaxIterations int // K-means pass cap (default: 50)

	Labels topics.Config

	Logger *slog.Logger

	// Progress, when set, receives stage updates. It may be called from
	// several goroutines at once.
	Progress func(stage Stage, done, total int)
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() Config {
	return Config{
		Seed:          42,
		Neighbors:     15,
		Metric:        "euclidean",
		Method:        MethodForce,
		Layout:        projection.DefaultSpatializerConfig(),
		MaxIterations: 50,
		Labels:        topics.DefaultConfig(),
	}
}

// Result is the outcome of a run. Every per-sample slice is indexed like
// the input.
type Result struct {
	Points      []projection.Point2D
	Neighbors   []projection.NeighborList // nil for MethodPCA
	Assignments []int
	Centroids   [][]float64
	Topics      []topics.Topic
	Clusters    int
	Iterations  int
	Converged   bool
}

// Run executes the whole pipeline on in.
func Run(ctx context.Context, in Input, config Config) (*Result, error) {
	vectors, err := snapshot(in)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Neighbors <= 0 {
		config.Neighbors = 15
	}
	if config.Method == "" {
		config.Method = MethodForce
	}
	if config.Method != MethodForce && config.Method != MethodPCA {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, config.Method)
	}
	dist, err := distance.ByName(config.Metric)
	if err != nil {
		return nil, err
	}

	n := len(vectors)
	clusters := config.Clusters
	switch {
	case clusters > n:
		return nil, fmt.Errorf("%w: %d clusters requested for %d samples", cluster.ErrInvalidClusterCount, clusters, n)
	case clusters <= 0:
		clusters = min(cluster.SuggestCount(n), n)
	}

	logger.Info("starting run",
		"samples", n,
		"dimensions", len(vectors[0]),
		"clusters", clusters,
		"method", config.Method,
		"metric", config.Metric,
	)

	result := &Result{Clusters: clusters}
	var clustering *cluster.Result

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return runLayout(groupCtx, vectors, dist, config, logger, result)
	})

	group.Go(func() error {
		started := time.Now()
		clusterConfig := cluster.Config{
			K:             clusters,
			MaxIterations: config.MaxIterations,
			Distance:      dist,
			Progress:      config.stageProgress(StageClustering),
		}
		rng := rand.New(rand.NewSource(config.Seed + 1))

		var err error
		clustering, err = cluster.KMeans(groupCtx, vectors, clusterConfig, rng)
		if err != nil {
			return fmt.Errorf("cluster vectors: %w", err)
		}
		logger.Debug("clustering done",
			"iterations", clustering.Iterations,
			"converged", clustering.Converged,
			"elapsed", time.Since(started),
		)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	result.Assignments = clustering.Assignments
	result.Centroids = clustering.Centroids
	result.Iterations = clustering.Iterations
	result.Converged = clustering.Converged

	labels, err := topics.Synthesize(clustering.Assignments, in.Texts, clusters, config.Labels)
	if err != nil {
		return nil, fmt.Errorf("synthesize labels: %w", err)
	}
	result.Topics = labels
	config.report(StageLabels, 1, 1)

	empty := 0
	for _, size := range clustering.Sizes {
		if size == 0 {
			empty++
		}
	}
	if empty > 0 {
		logger.Warn("some clusters ended up empty", "empty", empty, "clusters", clusters)
	}
	logger.Info("run complete", "clusters", clusters, "iterations", result.Iterations, "converged", result.Converged)

	return result, nil
}

func runLayout(ctx context.Context, vectors [][]float64, dist distance.Func, config Config, logger *slog.Logger, result *Result) error {
	started := time.Now()

	if config.Method == MethodPCA {
		points, err := projection.ProjectPCA(vectors)
		if err != nil {
			return fmt.Errorf("project vectors: %w", err)
		}
		result.Points = points
		config.report(StageLayout, 1, 1)
		logger.Debug("pca layout done", "elapsed", time.Since(started))
		return nil
	}

	neighbors, err := projection.BuildNeighbors(ctx, vectors, config.Neighbors, dist, config.Workers)
	if err != nil {
		return err
	}
	config.report(StageNeighbors, 1, 1)
	logger.Debug("neighbor index built",
		"edges", projection.EdgeCount(neighbors),
		"elapsed", time.Since(started),
	)

	layoutConfig := config.Layout
	layoutConfig.Progress = config.stageProgress(StageLayout)
	rng := rand.New(rand.NewSource(config.Seed))

	started = time.Now()
	points, err := projection.Spatialize(ctx, neighbors, layoutConfig, rng)
	if err != nil {
		return err
	}
	logger.Debug("force layout done", "elapsed", time.Since(started))

	result.Neighbors = neighbors
	result.Points = points
	return nil
}

// snapshot validates the input and widens it to float64 once. The copy is
// shared read-only by both branches.
func snapshot(in Input) ([][]float64, error) {
	n := len(in.Vectors)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if len(in.Texts) != n {
		return nil, fmt.Errorf("%w: %d vectors, %d texts", ErrLengthMismatch, n, len(in.Texts))
	}

	dimensions := len(in.Vectors[0])
	vectors := make([][]float64, n)
	for i, source := range in.Vectors {
		if len(source) != dimensions {
			return nil, fmt.Errorf("%w: vector %d has %d, expected %d", ErrDimensionMismatch, i, len(source), dimensions)
		}
		vector := make([]float64, dimensions)
		for j, value := range source {
			widened := float64(value)
			if math.IsNaN(widened) || math.IsInf(widened, 0) {
				return nil, fmt.Errorf("%w: vector %d, component %d", ErrNonFinite, i, j)
			}
			vector[j] = widened
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (config Config) report(stage Stage, done, total int) {
	if config.Progress != nil {
		config.Progress(stage, done, total)
	}
}

func (config Config) stageProgress(stage Stage) func(done, total int) {
	if config.Progress == nil {
		return nil
	}
	return func(done, total int) {
		config.Progress(stage, done, total)
	}
}
