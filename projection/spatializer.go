package projection

import (
	"context"
	"fmt"
	"math"
)

// Rand is the random source used for initial placement and repulsion
// sampling. *math/rand.Rand satisfies it; tests pass a seeded one.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// SpatializerConfig holds the parameters of the force-directed layout.
type SpatializerConfig struct {
	Iterations       int     // Fixed number of passes (default: 200)
	InitRange        float64 // Initial positions are uniform in ±InitRange (default: 5)
	AttractionGain   float64 // Scale of the ln(d+1) pull along neighbor edges (default: 0.1)
	RepulsionGain    float64 // Scale of the 1/d² push between nearby samples (default: 0.05)
	RepulsionSamples int     // Samples drawn per point for repulsion (default: 30)
	RepulsionCutoff  float64 // Repulsion only acts below this 2D distance (default: 2)
	MinDistance      float64 // Floor applied to 2D distances (default: 0.01)
	MaxStep          float64 // Per-axis displacement clip per pass, 0 disables (default: 0)

	// Progress, when set, is called after every pass.
	Progress func(done, total int)
}

// DefaultSpatializerConfig returns the default layout parameters.
func DefaultSpatializerConfig() SpatializerConfig {
	return SpatializerConfig{
		Iterations:       200,
		InitRange:        5,
		AttractionGain:   0.1,
		RepulsionGain:    0.05,
		RepulsionSamples: 30,
		RepulsionCutoff:  2,
		MinDistance:      0.01,
		MaxStep:          0,
	}
}

// withDefaults fills unset fields so a partially set config behaves like the
// defaults for everything it leaves out. Gains are unset only when negative,
// so a zero gain switches that force off.
func (config SpatializerConfig) withDefaults() SpatializerConfig {
	defaults := DefaultSpatializerConfig()
	if config.Iterations <= 0 {
		config.Iterations = defaults.Iterations
	}
	if config.InitRange <= 0 {
		config.InitRange = defaults.InitRange
	}
	if config.AttractionGain < 0 {
		config.AttractionGain = defaults.AttractionGain
	}
	if config.RepulsionGain < 0 {
		config.RepulsionGain = defaults.RepulsionGain
	}
	if config.RepulsionSamples <= 0 {
		config.RepulsionSamples = defaults.RepulsionSamples
	}
	if config.RepulsionCutoff <= 0 {
		config.RepulsionCutoff = defaults.RepulsionCutoff
	}
	if config.MinDistance <= 0 {
		config.MinDistance = defaults.MinDistance
	}
	if config.MaxStep < 0 {
		config.MaxStep = 0
	}
	return config
}

// Spatialize lays out one 2D point per neighbor list. Points start uniformly
// at random and are then moved for a fixed number of passes:
//
//   - every directed edge i → j pulls i toward j with magnitude
//     AttractionGain·ln(d+1), so close neighbors are not pulled arbitrarily tight;
//   - every point is pushed away from a bounded random sample of the population
//     lying within RepulsionCutoff, with magnitude RepulsionGain/d²;
//   - forces are read from a snapshot of the pass and applied afterwards,
//     scaled by 1 - iteration/Iterations so motion damps toward the end.
//
// There is no stability threshold: the pass count is the only stop condition.
// The layout is reproducible only when rng is seeded.
func Spatialize(ctx context.Context, neighbors []NeighborList, config SpatializerConfig, rng Rand) ([]Point2D, error) {
	config = config.withDefaults()

	n := len(neighbors)
	if n == 0 {
		return []Point2D{}, nil
	}

	positions := make([]Point2D, n)
	for i := range positions {
		positions[i] = Point2D{
			X: (rng.Float64()*2 - 1) * config.InitRange,
			Y: (rng.Float64()*2 - 1) * config.InitRange,
		}
	}

	snapshot := make([]Point2D, n)
	forces := make([]Point2D, n)

	for iteration := 0; iteration < config.Iterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spatialize: %w", err)
		}

		copy(snapshot, positions)
		for i := range forces {
			forces[i] = Point2D{}
		}

		accumulateAttraction(snapshot, neighbors, forces, config)
		accumulateRepulsion(snapshot, forces, config, rng)

		damping := 1 - float64(iteration)/float64(config.Iterations)
		for i := range positions {
			positions[i].X += clipStep(forces[i].X*damping, config.MaxStep)
			positions[i].Y += clipStep(forces[i].Y*damping, config.MaxStep)
		}

		if config.Progress != nil {
			config.Progress(iteration+1, config.Iterations)
		}
	}

	return positions, nil
}

// accumulateAttraction adds the logarithmic pull along every neighbor edge.
func accumulateAttraction(snapshot []Point2D, neighbors []NeighborList, forces []Point2D, config SpatializerConfig) {
	for i, list := range neighbors {
		for _, neighbor := range list {
			j := neighbor.Index
			if j == i || j < 0 || j >= len(snapshot) {
				continue
			}
			dx := snapshot[j].X - snapshot[i].X
			dy := snapshot[j].Y - snapshot[i].Y
			d := math.Max(math.Hypot(dx, dy), config.MinDistance)

			magnitude := config.AttractionGain * math.Log(d+1)
			forces[i].X += dx / d * magnitude
			forces[i].Y += dy / d * magnitude
		}
	}
}

// accumulateRepulsion pushes each point away from nearby points. Populations
// no larger than the sample size are visited exhaustively; larger ones are
// sampled with replacement so the cost per point stays bounded.
func accumulateRepulsion(snapshot []Point2D, forces []Point2D, config SpatializerConfig, rng Rand) {
	n := len(snapshot)
	exhaustive := n-1 <= config.RepulsionSamples

	for i := range snapshot {
		if exhaustive {
			for j := 0; j < n; j++ {
				if j != i {
					repel(snapshot, forces, i, j, config)
				}
			}
			continue
		}
		for s := 0; s < config.RepulsionSamples; s++ {
			j := rng.Intn(n)
			if j != i {
				repel(snapshot, forces, i, j, config)
			}
		}
	}
}

func repel(snapshot []Point2D, forces []Point2D, i, j int, config SpatializerConfig) {
	dx := snapshot[i].X - snapshot[j].X
	dy := snapshot[i].Y - snapshot[j].Y
	rawDistance := math.Hypot(dx, dy)
	if rawDistance >= config.RepulsionCutoff {
		return
	}
	d := math.Max(rawDistance, config.MinDistance)

	magnitude := config.RepulsionGain / (d * d)
	forces[i].X += dx / d * magnitude
	forces[i].Y += dy / d * magnitude
}

// clipStep constrains a displacement to ±limit; a zero limit disables it.
func clipStep(step, limit float64) float64 {
	if limit <= 0 {
		return step
	}
	if step > limit {
		return limit
	}
	if step < -limit {
		return -limit
	}
	return step
}
