package projection

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestSpatialize_EmptyInput(t *testing.T) {
	points, err := Spatialize(context.Background(), nil, DefaultSpatializerConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points for empty input, got %d", len(points))
	}
}

func TestSpatialize_SinglePoint(t *testing.T) {
	points, err := Spatialize(context.Background(), []NeighborList{{}}, DefaultSpatializerConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	assertFinite(t, points)
}

func TestSpatialize_StaysFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([][]float64, 60)
	for i := range data {
		data[i] = make([]float64, 8)
		for d := range data[i] {
			data[i][d] = rng.NormFloat64()
		}
	}
	// Exact duplicates exercise coincident neighbor edges.
	data[1] = data[0]
	data[2] = data[0]

	neighbors, err := BuildNeighbors(context.Background(), data, 5, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config := DefaultSpatializerConfig()
	config.RepulsionSamples = 10

	points, err := Spatialize(context.Background(), neighbors, config, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != len(data) {
		t.Fatalf("expected %d points, got %d", len(data), len(points))
	}
	assertFinite(t, points)
}

func TestSpatialize_NoClipStaysFinite(t *testing.T) {
	neighbors := []NeighborList{
		{{Index: 1}, {Index: 2}},
		{{Index: 0}, {Index: 2}},
		{{Index: 0}, {Index: 1}},
	}
	config := DefaultSpatializerConfig()
	config.MaxStep = 0

	points, err := Spatialize(context.Background(), neighbors, config, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFinite(t, points)
}

func TestSpatialize_MutualNeighborsConverge(t *testing.T) {
	neighbors := []NeighborList{{{Index: 1}}, {{Index: 0}}}

	for seed := int64(1); seed <= 5; seed++ {
		points, err := Spatialize(context.Background(), neighbors, DefaultSpatializerConfig(), rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		gap := math.Hypot(points[0].X-points[1].X, points[0].Y-points[1].Y)
		if gap >= DefaultSpatializerConfig().RepulsionCutoff {
			t.Errorf("seed %d: mutual neighbors should end within the repulsion cutoff, got distance %f", seed, gap)
		}
		if gap == 0 {
			t.Errorf("seed %d: repulsion should keep mutual neighbors apart", seed)
		}
	}
}

func TestSpatialize_Reproducibility(t *testing.T) {
	neighbors := []NeighborList{
		{{Index: 1}},
		{{Index: 0}},
		{{Index: 3}},
		{{Index: 2}},
	}
	config := DefaultSpatializerConfig()
	config.Iterations = 50

	result1, _ := Spatialize(context.Background(), neighbors, config, rand.New(rand.NewSource(42)))
	result2, _ := Spatialize(context.Background(), neighbors, config, rand.New(rand.NewSource(42)))

	for i := range result1 {
		if result1[i] != result2[i] {
			t.Errorf("point %d differs between runs: (%f,%f) vs (%f,%f)",
				i, result1[i].X, result1[i].Y, result2[i].X, result2[i].Y)
		}
	}
}

func TestSpatialize_Progress(t *testing.T) {
	config := DefaultSpatializerConfig()
	config.Iterations = 12

	calls := 0
	lastDone := 0
	config.Progress = func(done, total int) {
		calls++
		lastDone = done
		if total != 12 {
			t.Errorf("expected total 12, got %d", total)
		}
	}

	_, err := Spatialize(context.Background(), []NeighborList{{}, {}}, config, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 12 || lastDone != 12 {
		t.Errorf("expected 12 progress calls ending at 12, got %d calls ending at %d", calls, lastDone)
	}
}

func TestSpatialize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Spatialize(ctx, []NeighborList{{}, {}}, DefaultSpatializerConfig(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSpatializerConfig_WithDefaults(t *testing.T) {
	config := SpatializerConfig{Iterations: 10, AttractionGain: -1, RepulsionGain: -1, MaxStep: -1}.withDefaults()
	defaults := DefaultSpatializerConfig()

	if config.Iterations != 10 {
		t.Errorf("explicit iterations should be kept, got %d", config.Iterations)
	}
	if config.AttractionGain != defaults.AttractionGain || config.RepulsionGain != defaults.RepulsionGain ||
		config.RepulsionCutoff != defaults.RepulsionCutoff {
		t.Errorf("unset fields should take defaults, got %+v", config)
	}
	if config.MaxStep != 0 {
		t.Errorf("negative max step should disable clipping, got %f", config.MaxStep)
	}
}

func TestSpatializerConfig_ZeroGainsKept(t *testing.T) {
	config := SpatializerConfig{AttractionGain: 0, RepulsionGain: 0}.withDefaults()
	if config.AttractionGain != 0 || config.RepulsionGain != 0 {
		t.Errorf("zero gains should switch the forces off, got attraction %f repulsion %f",
			config.AttractionGain, config.RepulsionGain)
	}
}

func TestDefaultSpatializerConfig_NoClip(t *testing.T) {
	if step := DefaultSpatializerConfig().MaxStep; step != 0 {
		t.Errorf("default layout should apply force times damping unclipped, got max step %f", step)
	}
}

func TestClipStep(t *testing.T) {
	tests := []struct {
		step     float64
		limit    float64
		expected float64
	}{
		{0.5, 4, 0.5},
		{5, 4, 4},
		{-9, 4, -4},
		{100, 0, 100},
	}

	for _, tc := range tests {
		if result := clipStep(tc.step, tc.limit); result != tc.expected {
			t.Errorf("clipStep(%f, %f) = %f, expected %f", tc.step, tc.limit, result, tc.expected)
		}
	}
}

func assertFinite(t *testing.T, points []Point2D) {
	t.Helper()
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("point %d has NaN coordinates", i)
		}
		if math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("point %d has Inf coordinates", i)
		}
	}
}

func BenchmarkSpatialize(b *testing.B) {
	data := make([][]float64, 300)
	for i := range data {
		data[i] = []float64{float64(i % 17), float64(i % 23), float64(i % 5)}
	}
	neighbors, _ := BuildNeighbors(context.Background(), data, 15, nil, 0)
	config := DefaultSpatializerConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Spatialize(context.Background(), neighbors, config, rand.New(rand.NewSource(int64(i))))
	}
}
