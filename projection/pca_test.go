package projection

import (
	"math"
	"testing"
)

func TestProjectPCA_EmptyInput(t *testing.T) {
	points, err := ProjectPCA(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}

func TestProjectPCA_SingleVector(t *testing.T) {
	points, err := ProjectPCA([][]float64{{3, 4, 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0] != (Point2D{X: 3, Y: 4}) {
		t.Errorf("expected fallback to leading coordinates, got %v", points)
	}
}

func TestProjectPCA_SeparatesGroups(t *testing.T) {
	vectors := [][]float64{
		{0.0, 0.0, 0.0},
		{0.1, 0.1, 0.1},
		{0.2, 0.2, 0.2},
		{10.0, 10.0, 10.0},
		{10.1, 10.1, 10.1},
		{10.2, 10.2, 10.2},
	}

	points, err := ProjectPCA(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}

	within := math.Abs(points[0].X - points[2].X)
	across := math.Abs(points[0].X - points[3].X)
	if across <= within {
		t.Errorf("first component should separate the groups: within %f, across %f", within, across)
	}
}

func TestProjectPCA_CenteredOutput(t *testing.T) {
	vectors := [][]float64{{1, 2}, {3, 1}, {5, 7}, {2, 2}}

	points, err := ProjectPCA(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	if math.Abs(sumX) > 1e-9 || math.Abs(sumY) > 1e-9 {
		t.Errorf("projection of centered data should have zero mean, got (%f, %f)", sumX, sumY)
	}
}
