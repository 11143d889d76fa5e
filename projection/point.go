// Package projection lays out high-dimensional embedding vectors in 2D.
//
// The main path is a force-directed layout driven by a k-nearest-neighbor
// graph: BuildNeighbors computes each sample's closest peers in embedding
// space, and Spatialize moves a random initial layout so that declared
// neighbors end up near each other. It approximates what manifold-learning
// methods such as UMAP do, at a bounded and predictable cost of
// O(iterations · (edges + n·samples)).
//
// ProjectPCA offers a deterministic linear alternative.
package projection

// Point2D is the position of one sample in the 2D layout. Points are
// addressed by the same index as the input vectors.
type Point2D struct {
	X, Y float64
}
