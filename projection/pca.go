package projection

// Principal Component Analysis
//
// PCA finds the two orthogonal directions along which the embeddings vary the
// most and projects every vector onto them. Unlike Spatialize it involves no
// randomness, so the same input always yields the same picture, but it only
// captures linear structure.
//
// We compute it through a thin SVD of the centered data matrix X = U·Σ·Vᵀ:
// the first two columns of V are the principal components and X·V[:, 0:2]
// gives the 2D coordinates. SVD avoids forming XᵀX explicitly, which is both
// cheaper and numerically safer for 384- or 768-dimensional embeddings.

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrSVDFailed is returned when the singular value decomposition does not converge.
var ErrSVDFailed = errors.New("svd factorization failed")

// ProjectPCA projects vectors onto their first two principal components.
// Vectors must share one dimension. Inputs too small for two components
// (a single vector, or one dimension) fall back to the raw leading coordinates.
func ProjectPCA(vectors [][]float64) ([]Point2D, error) {
	numberOfVectors := len(vectors)
	if numberOfVectors == 0 {
		return []Point2D{}, nil
	}
	embeddingDimension := len(vectors[0])

	if numberOfVectors < 2 || embeddingDimension < 2 {
		return leadingCoordinates(vectors), nil
	}

	centered := centeredMatrix(vectors, numberOfVectors, embeddingDimension)

	var svd mat.SVD
	if !svd.Factorize(centered, mat.SVDThin) {
		return nil, ErrSVDFailed
	}

	var rightSingularVectors mat.Dense
	svd.VTo(&rightSingularVectors)
	_, components := rightSingularVectors.Dims()
	if components < 2 {
		return leadingCoordinates(vectors), nil
	}

	principalComponents := rightSingularVectors.Slice(0, embeddingDimension, 0, 2)

	var projected mat.Dense
	projected.Mul(centered, principalComponents)

	points := make([]Point2D, numberOfVectors)
	for row := range points {
		points[row] = Point2D{X: projected.At(row, 0), Y: projected.At(row, 1)}
	}
	return points, nil
}

// centeredMatrix copies the vectors into a dense matrix and subtracts each
// column's mean, so the first component measures spread rather than offset.
func centeredMatrix(vectors [][]float64, rows, columns int) *mat.Dense {
	data := mat.NewDense(rows, columns, nil)
	for row, vector := range vectors {
		data.SetRow(row, vector)
	}

	column := make([]float64, rows)
	for col := 0; col < columns; col++ {
		mat.Col(column, col, data)
		columnMean := stat.Mean(column, nil)
		for row := 0; row < rows; row++ {
			data.Set(row, col, column[row]-columnMean)
		}
	}
	return data
}

// leadingCoordinates uses the first two components of each vector directly.
func leadingCoordinates(vectors [][]float64) []Point2D {
	points := make([]Point2D, len(vectors))
	for i, vector := range vectors {
		if len(vector) > 0 {
			points[i].X = vector[0]
		}
		if len(vector) > 1 {
			points[i].Y = vector[1]
		}
	}
	return points
}
