// Package synthetic builds labelled demo samples with known cluster
// structure, so the pipeline can be tried without any stored embeddings.
package synthetic

import (
	"fmt"
	"math/rand"

	"github.com/alDuncanson/thoughtmap/dataimport"

	"gonum.org/v1/gonum/floats"
)

// Source is the source name stamped on every generated sample.
const Source = "synthetic"

// Config controls the shape of the generated dataset.
type Config struct {
	Dimensions  int     // Vector length (default: 32)
	Noise       float64 // Standard deviation added to each component (default: 0.05)
	PerCategory int     // Samples per category, capped at its word count (default: all words)
}

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{Dimensions: 32, Noise: 0.05}
}

var templates = []string{
	"what do you know about %s when it comes to %s",
	"tell me something interesting about %s and %s",
	"i keep thinking about %s, it is my favorite of the %s",
	"can you compare %s with other %s for me",
}

// Generate places one random unit centroid per category and emits a noisy
// sample around it for every word. Texts mention both the word and the
// category, so labels of a good clustering name the category.
func Generate(config Config, rng *rand.Rand) []dataimport.Sample {
	defaults := DefaultConfig()
	if config.Dimensions <= 0 {
		config.Dimensions = defaults.Dimensions
	}
	if config.Noise < 0 {
		config.Noise = defaults.Noise
	}

	var samples []dataimport.Sample
	for c, category := range Categories() {
		centroid := unitVector(config.Dimensions, rng)

		words := category.Words
		if config.PerCategory > 0 && config.PerCategory < len(words) {
			words = words[:config.PerCategory]
		}

		for w, word := range words {
			vector := make([]float32, config.Dimensions)
			for d := range vector {
				vector[d] = float32(centroid[d] + rng.NormFloat64()*config.Noise)
			}

			samples = append(samples, dataimport.Sample{
				ID:           fmt.Sprintf("%s-%d", category.Name, w),
				Text:         fmt.Sprintf(templates[w%len(templates)], word, category.Name),
				Vector:       vector,
				Source:       Source,
				Conversation: category.Name,
				Timestamp:    float64(c*len(category.Words) + w),
			})
		}
	}
	return samples
}

// unitVector draws a direction uniformly on the unit sphere.
func unitVector(dimensions int, rng *rand.Rand) []float64 {
	vector := make([]float64, dimensions)
	for {
		for i := range vector {
			vector[i] = rng.NormFloat64()
		}
		if norm := floats.Norm(vector, 2); norm > 0 {
			floats.Scale(1/norm, vector)
			return vector
		}
	}
}
