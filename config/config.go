// Package config loads thoughtmap settings from a YAML file, environment
// variables and defaults.
//
// Values are resolved in this order, later ones winning:
//   - built-in defaults
//   - the YAML file, when one is given and exists
//   - environment variables
//
// Environment Variables:
//
//	THOUGHTMAP_QDRANT_ADDRESS - Qdrant gRPC address (default: localhost:6334)
//	THOUGHTMAP_SEED           - Random seed shared by layout and clustering
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/alDuncanson/thoughtmap/dataimport"
	"github.com/alDuncanson/thoughtmap/distance"
	"github.com/alDuncanson/thoughtmap/pipeline"
	"github.com/alDuncanson/thoughtmap/projection"
	"github.com/alDuncanson/thoughtmap/qdrant"
	"github.com/alDuncanson/thoughtmap/report"
	"github.com/alDuncanson/thoughtmap/topics"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full set of run settings.
type Config struct {
	Seed      int64           `yaml:"seed"`
	Neighbors NeighborsConfig `yaml:"neighbors"`
	Layout    LayoutConfig    `yaml:"layout"`
	Clusters  ClustersConfig  `yaml:"clusters"`
	Labels    LabelsConfig    `yaml:"labels"`
	Input     InputConfig     `yaml:"input"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Output    OutputConfig    `yaml:"output"`
}

// NeighborsConfig controls the neighbor index.
type NeighborsConfig struct {
	K       int    `yaml:"k"`
	Metric  string `yaml:"metric"`  // euclidean or cosine
	Workers int    `yaml:"workers"` // 0 uses every CPU
}

// LayoutConfig controls the 2D layout.
type LayoutConfig struct {
	Method           string  `yaml:"method"` // force or pca
	Iterations       int     `yaml:"iterations"`
	InitRange        float64 `yaml:"init_range"`
	AttractionGain   float64 `yaml:"attraction_gain"`
	RepulsionGain    float64 `yaml:"repulsion_gain"`
	RepulsionSamples int     `yaml:"repulsion_samples"`
	RepulsionCutoff  float64 `yaml:"repulsion_cutoff"`
	MinDistance      float64 `yaml:"min_distance"`
	MaxStep          float64 `yaml:"max_step"`
}

// ClustersConfig controls K-means.
type ClustersConfig struct {
	Count         int `yaml:"count"` // 0 derives the count from the sample size
	MaxIterations int `yaml:"max_iterations"`
}

// LabelsConfig controls label synthesis.
type LabelsConfig struct {
	Stopwords      []string `yaml:"stopwords"` // replaces the built-in list when set
	ExtraStopwords []string `yaml:"extra_stopwords"`
	MinTokenLength int      `yaml:"min_token_length"`
	TopTerms       int      `yaml:"top_terms"`
	LabelTerms     int      `yaml:"label_terms"`
	SingleSuffix   string   `yaml:"single_suffix"`
	FallbackPrefix string   `yaml:"fallback_prefix"`
}

// InputConfig controls sample filtering.
type InputConfig struct {
	MinTextLength   int  `yaml:"min_text_length"`
	MinSamples      int  `yaml:"min_samples"`
	SortByTimestamp bool `yaml:"sort_by_timestamp"`
}

// QdrantConfig locates a collection to read samples from.
type QdrantConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
	PageSize   uint32 `yaml:"page_size"`
}

// OutputConfig controls the written document.
type OutputConfig struct {
	Path      string `yaml:"path"`
	TextLimit int    `yaml:"text_limit"`
}

// Default returns the built-in settings.
func Default() *Config {
	layout := projection.DefaultSpatializerConfig()
	labels := topics.DefaultConfig()
	input := dataimport.DefaultOptions()

	return &Config{
		Seed: 42,
		Neighbors: NeighborsConfig{
			K:      15,
			Metric: "euclidean",
		},
		Layout: LayoutConfig{
			Method:           pipeline.MethodForce,
			Iterations:       layout.Iterations,
			InitRange:        layout.InitRange,
			AttractionGain:   layout.AttractionGain,
			RepulsionGain:    layout.RepulsionGain,
			RepulsionSamples: layout.RepulsionSamples,
			RepulsionCutoff:  layout.RepulsionCutoff,
			MinDistance:      layout.MinDistance,
			MaxStep:          layout.MaxStep,
		},
		Clusters: ClustersConfig{
			MaxIterations: 50,
		},
		Labels: LabelsConfig{
			MinTokenLength: labels.MinTokenLength,
			TopTerms:       labels.TopTerms,
			LabelTerms:     labels.LabelTerms,
			SingleSuffix:   labels.SingleSuffix,
			FallbackPrefix: labels.FallbackPrefix,
		},
		Input: InputConfig{
			MinTextLength:   input.MinTextLength,
			MinSamples:      input.MinSamples,
			SortByTimestamp: input.SortByTimestamp,
		},
		Qdrant: QdrantConfig{
			Address:  "localhost:6334",
			PageSize: qdrant.DefaultPageSize,
		},
		Output: OutputConfig{
			Path:      "thoughtmap.json",
			TextLimit: report.DefaultTextLimit,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path, or one that does not exist, yields defaults plus
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if address := os.Getenv("THOUGHTMAP_QDRANT_ADDRESS"); address != "" {
		cfg.Qdrant.Address = address
	}
	if raw := os.Getenv("THOUGHTMAP_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parse THOUGHTMAP_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	return nil
}

// Validate reports the first setting that cannot drive a run.
func (cfg *Config) Validate() error {
	if cfg.Neighbors.K < 1 {
		return fmt.Errorf("%w: neighbors.k must be at least 1, got %d", ErrInvalid, cfg.Neighbors.K)
	}
	if _, err := distance.ByName(cfg.Neighbors.Metric); err != nil {
		return fmt.Errorf("%w: neighbors.metric: %v", ErrInvalid, err)
	}
	if cfg.Layout.Method != pipeline.MethodForce && cfg.Layout.Method != pipeline.MethodPCA {
		return fmt.Errorf("%w: layout.method must be %q or %q, got %q",
			ErrInvalid, pipeline.MethodForce, pipeline.MethodPCA, cfg.Layout.Method)
	}
	if cfg.Layout.Iterations < 1 {
		return fmt.Errorf("%w: layout.iterations must be at least 1", ErrInvalid)
	}
	if cfg.Layout.AttractionGain < 0 || cfg.Layout.RepulsionGain < 0 {
		return fmt.Errorf("%w: layout gains must not be negative", ErrInvalid)
	}
	if cfg.Layout.MaxStep < 0 {
		return fmt.Errorf("%w: layout.max_step must not be negative", ErrInvalid)
	}
	if cfg.Clusters.Count < 0 {
		return fmt.Errorf("%w: clusters.count must not be negative", ErrInvalid)
	}
	if cfg.Clusters.MaxIterations < 1 {
		return fmt.Errorf("%w: clusters.max_iterations must be at least 1", ErrInvalid)
	}
	if cfg.Labels.LabelTerms > cfg.Labels.TopTerms {
		return fmt.Errorf("%w: labels.label_terms (%d) exceeds labels.top_terms (%d)",
			ErrInvalid, cfg.Labels.LabelTerms, cfg.Labels.TopTerms)
	}
	if cfg.Input.MinSamples < 1 {
		return fmt.Errorf("%w: input.min_samples must be at least 1", ErrInvalid)
	}
	if cfg.Output.TextLimit < 1 {
		return fmt.Errorf("%w: output.text_limit must be at least 1", ErrInvalid)
	}
	return nil
}

// PipelineConfig translates the settings into a pipeline configuration.
func (cfg *Config) PipelineConfig(logger *slog.Logger) pipeline.Config {
	return pipeline.Config{
		Seed:      cfg.Seed,
		Neighbors: cfg.Neighbors.K,
		Metric:    cfg.Neighbors.Metric,
		Workers:   cfg.Neighbors.Workers,
		Method:    cfg.Layout.Method,
		Layout: projection.SpatializerConfig{
			Iterations:       cfg.Layout.Iterations,
			InitRange:        cfg.Layout.InitRange,
			AttractionGain:   cfg.Layout.AttractionGain,
			RepulsionGain:    cfg.Layout.RepulsionGain,
			RepulsionSamples: cfg.Layout.RepulsionSamples,
			RepulsionCutoff:  cfg.Layout.RepulsionCutoff,
			MinDistance:      cfg.Layout.MinDistance,
			MaxStep:          cfg.Layout.MaxStep,
		},
		Clusters:      cfg.Clusters.Count,
		MaxIterations: cfg.Clusters.MaxIterations,
		Labels: topics.Config{
			Stopwords:      cfg.Labels.Stopwords,
			ExtraStopwords: cfg.Labels.ExtraStopwords,
			MinTokenLength: cfg.Labels.MinTokenLength,
			TopTerms:       cfg.Labels.TopTerms,
			LabelTerms:     cfg.Labels.LabelTerms,
			SingleSuffix:   cfg.Labels.SingleSuffix,
			FallbackPrefix: cfg.Labels.FallbackPrefix,
		},
		Logger: logger,
	}
}

// ImportOptions returns the sample filtering options.
func (cfg *Config) ImportOptions() dataimport.Options {
	return dataimport.Options{
		MinTextLength:   cfg.Input.MinTextLength,
		MinSamples:      cfg.Input.MinSamples,
		SortByTimestamp: cfg.Input.SortByTimestamp,
	}
}

// ReportOptions returns the document assembly options.
func (cfg *Config) ReportOptions() report.Options {
	return report.Options{TextLimit: cfg.Output.TextLimit}
}
