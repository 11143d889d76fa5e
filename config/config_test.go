package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alDuncanson/thoughtmap/pipeline"
	"github.com/alDuncanson/thoughtmap/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thoughtmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	layout := projection.DefaultSpatializerConfig()
	assert.Equal(t, layout.Iterations, cfg.Layout.Iterations)
	assert.Equal(t, layout.MaxStep, cfg.Layout.MaxStep)
	assert.Equal(t, 500, cfg.Output.TextLimit)
	assert.Equal(t, uint32(256), cfg.Qdrant.PageSize)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("THOUGHTMAP_SEED", "")
	t.Setenv("THOUGHTMAP_QDRANT_ADDRESS", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	t.Setenv("THOUGHTMAP_SEED", "")
	t.Setenv("THOUGHTMAP_QDRANT_ADDRESS", "")

	path := writeConfig(t, `
seed: 7
neighbors:
  k: 10
  metric: cosine
layout:
  method: pca
clusters:
  count: 12
labels:
  extra_stopwords: [please, thanks]
qdrant:
  collection: chats
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 10, cfg.Neighbors.K)
	assert.Equal(t, "cosine", cfg.Neighbors.Metric)
	assert.Equal(t, pipeline.MethodPCA, cfg.Layout.Method)
	assert.Equal(t, 12, cfg.Clusters.Count)
	assert.Equal(t, []string{"please", "thanks"}, cfg.Labels.ExtraStopwords)
	assert.Equal(t, "chats", cfg.Qdrant.Collection)

	// Untouched fields keep their defaults.
	assert.Equal(t, 200, cfg.Layout.Iterations)
	assert.Equal(t, 50, cfg.Clusters.MaxIterations)
	assert.Equal(t, "localhost:6334", cfg.Qdrant.Address)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("THOUGHTMAP_SEED", "99")
	t.Setenv("THOUGHTMAP_QDRANT_ADDRESS", "qdrant:6334")

	cfg, err := Load(writeConfig(t, "seed: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "qdrant:6334", cfg.Qdrant.Address)
}

func TestLoad_BadSeed(t *testing.T) {
	t.Setenv("THOUGHTMAP_SEED", "forty-two")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Setenv("THOUGHTMAP_SEED", "")

	_, err := Load(writeConfig(t, "neighbors: [1, 2\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"k", func(c *Config) { c.Neighbors.K = 0 }},
		{"metric", func(c *Config) { c.Neighbors.Metric = "manhattan" }},
		{"method", func(c *Config) { c.Layout.Method = "umap" }},
		{"iterations", func(c *Config) { c.Layout.Iterations = 0 }},
		{"max step", func(c *Config) { c.Layout.MaxStep = -1 }},
		{"attraction gain", func(c *Config) { c.Layout.AttractionGain = -0.1 }},
		{"cluster count", func(c *Config) { c.Clusters.Count = -2 }},
		{"max iterations", func(c *Config) { c.Clusters.MaxIterations = 0 }},
		{"label terms", func(c *Config) { c.Labels.LabelTerms = 5 }},
		{"min samples", func(c *Config) { c.Input.MinSamples = 0 }},
		{"text limit", func(c *Config) { c.Output.TextLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestPipelineConfig_ZeroGainReachesLayout(t *testing.T) {
	cfg := Default()
	cfg.Layout.RepulsionGain = 0
	require.NoError(t, cfg.Validate())

	assert.Zero(t, cfg.PipelineConfig(nil).Layout.RepulsionGain)
	assert.Zero(t, cfg.Layout.MaxStep)
}

func TestPipelineConfig(t *testing.T) {
	cfg := Default()
	cfg.Seed = 3
	cfg.Clusters.Count = 8
	cfg.Labels.ExtraStopwords = []string{"please"}

	pc := cfg.PipelineConfig(nil)
	assert.Equal(t, int64(3), pc.Seed)
	assert.Equal(t, 15, pc.Neighbors)
	assert.Equal(t, 8, pc.Clusters)
	assert.Equal(t, projection.DefaultSpatializerConfig(), pc.Layout)
	assert.Equal(t, []string{"please"}, pc.Labels.ExtraStopwords)
	assert.Equal(t, "Topics", pc.Labels.SingleSuffix)

	assert.Equal(t, 10, cfg.ImportOptions().MinSamples)
	assert.Equal(t, 500, cfg.ReportOptions().TextLimit)
}
