package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alDuncanson/thoughtmap/dataimport"
	"github.com/alDuncanson/thoughtmap/pipeline"
	"github.com/alDuncanson/thoughtmap/projection"
	"github.com/alDuncanson/thoughtmap/topics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() ([]dataimport.Sample, *pipeline.Result) {
	samples := []dataimport.Sample{
		{ID: "a", Text: "first message about goroutines", Source: "claude", Conversation: "c1", Timestamp: 1},
		{ID: "b", Text: "second message about channels", Source: "claude", Conversation: "c1", Timestamp: 2},
		{ID: "c", Text: "pasta with tomato sauce", Source: "chatgpt", Conversation: "c2", Timestamp: 3},
	}
	result := &pipeline.Result{
		Points:      []projection.Point2D{{X: 0, Y: 0}, {X: 2, Y: 4}, {X: 10, Y: 10}},
		Assignments: []int{1, 1, 0},
		Clusters:    3,
		Topics: []topics.Topic{
			{Cluster: 0, Label: "Pasta & Tomato", Keywords: []string{"pasta", "tomato", "sauce"}, Size: 1},
			{Cluster: 1, Label: "Message Topics", Keywords: []string{"message"}, Size: 2},
			{Cluster: 2, Label: "Cluster 3", Size: 0},
		},
	}
	return samples, result
}

func TestBuild(t *testing.T) {
	samples, result := fixture()

	doc, err := Build(samples, result, Options{})
	require.NoError(t, err)

	_, err = uuid.Parse(doc.Metadata.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 3, doc.Metadata.TotalMessages)
	assert.Equal(t, 2, doc.Metadata.NumClusters)
	assert.Equal(t, map[string]int{"claude": 2, "chatgpt": 1}, doc.Metadata.Sources)

	require.Len(t, doc.Points, 3)
	assert.Equal(t, Point{
		ID:           1,
		Ref:          "b",
		X:            2,
		Y:            4,
		Cluster:      1,
		ClusterLabel: "Message Topics",
		Text:         "second message about channels",
		FullText:     "second message about channels",
		Source:       "claude",
		Conversation: "c1",
		Timestamp:    2,
	}, doc.Points[1])

	require.Len(t, doc.Clusters, 2)
	assert.Equal(t, 1.0, doc.Clusters[1].CenterX)
	assert.Equal(t, 2.0, doc.Clusters[1].CenterY)
	assert.Equal(t, 10.0, doc.Clusters[0].CenterX)
}

func TestBuild_SkipsEmptyClusters(t *testing.T) {
	samples, result := fixture()

	doc, err := Build(samples, result, Options{})
	require.NoError(t, err)

	for _, cluster := range doc.Clusters {
		assert.NotEqual(t, "Cluster 3", cluster.Label)
		assert.Positive(t, cluster.Count)
	}
	assert.Equal(t, len(doc.Clusters), doc.Metadata.NumClusters)
	assert.Equal(t, 3, result.Clusters)
}

func TestBuild_TruncatesText(t *testing.T) {
	samples, result := fixture()
	samples[0].Text = strings.Repeat("é", 20)

	doc, err := Build(samples, result, Options{TextLimit: 5})
	require.NoError(t, err)
	assert.Equal(t, "ééééé", doc.Points[0].Text)
	assert.Equal(t, samples[0].Text, doc.Points[0].FullText)
}

func TestBuild_LengthMismatch(t *testing.T) {
	samples, result := fixture()

	_, err := Build(samples[:2], result, Options{})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDistribution(t *testing.T) {
	samples, result := fixture()
	doc, err := Build(samples, result, Options{})
	require.NoError(t, err)

	shares := doc.Distribution()
	require.Len(t, shares, 2)
	assert.Equal(t, "Message Topics", shares[0].Label)
	assert.InDelta(t, 66.67, shares[0].Percent, 0.01)
	assert.Equal(t, "Pasta & Tomato", shares[1].Label)
	assert.InDelta(t, 33.33, shares[1].Percent, 0.01)
}

func TestWrite(t *testing.T) {
	samples, result := fixture()
	doc, err := Build(samples, result, Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out", "map.json")
	require.NoError(t, Write(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc.Metadata.RunID, decoded.Metadata.RunID)
	assert.Len(t, decoded.Points, 3)
	assert.Contains(t, string(data), `"cluster_label": "Pasta & Tomato"`)
}
