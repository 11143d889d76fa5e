package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alDuncanson/thoughtmap/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("THOUGHTMAP_SEED", "")
	t.Setenv("THOUGHTMAP_QDRANT_ADDRESS", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func readDocument(t *testing.T, path string) report.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestVersionCommand(t *testing.T) {
	appVersion = "1.2.3"
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestDemoCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo", "map.json")

	out, err := execute(t, "demo", "--no-progress", "--per-category", "6", "--iterations", "50", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	doc := readDocument(t, path)
	assert.Equal(t, 48, doc.Metadata.TotalMessages)
	assert.LessOrEqual(t, doc.Metadata.NumClusters, 8)
	assert.Len(t, doc.Clusters, doc.Metadata.NumClusters)
	assert.Equal(t, map[string]int{"synthetic": 48}, doc.Metadata.Sources)
	assert.Len(t, doc.Points, 48)
}

func TestRunCommand_File(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "samples.jsonl")
	output := filepath.Join(dir, "map.json")

	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines,
			fmt.Sprintf(`{"text":"python error number %d in the parser","vector":[0,%d.01,0],"source":"a","timestamp":%d}`, i, i%2, i),
			fmt.Sprintf(`{"text":"pasta recipe number %d with sauce","vector":[50,50,%d.01],"source":"b","timestamp":%d}`, i, i%2, 10+i),
		)
	}
	require.NoError(t, os.WriteFile(input, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	_, err := execute(t, "run", "--no-progress", "--seed", "3", "--clusters", "2", "--neighbors", "3",
		"--input", input, "--output", output)
	require.NoError(t, err)

	doc := readDocument(t, output)
	require.Len(t, doc.Points, 12)
	require.Len(t, doc.Clusters, 2)

	clusterOf := map[string]int{}
	for _, point := range doc.Points {
		if previous, ok := clusterOf[point.Source]; ok {
			assert.Equal(t, previous, point.Cluster, "source %s split across clusters", point.Source)
		}
		clusterOf[point.Source] = point.Cluster
	}
	assert.NotEqual(t, clusterOf["a"], clusterOf["b"])

	labels := []string{doc.Clusters[0].Label, doc.Clusters[1].Label}
	assert.Contains(t, labels, "Python & Error")
	assert.Contains(t, labels, "Pasta & Recipe")
}

func TestRunCommand_InvalidFlags(t *testing.T) {
	_, err := execute(t, "run", "--no-progress", "--input", "missing.jsonl", "--method", "umap")
	assert.Error(t, err)
}
