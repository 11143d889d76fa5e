// Package report assembles a pipeline run into the JSON document consumed by
// map viewers and writes it to disk.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/alDuncanson/thoughtmap/dataimport"
	"github.com/alDuncanson/thoughtmap/pipeline"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// DefaultTextLimit is the number of runes kept in a point's short text.
const DefaultTextLimit = 500

// ErrLengthMismatch is returned when the samples and the result disagree on N.
var ErrLengthMismatch = errors.New("samples and result differ in length")

// Options controls document assembly.
type Options struct {
	TextLimit int // Runes kept in Point.Text (default: 500)
}

// Document is the complete output of one run.
type Document struct {
	Metadata Metadata  `json:"metadata"`
	Clusters []Cluster `json:"clusters"`
	Points   []Point   `json:"points"`
}

// Metadata describes the run that produced a document.
type Metadata struct {
	RunID         string         `json:"run_id"`
	GeneratedAt   time.Time      `json:"generated_at"`
	TotalMessages int            `json:"total_messages"`
	NumClusters   int            `json:"num_clusters"` // Non-empty clusters only
	Sources       map[string]int `json:"sources"`
}

// Cluster summarizes one cluster slot.
type Cluster struct {
	ID       int      `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
	CenterX  float64  `json:"center_x"`
	CenterY  float64  `json:"center_y"`
}

// Point is one sample placed on the map.
type Point struct {
	ID           int     `json:"id"`
	Ref          string  `json:"ref,omitempty"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Cluster      int     `json:"cluster"`
	ClusterLabel string  `json:"cluster_label"`
	Text         string  `json:"text"`
	FullText     string  `json:"full_text"`
	Source       string  `json:"source"`
	Conversation string  `json:"conversation"`
	Timestamp    float64 `json:"timestamp"`
}

// Build combines the samples a run was fed with its result. Samples and
// result must be indexed alike. Cluster slots that ended up empty are left
// out of Clusters and NumClusters.
func Build(samples []dataimport.Sample, result *pipeline.Result, opts Options) (*Document, error) {
	n := len(samples)
	if len(result.Points) != n || len(result.Assignments) != n {
		return nil, fmt.Errorf("%w: %d samples, %d points, %d assignments",
			ErrLengthMismatch, n, len(result.Points), len(result.Assignments))
	}
	if opts.TextLimit <= 0 {
		opts.TextLimit = DefaultTextLimit
	}

	doc := &Document{
		Metadata: Metadata{
			RunID:         uuid.NewString(),
			GeneratedAt:   time.Now().UTC(),
			TotalMessages: n,
			Sources:       map[string]int{},
		},
		Clusters: make([]Cluster, 0, len(result.Topics)),
		Points:   make([]Point, n),
	}

	labels := make(map[int]string, len(result.Topics))
	for _, topic := range result.Topics {
		labels[topic.Cluster] = topic.Label
		if topic.Size == 0 {
			continue
		}
		doc.Clusters = append(doc.Clusters, Cluster{
			ID:       topic.Cluster,
			Label:    topic.Label,
			Keywords: topic.Keywords,
			Count:    topic.Size,
		})
	}
	doc.Metadata.NumClusters = len(doc.Clusters)

	xs := make(map[int][]float64)
	ys := make(map[int][]float64)
	for i, sample := range samples {
		point := result.Points[i]
		slot := result.Assignments[i]
		doc.Points[i] = Point{
			ID:           i,
			Ref:          sample.ID,
			X:            point.X,
			Y:            point.Y,
			Cluster:      slot,
			ClusterLabel: labels[slot],
			Text:         truncateRunes(sample.Text, opts.TextLimit),
			FullText:     sample.Text,
			Source:       sample.Source,
			Conversation: sample.Conversation,
			Timestamp:    sample.Timestamp,
		}
		if sample.Source != "" {
			doc.Metadata.Sources[sample.Source]++
		}
		xs[slot] = append(xs[slot], point.X)
		ys[slot] = append(ys[slot], point.Y)
	}

	for i := range doc.Clusters {
		id := doc.Clusters[i].ID
		if len(xs[id]) == 0 {
			continue
		}
		doc.Clusters[i].CenterX = stat.Mean(xs[id], nil)
		doc.Clusters[i].CenterY = stat.Mean(ys[id], nil)
	}

	return doc, nil
}

// Share is one line of a cluster size distribution.
type Share struct {
	ID      int
	Label   string
	Count   int
	Percent float64
}

// Distribution lists clusters by descending member count, ties by ID.
func (doc *Document) Distribution() []Share {
	shares := make([]Share, len(doc.Clusters))
	for i, cluster := range doc.Clusters {
		shares[i] = Share{ID: cluster.ID, Label: cluster.Label, Count: cluster.Count}
		if total := doc.Metadata.TotalMessages; total > 0 {
			shares[i].Percent = 100 * float64(cluster.Count) / float64(total)
		}
	}
	sort.SliceStable(shares, func(a, b int) bool {
		if shares[a].Count != shares[b].Count {
			return shares[a].Count > shares[b].Count
		}
		return shares[a].ID < shares[b].ID
	})
	return shares
}

// Write stores doc as indented JSON at path, creating parent directories.
func Write(path string, doc *Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
