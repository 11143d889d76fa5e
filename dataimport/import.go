// Package dataimport loads text samples and their precomputed embedding
// vectors from JSON, JSON Lines or CSV files.
package dataimport

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat is returned for file extensions we cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file extension")
	// ErrTooFewSamples is returned when filtering leaves less than Options.MinSamples.
	ErrTooFewSamples = errors.New("too few samples")
)

// Sample is one text with its embedding and optional provenance.
type Sample struct {
	ID           string    `json:"id,omitempty"`
	Text         string    `json:"text"`
	Vector       []float32 `json:"vector"`
	Source       string    `json:"source,omitempty"`
	Conversation string    `json:"conversation,omitempty"`
	Timestamp    float64   `json:"timestamp,omitempty"`
}

// Options controls filtering and ordering after a file is parsed.
type Options struct {
	MinTextLength   int  // Texts whose trimmed length in characters is not above this are dropped (default: 10)
	MinSamples      int  // Fewer surviving samples is an error; 0 disables the check
	SortByTimestamp bool // Stable sort by ascending timestamp
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{
		MinTextLength:   10,
		MinSamples:      10,
		SortByTimestamp: true,
	}
}

// Load reads samples from path, choosing the parser by extension
// (.json, .jsonl/.ndjson, .csv), then applies opts.
func Load(path string, opts Options) ([]Sample, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var samples []Sample
	var err error
	switch ext {
	case ".json":
		samples, err = loadJSON(path)
	case ".jsonl", ".ndjson":
		samples, err = loadJSONLines(path)
	case ".csv":
		samples, err = loadCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	return Prepare(samples, opts)
}

// Prepare validates, filters and orders samples that came from any source.
func Prepare(samples []Sample, opts Options) ([]Sample, error) {
	kept := make([]Sample, 0, len(samples))
	for i, sample := range samples {
		sample.Text = strings.TrimSpace(sample.Text)
		if utf8.RuneCountInString(sample.Text) <= opts.MinTextLength {
			continue
		}
		if len(sample.Vector) == 0 {
			return nil, fmt.Errorf("entry %d missing vector field", i)
		}
		kept = append(kept, sample)
	}

	if opts.SortByTimestamp {
		sort.SliceStable(kept, func(a, b int) bool {
			return kept[a].Timestamp < kept[b].Timestamp
		})
	}

	if opts.MinSamples > 0 && len(kept) < opts.MinSamples {
		return nil, fmt.Errorf("%w: need at least %d, have %d", ErrTooFewSamples, opts.MinSamples, len(kept))
	}
	return kept, nil
}

// Texts returns the text of every sample, in order.
func Texts(samples []Sample) []string {
	texts := make([]string, len(samples))
	for i, sample := range samples {
		texts[i] = sample.Text
	}
	return texts
}

// Vectors returns the embedding of every sample, in order.
func Vectors(samples []Sample) [][]float32 {
	vectors := make([][]float32, len(samples))
	for i, sample := range samples {
		vectors[i] = sample.Vector
	}
	return vectors
}

func loadJSON(path string) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading JSON file: %w", err)
	}

	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parsing JSON: expected array of objects with 'text' and 'vector' fields: %w", err)
	}
	return samples, nil
}

func loadJSONLines(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening JSONL file: %w", err)
	}
	defer file.Close()

	var samples []Sample
	scanner := bufio.NewScanner(file)
	// Embedding lines are long: 768 floats easily exceed the default 64KiB.
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var sample Sample
		if err := json.Unmarshal([]byte(line), &sample); err != nil {
			return nil, fmt.Errorf("parsing JSONL line %d: %w", lineNumber, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading JSONL: %w", err)
	}
	return samples, nil
}

func loadCSV(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(input io.Reader) ([]Sample, error) {
	reader := csv.NewReader(input)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	columns := make(map[string]int)
	for i, header := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"text", "vector"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV missing '%s' column header", required)
		}
	}

	cell := func(row []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(row) {
			return ""
		}
		return row[index]
	}

	samples := make([]Sample, 0, len(records)-1)
	for rowIndex, row := range records[1:] {
		vector, err := ParseVector(cell(row, "vector"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIndex+1, err)
		}

		var timestamp float64
		if raw := strings.TrimSpace(cell(row, "timestamp")); raw != "" {
			timestamp, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing timestamp: %w", rowIndex+1, err)
			}
		}

		samples = append(samples, Sample{
			Text:         cell(row, "text"),
			Vector:       vector,
			Source:       cell(row, "source"),
			Conversation: cell(row, "conversation"),
			Timestamp:    timestamp,
		})
	}
	return samples, nil
}

// ParseVector reads a vector written either as a JSON array or as numbers
// separated by whitespace, commas or semicolons.
func ParseVector(raw string) ([]float32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var vector []float32
		if err := json.Unmarshal([]byte(raw), &vector); err != nil {
			return nil, fmt.Errorf("parsing vector: %w", err)
		}
		return vector, nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ';' || r == ','
	})
	vector := make([]float32, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing vector component %d: %w", i, err)
		}
		vector[i] = float32(value)
	}
	return vector, nil
}
