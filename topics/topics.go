// Package topics names clusters after the words their member texts use most.
package topics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrLengthMismatch is returned when assignments and texts differ in length.
	ErrLengthMismatch = errors.New("assignments and texts differ in length")
	// ErrInvalidSlot is returned when an assignment is outside [0, clusterCount).
	ErrInvalidSlot = errors.New("cluster slot out of range")
)

// Config controls keyword extraction and label formatting.
type Config struct {
	// Stopwords replaces the built-in stopword set when non-nil.
	Stopwords []string
	// ExtraStopwords are added on top of the active set.
	ExtraStopwords []string

	MinTokenLength int    // Shorter tokens are dropped (default: 3)
	TopTerms       int    // Keywords kept per cluster (default: 3)
	LabelTerms     int    // Keywords joined into the label (default: 2)
	SingleSuffix   string // Appended when only one keyword survives; empty omits it (DefaultConfig: "Topics")
	FallbackPrefix string // Label prefix for clusters without keywords (default: "Cluster")
}

// DefaultConfig returns the default label settings.
func DefaultConfig() Config {
	return Config{
		MinTokenLength: 3,
		TopTerms:       3,
		LabelTerms:     2,
		SingleSuffix:   "Topics",
		FallbackPrefix: "Cluster",
	}
}

// Topic is the label of one cluster slot.
type Topic struct {
	Cluster  int
	Label    string
	Keywords []string
	Size     int
}

// Synthesize labels every slot in [0, clusterCount). Member texts are
// lower-cased, stripped of everything but ASCII letters, digits and
// whitespace, and split into tokens; short tokens and stopwords are dropped.
// The most frequent remaining tokens become the slot's keywords, ties going
// to the token seen first.
//
// Two or more keywords produce "First & Second"; one produces "Word Topics";
// none produce "Cluster N" with N counted from 1. Empty slots get the
// fallback. The result depends only on its inputs, so re-running it on an
// unchanged assignment yields identical labels.
func Synthesize(assignments []int, texts []string, clusterCount int, config Config) ([]Topic, error) {
	if len(assignments) != len(texts) {
		return nil, fmt.Errorf("%w: %d assignments, %d texts", ErrLengthMismatch, len(assignments), len(texts))
	}
	config = config.withDefaults()
	stopwords := config.stopwordSet()

	groups := make([][]string, clusterCount)
	for i, slot := range assignments {
		if slot < 0 || slot >= clusterCount {
			return nil, fmt.Errorf("%w: sample %d assigned to %d of %d", ErrInvalidSlot, i, slot, clusterCount)
		}
		groups[slot] = append(groups[slot], texts[i])
	}

	topics := make([]Topic, clusterCount)
	for slot, group := range groups {
		keywords := topKeywords(group, stopwords, config)
		topics[slot] = Topic{
			Cluster:  slot,
			Label:    formatLabel(slot, keywords, config),
			Keywords: keywords,
			Size:     len(group),
		}
	}
	return topics, nil
}

// Tokenize applies the normalization used for keyword counting, without
// stopword or length filtering.
func Tokenize(text string) []string {
	var cleaned strings.Builder
	cleaned.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cleaned.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			cleaned.WriteRune(' ')
		}
	}
	return strings.Fields(cleaned.String())
}

type termCount struct {
	term  string
	count int
}

func topKeywords(texts []string, stopwords map[string]struct{}, config Config) []string {
	counts := make(map[string]*termCount)
	var ordered []*termCount

	for _, text := range texts {
		for _, token := range Tokenize(text) {
			if len(token) < config.MinTokenLength {
				continue
			}
			if _, stop := stopwords[token]; stop {
				continue
			}
			entry, seen := counts[token]
			if !seen {
				entry = &termCount{term: token}
				counts[token] = entry
				ordered = append(ordered, entry)
			}
			entry.count++
		}
	}

	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].count > ordered[b].count
	})

	limit := min(config.TopTerms, len(ordered))
	keywords := make([]string, limit)
	for i := 0; i < limit; i++ {
		keywords[i] = ordered[i].term
	}
	return keywords
}

func formatLabel(slot int, keywords []string, config Config) string {
	switch {
	case len(keywords) >= 2:
		count := min(config.LabelTerms, len(keywords))
		if count < 1 {
			count = 1
		}
		words := make([]string, count)
		for i := range words {
			words[i] = titleCase(keywords[i])
		}
		return strings.Join(words, " & ")
	case len(keywords) == 1:
		if config.SingleSuffix == "" {
			return titleCase(keywords[0])
		}
		return titleCase(keywords[0]) + " " + config.SingleSuffix
	default:
		return fmt.Sprintf("%s %d", config.FallbackPrefix, slot+1)
	}
}

// titleCase upper-cases the first letter. Tokens are already ASCII.
func titleCase(token string) string {
	if token == "" {
		return token
	}
	return strings.ToUpper(token[:1]) + token[1:]
}

func (config Config) withDefaults() Config {
	defaults := DefaultConfig()
	if config.MinTokenLength <= 0 {
		config.MinTokenLength = defaults.MinTokenLength
	}
	if config.TopTerms <= 0 {
		config.TopTerms = defaults.TopTerms
	}
	if config.LabelTerms <= 0 {
		config.LabelTerms = defaults.LabelTerms
	}
	if config.FallbackPrefix == "" {
		config.FallbackPrefix = defaults.FallbackPrefix
	}
	return config
}

func (config Config) stopwordSet() map[string]struct{} {
	base := config.Stopwords
	if base == nil {
		base = DefaultStopwords()
	}
	set := make(map[string]struct{}, len(base)+len(config.ExtraStopwords))
	for _, word := range base {
		set[strings.ToLower(word)] = struct{}{}
	}
	for _, word := range config.ExtraStopwords {
		set[strings.ToLower(word)] = struct{}{}
	}
	return set
}
