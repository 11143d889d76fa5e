package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alDuncanson/thoughtmap/config"
	"github.com/alDuncanson/thoughtmap/dataimport"
	"github.com/alDuncanson/thoughtmap/pipeline"
	"github.com/alDuncanson/thoughtmap/qdrant"
	"github.com/alDuncanson/thoughtmap/report"

	"github.com/spf13/cobra"
)

var (
	flagInput      string
	flagCollection string
	flagOutput     string
	flagClusters   int
	flagNeighbors  int
	flagIterations int
	flagMethod     string
	flagMetric     string
	flagNoProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Map embeddings from a file or a Qdrant collection",
	Long: `Map embeddings from a file or a Qdrant collection.

Input files may be JSON (an array of samples), JSON Lines or CSV. Every
sample needs a text and a vector; source, conversation and timestamp are
optional.

Example:
  thoughtmap run --input samples.jsonl --clusters 12 --output out/map.json`,
	Args: cobra.NoArgs,
	RunE: runMap,
}

func init() {
	runCmd.Flags().StringVarP(&flagInput, "input", "i", "", "samples file (.json, .jsonl, .csv)")
	runCmd.Flags().StringVar(&flagCollection, "qdrant", "", "Qdrant collection to read samples from")
	runCmd.MarkFlagsMutuallyExclusive("input", "qdrant")
	addMapFlags(runCmd)
}

// addMapFlags registers the flags shared by every command that produces a map.
func addMapFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output document path (overrides config)")
	cmd.Flags().IntVar(&flagClusters, "clusters", 0, "number of clusters, 0 picks one from the sample count")
	cmd.Flags().IntVar(&flagNeighbors, "neighbors", 0, "neighbors per sample in the layout graph")
	cmd.Flags().IntVar(&flagIterations, "iterations", 0, "layout passes")
	cmd.Flags().StringVar(&flagMethod, "method", "", "layout method: force or pca")
	cmd.Flags().StringVar(&flagMetric, "metric", "", "distance metric: euclidean or cosine")
	cmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable the progress display")
}

// applyMapFlags copies explicitly set flags over the loaded configuration.
func applyMapFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Path = flagOutput
	}
	if flags.Changed("clusters") {
		cfg.Clusters.Count = flagClusters
	}
	if flags.Changed("neighbors") {
		cfg.Neighbors.K = flagNeighbors
	}
	if flags.Changed("iterations") {
		cfg.Layout.Iterations = flagIterations
	}
	if flags.Changed("method") {
		cfg.Layout.Method = flagMethod
	}
	if flags.Changed("metric") {
		cfg.Neighbors.Metric = flagMetric
	}
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	applyMapFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	samples, err := loadSamples(ctx, cfg)
	if err != nil {
		return err
	}
	return mapSamples(ctx, cmd, cfg, samples)
}

func loadSamples(ctx context.Context, cfg *config.Config) ([]dataimport.Sample, error) {
	if flagInput != "" {
		samples, err := dataimport.Load(flagInput, cfg.ImportOptions())
		if err != nil {
			return nil, fmt.Errorf("load samples: %w", err)
		}
		slog.Info("loaded samples", "path", flagInput, "count", len(samples))
		return samples, nil
	}

	collection := flagCollection
	if collection == "" {
		collection = cfg.Qdrant.Collection
	}
	if collection == "" {
		return nil, errors.New("no input: pass --input or --qdrant")
	}

	client, err := qdrant.NewClient(ctx, cfg.Qdrant.Address, collection, cfg.Qdrant.PageSize)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	stored, err := client.Samples(ctx)
	if err != nil {
		return nil, err
	}
	samples, err := dataimport.Prepare(stored, cfg.ImportOptions())
	if err != nil {
		return nil, fmt.Errorf("prepare samples: %w", err)
	}
	slog.Info("loaded samples", "address", cfg.Qdrant.Address, "collection", collection,
		"stored", len(stored), "count", len(samples))
	return samples, nil
}

// mapSamples runs the pipeline over samples, writes the document and prints
// the cluster summary.
func mapSamples(ctx context.Context, cmd *cobra.Command, cfg *config.Config, samples []dataimport.Sample) error {
	showProgress := !flagNoProgress

	logger := slog.Default()
	if showProgress && !verbose {
		// Keep info lines from tearing through the progress display.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	input := pipeline.Input{
		Vectors: dataimport.Vectors(samples),
		Texts:   dataimport.Texts(samples),
	}
	result, err := runPipeline(ctx, input, cfg.PipelineConfig(logger), showProgress)
	if err != nil {
		return fmt.Errorf("map samples: %w", err)
	}

	doc, err := report.Build(samples, result, cfg.ReportOptions())
	if err != nil {
		return err
	}
	if err := report.Write(cfg.Output.Path, doc); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(doc, cfg.Output.Path, summaryWidth))
	return nil
}
