package commands

import (
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/alDuncanson/thoughtmap/synthetic"

	"github.com/spf13/cobra"
)

var (
	flagDimensions  int
	flagNoise       float64
	flagPerCategory int
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Map a synthetic dataset with known topics",
	Long: `Map a synthetic dataset with known topics.

Samples are drawn around one random direction per word category (animals,
colors, food, ...), so a good map shows one cluster per category. No
embedding service or database is needed.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	defaults := synthetic.DefaultConfig()
	demoCmd.Flags().IntVar(&flagDimensions, "dimensions", defaults.Dimensions, "vector dimensions")
	demoCmd.Flags().Float64Var(&flagNoise, "noise", defaults.Noise, "noise added around each category")
	demoCmd.Flags().IntVar(&flagPerCategory, "per-category", 0, "samples per category, 0 uses every word")
	addMapFlags(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cfg.Clusters.Count == 0 {
		cfg.Clusters.Count = len(synthetic.Categories())
	}
	applyMapFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	samples := synthetic.Generate(synthetic.Config{
		Dimensions:  flagDimensions,
		Noise:       flagNoise,
		PerCategory: flagPerCategory,
	}, rand.New(rand.NewSource(cfg.Seed)))

	return mapSamples(ctx, cmd, cfg, samples)
}
