// Package commands implements the thoughtmap command line.
package commands

import (
	"log/slog"
	"os"

	"github.com/alDuncanson/thoughtmap/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	seed    int64

	// Loaded by the root command before any subcommand runs
	appConfig *config.Config

	appVersion = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thoughtmap",
	Short: "Map text embeddings to a 2D layout with labelled topic clusters",
	Long: `thoughtmap turns a batch of text embeddings into a 2D map and a set of
labelled topic clusters.

Every sample is placed by a force-directed layout over its nearest
neighbors, grouped with K-means, and each group is named after the words
its texts use most. The result is written as a JSON document.

Examples:
  # Map embeddings stored in a file
  thoughtmap run --input embeddings.jsonl --output map.json

  # Map a Qdrant collection
  thoughtmap run --qdrant conversations

  # Try it on synthetic data
  thoughtmap demo`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Command returns the root cobra command for mounting into a parent CLI.
func Command() *cobra.Command {
	return rootCmd
}

// Execute runs the command line with the given build version.
func Execute(version string) error {
	appVersion = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	appConfig = cfg
	return nil
}
