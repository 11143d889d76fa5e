// Package main provides the entry point for thoughtmap, a command line tool
// that turns text embeddings into a 2D map of labelled topic clusters.
package main

import (
	"fmt"
	"os"

	"github.com/alDuncanson/thoughtmap/commands"
)

// version is set at build time via ldflags, defaults to "dev" for local builds
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
