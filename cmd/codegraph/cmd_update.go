package main

import (
	"context"
	"fmt"
	"os"

	"github.com/codegraph/codegraph/internal/extractor"
)

// runUpdate dispatches a full or incremental extraction run and prints
// its Statistics, per spec.md §6's "update [--full] / update" operation.
func runUpdate(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}

	x := extractor.New(s, root, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stats, err := x.Run(ctx, hasFlag(args, "--full"))
	if err != nil {
		return err
	}

	printStatistics(stats)
	return nil
}

func printStatistics(stats *extractor.Statistics) {
	fmt.Printf("files processed: %d (failed: %d)\n", stats.FilesProcessed, stats.FilesFailed)
	fmt.Printf("entities extracted: %d\n", stats.EntitiesExtracted)
	fmt.Printf("relationships extracted: %d\n", stats.RelationshipsExtracted)
	if stats.FilesAdded+stats.FilesModified+stats.FilesRemoved+stats.FilesUnchanged > 0 {
		fmt.Printf("added: %d  modified: %d  removed: %d  unchanged: %d\n",
			stats.FilesAdded, stats.FilesModified, stats.FilesRemoved, stats.FilesUnchanged)
		fmt.Printf("entities removed: %d  relationships removed: %d\n",
			stats.EntitiesRemoved, stats.RelationshipsRemoved)
	}
	fmt.Printf("elapsed: %s\n", stats.UpdateTime)
	for _, e := range stats.Errors {
		fmt.Fprintf(os.Stderr, "  warn: %s\n", e)
	}
}
