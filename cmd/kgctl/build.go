package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var buildCmd = &cobra.Command{
	Use:   "build FILE...",
	Short: "Ingest extraction output files into the graph",
	Long: `Ingest one or more JSON files of extraction output. Each file holds a single
document object or an array of them. Files are read concurrently and applied
in command-line order; the snapshot is saved only when every document is valid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	docs, err := readDocuments(ctx, args, cfg.Concurrency.BulkIngest)
	if err != nil {
		return err
	}

	k, cleanup, err := openKAG(ctx, cfg, false)
	defer cleanup()
	if err != nil {
		return err
	}

	reports, err := k.IngestDocuments(docs)
	if err != nil {
		return err
	}
	if err := k.Snapshot(ctx); err != nil {
		return err
	}

	rejected := 0
	for _, r := range reports {
		rejected += r.RejectedRelations
	}
	st := k.Statistics()
	logger.Info("build complete", "documents", len(reports), "rejected_relations", rejected)
	fmt.Fprintf(cmd.OutOrStdout(), "ingested %d documents: %d nodes, %d edges -> %s\n",
		len(reports), st.NodeCount, st.EdgeCount, cfg.Storage.Path)
	return nil
}

// readDocuments decodes every file with at most limit files in flight and
// returns the documents in argument order.
func readDocuments(ctx context.Context, paths []string, limit int) ([]model.Document, error) {
	perFile := make([][]model.Document, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs, err := decodeFile(path)
			if err != nil {
				return err
			}
			perFile[i] = docs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []model.Document
	for _, docs := range perFile {
		all = append(all, docs...)
	}
	return all, nil
}

func decodeFile(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []model.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return docs, nil
	}

	var doc model.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []model.Document{doc}, nil
}
