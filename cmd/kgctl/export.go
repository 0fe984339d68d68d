package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Push the graph to Memgraph",
	Long: `Replace this graph's copy in Memgraph (memgraph.uri) with the current
snapshot and print the resulting node and edge counts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		k, cleanup, err := openKAG(ctx, cfg, true)
		defer cleanup()
		if err != nil {
			return err
		}

		report, err := k.Export(ctx)
		if err != nil {
			return err
		}
		nodes, edges, err := k.Exporter.Count(ctx, report.GraphID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported graph %s: %d entities, %d relations, %d mentions (database holds %d nodes, %d edges)\n",
			report.GraphID, report.Entities, report.Relations, report.Mentions, nodes, edges)
		return nil
	},
}
