package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var (
	queryDepth     int
	queryJSON      bool
	neighborFilter string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print graph statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		k, cleanup, err := openKAG(cmd.Context(), cfg, true)
		defer cleanup()
		if err != nil {
			return err
		}

		st := k.Statistics()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "nodes:     %d\nedges:     %d\ndocuments: %d\n", st.NodeCount, st.EdgeCount, st.DocumentCount)
		printCounts(out, "entity types", st.EntityTypes)
		printCounts(out, "relation types", st.RelationTypes)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query QUESTION",
	Short: "Answer a question from the graph with citations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		k, cleanup, err := openKAG(cmd.Context(), cfg, true)
		defer cleanup()
		if err != nil {
			return err
		}

		var depth *int
		if cmd.Flags().Changed("depth") {
			depth = &queryDepth
		}
		res, err := k.Answer(cmd.Context(), args[0], depth)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if queryJSON {
			return writeJSON(out, res)
		}
		fmt.Fprintln(out, res.Answer)
		if len(res.Citations) > 0 {
			fmt.Fprintln(out, "\nCitations:")
			for _, c := range res.Citations {
				span := ""
				if c.StartPos != nil && c.EndPos != nil {
					span = fmt.Sprintf(" [%d:%d]", *c.StartPos, *c.EndPos)
				}
				fmt.Fprintf(out, "  - %s / %s%s\n", c.DocumentID, c.SectionName, span)
			}
		}
		return nil
	},
}

var neighborsCmd = &cobra.Command{
	Use:   "neighbors ENTITY_ID",
	Short: "List the relations touching an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		k, cleanup, err := openKAG(cmd.Context(), cfg, true)
		defer cleanup()
		if err != nil {
			return err
		}

		views, err := k.Neighbors(args[0], neighborFilter)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if queryJSON {
			return writeJSON(out, views)
		}
		for _, v := range views {
			arrow := "->"
			if v.Direction == "incoming" {
				arrow = "<-"
			}
			fmt.Fprintf(out, "%s %s %s (%s, %.2f)\n", arrow, v.Predicate, v.EntityID, v.EntityText, v.Confidence)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryDepth, "depth", 1, "Traversal depth around entry entities")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the result as JSON")
	neighborsCmd.Flags().StringVar(&neighborFilter, "predicate", "", "Only show relations with this predicate")
	neighborsCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the result as JSON")
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k, counts[k])
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "List clusters of densely related entities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		k, cleanup, err := openKAG(cmd.Context(), cfg, true)
		defer cleanup()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, c := range k.Communities() {
			fmt.Fprintf(out, "%d. %s (%d members)\n", i+1, c.Label, len(c.Members))
			for _, m := range c.Members {
				fmt.Fprintf(out, "   %s\n", m)
			}
		}
		return nil
	},
}
