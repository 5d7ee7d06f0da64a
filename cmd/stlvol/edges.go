package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/pkg/analysis"
	"github.com/philipparndt/stlvol/pkg/stl"
)

var (
	edgesCount    int
	edgesShortest bool
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "List the longest or shortest edges of an STL file",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges instead of longest")
}

func runEdges(cmd *cobra.Command, args []string) error {
	soup, err := stl.ReadFile(args[0])
	if err != nil {
		return err
	}

	result := analysis.Analyze(soup)

	var edges []analysis.EdgeInfo
	var title string
	if edgesShortest {
		edges = analysis.ShortestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	} else {
		edges = analysis.LongestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total edges in model: %d\n\n", result.EdgeCount)

	if len(edges) == 0 {
		fmt.Fprintln(out, "No edges found.")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-35s %-35s %-15s\n", "Index", "Start", "End", "Length")
	for i, edge := range edges {
		fmt.Fprintf(out, "%-6d %-35s %-35s %-15.6f\n",
			i+1,
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length)
	}
	return nil
}
