package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/castgraph/pkg/graph"
)

var (
	headingColor = color.New(color.FgHiGreen, color.Bold)
	labelColor   = color.New(color.FgCyan)
	subtleColor  = color.New(color.FgHiBlack)
	warnColor    = color.New(color.FgYellow)
)

type statsReport struct {
	graph.Stats
	EdgesSource string             `json:"edges_source"`
	NodesSource string             `json:"nodes_source"`
	Top         []graph.RankedNode `json:"top_pagerank"`
	Names       map[string]string  `json:"names,omitempty"`
}

func statsCmd(g *globalOptions) *cobra.Command {
	var (
		asJSON bool
		top    int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the graph: counts, central characters, components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			st := s.graph.Stats()
			report := statsReport{
				Stats:       st,
				EdgesSource: s.from.Edges.String(),
				NodesSource: s.from.Nodes.String(),
				Top:         st.TopPageRank(top),
				Names:       make(map[string]string),
			}
			for _, rn := range report.Top {
				if n, ok := s.graph.Node(rn.ID); ok {
					report.Names[rn.ID] = s.graph.Label(n)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			writeStats(cmd.OutOrStdout(), report)
			printTimings(cmd)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	cmd.Flags().IntVar(&top, "top", 5, "Number of characters to list by PageRank")
	return cmd
}

func writeStats(w io.Writer, r statsReport) {
	headingColor.Fprintln(w, "castgraph stats")
	subtleColor.Fprintf(w, "  edges: %s\n  nodes: %s\n\n", r.EdgesSource, r.NodesSource)

	row := func(label string, v any) {
		labelColor.Fprintf(w, "  %-14s", label)
		fmt.Fprintf(w, "%v\n", v)
	}
	row("Characters", r.Nodes)
	row("Interactions", r.Links)
	row("Movies", r.Movies)
	row("Kinds", r.Interactions)
	row("Components", len(r.Components))

	if len(r.Missing) > 0 {
		warnColor.Fprintf(w, "\n  %d characters have no record: %s\n", len(r.Missing), strings.Join(r.Missing, ", "))
	}

	if len(r.Top) > 0 {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Most central (PageRank)")
		for i, rn := range r.Top {
			fmt.Fprintf(w, "  %d. %-24s %.4f  ", i+1, r.Names[rn.ID], rn.Score)
			subtleColor.Fprintf(w, "in %d  out %d\n", r.InDegree[rn.ID], r.OutDegree[rn.ID])
		}
	}

	if len(r.LinksByType) > 0 {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Interactions by kind")
		kinds := make([]string, 0, len(r.LinksByType))
		for k := range r.LinksByType {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool {
			if r.LinksByType[kinds[i]] != r.LinksByType[kinds[j]] {
				return r.LinksByType[kinds[i]] > r.LinksByType[kinds[j]]
			}
			return kinds[i] < kinds[j]
		})
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-24s %d\n", k, r.LinksByType[k])
		}
	}
}
