package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declscan/declscan/internal/extract/cparser"
	"github.com/declscan/declscan/internal/refs"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print the aggregate-reference graph of a C file",
	Long: `Graph extracts a C file and prints one line per reference between
aggregates: inline nested definitions and pointer fields that resolve to an
aggregate in the same translation unit. A self-referential struct shows up
as an edge onto itself.

Example:
  declscan graph testdata/corpus/c/structs.c
`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	rep, err := cparser.New().ParseFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	g := refs.Build(rep)
	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s (%s via %s)\n", e.From, e.To, e.Kind, e.Field)
	}

	if verbose {
		order, err := g.Order()
		if err == nil {
			fmt.Printf("%d aggregates, %d references\n", order, len(g.Edges()))
		}
	}
	return nil
}
