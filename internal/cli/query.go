package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/declscan/declscan/internal/config"
	"github.com/declscan/declscan/internal/storage"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <name>",
	Short: "Look up a stored aggregate by tag or typedef alias",
	Long: `Query resolves an aggregate in the symbol database by either of its
names: asking for a struct tag or its typedef alias returns the same
entity. The aggregate is printed as JSON together with its ordered fields,
enum constants, and union variants.

Examples:
  declscan query node
  declscan query Node   # same entity as above
`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

// queryResult is the printable shape of one stored aggregate.
type queryResult struct {
	Aggregate *storage.Aggregate     `json:"aggregate"`
	Constants []storage.EnumConstant `json:"enum_constants,omitempty"`
	Variants  []storage.UnionVariant `json:"union_variants,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := config.NewLoader(rootDir).Load()
	if err != nil {
		return err
	}

	reader, err := storage.NewSymbolReader(cfg.DatabasePath(rootDir))
	if err != nil {
		return err
	}
	defer reader.Close()

	agg, err := reader.LookupAggregate(name)
	if err != nil {
		return err
	}

	constants, err := reader.EnumConstantsFor(agg.ID)
	if err != nil {
		return err
	}
	variants, err := reader.UnionVariantsFor(agg.ID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(queryResult{Aggregate: agg, Constants: constants, Variants: variants}); err != nil {
		return fmt.Errorf("failed to encode aggregate: %w", err)
	}
	return nil
}
