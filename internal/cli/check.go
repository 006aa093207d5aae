package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/declscan/declscan/internal/extract/cparser"
	"github.com/declscan/declscan/internal/report"
)

var goldenFlag string

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a C file's symbol report against a golden expectation",
	Long: `Check parses a C source file and compares the extracted symbol report
against a golden JSON report. A conforming extraction produces no output
and exits zero; otherwise every missing, extra, or misclassified entity is
listed and the command exits nonzero.

The golden file defaults to <file minus extension>.golden.json.

Examples:
  declscan check testdata/corpus/c/structs.c
  declscan check --golden expected.json testdata/corpus/c/structs.c
`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&goldenFlag, "golden", "g", "", "Path to the golden report (default <file>.golden.json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	goldenPath := goldenFlag
	if goldenPath == "" {
		goldenPath = strings.TrimSuffix(filePath, ".c") + ".golden.json"
	}

	got, err := cparser.New().ParseFile(cmd.Context(), filePath)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	want, err := report.Load(goldenPath)
	if err != nil {
		return err
	}

	mismatches := report.Compare(got, want)
	if len(mismatches) == 0 {
		if verbose {
			fmt.Printf("%s: %d aggregates, %d functions, report conforms\n",
				filePath, len(got.Aggregates), len(got.Functions))
		}
		return nil
	}

	for _, m := range mismatches {
		fmt.Println(m.String())
	}
	return fmt.Errorf("report diverges from %s: %d mismatched entities", goldenPath, len(mismatches))
}
