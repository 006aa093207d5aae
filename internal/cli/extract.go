package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/declscan/declscan/internal/extract/cparser"
	"github.com/declscan/declscan/internal/report"
	"github.com/declscan/declscan/internal/watcher"
)

var (
	prettyFlag bool
	watchFlag  bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract aggregate declarations from a C file",
	Long: `Extract parses a C source file and prints its symbol report as JSON.

The report lists every aggregate entity with its canonical name (tag,
typedef alias, or both), ordered field descriptors, bit-field widths,
discriminator enum constants, overlaid-storage variants, and resolved
self-referential pointer links, plus the free-standing functions.

Examples:
  # Extract a single corpus file
  declscan extract testdata/corpus/c/structs.c

  # Pretty-print the report
  declscan extract --pretty testdata/corpus/c/structs.c

  # Re-extract whenever the file changes
  declscan extract --watch testdata/corpus/c/structs.c
`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVarP(&prettyFlag, "pretty", "p", false, "Indent JSON output")
	extractCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the file and re-extract on change")
}

func runExtract(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	parser := cparser.New()

	extractOnce := func(ctx context.Context) error {
		rep, err := parser.ParseFile(ctx, filePath)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		return report.Write(os.Stdout, rep, prettyFlag)
	}

	if !watchFlag {
		return extractOnce(cmd.Context())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := extractOnce(ctx); err != nil {
		return err
	}

	w, err := watcher.New([]string{filePath}, []string{filepath.Ext(filePath)})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx, func(files []string) {
		if err := extractOnce(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if verbose {
		log.Printf("Watching %s for changes...", filePath)
	}
	<-ctx.Done()
	return nil
}
