package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/declscan/declscan/internal/config"
	"github.com/declscan/declscan/internal/corpus"
	"github.com/declscan/declscan/internal/extract/cparser"
	"github.com/declscan/declscan/internal/storage"
)

var quietFlag bool

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Extract a corpus tree into the symbol database",
	Long: `Index discovers corpus source files under a directory, extracts their
aggregate declarations, and persists the symbols to a SQLite database
(.declscan/symbols.db by default).

File discovery follows the configured corpus and ignore glob patterns
(.declscan/config.yml, DECLSCAN_* environment overrides).

Examples:
  # Index the current directory
  declscan index

  # Index a corpus tree without progress output
  declscan index --quiet testdata/corpus
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runIndex(cmd *cobra.Command, args []string) error {
	dir := rootDir
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := config.NewLoader(dir).Load()
	if err != nil {
		return err
	}

	discovery, err := corpus.NewDiscovery(dir, cfg.Paths.Corpus, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("failed to compile corpus patterns: %w", err)
	}

	files, err := discovery.Discover()
	if err != nil {
		return fmt.Errorf("corpus discovery failed: %w", err)
	}
	if !quietFlag {
		log.Printf("Extracting %d corpus files...\n", len(files))
	}

	dbPath := cfg.DatabasePath(dir)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	writer, err := storage.NewSymbolWriter(dbPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	var bar *progressbar.ProgressBar
	if !quietFlag {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Extracting files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
		)
	}

	parser := cparser.New()
	aggregates, functions, failures := 0, 0, 0

	for _, file := range files {
		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			relPath = file
		}

		rep, err := parser.ParseFile(cmd.Context(), file)
		if err != nil {
			log.Printf("Warning: failed to extract %s: %v\n", relPath, err)
			failures++
			continue
		}
		rep.FilePath = filepath.ToSlash(relPath)

		if err := writer.WriteReport(rep); err != nil {
			return fmt.Errorf("failed to store %s: %w", relPath, err)
		}

		aggregates += len(rep.Aggregates)
		functions += len(rep.Functions)
		if bar != nil {
			bar.Add(1)
		}
	}

	if !quietFlag {
		fmt.Println()
		log.Printf("✓ Stored %d aggregates and %d functions from %d files (%d errors)\n",
			aggregates, functions, len(files)-failures, failures)
	}
	return nil
}
