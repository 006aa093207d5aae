package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/declscan/declscan/internal/extract"
)

// Write encodes a symbol report as JSON.
func Write(w io.Writer, r *extract.Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Load reads a JSON symbol report, typically a golden file.
func Load(path string) (*extract.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	r := &extract.Report{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	r.Reindex()
	return r, nil
}
