package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Check Command:
// - Exit clean when the extraction matches the golden report
// - Resolve the default golden path from the source file name
// - Fail with a divergence error when the golden expectation differs
// - Fail when the source or golden file is missing

func runCommand(t *testing.T, args ...string) error {
	t.Helper()

	// Reset flag state between runs; cobra keeps it package-level.
	goldenFlag = ""
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCheck_Conforming(t *testing.T) {
	err := runCommand(t, "check", "../../testdata/corpus/c/structs.c")
	assert.NoError(t, err)
}

func TestCheck_ExplicitGolden(t *testing.T) {
	err := runCommand(t, "check",
		"--golden", "../../testdata/corpus/c/structs.golden.json",
		"../../testdata/corpus/c/structs.c")
	assert.NoError(t, err)
}

func TestCheck_Diverging(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "other.c")
	require.NoError(t, os.WriteFile(src, []byte("struct lone { int x; };"), 0o644))
	golden := filepath.Join(dir, "other.golden.json")
	require.NoError(t, os.WriteFile(golden, []byte(`{
  "file_path": "other.c",
  "language": "c",
  "aggregates": [
    {"tag": "expected", "kind": "struct", "fields": [{"name": "x", "category": "integer", "c_type": "int"}]}
  ],
  "functions": []
}`), 0o644))

	err := runCommand(t, "check", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diverges")
}

func TestCheck_MissingInputs(t *testing.T) {
	dir := t.TempDir()

	err := runCommand(t, "check", filepath.Join(dir, "absent.c"))
	assert.Error(t, err)

	src := filepath.Join(dir, "orphan.c")
	require.NoError(t, os.WriteFile(src, []byte("struct o { int x; };"), 0o644))
	err = runCommand(t, "check", src)
	assert.Error(t, err, "a source without a golden report cannot be checked")
}
