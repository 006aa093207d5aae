package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declscan/declscan/internal/extract"
)

func TestWriteLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	r := &extract.Report{
		FilePath: "demo.c",
		Language: "c",
	}
	r.Add(&extract.Aggregate{
		Tag:  "pair",
		Kind: "struct",
		Fields: []extract.Field{
			{Name: "a", Category: extract.CategoryInteger, CType: "int"},
			{Name: "b", Category: extract.CategoryInteger, CType: "int"},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, true))

	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo.c", loaded.FilePath)

	// The loaded report is re-indexed, so lookups work immediately.
	pair, ok := loaded.Lookup("pair")
	require.True(t, ok)
	assert.Len(t, pair.Fields, 2)
}

func TestWrite_CompactVsPretty(t *testing.T) {
	t.Parallel()

	r := &extract.Report{FilePath: "x.c", Language: "c"}

	var compact, pretty bytes.Buffer
	require.NoError(t, Write(&compact, r, false))
	require.NoError(t, Write(&pretty, r, true))

	assert.Less(t, compact.Len(), pretty.Len())
	assert.True(t, json.Valid(compact.Bytes()))
	assert.True(t, json.Valid(pretty.Bytes()))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
