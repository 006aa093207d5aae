package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declscan/declscan/internal/extract/cparser"
)

// Test Plan for Symbol Storage:
// - Persist a parsed report and read every aggregate back
// - Resolve a stored aggregate by tag and by typedef alias to the same row
// - Preserve field order, bit widths, and pointer targets across the round trip
// - Store enum constants and union variants in declaration order
// - Replace prior rows on rewrite so re-indexing a file is idempotent
// - Return ErrNotFound for unknown names

func populatedDB(t *testing.T) string {
	t.Helper()

	report, err := cparser.New().ParseFile(context.Background(), "../../testdata/corpus/c/structs.c")
	require.NoError(t, err)
	report.FilePath = "corpus/c/structs.c"

	dbPath := filepath.Join(t.TempDir(), "symbols.db")
	writer, err := NewSymbolWriter(dbPath)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.WriteReport(report))
	return dbPath
}

func TestStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	reader, err := NewSymbolReader(populatedDB(t))
	require.NoError(t, err)
	defer reader.Close()

	aggs, err := reader.ListAggregates()
	require.NoError(t, err)
	assert.Len(t, aggs, 10)

	var canonicals []string
	for _, agg := range aggs {
		canonicals = append(canonicals, agg.Canonical)
		assert.Equal(t, "corpus/c/structs.c", agg.FilePath)
		assert.Len(t, agg.Fields, agg.FieldCount)
	}
	assert.Equal(t, []string{
		"point", "person", "vector", "Config", "container",
		"Time", "flags", "data", "node", "operations",
	}, canonicals)
}

func TestStorage_LookupByEitherName(t *testing.T) {
	t.Parallel()

	reader, err := NewSymbolReader(populatedDB(t))
	require.NoError(t, err)
	defer reader.Close()

	byTag, err := reader.LookupAggregate("vector")
	require.NoError(t, err)
	byAlias, err := reader.LookupAggregate("Vector")
	require.NoError(t, err)

	assert.Equal(t, byTag.ID, byAlias.ID, "tag and alias must resolve to the same row")
	assert.Equal(t, "vector", byTag.Tag)
	assert.Equal(t, "Vector", byTag.Alias)
	assert.Equal(t, "vector", byTag.Canonical)
}

func TestStorage_FieldDetail(t *testing.T) {
	t.Parallel()

	reader, err := NewSymbolReader(populatedDB(t))
	require.NoError(t, err)
	defer reader.Close()

	flags, err := reader.LookupAggregate("flags")
	require.NoError(t, err)
	require.Len(t, flags.Fields, 4)
	for i, want := range []int{1, 1, 4, 2} {
		assert.Equal(t, i, flags.Fields[i].Position)
		assert.Equal(t, want, flags.Fields[i].BitWidth)
	}

	node, err := reader.LookupAggregate("Node")
	require.NoError(t, err)
	require.Len(t, node.Fields, 3)
	assert.Equal(t, "next", node.Fields[1].Name)
	assert.True(t, node.Fields[1].Pointer)
	assert.Equal(t, "node", node.Fields[1].PointsTo)
	assert.Equal(t, "node", node.Fields[2].PointsTo)

	ops, err := reader.LookupAggregate("operations")
	require.NoError(t, err)
	require.Len(t, ops.Fields, 3)
	assert.Equal(t, "function", ops.Fields[0].Category)
	assert.Equal(t, "int (int, int)", ops.Fields[0].Signature)
}

func TestStorage_EnumConstantsAndVariants(t *testing.T) {
	t.Parallel()

	reader, err := NewSymbolReader(populatedDB(t))
	require.NoError(t, err)
	defer reader.Close()

	data, err := reader.LookupAggregate("data")
	require.NoError(t, err)

	constants, err := reader.EnumConstantsFor(data.ID)
	require.NoError(t, err)
	require.Len(t, constants, 3)
	for i, want := range []string{"INT_TYPE", "FLOAT_TYPE", "STRING_TYPE"} {
		assert.Equal(t, want, constants[i].Name)
		assert.Equal(t, "type", constants[i].FieldName)
		assert.Equal(t, i, constants[i].Position)
	}

	variants, err := reader.UnionVariantsFor(data.ID)
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.Equal(t, "i", variants[0].Name)
	assert.Equal(t, "integer", variants[0].Category)
	assert.Equal(t, "f", variants[1].Name)
	assert.Equal(t, "s", variants[2].Name)
	assert.True(t, variants[2].Pointer)
}

func TestStorage_Functions(t *testing.T) {
	t.Parallel()

	reader, err := NewSymbolReader(populatedDB(t))
	require.NoError(t, err)
	defer reader.Close()

	fns, err := reader.ListFunctions()
	require.NoError(t, err)
	require.Len(t, fns, 5)

	byName := make(map[string]Function)
	for _, fn := range fns {
		byName[fn.Name] = fn
	}
	assert.Equal(t, "int (int, int)", byName["add_impl"].Signature)
	assert.Equal(t, "void ()", byName["example_usage"].Signature)
}

func TestStorage_RewriteIsIdempotent(t *testing.T) {
	t.Parallel()

	report, err := cparser.New().ParseFile(context.Background(), "../../testdata/corpus/c/structs.c")
	require.NoError(t, err)
	report.FilePath = "corpus/c/structs.c"

	dbPath := filepath.Join(t.TempDir(), "symbols.db")
	writer, err := NewSymbolWriter(dbPath)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.WriteReport(report))
	require.NoError(t, writer.WriteReport(report))

	reader, err := NewSymbolReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	aggs, err := reader.ListAggregates()
	require.NoError(t, err)
	assert.Len(t, aggs, 10, "rewriting the same file must not duplicate rows")

	fns, err := reader.ListFunctions()
	require.NoError(t, err)
	assert.Len(t, fns, 5)
}

func TestStorage_LookupNotFound(t *testing.T) {
	t.Parallel()

	reader, err := NewSymbolReader(populatedDB(t))
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.LookupAggregate("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
