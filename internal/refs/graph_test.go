package refs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declscan/declscan/internal/extract"
	"github.com/declscan/declscan/internal/extract/cparser"
)

// Test Plan for Reference Graph:
// - Add one vertex per aggregate, nested definitions included
// - Add a nested edge for an inline struct field
// - Add pointer edges for resolved pointer fields, self-loops included
// - Detect self-referential aggregates
// - Return outgoing edges per aggregate and a stable full edge list

func TestGraph_FromCorpus(t *testing.T) {
	t.Parallel()

	report, err := cparser.New().ParseFile(context.Background(), "../../testdata/corpus/c/structs.c")
	require.NoError(t, err)

	g := Build(report)

	// 10 top-level aggregates plus the nested inner struct.
	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, 11, order)

	refs := g.References("container")
	require.Len(t, refs, 1)
	assert.Equal(t, Edge{From: "container", To: "inner", Field: "data", Kind: EdgeNested}, refs[0])

	refs = g.References("node")
	require.Len(t, refs, 2)
	for _, e := range refs {
		assert.Equal(t, "node", e.To)
		assert.Equal(t, EdgePointer, e.Kind)
	}

	assert.True(t, g.SelfReferential("node"))
	assert.False(t, g.SelfReferential("container"))
	assert.False(t, g.SelfReferential("point"))
}

func TestGraph_EdgeOrderIsStable(t *testing.T) {
	t.Parallel()

	r := &extract.Report{}
	r.Add(&extract.Aggregate{
		Tag:  "b",
		Kind: "struct",
		Fields: []extract.Field{
			{Name: "z", Category: extract.CategoryPointer, Pointer: true, PointsTo: "a"},
			{Name: "a", Category: extract.CategoryPointer, Pointer: true, PointsTo: "a"},
		},
	})
	r.Add(&extract.Aggregate{
		Tag:  "a",
		Kind: "struct",
		Fields: []extract.Field{
			{Name: "next", Category: extract.CategoryPointer, Pointer: true, PointsTo: "a"},
		},
	})

	g := Build(r)
	edges := g.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, "a", edges[0].From)
	assert.Equal(t, "b", edges[1].From)
	assert.Equal(t, "a", edges[1].Field)
	assert.Equal(t, "b", edges[2].From)
	assert.Equal(t, "z", edges[2].Field)
}

func TestGraph_NoEdgesForScalarFields(t *testing.T) {
	t.Parallel()

	r := &extract.Report{}
	r.Add(&extract.Aggregate{
		Tag:  "point",
		Kind: "struct",
		Fields: []extract.Field{
			{Name: "x", Category: extract.CategoryFloating, CType: "double"},
			{Name: "y", Category: extract.CategoryFloating, CType: "double"},
		},
	})

	g := Build(r)
	assert.Empty(t, g.Edges())
	assert.Empty(t, g.References("point"))
}
