package refs

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/declscan/declscan/internal/extract"
)

// EdgeKind classifies how one aggregate references another.
type EdgeKind string

const (
	// EdgeNested marks an inline nested definition used as a field type.
	EdgeNested EdgeKind = "nested"
	// EdgePointer marks a pointer field whose pointee is an aggregate.
	// A self-referential struct produces a pointer edge onto itself.
	EdgePointer EdgeKind = "pointer"
)

// Edge is one reference from an aggregate field to another aggregate.
type Edge struct {
	From  string
	To    string
	Field string
	Kind  EdgeKind
}

// Graph is the aggregate-reference graph of a symbol report.
type Graph struct {
	g        graph.Graph[string, string]
	edges    []Edge
	outgoing map[string][]Edge
}

// Build constructs the reference graph for a report: one vertex per
// aggregate (nested definitions included), one edge per nesting or resolved
// pointer reference.
func Build(r *extract.Report) *Graph {
	rg := &Graph{
		g:        graph.New(graph.StringHash, graph.Directed()),
		outgoing: make(map[string][]Edge),
	}

	for _, agg := range r.Aggregates {
		rg.addVertex(agg.CanonicalName())
	}

	for _, agg := range r.Aggregates {
		rg.addAggregateEdges(agg.CanonicalName(), agg)
	}

	sort.SliceStable(rg.edges, func(i, j int) bool {
		if rg.edges[i].From != rg.edges[j].From {
			return rg.edges[i].From < rg.edges[j].From
		}
		return rg.edges[i].Field < rg.edges[j].Field
	})
	return rg
}

func (rg *Graph) addAggregateEdges(from string, agg *extract.Aggregate) {
	for _, field := range agg.Fields {
		if field.Nested != nil {
			nested := field.Nested.CanonicalName()
			rg.addVertex(nested)
			rg.addEdge(Edge{From: from, To: nested, Field: field.Name, Kind: EdgeNested})
			// Nested definitions can reference aggregates too.
			rg.addAggregateEdges(nested, field.Nested)
		}
		if field.PointsTo != "" {
			rg.addVertex(field.PointsTo)
			rg.addEdge(Edge{From: from, To: field.PointsTo, Field: field.Name, Kind: EdgePointer})
		}
	}
}

func (rg *Graph) addVertex(name string) {
	// Duplicate vertices are fine; the hash keeps one.
	_ = rg.g.AddVertex(name)
}

func (rg *Graph) addEdge(e Edge) {
	// The backing graph may reject duplicates; the edge list is authoritative.
	_ = rg.g.AddEdge(e.From, e.To)
	rg.edges = append(rg.edges, e)
	rg.outgoing[e.From] = append(rg.outgoing[e.From], e)
}

// Edges returns every reference edge in a stable order.
func (rg *Graph) Edges() []Edge {
	return rg.edges
}

// References returns the outgoing reference edges of one aggregate.
func (rg *Graph) References(name string) []Edge {
	return rg.outgoing[name]
}

// SelfReferential reports whether an aggregate's link fields point back at
// the aggregate itself.
func (rg *Graph) SelfReferential(name string) bool {
	for _, e := range rg.outgoing[name] {
		if e.To == name && e.Kind == EdgePointer {
			return true
		}
	}
	return false
}

// Order returns the number of vertices in the graph.
func (rg *Graph) Order() (int, error) {
	return rg.g.Order()
}
