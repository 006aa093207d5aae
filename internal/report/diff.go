package report

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/declscan/declscan/internal/extract"
)

// MismatchKind classifies a divergence between a report and its expectation.
type MismatchKind string

const (
	MismatchMissing       MismatchKind = "missing"
	MismatchExtra         MismatchKind = "extra"
	MismatchMisclassified MismatchKind = "misclassified"
)

// Mismatch identifies one missing, extra, or misclassified entity.
type Mismatch struct {
	Kind   MismatchKind
	Entity string
	Detail string
}

func (m Mismatch) String() string {
	if m.Detail == "" {
		return fmt.Sprintf("%s: %s", m.Kind, m.Entity)
	}
	return fmt.Sprintf("%s: %s\n%s", m.Kind, m.Entity, m.Detail)
}

// cmpOpts ignores unexported index state and positional metadata, so two
// reports compare by their declared symbol content.
func cmpOpts() []cmp.Option {
	return []cmp.Option{
		cmpopts.IgnoreUnexported(extract.Report{}),
		cmpopts.IgnoreFields(extract.Aggregate{}, "StartLine", "EndLine", "Forward"),
		cmpopts.IgnoreFields(extract.Function{}, "StartLine", "EndLine"),
		cmpopts.EquateEmpty(),
	}
}

// Compare diffs an extracted report against the expected one, entity by
// entity. An empty result means the report conforms.
func Compare(got, want *extract.Report) []Mismatch {
	var mismatches []Mismatch

	gotByName := aggregatesByCanonical(got)
	wantByName := aggregatesByCanonical(want)

	for _, wantAgg := range want.Aggregates {
		name := wantAgg.CanonicalName()
		gotAgg, ok := gotByName[name]
		if !ok {
			mismatches = append(mismatches, Mismatch{Kind: MismatchMissing, Entity: name})
			continue
		}
		if diff := cmp.Diff(wantAgg, gotAgg, cmpOpts()...); diff != "" {
			mismatches = append(mismatches, Mismatch{
				Kind:   MismatchMisclassified,
				Entity: name,
				Detail: diff,
			})
		}
	}

	for _, gotAgg := range got.Aggregates {
		name := gotAgg.CanonicalName()
		if _, ok := wantByName[name]; !ok {
			mismatches = append(mismatches, Mismatch{Kind: MismatchExtra, Entity: name})
		}
	}

	if diff := cmp.Diff(functionsByName(want), functionsByName(got), cmpOpts()...); diff != "" {
		mismatches = append(mismatches, Mismatch{
			Kind:   MismatchMisclassified,
			Entity: "functions",
			Detail: diff,
		})
	}

	return mismatches
}

func aggregatesByCanonical(r *extract.Report) map[string]*extract.Aggregate {
	out := make(map[string]*extract.Aggregate, len(r.Aggregates))
	for _, agg := range r.Aggregates {
		out[agg.CanonicalName()] = agg
	}
	return out
}

func functionsByName(r *extract.Report) map[string]extract.Function {
	out := make(map[string]extract.Function, len(r.Functions))
	for _, fn := range r.Functions {
		out[fn.Name] = fn
	}
	return out
}
