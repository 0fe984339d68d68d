package retrieval

import (
	"testing"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(t *testing.T, g *kg.Graph, sType, sText, pred, oType, oText string) {
	t.Helper()
	_, err := g.UpsertRelation(model.RelationRecord{
		Subject:    model.Endpoint{Type: sType, Text: sText},
		Predicate:  pred,
		Object:     model.Endpoint{Type: oType, Text: oText},
		Confidence: 0.5,
	})
	require.NoError(t, err)
}

// chain builds a -> b -> c -> d plus e -> b.
func chain(t *testing.T) *kg.Graph {
	g := kg.New()
	link(t, g, "GENE", "a", "p", "GENE", "b")
	link(t, g, "GENE", "b", "p", "GENE", "c")
	link(t, g, "GENE", "c", "p", "GENE", "d")
	link(t, g, "GENE", "e", "p", "GENE", "b")
	return g
}

func ids(g *kg.Graph) []string {
	var out []string
	for _, e := range g.Entities() {
		out = append(out, e.ID)
	}
	return out
}

func TestASCIITokenizer(t *testing.T) {
	tok := ASCIITokenizer{}
	cases := map[string][]string{
		"What genes are linked to diabetes?": {"what", "genes", "are", "linked", "to", "diabetes"},
		"IL-6 and TNF-α":                     {"il", "6", "and", "tnf"},
		"  ":                                 nil,
		"COVID19":                            {"covid19"},
	}
	for in, want := range cases {
		assert.Equal(t, want, tok.Tokenize(in), in)
	}
}

func TestIdentifyEntryNodes(t *testing.T) {
	g := kg.New()
	_, err := g.UpsertEntity(model.EntityRecord{Type: "DISEASE", Text: "Diabetes", NormalizedText: "diabetes"})
	require.NoError(t, err)
	_, err = g.UpsertEntity(model.EntityRecord{Type: "GENE", Text: "INS", NormalizedText: "ins"})
	require.NoError(t, err)
	_, err = g.UpsertRelation(model.RelationRecord{
		Subject:   model.Endpoint{ID: "PROTEIN:insulin", Type: "PROTEIN", Text: "Insulin"},
		Predicate: "p",
		Object:    model.Endpoint{ID: "GENE:ins", Type: "GENE"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"DISEASE:diabetes"}, IdentifyEntryNodes(g, []string{"diabetes"}))
	assert.Equal(t, []string{"GENE:ins", "PROTEIN:insulin"}, IdentifyEntryNodes(g, []string{"ins", "insulin"}))
	assert.Empty(t, IdentifyEntryNodes(g, []string{"", "cancer"}))
	assert.Empty(t, IdentifyEntryNodes(g, nil))
}

func TestTraverseDepthZero(t *testing.T) {
	g := chain(t)
	sub := Traverse(g, []string{"GENE:b", "GENE:missing"}, 0)
	assert.Equal(t, []string{"GENE:b"}, ids(sub))
	assert.Equal(t, 0, sub.EdgeCount())

	sub = Traverse(g, []string{"GENE:b"}, -3)
	assert.Equal(t, 1, sub.NodeCount())
}

func TestTraverseBothDirections(t *testing.T) {
	g := chain(t)
	sub := Traverse(g, []string{"GENE:b"}, 1)
	assert.ElementsMatch(t, []string{"GENE:a", "GENE:b", "GENE:c", "GENE:e"}, ids(sub))
	assert.Equal(t, 3, sub.EdgeCount())

	sub = Traverse(g, []string{"GENE:b"}, 2)
	assert.Equal(t, 5, sub.NodeCount())
	assert.Equal(t, 4, sub.EdgeCount())
}

func TestTraverseMonotonic(t *testing.T) {
	g := chain(t)
	prev := map[string]bool{}
	for depth := 0; depth <= 4; depth++ {
		sub := Traverse(g, []string{"GENE:a"}, depth)
		cur := map[string]bool{}
		for _, id := range ids(sub) {
			cur[id] = true
		}
		for id := range prev {
			assert.True(t, cur[id], "depth %d lost %s", depth, id)
		}
		prev = cur
	}
	assert.Len(t, prev, 5)
}

func TestTraverseDoesNotAliasSource(t *testing.T) {
	g := chain(t)
	sub := Traverse(g, []string{"GENE:a"}, 1)
	require.NoError(t, sub.AttachSourceToEntity("GENE:a", model.NewSourceRef("PMC1", "abstract", nil, g.Meta.CreatedAt)))

	srcs, err := g.EntitySources("GENE:a")
	require.NoError(t, err)
	assert.Empty(t, srcs)
}

func TestTraverseEmptyEntries(t *testing.T) {
	sub := Traverse(chain(t), nil, 3)
	assert.Equal(t, 0, sub.NodeCount())
}
