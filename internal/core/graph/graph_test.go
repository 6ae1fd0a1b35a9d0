package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/lexigraph/internal/core/model"
)

func entities(ids ...string) []model.Entity {
	out := make([]model.Entity, len(ids))
	for i, id := range ids {
		out[i] = model.Entity{ID: id, Label: id}
	}
	return out
}

func edge(s, t string) model.Edge {
	return model.Edge{Source: s, Target: t, Relation: model.Tag("x"), Weight: 1}
}

func TestNew_SkipsUnknownEndpoints(t *testing.T) {
	g := New(entities("a", "b"), []model.Edge{edge("a", "b"), edge("a", "ghost"), edge("ghost", "b")})

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	require.Len(t, g.Edges(), 1)
	assert.Equal(t, "b", g.Edges()[0].Target)
}

func TestNew_ParallelEdgesCollapse(t *testing.T) {
	edges := []model.Edge{
		edge("a", "b"),
		{Source: "b", Target: "a", Relation: model.PartOfSpeech("noun"), Weight: 0.7},
		edge("a", "c"),
	}

	g := New(entities("a", "b", "c"), edges)

	assert.Equal(t, 2, g.EdgeCount())
	assert.Len(t, g.Edges(), 3)
	assert.Equal(t, 2, g.Degree("a"))
	assert.Equal(t, 1, g.Degree("b"))
	assert.Equal(t, 2, g.NeighborWeights("a")["b"])
	assert.Equal(t, []string{"b", "c"}, g.Neighbors("a"))
}

func TestDegree_SelfLoop(t *testing.T) {
	g := New(entities("a", "b"), []model.Edge{edge("a", "a")})

	assert.Equal(t, 2, g.Degree("a"))
	assert.Equal(t, 0, g.Degree("b"))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 0, g.Degree("missing"))
}

func TestNew_DuplicateNodeIDs(t *testing.T) {
	nodes := []model.Entity{{ID: "a", Label: "first"}, {ID: "b"}, {ID: "a", Label: "second"}}

	g := New(nodes, nil)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, []string{"a", "b"}, g.NodeIDs())
	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, "second", n.Label)
	_, ok = g.Node("zzz")
	assert.False(t, ok)
}

func TestComponents_TenNodesSixComponents(t *testing.T) {
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
	}
	edges := []model.Edge{edge("n0", "n1"), edge("n1", "n2"), edge("n2", "n3"), edge("n5", "n4")}

	comps := New(entities(ids...), edges).Components()

	require.Len(t, comps, 6)
	assert.Equal(t, []string{"n0", "n1", "n2", "n3"}, comps[0])
	assert.Equal(t, []string{"n4", "n5"}, comps[1])
	assert.Equal(t, []string{"n6"}, comps[2])
	assert.Equal(t, []string{"n9"}, comps[5])
}

func TestComponents_Empty(t *testing.T) {
	g := New(nil, nil)

	assert.Empty(t, g.Components())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Nodes())
}

func TestSortGroups_TieBreak(t *testing.T) {
	groups := [][]string{{"m", "n"}, {"c"}, {"b", "z"}, {"a"}}

	SortGroups(groups)

	assert.Equal(t, [][]string{{"b", "z"}, {"m", "n"}, {"a"}, {"c"}}, groups)
}

func TestNew_NonStringEndpointsNeverResolve(t *testing.T) {
	edges, err := model.DecodeEdges([]byte(`[
		{"source": 5, "target": "b", "relation": "tag:x", "weight": 0.6},
		{"source": "b", "target": null, "relation": "tag:x", "weight": 0.6}
	]`))
	require.NoError(t, err)
	nodes := []model.Entity{{ID: "5"}, {ID: "b"}, {ID: ""}}

	g := New(nodes, edges)

	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Edges())
	assert.Equal(t, 0, g.Degree("5"))
}
