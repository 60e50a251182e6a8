package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalOrder_LinearFlow(t *testing.T) {
	nodes, edges := linearFlow()
	g := Build(nodes, edges)

	order, ok := g.TopologicalOrder()
	require.True(t, ok)
	assert.Equal(t, []string{"t1", "l1", "r1"}, order)
}

func TestTopologicalOrder_Branching(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "c1", Kind: KindCondition},
			{ID: "a", Kind: KindResponse},
			{ID: "b", Kind: KindResponse},
		},
		[]Edge{
			{Source: "t1", Target: "c1"},
			{Source: "c1", Target: "a", BranchLabel: "true"},
			{Source: "c1", Target: "b", BranchLabel: "false"},
		},
	)

	order, ok := g.TopologicalOrder()
	require.True(t, ok)
	assert.Len(t, order, 4)
	// Declaration order is preserved among ready nodes.
	assert.Equal(t, []string{"t1", "c1", "a", "b"}, order)
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "n1", Kind: KindLLM},
			{ID: "n2", Kind: KindLLM},
		},
		[]Edge{
			{Source: "n1", Target: "n2"},
			{Source: "n2", Target: "n1"},
		},
	)

	order, ok := g.TopologicalOrder()
	assert.False(t, ok)
	assert.Nil(t, order)
}

func TestHasCycle_PathIsGenuine(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "a", Kind: KindLLM},
			{ID: "b", Kind: KindLLM},
			{ID: "c", Kind: KindLLM},
		},
		[]Edge{
			{Source: "t1", Target: "a"},
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "a"},
		},
	)

	path, found := g.HasCycle()
	require.True(t, found)
	require.NotEmpty(t, path)

	// Consecutive nodes are connected and the last loops back to the
	// first.
	for i := 0; i < len(path); i++ {
		next := path[(i+1)%len(path)]
		assert.Contains(t, g.Adjacency(path[i]), next,
			"edge %s -> %s missing from reported cycle", path[i], next)
	}
}
