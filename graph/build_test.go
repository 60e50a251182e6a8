package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearFlow() ([]Node, []Edge) {
	nodes := []Node{
		{ID: "t1", Kind: KindTrigger},
		{ID: "l1", Kind: KindLLM, Config: map[string]any{"model": "gpt-4o-mini"}},
		{ID: "r1", Kind: KindResponse, Config: map[string]any{"template": "{{l1}}"}},
	}
	edges := []Edge{
		{Source: "t1", Target: "l1"},
		{Source: "l1", Target: "r1"},
	}
	return nodes, edges
}

func TestBuild_LinearFlow(t *testing.T) {
	nodes, edges := linearFlow()
	g := Build(nodes, edges)

	require.True(t, g.IsValid(), "errors: %v", g.Errors())
	assert.Equal(t, "t1", g.Start())
	assert.Equal(t, []string{"r1"}, g.EndNodes())
	assert.Equal(t, []string{"l1"}, g.Adjacency("t1"))
	assert.Equal(t, []string{"l1"}, g.Incoming("r1"))
	assert.Nil(t, g.Err())
}

func TestBuild_MissingResponse(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "l1", Kind: KindLLM},
		},
		[]Edge{{Source: "t1", Target: "l1"}},
	)

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "missing mandatory node kind: response")
}

func TestBuild_TwoNodeCycle(t *testing.T) {
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

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "no start node: every node has incoming edges")
	assert.Contains(t, g.Errors(), "cycle detected: n1 -> n2 -> n1")
}

func TestBuild_MultipleStarts(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "t2", Kind: KindTrigger},
			{ID: "r1", Kind: KindResponse},
		},
		[]Edge{
			{Source: "t1", Target: "r1"},
			{Source: "t2", Target: "r1"},
		},
	)

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "multiple start candidates: t1, t2")
}

func TestBuild_DisconnectedCycle(t *testing.T) {
	// A valid core plus an unreachable two-node cycle: the cycle keeps
	// either orphan from being a start candidate, so both the cycle and
	// the disconnection are reported.
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "r1", Kind: KindResponse},
			{ID: "x", Kind: KindLLM},
			{ID: "y", Kind: KindLLM},
		},
		[]Edge{
			{Source: "t1", Target: "r1"},
			{Source: "x", Target: "y"},
			{Source: "y", Target: "x"},
		},
	)

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "cycle detected: x -> y -> x")
	assert.Contains(t, g.Errors(), "disconnected nodes (unreachable from start): x, y")
	assert.Equal(t, []string{"t1", "r1"}, g.Reachable())
}

func TestGraph_Reachable(t *testing.T) {
	g := Build(linearFlow())
	assert.Equal(t, g.NodeIDs(), g.Reachable())

	noStart := Build(
		[]Node{{ID: "n1", Kind: KindLLM}, {ID: "n2", Kind: KindLLM}},
		[]Edge{{Source: "n1", Target: "n2"}, {Source: "n2", Target: "n1"}},
	)
	assert.Nil(t, noStart.Reachable())
}

func TestBuild_DuplicateNodeID(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "t1", Kind: KindLLM},
			{ID: "r1", Kind: KindResponse},
		},
		[]Edge{{Source: "t1", Target: "r1"}},
	)

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "duplicate node id: t1")
	// The first t1 wins.
	n, ok := g.Node("t1")
	require.True(t, ok)
	assert.Equal(t, KindTrigger, n.Kind)
}

func TestBuild_UnknownEdgeEndpoint(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "r1", Kind: KindResponse},
		},
		[]Edge{
			{Source: "t1", Target: "r1"},
			{Source: "t1", Target: "ghost"},
		},
	)

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "edge t1 -> ghost references unknown node: ghost")
	// The bad edge is skipped, so t1 still has a single outgoing edge.
	assert.Equal(t, []string{"r1"}, g.Adjacency("t1"))
}

func TestBuild_AmbiguousOutgoingEdges(t *testing.T) {
	g := Build(
		[]Node{
			{ID: "t1", Kind: KindTrigger},
			{ID: "r1", Kind: KindResponse},
			{ID: "r2", Kind: KindResponse},
		},
		[]Edge{
			{Source: "t1", Target: "r1"},
			{Source: "t1", Target: "r2"},
		},
	)

	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "node t1 is not a condition but has 2 outgoing edges")
}

func TestBuild_ConditionBranchLabels(t *testing.T) {
	nodes := []Node{
		{ID: "t1", Kind: KindTrigger},
		{ID: "c1", Kind: KindCondition},
		{ID: "r_true", Kind: KindResponse},
		{ID: "r_false", Kind: KindResponse},
	}
	edges := []Edge{
		{Source: "t1", Target: "c1"},
		{Source: "c1", Target: "r_true", BranchLabel: "true"},
		{Source: "c1", Target: "r_false", BranchLabel: "false"},
	}
	g := Build(nodes, edges)
	require.True(t, g.IsValid(), "errors: %v", g.Errors())

	// Dropping the false label makes the condition undispatchable.
	edges[2].BranchLabel = ""
	g = Build(nodes, edges)
	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), `condition node c1 has no outgoing edge labeled "false"`)
}

func TestBuild_Idempotent(t *testing.T) {
	nodes, edges := linearFlow()
	first := Build(nodes, edges)
	second := Build(nodes, edges)

	assert.Equal(t, first.IsValid(), second.IsValid())
	assert.Equal(t, first.Errors(), second.Errors())
	assert.Equal(t, first.Start(), second.Start())
	assert.Equal(t, first.NodeIDs(), second.NodeIDs())
	assert.Equal(t, first.EndNodes(), second.EndNodes())
	for _, id := range first.NodeIDs() {
		assert.Equal(t, first.Adjacency(id), second.Adjacency(id))
		assert.Equal(t, first.Incoming(id), second.Incoming(id))
	}
}

func TestBuild_EmptyGraph(t *testing.T) {
	g := Build(nil, nil)
	require.False(t, g.IsValid())
	assert.Contains(t, g.Errors(), "graph has no nodes")
}

func TestGraph_AccessorsReturnCopies(t *testing.T) {
	nodes, edges := linearFlow()
	g := Build(nodes, edges)

	adj := g.Adjacency("t1")
	adj[0] = "mutated"
	assert.Equal(t, []string{"l1"}, g.Adjacency("t1"))

	errs := g.Errors()
	_ = append(errs, "extra")
	assert.Empty(t, g.Errors())
}
