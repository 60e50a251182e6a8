package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: support-flow
description: routes help requests
nodes:
  - id: t1
    kind: trigger
  - id: c1
    kind: condition
    config:
      operator: contains
      value: help
  - id: r_true
    kind: response
    config:
      template: "How can I help?"
  - id: r_false
    kind: response
    config:
      template: "{{input}}"
edges:
  - source: t1
    target: c1
  - source: c1
    target: r_true
    branch_label: "true"
  - source: c1
    target: r_false
    branch_label: "false"
`

func TestFromYAML(t *testing.T) {
	def, err := FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "support-flow", def.Name)
	require.Len(t, def.Nodes, 4)
	require.Len(t, def.Edges, 3)
	assert.Equal(t, KindCondition, def.Nodes[1].Kind)
	assert.Equal(t, "help", def.Nodes[1].Config["value"])
	assert.Equal(t, "true", def.Edges[1].BranchLabel)
}

func TestDefinition_Build(t *testing.T) {
	def, err := FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	g, err := def.Build()
	require.NoError(t, err)
	assert.True(t, g.IsValid())
	assert.Equal(t, "t1", g.Start())
}

func TestDefinition_BuildInvalid(t *testing.T) {
	def := &Definition{
		Nodes: []Node{{ID: "t1", Kind: KindTrigger}},
	}

	g, err := def.Build()
	require.Error(t, err)
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.False(t, g.IsValid())
	assert.NotEmpty(t, structural.Errors)
}

func TestFromJSON(t *testing.T) {
	def, err := FromJSON([]byte(`{
		"name": "mini",
		"nodes": [
			{"id": "t1", "kind": "trigger"},
			{"id": "r1", "kind": "response", "config": {"template": "{{input}}"}}
		],
		"edges": [{"source": "t1", "target": "r1"}]
	}`))
	require.NoError(t, err)

	g, err := def.Build()
	require.NoError(t, err)
	assert.True(t, g.IsValid())
}

func TestLoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	def, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "support-flow", def.Name)

	out, err := def.ToYAML()
	require.NoError(t, err)
	reparsed, err := FromYAML(out)
	require.NoError(t, err)
	assert.Equal(t, def.Nodes, reparsed.Nodes)
	assert.Equal(t, def.Edges, reparsed.Edges)
}
