package graph

import (
	"fmt"
	"strings"
)

// Graph is an immutable, validated view of a chatflow definition. It is
// created once per chatflow version by Build and is safe for concurrent
// reads; a new definition produces a new Graph, never an in-place update.
type Graph struct {
	nodes     map[string]Node
	order     []string // node ids in declaration order
	edges     []Edge
	adjacency map[string][]string
	reverse   map[string][]string
	start     string
	endNodes  []string
	valid     bool
	errs      []string
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node ids in declaration order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Start returns the id of the single entry node, or "" if the graph has
// no unambiguous entry.
func (g *Graph) Start() string { return g.start }

// EndNodes returns the ids of nodes with no outgoing edges.
func (g *Graph) EndNodes() []string {
	out := make([]string, len(g.endNodes))
	copy(out, g.endNodes)
	return out
}

// Adjacency returns the ordered target ids of the node's outgoing edges.
func (g *Graph) Adjacency(id string) []string {
	targets := g.adjacency[id]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// Incoming returns the ordered source ids of the node's incoming edges.
func (g *Graph) Incoming(id string) []string {
	sources := g.reverse[id]
	out := make([]string, len(sources))
	copy(out, sources)
	return out
}

// OutgoingEdges returns the node's outgoing edges in declaration order,
// including branch labels.
func (g *Graph) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Reachable returns the ids reachable from the start node (the start
// itself included), in declaration order. Empty when the graph has no
// unambiguous start.
func (g *Graph) Reachable() []string {
	if g.start == "" {
		return nil
	}
	seen := map[string]bool{g.start: true}
	queue := []string{g.start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.adjacency[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	var out []string
	for _, id := range g.order {
		if seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// IsValid reports whether the graph passed structural validation.
func (g *Graph) IsValid() bool { return g.valid }

// Errors returns the ordered validation error messages.
func (g *Graph) Errors() []string {
	out := make([]string, len(g.errs))
	copy(out, g.errs)
	return out
}

// Err returns a StructuralError describing the validation failures, or
// nil if the graph is valid.
func (g *Graph) Err() error {
	if g.valid {
		return nil
	}
	return &StructuralError{Errors: g.Errors()}
}

// StructuralError reports that a graph failed structural validation. It
// is terminal: a chatflow whose graph carries a StructuralError must not
// be activated.
type StructuralError struct {
	Errors []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("invalid chatflow graph: %s", strings.Join(e.Errors, "; "))
}
