package graph

import (
	"fmt"
	"strings"
)

// Build constructs a Graph from ordered node and edge records and runs
// structural validation. It is pure and stateless: identical input always
// yields a structurally identical Graph. The returned Graph carries the
// validation outcome in IsValid/Errors; it never panics on bad input.
func Build(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:     make(map[string]Node, len(nodes)),
		adjacency: make(map[string][]string, len(nodes)),
		reverse:   make(map[string][]string, len(nodes)),
	}

	// Record errors for malformed records up front; the offending record
	// is skipped so the rest of the graph can still be analyzed.
	for _, n := range nodes {
		if _, dup := g.nodes[n.ID]; dup {
			g.errs = append(g.errs, fmt.Sprintf("duplicate node id: %s", n.ID))
			continue
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.Source]; !ok {
			g.errs = append(g.errs, fmt.Sprintf("edge %s -> %s references unknown node: %s", e.Source, e.Target, e.Source))
			continue
		}
		if _, ok := g.nodes[e.Target]; !ok {
			g.errs = append(g.errs, fmt.Sprintf("edge %s -> %s references unknown node: %s", e.Source, e.Target, e.Target))
			continue
		}
		g.edges = append(g.edges, e)
		g.adjacency[e.Source] = append(g.adjacency[e.Source], e.Target)
		g.reverse[e.Target] = append(g.reverse[e.Target], e.Source)
	}

	g.validate()
	return g
}

// validate aggregates structural checks in a fixed order so the error
// report is stable across builds of the same definition.
func (g *Graph) validate() {
	var starts, ends []string
	for _, id := range g.order {
		if len(g.reverse[id]) == 0 {
			starts = append(starts, id)
		}
		if len(g.adjacency[id]) == 0 {
			ends = append(ends, id)
		}
	}

	switch len(starts) {
	case 0:
		if len(g.order) > 0 {
			g.errs = append(g.errs, "no start node: every node has incoming edges")
		} else {
			g.errs = append(g.errs, "graph has no nodes")
		}
	case 1:
		g.start = starts[0]
	default:
		g.errs = append(g.errs, fmt.Sprintf("multiple start candidates: %s", strings.Join(starts, ", ")))
	}
	g.endNodes = ends

	if len(g.order) > 0 && len(ends) == 0 {
		g.errs = append(g.errs, "no end node: every node has outgoing edges")
	}

	if path, found := g.findCycle(); found {
		g.errs = append(g.errs, fmt.Sprintf("cycle detected: %s", strings.Join(append(path, path[0]), " -> ")))
	}

	if g.start != "" {
		if disconnected := g.disconnected(); len(disconnected) > 0 {
			g.errs = append(g.errs, fmt.Sprintf("disconnected nodes (unreachable from start): %s", strings.Join(disconnected, ", ")))
		}
	}

	for _, kind := range []Kind{KindTrigger, KindResponse} {
		if !g.hasKind(kind) {
			g.errs = append(g.errs, fmt.Sprintf("missing mandatory node kind: %s", kind))
		}
	}

	// A non-condition node with several outgoing edges has no way to pick
	// one; treat it as a structural defect instead of silently taking the
	// first edge.
	for _, id := range g.order {
		n := g.nodes[id]
		if n.Kind != KindCondition && len(g.adjacency[id]) > 1 {
			g.errs = append(g.errs, fmt.Sprintf("node %s is not a condition but has %d outgoing edges", id, len(g.adjacency[id])))
		}
		if n.Kind == KindCondition && len(g.adjacency[id]) > 0 {
			for _, label := range []string{"true", "false"} {
				if !g.hasBranch(id, label) {
					g.errs = append(g.errs, fmt.Sprintf("condition node %s has no outgoing edge labeled %q", id, label))
				}
			}
		}
	}

	g.valid = len(g.errs) == 0
}

// disconnected returns nodes unreachable from the start node, in
// declaration order.
func (g *Graph) disconnected() []string {
	reachable := make(map[string]bool)
	for _, id := range g.Reachable() {
		reachable[id] = true
	}

	var out []string
	for _, id := range g.order {
		if !reachable[id] {
			out = append(out, id)
		}
	}
	return out
}

func (g *Graph) hasKind(kind Kind) bool {
	for _, id := range g.order {
		if g.nodes[id].Kind == kind {
			return true
		}
	}
	return false
}

func (g *Graph) hasBranch(id, label string) bool {
	for _, e := range g.edges {
		if e.Source == id && e.BranchLabel == label {
			return true
		}
	}
	return false
}
