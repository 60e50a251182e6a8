package graph

// TopologicalOrder returns a linear ordering of the nodes using Kahn's
// algorithm, for static analysis and preview tooling. The execution
// engine does not consume this order because branch decisions are made at
// run time.
//
// The second return is false when the graph contains a cycle, in which
// case no order exists.
func (g *Graph) TopologicalOrder() ([]string, bool) {
	indegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		indegree[id] = len(g.reverse[id])
	}

	// Seed with zero-indegree nodes in declaration order so the result is
	// stable for a given definition.
	var queue []string
	for _, id := range g.order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		for _, next := range g.adjacency[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, false
	}
	return sorted, true
}
