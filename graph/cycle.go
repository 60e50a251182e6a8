package graph

// findCycle performs a DFS over the whole graph looking for a back edge.
// It returns the first cycle found as the node path [n1, n2, ..., nk]
// where nk has an edge back to n1. Traversal follows declaration order so
// the reported cycle is deterministic for a given definition.
func (g *Graph) findCycle() ([]string, bool) {
	visited := make(map[string]bool, len(g.order))
	onStack := make(map[string]bool, len(g.order))
	var stack []string

	var visit func(id string) ([]string, bool)
	visit = func(id string) ([]string, bool) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range g.adjacency[id] {
			if onStack[next] {
				// Back edge: the cycle is the suffix of the current DFS
				// path starting at the repeated node.
				for i, v := range stack {
					if v == next {
						path := make([]string, len(stack)-i)
						copy(path, stack[i:])
						return path, true
					}
				}
			}
			if !visited[next] {
				if path, found := visit(next); found {
					return path, true
				}
			}
		}

		onStack[id] = false
		stack = stack[:len(stack)-1]
		return nil, false
	}

	for _, id := range g.order {
		if !visited[id] {
			if path, found := visit(id); found {
				return path, true
			}
		}
	}
	return nil, false
}

// HasCycle reports whether the graph contains a directed cycle, along
// with one such cycle when present.
func (g *Graph) HasCycle() ([]string, bool) {
	return g.findCycle()
}
